package cryptofolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// unitPrice is the acquisition price of one unit of a lot. An acquisition
// without a usable fiat valuation still creates a lot (the quantity must
// be tracked for balance purposes); the missing valuation is kept as a
// latent error and only surfaces when the lot is disposed.
type unitPrice struct {
	price decimal.Decimal
	err   *GainError
}

func knownPrice(price decimal.Decimal) unitPrice { return unitPrice{price: price} }
func unknownPrice(err *GainError) unitPrice      { return unitPrice{err: err} }

// lot is a single acquisition of an asset, tracked until fully disposed.
type lot struct {
	Date      time.Time
	TxIndex   int
	UnitPrice unitPrice
	Remaining decimal.Decimal
}

// costBase returns the fiat cost attributed to the undisposed remainder
// of the lot, treating an unknown unit price as zero.
func (l lot) costBase() decimal.Decimal {
	if l.UnitPrice.err != nil {
		return decimal.Zero
	}
	return l.UnitPrice.price.Mul(l.Remaining)
}

// lots is a FIFO queue of open lots for one asset, ordered by acquisition
// time: acquisitions append at the tail, disposals consume from the head.
type lots []lot

func (l lots) balance() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range l {
		total = total.Add(entry.Remaining)
	}
	return total
}

func (l lots) costBase() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range l {
		total = total.Add(entry.costBase())
	}
	return total
}
