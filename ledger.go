package cryptofolio

import (
	"golang.org/x/exp/maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// longTermHolding is the holding period beyond which a realized gain is
// classified as long-term. The boundary is strict: exactly 365 days is
// still short-term.
const longTermHolding = 365 * 24 * time.Hour

// CapitalGain is one realized (lot, disposal) pairing. A single disposal
// spanning several lots yields one record per lot touched.
type CapitalGain struct {
	BoughtAt      time.Time       `json:"bought_at"`
	BoughtTxIndex int             `json:"bought_tx_index"`
	SoldAt        time.Time       `json:"sold_at"`
	SoldTxIndex   int             `json:"sold_tx_index"`
	Amount        Amount          `json:"amount"`
	Cost          decimal.Decimal `json:"cost"`
	Proceeds      decimal.Decimal `json:"proceeds"`
}

// Profit returns proceeds minus cost basis.
func (g CapitalGain) Profit() decimal.Decimal { return g.Proceeds.Sub(g.Cost) }

// LongTerm reports whether the holding period exceeds 365 days.
func (g CapitalGain) LongTerm() bool {
	return g.SoldAt.Sub(g.BoughtAt) > longTermHolding
}

// Ledger tracks open tax lots per asset and realizes capital gains using
// FIFO cost-basis accounting. It is an ordinary mutable structure with no
// internal locking: one accounting pass must own it exclusively.
type Ledger struct {
	reportingCurrency string
	holdings          map[string]lots
}

// NewLedger creates an empty ledger reporting in the given fiat currency.
func NewLedger(reportingCurrency string) *Ledger {
	return &Ledger{
		reportingCurrency: reportingCurrency,
		holdings:          make(map[string]lots),
	}
}

// ReportingCurrency returns the fiat currency gains are expressed in.
func (l *Ledger) ReportingCurrency() string { return l.reportingCurrency }

// fiatValue validates an attached valuation: it must be present and
// denominated in the reporting currency.
func (l *Ledger) fiatValue(value *Amount) (decimal.Decimal, *GainError) {
	if value == nil {
		return decimal.Zero, newGainError(MissingFiatValue)
	}
	if value.TokenID != "" || !value.Is(l.reportingCurrency) {
		return decimal.Zero, newGainError(InvalidFiatValue)
	}
	return value.Quantity, nil
}

// Acquire appends a new lot to the tail of the asset's queue. A zero
// quantity is a no-op (and guards the later division). Acquire always
// succeeds: a missing or invalid valuation is stored as a latent error in
// the lot and only surfaces when the lot is disposed.
func (l *Ledger) Acquire(amount Amount, value *Amount, when time.Time, txIndex int) (decimal.Decimal, *GainError) {
	if amount.Quantity.IsZero() {
		return decimal.Zero, nil
	}

	price := unknownPrice(nil)
	if fiat, err := l.fiatValue(value); err != nil {
		price = unknownPrice(err)
	} else {
		price = knownPrice(fiat.Div(amount.Quantity))
	}

	key := amount.Key()
	l.holdings[key] = append(l.holdings[key], lot{
		Date:      when,
		TxIndex:   txIndex,
		UnitPrice: price,
		Remaining: amount.Quantity,
	})
	return decimal.Zero, nil
}

// Dispose consumes up to amount.Quantity from the asset's queue, oldest
// lot first, and returns one CapitalGain per lot touched.
//
// The returned error depends on what went wrong:
//   - InvalidTransactionOrder or InsufficientBalance: no records are
//     returned, but lots already consumed during the call stay consumed.
//     The queue is not rolled back.
//   - MissingCostBase: a consumed lot had no valid acquisition price; the
//     records are still returned (with zero cost for the affected lots)
//     alongside the error.
//   - MissingFiatValue or InvalidFiatValue: no proceeds valuation was
//     available; records are returned with zero proceeds alongside the
//     error.
func (l *Ledger) Dispose(amount Amount, value *Amount, when time.Time, txIndex int) ([]CapitalGain, *GainError) {
	if amount.Quantity.IsZero() {
		return nil, nil
	}

	fiat, fiatErr := l.fiatValue(value)
	soldUnitPrice := decimal.Zero
	if fiatErr == nil {
		soldUnitPrice = fiat.Div(amount.Quantity)
	}

	gains, err := l.consume(amount, soldUnitPrice, when, txIndex)
	if err != nil {
		return gains, err
	}
	return gains, fiatErr
}

// consume walks the asset's lot queue from the head, matching the
// requested quantity against the oldest lots.
func (l *Ledger) consume(amount Amount, soldUnitPrice decimal.Decimal, when time.Time, txIndex int) ([]CapitalGain, *GainError) {
	key := amount.Key()
	queue := l.holdings[key]
	needed := amount.Quantity

	var gains []CapitalGain
	var costBaseErr *GainError

	for needed.IsPositive() {
		if len(queue) == 0 {
			delete(l.holdings, key)
			return nil, &GainError{
				Code:      InsufficientBalance,
				Shortfall: Amount{Quantity: needed, Currency: amount.Currency, TokenID: amount.TokenID},
			}
		}

		head := &queue[0]
		if head.Date.After(when) {
			l.holdings[key] = queue
			return nil, newGainError(InvalidTransactionOrder)
		}

		processed := decimal.Min(head.Remaining, needed)
		cost := decimal.Zero
		if head.UnitPrice.err != nil {
			costBaseErr = newGainError(MissingCostBase)
		} else {
			cost = processed.Mul(head.UnitPrice.price)
		}

		gains = append(gains, CapitalGain{
			BoughtAt:      head.Date,
			BoughtTxIndex: head.TxIndex,
			SoldAt:        when,
			SoldTxIndex:   txIndex,
			Amount:        Amount{Quantity: processed, Currency: amount.Currency, TokenID: amount.TokenID},
			Cost:          cost,
			Proceeds:      processed.Mul(soldUnitPrice),
		})

		needed = needed.Sub(processed)
		if head.Remaining.Equal(processed) {
			queue = queue[1:]
		} else {
			head.Remaining = head.Remaining.Sub(processed)
		}
	}

	if len(queue) == 0 {
		delete(l.holdings, key)
	} else {
		l.holdings[key] = queue
	}
	return gains, costBaseErr
}

// Swap implements a non-taxable basis transfer, e.g. a token migration.
// The outgoing asset is disposed at zero proceeds solely to harvest the
// original (timestamp, cost) pairs, and for every matched lot an
// equivalent quantity of the incoming asset is re-acquired dated at the
// original acquisition. No gain or loss is realized by the swap itself.
func (l *Ledger) Swap(outgoing, incoming Amount, when time.Time, txIndex int) (decimal.Decimal, *GainError) {
	if outgoing.Quantity.IsZero() && incoming.Quantity.IsZero() {
		return decimal.Zero, nil
	}
	if outgoing.Quantity.IsZero() || incoming.Quantity.IsZero() {
		return decimal.Zero, newGainError(InvalidSwap)
	}

	zero := A(0, l.reportingCurrency)
	gains, err := l.Dispose(outgoing, &zero, when, txIndex)
	if err != nil && err.Code != MissingCostBase {
		return decimal.Zero, err
	}

	ratio := incoming.Quantity.Div(outgoing.Quantity)
	for _, g := range gains {
		migrated := Amount{
			Quantity: g.Amount.Quantity.Mul(ratio),
			Currency: incoming.Currency,
			TokenID:  incoming.TokenID,
		}
		basis := A(g.Cost, l.reportingCurrency)
		l.Acquire(migrated, &basis, g.BoughtAt, g.BoughtTxIndex)
	}
	return decimal.Zero, err
}

// Balance returns the tracked balance of an asset: the sum of the
// remaining quantities across its open lots.
func (l *Ledger) Balance(key string) decimal.Decimal {
	return l.holdings[key].balance()
}

// CostBase returns the fiat cost attributed to the open lots of an asset,
// treating lots with an unknown acquisition price as zero cost.
func (l *Ledger) CostBase(key string) decimal.Decimal {
	return l.holdings[key].costBase()
}

// Assets returns the keys of all assets with open lots, sorted.
func (l *Ledger) Assets() []string {
	keys := maps.Keys(l.holdings)
	slices.Sort(keys)
	return keys
}
