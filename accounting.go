package cryptofolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// An AccountingSystem combines the tax-lot ledger with the price history
// it is valued against. It is the main entry point of this package: feed
// it the canonical transaction stream and it attaches a net gain to every
// transaction and returns the full list of realized capital gains.
type AccountingSystem struct {
	Ledger *Ledger
	Prices *PriceHistory
}

// NewAccountingSystem creates an empty system reporting in the given fiat
// currency.
func NewAccountingSystem(reportingCurrency string) *AccountingSystem {
	return &AccountingSystem{
		Ledger: NewLedger(reportingCurrency),
		Prices: NewPriceHistory(reportingCurrency),
	}
}

// isFiat reports whether the amount is plain reporting-currency fiat.
// Fiat is not lot-tracked: it has no cost basis of its own.
func (s *AccountingSystem) isFiat(a Amount) bool {
	return a.TokenID == "" && a.Is(s.Ledger.reportingCurrency)
}

// PopulateValues fills in missing fiat valuations from the price history.
// Existing values (typically carried over from the source exchange) are
// left untouched. Transactions whose asset has no usable price estimate
// keep a nil value and will surface MissingFiatValue during processing.
func (s *AccountingSystem) PopulateValues(txs []*Transaction) {
	for _, tx := range txs {
		op := &tx.Operation
		switch op.Kind {
		case Trade:
			if tx.Value == nil {
				if v, ok := s.Prices.EstimateValue(op.Outgoing, tx.Timestamp); ok {
					tx.Value = &v
				} else if v, ok := s.Prices.EstimateValue(op.Incoming, tx.Timestamp); ok {
					tx.Value = &v
				}
			}
		case Swap, FiatDeposit, FiatWithdrawal, Receive, Send:
			// No valuation needed: swaps carry basis over, fiat moves and
			// matched transfers are not taxable events.
		default:
			if tx.Value == nil {
				if v, ok := s.Prices.EstimateValue(op.Amount, tx.Timestamp); ok {
					tx.Value = &v
				}
			}
		}
		if tx.Fee != nil && tx.FeeValue == nil {
			if v, ok := s.Prices.EstimateValue(*tx.Fee, tx.Timestamp); ok {
				tx.FeeValue = &v
			}
		}
	}
}

// ProcessTransactions drives the ledger across the transaction stream and
// returns all realized capital gains, in disposal order. The batch is
// first sorted into canonical order (and re-indexed); each transaction
// gets its Gain field set to the realized net result or the first error
// encountered. An error on one transaction does not stop the run: errors
// are local annotations, and the ledger state after transaction k is
// always self-consistent.
func (s *AccountingSystem) ProcessTransactions(txs []*Transaction) []CapitalGain {
	SortTransactions(txs)

	var gains []CapitalGain
	for _, tx := range txs {
		s.processTransaction(tx, &gains)
	}
	return gains
}

func (s *AccountingSystem) processTransaction(tx *Transaction, gains *[]CapitalGain) {
	fee, feeValue := tx.Fee, tx.FeeValue
	tx.Gain = nil

	// foldFee absorbs the transaction fee into a disposal leg when both
	// the amounts and their fiat values are summable. Folding the fee into
	// the disposed quantity rolls it into the cost basis instead of
	// creating a separate disposal event.
	foldFee := func(amount Amount, value *Amount) (Amount, *Amount) {
		if fee == nil || feeValue == nil || value == nil {
			return amount, value
		}
		sum, ok := amount.TryAdd(*fee)
		if !ok {
			return amount, value
		}
		valueSum, ok := value.TryAdd(*feeValue)
		if !ok {
			return amount, value
		}
		fee, feeValue = nil, nil
		return sum, &valueSum
	}

	op := tx.Operation
	switch op.Kind {
	case Staking, ChainSplit:
		// Staking rewards and chain splits are zero-cost acquisitions.
		if !s.isFiat(op.Amount) {
			zero := A(0, s.Ledger.reportingCurrency)
			value, err := s.Ledger.Acquire(op.Amount, &zero, tx.Timestamp, tx.Index)
			tx.Gain = resultGain(value, err)
		}

	case Airdrop, Buy, Cashback, Income, IncomingGift, RealizedProfit, Spam:
		if !s.isFiat(op.Amount) {
			value, err := s.Ledger.Acquire(op.Amount, tx.Value, tx.Timestamp, tx.Index)
			tx.Gain = resultGain(value, err)
		}

	case Trade:
		// Crypto-to-crypto is handled as if the outgoing asset were sold
		// for fiat and the incoming asset bought with that same fiat:
		// both legs share the trade's single fiat value.
		outgoing, value := foldFee(op.Outgoing, tx.Value)
		if !s.isFiat(outgoing) {
			gain, err := s.disposeHoldings(gains, outgoing, value, tx.Timestamp, tx.Index)
			tx.Gain = resultGain(gain, err)
		}
		if !s.isFiat(op.Incoming) {
			if _, err := s.Ledger.Acquire(op.Incoming, value, tx.Timestamp, tx.Index); err != nil && tx.Gain == nil {
				tx.Gain = errGain(err)
			}
		}

	case Swap:
		s.processSwap(tx, op, gains)

	case Fee, Expense, Sell, OutgoingGift, RealizedLoss:
		if !s.isFiat(op.Amount) {
			amount, value := foldFee(op.Amount, tx.Value)
			gain, err := s.disposeHoldings(gains, amount, value, tx.Timestamp, tx.Index)
			tx.Gain = resultGain(gain, err)
		}

	case Stolen, Lost, Burn:
		// Lost for nothing: zero proceeds against the full cost basis.
		if !s.isFiat(op.Amount) {
			zero := A(0, s.Ledger.reportingCurrency)
			gain, err := s.disposeHoldings(gains, op.Amount, &zero, tx.Timestamp, tx.Index)
			tx.Gain = resultGain(gain, err)
		}

	case FiatDeposit, FiatWithdrawal:
		// Fiat is not lot-tracked.

	case Receive, Send:
		// Matched transfers move assets between own wallets; unmatched
		// ones should have been imported as Buy/Sell.
		if tx.MatchingTx == nil {
			panic("transfer without a matching counterpart")
		}

	default:
		panic("unhandled operation kind: " + op.Kind.String())
	}

	// A fee that was not folded into the primary disposal is a small
	// disposal of its own.
	if fee != nil && !s.isFiat(*fee) {
		gain, err := s.disposeHoldings(gains, *fee, feeValue, tx.Timestamp, tx.Index)
		switch {
		case err != nil:
			if tx.Gain == nil {
				tx.Gain = errGain(err)
			}
		case tx.Gain == nil:
			tx.Gain = okGain(gain)
		case tx.Gain.Err == nil:
			tx.Gain.Value = tx.Gain.Value.Add(gain)
		}
	}
}

// processSwap handles the Swap variant. Both sides non-fiat is the
// supported basis transfer; swapping to or from fiat is not, in which
// case the non-fiat sides are still booked as ordinary dispose/acquire so
// balances stay consistent, and the transaction is flagged.
func (s *AccountingSystem) processSwap(tx *Transaction, op Operation, gains *[]CapitalGain) {
	incomingFiat, outgoingFiat := s.isFiat(op.Incoming), s.isFiat(op.Outgoing)
	if !incomingFiat && !outgoingFiat {
		value, err := s.Ledger.Swap(op.Outgoing, op.Incoming, tx.Timestamp, tx.Index)
		tx.Gain = resultGain(value, err)
		return
	}

	if !outgoingFiat {
		s.disposeHoldings(gains, op.Outgoing, tx.Value, tx.Timestamp, tx.Index)
	}
	if !incomingFiat {
		s.Ledger.Acquire(op.Incoming, tx.Value, tx.Timestamp, tx.Index)
	}
	tx.Gain = errGain(newGainError(InvalidFiatValue))
}

// disposeHoldings wraps Ledger.Dispose for the processing loop: realized
// records are collected into the global list and the summed net gain is
// returned. Records from a disposal that failed with MissingCostBase are
// discarded; records missing only a proceeds valuation are kept (with
// zero proceeds) alongside the error.
func (s *AccountingSystem) disposeHoldings(all *[]CapitalGain, amount Amount, value *Amount, when time.Time, txIndex int) (decimal.Decimal, *GainError) {
	records, err := s.Ledger.Dispose(amount, value, when, txIndex)
	if err != nil {
		switch err.Code {
		case MissingFiatValue, InvalidFiatValue:
			*all = append(*all, records...)
		}
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, g := range records {
		total = total.Add(g.Profit())
	}
	*all = append(*all, records...)
	return total, nil
}

func resultGain(value decimal.Decimal, err *GainError) *Gain {
	if err != nil {
		return errGain(err)
	}
	return okGain(value)
}
