package cryptofolio

import "fmt"

// GainErrorCode identifies the reason a gain computation failed.
type GainErrorCode int

const (
	// InvalidTransactionOrder means a disposal was fed before the
	// acquisition of the lot it would consume. Caller bug: transactions
	// must arrive in non-decreasing timestamp order.
	InvalidTransactionOrder GainErrorCode = iota
	// MissingFiatValue means no fiat valuation was attached where one was
	// required.
	MissingFiatValue
	// MissingCostBase means a consumed lot itself lacked a valid
	// acquisition price.
	MissingCostBase
	// InvalidFiatValue means the attached valuation was not denominated in
	// the reporting currency.
	InvalidFiatValue
	// InvalidSwap means a swap had exactly one zero-quantity side.
	InvalidSwap
	// InsufficientBalance means a disposal exceeded the tracked balance.
	// It signals an upstream data gap (an earlier acquisition was never
	// imported), not a transient condition.
	InsufficientBalance
)

func (c GainErrorCode) String() string {
	switch c {
	case InvalidTransactionOrder:
		return "invalid transaction order"
	case MissingFiatValue:
		return "missing fiat value"
	case MissingCostBase:
		return "missing cost base"
	case InvalidFiatValue:
		return "invalid fiat value"
	case InvalidSwap:
		return "invalid swap"
	case InsufficientBalance:
		return "insufficient balance"
	default:
		return "unknown gain error"
	}
}

// GainError is the typed failure attached to a transaction whose gain
// could not be computed.
type GainError struct {
	Code GainErrorCode
	// Shortfall carries the unmatched remainder for InsufficientBalance.
	Shortfall Amount
}

func (e *GainError) Error() string {
	if e.Code == InsufficientBalance {
		return fmt.Sprintf("%s: %s not covered by holdings", e.Code, e.Shortfall)
	}
	return e.Code.String()
}

func newGainError(code GainErrorCode) *GainError { return &GainError{Code: code} }
