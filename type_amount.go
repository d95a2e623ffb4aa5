package cryptofolio

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a quantity of an asset or currency.
//
// A non-empty TokenID marks a non-fungible unit: its quantity is fixed at
// one and it is tracked separately from the fungible balance of the same
// symbol.
type Amount struct {
	Quantity decimal.Decimal `json:"quantity"`
	Currency string          `json:"currency"`
	TokenID  string          `json:"token_id,omitempty"`
}

// A creates a fungible Amount.
func A[T float32 | float64 | int | int64 | decimal.Decimal](quantity T, currency string) Amount {
	return Amount{Quantity: newDecimal(quantity), Currency: currency}
}

// newDecimal is a convenient factory for decimal.Decimal.
func newDecimal[T float32 | float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Key returns the lookup key under which this amount's asset is tracked.
// Non-fungible units are keyed as "tokenID:SYMBOL" so that each token has
// its own lot queue.
func (a Amount) Key() string {
	symbol := strings.ToUpper(a.Currency)
	if a.TokenID != "" {
		return a.TokenID + ":" + symbol
	}
	return symbol
}

// TryAdd returns the sum of two amounts. Amounts are only summable when
// neither carries a token ID and the currencies match.
func (a Amount) TryAdd(b Amount) (Amount, bool) {
	if a.TokenID != "" || b.TokenID != "" {
		return Amount{}, false
	}
	if !strings.EqualFold(a.Currency, b.Currency) {
		return Amount{}, false
	}
	return Amount{Quantity: a.Quantity.Add(b.Quantity), Currency: a.Currency}, true
}

// IsZero reports whether the amount's quantity is zero.
func (a Amount) IsZero() bool { return a.Quantity.IsZero() }

// Is reports whether the amount is denominated in the given currency.
func (a Amount) Is(currency string) bool {
	return strings.EqualFold(a.Currency, currency)
}

func (a Amount) String() string {
	if a.TokenID != "" {
		return a.Quantity.String() + " " + a.TokenID + ":" + a.Currency
	}
	return a.Quantity.String() + " " + a.Currency
}
