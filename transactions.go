package cryptofolio

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind identifies the kind of a canonical transaction operation.
type OperationKind int

// Operation kinds produced by the import layer.
const (
	Buy OperationKind = iota
	Sell
	FiatDeposit
	FiatWithdrawal
	Fee
	Receive
	Send
	ChainSplit
	Expense
	Stolen
	Lost
	Burn
	Income
	Airdrop
	Staking
	Cashback
	IncomingGift
	OutgoingGift
	RealizedProfit
	RealizedLoss
	Spam
	Trade
	Swap
)

var operationKindNames = map[OperationKind]string{
	Buy:            "buy",
	Sell:           "sell",
	FiatDeposit:    "fiat-deposit",
	FiatWithdrawal: "fiat-withdrawal",
	Fee:            "fee",
	Receive:        "receive",
	Send:           "send",
	ChainSplit:     "chain-split",
	Expense:        "expense",
	Stolen:         "stolen",
	Lost:           "lost",
	Burn:           "burn",
	Income:         "income",
	Airdrop:        "airdrop",
	Staking:        "staking",
	Cashback:       "cashback",
	IncomingGift:   "incoming-gift",
	OutgoingGift:   "outgoing-gift",
	RealizedProfit: "realized-profit",
	RealizedLoss:   "realized-loss",
	Spam:           "spam",
	Trade:          "trade",
	Swap:           "swap",
}

func (k OperationKind) String() string {
	if name, ok := operationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseOperationKind parses a string into an OperationKind.
func ParseOperationKind(s string) (OperationKind, error) {
	for kind, name := range operationKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown operation kind: %q", s)
}

// MarshalJSON encodes the kind by name.
func (k OperationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the kind from its name.
func (k *OperationKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	kind, err := ParseOperationKind(name)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Operation is one variant of the canonical operation union. Single-amount
// kinds carry Amount; Trade and Swap carry Incoming and Outgoing.
type Operation struct {
	Kind     OperationKind `json:"kind"`
	Amount   Amount        `json:"amount,omitempty"`
	Incoming Amount        `json:"incoming,omitempty"`
	Outgoing Amount        `json:"outgoing,omitempty"`
}

// NewOperation creates a single-amount operation.
func NewOperation(kind OperationKind, amount Amount) Operation {
	return Operation{Kind: kind, Amount: amount}
}

// NewTrade creates a Trade operation exchanging outgoing for incoming.
func NewTrade(incoming, outgoing Amount) Operation {
	return Operation{Kind: Trade, Incoming: incoming, Outgoing: outgoing}
}

// NewSwap creates a Swap operation: a non-taxable migration of outgoing
// into incoming that carries the cost basis over.
func NewSwap(incoming, outgoing Amount) Operation {
	return Operation{Kind: Swap, Incoming: incoming, Outgoing: outgoing}
}

// hasIncoming reports whether the operation moves an amount into the
// portfolio. Used by the ordering comparator: at equal timestamps,
// incoming funds must be booked before they can be spent.
func (o Operation) hasIncoming() bool {
	switch o.Kind {
	case Buy, FiatDeposit, Receive, ChainSplit, Income, Airdrop, Staking,
		Cashback, IncomingGift, RealizedProfit, Spam, Trade, Swap:
		return true
	case Sell, FiatWithdrawal, Fee, Send, Expense, Stolen, Lost, Burn,
		OutgoingGift, RealizedLoss:
		return false
	default:
		panic("unhandled operation kind: " + o.Kind.String())
	}
}

// Transaction is the canonical representation produced by the import
// layer. All fields except Gain are immutable inputs; Gain is written by
// the accounting pass.
type Transaction struct {
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	// Fee is an optional transaction-level fee, FeeValue its fiat value.
	Fee      *Amount `json:"fee,omitempty"`
	FeeValue *Amount `json:"fee_value,omitempty"`
	// Value is the fiat value of the transaction in the reporting
	// currency, pre-populated by the caller from the price history.
	Value *Amount `json:"value,omitempty"`
	// Index is the position of the transaction in the merged input.
	Index int `json:"index"`
	// MatchingTx links a Receive/Send to its counterpart transfer.
	MatchingTx *int `json:"matching_tx,omitempty"`
	// Gain is the realized net result, set by ProcessTransactions.
	Gain *Gain `json:"gain,omitempty"`
}

// Gain is the outcome of processing one transaction: a realized net gain
// in the reporting currency, or the first error encountered.
type Gain struct {
	Value decimal.Decimal `json:"value"`
	Err   *GainError      `json:"-"`
}

func okGain(value decimal.Decimal) *Gain { return &Gain{Value: value} }
func errGain(err *GainError) *Gain       { return &Gain{Err: err} }

// feeCurrency returns the currency of the transaction fee, or "" when
// there is none. Only used as the final ordering tie-breaker.
func (t *Transaction) feeCurrency() string {
	if t.Fee == nil {
		return ""
	}
	return strings.ToUpper(t.Fee.Currency)
}

// CompareTransactions is the canonical ordering of the transaction
// stream: ascending timestamp, then transactions with an incoming amount
// before outgoing-only ones, then (for two trades) ascending fee
// currency. Processing requires the input to be sorted this way.
func CompareTransactions(a, b *Transaction) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	ain, bin := a.Operation.hasIncoming(), b.Operation.hasIncoming()
	if ain != bin {
		if ain {
			return -1
		}
		return 1
	}
	if a.Operation.Kind == Trade && b.Operation.Kind == Trade {
		return strings.Compare(a.feeCurrency(), b.feeCurrency())
	}
	return 0
}

// SortTransactions sorts a merged transaction batch into canonical order
// and renumbers the indices.
func SortTransactions(txs []*Transaction) {
	slices.SortStableFunc(txs, CompareTransactions)
	for i, tx := range txs {
		tx.Index = i
	}
}
