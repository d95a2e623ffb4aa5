package cryptofolio

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeTransactions(t *testing.T) {
	input := `
{"timestamp":"2022-01-02T00:00:00Z","operation":{"kind":"sell","amount":{"quantity":1,"currency":"BTC"}},"value":{"quantity":500,"currency":"EUR"}}

{"timestamp":"2022-01-01T00:00:00Z","operation":{"kind":"buy","amount":{"quantity":2,"currency":"BTC"}},"value":{"quantity":800,"currency":"EUR"}}
`
	txs, err := DecodeTransactions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeTransactions failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2 (empty lines skipped)", len(txs))
	}
	// Decoding sorts into canonical order and re-indexes.
	if txs[0].Operation.Kind != Buy || txs[0].Index != 0 {
		t.Errorf("first transaction = %s index %d, want buy index 0", txs[0].Operation.Kind, txs[0].Index)
	}
	if !txs[0].Operation.Amount.Quantity.Equal(newDecimal(2)) {
		t.Errorf("buy quantity = %s, want 2", txs[0].Operation.Amount.Quantity)
	}
	if txs[1].Value == nil || !txs[1].Value.Quantity.Equal(newDecimal(500)) {
		t.Errorf("sell value = %v, want 500 EUR", txs[1].Value)
	}
}

func TestDecodeTransactions_Invalid(t *testing.T) {
	if _, err := DecodeTransactions(strings.NewReader(`{"operation":{"kind":"teleport"}}`)); err == nil {
		t.Error("unknown operation kind decoded without error")
	}
	if _, err := DecodeTransactions(strings.NewReader(`not json`)); err == nil {
		t.Error("malformed line decoded without error")
	}
}

func TestEncodeTransactions_RoundTrip(t *testing.T) {
	fee := A(0.001, "BTC")
	value := A(500, "EUR")
	matching := 1
	original := []*Transaction{
		{Timestamp: day(0), Operation: NewTrade(A(1, "BTC"), A(500, "EUR")), Value: &value, Fee: &fee},
		{Timestamp: day(1), Operation: NewOperation(Receive, A(1, "BTC")), MatchingTx: &matching},
		{Timestamp: day(2), Operation: NewSwap(A(5, "LUNA2"), A(10, "LUNA"))},
	}

	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, original); err != nil {
		t.Fatalf("EncodeTransactions failed: %v", err)
	}
	decoded, err := DecodeTransactions(&buf)
	if err != nil {
		t.Fatalf("DecodeTransactions failed: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("got %d transactions, want %d", len(decoded), len(original))
	}
	for i, tx := range decoded {
		want := original[i]
		if !tx.Timestamp.Equal(want.Timestamp) || tx.Operation.Kind != want.Operation.Kind {
			t.Errorf("transaction %d = %s %s, want %s %s",
				i, tx.Timestamp, tx.Operation.Kind, want.Timestamp, want.Operation.Kind)
		}
	}
	trade := decoded[0]
	if trade.Fee == nil || !trade.Fee.Quantity.Equal(fee.Quantity) {
		t.Errorf("fee = %v, want %s", trade.Fee, fee)
	}
	if decoded[1].MatchingTx == nil || *decoded[1].MatchingTx != 1 {
		t.Errorf("matching tx = %v, want 1", decoded[1].MatchingTx)
	}
	swap := decoded[2]
	if !swap.Operation.Outgoing.Quantity.Equal(newDecimal(10)) || swap.Operation.Outgoing.Currency != "LUNA" {
		t.Errorf("swap outgoing = %s, want 10 LUNA", swap.Operation.Outgoing)
	}
}
