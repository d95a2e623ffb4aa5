package cryptofolio

import (
	"path/filepath"
	"testing"
)

func TestPriceStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.db")

	store, err := OpenPriceStore(path)
	if err != nil {
		t.Fatalf("OpenPriceStore failed: %v", err)
	}
	err = store.SavePoints("BTC",
		PricePoint{Timestamp: day(0), Price: newDecimal(20000)},
		PricePoint{Timestamp: day(1), Price: newDecimal(21000)},
	)
	if err != nil {
		t.Fatalf("SavePoints failed: %v", err)
	}
	// Same timestamp again: the stored sample wins.
	if err := store.SavePoints("BTC", PricePoint{Timestamp: day(0), Price: newDecimal(999)}); err != nil {
		t.Fatalf("SavePoints failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = OpenPriceStore(path)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer store.Close()

	h := NewPriceHistory("EUR")
	if err := store.LoadInto(h); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if got := h.Series("BTC").Len(); got != 2 {
		t.Fatalf("loaded %d samples, want 2", got)
	}
	price, accuracy, ok := h.EstimatePrice("BTC", day(0))
	if !ok || accuracy != 0 || !price.Equal(newDecimal(20000)) {
		t.Errorf("EstimatePrice = (%s, %v, %v), want the first-written 20000", price, accuracy, ok)
	}
}

func TestPriceStore_SaveHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.db")
	store, err := OpenPriceStore(path)
	if err != nil {
		t.Fatalf("OpenPriceStore failed: %v", err)
	}
	defer store.Close()

	h := NewPriceHistory("EUR")
	h.AddPoints("ETH", PricePoint{Timestamp: day(0), Price: newDecimal(1500)})
	h.AddPoints("BTC", PricePoint{Timestamp: day(0), Price: newDecimal(20000)})
	if err := store.SaveHistory(h); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	restored := NewPriceHistory("EUR")
	if err := store.LoadInto(restored); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if got := restored.Symbols(); len(got) != 2 || got[0] != "BTC" || got[1] != "ETH" {
		t.Errorf("Symbols() = %v, want [BTC ETH]", got)
	}
}
