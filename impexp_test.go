package cryptofolio

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestExportGainsCSV(t *testing.T) {
	gains := []CapitalGain{
		{
			BoughtAt: day(0),
			SoldAt:   day(400),
			Amount:   A(1.5, "BTC"),
			Cost:     newDecimal(1000.555),
			Proceeds: newDecimal(2500),
		},
	}

	var buf bytes.Buffer
	if err := ExportGainsCSV(&buf, gains); err != nil {
		t.Fatalf("ExportGainsCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Currency,Bought,Sold,Quantity,Cost,Proceeds,Gain or Loss,Long Term" {
		t.Errorf("header = %q", lines[0])
	}
	// Fiat columns rounded to cents, half away from zero.
	want := "BTC,2022-01-01 00:00:00,2023-02-05 00:00:00,1.5,1000.56,2500,1499.45,true"
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestPricesCSV_RoundTrip(t *testing.T) {
	h := NewPriceHistory("EUR")
	h.AddPoints("BTC",
		PricePoint{Timestamp: day(1), Price: newDecimal(21000)},
		PricePoint{Timestamp: day(0), Price: newDecimal(20000)},
	)
	h.AddPoints("ETH", PricePoint{Timestamp: day(0), Price: newDecimal(1500)})

	var buf bytes.Buffer
	if err := ExportPricesCSV(&buf, h); err != nil {
		t.Fatalf("ExportPricesCSV failed: %v", err)
	}

	restored := NewPriceHistory("EUR")
	if err := ImportPricesCSV(&buf, restored); err != nil {
		t.Fatalf("ImportPricesCSV failed: %v", err)
	}
	if got := restored.Symbols(); len(got) != 2 {
		t.Fatalf("Symbols() = %v, want BTC and ETH", got)
	}
	price, accuracy, ok := restored.EstimatePrice("BTC", day(1))
	if !ok || accuracy != 0 || !price.Equal(newDecimal(21000)) {
		t.Errorf("EstimatePrice(BTC) = (%s, %v, %v), want exact 21000", price, accuracy, ok)
	}
}

func TestImportPricesCSV_Invalid(t *testing.T) {
	h := NewPriceHistory("EUR")
	bad := "Symbol,Timestamp,Price\nBTC,not-a-time,100\n"
	if err := ImportPricesCSV(strings.NewReader(bad), h); err == nil {
		t.Error("invalid timestamp imported without error")
	}
	bad = "BTC," + day(0).Format(time.RFC3339) + ",not-a-number\n"
	if err := ImportPricesCSV(strings.NewReader(bad), h); err == nil {
		t.Error("invalid price imported without error")
	}
}
