package cryptofolio

import (
	"reflect"
	"testing"
	"time"
)

// at returns the test origin shifted by d.
func at(d time.Duration) time.Time {
	return time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC).Add(d)
}

func TestPriceSeries_AddPoints(t *testing.T) {
	var s PriceSeries
	s.AddPoints(
		PricePoint{Timestamp: at(10 * time.Minute), Price: newDecimal(200)},
		PricePoint{Timestamp: at(0), Price: newDecimal(100)},
		PricePoint{Timestamp: at(5 * time.Minute), Price: newDecimal(150)},
	)

	want := []PricePoint{
		{Timestamp: at(0), Price: newDecimal(100)},
		{Timestamp: at(5 * time.Minute), Price: newDecimal(150)},
		{Timestamp: at(10 * time.Minute), Price: newDecimal(200)},
	}
	if !reflect.DeepEqual(s.Points(), want) {
		t.Errorf("Points() = %v, want sorted %v", s.Points(), want)
	}

	// Same timestamp again: first write wins, no update.
	s.AddPoints(PricePoint{Timestamp: at(0), Price: newDecimal(999)})
	if s.Len() != 3 {
		t.Fatalf("Len() = %d after duplicate insert, want 3", s.Len())
	}
	if got := s.Points()[0].Price; !got.Equal(newDecimal(100)) {
		t.Errorf("duplicate insert overwrote price: got %s, want 100", got)
	}
}

func TestPriceSeries_EstimatePrice(t *testing.T) {
	var s PriceSeries
	s.AddPoints(
		PricePoint{Timestamp: at(0), Price: newDecimal(100)},
		PricePoint{Timestamp: at(10 * time.Minute), Price: newDecimal(200)},
	)

	testCases := []struct {
		name         string
		t            time.Time
		wantPrice    float64
		wantAccuracy time.Duration
	}{
		{"midpoint interpolates", at(5 * time.Minute), 150, 5 * time.Minute},
		{"quarter interpolates", at(150 * time.Second), 125, 150 * time.Second},
		{"exact sample hit", at(0), 100, 0},
		{"before range holds first price", at(-5 * time.Minute), 100, 5 * time.Minute},
		{"after range holds last price", at(15 * time.Minute), 200, 5 * time.Minute},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, accuracy, ok := s.EstimatePrice(tc.t)
			if !ok {
				t.Fatal("EstimatePrice returned no estimate")
			}
			if !price.Equal(newDecimal(tc.wantPrice)) {
				t.Errorf("price = %s, want %v", price, tc.wantPrice)
			}
			if accuracy != tc.wantAccuracy {
				t.Errorf("accuracy = %v, want %v", accuracy, tc.wantAccuracy)
			}
		})
	}

	var empty PriceSeries
	if _, _, ok := empty.EstimatePrice(at(0)); ok {
		t.Error("empty series returned an estimate")
	}
}

func TestPriceSeries_MissingRanges(t *testing.T) {
	clock := func(h, m int) time.Time {
		return time.Date(2023, 6, 1, h, m, 0, 0, time.UTC)
	}
	tolerance := 2 * time.Hour
	padding := time.Hour

	var s PriceSeries
	// Timestamps at 12:00 and 16:30 need [10:00,14:00] and [14:30,18:30];
	// the 30min gap is within padding so they merge. 28:00 (next day 04:00)
	// needs [26:00,30:00], which stays separate.
	timestamps := []time.Time{clock(12, 0), clock(16, 30), clock(28, 0)}

	got := s.MissingRanges(timestamps, tolerance, padding)
	want := []TimeRange{
		{Start: clock(10, 0), End: clock(18, 30)},
		{Start: clock(26, 0), End: clock(30, 0)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingRanges = %v, want %v", got, want)
	}

	// A sample near a timestamp satisfies the tolerance and removes its window.
	s.AddPoints(PricePoint{Timestamp: clock(11, 0), Price: newDecimal(50)})
	got = s.MissingRanges(timestamps, tolerance, padding)
	want = []TimeRange{
		{Start: clock(14, 30), End: clock(18, 30)},
		{Start: clock(26, 0), End: clock(30, 0)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingRanges after sample = %v, want %v", got, want)
	}
}

func TestPriceHistory_ReportingCurrencyIdentity(t *testing.T) {
	h := NewPriceHistory("EUR")

	price, accuracy, ok := h.EstimatePrice("eur", at(0))
	if !ok || !price.Equal(newDecimal(1)) || accuracy != 0 {
		t.Errorf("EstimatePrice(eur) = (%s, %v, %v), want (1, 0, true)", price, accuracy, ok)
	}

	value, ok := h.EstimateValue(A(5, "EUR"), at(0))
	if !ok || !value.Quantity.Equal(newDecimal(5)) || value.Currency != "EUR" {
		t.Errorf("EstimateValue(5 EUR) = (%s, %v), want 5 EUR", value, ok)
	}
}

func TestPriceHistory_EstimateValue(t *testing.T) {
	h := NewPriceHistory("EUR")
	h.AddPoints("BTC",
		PricePoint{Timestamp: at(0), Price: newDecimal(20000)},
		PricePoint{Timestamp: at(2 * time.Hour), Price: newDecimal(22000)},
	)

	value, ok := h.EstimateValue(A(0.5, "btc"), at(time.Hour))
	if !ok {
		t.Fatal("EstimateValue returned no estimate")
	}
	if !value.Quantity.Equal(newDecimal(10500)) || value.Currency != "EUR" {
		t.Errorf("EstimateValue = %s, want 10500 EUR", value)
	}

	if _, ok := h.EstimateValue(A(1, "DOGE"), at(0)); ok {
		t.Error("unknown symbol returned an estimate")
	}
	nft := Amount{Quantity: newDecimal(1), Currency: "BTC", TokenID: "x"}
	if _, ok := h.EstimateValue(nft, at(0)); ok {
		t.Error("non-fungible token returned an estimate")
	}
}

func TestCollectPriceRequirements(t *testing.T) {
	fee := A(0.01, "ETH")
	valued := A(300, "EUR")
	txs := []*Transaction{
		{Timestamp: at(2 * time.Hour), Operation: NewOperation(Sell, A(1, "BTC"))},
		{Timestamp: at(0), Operation: NewOperation(Buy, A(2, "BTC"))},
		{Timestamp: at(time.Hour), Operation: NewOperation(Buy, A(1, "ETH")), Value: &valued},
		{Timestamp: at(time.Hour), Operation: NewTrade(A(500, "EUR"), A(1, "BTC")), Fee: &fee},
		{Timestamp: at(0), Operation: NewOperation(FiatDeposit, A(1000, "EUR"))},
		{Timestamp: at(0), Operation: NewOperation(Staking, A(1, "ETH"))},
	}

	req := CollectPriceRequirements(txs, "EUR")
	if want := []string{"BTC", "ETH"}; !reflect.DeepEqual(req.Symbols(), want) {
		t.Fatalf("Symbols() = %v, want %v", req.Symbols(), want)
	}
	// Valued transactions and non-market operations contribute nothing;
	// timestamps come back sorted.
	wantBTC := []time.Time{at(0), at(time.Hour), at(2 * time.Hour)}
	if !reflect.DeepEqual(req.Timestamps("BTC"), wantBTC) {
		t.Errorf("Timestamps(BTC) = %v, want %v", req.Timestamps("BTC"), wantBTC)
	}
	wantETH := []time.Time{at(time.Hour)} // the unvalued fee only
	if !reflect.DeepEqual(req.Timestamps("ETH"), wantETH) {
		t.Errorf("Timestamps(ETH) = %v, want %v", req.Timestamps("ETH"), wantETH)
	}
}

func TestPriceHistory_MissingRanges(t *testing.T) {
	h := NewPriceHistory("EUR")
	h.AddPoints("BTC", PricePoint{Timestamp: at(0), Price: newDecimal(20000)})

	txs := []*Transaction{
		{Timestamp: at(10 * time.Minute), Operation: NewOperation(Buy, A(1, "BTC"))},
		{Timestamp: at(48 * time.Hour), Operation: NewOperation(Sell, A(1, "ETH"))},
	}
	req := CollectPriceRequirements(txs, "EUR")

	missing := h.MissingRanges(req, time.Hour, 30*time.Minute)
	if _, ok := missing["BTC"]; ok {
		t.Error("BTC has a sample within tolerance, want no missing range")
	}
	want := []TimeRange{{Start: at(47 * time.Hour), End: at(49 * time.Hour)}}
	if !reflect.DeepEqual(missing["ETH"], want) {
		t.Errorf("missing[ETH] = %v, want %v", missing["ETH"], want)
	}
}
