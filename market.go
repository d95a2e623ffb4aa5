package cryptofolio

import (
	"golang.org/x/exp/maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one historical price sample: the value of one unit of an
// asset in the reporting currency at a point in time.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

func comparePricePoints(a, b PricePoint) int {
	return a.Timestamp.Compare(b.Timestamp)
}

// PriceSeries is the sparse price history of a single asset, kept sorted
// by timestamp. The zero value is an empty, usable series.
type PriceSeries struct {
	points []PricePoint
}

// Len returns the number of stored samples.
func (s *PriceSeries) Len() int { return len(s.points) }

// Points returns the stored samples in timestamp order. The slice is
// shared with the series and must not be modified.
func (s *PriceSeries) Points() []PricePoint { return s.points }

// AddPoints inserts samples at their sorted position. A sample whose
// timestamp exactly matches a stored one is dropped: first write wins.
func (s *PriceSeries) AddPoints(points ...PricePoint) {
	for _, p := range points {
		idx, found := slices.BinarySearchFunc(s.points, p, comparePricePoints)
		if found {
			continue
		}
		s.points = slices.Insert(s.points, idx, p)
	}
}

// EstimatePrice estimates the asset price at the given time, together
// with the accuracy of the estimate: the distance to the nearest sample
// it was derived from. Between two samples the price is linearly
// interpolated; outside the sampled range the nearest sample's price is
// held. An empty series yields no estimate.
func (s *PriceSeries) EstimatePrice(t time.Time) (decimal.Decimal, time.Duration, bool) {
	if len(s.points) == 0 {
		return decimal.Zero, 0, false
	}

	idx, found := slices.BinarySearchFunc(s.points, PricePoint{Timestamp: t}, comparePricePoints)
	if found {
		return s.points[idx].Price, 0, true
	}

	switch idx {
	case 0:
		next := s.points[0]
		return next.Price, next.Timestamp.Sub(t), true
	case len(s.points):
		prev := s.points[len(s.points)-1]
		return prev.Price, t.Sub(prev.Timestamp), true
	default:
		prev, next := s.points[idx-1], s.points[idx]
		elapsed := t.Sub(prev.Timestamp)
		total := next.Timestamp.Sub(prev.Timestamp)
		ratio := decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(total)))
		price := prev.Price.Add(next.Price.Sub(prev.Price).Mul(ratio))
		return price, min(elapsed, next.Timestamp.Sub(t)), true
	}
}

// MissingRanges returns the time windows that must be backfilled with
// samples before every given timestamp can be estimated within the
// tolerance. Timestamps must be sorted ascending. Each timestamp lacking
// a good enough estimate needs the window [t-tolerance, t+tolerance];
// windows overlapping or within padding of each other are merged, so a
// caller fetching from an external source issues fewer, larger requests.
func (s *PriceSeries) MissingRanges(timestamps []time.Time, tolerance, padding time.Duration) []TimeRange {
	var ranges []TimeRange
	for _, t := range timestamps {
		if _, accuracy, ok := s.EstimatePrice(t); ok && accuracy <= tolerance {
			continue
		}
		window := TimeRange{Start: t.Add(-tolerance), End: t.Add(tolerance)}
		if n := len(ranges); n > 0 && ranges[n-1].OverlapsOrAdjacent(window, padding) {
			ranges[n-1] = ranges[n-1].Merge(window)
		} else {
			ranges = append(ranges, window)
		}
	}
	return ranges
}

// PriceHistory holds the per-asset price series of a portfolio, all
// quoted in one reporting currency. The reporting currency itself has the
// identity price: one, at perfect accuracy, with no stored samples.
type PriceHistory struct {
	reportingCurrency string
	series            map[string]*PriceSeries
}

// NewPriceHistory creates an empty history quoted in the given currency.
func NewPriceHistory(reportingCurrency string) *PriceHistory {
	return &PriceHistory{
		reportingCurrency: strings.ToUpper(reportingCurrency),
		series:            make(map[string]*PriceSeries),
	}
}

// ReportingCurrency returns the currency all prices are quoted in.
func (h *PriceHistory) ReportingCurrency() string { return h.reportingCurrency }

// Series returns the series for a symbol, creating it if needed.
func (h *PriceHistory) Series(symbol string) *PriceSeries {
	key := strings.ToUpper(symbol)
	s, ok := h.series[key]
	if !ok {
		s = &PriceSeries{}
		h.series[key] = s
	}
	return s
}

// Symbols returns the symbols with at least one stored sample, sorted.
func (h *PriceHistory) Symbols() []string {
	keys := maps.Keys(h.series)
	slices.Sort(keys)
	return keys
}

// AddPoints inserts samples into the symbol's series.
func (h *PriceHistory) AddPoints(symbol string, points ...PricePoint) {
	h.Series(symbol).AddPoints(points...)
}

// EstimatePrice estimates the price of one unit of the symbol at the
// given time. The reporting currency always estimates to one exactly.
func (h *PriceHistory) EstimatePrice(symbol string, t time.Time) (decimal.Decimal, time.Duration, bool) {
	key := strings.ToUpper(symbol)
	if key == h.reportingCurrency {
		return decimal.NewFromInt(1), 0, true
	}
	s, ok := h.series[key]
	if !ok {
		return decimal.Zero, 0, false
	}
	return s.EstimatePrice(t)
}

// EstimateValue estimates the fiat value of an amount at the given time.
// Non-fungible tokens have no quoted price and yield no estimate.
func (h *PriceHistory) EstimateValue(amount Amount, t time.Time) (Amount, bool) {
	if amount.TokenID != "" {
		return Amount{}, false
	}
	price, _, ok := h.EstimatePrice(amount.Currency, t)
	if !ok {
		return Amount{}, false
	}
	return A(amount.Quantity.Mul(price), h.reportingCurrency), true
}

// MissingRanges returns, per symbol, the windows that must be backfilled
// before every timestamp in the requirements can be valued within the
// tolerance. Symbols with nothing missing are absent from the result.
func (h *PriceHistory) MissingRanges(req *PriceRequirements, tolerance, padding time.Duration) map[string][]TimeRange {
	missing := make(map[string][]TimeRange)
	for _, symbol := range req.Symbols() {
		if symbol == h.reportingCurrency {
			continue
		}
		s, ok := h.series[symbol]
		if !ok {
			s = &PriceSeries{}
		}
		if ranges := s.MissingRanges(req.Timestamps(symbol), tolerance, padding); len(ranges) > 0 {
			missing[symbol] = ranges
		}
	}
	return missing
}

// PriceRequirements collects, per asset, the timestamps at which a
// transaction batch needs a fiat valuation. It feeds MissingRanges to
// plan what an external price source must be asked for.
type PriceRequirements struct {
	byAsset map[string][]time.Time
}

// CollectPriceRequirements scans a transaction batch for every (asset,
// timestamp) pair that the accounting pass will want valued: amounts of
// operations that acquire or dispose lots, plus unvalued fees. Amounts
// already carrying a value and fiat amounts are skipped.
func CollectPriceRequirements(txs []*Transaction, reportingCurrency string) *PriceRequirements {
	reporting := strings.ToUpper(reportingCurrency)
	req := &PriceRequirements{byAsset: make(map[string][]time.Time)}

	need := func(a Amount, t time.Time) {
		if a.TokenID != "" {
			return
		}
		key := strings.ToUpper(a.Currency)
		if key == reporting {
			return
		}
		req.byAsset[key] = append(req.byAsset[key], t)
	}

	for _, tx := range txs {
		op := tx.Operation
		switch op.Kind {
		case Swap, FiatDeposit, FiatWithdrawal, Receive, Send, Staking, ChainSplit:
			// No market valuation needed.
		case Trade:
			if tx.Value == nil {
				need(op.Outgoing, tx.Timestamp)
			}
		default:
			if tx.Value == nil {
				need(op.Amount, tx.Timestamp)
			}
		}
		if tx.Fee != nil && tx.FeeValue == nil {
			need(*tx.Fee, tx.Timestamp)
		}
	}

	for _, timestamps := range req.byAsset {
		slices.SortFunc(timestamps, time.Time.Compare)
	}
	return req
}

// Symbols returns the assets with at least one requirement, sorted.
func (r *PriceRequirements) Symbols() []string {
	keys := maps.Keys(r.byAsset)
	slices.Sort(keys)
	return keys
}

// Timestamps returns the sorted timestamps needed for a symbol.
func (r *PriceRequirements) Timestamps(symbol string) []time.Time {
	return r.byAsset[strings.ToUpper(symbol)]
}
