package cryptofolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryReport is a snapshot of the open holdings at a point in time.
type SummaryReport struct {
	ReportingCurrency string
	When              time.Time
	Holdings          []HoldingSummary
	TotalCost         Money
	TotalValue        Money
}

// HoldingSummary is the state of one asset's open lots.
type HoldingSummary struct {
	Asset    string
	Balance  decimal.Decimal
	CostBase Money
	// MarketValue is nil when the price history has no estimate for the
	// asset at the snapshot time.
	MarketValue *Money
}

// Unrealized returns the unrealized gain against the cost basis, or false
// when no market value is known.
func (h HoldingSummary) Unrealized() (Money, bool) {
	if h.MarketValue == nil {
		return Money{}, false
	}
	return h.MarketValue.Sub(h.CostBase), true
}

// Summary snapshots the ledger's open holdings, valued from the price
// history at the given time where possible.
func (s *AccountingSystem) Summary(when time.Time) *SummaryReport {
	cur := s.Ledger.ReportingCurrency()
	report := &SummaryReport{
		ReportingCurrency: cur,
		When:              when,
		TotalCost:         M(0, cur),
		TotalValue:        M(0, cur),
	}

	for _, asset := range s.Ledger.Assets() {
		h := HoldingSummary{
			Asset:    asset,
			Balance:  s.Ledger.Balance(asset),
			CostBase: M(s.Ledger.CostBase(asset), cur),
		}
		if price, _, ok := s.Prices.EstimatePrice(asset, when); ok {
			value := M(h.Balance.Mul(price), cur)
			h.MarketValue = &value
			report.TotalValue = report.TotalValue.Add(value)
		}
		report.TotalCost = report.TotalCost.Add(h.CostBase)
		report.Holdings = append(report.Holdings, h)
	}
	return report
}
