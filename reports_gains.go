package cryptofolio

import (
	"golang.org/x/exp/maps"
	"slices"
)

// GainsReport aggregates the realized capital gains of a processing run
// into per-asset and short/long-term totals, in the reporting currency.
type GainsReport struct {
	ReportingCurrency string
	Gains             []CapitalGain
	Assets            []AssetGains
	ShortTerm         Money
	LongTerm          Money
	Total             Money
}

// AssetGains holds the realized totals of one asset.
type AssetGains struct {
	Asset     string
	Disposals int
	Cost      Money
	Proceeds  Money
	ShortTerm Money
	LongTerm  Money
}

// Realized returns the asset's total realized gain or loss.
func (a AssetGains) Realized() Money { return a.ShortTerm.Add(a.LongTerm) }

// NewGainsReport builds the aggregation over a list of realized gains.
func NewGainsReport(reportingCurrency string, gains []CapitalGain) *GainsReport {
	report := &GainsReport{
		ReportingCurrency: reportingCurrency,
		Gains:             gains,
		ShortTerm:         M(0, reportingCurrency),
		LongTerm:          M(0, reportingCurrency),
	}

	perAsset := make(map[string]*AssetGains)
	for _, g := range gains {
		key := g.Amount.Key()
		a, ok := perAsset[key]
		if !ok {
			a = &AssetGains{
				Asset:     key,
				Cost:      M(0, reportingCurrency),
				Proceeds:  M(0, reportingCurrency),
				ShortTerm: M(0, reportingCurrency),
				LongTerm:  M(0, reportingCurrency),
			}
			perAsset[key] = a
		}
		a.Disposals++
		a.Cost = a.Cost.Add(M(g.Cost, reportingCurrency))
		a.Proceeds = a.Proceeds.Add(M(g.Proceeds, reportingCurrency))
		profit := M(g.Profit(), reportingCurrency)
		if g.LongTerm() {
			a.LongTerm = a.LongTerm.Add(profit)
			report.LongTerm = report.LongTerm.Add(profit)
		} else {
			a.ShortTerm = a.ShortTerm.Add(profit)
			report.ShortTerm = report.ShortTerm.Add(profit)
		}
	}

	keys := maps.Keys(perAsset)
	slices.Sort(keys)
	for _, key := range keys {
		report.Assets = append(report.Assets, *perAsset[key])
	}
	report.Total = report.ShortTerm.Add(report.LongTerm)
	return report
}
