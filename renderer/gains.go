// Package renderer turns report models into markdown strings for the
// command line interface to display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/bjorn/cryptofolio"
)

// GainsMarkdown renders a capital gains report.
func GainsMarkdown(report *cryptofolio.GainsReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report (%s)\n\n", report.ReportingCurrency)

	if len(report.Assets) == 0 {
		fmt.Fprintln(&b, "No realized gains.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Disposals | Cost | Proceeds | Short-Term | Long-Term |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, a := range report.Assets {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			a.Asset,
			a.Disposals,
			a.Cost,
			a.Proceeds,
			a.ShortTerm.SignedString(),
			a.LongTerm.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** | **%s** |\n\n",
		report.ShortTerm.SignedString(),
		report.LongTerm.SignedString(),
	)

	fmt.Fprintf(&b, "Total realized: %s\n", report.Total.SignedString())
	return b.String()
}
