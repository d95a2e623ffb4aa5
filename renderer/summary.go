package renderer

import (
	"fmt"
	"strings"

	"github.com/bjorn/cryptofolio"
)

// SummaryMarkdown renders a holdings snapshot.
func SummaryMarkdown(report *cryptofolio.SummaryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings on %s\n\n", report.When.Format("2006-01-02"))

	if len(report.Holdings) == 0 {
		fmt.Fprintln(&b, "No open holdings.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Balance | Cost Base | Market Value | Unrealized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, h := range report.Holdings {
		value, unrealized := "n/a", "n/a"
		if gain, ok := h.Unrealized(); ok {
			value = h.MarketValue.String()
			unrealized = gain.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			h.Asset, h.Balance, h.CostBase, value, unrealized)
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** | **%s** |\n",
		report.TotalCost,
		report.TotalValue,
		report.TotalValue.Sub(report.TotalCost).SignedString(),
	)
	return b.String()
}
