package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/bjorn/cryptofolio"
)

// MissingRangesMarkdown renders the price windows that still need to be
// backfilled before a batch can be fully valued, keyed by symbol.
func MissingRangesMarkdown(missing map[string][]cryptofolio.TimeRange, symbols []string) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Missing Price Ranges\n\n")
	if len(missing) == 0 {
		fmt.Fprintln(&b, "All transactions can be valued from the stored prices.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | From | To | Span |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")
	for _, symbol := range symbols {
		for _, r := range missing[symbol] {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				symbol,
				r.Start.Format(time.RFC3339),
				r.End.Format(time.RFC3339),
				r.Duration(),
			)
		}
	}
	return b.String()
}
