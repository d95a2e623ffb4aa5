package renderer

import (
	"fmt"
	"strings"

	"github.com/bjorn/cryptofolio"
)

// TransactionsMarkdown renders a processed transaction stream with the
// gain or error attached to each entry.
func TransactionsMarkdown(txs []*cryptofolio.Transaction, reportingCurrency string) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| # | Date | Operation | Amount | Gain |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|---:|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			tx.Index,
			tx.Timestamp.Format("2006-01-02 15:04"),
			tx.Operation.Kind,
			operationAmount(tx.Operation),
			gainCell(tx.Gain, reportingCurrency),
		)
	}
	return b.String()
}

func operationAmount(op cryptofolio.Operation) string {
	switch op.Kind {
	case cryptofolio.Trade, cryptofolio.Swap:
		return fmt.Sprintf("%s -> %s", op.Outgoing, op.Incoming)
	default:
		return op.Amount.String()
	}
}

func gainCell(gain *cryptofolio.Gain, reportingCurrency string) string {
	switch {
	case gain == nil:
		return "-"
	case gain.Err != nil:
		return "⚠ " + gain.Err.Error()
	default:
		return cryptofolio.M(gain.Value, reportingCurrency).SignedString()
	}
}
