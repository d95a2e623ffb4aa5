package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bjorn/cryptofolio"
	"github.com/bjorn/cryptofolio/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	csvFile string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized capital gains report" }
func (*gainsCmd) Usage() string {
	return `ctax gains [-csv <file>]

  Processes the ledger with FIFO tax-lot accounting and displays the
  realized capital gains per asset, split into short-term and long-term.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csvFile, "csv", "", "Also write the per-lot records to a CSV file")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := DecodeTransactions()
	if err != nil {
		return fail("cannot load ledger", err)
	}
	system, store, err := OpenAccountingSystem()
	if err != nil {
		return fail("cannot open price store", err)
	}
	defer store.Close()

	system.PopulateValues(txs)
	gains := system.ProcessTransactions(txs)
	for _, tx := range txs {
		if tx.Gain != nil && tx.Gain.Err != nil {
			slog.Warn("transaction could not be fully accounted",
				"index", tx.Index,
				"date", tx.Timestamp,
				"operation", tx.Operation.Kind.String(),
				"err", tx.Gain.Err)
		}
	}

	report := cryptofolio.NewGainsReport(*reportingCurrency, gains)
	printMarkdown(renderer.GainsMarkdown(report))

	if c.csvFile != "" {
		out, err := os.Create(c.csvFile)
		if err != nil {
			return fail("cannot create CSV file", err)
		}
		defer out.Close()
		if err := cryptofolio.ExportGainsCSV(out, gains); err != nil {
			return fail("cannot write CSV file", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(gains), c.csvFile)
	}
	return subcommands.ExitSuccess
}
