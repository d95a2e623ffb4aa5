package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/bjorn/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "open holdings with cost basis and market value" }
func (*summaryCmd) Usage() string {
	return `ctax summary [-d <date>]

  Replays the ledger and displays the open holdings: balance, cost basis
  and, where prices are known, market value and unrealized gain.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (2006-01-02), defaults to now")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	when := time.Now().UTC()
	if c.date != "" {
		parsed, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			return fail("cannot parse date", err)
		}
		when = parsed
	}

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
	system.ProcessTransactions(txs)

	printMarkdown(renderer.SummaryMarkdown(system.Summary(when)))
	return subcommands.ExitSuccess
}
