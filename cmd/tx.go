package cmd

import (
	"context"
	"flag"

	"github.com/bjorn/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type txCmd struct{}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "chronological transaction log with per-transaction gains" }
func (*txCmd) Usage() string {
	return `ctax tx

  Displays the ledger in canonical processing order, annotated with the
  net gain or the accounting error of each transaction.
`
}

func (*txCmd) SetFlags(f *flag.FlagSet) {}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.TransactionsMarkdown(txs, *reportingCurrency))
	return subcommands.ExitSuccess
}
