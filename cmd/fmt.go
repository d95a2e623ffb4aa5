package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bjorn/cryptofolio"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ctax fmt

  Validates and formats the ledger file. This command reads all
  transactions, sorts them into canonical processing order, renumbers
  their indices and writes them back as JSONL.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := DecodeTransactions()
	if err != nil {
		return fail("cannot load ledger", err)
	}

	tmp := *ledgerFile + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fail("cannot create temporary file", err)
	}
	if err := cryptofolio.EncodeTransactions(out, txs); err != nil {
		out.Close()
		os.Remove(tmp)
		return fail("cannot write ledger", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fail("cannot write ledger", err)
	}
	if err := os.Rename(tmp, *ledgerFile); err != nil {
		os.Remove(tmp)
		return fail("cannot replace ledger", err)
	}

	fmt.Fprintf(os.Stderr, "Formatted %d transactions in %s\n", len(txs), *ledgerFile)
	return subcommands.ExitSuccess
}
