package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bjorn/cryptofolio"
	"github.com/google/subcommands"
)

// pricesCmd imports and exports the stored price samples as CSV.
type pricesCmd struct {
	importFile string
	exportFile string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "import or export stored price samples" }
func (*pricesCmd) Usage() string {
	return `ctax prices [-import <file>] [-export <file>]

  Moves price samples between the local store and CSV files of
  (symbol, timestamp, price) rows. Stored samples win over imported ones
  at identical timestamps.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.importFile, "import", "", "CSV file to merge into the store")
	f.StringVar(&c.exportFile, "export", "", "CSV file to write the store to")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.importFile == "" && c.exportFile == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -import and/or -export")
		return subcommands.ExitUsageError
	}

	system, store, err := OpenAccountingSystem()
	if err != nil {
		return fail("cannot open price store", err)
	}
	defer store.Close()

	if c.importFile != "" {
		in, err := os.Open(c.importFile)
		if err != nil {
			return fail("cannot open import file", err)
		}
		if err := cryptofolio.ImportPricesCSV(in, system.Prices); err != nil {
			in.Close()
			return fail("cannot import prices", err)
		}
		in.Close()
		if err := store.SaveHistory(system.Prices); err != nil {
			return fail("cannot store imported prices", err)
		}
	}

	if c.exportFile != "" {
		out, err := os.Create(c.exportFile)
		if err != nil {
			return fail("cannot create export file", err)
		}
		defer out.Close()
		if err := cryptofolio.ExportPricesCSV(out, system.Prices); err != nil {
			return fail("cannot export prices", err)
		}
	}
	return subcommands.ExitSuccess
}
