// Package cmd implements the CLI application to compute crypto capital
// gains from a transaction ledger.
package cmd

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bjorn/cryptofolio"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&gainsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&txCmd{}, "reports")

	c.Register(&missingCmd{}, "prices")
	c.Register(&pricesCmd{}, "prices")

	c.Register(&fmtCmd{}, "ledger")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var pricesFile = flag.String("prices-db", "prices.db", "Path to the price sample database (SQLite)")
var reportingCurrency = flag.String("currency", envOr("CTAX_CURRENCY", "EUR"), "Reporting currency for gains and valuations")

// DecodeTransactions loads the app ledger file, sorted and re-indexed.
func DecodeTransactions() ([]*cryptofolio.Transaction, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return cryptofolio.DecodeTransactions(f)
}

// OpenAccountingSystem creates the accounting system with the stored
// price history loaded. A missing price database is not an error: the
// store is created empty on first use.
func OpenAccountingSystem() (*cryptofolio.AccountingSystem, *cryptofolio.PriceStore, error) {
	system := cryptofolio.NewAccountingSystem(*reportingCurrency)

	store, err := cryptofolio.OpenPriceStore(*pricesFile)
	if err != nil {
		return nil, nil, err
	}
	if err := store.LoadInto(system.Prices); err != nil {
		store.Close()
		return nil, nil, err
	}
	return system, store, nil
}

// fail logs the error and returns the failure exit status.
func fail(msg string, err error) subcommands.ExitStatus {
	slog.Error(msg, "err", err)
	return subcommands.ExitFailure
}
