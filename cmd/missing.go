package cmd

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/bjorn/cryptofolio"
	"github.com/bjorn/cryptofolio/renderer"
	"github.com/google/subcommands"
)

// missingCmd plans (and optionally performs) price backfilling.
type missingCmd struct {
	tolerance time.Duration
	padding   time.Duration
	fetch     bool
}

func (*missingCmd) Name() string     { return "missing" }
func (*missingCmd) Synopsis() string { return "price windows that must be backfilled for full valuation" }
func (*missingCmd) Usage() string {
	return `ctax missing [-tolerance <duration>] [-padding <duration>] [-fetch]

  Scans the ledger for transactions lacking a fiat valuation and reports,
  per asset, the time windows where the stored price samples are not
  accurate enough. With -fetch, the windows are downloaded from the
  configured price source and stored.
`
}

func (c *missingCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.tolerance, "tolerance", time.Hour, "Maximum acceptable distance between a transaction and a price sample")
	f.DurationVar(&c.padding, "padding", 6*time.Hour, "Merge windows closer to each other than this")
	f.BoolVar(&c.fetch, "fetch", false, "Fetch the missing windows from the price source and store them")
}

func (c *missingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := DecodeTransactions()
	if err != nil {
		return fail("cannot load ledger", err)
	}
	system, store, err := OpenAccountingSystem()
	if err != nil {
		return fail("cannot open price store", err)
	}
	defer store.Close()

	req := cryptofolio.CollectPriceRequirements(txs, *reportingCurrency)
	missing := system.Prices.MissingRanges(req, c.tolerance, c.padding)
	printMarkdown(renderer.MissingRangesMarkdown(missing, req.Symbols()))

	if !c.fetch || len(missing) == 0 {
		return subcommands.ExitSuccess
	}

	feed := cryptofolio.NewCoingeckoFeed(*reportingCurrency)
	if err := feed.Backfill(system.Prices, missing); err != nil {
		return fail("cannot fetch prices", err)
	}
	if err := store.SaveHistory(system.Prices); err != nil {
		return fail("cannot store fetched prices", err)
	}
	slog.Info("backfilled price windows", "symbols", len(missing))
	return subcommands.ExitSuccess
}
