package cryptofolio

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
	A coingecko-style market chart document:

	{
	    "prices": [
	        [1672531200000, 15572.8],
	        [1672534800000, 15591.1]
	    ],
	    "market_caps": [...],
	    "total_volumes": [...]
	}
*/

// PriceFeed fetches historical price samples from a JSON HTTP API. The
// response layout is described by a jsonpath expression selecting the
// [timestamp-ms, price] pairs, so endpoints with a coingecko-like shape
// can be adapted by configuration alone.
type PriceFeed struct {
	// Client defaults to a daily-expiring disk-cached client.
	Client *http.Client
	// BuildURL builds the request address for a symbol and time window.
	BuildURL func(symbol string, r TimeRange) string
	// PairsPath selects the [timestamp-ms, price] pairs in the response.
	PairsPath string
}

// NewCoingeckoFeed returns a feed against the coingecko market_chart
// endpoint, quoting in the given fiat currency. Symbols are passed as
// coin ids (e.g. "bitcoin"), lowercased.
func NewCoingeckoFeed(vsCurrency string) *PriceFeed {
	return &PriceFeed{
		BuildURL: func(symbol string, r TimeRange) string {
			return fmt.Sprintf(
				"https://api.coingecko.com/api/v3/coins/%s/market_chart/range?vs_currency=%s&from=%d&to=%d",
				url.PathEscape(strings.ToLower(symbol)),
				url.QueryEscape(strings.ToLower(vsCurrency)),
				r.Start.Unix(), r.End.Unix(),
			)
		},
		PairsPath: "$.prices",
	}
}

func (f *PriceFeed) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return cachedClient()
}

// FetchRange fetches the price samples of a symbol over a time window.
func (f *PriceFeed) FetchRange(symbol string, r TimeRange) ([]PricePoint, error) {
	addr := f.BuildURL(symbol, r)

	var jobj any
	if err := jwget(f.client(), addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving prices for %q: %w", symbol, err)
	}

	jval, err := jsonpath.Get(f.PairsPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing prices for %q: %q %w", symbol, f.PairsPath, err)
	}
	pairs, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing prices for %q: %q is not a list", symbol, f.PairsPath)
	}

	var points []PricePoint
	for _, jpair := range pairs {
		pair, ok := jpair.([]any)
		if !ok || len(pair) < 2 {
			return nil, fmt.Errorf("error parsing prices for %q: %v is not a [timestamp, price] pair", symbol, jpair)
		}
		ms, ok := pair[0].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing prices for %q: timestamp %v is not a number", symbol, pair[0])
		}
		price, ok := pair[1].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing prices for %q: price %v is not a number", symbol, pair[1])
		}
		points = append(points, PricePoint{
			Timestamp: time.UnixMilli(int64(ms)).UTC(),
			Price:     decimal.NewFromFloat(price),
		})
	}
	return points, nil
}

// Backfill fetches every missing window and merges the samples into the
// history. Stored samples win over fetched ones at identical timestamps.
func (f *PriceFeed) Backfill(h *PriceHistory, missing map[string][]TimeRange) error {
	for symbol, ranges := range missing {
		for _, r := range ranges {
			points, err := f.FetchRange(symbol, r)
			if err != nil {
				return err
			}
			h.AddPoints(symbol, points...)
		}
	}
	return nil
}
