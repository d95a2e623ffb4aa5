package cryptofolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// this file contains the import/export formats. They should remain human
// readable, single file and easy to feed into a spreadsheet.

const csvTimeLayout = "2006-01-02 15:04:05"

// ExportGainsCSV writes the realized capital gains as CSV, one row per
// (lot, disposal) record. Fiat columns are rounded to two decimal places,
// half away from zero; quantities keep their full precision.
func ExportGainsCSV(w io.Writer, gains []CapitalGain) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Currency", "Bought", "Sold", "Quantity", "Cost", "Proceeds", "Gain or Loss", "Long Term"}); err != nil {
		return err
	}
	for _, g := range gains {
		record := []string{
			g.Amount.Key(),
			g.BoughtAt.UTC().Format(csvTimeLayout),
			g.SoldAt.UTC().Format(csvTimeLayout),
			g.Amount.Quantity.String(),
			g.Cost.Round(2).String(),
			g.Proceeds.Round(2).String(),
			g.Profit().Round(2).String(),
			strconv.FormatBool(g.LongTerm()),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportPricesCSV writes the whole price history as CSV rows of
// (symbol, timestamp, price), symbols sorted, samples in time order.
func ExportPricesCSV(w io.Writer, h *PriceHistory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Symbol", "Timestamp", "Price"}); err != nil {
		return err
	}
	for _, symbol := range h.Symbols() {
		for _, p := range h.Series(symbol).Points() {
			record := []string{symbol, p.Timestamp.UTC().Format(time.RFC3339), p.Price.String()}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportPricesCSV merges CSV price rows produced by ExportPricesCSV (or
// hand-written in the same shape) into the history. Existing samples win
// over imported ones at identical timestamps.
func ImportPricesCSV(r io.Reader, h *PriceHistory) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot read price row: %w", err)
		}
		if header {
			header = false
			if record[0] == "Symbol" {
				continue
			}
		}

		ts, err := time.Parse(time.RFC3339, record[1])
		if err != nil {
			return fmt.Errorf("cannot parse price timestamp %q: %w", record[1], err)
		}
		price, err := decimal.NewFromString(record[2])
		if err != nil {
			return fmt.Errorf("cannot parse price %q: %w", record[2], err)
		}
		h.AddPoints(record[0], PricePoint{Timestamp: ts, Price: price})
	}
}
