package cryptofolio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeTransactions decodes a transaction batch from a stream of JSONL
// data: one JSON object per line, empty lines skipped. The result is
// sorted into canonical processing order and re-indexed.
func DecodeTransactions(r io.Reader) ([]*Transaction, error) {
	var txs []*Transaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return nil, fmt.Errorf("cannot parse transaction line %q: %w", string(line), err)
		}
		txs = append(txs, &tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	SortTransactions(txs)
	return txs, nil
}

// EncodeTransactions writes the batch back as JSONL, one transaction per
// line, in the order given.
func EncodeTransactions(w io.Writer, txs []*Transaction) error {
	enc := json.NewEncoder(w)
	for _, tx := range txs {
		if err := enc.Encode(tx); err != nil {
			return fmt.Errorf("cannot encode transaction %d: %w", tx.Index, err)
		}
	}
	return nil
}
