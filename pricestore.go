package cryptofolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// PriceStore persists price samples in a local SQLite database so that
// backfilled ranges survive between runs and external sources are only
// asked once. Prices are stored as decimal strings to stay exact.
type PriceStore struct {
	db *sql.DB
}

// OpenPriceStore opens (and if needed initializes) the database at path.
func OpenPriceStore(path string) (*PriceStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open price store at %s: %w", path, err)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS prices (
		symbol TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		price TEXT NOT NULL,
		PRIMARY KEY (symbol, timestamp)
	);`
	if _, err := db.Exec(createTableStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize price store: %w", err)
	}
	return &PriceStore{db: db}, nil
}

// Close closes the underlying database.
func (s *PriceStore) Close() error { return s.db.Close() }

// SavePoints inserts samples for a symbol. Samples already stored at the
// same timestamp are left untouched, matching the in-memory series'
// first-write-wins rule.
func (s *PriceStore) SavePoints(symbol string, points ...PricePoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO prices (symbol, timestamp, price) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(symbol, p.Timestamp.Unix(), p.Price.String()); err != nil {
			return fmt.Errorf("cannot store price %s@%s: %w", symbol, p.Timestamp, err)
		}
	}
	return tx.Commit()
}

// SaveHistory persists every series of the history.
func (s *PriceStore) SaveHistory(h *PriceHistory) error {
	for _, symbol := range h.Symbols() {
		if err := s.SavePoints(symbol, h.Series(symbol).Points()...); err != nil {
			return err
		}
	}
	return nil
}

// LoadInto merges all stored samples into the history.
func (s *PriceStore) LoadInto(h *PriceHistory) error {
	rows, err := s.db.Query(`SELECT symbol, timestamp, price FROM prices ORDER BY symbol, timestamp`)
	if err != nil {
		return fmt.Errorf("cannot read price store: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var symbol, priceText string
		var unix int64
		if err := rows.Scan(&symbol, &unix, &priceText); err != nil {
			return err
		}
		price, err := decimal.NewFromString(priceText)
		if err != nil {
			return fmt.Errorf("corrupt price %q for %s: %w", priceText, symbol, err)
		}
		h.AddPoints(symbol, PricePoint{Timestamp: time.Unix(unix, 0).UTC(), Price: price})
	}
	return rows.Err()
}
