package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"stocktracker/internal/models"
)

// SQLiteRecorder appends quote snapshots to a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			price       REAL,
			change      REAL,
			change_pct  REAL,
			day_high    REAL,
			day_low     REAL,
			volume      INTEGER,
			source      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_symbol_ts ON quote_snapshots(symbol, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordQuote appends one snapshot row.
func (r *SQLiteRecorder) RecordQuote(quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO quote_snapshots
			(timestamp, symbol, price, change, change_pct, day_high, day_low, volume, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quote.AsOf.Unix(), quote.Symbol, quote.Price, quote.Change, quote.ChangePercent,
		quote.DayHigh, quote.DayLow, quote.Volume, quote.Source,
	)
	if err != nil {
		return fmt.Errorf("insert quote snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
