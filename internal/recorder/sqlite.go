package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"TickerVault/internal/model"
)

// SQLiteRecorder persists cycle history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a cycle writes.
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
		`CREATE TABLE IF NOT EXISTS update_cycles (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			region      TEXT NOT NULL,
			tickers     INTEGER,
			rows_added  INTEGER,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON update_cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ticker_outcomes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id   TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			status     TEXT NOT NULL,
			detail     TEXT,
			rows_added INTEGER,
			last_date  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_cycle ON ticker_outcomes(cycle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_ticker ON ticker_outcomes(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordCycle inserts a cycle row and its per-ticker outcomes in one
// transaction.
func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord, outcomes []TickerOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO update_cycles
		(id, timestamp, region, tickers, rows_added, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		rec.ID, rec.Started.Unix(), rec.Region,
		rec.Tickers, rec.RowsAdded, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}

	for _, o := range outcomes {
		lastDate := ""
		if !o.LastDate.IsZero() {
			lastDate = o.LastDate.Format(model.DateOnly)
		}
		_, err = tx.Exec(`INSERT INTO ticker_outcomes
			(cycle_id, ticker, status, detail, rows_added, last_date)
			VALUES (?,?,?,?,?,?)`,
			rec.ID, o.Ticker, o.Status, o.Detail, o.RowsAdded, lastDate,
		)
		if err != nil {
			return fmt.Errorf("insert outcome for %s: %w", o.Ticker, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
