package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"FxSignal/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists reports to a SQLite database.
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

	// WAL lets dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			pair          TEXT NOT NULL,
			ticker        TEXT NOT NULL,
			signal        TEXT NOT NULL,
			entry_price   REAL,
			sma_short     REAL,
			sma_long      REAL,
			stop_loss     REAL,
			risk_amount   REAL,
			pip_risk      REAL,
			lot_size      REAL,
			balance       REAL,
			risk_percent  REAL,
			bar_count     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON signal_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_pair ON signal_snapshots(pair)`,

		`CREATE TABLE IF NOT EXISTS fetch_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			pair      TEXT NOT NULL,
			ticker    TEXT NOT NULL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON fetch_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReport(ctx context.Context, rep *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !rep.OK() {
		_, err := r.db.ExecContext(ctx, `INSERT INTO fetch_failures
			(run_id, timestamp, pair, ticker, message)
			VALUES (?,?,?,?,?)`, failureRow(rep)...)
		return err
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO signal_snapshots
		(run_id, timestamp, pair, ticker, signal, entry_price, sma_short, sma_long,
		 stop_loss, risk_amount, pip_risk, lot_size, balance, risk_percent, bar_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, snapshotRow(rep)...)
	return err
}

// CountSnapshots returns how many snapshots were recorded for a pair.
func (r *SQLiteRecorder) CountSnapshots(ctx context.Context, pair string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signal_snapshots WHERE pair = ?`, pair).Scan(&n)
	return n, err
}

// CountFailures returns how many failed fetches were recorded for a pair.
func (r *SQLiteRecorder) CountFailures(ctx context.Context, pair string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fetch_failures WHERE pair = ?`, pair).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
