package recorder

import (
	"context"
	"fmt"

	"FxSignal/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PostgresRecorder persists reports to PostgreSQL through a pgx pool.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to dsn and runs migrations.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Msg("postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_snapshots (
			id            BIGSERIAL PRIMARY KEY,
			run_id        UUID NOT NULL,
			timestamp     BIGINT NOT NULL,
			pair          TEXT NOT NULL,
			ticker        TEXT NOT NULL,
			signal        TEXT NOT NULL,
			entry_price   DOUBLE PRECISION,
			sma_short     DOUBLE PRECISION,
			sma_long      DOUBLE PRECISION,
			stop_loss     DOUBLE PRECISION,
			risk_amount   DOUBLE PRECISION,
			pip_risk      DOUBLE PRECISION,
			lot_size      DOUBLE PRECISION,
			balance       DOUBLE PRECISION,
			risk_percent  DOUBLE PRECISION,
			bar_count     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON signal_snapshots(timestamp)`,
		`CREATE TABLE IF NOT EXISTS fetch_failures (
			id        BIGSERIAL PRIMARY KEY,
			run_id    UUID NOT NULL,
			timestamp BIGINT NOT NULL,
			pair      TEXT NOT NULL,
			ticker    TEXT NOT NULL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON fetch_failures(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordReport(ctx context.Context, rep *model.Report) error {
	runID, err := uuid.Parse(rep.RunID)
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	if !rep.OK() {
		row := failureRow(rep)
		row[0] = runID
		_, err := r.pool.Exec(ctx, `INSERT INTO fetch_failures
			(run_id, timestamp, pair, ticker, message)
			VALUES ($1,$2,$3,$4,$5)`, row...)
		return err
	}
	row := snapshotRow(rep)
	row[0] = runID
	_, err = r.pool.Exec(ctx, `INSERT INTO signal_snapshots
		(run_id, timestamp, pair, ticker, signal, entry_price, sma_short, sma_long,
		 stop_loss, risk_amount, pip_risk, lot_size, balance, risk_percent, bar_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`, row...)
	return err
}

func (r *PostgresRecorder) Close() error {
	log.Info().Msg("closing postgres recorder")
	r.pool.Close()
	return nil
}
