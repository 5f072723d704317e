package recorder

import (
	"context"

	"FxSignal/internal/model"

	"github.com/rs/zerolog/log"
)

// Recorder journals render-cycle reports for later analysis.
// Successful reports go to signal_snapshots, failures to fetch_failures.
type Recorder interface {
	RecordReport(ctx context.Context, rep *model.Report) error
	Close() error
}

// snapshotRow flattens a successful report into column order.
func snapshotRow(rep *model.Report) []any {
	p := rep.Plan
	var bars int
	if rep.Series != nil {
		bars = len(rep.Series.Bars)
	}
	return []any{
		rep.RunID, rep.GeneratedAt.Unix(), rep.Pair.Name, rep.Pair.Ticker,
		string(p.Signal.Direction), p.Signal.EntryPrice, p.Signal.ShortMA, p.Signal.LongMA,
		p.StopLoss, p.RiskAmount, p.PipRisk, p.LotSize,
		rep.Balance, rep.RiskPercent, bars,
	}
}

func failureRow(rep *model.Report) []any {
	return []any{rep.RunID, rep.GeneratedAt.Unix(), rep.Pair.Name, rep.Pair.Ticker, rep.Failure}
}

// Open picks a backend: Postgres when a DSN is given, else SQLite when a
// path is given, else Noop. A backend that fails to open degrades to Noop
// with a warning.
func Open(ctx context.Context, sqlitePath, postgresDSN string) Recorder {
	switch {
	case postgresDSN != "":
		pr, err := NewPostgresRecorder(ctx, postgresDSN)
		if err != nil {
			log.Warn().Err(err).Msg("init postgres recorder failed, using noop")
			return NewNoopRecorder()
		}
		log.Info().Msg("recorder: postgres")
		return pr
	case sqlitePath != "":
		sr, err := NewSQLiteRecorder(sqlitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			return NewNoopRecorder()
		}
		log.Info().Str("path", sqlitePath).Msg("recorder: sqlite")
		return sr
	default:
		return NewNoopRecorder()
	}
}
