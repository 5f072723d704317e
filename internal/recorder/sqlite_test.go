package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"FxSignal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordReport(t *testing.T) {
	ctx := context.Background()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "signals.db"))
	require.NoError(t, err)
	defer rec.Close()

	pair := model.Pair{Name: "XAUUSD", Ticker: "GC=F"}
	ok := &model.Report{
		RunID:       "11111111-1111-1111-1111-111111111111",
		Pair:        pair,
		Balance:     1000,
		RiskPercent: 2,
		GeneratedAt: time.Now(),
		Plan: &model.TradePlan{
			Signal:   model.Signal{Direction: model.Buy, EntryPrice: 100, ShortMA: 101, LongMA: 99},
			StopLoss: 99.5, RiskAmount: 20, PipRisk: 0.5, LotSize: 40,
		},
		Series: &model.PriceSeries{Bars: make([]model.OHLCV, 60)},
	}
	failed := &model.Report{
		RunID:       "22222222-2222-2222-2222-222222222222",
		Pair:        pair,
		GeneratedAt: time.Now(),
		Failure:     "Failed to fetch data for the selected pair.",
	}

	require.NoError(t, rec.RecordReport(ctx, ok))
	require.NoError(t, rec.RecordReport(ctx, ok))
	require.NoError(t, rec.RecordReport(ctx, failed))

	n, err := rec.CountSnapshots(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = rec.CountFailures(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var lot float64
	var signal string
	require.NoError(t, rec.db.QueryRow(`SELECT signal, lot_size FROM signal_snapshots LIMIT 1`).Scan(&signal, &lot))
	assert.Equal(t, "Buy", signal)
	assert.Equal(t, 40.0, lot)
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	assert.NoError(t, rec.RecordReport(context.Background(), &model.Report{}))
	assert.NoError(t, rec.Close())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, ok := Open(ctx, "", "").(*NoopRecorder)
	assert.True(t, ok)

	sr, ok := Open(ctx, filepath.Join(t.TempDir(), "j.db"), "").(*SQLiteRecorder)
	require.True(t, ok)
	assert.NoError(t, sr.Close())

	// an unreachable directory degrades to noop
	_, ok = Open(ctx, filepath.Join(t.TempDir(), "missing", "dir", "j.db"), "").(*NoopRecorder)
	assert.True(t, ok)
}
