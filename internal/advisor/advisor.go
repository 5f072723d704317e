// Package advisor runs one render cycle: validate the request, fetch bars,
// generate the crossover signal, derive the stop and size the position.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FxSignal/internal/account"
	"FxSignal/internal/collector"
	"FxSignal/internal/metrics"
	"FxSignal/internal/model"
	"FxSignal/internal/recorder"
	"FxSignal/internal/strategy"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// User-visible messages for cycles that end without a signal.
const (
	MsgFetchFailed         = "Failed to fetch data for the selected pair."
	MsgInsufficientHistory = "Not enough price history for the selected pair: need at least %d bars, got %d."
)

// Advisor wires the collector to the signal and sizing logic.
type Advisor struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	now       func() time.Time
}

// New creates an Advisor. A nil recorder records nothing.
func New(col *collector.Collector, rec recorder.Recorder) *Advisor {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Advisor{Collector: col, Recorder: rec, now: time.Now}
}

// Validate checks a request against the input surface bounds and resolves
// its pair.
func Validate(req model.Request) (model.Pair, error) {
	pair, err := model.LookupPair(req.Pair)
	if err != nil {
		return model.Pair{}, err
	}
	if err := account.ValidateBalance(req.Balance); err != nil {
		return model.Pair{}, err
	}
	if err := account.ValidateRisk(req.RiskPercent); err != nil {
		return model.Pair{}, err
	}
	return pair, nil
}

// Advise runs one render cycle. A failed or empty fetch, or too short a
// history, yields a Report carrying a user-visible Failure and a nil error.
// Errors are returned for invalid requests and when no lot size exists.
func (a *Advisor) Advise(ctx context.Context, req model.Request) (*model.Report, error) {
	pair, err := Validate(req)
	if err != nil {
		return nil, err
	}

	rep := &model.Report{
		RunID:       uuid.NewString(),
		Pair:        pair,
		Balance:     req.Balance,
		RiskPercent: req.RiskPercent,
		GeneratedAt: a.now(),
	}
	logger := log.With().Str("run_id", rep.RunID).Str("pair", pair.Name).Str("ticker", pair.Ticker).Logger()

	series, err := a.Collector.Collect(ctx, pair)
	switch {
	case err != nil:
		logger.Error().Err(err).Msg("fetch failed")
		return a.fail(ctx, rep, MsgFetchFailed), nil
	case len(series.Bars) == 0:
		logger.Warn().Msg("fetch returned no bars")
		return a.fail(ctx, rep, MsgFetchFailed), nil
	}
	strategy.Annotate(series)
	rep.Series = series

	plan, err := strategy.Evaluate(series.Bars, req.Balance, req.RiskPercent)
	if err != nil {
		if errors.Is(err, strategy.ErrInsufficientHistory) {
			logger.Warn().Err(err).Int("bars", len(series.Bars)).Msg("signal unavailable")
			return a.fail(ctx, rep, fmt.Sprintf(MsgInsufficientHistory, strategy.LongWindow, len(series.Bars))), nil
		}
		logger.Error().Err(err).Msg("position sizing failed")
		return nil, fmt.Errorf("advise %s: %w", pair.Name, err)
	}
	rep.Plan = plan

	logger.Info().
		Str("signal", string(plan.Signal.Direction)).
		Float64("entry", plan.Signal.EntryPrice).
		Float64("stop_loss", plan.StopLoss).
		Float64("lot_size", plan.LotSize).
		Msg("signal generated")

	metrics.SignalsTotal.WithLabelValues(pair.Name, string(plan.Signal.Direction)).Inc()
	metrics.LotSize.WithLabelValues(pair.Name).Set(plan.LotSize)
	metrics.EntryPrice.WithLabelValues(pair.Name).Set(plan.Signal.EntryPrice)
	a.record(ctx, rep)
	return rep, nil
}

func (a *Advisor) fail(ctx context.Context, rep *model.Report, msg string) *model.Report {
	rep.Failure = msg
	metrics.FetchFailuresTotal.WithLabelValues(rep.Pair.Name).Inc()
	a.record(ctx, rep)
	return rep
}

func (a *Advisor) record(ctx context.Context, rep *model.Report) {
	if err := a.Recorder.RecordReport(ctx, rep); err != nil {
		log.Error().Err(err).Str("run_id", rep.RunID).Msg("record report")
	}
}
