package strategy

import (
	"errors"
	"fmt"

	"FxSignal/internal/calculator"
	"FxSignal/internal/model"
)

// Moving-average windows of the crossover.
const (
	ShortWindow = 10
	LongWindow  = 50
)

// ErrInsufficientHistory is returned when there are fewer bars than the long
// window, so the long average is undefined at the latest bar.
var ErrInsufficientHistory = errors.New("insufficient price history")

// GenerateSignal compares the latest 10-bar and 50-bar averages of the close.
// Buy when the short average is strictly above the long one, Sell otherwise
// (equality included). The entry price is the latest close.
func GenerateSignal(bars []model.OHLCV) (*model.Signal, error) {
	if len(bars) < LongWindow {
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientHistory, len(bars), LongWindow)
	}
	closes := calculator.Closes(bars)

	short, err := calculator.DecimalSMA(closes, ShortWindow)
	if err != nil {
		return nil, fmt.Errorf("short average: %w", err)
	}
	long, err := calculator.DecimalSMA(closes, LongWindow)
	if err != nil {
		return nil, fmt.Errorf("long average: %w", err)
	}

	dir := model.Sell
	if short.GreaterThan(long) {
		dir = model.Buy
	}
	return &model.Signal{
		Direction:  dir,
		EntryPrice: closes[len(closes)-1],
		ShortMA:    short.InexactFloat64(),
		LongMA:     long.InexactFloat64(),
	}, nil
}

// BuildPlan derives the stop from the entry and sizes the position.
func BuildPlan(sig *model.Signal, balance, riskPercent float64) (*model.TradePlan, error) {
	in := model.SizingInput{
		Balance:     balance,
		RiskPercent: riskPercent,
		EntryPrice:  sig.EntryPrice,
		StopPrice:   calculator.StopLossBelow(sig.EntryPrice),
	}
	lot, err := SizePosition(in)
	if err != nil {
		return nil, err
	}
	return &model.TradePlan{
		Signal:     *sig,
		StopLoss:   in.StopPrice,
		RiskAmount: calculator.RiskAmount(in.Balance, in.RiskPercent),
		PipRisk:    calculator.PipRisk(in.EntryPrice, in.StopPrice),
		LotSize:    lot,
	}, nil
}

// SizePosition runs the position sizer over a SizingInput.
func SizePosition(in model.SizingInput) (float64, error) {
	return calculator.CalculateLotSize(in.Balance, in.RiskPercent, in.EntryPrice, in.StopPrice)
}

// Evaluate runs the full pipeline over a bar series: signal, stop, lot size.
func Evaluate(bars []model.OHLCV, balance, riskPercent float64) (*model.TradePlan, error) {
	sig, err := GenerateSignal(bars)
	if err != nil {
		return nil, err
	}
	return BuildPlan(sig, balance, riskPercent)
}

// Annotate attaches the rolling averages used for charting to the series.
func Annotate(series *model.PriceSeries) {
	closes := calculator.Closes(series.Bars)
	series.ShortMA = calculator.RollingSMA(closes, ShortWindow)
	series.LongMA = calculator.RollingSMA(closes, LongWindow)
}
