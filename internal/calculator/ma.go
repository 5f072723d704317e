package calculator

import (
	"errors"
	"math"

	"FxSignal/internal/model"

	"github.com/shopspring/decimal"
)

var errShortSeries = errors.New("not enough data for SMA calculation")

// window returns the last period prices, or an error when there are too few.
func window(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, errShortSeries
	}
	return prices[len(prices)-period:], nil
}

// DecimalSMA computes the simple moving average of the last period prices in
// exact decimal arithmetic. A window of equal prices always averages back to
// exactly that price, so two windows over a flat series compare equal.
func DecimalSMA(prices []float64, period int) (decimal.Decimal, error) {
	w, err := window(prices, period)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range w {
		sum = sum.Add(decimal.NewFromFloat(p))
	}
	return sum.Div(decimal.NewFromInt(int64(period))), nil
}

// RollingSMA returns the trailing SMA at every index. Indices before the
// first full window hold NaN.
func RollingSMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if period <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// Closes extracts the close prices of the given bars.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
