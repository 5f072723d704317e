package calculator

import (
	"errors"
	"math"

	"FxSignal/internal/model"
)

// PriceRange scans the bars and returns the highest high and lowest low.
func PriceRange(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// PaddedRange widens [low, high] by pad (a fraction of the span) on both
// sides. A flat range is widened by pad of the price itself.
func PaddedRange(high, low, pad float64) (float64, float64, error) {
	if high < low {
		return 0, 0, errors.New("high must be >= low")
	}
	span := high - low
	if span == 0 {
		span = math.Abs(high)
	}
	return high + span*pad, low - span*pad, nil
}
