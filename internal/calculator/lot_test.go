package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLotSize_Reference(t *testing.T) {
	assert.InDelta(t, 20.0, RiskAmount(1000, 2), 1e-12)
	assert.InDelta(t, 0.5, PipRisk(100, 99.5), 1e-12)

	lot, err := CalculateLotSize(1000, 2, 100, 99.5)
	require.NoError(t, err)
	assert.Equal(t, 40.0, lot)
}

func TestCalculateLotSize_TwoDecimals(t *testing.T) {
	tests := []struct {
		balance, risk, entry, stop float64
		want                       float64
	}{
		{1000, 2, 1.0850, 1.0850 * StopLossFactor, 3686.64},
		{1000, 3, 100, 97, 10},
		{500, 1, 10, 13, 1.67},
		{0, 5, 100, 99.5, 0},
		{1000, 0, 100, 99.5, 0},
	}
	for _, tt := range tests {
		lot, err := CalculateLotSize(tt.balance, tt.risk, tt.entry, tt.stop)
		require.NoError(t, err)
		assert.Equal(t, tt.want, lot, "%+v", tt)
		assert.GreaterOrEqual(t, lot, 0.0)
		assert.Equal(t, lot, math.Round(lot*100)/100)
	}
}

func TestCalculateLotSize_ZeroPipRisk(t *testing.T) {
	_, err := CalculateLotSize(1000, 2, 100, 100)
	assert.ErrorIs(t, err, ErrZeroPipRisk)

	// entry 0 gives stop 0
	_, err = CalculateLotSize(1000, 2, 0, StopLossBelow(0))
	assert.ErrorIs(t, err, ErrZeroPipRisk)
}

func TestCalculateLotSize_NonFinite(t *testing.T) {
	_, err := CalculateLotSize(math.Inf(1), 2, 100, 99.5)
	assert.ErrorIs(t, err, ErrInvalidLotSize)
}

func TestStopLossBelow(t *testing.T) {
	for _, entry := range []float64{100, 1.0850, 2034.6, 151.337} {
		assert.Equal(t, entry*0.995, StopLossBelow(entry))
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.24, Round(1.2351, 2))
	assert.Equal(t, -1.24, Round(-1.2351, 2))
	assert.Equal(t, 40.0, Round(39.999999999, 2))

	tests := []struct {
		in   float64
		want float64
	}{
		{2.675, 2.67},
		{1.005, 1.0},
		{0.125, 0.12},
		{0.375, 0.38},
		{1.115, 1.11},
		{-2.675, -2.67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in, 2), "Round(%v, 2)", tt.in)
	}
}
