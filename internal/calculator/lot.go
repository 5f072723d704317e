package calculator

import (
	"errors"
	"math"
	"strconv"
)

// StopLossFactor places the stop 0.5% below entry.
const StopLossFactor = 0.995

var (
	// ErrZeroPipRisk means entry and stop coincide, so no lot size exists.
	ErrZeroPipRisk = errors.New("pip risk is zero: entry price equals stop price")
	// ErrInvalidLotSize means the division produced a non-finite number.
	ErrInvalidLotSize = errors.New("lot size is not a finite number")
)

// StopLossBelow returns the stop price for an entry. The same downside
// offset is used for Buy and Sell.
func StopLossBelow(entry float64) float64 {
	return entry * StopLossFactor
}

// RiskAmount is the currency amount put at risk: balance * percent / 100.
func RiskAmount(balance, riskPercent float64) float64 {
	return balance * (riskPercent / 100)
}

// PipRisk is the absolute distance between entry and stop.
func PipRisk(entry, stop float64) float64 {
	return math.Abs(entry - stop)
}

// CalculateLotSize sizes a position so that hitting the stop loses
// riskPercent of balance. The result is rounded to 2 decimals.
func CalculateLotSize(balance, riskPercent, entry, stop float64) (float64, error) {
	pipRisk := PipRisk(entry, stop)
	if pipRisk == 0 {
		return 0, ErrZeroPipRisk
	}
	lot := RiskAmount(balance, riskPercent) / pipRisk
	if math.IsNaN(lot) || math.IsInf(lot, 0) {
		return 0, ErrInvalidLotSize
	}
	return Round(lot, 2), nil
}

// Round rounds the exact binary value of v to the given number of decimal
// places, ties to even. 2.675 is stored just below the half, so it gives 2.67.
func Round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
