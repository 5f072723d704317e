package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the fetched bars for one pair together with the rolling
// averages drawn over them. ShortMA and LongMA are aligned with Bars and hold
// NaN where the window is not yet filled.
type PriceSeries struct {
	Pair      Pair
	Period    string
	Interval  string
	Bars      []OHLCV
	ShortMA   []float64
	LongMA    []float64
	FetchedAt time.Time
}

// Last returns the most recent bar. The series must not be empty.
func (s *PriceSeries) Last() OHLCV {
	return s.Bars[len(s.Bars)-1]
}
