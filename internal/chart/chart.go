// Package chart turns a report into a candlestick chart description: the
// bars, both moving-average lines and an entry marker.
package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"FxSignal/internal/calculator"
	"FxSignal/internal/model"
	"FxSignal/internal/strategy"
)

var errNoPlan = errors.New("report has no trade plan")

// Candle is one candlestick.
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Line is an overlay series aligned with the candles. Nil points are gaps.
type Line struct {
	Name   string     `json:"name"`
	Points []*float64 `json:"points"`
}

// Marker annotates a single point on the chart.
type Marker struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
	Text  string    `json:"text"`
}

// Chart is everything a front end needs to draw the signal.
type Chart struct {
	Title   string   `json:"title"`
	Candles []Candle `json:"candles"`
	Lines   []Line   `json:"lines"`
	Markers []Marker `json:"markers"`
	YMin    float64  `json:"y_min"`
	YMax    float64  `json:"y_max"`
}

// Build assembles the chart for a successful report.
func Build(rep *model.Report) (*Chart, error) {
	if !rep.OK() || rep.Series == nil || len(rep.Series.Bars) == 0 {
		return nil, errNoPlan
	}
	s := rep.Series
	if len(s.ShortMA) != len(s.Bars) || len(s.LongMA) != len(s.Bars) {
		strategy.Annotate(s)
	}

	candles := make([]Candle, len(s.Bars))
	for i, b := range s.Bars {
		candles[i] = Candle{Time: b.Time, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
	}

	high, low, err := calculator.PriceRange(s.Bars)
	if err != nil {
		return nil, err
	}
	yMax, yMin, err := calculator.PaddedRange(high, low, 0.05)
	if err != nil {
		return nil, err
	}

	return &Chart{
		Title:   fmt.Sprintf("%s - %s Signal", rep.Pair.Name, rep.Plan.Signal.Direction),
		Candles: candles,
		Lines: []Line{
			{Name: fmt.Sprintf("SMA%d", strategy.ShortWindow), Points: points(s.ShortMA)},
			{Name: fmt.Sprintf("SMA%d", strategy.LongWindow), Points: points(s.LongMA)},
		},
		Markers: []Marker{{
			Time:  s.Last().Time,
			Price: rep.Plan.Signal.EntryPrice,
			Text:  "Entry",
		}},
		YMin: yMin,
		YMax: yMax,
	}, nil
}

func points(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &vals[i]
	}
	return out
}
