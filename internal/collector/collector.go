package collector

import (
	"context"
	"fmt"
	"time"

	"FxSignal/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Count int
	Bars  []model.OHLCV
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _, _, _ string) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(m.Price, m.Count, 15*time.Minute), nil
}

// GenerateMockBars builds a gently rising series ending now.
func GenerateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	end := time.Now().Truncate(step)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector binds a Fetcher to the lookback period and bar interval.
type Collector struct {
	Fetcher  Fetcher
	Period   string
	Interval string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, period, interval string) *Collector {
	return &Collector{Fetcher: fetcher, Period: period, Interval: interval}
}

// Collect fetches the bars for a pair. An empty Bars slice with a nil error
// means the source had nothing for this pair.
func (c *Collector) Collect(ctx context.Context, pair model.Pair) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchBars(ctx, pair.Ticker, c.Period, c.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s (%s) from %s: %w", pair.Name, pair.Ticker, c.Fetcher.Name(), err)
	}
	return &model.PriceSeries{
		Pair:      pair,
		Period:    c.Period,
		Interval:  c.Interval,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
