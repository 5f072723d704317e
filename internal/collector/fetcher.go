package collector

import (
	"context"

	"FxSignal/internal/model"
)

// Fetcher defines the interface for fetching market data.
// Bars come back in chronological order; an empty slice means no data.
type Fetcher interface {
	FetchBars(ctx context.Context, ticker, period, interval string) ([]model.OHLCV, error)
	Name() string
}
