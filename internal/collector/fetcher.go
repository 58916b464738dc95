package collector

import (
	"context"

	"AlphaMind/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol, period string) ([]model.OHLCV, error)
	Name() string
}
