package collector

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"AlphaMind/internal/model"
)

// DefaultPeriod is the history requested when none is configured.
const DefaultPeriod = "2y"

// Collector fetches a symbol's daily history and normalises it into a RawSeries.
type Collector struct {
	Fetcher Fetcher
	Period  string
	Log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, period string, log zerolog.Logger) *Collector {
	if period == "" {
		period = DefaultPeriod
	}
	return &Collector{Fetcher: fetcher, Period: period, Log: log}
}

// Collect fetches bars for symbol. Failures are reported as *DataFetchError;
// an empty history wraps *NotFoundError.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.RawSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Period)
	if err != nil {
		return model.RawSeries{}, &DataFetchError{Symbol: symbol, Source: c.Fetcher.Name(), Err: err}
	}

	bars = normalize(bars)
	if len(bars) == 0 {
		return model.RawSeries{}, &DataFetchError{
			Symbol: symbol,
			Source: c.Fetcher.Name(),
			Err:    &NotFoundError{Symbol: symbol},
		}
	}

	c.Log.Info().
		Str("symbol", symbol).
		Str("source", c.Fetcher.Name()).
		Int("bars", len(bars)).
		Msg("fetched daily bars")

	return model.RawSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// normalize sorts bars chronologically and keeps the last bar of any day that
// appears more than once.
func normalize(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if n := len(out); n > 0 && model.SameDay(out[n-1].Time, b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
