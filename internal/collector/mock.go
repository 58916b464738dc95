package collector

import (
	"context"
	"math"
	"math/rand"
	"time"

	"AlphaMind/internal/model"
)

// MockFetcher returns controllable synthetic data for offline runs and tests.
// Bars takes precedence; otherwise a seeded random walk of Count bars is produced.
type MockFetcher struct {
	Price float64
	Count int
	Seed  int64
	Bars  []model.OHLCV
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, _ string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		out := make([]model.OHLCV, len(m.Bars))
		copy(out, m.Bars)
		return out, nil
	}
	count := m.Count
	if count == 0 {
		count = 504
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return RandomWalk(price, count, m.Seed), nil
}

// mockStart is the first date of generated series.
var mockStart = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

// RandomWalk generates count daily bars on consecutive weekdays. Every seventh
// move is forced down so no 14-bar stretch is free of losses.
func RandomWalk(start float64, count int, seed int64) []model.OHLCV {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.OHLCV, count)
	price := start
	day := mockStart
	for i := 0; i < count; i++ {
		r := rng.NormFloat64() * 0.012
		if i%7 == 0 {
			r = -math.Abs(r) - 0.001
		}
		open := price
		price = price * (1 + r)
		bars[i] = model.OHLCV{
			Time:   day,
			Open:   open,
			High:   math.Max(open, price) * (1 + rng.Float64()*0.004),
			Low:    math.Min(open, price) * (1 - rng.Float64()*0.004),
			Close:  price,
			Volume: 1e6 * (0.5 + rng.Float64()),
		}
		day = nextWeekday(day)
	}
	return bars
}

// FlatSeries generates count bars with a constant price and volume.
func FlatSeries(price, volume float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	day := mockStart
	for i := range bars {
		bars[i] = model.OHLCV{Time: day, Open: price, High: price, Low: price, Close: price, Volume: volume}
		day = nextWeekday(day)
	}
	return bars
}

func nextWeekday(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
