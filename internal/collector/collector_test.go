package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlphaMind/internal/model"
)

const yahooBody = `{"chart":{"result":[{"timestamp":[1704240000,1704153600,1704326400],
"indicators":{"quote":[{"open":[101,100,null],"high":[102,101,null],"low":[99,98,null],
"close":[101.5,100.5,null],"volume":[2000,1000,null]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "SPX", "2y")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Contains(t, gotQuery, "range=2y")
	assert.Contains(t, gotQuery, "interval=1d")

	require.Len(t, bars, 2, "null bar should be skipped")
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 2000.0, bars[1].Volume)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantNil bool
	}{
		{"server error", http.StatusInternalServerError, "boom", true, false},
		{"not found status", http.StatusNotFound, "", false, true},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Bad","description":"bad request"}}}`, true, false},
		{"not found api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, false, true},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewYahooFetcher("")
			f.BaseURL = srv.URL
			bars, err := f.FetchDailyBars(context.Background(), "AAPL", "2y")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Empty(t, bars)
			}
		})
	}
}

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`[{"timestamp":1704240000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10},
{"timestamp":1704153600,"open":1,"high":2,"low":0.5,"close":1.2,"volume":10}]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	bars, err := f.FetchDailyBars(context.Background(), "MSFT", "1y")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.2, bars[0].Close)
}

func TestCollector_Collect(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	mock := &MockFetcher{Bars: []model.OHLCV{
		{Time: day.AddDate(0, 0, 1), Close: 2},
		{Time: day, Close: 1},
		{Time: day.Add(3 * time.Hour), Close: 1.5},
	}}
	c := NewCollector(mock, "", zerolog.Nop())
	assert.Equal(t, DefaultPeriod, c.Period)

	series, err := c.Collect(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", series.Symbol)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 1.5, series.Bars[0].Close, "later bar of a duplicated day wins")
	assert.NoError(t, series.Validate())
}

func TestCollector_NotFound(t *testing.T) {
	c := NewCollector(&MockFetcher{Bars: []model.OHLCV{}}, "2y", zerolog.Nop())
	_, err := c.Collect(context.Background(), "NOPE")

	var fetchErr *DataFetchError
	require.ErrorAs(t, err, &fetchErr)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "NOPE", nf.Symbol)
}

func TestCollector_FetchFailure(t *testing.T) {
	boom := errors.New("network down")
	c := NewCollector(&MockFetcher{Err: boom}, "2y", zerolog.Nop())
	_, err := c.Collect(context.Background(), "AAPL")

	var fetchErr *DataFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "mock", fetchErr.Source)
	assert.ErrorIs(t, err, boom)
}

func TestRandomWalk(t *testing.T) {
	a := RandomWalk(100, 300, 7)
	b := RandomWalk(100, 300, 7)
	require.Len(t, a, 300)
	assert.Equal(t, a, b, "same seed yields the same series")
	series := model.RawSeries{Bars: a}
	assert.NoError(t, series.Validate())
	for _, bar := range a {
		assert.NotEqual(t, time.Saturday, bar.Time.Weekday())
		assert.NotEqual(t, time.Sunday, bar.Time.Weekday())
	}
}
