package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlphaMind/internal/model"
)

func sampleReport(ticker string) *model.Report {
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rep := model.NewReport(model.ReportParams{
		Ticker:       ticker,
		CurrentPrice: 190,
		Accuracy:     96.5,
		Path: model.ForecastPath{
			Prices: []float64{191, 192, 193},
			Dates:  []time.Time{day.AddDate(0, 0, 1), day.AddDate(0, 0, 2), day.AddDate(0, 0, 3)},
		},
		TopFeatures: []model.FeatureScore{{Name: "Volume", Variance: 10}, {Name: "MA20", Variance: 2}},
		Metrics:     model.DatasetMetrics{TrainingSamples: 220, TestSamples: 55, FeaturesCount: 16, SequenceLength: 30},
	})
	return &rep
}

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r := openTestDB(t)
	id, err := r.RecordRun(sampleReport("AAPL"))
	require.NoError(t, err)
	assert.Positive(t, id)

	var points, features int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM forecast_points WHERE run_id = ?`, id).Scan(&points))
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM forecast_features WHERE run_id = ?`, id).Scan(&features))
	assert.Equal(t, 3, points)
	assert.Equal(t, 2, features)

	runs, err := r.RecentRuns("AAPL", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Success)
	assert.Equal(t, 193.0, runs[0].PredictedPrice)
	assert.Equal(t, "2024-07-04", runs[0].PredictionDate)
	assert.Equal(t, 3, runs[0].Horizon)
}

func TestSQLiteRecorder_RecentRunsOrderAndLimit(t *testing.T) {
	r := openTestDB(t)
	base := time.Unix(1_700_000_000, 0)
	tick := 0
	r.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Hour) }

	_, err := r.RecordRun(sampleReport("MSFT"))
	require.NoError(t, err)
	require.NoError(t, r.RecordFailure("MSFT", "data_fetch", errors.New("timeout")))
	_, err = r.RecordRun(sampleReport("AAPL"))
	require.NoError(t, err)

	runs, err := r.RecentRuns("MSFT", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "data_fetch", runs[0].ErrorKind)

	runs, err = r.RecentRuns("MSFT", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	_, err := r.RecordRun(sampleReport("X"))
	assert.NoError(t, err)
	assert.NoError(t, r.RecordFailure("X", "other", errors.New("x")))
	runs, err := r.RecentRuns("X", 3)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
