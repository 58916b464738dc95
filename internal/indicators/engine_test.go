package indicators

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlphaMind/internal/collector"
	"AlphaMind/internal/model"
)

func newEngine() *Engine {
	return NewEngine(DefaultOptions(), zerolog.Nop())
}

func TestCompute_DropsLookbackRows(t *testing.T) {
	for _, n := range []int{250, 300, 504} {
		raw := model.RawSeries{Symbol: "TEST", Bars: collector.RandomWalk(100, n, int64(n))}
		frame, err := newEngine().Compute(raw)
		require.NoError(t, err, "n=%d", n)

		// MA200 is the longest look-back: its first defined row is index 199.
		assert.Equal(t, n-(longWindow-1), frame.Len(), "n=%d", n)
		assert.Equal(t, raw.Bars[longWindow-1].Time, frame.Dates[0])
		assert.Equal(t, raw.Bars[n-1].Time, frame.LastDate())

		for _, name := range model.FrameColumns {
			col := frame.Column(name)
			require.Len(t, col, frame.Len(), name)
			for i, v := range col {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s[%d] undefined", name, i)
			}
		}
	}
}

func TestCompute_ColumnValues(t *testing.T) {
	raw := model.RawSeries{Symbol: "TEST", Bars: collector.RandomWalk(50, 260, 3)}
	frame, err := newEngine().Compute(raw)
	require.NoError(t, err)

	last := frame.Len() - 1
	closes := raw.Closes()
	n := len(closes)

	sum := 0.0
	for _, c := range closes[n-20:] {
		sum += c
	}
	ma20 := sum / 20
	assert.InDelta(t, ma20, frame.Column(model.ColMA20)[last], 1e-9)
	assert.InDelta(t, closes[n-1]/closes[n-2]-1, frame.Column(model.ColReturn)[last], 1e-12)

	vol := frame.Column(model.ColVolatility)[last]
	assert.InDelta(t, ma20+2*vol, frame.Column(model.ColBBUpper)[last], 1e-9)
	assert.InDelta(t, ma20-2*vol, frame.Column(model.ColBBLower)[last], 1e-9)

	rsi := frame.Column(model.ColRSI)
	for _, v := range rsi {
		assert.True(t, v >= 0 && v <= 100)
	}

	ratio := frame.Column(model.ColVolumeRatio)[last]
	assert.InDelta(t, raw.Bars[n-1].Volume/frame.Column(model.ColVolumeMA)[last], ratio, 1e-12)
	assert.Equal(t, model.FrameColumns, frame.Columns)
	assert.NotContains(t, frame.FeatureNames(), model.ColClose)
	assert.Len(t, frame.FeatureNames(), len(model.FrameColumns)-1)
}

func TestCompute_InsufficientRawData(t *testing.T) {
	raw := model.RawSeries{Symbol: "SHORT", Bars: collector.RandomWalk(100, 100, 1)}
	_, err := newEngine().Compute(raw)

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, StageRaw, insufficient.Stage)
	assert.Equal(t, 100, insufficient.Rows)
	assert.Equal(t, 250, insufficient.Min)
}

func TestCompute_FlatSeriesIsDegenerate(t *testing.T) {
	// Zero deltas leave RSI undefined on every row, so nothing survives; the
	// engine must report it rather than panic.
	raw := model.RawSeries{Symbol: "FLAT", Bars: collector.FlatSeries(100, 1000, 300)}
	var (
		frame *model.IndicatorFrame
		err   error
	)
	require.NotPanics(t, func() { frame, err = newEngine().Compute(raw) })
	assert.Nil(t, frame)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, StageFeatures, insufficient.Stage)
	assert.Equal(t, 0, insufficient.Rows)
}

func TestCompute_FlatSeriesIndicatorsConverge(t *testing.T) {
	raw := model.RawSeries{Bars: collector.FlatSeries(100, 1000, 300)}
	cols, err := derive(raw)
	require.NoError(t, err)

	last := raw.Len() - 1
	assert.InDelta(t, 100.0, cols[model.ColMA20][last], 1e-9)
	assert.InDelta(t, 100.0, cols[model.ColMA50][last], 1e-9)
	assert.InDelta(t, 100.0, cols[model.ColMA200][last], 1e-9)
	assert.InDelta(t, 0.0, cols[model.ColVolatility][last], 1e-12)
	assert.InDelta(t, 1.0, cols[model.ColVolumeRatio][last], 1e-12)
	for _, v := range cols[model.ColRSI] {
		assert.True(t, math.IsNaN(v))
	}
}

func TestCompute_RejectsUnorderedSeries(t *testing.T) {
	bars := collector.RandomWalk(100, 260, 9)
	bars[10], bars[11] = bars[11], bars[10]
	_, err := newEngine().Compute(model.RawSeries{Bars: bars})
	assert.Error(t, err)
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(Options{}, zerolog.Nop())
	assert.Equal(t, DefaultOptions(), e.opts)

	e = NewEngine(Options{MinRawRows: 10, MinFeatureRows: 5}, zerolog.Nop())
	assert.Equal(t, 10, e.opts.MinRawRows)
}
