// Package indicators derives the technical indicator frame from raw daily bars.
package indicators

import (
	"fmt"

	"github.com/rs/zerolog"

	"AlphaMind/internal/calculator"
	"AlphaMind/internal/model"
)

// Look-back windows used by the engine.
const (
	shortWindow  = 20
	mediumWindow = 50
	longWindow   = 200
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	bandWidth    = 2.0
)

// Options holds the row-count thresholds.
type Options struct {
	MinRawRows     int `yaml:"min_raw_rows" default:"250" validate:"gte=1"`
	MinFeatureRows int `yaml:"min_feature_rows" default:"50" validate:"gte=1"`
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{MinRawRows: 250, MinFeatureRows: 50}
}

// Engine computes indicator frames.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

// NewEngine creates an Engine. Zero thresholds fall back to the defaults.
func NewEngine(opts Options, log zerolog.Logger) *Engine {
	def := DefaultOptions()
	if opts.MinRawRows <= 0 {
		opts.MinRawRows = def.MinRawRows
	}
	if opts.MinFeatureRows <= 0 {
		opts.MinFeatureRows = def.MinFeatureRows
	}
	return &Engine{opts: opts, log: log}
}

// Compute derives every indicator column and drops rows where any column is
// undefined (incomplete look-back or degenerate RSI).
func (e *Engine) Compute(raw model.RawSeries) (*model.IndicatorFrame, error) {
	if raw.Len() < e.opts.MinRawRows {
		return nil, &InsufficientDataError{Stage: StageRaw, Rows: raw.Len(), Min: e.opts.MinRawRows}
	}
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series: %w", err)
	}

	cols, err := derive(raw)
	if err != nil {
		return nil, fmt.Errorf("derive indicators: %w", err)
	}

	frame := &model.IndicatorFrame{
		Symbol:  raw.Symbol,
		Columns: append([]string(nil), model.FrameColumns...),
		Values:  make(map[string][]float64, len(model.FrameColumns)),
	}
	for _, name := range model.FrameColumns {
		frame.Values[name] = make([]float64, 0, raw.Len())
	}

	dropped := 0
	for i, bar := range raw.Bars {
		if !rowDefined(cols, i) {
			dropped++
			continue
		}
		frame.Dates = append(frame.Dates, bar.Time)
		for _, name := range model.FrameColumns {
			frame.Values[name] = append(frame.Values[name], cols[name][i])
		}
	}

	e.log.Debug().
		Str("symbol", raw.Symbol).
		Int("rows", frame.Len()).
		Int("dropped", dropped).
		Msg("indicator frame computed")

	if frame.Len() < e.opts.MinFeatureRows {
		return nil, &InsufficientDataError{Stage: StageFeatures, Rows: frame.Len(), Min: e.opts.MinFeatureRows}
	}
	return frame, nil
}

func derive(raw model.RawSeries) (map[string][]float64, error) {
	n := raw.Len()
	closes := raw.Closes()
	volumes := raw.Volumes()

	cols := map[string][]float64{
		model.ColClose:  closes,
		model.ColVolume: volumes,
	}
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range raw.Bars {
		opens[i], highs[i], lows[i] = b.Open, b.High, b.Low
	}
	cols[model.ColOpen], cols[model.ColHigh], cols[model.ColLow] = opens, highs, lows

	var err error
	for name, period := range map[string]int{
		model.ColMA20:  shortWindow,
		model.ColMA50:  mediumWindow,
		model.ColMA200: longWindow,
	} {
		if cols[name], err = calculator.RollingSMA(closes, period); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	cols[model.ColReturn] = calculator.PctChange(closes)

	if cols[model.ColVolatility], err = calculator.RollingStdDev(closes, shortWindow); err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}
	if cols[model.ColRSI], err = calculator.RollingRSI(closes, rsiPeriod); err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}

	fast, err := calculator.EMA(closes, macdFast)
	if err != nil {
		return nil, fmt.Errorf("macd fast: %w", err)
	}
	slow, err := calculator.EMA(closes, macdSlow)
	if err != nil {
		return nil, fmt.Errorf("macd slow: %w", err)
	}
	macd := make([]float64, n)
	for i := range macd {
		macd[i] = fast[i] - slow[i]
	}
	cols[model.ColMACD] = macd
	if cols[model.ColMACDSignal], err = calculator.EMA(macd, macdSignal); err != nil {
		return nil, fmt.Errorf("macd signal: %w", err)
	}

	ma20, vol := cols[model.ColMA20], cols[model.ColVolatility]
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := range upper {
		upper[i] = ma20[i] + bandWidth*vol[i]
		lower[i] = ma20[i] - bandWidth*vol[i]
	}
	cols[model.ColBBUpper], cols[model.ColBBLower] = upper, lower

	if cols[model.ColVolumeMA], err = calculator.RollingSMA(volumes, shortWindow); err != nil {
		return nil, fmt.Errorf("volume ma: %w", err)
	}
	if cols[model.ColVolumeRatio], err = calculator.Divide(volumes, cols[model.ColVolumeMA]); err != nil {
		return nil, fmt.Errorf("volume ratio: %w", err)
	}
	return cols, nil
}

func rowDefined(cols map[string][]float64, i int) bool {
	for _, name := range model.FrameColumns {
		if !calculator.Defined(cols[name][i]) {
			return false
		}
	}
	return true
}
