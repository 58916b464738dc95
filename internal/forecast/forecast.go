// Package forecast rolls a trained model forward over future days, feeding
// each prediction back into the input window.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"AlphaMind/internal/model"
	"AlphaMind/internal/regressor"
	"AlphaMind/internal/ringbuf"
	"AlphaMind/internal/sequence"
)

// DefaultHorizon is the number of future days forecast when none is given.
const DefaultHorizon = 30

// MaxHorizon bounds the forecast length regardless of configuration.
const MaxHorizon = 3650

// ErrInvalidHorizon is returned for a horizon outside [1, MaxHorizon].
var ErrInvalidHorizon = fmt.Errorf("forecast horizon must be between 1 and %d", MaxHorizon)

// ForecastError reports the step at which prediction failed (1-based).
type ForecastError struct {
	Step int
	Err  error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast failed at step %d: %v", e.Step, e.Err)
}

func (e *ForecastError) Unwrap() error { return e.Err }

// Forecaster produces multi-step forecasts.
type Forecaster struct {
	// FeedbackColumn is the feature slot that receives each prediction.
	FeedbackColumn string
	log            zerolog.Logger
}

// New creates a Forecaster. An empty feedback column means Open.
func New(feedbackColumn string, log zerolog.Logger) *Forecaster {
	if feedbackColumn == "" {
		feedbackColumn = model.ColOpen
	}
	return &Forecaster{FeedbackColumn: feedbackColumn, log: log}
}

// Forecast predicts horizon consecutive prices starting from seed, the
// newest scaled window. Each step appends a copy of the newest row with the
// feedback column replaced by the prediction, and evicts the oldest row.
func (f *Forecaster) Forecast(ctx context.Context, m regressor.Model, seed [][]float64,
	scalerY, scalerX *sequence.Scaler, horizon int, lastDate time.Time) (model.ForecastPath, error) {
	if horizon < 1 || horizon > MaxHorizon {
		return model.ForecastPath{}, ErrInvalidHorizon
	}
	if len(seed) == 0 {
		return model.ForecastPath{}, errors.New("empty seed window")
	}
	slot := scalerX.Index(f.FeedbackColumn)
	if slot < 0 {
		return model.ForecastPath{}, fmt.Errorf("feedback column %q is not a feature", f.FeedbackColumn)
	}

	window := ringbuf.FromRows(seed)
	path := model.ForecastPath{
		Prices: make([]float64, 0, horizon),
		Dates:  make([]time.Time, 0, horizon),
	}

	for step := 1; step <= horizon; step++ {
		if err := ctx.Err(); err != nil {
			return model.ForecastPath{}, &ForecastError{Step: step, Err: err}
		}
		scaled, err := m.PredictOne(ctx, window.Rows())
		if err != nil {
			return model.ForecastPath{}, &ForecastError{Step: step, Err: err}
		}
		if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
			return model.ForecastPath{}, &ForecastError{Step: step, Err: errors.New("model returned a non-finite value")}
		}

		price := scalerY.InverseValue(0, scaled)
		path.Prices = append(path.Prices, price)
		path.Dates = append(path.Dates, lastDate.AddDate(0, 0, step))

		newest, _ := window.Newest()
		next := make([]float64, len(newest))
		copy(next, newest)
		next[slot] = scalerX.ScaleValue(slot, price)
		window.Push(next)
	}

	f.log.Debug().
		Int("horizon", horizon).
		Float64("first", path.Prices[0]).
		Float64("last", path.Prices[len(path.Prices)-1]).
		Msg("forecast complete")
	return path, nil
}
