// Package pipeline runs one forecast end to end: fetch, indicators, windows,
// training, evaluation and the autoregressive forecast.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"AlphaMind/internal/collector"
	"AlphaMind/internal/forecast"
	"AlphaMind/internal/indicators"
	"AlphaMind/internal/model"
	"AlphaMind/internal/regressor"
	"AlphaMind/internal/report"
	"AlphaMind/internal/sequence"
)

// Stage names reported to the StageObserver.
const (
	StageFetch      = "fetch"
	StageIndicators = "indicators"
	StageSequence   = "sequence"
	StageTrain      = "train"
	StageEvaluate   = "evaluate"
	StageForecast   = "forecast"
)

// StageObserver receives the duration of every completed stage.
type StageObserver interface {
	ObserveStage(stage string, d time.Duration)
}

// Options selects what a run produces.
type Options struct {
	Horizon int
	// Predict false stops after training.
	Predict bool
}

// Outcome is the result of a successful run. Report is nil for train-only runs.
type Outcome struct {
	Ticker  string
	Dataset model.Dataset
	Report  *model.Report
}

// Runner holds the stage components.
type Runner struct {
	Collector  *collector.Collector
	Engine     *indicators.Engine
	Builder    *sequence.Builder
	Trainer    regressor.Trainer
	Forecaster *forecast.Forecaster
	Observer   StageObserver
	Log        zerolog.Logger
}

// Run executes the pipeline for ticker. Each stage short-circuits on error
// and the returned error keeps its stage type for errors.As.
func (r *Runner) Run(ctx context.Context, ticker string, opts Options) (*Outcome, error) {
	if opts.Predict && (opts.Horizon < 1 || opts.Horizon > forecast.MaxHorizon) {
		return nil, forecast.ErrInvalidHorizon
	}

	start := time.Now()
	series, err := r.Collector.Collect(ctx, ticker)
	if err != nil {
		return nil, err
	}
	r.observe(StageFetch, start)
	log := r.Log.With().Str("ticker", series.Symbol).Logger()

	start = time.Now()
	frame, err := r.Engine.Compute(series)
	if err != nil {
		return nil, err
	}
	r.observe(StageIndicators, start)

	start = time.Now()
	built, err := r.Builder.Build(frame)
	if err != nil {
		return nil, err
	}
	r.observe(StageSequence, start)
	ds := built.Dataset
	log.Info().
		Int("rows", frame.Len()).
		Int("train", len(ds.Train)).
		Int("test", len(ds.Test)).
		Msg("dataset prepared")

	start = time.Now()
	m, err := r.Trainer.Train(ctx, ds.Train)
	if err != nil {
		return nil, err
	}
	r.observe(StageTrain, start)

	out := &Outcome{Ticker: series.Symbol, Dataset: ds}
	if !opts.Predict {
		log.Info().Msg("training complete, prediction not requested")
		return out, nil
	}

	start = time.Now()
	testPred, err := regressor.PredictAll(ctx, m, ds.Test)
	if err != nil {
		log.Warn().Err(err).Msg("test predictions failed, accuracy falls back")
		testPred = nil
	}
	r.observe(StageEvaluate, start)

	start = time.Now()
	seed := ds.Test[len(ds.Test)-1].X
	path, err := r.Forecaster.Forecast(ctx, m, seed, built.ScalerY, built.ScalerX, opts.Horizon, frame.LastDate())
	if err != nil {
		return nil, err
	}
	r.observe(StageForecast, start)

	rep := report.Evaluate(report.Input{
		Ticker:          series.Symbol,
		Frame:           frame,
		Dataset:         ds,
		TestPredictions: testPred,
		Path:            path,
	})
	out.Report = &rep

	predicted, _ := rep.PredictedPrice()
	log.Info().
		Float64("current", rep.CurrentPrice()).
		Float64("predicted", predicted).
		Float64("accuracy", rep.Accuracy()).
		Int("horizon", opts.Horizon).
		Msg("forecast complete")
	return out, nil
}

func (r *Runner) observe(stage string, start time.Time) {
	if r.Observer != nil {
		r.Observer.ObserveStage(stage, time.Since(start))
	}
}
