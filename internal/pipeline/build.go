package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"AlphaMind/internal/collector"
	"AlphaMind/internal/config"
	"AlphaMind/internal/forecast"
	"AlphaMind/internal/indicators"
	"AlphaMind/internal/regressor"
	"AlphaMind/internal/sequence"
)

// NewFetcher selects the market data source named in cfg.
func NewFetcher(cfg config.DataSource) (collector.Fetcher, error) {
	switch cfg.Type {
	case "yahoo", "":
		return collector.NewYahooFetcher(cfg.Proxy), nil
	case "rest":
		return collector.NewRESTFetcher(cfg.BaseURL, cfg.APIKey, cfg.Proxy), nil
	case "mock":
		return &collector.MockFetcher{Seed: cfg.MockSeed}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Type)
	}
}

// NewTrainer selects the regressor backend named in cfg.
func NewTrainer(cfg config.Model) (regressor.Trainer, error) {
	switch cfg.Regressor {
	case "ridge", "":
		return regressor.NewRidge(cfg.RidgeLambda), nil
	case "remote":
		return regressor.NewRemote(cfg.RemoteURL, cfg.RemoteTimeout), nil
	default:
		return nil, fmt.Errorf("unknown regressor %q", cfg.Regressor)
	}
}

// New wires a Runner from configuration.
func New(cfg *config.Config, log zerolog.Logger) (*Runner, error) {
	fetcher, err := NewFetcher(cfg.DataSource)
	if err != nil {
		return nil, err
	}
	trainer, err := NewTrainer(cfg.Model)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("source", fetcher.Name()).
		Str("regressor", cfg.Model.Regressor).
		Msg("pipeline wired")
	return &Runner{
		Collector:  collector.NewCollector(fetcher, cfg.DataSource.Period, log),
		Engine:     indicators.NewEngine(cfg.Indicators, log),
		Builder:    sequence.NewBuilder(cfg.Model.SeqLen, cfg.Model.TrainRatio),
		Trainer:    trainer,
		Forecaster: forecast.New(cfg.Model.FeedbackColumn, log),
		Log:        log,
	}, nil
}
