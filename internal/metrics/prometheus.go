// Package metrics exposes forecasting metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"AlphaMind/internal/collector"
	"AlphaMind/internal/forecast"
	"AlphaMind/internal/indicators"
	"AlphaMind/internal/regressor"
	"AlphaMind/internal/sequence"
)

// Recorder holds the forecasting collectors.
type Recorder struct {
	registry       *prometheus.Registry
	runsTotal      *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	predictedPrice *prometheus.GaugeVec
	accuracy       *prometheus.GaugeVec
	stageLatency   *prometheus.HistogramVec
}

// New creates a Recorder on its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphamind_runs_total",
				Help: "Total number of forecast runs by outcome",
			},
			[]string{"symbol", "outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphamind_errors_total",
				Help: "Total number of failed runs by error kind",
			},
			[]string{"kind"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "alphamind_last_price",
				Help: "Last observed close for a symbol",
			},
			[]string{"symbol"},
		),
		predictedPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "alphamind_predicted_price",
				Help: "Final price of the latest forecast path",
			},
			[]string{"symbol"},
		),
		accuracy: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "alphamind_accuracy_percent",
				Help: "Test-split accuracy of the latest run",
			},
			[]string{"symbol"},
		),
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "alphamind_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// ObserveStage records a stage duration.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordSuccess records a completed run.
func (r *Recorder) RecordSuccess(symbol string, current, predicted, accuracy float64) {
	r.runsTotal.WithLabelValues(symbol, "success").Inc()
	r.lastPrice.WithLabelValues(symbol).Set(current)
	r.predictedPrice.WithLabelValues(symbol).Set(predicted)
	r.accuracy.WithLabelValues(symbol).Set(accuracy)
}

// RecordFailure records a failed run under the kind of its error.
func (r *Recorder) RecordFailure(symbol string, err error) {
	r.runsTotal.WithLabelValues(symbol, "failure").Inc()
	r.errorsTotal.WithLabelValues(ErrorKind(err)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ErrorKind classifies a pipeline error for labelling.
func ErrorKind(err error) string {
	var (
		fetchErr    *collector.DataFetchError
		dataErr     *indicators.InsufficientDataError
		windowErr   *sequence.InsufficientWindowsError
		trainErr    *regressor.TrainingError
		forecastErr *forecast.ForecastError
	)
	switch {
	case errors.As(err, &fetchErr):
		return "data_fetch"
	case errors.As(err, &dataErr):
		return "insufficient_data"
	case errors.As(err, &windowErr):
		return "insufficient_windows"
	case errors.As(err, &trainErr):
		return "training"
	case errors.As(err, &forecastErr):
		return "forecast"
	default:
		return "other"
	}
}
