package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"AlphaMind/internal/model"
)

// ModelMetrics is the dataset summary block of a success payload.
type ModelMetrics struct {
	TrainingSamples int `json:"training_samples"`
	TestSamples     int `json:"test_samples"`
	FeaturesCount   int `json:"features_count"`
	SequenceLength  int `json:"sequence_length"`
}

// Success is the record emitted for a completed forecast.
type Success struct {
	Ticker                string       `json:"ticker"`
	Success               bool         `json:"success"`
	CurrentPrice          float64      `json:"current_price"`
	PredictedPrice        *float64     `json:"predicted_price"`
	Accuracy              float64      `json:"accuracy"`
	PredictionDate        *string      `json:"prediction_date"`
	ActualPrices          []float64    `json:"actual_prices"`
	Dates                 []string     `json:"dates"`
	PredictedPrices       []float64    `json:"predicted_prices"`
	PredictionDates       []string     `json:"prediction_dates"`
	RollingMean20         []float64    `json:"rolling_mean_20"`
	RollingMean50         []float64    `json:"rolling_mean_50"`
	RollingMean200        []float64    `json:"rolling_mean_200"`
	RSI                   []float64    `json:"rsi"`
	Volatility            []float64    `json:"volatility"`
	TopFeatures           []string     `json:"top_features"`
	TopFeatureImportances []float64    `json:"top_feature_importances"`
	ModelMetrics          ModelMetrics `json:"model_metrics"`
}

// TrainOnly is emitted when a run trains without forecasting.
type TrainOnly struct {
	Ticker          string `json:"ticker"`
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	TrainingSamples int    `json:"training_samples"`
	TestSamples     int    `json:"test_samples"`
	FeaturesCount   int    `json:"features_count"`
}

// Failure is emitted for any run that did not complete.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Ticker  string `json:"ticker"`
}

// NewSuccess converts a report into its output record.
func NewSuccess(r model.Report) Success {
	m := r.Metrics()
	s := Success{
		Ticker:          r.Ticker(),
		Success:         true,
		CurrentPrice:    r.CurrentPrice(),
		Accuracy:        r.Accuracy(),
		ActualPrices:    orEmpty(r.HistoricalPrices()),
		Dates:           formatDates(r.HistoricalDates()),
		PredictedPrices: orEmpty(r.PredictedPrices()),
		PredictionDates: formatDates(r.PredictionDates()),
		RollingMean20:   orEmpty(r.Indicator(model.ColMA20)),
		RollingMean50:   orEmpty(r.Indicator(model.ColMA50)),
		RollingMean200:  orEmpty(r.Indicator(model.ColMA200)),
		RSI:             orEmpty(r.Indicator(model.ColRSI)),
		Volatility:      orEmpty(r.Indicator(model.ColVolatility)),
		ModelMetrics: ModelMetrics{
			TrainingSamples: m.TrainingSamples,
			TestSamples:     m.TestSamples,
			FeaturesCount:   m.FeaturesCount,
			SequenceLength:  m.SequenceLength,
		},
	}
	if p, ok := r.PredictedPrice(); ok {
		s.PredictedPrice = &p
	}
	if d, ok := r.PredictionDate(); ok {
		ds := d.Format(model.DateLayout)
		s.PredictionDate = &ds
	}
	top := r.TopFeatures()
	s.TopFeatures = make([]string, len(top))
	s.TopFeatureImportances = make([]float64, len(top))
	for i, f := range top {
		s.TopFeatures[i] = f.Name
		s.TopFeatureImportances[i] = f.Variance
	}
	return s
}

// NewTrainOnly builds the training summary for a ticker.
func NewTrainOnly(ticker string, ds model.Dataset) TrainOnly {
	return TrainOnly{
		Ticker:          ticker,
		Success:         true,
		Message:         fmt.Sprintf("model trained successfully for %s", ticker),
		TrainingSamples: len(ds.Train),
		TestSamples:     len(ds.Test),
		FeaturesCount:   ds.FeatureCount(),
	}
}

// NewFailure builds the failure record.
func NewFailure(ticker string, err error) Failure {
	return Failure{Success: false, Error: err.Error(), Ticker: ticker}
}

// Write emits v as one line of compact JSON.
func Write(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func formatDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(model.DateLayout)
	}
	return out
}

func orEmpty(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
