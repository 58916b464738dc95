// Package report aggregates a forecasting run into its final record.
package report

import (
	"math"
	"sort"

	"AlphaMind/internal/calculator"
	"AlphaMind/internal/model"
)

const (
	// FallbackAccuracy is reported when accuracy cannot be computed.
	FallbackAccuracy = 50.0
	// HistoryLength is the trailing slice of history and indicators reported.
	HistoryLength = 100
	// TopFeatureCount is the number of ranked features reported.
	TopFeatureCount = 5
)

// ReportedIndicators are the indicator columns carried in the report.
var ReportedIndicators = []string{
	model.ColMA20, model.ColMA50, model.ColMA200, model.ColRSI, model.ColVolatility,
}

// Input is everything Evaluate needs from the earlier stages.
type Input struct {
	Ticker  string
	Frame   *model.IndicatorFrame
	Dataset model.Dataset
	// TestPredictions are the model outputs for Dataset.Test, in scaled space.
	TestPredictions []float64
	Path            model.ForecastPath
}

// Evaluate builds the run report. Accuracy compares the scaled test targets
// with the scaled predictions, so a test target at the series minimum (0)
// yields FallbackAccuracy.
func Evaluate(in Input) model.Report {
	actual := make([]float64, len(in.Dataset.Test))
	for i, w := range in.Dataset.Test {
		actual[i] = w.Y
	}

	indicators := make(map[string][]float64, len(ReportedIndicators))
	for _, name := range ReportedIndicators {
		indicators[name] = in.Frame.Tail(name, HistoryLength)
	}

	closes := in.Frame.Column(model.ColClose)
	var current float64
	if len(closes) > 0 {
		current = closes[len(closes)-1]
	}

	return model.NewReport(model.ReportParams{
		Ticker:           in.Ticker,
		CurrentPrice:     current,
		Accuracy:         Accuracy(actual, in.TestPredictions),
		HistoricalPrices: in.Frame.Tail(model.ColClose, HistoryLength),
		HistoricalDates:  in.Frame.TailDates(HistoryLength),
		Path:             in.Path,
		Indicators:       indicators,
		TopFeatures:      TopFeatures(in.Frame, in.Dataset.FeatureNames, HistoryLength, TopFeatureCount),
		Metrics: model.DatasetMetrics{
			TrainingSamples: len(in.Dataset.Train),
			TestSamples:     len(in.Dataset.Test),
			FeaturesCount:   in.Dataset.FeatureCount(),
			SequenceLength:  in.Dataset.SeqLen,
		},
	})
}

// Accuracy returns 100 minus the mean absolute percentage error, clamped to
// [0, 100]. Empty or mismatched input, a zero actual value, or a non-finite
// result yields FallbackAccuracy.
func Accuracy(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return FallbackAccuracy
	}
	sum := 0.0
	for i, y := range actual {
		if y == 0 {
			return FallbackAccuracy
		}
		sum += math.Abs((y - predicted[i]) / y)
	}
	acc := 100 - sum/float64(len(actual))*100
	if !calculator.Defined(acc) {
		return FallbackAccuracy
	}
	return math.Max(0, math.Min(100, acc))
}

// TopFeatures ranks features by the population variance of their last
// lookback values, highest first. Ties keep column order.
func TopFeatures(frame *model.IndicatorFrame, features []string, lookback, n int) []model.FeatureScore {
	scores := make([]model.FeatureScore, 0, len(features))
	for _, name := range features {
		tail := frame.Tail(name, lookback)
		if len(tail) == 0 {
			continue
		}
		scores = append(scores, model.FeatureScore{Name: name, Variance: calculator.PopVariance(tail)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Variance > scores[j].Variance })
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}
