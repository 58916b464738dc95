package model

import "time"

// FeatureScore is a feature name paired with its variance over the trailing slice.
type FeatureScore struct {
	Name     string
	Variance float64
}

// DatasetMetrics counts what the model was trained and tested on.
type DatasetMetrics struct {
	TrainingSamples int
	TestSamples     int
	FeaturesCount   int
	SequenceLength  int
}

// ReportParams carries everything a Report is built from.
type ReportParams struct {
	Ticker           string
	CurrentPrice     float64
	Accuracy         float64
	HistoricalPrices []float64
	HistoricalDates  []time.Time
	Path             ForecastPath
	Indicators       map[string][]float64
	TopFeatures      []FeatureScore
	Metrics          DatasetMetrics
}

// Report is the outcome of one forecasting run. It is immutable: the
// constructor copies its inputs and accessors hand out copies.
type Report struct {
	ticker           string
	currentPrice     float64
	accuracy         float64
	historicalPrices []float64
	historicalDates  []time.Time
	path             ForecastPath
	indicators       map[string][]float64
	topFeatures      []FeatureScore
	metrics          DatasetMetrics
}

// NewReport builds a Report from p.
func NewReport(p ReportParams) Report {
	ind := make(map[string][]float64, len(p.Indicators))
	for k, v := range p.Indicators {
		ind[k] = cloneFloats(v)
	}
	return Report{
		ticker:           p.Ticker,
		currentPrice:     p.CurrentPrice,
		accuracy:         p.Accuracy,
		historicalPrices: cloneFloats(p.HistoricalPrices),
		historicalDates:  cloneTimes(p.HistoricalDates),
		path: ForecastPath{
			Prices: cloneFloats(p.Path.Prices),
			Dates:  cloneTimes(p.Path.Dates),
		},
		indicators:  ind,
		topFeatures: append([]FeatureScore(nil), p.TopFeatures...),
		metrics:     p.Metrics,
	}
}

func (r Report) Ticker() string          { return r.ticker }
func (r Report) CurrentPrice() float64   { return r.currentPrice }
func (r Report) Accuracy() float64       { return r.accuracy }
func (r Report) Metrics() DatasetMetrics { return r.metrics }

// PredictedPrice returns the last price of the forecast path.
func (r Report) PredictedPrice() (float64, bool) {
	p, _, ok := r.path.Last()
	return p, ok
}

// PredictionDate returns the date of the last forecast step.
func (r Report) PredictionDate() (time.Time, bool) {
	_, d, ok := r.path.Last()
	return d, ok
}

func (r Report) HistoricalPrices() []float64 { return cloneFloats(r.historicalPrices) }
func (r Report) HistoricalDates() []time.Time { return cloneTimes(r.historicalDates) }
func (r Report) PredictedPrices() []float64  { return cloneFloats(r.path.Prices) }
func (r Report) PredictionDates() []time.Time { return cloneTimes(r.path.Dates) }

// Indicator returns the trailing series of an indicator column, or nil.
func (r Report) Indicator(name string) []float64 { return cloneFloats(r.indicators[name]) }

// TopFeatures returns the highest-variance features, most variant first.
func (r Report) TopFeatures() []FeatureScore {
	return append([]FeatureScore(nil), r.topFeatures...)
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func cloneTimes(v []time.Time) []time.Time {
	if v == nil {
		return nil
	}
	out := make([]time.Time, len(v))
	copy(out, v)
	return out
}
