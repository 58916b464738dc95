package model

import "time"

// Window is one supervised example: SeqLen consecutive scaled feature rows and
// the scaled close that immediately follows them.
type Window struct {
	X [][]float64
	Y float64
}

// Dataset holds the chronologically split windows of one run.
type Dataset struct {
	Train        []Window
	Test         []Window
	SeqLen       int
	FeatureNames []string
}

// Total returns the number of windows across both splits.
func (d *Dataset) Total() int { return len(d.Train) + len(d.Test) }

// FeatureCount returns the width of a window row.
func (d *Dataset) FeatureCount() int { return len(d.FeatureNames) }

// ForecastPath is the sequence of predicted prices for consecutive future days.
type ForecastPath struct {
	Prices []float64
	Dates  []time.Time
}

// Len returns the horizon covered by the path.
func (p ForecastPath) Len() int { return len(p.Prices) }

// Last returns the final predicted price and its date.
func (p ForecastPath) Last() (float64, time.Time, bool) {
	if len(p.Prices) == 0 {
		return 0, time.Time{}, false
	}
	return p.Prices[len(p.Prices)-1], p.Dates[len(p.Dates)-1], true
}
