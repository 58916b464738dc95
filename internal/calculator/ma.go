package calculator

import (
	"errors"
	"math"
)

var errPeriod = errors.New("period must be positive")

// RollingSMA computes the trailing simple moving average over period values.
// Positions without a full window are NaN.
func RollingSMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSlice(len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// EMA computes the adjusted exponential moving average with alpha = 2/(span+1).
// Each output is the (1-alpha)^k weighted mean of all values seen so far, so the
// series is defined from the first element.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errPeriod
	}
	alpha := 2.0 / float64(span+1)
	decay := 1 - alpha
	out := make([]float64, len(values))
	num, den := 0.0, 0.0
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
