package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RollingStdDev computes the trailing sample standard deviation (n-1 divisor).
func RollingStdDev(values []float64, period int) ([]float64, error) {
	if period <= 1 {
		return nil, errors.New("period must be greater than 1")
	}
	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.StdDev(values[i-period+1:i+1], nil)
	}
	return out, nil
}

// PctChange returns values[i]/values[i-1] - 1; the first element is NaN.
func PctChange(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out[i] = values[i]/values[i-1] - 1
	}
	return out
}

// Divide divides a by b element-wise. A zero divisor yields NaN.
func Divide(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, errors.New("length mismatch")
	}
	out := nanSlice(len(a))
	for i := range a {
		if b[i] == 0 || math.IsNaN(b[i]) {
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out, nil
}

// PopVariance returns the population variance (n divisor) of values.
func PopVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.PopVariance(values, nil)
}

// MinMax returns the smallest and largest value.
func MinMax(values []float64) (min, max float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	return floats.Min(values), floats.Max(values), nil
}
