package calculator

import "math"

// RollingRSI computes the relative strength index from the mean of the last
// period positive deltas over the mean of the last period negative deltas.
// A row is NaN until period deltas exist, and wherever the average loss is zero.
func RollingRSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSlice(len(closes))
	if len(closes) <= period {
		return out, nil
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(closes); i++ {
		var sumGain, sumLoss float64
		for k := i - period + 1; k <= i; k++ {
			sumGain += gains[k]
			sumLoss += losses[k]
		}
		if sumLoss == 0 {
			continue
		}
		rs := sumGain / sumLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out, nil
}

// Defined reports whether v is a usable number.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
