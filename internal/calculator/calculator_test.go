package calculator

import (
	"math"
	"testing"
)

const eps = 1e-9

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRollingSMA(t *testing.T) {
	got, err := RollingSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("expected NaN warm-up, got %v", got[:2])
	}
	for i, want := range map[int]float64{2: 2, 3: 3, 4: 4} {
		if !near(got[i], want) {
			t.Errorf("sma[%d] = %f, want %f", i, got[i], want)
		}
	}

	if _, err := RollingSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for period 0")
	}
}

func TestRollingSMA_FlatSeriesConverges(t *testing.T) {
	closes := flat(300, 100)
	for _, p := range []int{20, 50, 200} {
		got, err := RollingSMA(closes, p)
		if err != nil {
			t.Fatalf("period %d: %v", p, err)
		}
		if !math.IsNaN(got[p-2]) {
			t.Errorf("period %d: expected NaN before the first full window", p)
		}
		if !near(got[p-1], 100) || !near(got[len(got)-1], 100) {
			t.Errorf("period %d: expected 100, got %f and %f", p, got[p-1], got[len(got)-1])
		}
	}
}

func TestEMA_Adjusted(t *testing.T) {
	got, err := EMA([]float64{1, 2, 3}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// alpha = 0.5: weights 1, 0.5, 0.25
	want := []float64{1, (2 + 0.5*1) / 1.5, (3 + 0.5*2 + 0.25*1) / 1.75}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Errorf("ema[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestEMA_Constant(t *testing.T) {
	got, err := EMA(flat(50, 42), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got {
		if !near(v, 42) {
			t.Fatalf("ema[%d] = %f, want 42", i, v)
		}
	}
}

func TestRollingRSI(t *testing.T) {
	t.Run("mixed deltas", func(t *testing.T) {
		// deltas: +2, -1, +2, -1 ...
		closes := []float64{10}
		for i := 0; i < 20; i++ {
			if i%2 == 0 {
				closes = append(closes, closes[len(closes)-1]+2)
			} else {
				closes = append(closes, closes[len(closes)-1]-1)
			}
		}
		got, err := RollingRSI(closes, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 0; i < 4; i++ {
			if !math.IsNaN(got[i]) {
				t.Errorf("rsi[%d] = %f, want NaN", i, got[i])
			}
		}
		// 4 deltas: two +2 and two -1 -> rs = 2 -> rsi = 66.67
		if !near(got[4], 100-100/3.0) {
			t.Errorf("rsi[4] = %f, want %f", got[4], 100-100/3.0)
		}
		for i := 4; i < len(got); i++ {
			if got[i] < 0 || got[i] > 100 {
				t.Errorf("rsi[%d] = %f out of [0, 100]", i, got[i])
			}
		}
	})

	t.Run("zero loss is undefined", func(t *testing.T) {
		rising := make([]float64, 30)
		for i := range rising {
			rising[i] = float64(100 + i)
		}
		got, err := RollingRSI(rising, 14)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, v := range got {
			if !math.IsNaN(v) {
				t.Fatalf("rsi[%d] = %f, want NaN", i, v)
			}
		}
	})

	t.Run("flat series does not panic", func(t *testing.T) {
		got, err := RollingRSI(flat(300, 100), 14)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, v := range got {
			if !math.IsNaN(v) {
				t.Fatalf("rsi[%d] = %f, want NaN", i, v)
			}
		}
	})

	t.Run("short input", func(t *testing.T) {
		got, err := RollingRSI([]float64{1, 2}, 14)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 values, got %d", len(got))
		}
	})
}

func TestRollingStdDev(t *testing.T) {
	got, err := RollingStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// sample std of the classic example: sqrt(32/7)
	if !near(got[7], math.Sqrt(32.0/7.0)) {
		t.Errorf("std = %f, want %f", got[7], math.Sqrt(32.0/7.0))
	}

	zero, err := RollingStdDev(flat(40, 100), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(zero[39], 0) {
		t.Errorf("flat std = %f, want 0", zero[39])
	}

	if _, err := RollingStdDev([]float64{1, 2}, 1); err == nil {
		t.Error("expected error for period 1")
	}
}

func TestPctChangeAndDivide(t *testing.T) {
	pc := PctChange([]float64{100, 110, 0, 5})
	if !math.IsNaN(pc[0]) || !math.IsNaN(pc[3]) {
		t.Errorf("expected NaN at 0 and after a zero base, got %v", pc)
	}
	if !near(pc[1], 0.1) || !near(pc[2], -1) {
		t.Errorf("unexpected changes %v", pc)
	}

	d, err := Divide([]float64{4, 1, 3}, []float64{2, 0, math.NaN()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(d[0], 2) || !math.IsNaN(d[1]) || !math.IsNaN(d[2]) {
		t.Errorf("unexpected quotients %v", d)
	}

	if _, err := Divide([]float64{1}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestPopVarianceAndMinMax(t *testing.T) {
	if v := PopVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !near(v, 4) {
		t.Errorf("variance = %f, want 4", v)
	}
	if v := PopVariance(nil); v != 0 {
		t.Errorf("empty variance = %f, want 0", v)
	}

	lo, hi, err := MinMax([]float64{3, -1, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo != -1 || hi != 8 {
		t.Errorf("minmax = (%f, %f), want (-1, 8)", lo, hi)
	}

	if _, _, err := MinMax(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDefined(t *testing.T) {
	if !Defined(1) {
		t.Error("1 should be defined")
	}
	if Defined(math.NaN()) || Defined(math.Inf(1)) {
		t.Error("NaN and Inf should be undefined")
	}
}
