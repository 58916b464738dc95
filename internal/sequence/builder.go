// Package sequence turns an indicator frame into scaled supervised windows.
package sequence

import (
	"fmt"

	"AlphaMind/internal/model"
)

// Defaults for window construction.
const (
	DefaultSeqLen     = 30
	DefaultTrainRatio = 0.8
)

// InsufficientWindowsError reports too few rows to build both splits.
type InsufficientWindowsError struct {
	Rows   int
	SeqLen int
	Train  int
	Test   int
}

func (e *InsufficientWindowsError) Error() string {
	if e.Rows < e.SeqLen+1 {
		return fmt.Sprintf("insufficient data for sequence creation: need at least %d rows for sequence length %d, got %d",
			e.SeqLen+1, e.SeqLen, e.Rows)
	}
	return fmt.Sprintf("insufficient data for training after sequence creation: %d train / %d test windows", e.Train, e.Test)
}

// Result is the output of Build.
type Result struct {
	Dataset model.Dataset
	ScalerX *Scaler
	ScalerY *Scaler
}

// Builder slices frames into windows.
type Builder struct {
	SeqLen     int
	TrainRatio float64
}

// NewBuilder creates a Builder; non-positive arguments take the defaults.
func NewBuilder(seqLen int, trainRatio float64) *Builder {
	if seqLen <= 0 {
		seqLen = DefaultSeqLen
	}
	if trainRatio <= 0 || trainRatio >= 1 {
		trainRatio = DefaultTrainRatio
	}
	return &Builder{SeqLen: seqLen, TrainRatio: trainRatio}
}

// Build scales the frame and produces chronologically split windows.
// Both scalers are fitted on the whole frame, test period included.
func (b *Builder) Build(frame *model.IndicatorFrame) (*Result, error) {
	rows := frame.Len()
	if rows < b.SeqLen+1 {
		return nil, &InsufficientWindowsError{Rows: rows, SeqLen: b.SeqLen}
	}

	features := frame.FeatureNames()
	x, err := frame.Matrix(features)
	if err != nil {
		return nil, fmt.Errorf("feature matrix: %w", err)
	}
	y, err := frame.Matrix([]string{model.ColClose})
	if err != nil {
		return nil, fmt.Errorf("target matrix: %w", err)
	}

	scalerX, err := FitScaler(features, x)
	if err != nil {
		return nil, fmt.Errorf("fit feature scaler: %w", err)
	}
	scalerY, err := FitScaler([]string{model.ColClose}, y)
	if err != nil {
		return nil, fmt.Errorf("fit target scaler: %w", err)
	}
	xs := scalerX.Transform(x)
	ys := scalerY.Transform(y)

	windows := make([]model.Window, 0, rows-b.SeqLen)
	for i := b.SeqLen; i < rows; i++ {
		windows = append(windows, model.Window{X: xs[i-b.SeqLen : i], Y: ys[i][0]})
	}

	split := SplitIndex(len(windows), b.TrainRatio)
	ds := model.Dataset{
		Train:        windows[:split],
		Test:         windows[split:],
		SeqLen:       b.SeqLen,
		FeatureNames: features,
	}
	if len(ds.Train) == 0 || len(ds.Test) == 0 {
		return nil, &InsufficientWindowsError{Rows: rows, SeqLen: b.SeqLen, Train: len(ds.Train), Test: len(ds.Test)}
	}
	return &Result{Dataset: ds, ScalerX: scalerX, ScalerY: scalerY}, nil
}

// SplitIndex returns floor(ratio * total).
func SplitIndex(total int, ratio float64) int {
	return int(ratio * float64(total))
}
