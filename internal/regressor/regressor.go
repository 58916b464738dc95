// Package regressor defines the learned model used by the forecaster and the
// implementations that can back it.
package regressor

import (
	"context"
	"fmt"

	"AlphaMind/internal/model"
)

// Model maps one scaled window (seq_len rows of features) to a scaled close.
type Model interface {
	PredictOne(ctx context.Context, x [][]float64) (float64, error)
}

// Trainer fits a Model on training windows.
type Trainer interface {
	Train(ctx context.Context, windows []model.Window) (Model, error)
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(ctx context.Context, x [][]float64) (float64, error)

func (f ModelFunc) PredictOne(ctx context.Context, x [][]float64) (float64, error) {
	return f(ctx, x)
}

// TrainerFunc adapts a plain function to Trainer.
type TrainerFunc func(ctx context.Context, windows []model.Window) (Model, error)

func (f TrainerFunc) Train(ctx context.Context, windows []model.Window) (Model, error) {
	return f(ctx, windows)
}

// Static returns a Trainer that ignores its input and hands back m.
func Static(m Model) Trainer {
	return TrainerFunc(func(context.Context, []model.Window) (Model, error) { return m, nil })
}

// TrainingError wraps a failure to fit the model.
type TrainingError struct {
	Backend string
	Err     error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("model training failed (%s): %v", e.Backend, e.Err)
}

func (e *TrainingError) Unwrap() error { return e.Err }

// PredictAll runs m over every window in order.
func PredictAll(ctx context.Context, m Model, windows []model.Window) ([]float64, error) {
	out := make([]float64, len(windows))
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := m.PredictOne(ctx, w.X)
		if err != nil {
			return nil, fmt.Errorf("predict window %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// flatten copies a window into dst, row-major, and reports a shape mismatch.
func flatten(x [][]float64, rows, cols int, dst []float64) error {
	if len(x) != rows {
		return fmt.Errorf("window has %d rows, want %d", len(x), rows)
	}
	for i, row := range x {
		if len(row) != cols {
			return fmt.Errorf("window row %d has %d features, want %d", i, len(row), cols)
		}
		copy(dst[i*cols:], row)
	}
	return nil
}
