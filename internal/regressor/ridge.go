package regressor

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"AlphaMind/internal/model"
)

// DefaultLambda is the L2 penalty used when none is configured.
const DefaultLambda = 1e-3

// Ridge fits a linear model on the flattened window plus a bias term by
// solving (XᵀX + λI)w = Xᵀy.
type Ridge struct {
	Lambda float64
}

// NewRidge creates a ridge trainer; a non-positive lambda takes DefaultLambda.
func NewRidge(lambda float64) *Ridge {
	if lambda <= 0 {
		lambda = DefaultLambda
	}
	return &Ridge{Lambda: lambda}
}

func (r *Ridge) Train(ctx context.Context, windows []model.Window) (Model, error) {
	m, err := r.fit(ctx, windows)
	if err != nil {
		return nil, &TrainingError{Backend: "ridge", Err: err}
	}
	return m, nil
}

func (r *Ridge) fit(ctx context.Context, windows []model.Window) (*RidgeModel, error) {
	if len(windows) == 0 {
		return nil, errors.New("no training windows")
	}
	rows := len(windows[0].X)
	if rows == 0 {
		return nil, errors.New("empty window")
	}
	cols := len(windows[0].X[0])
	d := rows*cols + 1

	x := mat.NewDense(len(windows), d, nil)
	y := mat.NewVecDense(len(windows), nil)
	buf := make([]float64, d)
	for i, w := range windows {
		if err := flatten(w.X, rows, cols, buf); err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		buf[d-1] = 1
		x.SetRow(i, buf)
		y.SetVec(i, w.Y)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var gram mat.SymDense
	gram.SymOuterK(1, x.T())
	for i := 0; i < d; i++ {
		gram.SetSym(i, i, gram.At(i, i)+r.Lambda)
	}
	var rhs mat.VecDense
	rhs.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, errors.New("normal equations are not positive definite")
	}
	var weights mat.VecDense
	if err := chol.SolveVecTo(&weights, &rhs); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}

	coef := make([]float64, d)
	for i := range coef {
		coef[i] = weights.AtVec(i)
	}
	return &RidgeModel{rows: rows, cols: cols, weights: coef}, nil
}

// RidgeModel is a fitted ridge regressor.
type RidgeModel struct {
	rows, cols int
	weights    []float64 // last entry is the bias
}

func (m *RidgeModel) PredictOne(_ context.Context, x [][]float64) (float64, error) {
	buf := make([]float64, m.rows*m.cols)
	if err := flatten(x, m.rows, m.cols, buf); err != nil {
		return 0, err
	}
	n := len(buf)
	return floats.Dot(m.weights[:n], buf) + m.weights[n], nil
}
