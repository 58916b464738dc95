package sequence

import (
	"errors"
	"fmt"

	"AlphaMind/internal/calculator"
)

// Scaler is a fitted per-column min-max transform onto [0, 1].
// A column with zero range is shifted by its minimum and not stretched, so
// Inverse(Transform(x)) == x holds for every column.
type Scaler struct {
	Columns []string
	Min     []float64
	Max     []float64
}

// FitScaler fits one min/max pair per column of a row-major matrix.
func FitScaler(columns []string, rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("cannot fit scaler on empty data")
	}
	s := &Scaler{
		Columns: append([]string(nil), columns...),
		Min:     make([]float64, len(columns)),
		Max:     make([]float64, len(columns)),
	}
	col := make([]float64, len(rows))
	for j := range columns {
		for i, row := range rows {
			if len(row) != len(columns) {
				return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
			}
			col[i] = row[j]
		}
		lo, hi, err := calculator.MinMax(col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", columns[j], err)
		}
		s.Min[j], s.Max[j] = lo, hi
	}
	return s, nil
}

// Index returns the position of a column, or -1.
func (s *Scaler) Index(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func (s *Scaler) span(j int) float64 {
	if r := s.Max[j] - s.Min[j]; r != 0 {
		return r
	}
	return 1
}

// ScaleValue maps a raw value of column j into scaled space.
func (s *Scaler) ScaleValue(j int, v float64) float64 {
	return (v - s.Min[j]) / s.span(j)
}

// InverseValue maps a scaled value of column j back to raw space.
func (s *Scaler) InverseValue(j int, v float64) float64 {
	return v*s.span(j) + s.Min[j]
}

// Transform scales every row.
func (s *Scaler) Transform(rows [][]float64) [][]float64 {
	return s.apply(rows, s.ScaleValue)
}

// Inverse maps scaled rows back to raw values.
func (s *Scaler) Inverse(rows [][]float64) [][]float64 {
	return s.apply(rows, s.InverseValue)
}

func (s *Scaler) apply(rows [][]float64, fn func(int, float64) float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = fn(j, v)
		}
		out[i] = r
	}
	return out
}
