package model

import (
	"fmt"
	"time"
)

// Column names of an IndicatorFrame.
const (
	ColOpen        = "Open"
	ColHigh        = "High"
	ColLow         = "Low"
	ColClose       = "Close"
	ColVolume      = "Volume"
	ColMA20        = "MA20"
	ColMA50        = "MA50"
	ColMA200       = "MA200"
	ColReturn      = "Return"
	ColVolatility  = "Volatility"
	ColRSI         = "RSI"
	ColMACD        = "MACD"
	ColMACDSignal  = "MACD_Signal"
	ColBBUpper     = "BB_Upper"
	ColBBLower     = "BB_Lower"
	ColVolumeMA    = "Volume_MA"
	ColVolumeRatio = "Volume_Ratio"
)

// FrameColumns is the fixed column order of an IndicatorFrame.
var FrameColumns = []string{
	ColOpen, ColHigh, ColLow, ColClose, ColVolume,
	ColMA20, ColMA50, ColMA200,
	ColReturn, ColVolatility, ColRSI,
	ColMACD, ColMACDSignal,
	ColBBUpper, ColBBLower,
	ColVolumeMA, ColVolumeRatio,
}

// IndicatorFrame is a raw series extended with derived indicator columns.
// Every row holds a defined value in every column.
type IndicatorFrame struct {
	Symbol  string
	Dates   []time.Time
	Columns []string
	Values  map[string][]float64
}

// Len returns the number of rows.
func (f *IndicatorFrame) Len() int { return len(f.Dates) }

// Column returns the values of a column, or nil when it does not exist.
func (f *IndicatorFrame) Column(name string) []float64 { return f.Values[name] }

// Tail returns the last n values of a column (fewer if the frame is shorter).
func (f *IndicatorFrame) Tail(name string, n int) []float64 {
	col := f.Values[name]
	if n > len(col) {
		n = len(col)
	}
	out := make([]float64, n)
	copy(out, col[len(col)-n:])
	return out
}

// TailDates returns the last n row dates.
func (f *IndicatorFrame) TailDates(n int) []time.Time {
	if n > len(f.Dates) {
		n = len(f.Dates)
	}
	out := make([]time.Time, n)
	copy(out, f.Dates[len(f.Dates)-n:])
	return out
}

// LastDate returns the date of the final row.
func (f *IndicatorFrame) LastDate() time.Time {
	if len(f.Dates) == 0 {
		return time.Time{}
	}
	return f.Dates[len(f.Dates)-1]
}

// FeatureNames returns every column except the close price, in frame order.
func (f *IndicatorFrame) FeatureNames() []string {
	names := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		if c != ColClose {
			names = append(names, c)
		}
	}
	return names
}

// Matrix returns the given columns as a row-major matrix.
func (f *IndicatorFrame) Matrix(columns []string) ([][]float64, error) {
	cols := make([][]float64, len(columns))
	for j, name := range columns {
		col, ok := f.Values[name]
		if !ok {
			return nil, fmt.Errorf("frame has no column %q", name)
		}
		if len(col) != f.Len() {
			return nil, fmt.Errorf("column %q has %d rows, frame has %d", name, len(col), f.Len())
		}
		cols[j] = col
	}
	rows := make([][]float64, f.Len())
	for i := range rows {
		row := make([]float64, len(columns))
		for j := range columns {
			row[j] = cols[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}
