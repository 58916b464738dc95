package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// RawSeries holds the daily bars fetched for one symbol, oldest first.
type RawSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s RawSeries) Len() int { return len(s.Bars) }

// Closes extracts the close prices in order.
func (s RawSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volumes in order.
func (s RawSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Validate checks that bar dates are strictly increasing with no duplicate day.
func (s RawSeries) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Time, s.Bars[i].Time
		if !cur.After(prev) {
			return fmt.Errorf("bar %d (%s) is not after bar %d (%s)",
				i, cur.Format(DateLayout), i-1, prev.Format(DateLayout))
		}
		if SameDay(prev, cur) {
			return fmt.Errorf("duplicate bar date %s at index %d", cur.Format(DateLayout), i)
		}
	}
	return nil
}

// DateLayout is the date format used in reports and payloads.
const DateLayout = "2006-01-02"

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
