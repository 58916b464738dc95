package recorder

import (
	"time"

	"AlphaMind/internal/model"
)

// RunSummary is one stored run as read back for reports.
type RunSummary struct {
	ID             int64
	Timestamp      time.Time
	Symbol         string
	Success        bool
	ErrorKind      string
	CurrentPrice   float64
	PredictedPrice float64
	PredictionDate string
	Accuracy       float64
	Horizon        int
}

// Recorder persists run history for analysis.
type Recorder interface {
	// RecordRun stores a completed report with its path and top features.
	RecordRun(rep *model.Report) (int64, error)
	// RecordFailure stores a run that ended with err.
	RecordFailure(symbol, kind string, err error) error
	// RecentRuns returns up to limit runs for symbol, newest first.
	RecentRuns(symbol string, limit int) ([]RunSummary, error)
	Close() error
}
