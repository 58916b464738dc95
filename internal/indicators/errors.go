package indicators

import "fmt"

// Stages at which the row-count threshold is checked.
const (
	StageRaw      = "raw"
	StageFeatures = "features"
)

// InsufficientDataError reports a series too short to continue.
type InsufficientDataError struct {
	Stage string
	Rows  int
	Min   int
}

func (e *InsufficientDataError) Error() string {
	if e.Stage == StageFeatures {
		return fmt.Sprintf("insufficient feature data: need at least %d rows after feature engineering, got %d", e.Min, e.Rows)
	}
	return fmt.Sprintf("insufficient data: need at least %d rows, got %d", e.Min, e.Rows)
}
