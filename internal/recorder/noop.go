package recorder

import "AlphaMind/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.Report) (int64, error)         { return 0, nil }
func (n *NoopRecorder) RecordFailure(_, _ string, _ error) error         { return nil }
func (n *NoopRecorder) RecentRuns(_ string, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                     { return nil }
