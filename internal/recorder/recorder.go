// Package recorder persists a one-row summary of each simulation run for
// later analysis, independent of the exported document.
package recorder

import "time"

// RunSummary holds everything recorded about one completed run.
type RunSummary struct {
	RunID         string
	StartDate     time.Time
	EndDate       time.Time
	StartingTotal float64
	FinalTotal    float64
	Transactions  int
	Accounts      int
	StoppedBy     string
	Duration      time.Duration
}

// Recorder persists run summaries.
type Recorder interface {
	RecordRun(s *RunSummary) error
	Close() error
}
