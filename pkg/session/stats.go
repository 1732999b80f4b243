package session

import (
	"time"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// RunStats aggregates counters for one refresh run plus its start timestamp.
// Counters are read only at the end of the run for the summary.
type RunStats struct {
	Total        int       // Images processed (after tag exclusion).
	Updated      int       // Images refreshed to a new digest.
	Unchanged    int       // Images already current.
	Failed       int       // Images whose refresh failed.
	SkippedLocal int       // Local builds skipped.
	StartTime    time.Time // Run start, for elapsed-time computation.
}

// NewRunStats creates run statistics stamped with the current time.
func NewRunStats() *RunStats {
	return &RunStats{StartTime: time.Now()}
}

// Fill populates the counters from a finished report.
//
// Parameters:
//   - report: The run's categorized report.
func (s *RunStats) Fill(report types.Report) {
	s.Updated = len(report.Updated())
	s.Unchanged = len(report.Unchanged())
	s.Failed = len(report.Failed())
	s.SkippedLocal = len(report.SkippedLocal())
	s.Total = s.Updated + s.Unchanged + s.Failed + s.SkippedLocal
}

// Elapsed returns the time since the run started.
func (s *RunStats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}
