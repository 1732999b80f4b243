package session

import (
	"sort"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// report implements the types.Report interface for run results.
type report struct {
	updated      []types.ImageReport // Images with a changed digest.
	unchanged    []types.ImageReport // Images already current.
	failed       []types.ImageReport // Images whose refresh failed.
	skippedLocal []types.ImageReport // Local builds skipped by classification.
}

// SortableImages implements sort.Interface over image reports by reference.
type SortableImages []types.ImageReport

// Updated returns images whose digest changed after the pull.
func (r *report) Updated() []types.ImageReport {
	return r.updated
}

// Unchanged returns images already at the latest digest.
func (r *report) Unchanged() []types.ImageReport {
	return r.unchanged
}

// Failed returns images whose pull or inspection failed.
func (r *report) Failed() []types.ImageReport {
	return r.failed
}

// SkippedLocal returns locally built images skipped by the classifier.
func (r *report) SkippedLocal() []types.ImageReport {
	return r.skippedLocal
}

// All returns every image exactly once, in category priority order
// (updated > failed > unchanged > skipped).
func (r *report) All() []types.ImageReport {
	allLen := len(r.updated) + len(r.failed) + len(r.unchanged) + len(r.skippedLocal)
	all := make([]types.ImageReport, 0, allLen)

	all = append(all, r.updated...)
	all = append(all, r.failed...)
	all = append(all, r.unchanged...)
	all = append(all, r.skippedLocal...)

	return all
}

// NewReport creates a categorized, sorted report from progress data.
//
// Parameters:
//   - progress: Progress map to process.
//
// Returns:
//   - types.Report: Categorized and sorted report.
func NewReport(progress Progress) types.Report {
	report := &report{
		updated:      make([]types.ImageReport, 0),
		unchanged:    make([]types.ImageReport, 0),
		failed:       make([]types.ImageReport, 0),
		skippedLocal: make([]types.ImageReport, 0),
	}

	for _, status := range progress {
		switch status.state {
		case UpdatedState:
			report.updated = append(report.updated, status)
		case UnchangedState:
			report.unchanged = append(report.unchanged, status)
		case FailedState:
			report.failed = append(report.failed, status)
		case SkippedLocalState:
			report.skippedLocal = append(report.skippedLocal, status)
		case UnknownState:
			// An unknown state means the per-image boundary was bypassed;
			// surface it as a failure rather than dropping the image.
			report.failed = append(report.failed, status)
		default:
			report.failed = append(report.failed, status)
		}
	}

	sort.Sort(SortableImages(report.updated))
	sort.Sort(SortableImages(report.unchanged))
	sort.Sort(SortableImages(report.failed))
	sort.Sort(SortableImages(report.skippedLocal))

	return report
}

// Len returns the slice length.
func (s SortableImages) Len() int {
	return len(s)
}

// Less compares image references lexicographically.
func (s SortableImages) Less(i, j int) bool {
	return s[i].Ref().String() < s[j].Ref().String()
}

// Swap exchanges two reports.
func (s SortableImages) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
