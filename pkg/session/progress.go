package session

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// Progress tracks image statuses during a run, keyed by "repository:tag".
type Progress map[string]*ImageStatus

// NewProgress creates an empty progress map.
func NewProgress() Progress {
	return make(Progress)
}

// AddSkippedLocal records an image skipped as a local build.
//
// Parameters:
//   - record: The listed image being skipped.
func (m Progress) AddSkippedLocal(record types.ImageRecord) {
	m.add(&ImageStatus{
		ref:     record.Ref(),
		imageID: record.ID,
		state:   SkippedLocalState,
	})
}

// AddCompared records an image whose pull completed, deriving Updated or
// Unchanged from the before/after digest comparison.
//
// Parameters:
//   - record: The listed image that was pulled.
//   - oldDigest: Registry digest before the pull.
//   - newDigest: Registry digest after the pull.
func (m Progress) AddCompared(record types.ImageRecord, oldDigest, newDigest string) {
	state := UnchangedState
	if oldDigest != newDigest {
		state = UpdatedState
	}

	m.add(&ImageStatus{
		ref:       record.Ref(),
		imageID:   record.ID,
		oldDigest: oldDigest,
		newDigest: newDigest,
		state:     state,
	})
}

// AddFailed records an image whose pull or inspection failed.
//
// Parameters:
//   - record: The listed image that failed.
//   - err: Failure cause.
func (m Progress) AddFailed(record types.ImageRecord, err error) {
	m.add(&ImageStatus{
		ref:        record.Ref(),
		imageID:    record.ID,
		imageError: err,
		state:      FailedState,
	})

	logrus.WithFields(logrus.Fields{
		"image":    record.Ref().String(),
		"image_id": record.ID.ShortID(),
	}).WithError(err).Warn("Recorded image as failed")
}

// add inserts an image status into the progress map.
func (m Progress) add(status *ImageStatus) {
	m[status.ref.String()] = status

	logrus.WithFields(logrus.Fields{
		"image":    status.ref.String(),
		"image_id": status.imageID.ShortID(),
		"state":    status.State(),
	}).Debug("Added image status to progress map")
}

// Report generates a categorized report from the progress data.
//
// Returns:
//   - types.Report: New report instance.
func (m Progress) Report() types.Report {
	logrus.WithField("count", len(m)).Debug("Generating report")

	return NewReport(m)
}
