package session

import (
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// State enum values.
const (
	UnknownState      State = iota // Uninitialized state.
	SkippedLocalState              // Image classified as a local build and skipped.
	UpdatedState                   // Image digest changed after the pull.
	UnchangedState                 // Image already at the latest digest.
	FailedState                    // Pull or inspection failed.
)

// State indicates an image's outcome within the run.
type State int

// ImageStatus holds one image's outcome during a session.
//
//nolint:errname // ImageStatus is not an error type, it contains an error field.
type ImageStatus struct {
	ref        types.ImageRef // Repository and tag.
	imageID    types.ImageID  // Local image ID at run start.
	oldDigest  string         // Registry digest before the pull.
	newDigest  string         // Registry digest after the pull.
	imageError error          // Error encountered, if any.
	state      State          // Current state.
}

// Ref returns the image's repository and tag.
func (s *ImageStatus) Ref() types.ImageRef {
	return s.ref
}

// ID returns the local image ID at the start of the run.
func (s *ImageStatus) ID() types.ImageID {
	return s.imageID
}

// OldDigest returns the registry digest recorded before the pull.
func (s *ImageStatus) OldDigest() string {
	return s.oldDigest
}

// NewDigest returns the registry digest recorded after the pull.
func (s *ImageStatus) NewDigest() string {
	return s.newDigest
}

// Error returns the session error message, or empty if none.
func (s *ImageStatus) Error() string {
	if s.imageError == nil {
		return ""
	}

	return s.imageError.Error()
}

// State returns the human-readable state name.
func (s *ImageStatus) State() string {
	switch s.state {
	case SkippedLocalState:
		return "Skipped (local)"
	case UpdatedState:
		return "Updated"
	case UnchangedState:
		return "Unchanged"
	case FailedState:
		return "Failed"
	case UnknownState:
		return "Unknown"
	default:
		return "Unknown"
	}
}
