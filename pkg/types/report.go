package types

// Report defines the aggregated results of one refresh run.
type Report interface {
	Updated() []ImageReport      // Images whose digest changed after the pull.
	Unchanged() []ImageReport    // Images already at the latest digest.
	Failed() []ImageReport       // Images whose pull or inspection failed.
	SkippedLocal() []ImageReport // Locally built images skipped by the classifier.
	All() []ImageReport          // All images, one entry each, in category priority order.
}

// ImageReport defines a single image's outcome within a run.
type ImageReport interface {
	Ref() ImageRef     // Repository and tag.
	ID() ImageID       // Local image ID at the start of the run.
	OldDigest() string // Registry digest before the pull, empty if absent.
	NewDigest() string // Registry digest after the pull, empty if absent.
	Error() string     // Error message, empty if none.
	State() string     // Human-readable state.
}
