package actions

import "errors"

// Errors for the refresh workflow.
var (
	// ErrInterrupted indicates the run was cancelled by an interrupt signal
	// before all images were processed.
	ErrInterrupted = errors.New("refresh run interrupted")
	// errListImagesFailed indicates the initial image listing failed.
	errListImagesFailed = errors.New("failed to list local images")
	// errUnexpectedFailure wraps a recovered panic from per-image processing.
	errUnexpectedFailure = errors.New("unexpected failure while processing image")
)
