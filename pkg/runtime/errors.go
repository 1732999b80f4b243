package runtime

import "errors"

// Errors for runtime CLI interactions.
var (
	// ErrRuntimeUnavailable indicates the runtime binary is missing or not executable.
	ErrRuntimeUnavailable = errors.New("container runtime is not installed or not accessible")
	// ErrPermissionDenied indicates the runtime refused a basic query, typically
	// because the user lacks the required group membership.
	ErrPermissionDenied = errors.New("insufficient permissions to access the container runtime")
	// errCommandFailed indicates a runtime CLI invocation exited non-zero.
	errCommandFailed = errors.New("runtime command failed")
	// errListImagesFailed indicates the image listing query failed.
	errListImagesFailed = errors.New("failed to list images")
	// errInvalidReference indicates a pull target is not a valid image reference.
	errInvalidReference = errors.New("invalid image reference")
	// errPullFailed indicates an image pull exited non-zero.
	errPullFailed = errors.New("failed to pull image")
	// errInspectFailed indicates a digest inspection query failed.
	errInspectFailed = errors.New("failed to inspect image")
	// errPruneFailed indicates the dangling-image prune failed.
	errPruneFailed = errors.New("failed to prune dangling images")
)
