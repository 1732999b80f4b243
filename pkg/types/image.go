package types

import "strings"

// shortIDLength defines the truncated length for image IDs in logs and tables.
const shortIDLength = 12

// ImageID is the local identifier of a cached image as reported by the runtime.
type ImageID string

// ShortID returns the image ID truncated to 12 characters, without any
// algorithm prefix (e.g. "sha256:").
//
// Returns:
//   - string: Truncated image ID for display purposes.
func (id ImageID) ShortID() string {
	s := string(id)
	if _, hash, found := strings.Cut(s, ":"); found {
		s = hash
	}

	if len(s) > shortIDLength {
		return s[:shortIDLength]
	}

	return s
}

// ImageRef identifies a locally cached image by repository and tag.
type ImageRef struct {
	Repository string // Repository name as printed by the runtime (may include a registry host).
	Tag        string // Tag name.
}

// String renders the reference in "repository:tag" form.
//
// Returns:
//   - string: The pullable reference.
func (r ImageRef) String() string {
	return r.Repository + ":" + r.Tag
}

// ImageRecord is one locally cached image as produced by the runtime's list
// operation. Immutable once produced; one record per (repository, tag) pair.
type ImageRecord struct {
	Repository string  // Repository name.
	Tag        string  // Tag name.
	ID         ImageID // Local image ID.
	Size       string  // Human-readable size as printed by the runtime (e.g. "133MB").
	SizeBytes  int64   // Size parsed into bytes, 0 if unparseable.
	CreatedAt  string  // Creation timestamp as printed by the runtime.
}

// Ref returns the pullable reference for the record.
//
// Returns:
//   - ImageRef: Repository and tag pair.
func (r ImageRecord) Ref() ImageRef {
	return ImageRef{Repository: r.Repository, Tag: r.Tag}
}
