// Package classify provides tests for the local-build classification rules.
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassify_RuleChain verifies the classification outcome for each rule of
// the chain, including the documented edge cases.
func TestClassify_RuleChain(t *testing.T) {
	classifier := New()

	tests := []struct {
		name       string
		repository string
		tag        string
		digestList string
		want       Result
	}{
		{
			name:       "empty digest list is a local build",
			repository: "my-app",
			tag:        "latest",
			digestList: "",
			want:       Local,
		},
		{
			name:       "empty list marker is a local build",
			repository: "my-app",
			tag:        "latest",
			digestList: "[]",
			want:       Local,
		},
		{
			name:       "empty digest list wins over allow-listed name",
			repository: "nginx",
			tag:        "latest",
			digestList: "[]",
			want:       Local,
		},
		{
			name:       "localhost registry is local",
			repository: "localhost:5000/my-app",
			tag:        "v2",
			digestList: "[localhost:5000/my-app@sha256:aaaa]",
			want:       Local,
		},
		{
			name:       "loopback address registry is local",
			repository: "127.0.0.1:5000/my-app",
			tag:        "v2",
			digestList: "[127.0.0.1:5000/my-app@sha256:aaaa]",
			want:       Local,
		},
		{
			name:       "dotted digest prefix is registry origin",
			repository: "anything",
			tag:        "tag",
			digestList: "[ghcr.io/user/app@sha256:abc123]",
			want:       RegistryOrigin,
		},
		{
			name:       "namespaced repository is registry origin",
			repository: "portainer/portainer-ce",
			tag:        "latest",
			digestList: "[portainer/portainer-ce@sha256:abc123]",
			want:       RegistryOrigin,
		},
		{
			name:       "allow-listed single-word name is registry origin",
			repository: "nginx",
			tag:        "latest",
			digestList: "[nginx@sha256:abc123]",
			want:       RegistryOrigin,
		},
		{
			name:       "unknown undotted un-namespaced name is local",
			repository: "my-custom-app",
			tag:        "v1",
			digestList: "[my-custom-app@sha256:abc123]",
			want:       Local,
		},
		{
			name:       "malformed digest list defaults to registry origin",
			repository: "my-custom-app",
			tag:        "v1",
			digestList: "[not-a-digest]",
			want:       RegistryOrigin,
		},
		{
			name:       "first digest decides when several are recorded",
			repository: "my-custom-app",
			tag:        "v1",
			digestList: "[docker.io/library/app@sha256:abc my-custom-app@sha256:def]",
			want:       RegistryOrigin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.repository, tt.tag, tt.digestList)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestClassify_Deterministic verifies that repeated calls with the same inputs
// always yield the same classification.
func TestClassify_Deterministic(t *testing.T) {
	classifier := New()

	first := classifier.Classify("nginx", "latest", "[nginx@sha256:abc123]")
	for range 10 {
		assert.Equal(t, first, classifier.Classify("nginx", "latest", "[nginx@sha256:abc123]"))
	}
}

// TestClassify_ConcurrentUse verifies the classifier performs no mutation and
// is safe to call from multiple goroutines.
func TestClassify_ConcurrentUse(t *testing.T) {
	classifier := New()

	done := make(chan Result, 32)
	for range 32 {
		go func() {
			done <- classifier.Classify("my-custom-app", "v1", "[my-custom-app@sha256:abc]")
		}()
	}

	for range 32 {
		assert.Equal(t, Local, <-done)
	}
}

// TestWithExtraKnownImages verifies that the allow-list can be extended via
// constructor options without affecting the default classifier.
func TestWithExtraKnownImages(t *testing.T) {
	defaultClassifier := New()
	extended := New(WithExtraKnownImages("internal-base"))

	digests := "[internal-base@sha256:abc123]"

	assert.Equal(t, Local, defaultClassifier.Classify("internal-base", "1.0", digests))
	assert.Equal(t, RegistryOrigin, extended.Classify("internal-base", "1.0", digests))
}

// TestResult_String verifies the human-readable result names.
func TestResult_String(t *testing.T) {
	assert.Equal(t, "local", Local.String())
	assert.Equal(t, "registry-origin", RegistryOrigin.String())
}
