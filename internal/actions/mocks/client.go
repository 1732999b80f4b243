// Package mocks provides a scripted runtime client for testing the actions package.
package mocks

import (
	"context"
	"strings"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// TestData configures the scripted behavior of a MockClient.
type TestData struct {
	Images           []types.ImageRecord // Listing result.
	ListErr          error               // Listing failure, if any.
	RepoDigestLists  map[string]string   // Raw "[...]" digest rendering per "repo:tag".
	InspectErrs      map[string]error    // Inspection failures per "repo:tag".
	AfterPullDigests map[string]string   // First digest reported after a successful pull.
	PullErrs         map[string]error    // Pull failures per "repo:tag".
	PullPanics       map[string]bool     // Pulls that panic, for boundary tests.
	PruneSummary     string              // Prune result text.
	PruneErr         error               // Prune failure, if any.
	AvailabilityErr  error               // CheckAvailability result.
	PermissionsErr   error               // CheckPermissions result.
}

// MockClient is a scripted runtime.Client implementation recording every
// mutating invocation.
type MockClient struct {
	TestData *TestData

	PulledRefs []string // Refs passed to PullImage, in order.
	PruneCalls int      // Number of prune invocations.

	pulled map[string]bool
}

// CreateMockClient creates a MockClient around the given test data.
func CreateMockClient(data *TestData) *MockClient {
	return &MockClient{TestData: data, pulled: make(map[string]bool)}
}

// ListImages returns the scripted listing.
func (m *MockClient) ListImages(_ context.Context) ([]types.ImageRecord, error) {
	if m.TestData.ListErr != nil {
		return nil, m.TestData.ListErr
	}

	return m.TestData.Images, nil
}

// RepoDigests returns the scripted raw digest list for the image.
func (m *MockClient) RepoDigests(_ context.Context, ref types.ImageRef) (string, error) {
	if err := m.TestData.InspectErrs[ref.String()]; err != nil {
		return "", err
	}

	raw, ok := m.TestData.RepoDigestLists[ref.String()]
	if !ok {
		return "[]", nil
	}

	return raw, nil
}

// FirstRepoDigest derives the first digest from the raw list, switching to
// the after-pull digest once the image has been pulled.
func (m *MockClient) FirstRepoDigest(ctx context.Context, ref types.ImageRef) (string, error) {
	if m.pulled[ref.String()] {
		if after, ok := m.TestData.AfterPullDigests[ref.String()]; ok {
			return after, nil
		}
	}

	raw, err := m.RepoDigests(ctx, ref)
	if err != nil {
		return "", err
	}

	trimmed := strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(raw), "]"), "[")

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return "", nil
	}

	return fields[0], nil
}

// PullImage records the pull and applies scripted failures or panics.
func (m *MockClient) PullImage(_ context.Context, ref types.ImageRef) error {
	m.PulledRefs = append(m.PulledRefs, ref.String())

	if m.TestData.PullPanics[ref.String()] {
		panic("scripted pull panic")
	}

	if err := m.TestData.PullErrs[ref.String()]; err != nil {
		return err
	}

	m.pulled[ref.String()] = true

	return nil
}

// PruneDanglingImages records the prune call and returns the scripted result.
func (m *MockClient) PruneDanglingImages(_ context.Context) (string, error) {
	m.PruneCalls++

	if m.TestData.PruneErr != nil {
		return "", m.TestData.PruneErr
	}

	return m.TestData.PruneSummary, nil
}

// CheckAvailability returns the scripted availability result.
func (m *MockClient) CheckAvailability(_ context.Context) error {
	return m.TestData.AvailabilityErr
}

// CheckPermissions returns the scripted permission result.
func (m *MockClient) CheckPermissions(_ context.Context) error {
	return m.TestData.PermissionsErr
}
