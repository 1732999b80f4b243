package runtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/distribution/reference"
	units "github.com/docker/go-units"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// defaultBinary is the runtime CLI invoked when none is configured.
const defaultBinary = "docker"

// Client defines the operations the refresh workflow needs from the container
// runtime. All operations block on the underlying subprocess; cancellation is
// the caller's context.
type Client interface {
	// ListImages returns one record per locally cached (repository, tag) pair.
	ListImages(ctx context.Context) ([]types.ImageRecord, error)
	// RepoDigests returns the raw textual rendering of the registry-digest
	// list for the image, e.g. "[]" or "[nginx@sha256:...]".
	RepoDigests(ctx context.Context, ref types.ImageRef) (string, error)
	// FirstRepoDigest returns the image's first registry digest, or the empty
	// string when the runtime reports none.
	FirstRepoDigest(ctx context.Context, ref types.ImageRef) (string, error)
	// PullImage refreshes the image from its origin registry. In dry-run mode
	// it logs and reports success without invoking the runtime.
	PullImage(ctx context.Context, ref types.ImageRef) error
	// PruneDanglingImages removes dangling images and returns the runtime's
	// free-text summary. In dry-run mode it simulates success.
	PruneDanglingImages(ctx context.Context) (string, error)
	// CheckAvailability verifies the runtime binary responds to a version query.
	CheckAvailability(ctx context.Context) error
	// CheckPermissions verifies the user may query the runtime (list containers).
	CheckPermissions(ctx context.Context) error
}

// ClientOptions configures a runtime client.
type ClientOptions struct {
	Binary string // Runtime CLI binary, "docker" if empty.
	DryRun bool   // Replace mutating operations with logging no-ops.
}

// client shells out to the runtime CLI for every operation.
type client struct {
	exec   Executor
	dryRun bool
}

// NewClient creates a runtime client for the configured CLI binary.
//
// Parameters:
//   - opts: Binary selection and dry-run behavior.
//
// Returns:
//   - Client: Ready-to-use runtime client.
func NewClient(opts ClientOptions) Client {
	binary := opts.Binary
	if binary == "" {
		binary = defaultBinary
	}

	return &client{exec: NewExecutor(binary), dryRun: opts.DryRun}
}

// NewClientWithExecutor creates a runtime client around a custom Executor.
// It exists for tests that substitute canned subprocess output.
func NewClientWithExecutor(exec Executor, dryRun bool) Client {
	return &client{exec: exec, dryRun: dryRun}
}

// listedImage mirrors one line of `docker images --format {{json .}}`.
type listedImage struct {
	Repository string `json:"Repository"`
	Tag        string `json:"Tag"`
	ID         string `json:"ID"`
	Size       string `json:"Size"`
	CreatedAt  string `json:"CreatedAt"`
}

// ListImages queries the runtime for all locally cached images. Lines that
// fail to parse are logged and skipped rather than failing the listing.
func (c *client) ListImages(ctx context.Context) ([]types.ImageRecord, error) {
	out, err := c.exec.Output(ctx, "images", "--format", "{{json .}}")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errListImagesFailed, err)
	}

	var records []types.ImageRecord

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var img listedImage
		if err := json.Unmarshal([]byte(line), &img); err != nil {
			logrus.WithError(err).WithField("line", line).
				Warn("Skipping unparseable image listing line")

			continue
		}

		sizeBytes, err := units.FromHumanSize(img.Size)
		if err != nil {
			logrus.WithField("size", img.Size).
				Debug("Could not parse image size, reporting zero bytes")

			sizeBytes = 0
		}

		records = append(records, types.ImageRecord{
			Repository: img.Repository,
			Tag:        img.Tag,
			ID:         types.ImageID(img.ID),
			Size:       img.Size,
			SizeBytes:  sizeBytes,
			CreatedAt:  img.CreatedAt,
		})
	}

	logrus.WithField("count", len(records)).Debug("Listed local images")

	return records, nil
}

// RepoDigests returns the raw bracketed-list rendering of the image's
// registry digests, exactly as the runtime's template prints it.
func (c *client) RepoDigests(ctx context.Context, ref types.ImageRef) (string, error) {
	out, err := c.exec.Output(ctx, "inspect", "--format", "{{.RepoDigests}}", ref.String())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errInspectFailed, ref, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// FirstRepoDigest returns the first registry digest recorded for the image.
// An image without any recorded digest yields the empty string, not an error:
// absence is a meaningful signal for classification, and indexing into an
// empty list would otherwise make the runtime's template fail.
func (c *client) FirstRepoDigest(ctx context.Context, ref types.ImageRef) (string, error) {
	raw, err := c.RepoDigests(ctx, ref)
	if err != nil {
		return "", err
	}

	first := firstDigest(raw)
	if first == "" {
		return "", nil
	}

	if _, hash, found := strings.Cut(first, "@"); found {
		if _, err := digest.Parse(hash); err != nil {
			logrus.WithFields(logrus.Fields{
				"image":  ref.String(),
				"digest": first,
			}).Warn("Runtime reported a malformed registry digest")
		}
	}

	return first, nil
}

// PullImage pulls the image from its origin registry, validating the
// reference before handing it to the runtime. The combined subprocess output
// is captured for the log and not otherwise parsed.
func (c *client) PullImage(ctx context.Context, ref types.ImageRef) error {
	if _, err := reference.ParseNormalizedNamed(ref.String()); err != nil {
		return fmt.Errorf("%w: %s: %w", errInvalidReference, ref, err)
	}

	if c.dryRun {
		logrus.WithField("image", ref.String()).Info("Dry run: simulating image pull")

		return nil
	}

	logrus.WithField("image", ref.String()).Debug("Pulling image")

	out, err := c.exec.Combined(ctx, "pull", ref.String())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errPullFailed, ref, err)
	}

	logrus.WithFields(logrus.Fields{
		"image":  ref.String(),
		"output": strings.TrimSpace(string(out)),
	}).Trace("Pull output")

	return nil
}

// PruneDanglingImages removes dangling images, returning the runtime's
// free-text summary of reclaimed space.
func (c *client) PruneDanglingImages(ctx context.Context) (string, error) {
	if c.dryRun {
		logrus.Info("Dry run: simulating dangling image prune")

		return "simulated", nil
	}

	out, err := c.exec.Combined(ctx, "image", "prune", "-f")
	if err != nil {
		return "", fmt.Errorf("%w: %w", errPruneFailed, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// CheckAvailability verifies the runtime binary is installed and responding.
func (c *client) CheckAvailability(ctx context.Context) error {
	if _, err := c.exec.Output(ctx, "--version"); err != nil {
		return fmt.Errorf("%w: %w", ErrRuntimeUnavailable, err)
	}

	return nil
}

// CheckPermissions verifies the current user may query the runtime by listing
// running containers, the conventional permission probe.
func (c *client) CheckPermissions(ctx context.Context) error {
	if _, err := c.exec.Output(ctx, "ps"); err != nil {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return nil
}

// firstDigest extracts the first digest string from the bracketed-list
// rendering produced by the runtime's RepoDigests template.
func firstDigest(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}
