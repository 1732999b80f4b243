package actions

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/classify"
	"github.com/nicholas-fedor/imagerefresh/pkg/runtime"
	"github.com/nicholas-fedor/imagerefresh/pkg/session"
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// ProgressFunc receives per-image progress updates during a run, for rendering
// a progress indicator. It is called once before each image is processed.
type ProgressFunc func(index, total int, ref types.ImageRef)

// RunRefresh processes every locally cached image once: classify, skip local
// builds, or pull and compare digests. Each image yields exactly one outcome;
// a failure in one image never aborts the batch. Images whose tag matches an
// exclusion are omitted before processing.
//
// On interrupt the remaining images are abandoned and the partial report is
// returned together with ErrInterrupted.
//
// Parameters:
//   - ctx: Context cancelled by an interrupt signal.
//   - client: Runtime client for list/inspect/pull operations.
//   - classifier: Local-build classifier.
//   - params: Run options (dry-run, exclusions, local-build handling).
//   - onProgress: Optional per-image progress callback, may be nil.
//
// Returns:
//   - types.Report: Categorized outcomes, possibly partial on interrupt.
//   - error: ErrInterrupted, a listing failure, or nil.
func RunRefresh(
	ctx context.Context,
	client runtime.Client,
	classifier *classify.Classifier,
	params types.RefreshParams,
	onProgress ProgressFunc,
) (types.Report, error) {
	records, err := ListImagesForRefresh(ctx, client, params.ExcludeTags)
	if err != nil {
		return nil, err
	}

	progress := session.NewProgress()

	for i, record := range records {
		if ctx.Err() != nil {
			logrus.WithField("remaining", len(records)-i).
				Warn("Interrupted, abandoning remaining images")

			return progress.Report(), ErrInterrupted
		}

		if onProgress != nil {
			onProgress(i, len(records), record.Ref())
		}

		refreshImage(ctx, client, classifier, params, record, progress)
	}

	return progress.Report(), nil
}

// ListImagesForRefresh lists local images and applies the tag-exclusion
// filter, returning the set a run will process.
//
// Parameters:
//   - ctx: Context for the listing subprocess.
//   - client: Runtime client.
//   - excludeTags: Tags whose images are omitted.
//
// Returns:
//   - []types.ImageRecord: Filtered image set in listing order.
//   - error: Non-nil if the listing itself failed.
func ListImagesForRefresh(
	ctx context.Context,
	client runtime.Client,
	excludeTags []string,
) ([]types.ImageRecord, error) {
	records, err := client.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errListImagesFailed, err)
	}

	filtered := make([]types.ImageRecord, 0, len(records))

	for _, record := range records {
		if slices.Contains(excludeTags, record.Tag) {
			logrus.WithFields(logrus.Fields{
				"image": record.Ref().String(),
				"tag":   record.Tag,
			}).Debug("Excluding image by tag")

			continue
		}

		filtered = append(filtered, record)
	}

	logrus.WithFields(logrus.Fields{
		"total":    len(records),
		"excluded": len(records) - len(filtered),
	}).Info("Built image set for refresh")

	return filtered, nil
}

// refreshImage runs the per-image state machine: classify, then either skip
// or pull-and-compare. Any error or panic is converted to a Failed outcome at
// this boundary so the batch continues.
func refreshImage(
	ctx context.Context,
	client runtime.Client,
	classifier *classify.Classifier,
	params types.RefreshParams,
	record types.ImageRecord,
	progress session.Progress,
) {
	defer func() {
		if r := recover(); r != nil {
			progress.AddFailed(record, fmt.Errorf("%w: %v", errUnexpectedFailure, r))
		}
	}()

	ref := record.Ref()

	imageLog := logrus.WithFields(logrus.Fields{
		"image":    ref.String(),
		"image_id": record.ID.ShortID(),
	})
	imageLog.Debug("Processing image")

	digestList, err := client.RepoDigests(ctx, ref)
	if err != nil {
		progress.AddFailed(record, err)

		return
	}

	result := classifier.Classify(record.Repository, record.Tag, digestList)
	if result == classify.Local && !params.IncludeLocalBuilds {
		imageLog.Info("Skipping locally built image")
		progress.AddSkippedLocal(record)

		return
	}

	oldDigest := digestBefore(ctx, client, ref)

	if err := client.PullImage(ctx, ref); err != nil {
		progress.AddFailed(record, err)

		return
	}

	newDigest := digestAfter(ctx, client, ref, oldDigest)
	progress.AddCompared(record, oldDigest, newDigest)

	if oldDigest != newDigest {
		imageLog.WithField("digest", newDigest).Info("Image updated")
	} else {
		imageLog.Debug("Image already up to date")
	}
}

// digestBefore queries the registry digest prior to the pull. Inspection
// failures degrade to an empty digest: absence is meaningful, not fatal.
func digestBefore(ctx context.Context, client runtime.Client, ref types.ImageRef) string {
	digest, err := client.FirstRepoDigest(ctx, ref)
	if err != nil {
		logrus.WithError(err).WithField("image", ref.String()).
			Warn("Could not read digest before pull")

		return ""
	}

	return digest
}

// digestAfter queries the registry digest after the pull, falling back to the
// pre-pull digest on failure so a flaky inspect is not misread as an update.
func digestAfter(
	ctx context.Context,
	client runtime.Client,
	ref types.ImageRef,
	oldDigest string,
) string {
	digest, err := client.FirstRepoDigest(ctx, ref)
	if err != nil {
		logrus.WithError(err).WithField("image", ref.String()).
			Warn("Could not read digest after pull")

		return oldDigest
	}

	return digest
}
