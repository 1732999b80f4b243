package actions

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/runtime"
)

// CleanupDanglingImages prunes dangling images after a run. The operation is
// best-effort: failures are logged and never change the run's exit status.
//
// Parameters:
//   - ctx: Context for the prune subprocess.
//   - client: Runtime client.
//
// Returns:
//   - string: The runtime's free-text summary of reclaimed space, empty on failure.
func CleanupDanglingImages(ctx context.Context, client runtime.Client) string {
	logrus.Debug("Pruning dangling images")

	summary, err := client.PruneDanglingImages(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to prune dangling images")

		return ""
	}

	logrus.WithField("summary", summary).Info("Pruned dangling images")

	return summary
}
