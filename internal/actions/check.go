package actions

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/runtime"
)

// CheckPrerequisites ensures the container runtime is installed and accessible
// before any image work begins. Both probes must pass; a failure aborts the
// program before any image is touched.
//
// Parameters:
//   - ctx: Context for the subprocess invocations.
//   - client: Runtime client used for the probes.
//
// Returns:
//   - error: Non-nil if the runtime is unavailable or permissions are missing.
func CheckPrerequisites(ctx context.Context, client runtime.Client) error {
	logrus.Debug("Checking container runtime availability")

	if err := client.CheckAvailability(ctx); err != nil {
		logrus.WithError(err).Debug("Runtime availability check failed")

		return err
	}

	logrus.Debug("Checking container runtime permissions")

	if err := client.CheckPermissions(ctx); err != nil {
		logrus.WithError(err).Debug("Runtime permission check failed")

		return err
	}

	logrus.Debug("Prerequisite checks passed")

	return nil
}
