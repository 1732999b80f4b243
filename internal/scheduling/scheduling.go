// Package scheduling runs periodic image refreshes from a cron specification.
// It manages run concurrency with a lock channel and ensures graceful
// shutdown of scheduled operations.
package scheduling

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/metrics"
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// RunFunc performs a single refresh run and returns its metric for
// registration.
type RunFunc func(ctx context.Context) *metrics.Metric

// WaitForRunningRefresh waits for any currently running refresh to complete
// before proceeding with shutdown. It checks the lock channel status and
// blocks with a timeout if a run is in progress.
//
// Parameters:
//   - ctx: The context for cancellation, allowing early shutdown.
//   - lock: The channel used to synchronize runs, ensuring only one at a time.
func WaitForRunningRefresh(ctx context.Context, lock chan bool) {
	const refreshWaitTimeout = 60 * time.Second

	logrus.Debug("Checking lock status before shutdown.")

	if len(lock) == 0 {
		select {
		case <-lock:
			logrus.Debug("Lock acquired, refresh finished.")
		case <-time.After(refreshWaitTimeout):
			logrus.Warn("Timeout waiting for running refresh to finish, proceeding with shutdown.")
		case <-ctx.Done():
			logrus.Warn("Context cancelled while waiting for running refresh.")
		}
	} else {
		logrus.Debug("No refresh running, lock available.")
	}

	logrus.Debug("Lock check completed.")
}

// RunRefreshesOnSchedule executes periodic refresh runs according to the cron
// specification.
//
// It sets up a cron scheduler, triggers an immediate first run, and ensures
// graceful shutdown on interrupt signals (SIGINT, SIGTERM) or context
// cancellation, handling concurrency with a lock channel.
//
// Parameters:
//   - ctx: The context controlling the scheduler's lifecycle.
//   - scheduleSpec: The cron-formatted schedule string.
//   - lock: A channel ensuring only one run at a time, or nil to create one.
//   - runRefresh: Function performing a single refresh run.
//   - notifier: Notifier to close on shutdown, may be nil.
//
// Returns:
//   - error: An error if scheduling fails (e.g., invalid cron spec), nil on
//     successful shutdown.
func RunRefreshesOnSchedule(
	ctx context.Context,
	scheduleSpec string,
	lock chan bool,
	runRefresh RunFunc,
	notifier types.Notifier,
) error {
	if lock == nil {
		lock = make(chan bool, 1)
		lock <- true
	}

	scheduler := cron.New()

	refreshFunc := func() {
		select {
		case v := <-lock:
			defer func() { lock <- v }()

			metric := runRefresh(ctx)
			metrics.Default().Register(metric)
			logrus.Debug("Refresh run completed successfully")
		default:
			logrus.Debug("Skipped refresh, another run is already in progress.")
		}

		nextRuns := scheduler.Entries()
		if len(nextRuns) > 0 {
			logrus.Debug("Scheduled next run: " + nextRuns[0].Next.String())
		}
	}

	if err := scheduler.AddFunc(scheduleSpec, refreshFunc); err != nil {
		return fmt.Errorf("failed to schedule refreshes: %w", err)
	}

	if len(scheduler.Entries()) > 0 {
		nextRun := scheduler.Entries()[0].Schedule.Next(time.Now())
		logrus.WithField("next_run", nextRun).Info("Starting scheduled refresh mode")
	}

	refreshFunc()

	scheduler.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logrus.Debug("Context canceled, stopping scheduler...")
	case <-interrupt:
		logrus.Debug("Received interrupt signal, stopping scheduler...")
	}

	scheduler.Stop()
	logrus.Debug("Waiting for running refresh to be finished...")

	WaitForRunningRefresh(ctx, lock)

	if notifier != nil {
		notifier.Close()
	}

	logrus.Debug("Scheduler stopped and refresh completed.")

	return nil
}
