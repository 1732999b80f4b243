package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicholas-fedor/imagerefresh/pkg/metrics"
)

func TestRunRefreshesOnScheduleRejectsInvalidSpec(t *testing.T) {
	err := RunRefreshesOnSchedule(
		context.Background(),
		"not a cron spec",
		nil,
		func(context.Context) *metrics.Metric { return &metrics.Metric{} },
		nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to schedule refreshes")
}

func TestRunRefreshesOnScheduleRunsImmediatelyAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	runs := make(chan struct{}, 10)
	runRefresh := func(context.Context) *metrics.Metric {
		runs <- struct{}{}

		return &metrics.Metric{Scanned: 1}
	}

	done := make(chan error, 1)

	go func() {
		done <- RunRefreshesOnSchedule(ctx, "@daily", nil, runRefresh, nil)
	}()

	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate refresh run")
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestWaitForRunningRefreshReturnsWhenLockHeld(t *testing.T) {
	lock := make(chan bool, 1)

	release := make(chan struct{})

	go func() {
		<-release

		lock <- true
	}()

	start := time.Now()

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()

	WaitForRunningRefresh(context.Background(), lock)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
