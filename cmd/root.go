package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/imagerefresh/internal/actions"
	"github.com/nicholas-fedor/imagerefresh/internal/api"
	"github.com/nicholas-fedor/imagerefresh/internal/flags"
	"github.com/nicholas-fedor/imagerefresh/internal/logging"
	"github.com/nicholas-fedor/imagerefresh/internal/meta"
	"github.com/nicholas-fedor/imagerefresh/internal/scheduling"
	"github.com/nicholas-fedor/imagerefresh/pkg/classify"
	"github.com/nicholas-fedor/imagerefresh/pkg/metrics"
	"github.com/nicholas-fedor/imagerefresh/pkg/notifications"
	"github.com/nicholas-fedor/imagerefresh/pkg/output"
	"github.com/nicholas-fedor/imagerefresh/pkg/runtime"
	"github.com/nicholas-fedor/imagerefresh/pkg/session"
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// exitCodeFailure signals a failed run: unusable runtime or listing failure.
const exitCodeFailure = 1

// exitCodeInterrupted mirrors the conventional 128+SIGINT exit status.
const exitCodeInterrupted = 130

// Package-level state initialized in preRun and shared with run.
var (
	client     runtime.Client
	classifier *classify.Classifier
	notifier   types.Notifier
	fileHook   *logging.FileHook
	params     types.RefreshParams
	noColor    bool
)

// rootCmd is the root command for the imagerefresh CLI, serving as the entry
// point for execution.
var rootCmd = NewRootCommand()

// RunConfig holds the operational parameters resolved from flags for a
// single invocation.
type RunConfig struct {
	Schedule         string
	EnableMetricsAPI bool
	APIPort          string
}

// NewRootCommand creates and configures the root command for the
// imagerefresh CLI.
//
// Returns:
//   - *cobra.Command: Configured root command, ready for flag registration
//     and execution.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "imagerefresh",
		Short:  "Re-pulls locally cached container images to keep them current",
		Long:   "\nImagerefresh enumerates the host's locally cached container images, re-pulls those that originate from a registry, skips local builds, and prunes dangling images afterwards.",
		Run:    run,
		PreRun: preRun,
		Args:   cobra.NoArgs,
	}
}

// init registers command-line flags for the root command during package
// initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterRuntimeFlags(rootCmd)
	flags.RegisterSystemFlags(rootCmd)
	flags.RegisterNotificationFlags(rootCmd)
}

// Execute runs the root command and manages any errors encountered during
// its execution. It is the primary entry point called from main.go.
func Execute() {
	rootCmd.Version = meta.Version

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Failed to execute root command")
	}
}

// preRun prepares logging, the runtime client, the classifier, and the
// notifier before the main command execution begins.
//
// Parameters:
//   - cmd: The cobra.Command instance being executed, providing parsed flags.
//   - _: Positional arguments (none are accepted).
func preRun(cmd *cobra.Command, _ []string) {
	flagsSet := cmd.PersistentFlags()

	if err := flags.SetupLogging(flagsSet); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}

	noColor, _ = flagsSet.GetBool("no-color")

	noLogFile, _ := flagsSet.GetBool("no-log-file")
	if !noLogFile {
		logDir, err := logging.DefaultLogDir()
		if err == nil {
			fileHook, err = logging.NewFileHook(logDir)
		}

		if err != nil {
			logrus.WithError(err).Warn("Continuing without a log file")
		} else {
			logrus.AddHook(fileHook)
		}
	}

	binary, _ := flagsSet.GetString("runtime-binary")
	dryRun, _ := flagsSet.GetBool("dry-run")

	client = runtime.NewClient(runtime.ClientOptions{Binary: binary, DryRun: dryRun})
	classifier = classify.New()

	excludeTags, err := flags.ExcludedTags(flagsSet)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read exclusion flags")
	}

	includeLocal, _ := flagsSet.GetBool("include-local-builds")

	params = types.RefreshParams{
		DryRun:             dryRun,
		IncludeLocalBuilds: includeLocal,
		ExcludeTags:        excludeTags,
	}

	urls, _ := flagsSet.GetStringSlice("notification-url")
	hostname, _ := flagsSet.GetString("notification-hostname")
	delay, _ := flagsSet.GetDuration("notification-delay")

	notifier = notifications.NewNotifier(notifications.Config{
		URLs:     urls,
		Hostname: hostname,
		Delay:    delay,
	})
	if notifier != nil {
		logrus.WithField("services", notifier.GetNames()).
			Debug("Notifications enabled")
	}
}

// run resolves the execution mode from flags and hands off to runMain,
// exiting with its status code when non-zero.
//
// Parameters:
//   - c: The cobra.Command instance being executed.
//   - _: Positional arguments (none are accepted).
func run(c *cobra.Command, _ []string) {
	flagsSet := c.PersistentFlags()

	schedule, _ := flagsSet.GetString("schedule")
	enableMetricsAPI, _ := flagsSet.GetBool("http-api-metrics")

	apiPort, _ := flagsSet.GetString("http-api-port")
	if apiPort == "" {
		apiPort = "8080"
	}

	cfg := RunConfig{
		Schedule:         schedule,
		EnableMetricsAPI: enableMetricsAPI,
		APIPort:          apiPort,
	}

	if exitCode := runMain(cfg); exitCode != 0 {
		logrus.WithField("exit_code", exitCode).Debug("Exiting with non-zero status")
		os.Exit(exitCode)
	}
}

// runMain executes the core logic: a single refresh run, or the cron-driven
// scheduled mode when a schedule is configured.
//
// Parameters:
//   - cfg: Operational parameters resolved from flags.
//
// Returns:
//   - int: Exit status, 0 for success, 1 for failure, 130 for interrupt.
func runMain(cfg RunConfig) int {
	defer closeResources()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := actions.CheckPrerequisites(ctx, client); err != nil {
		logrus.WithError(err).Error("Container runtime is not usable")

		return exitCodeFailure
	}

	if cfg.Schedule != "" {
		return runScheduled(ctx, cfg)
	}

	return runOnce(ctx)
}

// runOnce performs a single refresh run and renders its results.
func runOnce(ctx context.Context) int {
	stats := session.NewRunStats()

	records, err := client.ListImages(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to enumerate local images")

		return exitCodeFailure
	}

	if err := output.WriteDetectedImages(os.Stdout, noColor, records); err != nil {
		logrus.WithError(err).Warn("Failed to render image table")
	}

	report, runErr := actions.RunRefresh(ctx, client, classifier, params, logProgress)
	if runErr != nil {
		if errors.Is(runErr, actions.ErrInterrupted) {
			logrus.Warn("Interrupted, abandoning remaining images")

			return exitCodeInterrupted
		}

		logrus.WithError(runErr).Error("Refresh run failed")

		return exitCodeFailure
	}

	if summary := actions.CleanupDanglingImages(ctx, client); summary != "" {
		logrus.WithField("result", summary).Info("Pruned dangling images")
	}

	stats.Fill(report)
	renderResults(report, stats)

	if notifier != nil {
		notifier.SendSummary(report, stats.Elapsed())
	}

	return 0
}

// runScheduled drives periodic refresh runs from the cron specification,
// optionally exposing Prometheus metrics over HTTP.
func runScheduled(ctx context.Context, cfg RunConfig) int {
	if cfg.EnableMetricsAPI {
		server := api.NewMetricsServer(cfg.APIPort)
		server.Start(ctx)
		logrus.WithField("endpoint", server.Addr()).Info("Metrics endpoint enabled")
	}

	runRefresh := func(runCtx context.Context) *metrics.Metric {
		stats := session.NewRunStats()

		report, err := actions.RunRefresh(runCtx, client, classifier, params, logProgress)
		if err != nil && report == nil {
			logrus.WithError(err).Error("Refresh run failed")

			return &metrics.Metric{}
		}

		if summary := actions.CleanupDanglingImages(runCtx, client); summary != "" {
			logrus.WithField("result", summary).Info("Pruned dangling images")
		}

		stats.Fill(report)
		renderResults(report, stats)

		if notifier != nil {
			notifier.SendSummary(report, stats.Elapsed())
		}

		return metrics.NewMetric(report)
	}

	if err := scheduling.RunRefreshesOnSchedule(ctx, cfg.Schedule, nil, runRefresh, notifier); err != nil {
		logrus.WithError(err).Error("Scheduled mode failed")

		return exitCodeFailure
	}

	return 0
}

// renderResults writes the per-image detail tables and the summary table.
func renderResults(report types.Report, stats *session.RunStats) {
	if err := output.WriteDetails(os.Stdout, noColor, report); err != nil {
		logrus.WithError(err).Warn("Failed to render detail tables")
	}

	logPath := ""
	if fileHook != nil {
		logPath = fileHook.Path()
	}

	if err := output.WriteSummary(os.Stdout, noColor, stats, logPath); err != nil {
		logrus.WithError(err).Warn("Failed to render summary table")
	}
}

// logProgress reports per-image progress at info level.
func logProgress(index, total int, ref types.ImageRef) {
	logrus.WithFields(logrus.Fields{
		"image":    ref.String(),
		"position": index + 1,
		"total":    total,
	}).Info("Refreshing image")
}

// closeResources releases the notifier and the log file hook. The notifier
// sends nothing further after Close.
func closeResources() {
	if notifier != nil {
		notifier.Close()
	}

	if fileHook != nil {
		if err := fileHook.Close(); err != nil {
			logrus.WithError(err).Debug("Failed to close log file")
		}
	}
}
