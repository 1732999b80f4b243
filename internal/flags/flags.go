package flags

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// untaggedMarker is the pseudo-tag the runtime prints for untagged images.
// It is always excluded from processing.
const untaggedMarker = "<none>"

// defaultHTTPAPIPort is the port the metrics endpoint binds to when enabled.
const defaultHTTPAPIPort = "8080"

// errInvalidLogFormat indicates an invalid log format was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogFormat = errors.New("invalid log format specified")

// errInvalidLogLevel indicates an invalid log level was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogLevel = errors.New("invalid log level specified")

// errReadFlagFailed indicates a failure to read a flag's value.
var errReadFlagFailed = errors.New("failed to read flag value")

// RegisterRuntimeFlags adds flags that select and drive the container runtime
// CLI to the root command.
func RegisterRuntimeFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"runtime-binary",
		"b",
		envString("IMAGEREFRESH_RUNTIME_BINARY"),
		"Container runtime CLI binary to invoke")
}

// RegisterSystemFlags adds flags that modify imagerefresh's program flow to
// the root command. These flags control refresh behavior, logging, and
// operational modes.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.BoolP(
		"dry-run",
		"d",
		envBool("IMAGEREFRESH_DRY_RUN"),
		"Simulate pulls and pruning without mutating the host")

	flags.StringSliceP(
		"exclude-tag",
		"x",
		envStringSlice("IMAGEREFRESH_EXCLUDE_TAGS"),
		"Tags to exclude from the refresh (repeatable); the untagged marker is always excluded")

	flags.BoolP(
		"include-local-builds",
		"",
		envBool("IMAGEREFRESH_INCLUDE_LOCAL_BUILDS"),
		"Also refresh images classified as local builds instead of skipping them")

	flags.StringP(
		"schedule",
		"s",
		envString("IMAGEREFRESH_SCHEDULE"),
		"Cron expression enabling periodic refresh runs instead of a single run")

	flags.StringP(
		"log-format",
		"l",
		envString("IMAGEREFRESH_LOG_FORMAT"),
		"Console logging format. Possible values: Auto, LogFmt, Pretty, JSON")

	flags.String(
		"log-level",
		envString("IMAGEREFRESH_LOG_LEVEL"),
		"Maximum log level written to the console. Possible values: panic, fatal, error, warn, info, debug or trace")

	// https://no-color.org/
	flags.BoolP(
		"no-color",
		"",
		viper.IsSet("NO_COLOR"),
		"Disable ANSI color escape codes in console output")

	flags.BoolP(
		"no-log-file",
		"",
		envBool("IMAGEREFRESH_NO_LOG_FILE"),
		"Do not write the dated log file under the per-user log directory")

	flags.BoolP(
		"http-api-metrics",
		"",
		envBool("IMAGEREFRESH_HTTP_API_METRICS"),
		"Serve Prometheus metrics over HTTP (only meaningful with --schedule)")

	flags.StringP(
		"http-api-port",
		"",
		envString("IMAGEREFRESH_HTTP_API_PORT"),
		"Port to bind the metrics endpoint to (default: 8080)")
}

// RegisterNotificationFlags adds flags for configuring run-summary
// notifications to the root command.
func RegisterNotificationFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringSliceP(
		"notification-url",
		"n",
		envStringSlice("IMAGEREFRESH_NOTIFICATION_URL"),
		"Shoutrrr service URLs to send run summaries to (repeatable)")

	flags.StringP(
		"notification-hostname",
		"",
		envString("IMAGEREFRESH_NOTIFICATION_HOSTNAME"),
		"Custom hostname for notification titles")

	flags.DurationP(
		"notification-delay",
		"",
		envDuration("IMAGEREFRESH_NOTIFICATION_DELAY"),
		"Delay before sending notifications")
}

// SetDefaults configures default values for environment variables.
// It ensures consistent fallback behavior when flags or environment variables
// are unset.
func SetDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault("IMAGEREFRESH_RUNTIME_BINARY", "docker")
	viper.SetDefault("IMAGEREFRESH_EXCLUDE_TAGS", []string{})
	viper.SetDefault("IMAGEREFRESH_LOG_FORMAT", "Auto")
	viper.SetDefault("IMAGEREFRESH_LOG_LEVEL", "info")
	viper.SetDefault("IMAGEREFRESH_HTTP_API_PORT", defaultHTTPAPIPort)
	viper.SetDefault("IMAGEREFRESH_NOTIFICATION_URL", []string{})
	viper.SetDefault("IMAGEREFRESH_NOTIFICATION_HOSTNAME", "")
}

// ExcludedTags returns the effective tag-exclusion set: the user-provided
// values plus the always-excluded untagged marker.
//
// Parameters:
//   - flags: The flag set to read --exclude-tag from.
//
// Returns:
//   - []string: Exclusion set containing at least the untagged marker.
//   - error: Non-nil if the flag cannot be read.
func ExcludedTags(flags *pflag.FlagSet) ([]string, error) {
	userTags, err := flags.GetStringSlice("exclude-tag")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	tags := make([]string, 0, len(userTags)+1)
	tags = append(tags, untaggedMarker)

	for _, tag := range userTags {
		if tag != untaggedMarker {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

// SetupLogging configures logrus based on the --log-format, --log-level, and
// --no-color flags.
//
// Parameters:
//   - flags: The flag set to read logging flags from.
//
// Returns:
//   - error: Non-nil if a flag value is invalid.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errReadFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// configureLogFormat sets the logrus formatter based on the specified format
// and color preference. It returns an error if the format is invalid.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// envString retrieves a string value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

// envStringSlice retrieves a string slice from an environment variable via
// Viper. It binds the key to the environment and returns its values.
func envStringSlice(key string) []string {
	viper.MustBindEnv(key)

	return viper.GetStringSlice(key)
}

// envBool retrieves a boolean value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}

// envDuration retrieves a duration value from an environment variable via
// Viper. It binds the key to the environment and returns its value.
func envDuration(key string) time.Duration {
	viper.MustBindEnv(key)

	return viper.GetDuration(key)
}
