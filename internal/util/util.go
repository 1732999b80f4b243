// Package util provides small formatting helpers shared across imagerefresh.
package util

import (
	"fmt"
	"strings"
	"time"
)

// minutesPerHour defines the number of minutes in an hour.
const minutesPerHour = 60

// secondsPerMinute defines the number of seconds in a minute.
const secondsPerMinute = 60

// FormatDuration converts a time.Duration into a human-readable string.
//
// It breaks the duration into hours, minutes, and seconds, formatting each
// part with correct singular or plural units.
//
// Parameters:
//   - duration: Duration to format.
//
// Returns:
//   - string: Readable form such as "1 hour, 2 minutes, 3 seconds".
func FormatDuration(duration time.Duration) string {
	const partCount = 3

	parts := make([]string, 0, partCount)

	hours := int64(duration.Hours())
	minutes := int64(duration.Minutes()) % minutesPerHour
	seconds := int64(duration.Seconds()) % secondsPerMinute

	if hours == 1 {
		parts = append(parts, "1 hour")
	} else if hours != 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}

	if minutes == 1 {
		parts = append(parts, "1 minute")
	} else if minutes != 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}

	if seconds == 1 {
		parts = append(parts, "1 second")
	} else {
		parts = append(parts, fmt.Sprintf("%d seconds", seconds))
	}

	return strings.Join(parts, ", ")
}
