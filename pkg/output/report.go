package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nicholas-fedor/imagerefresh/internal/util"
	"github.com/nicholas-fedor/imagerefresh/pkg/session"
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// maxDetectedRows caps the detected-images table so huge hosts do not flood
// the console. The remainder is summarized in a single overflow line.
const maxDetectedRows = 10

// shortDigestLength is the number of hex characters shown for a digest.
const shortDigestLength = 12

// WriteDetectedImages renders the table of locally cached images found at the
// start of a run.
//
// Parameters:
//   - out: Destination writer.
//   - noColor: Disables styled rendering.
//   - records: Images in listing order.
//
// Returns:
//   - error: Non-nil if writing fails.
func WriteDetectedImages(out io.Writer, noColor bool, records []types.ImageRecord) error {
	table := NewTablePrinter(out, noColor, "IMAGE", "ID", "SIZE", "CREATED")

	for i, record := range records {
		if i == maxDetectedRows {
			break
		}

		table.AddRow(record.Ref().String(), record.ID.ShortID(), record.Size, record.CreatedAt)
	}

	if err := table.Render(); err != nil {
		return err
	}

	if len(records) > maxDetectedRows {
		fmt.Fprintf(out, "... and %d more\n", len(records)-maxDetectedRows)
	}

	return nil
}

// WriteDetails renders per-image tables for updated and failed images.
// Unchanged and skipped images appear only in the summary counts.
//
// Parameters:
//   - out: Destination writer.
//   - noColor: Disables styled rendering.
//   - report: Completed refresh report.
//
// Returns:
//   - error: Non-nil if writing fails.
func WriteDetails(out io.Writer, noColor bool, report types.Report) error {
	if updated := report.Updated(); len(updated) > 0 {
		fmt.Fprintln(out, "Updated images:")

		table := NewTablePrinter(out, noColor, "IMAGE", "OLD DIGEST", "NEW DIGEST")
		for _, image := range updated {
			table.AddRow(
				image.Ref().String(),
				shortDigest(image.OldDigest()),
				shortDigest(image.NewDigest()))
		}

		if err := table.Render(); err != nil {
			return err
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintln(out, "Failed images:")

		table := NewTablePrinter(out, noColor, "IMAGE", "ERROR")
		for _, image := range failed {
			table.AddRow(image.Ref().String(), image.Error())
		}

		if err := table.Render(); err != nil {
			return err
		}
	}

	return nil
}

// WriteSummary renders the end-of-run summary table.
//
// Parameters:
//   - out: Destination writer.
//   - noColor: Disables styled rendering.
//   - stats: Filled run statistics.
//   - logPath: Path of the log file, empty when file logging is disabled.
//
// Returns:
//   - error: Non-nil if writing fails.
func WriteSummary(out io.Writer, noColor bool, stats *session.RunStats, logPath string) error {
	table := NewTablePrinter(out, noColor, "SUMMARY", "")
	table.AddRow("Processed", strconv.Itoa(stats.Total))
	table.AddRow("Updated", strconv.Itoa(stats.Updated))
	table.AddRow("Unchanged", strconv.Itoa(stats.Unchanged))
	table.AddRow("Failed", strconv.Itoa(stats.Failed))
	table.AddRow("Skipped (local)", strconv.Itoa(stats.SkippedLocal))
	table.AddRow("Elapsed", util.FormatDuration(stats.Elapsed()))

	if logPath != "" {
		table.AddRow("Log file", logPath)
	}

	return table.Render()
}

// shortDigest reduces a repo digest like "nginx@sha256:abcd..." to its first
// hex characters for display.
func shortDigest(repoDigest string) string {
	if repoDigest == "" {
		return "-"
	}

	_, hash, found := strings.Cut(repoDigest, "@sha256:")
	if !found {
		return repoDigest
	}

	if len(hash) > shortDigestLength {
		hash = hash[:shortDigestLength]
	}

	return hash
}
