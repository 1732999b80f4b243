package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// defaultTableWidth is used when the terminal width is unknown.
const defaultTableWidth = 100

// columnGap is the spacing between styled table columns.
const columnGap = 2

// headerStyle renders table headers in bold.
var headerStyle = lipgloss.NewStyle().Bold(true)

// dividerStyle renders the line between header and rows.
var dividerStyle = lipgloss.NewStyle().Faint(true)

// TablePrinter renders tabular data to a writer.
// When the writer is a color-capable TTY it renders styled headers and a
// divider; when piped it uses plain tabwriter output.
type TablePrinter struct {
	out     io.Writer
	styled  bool
	headers []string
	rows    [][]string
}

// NewTablePrinter creates a table printer with the given column headers,
// writing to out. Styling is decided from whether out is a terminal and
// whether color was disabled.
func NewTablePrinter(out io.Writer, noColor bool, headers ...string) *TablePrinter {
	return &TablePrinter{
		out:     out,
		styled:  !noColor && isTerminal(out),
		headers: headers,
	}
}

// AddRow adds a data row to the table. If fewer columns are provided than
// headers, missing columns are treated as empty strings.
func (tp *TablePrinter) AddRow(cols ...string) {
	tp.rows = append(tp.rows, cols)
}

// Len returns the number of data rows (not including headers).
func (tp *TablePrinter) Len() int {
	return len(tp.rows)
}

// Render writes the table to the configured writer.
func (tp *TablePrinter) Render() error {
	if len(tp.headers) == 0 {
		return nil
	}

	if tp.styled {
		return tp.renderStyled()
	}

	return tp.renderPlain()
}

// renderPlain writes a tab-separated table using tabwriter.
func (tp *TablePrinter) renderPlain() error {
	writer := tabwriter.NewWriter(tp.out, 0, 0, columnGap, ' ', 0)

	fmt.Fprintln(writer, strings.Join(tp.headers, "\t"))

	for _, row := range tp.rows {
		fmt.Fprintln(writer, strings.Join(tp.normalizeRow(row), "\t"))
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	return nil
}

// renderStyled writes a styled table with lipgloss formatting.
func (tp *TablePrinter) renderStyled() error {
	widths := tp.columnWidths()
	spacing := strings.Repeat(" ", columnGap)

	headerParts := make([]string, 0, len(tp.headers))
	for i, header := range tp.headers {
		headerParts = append(headerParts, headerStyle.Width(widths[i]).Render(header))
	}

	if _, err := fmt.Fprintln(tp.out, strings.Join(headerParts, spacing)); err != nil {
		return fmt.Errorf("failed to write table header: %w", err)
	}

	dividerParts := make([]string, 0, len(tp.headers))
	for i := range tp.headers {
		dividerParts = append(dividerParts, strings.Repeat("─", widths[i]))
	}

	divider := dividerStyle.Render(strings.Join(dividerParts, spacing))
	if _, err := fmt.Fprintln(tp.out, divider); err != nil {
		return fmt.Errorf("failed to write table divider: %w", err)
	}

	for _, row := range tp.rows {
		parts := make([]string, 0, len(tp.headers))
		for i, col := range tp.normalizeRow(row) {
			parts = append(parts, lipgloss.NewStyle().Width(widths[i]).Render(col))
		}

		if _, err := fmt.Fprintln(tp.out, strings.Join(parts, spacing)); err != nil {
			return fmt.Errorf("failed to write table row: %w", err)
		}
	}

	return nil
}

// columnWidths sizes each column to its widest cell, capped so the table
// stays inside the default width.
func (tp *TablePrinter) columnWidths() []int {
	widths := make([]int, len(tp.headers))
	for i, header := range tp.headers {
		widths[i] = len(header)
	}

	for _, row := range tp.rows {
		for i, col := range tp.normalizeRow(row) {
			if len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	maxWidth := (defaultTableWidth - columnGap*(len(tp.headers)-1)) / len(tp.headers)
	for i := range widths {
		if widths[i] > maxWidth {
			widths[i] = maxWidth
		}
	}

	return widths
}

// normalizeRow pads or truncates a row to match the number of headers.
func (tp *TablePrinter) normalizeRow(row []string) []string {
	cols := make([]string, len(tp.headers))
	for i := range cols {
		if i < len(row) {
			cols[i] = row[i]
		}
	}

	return cols
}

// isTerminal reports whether the writer is an interactive terminal.
func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
