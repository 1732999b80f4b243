// Package output renders refresh results as console tables.
//
// When standard output is a TTY with colors enabled the tables use lipgloss
// styling; when piped they fall back to plain tab-separated text so the
// output stays machine-friendly.
package output
