// Package logging wires the dated per-user log file into logrus.
//
// Console output stays on the formatter selected by the logging flags; this
// package adds a hook that mirrors every entry into a plain-text file under
// the user's imagerefresh directory, one file per calendar day.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// logDirPerm is the permission mode for the per-user log directory.
const logDirPerm = 0o750

// logFilePerm is the permission mode for log files.
const logFilePerm = 0o640

// errLogDirFailed indicates the log directory could not be created.
var errLogDirFailed = errors.New("failed to create log directory")

// errLogFileFailed indicates the log file could not be opened.
var errLogFileFailed = errors.New("failed to open log file")

// FileHook mirrors logrus entries into a log file without ANSI colors.
type FileHook struct {
	writer    io.WriteCloser
	formatter logrus.Formatter
	path      string
}

// DefaultLogDir returns the per-user directory for imagerefresh log files.
//
// Returns:
//   - string: Path below the user's home directory, typically ~/.imagerefresh/logs.
//   - error: Non-nil if the home directory cannot be determined.
func DefaultLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	return filepath.Join(home, ".imagerefresh", "logs"), nil
}

// NewFileHook opens a dated log file in dir and returns a hook writing to it.
//
// The file is named imagerefresh-YYYYMMDD.log so consecutive runs on the same
// day append to a single file.
//
// Parameters:
//   - dir: Directory to place the log file in, created if missing.
//
// Returns:
//   - *FileHook: Hook ready to register with logrus.AddHook.
//   - error: Non-nil if the directory or file cannot be created.
func NewFileHook(dir string) (*FileHook, error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("%w: %w", errLogDirFailed, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("imagerefresh-%s.log", time.Now().Format("20060102")))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errLogFileFailed, err)
	}

	return &FileHook{
		writer: file,
		formatter: &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		},
		path: path,
	}, nil
}

// Path returns the full path of the log file backing the hook.
func (hook *FileHook) Path() string {
	return hook.path
}

// Levels reports the log levels the hook fires for. The file always receives
// everything the console logger is configured to emit.
func (hook *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire writes a single formatted entry to the log file.
func (hook *FileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	if _, err := hook.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}

	return nil
}

// Close releases the underlying log file.
func (hook *FileHook) Close() error {
	if err := hook.writer.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	return nil
}
