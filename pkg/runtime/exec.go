package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Executor runs the runtime binary as a subprocess. It is an interface so
// tests can substitute canned outputs for real invocations.
type Executor interface {
	// Output runs the binary with the given arguments and returns its stdout.
	// Stderr is captured into the returned error on failure.
	Output(ctx context.Context, args ...string) ([]byte, error)
	// Combined runs the binary and returns interleaved stdout and stderr,
	// for operations whose output is logged rather than parsed.
	Combined(ctx context.Context, args ...string) ([]byte, error)
}

// cliExecutor invokes a fixed binary via exec.CommandContext.
type cliExecutor struct {
	binary string
}

// NewExecutor creates an Executor for the given runtime binary (e.g. "docker").
func NewExecutor(binary string) Executor {
	return &cliExecutor{binary: binary}
}

// Output runs the command and returns stdout only, wrapping stderr into the
// error for failed invocations.
func (e *cliExecutor) Output(ctx context.Context, args ...string) ([]byte, error) {
	logrus.WithFields(logrus.Fields{
		"binary": e.binary,
		"args":   strings.Join(args, " "),
	}).Trace("Executing runtime command")

	out, err := exec.CommandContext(ctx, e.binary, args...).Output()
	if err != nil {
		return nil, wrapExecError(err, args)
	}

	return out, nil
}

// Combined runs the command and returns interleaved stdout and stderr.
func (e *cliExecutor) Combined(ctx context.Context, args ...string) ([]byte, error) {
	logrus.WithFields(logrus.Fields{
		"binary": e.binary,
		"args":   strings.Join(args, " "),
	}).Trace("Executing runtime command")

	out, err := exec.CommandContext(ctx, e.binary, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%w: %s: %s", errCommandFailed, strings.Join(args, " "),
			strings.TrimSpace(string(out)))
	}

	return out, nil
}

// wrapExecError folds captured stderr into the command failure for readable
// log lines.
func wrapExecError(err error, args []string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s: %s", errCommandFailed, strings.Join(args, " "),
			strings.TrimSpace(string(exitErr.Stderr)))
	}

	return fmt.Errorf("%w: %s: %w", errCommandFailed, strings.Join(args, " "), err)
}
