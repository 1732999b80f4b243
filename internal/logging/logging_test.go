package logging

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileHook(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "logs")

	hook, err := NewFileHook(dir)
	require.NoError(t, err)

	t.Cleanup(func() { _ = hook.Close() })

	wantName := "imagerefresh-" + time.Now().Format("20060102") + ".log"
	assert.Equal(t, filepath.Join(dir, wantName), hook.Path())
	assert.FileExists(t, hook.Path())
}

func TestFileHookFire(t *testing.T) {
	t.Parallel()

	hook, err := NewFileHook(t.TempDir())
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(hook)

	logger.WithField("image", "nginx:latest").Info("Pulled image")
	require.NoError(t, hook.Close())

	content, err := os.ReadFile(hook.Path())
	require.NoError(t, err)

	assert.Contains(t, string(content), "Pulled image")
	assert.Contains(t, string(content), "image=\"nginx:latest\"")
	assert.NotContains(t, string(content), "\x1b[", "log file must not contain ANSI escapes")
}

func TestFileHookAppendsAcrossRuns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first, err := NewFileHook(dir)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(first)
	logger.Info("first run")
	require.NoError(t, first.Close())

	second, err := NewFileHook(dir)
	require.NoError(t, err)

	logger = logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(second)
	logger.Info("second run")
	require.NoError(t, second.Close())

	assert.Equal(t, first.Path(), second.Path())

	content, err := os.ReadFile(second.Path())
	require.NoError(t, err)

	assert.Contains(t, string(content), "first run")
	assert.Contains(t, string(content), "second run")
}
