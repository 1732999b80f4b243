package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "imagerefresh", cmd.Use)
	assert.NotNil(t, cmd.Run)
	assert.NotNil(t, cmd.PreRun)
}

func TestRootCommandRegistersFlags(t *testing.T) {
	flagsSet := rootCmd.PersistentFlags()

	for _, name := range []string{
		"runtime-binary",
		"dry-run",
		"exclude-tag",
		"include-local-builds",
		"schedule",
		"log-level",
		"log-format",
		"no-color",
		"no-log-file",
		"http-api-metrics",
		"http-api-port",
		"notification-url",
		"notification-hostname",
		"notification-delay",
	} {
		assert.NotNil(t, flagsSet.Lookup(name), "missing flag %s", name)
	}
}

func TestRootCommandFlagDefaults(t *testing.T) {
	flagsSet := rootCmd.PersistentFlags()

	binary, err := flagsSet.GetString("runtime-binary")
	require.NoError(t, err)
	assert.Equal(t, "docker", binary)

	dryRun, err := flagsSet.GetBool("dry-run")
	require.NoError(t, err)
	assert.False(t, dryRun)

	port, err := flagsSet.GetString("http-api-port")
	require.NoError(t, err)
	assert.Equal(t, "8080", port)
}
