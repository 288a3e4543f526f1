package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow pins the serial clock to 2025-01-15 (ISO week 3 of 2025).
func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "capeid", cmd.Use)
	assert.Contains(t, cmd.Long, "244-byte")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"build", "info", "program", "serial"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	buildCmd, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)

	outputFlag := buildCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "cape_eeprom.bin", outputFlag.DefValue)

	configFlag := buildCmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	for _, name := range []string{"board-name", "version", "manufacturer", "part-number",
		"eeprom-rev", "serial", "vdd-3v3b-ma", "vdd-5v-ma", "sys-5v-ma", "dc-supplied-ma"} {
		assert.NotNil(t, buildCmd.Flags().Lookup(name), name)
	}
}

func TestProgramCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	programCmd, _, err := cmd.Find([]string{"program"})
	require.NoError(t, err)

	busFlag := programCmd.Flags().Lookup("bus")
	require.NotNil(t, busFlag)
	assert.Equal(t, "2", busFlag.DefValue)

	methodFlag := programCmd.Flags().Lookup("method")
	require.NotNil(t, methodFlag)
	assert.Equal(t, "i2c", methodFlag.DefValue)

	delayFlag := programCmd.Flags().Lookup("bind-retry-delay")
	require.NotNil(t, delayFlag)
	assert.Equal(t, "500ms", delayFlag.DefValue)

	yesFlag := programCmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serial", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newLogger(&RootOptions{Format: "text"}, buf)
	logger.Debug("hidden")
	logger.Info("shown", "address", "0x54")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "address=0x54")

	buf.Reset()
	logger = newLogger(&RootOptions{Format: "json", Verbose: true}, buf)
	logger.Debug("detail")
	assert.Contains(t, buf.String(), `"msg":"detail"`)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
