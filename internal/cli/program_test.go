package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bb-io-cape/go-capeid/capeid"
	"github.com/bb-io-cape/go-capeid/provision"
)

func runProgramCmd(t *testing.T, rootOpts *RootOptions, input string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewProgramCommand(rootOpts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--bind-retry-delay", "1ms"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestProgramSimulatedUnattended(t *testing.T) {
	path, _ := writeTestImage(t, t.TempDir())

	out, logs, err := runProgramCmd(t, &RootOptions{Format: "text"}, "", "--simulate", "--yes", path)
	require.NoError(t, err)

	assert.Contains(t, out, "[discovering]")
	assert.Contains(t, out, "[writing]")
	assert.Contains(t, out, "[verifying]")
	assert.Contains(t, out, "[done] 100.0% 244/244 bytes")
	assert.Contains(t, out, "Programmed and verified 244 bytes at 0x54 on bus 2")
	assert.Contains(t, logs, "provisioning complete")
}

func TestProgramSimulatedInteractive(t *testing.T) {
	path, _ := writeTestImage(t, t.TempDir())

	out, _, err := runProgramCmd(t, &RootOptions{Format: "text"}, "y\ny\n", "--simulate", "--bus", "1", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Remove write protection (WP jumper) and continue? [y/N]")
	assert.Contains(t, out, "Write protection restored? [y/N]")
	assert.Contains(t, out, "at 0x54 on bus 1")
}

func TestProgramSimulatedJSON(t *testing.T) {
	path, _ := writeTestImage(t, t.TempDir())

	out, logs, err := runProgramCmd(t, &RootOptions{Format: "json"}, "", "--simulate", "--yes", path)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ProgramResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "0x54", resp.Data.Address)
	assert.Equal(t, capeid.ImageSize, resp.Data.Bytes)
	assert.Equal(t, "verified", resp.Data.Outcome)
	assert.Equal(t, []string{
		"discovering", "awaiting_write_unlock", "device_binding",
		"writing", "verifying", "awaiting_write_lock", "done",
	}, resp.Data.States)
	assert.Contains(t, logs, `"msg":"provisioning complete"`)
	assert.Contains(t, logs, "[writing]")
}

func TestProgramAllowsRawImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a cape"), 0o644))

	out, _, err := runProgramCmd(t, &RootOptions{Format: "text"}, "",
		"--simulate", "--yes", "--no-image-check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Programmed and verified 10 bytes")
}

func TestProgramErrors(t *testing.T) {
	dir := t.TempDir()
	image, _ := writeTestImage(t, dir)
	garbage := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(garbage, []byte("not a cape"), 0o644))
	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name     string
		input    string
		args     []string
		wantCode string
		wantExit int
	}{
		{
			name:     "missing image",
			args:     []string{"--simulate", "--yes", filepath.Join(dir, "missing.bin")},
			wantCode: ErrCodeNotFound,
			wantExit: ExitCommandError,
		},
		{
			name:     "not a cape image",
			args:     []string{"--simulate", "--yes", garbage},
			wantCode: ErrCodeInvalidInput,
			wantExit: ExitCommandError,
		},
		{
			name:     "empty image",
			args:     []string{"--simulate", "--yes", "--no-image-check", empty},
			wantCode: ErrCodeInvalidInput,
			wantExit: ExitCommandError,
		},
		{
			name:     "invalid address",
			args:     []string{"--simulate", "--yes", "--address", "0x80", image},
			wantCode: ErrCodeInvalidInput,
			wantExit: ExitCommandError,
		},
		{
			name:     "invalid method",
			args:     []string{"--method", "spi", "--yes", image},
			wantCode: ErrCodeInvalidInput,
			wantExit: ExitCommandError,
		},
		{
			name:     "nothing at fixed address",
			args:     []string{"--simulate", "--yes", "--address", "0x55", image},
			wantCode: ErrCodeBindFailed,
			wantExit: ExitFailure,
		},
		{
			name:     "unlock declined",
			input:    "n\n",
			args:     []string{"--simulate", image},
			wantCode: ErrCodeAborted,
			wantExit: ExitFailure,
		},
		{
			name:     "lock declined",
			input:    "y\nn\n",
			args:     []string{"--simulate", image},
			wantCode: ErrCodeAborted,
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runProgramCmd(t, &RootOptions{Format: "text"}, tt.input, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestClassifyProvisionError(t *testing.T) {
	tests := []struct {
		err      error
		wantExit int
		wantCode string
	}{
		{&provision.WriteError{Err: provision.ErrEmptyImage}, ExitCommandError, ErrCodeInvalidInput},
		{fmt.Errorf("invalid cape image: %w", capeid.ErrBadMagic), ExitCommandError, ErrCodeInvalidInput},
		{fmt.Errorf("invalid cape image: %w", &capeid.ImageSizeError{Length: 3}), ExitCommandError, ErrCodeInvalidInput},
		{&provision.DeviceNotFoundError{Bus: 2}, ExitFailure, ErrCodeDeviceNotFound},
		{&provision.DeviceBindError{Bus: 2, Address: 0x54, Attempts: 2}, ExitFailure, ErrCodeBindFailed},
		{&provision.WriteError{Offset: 9, Err: errors.New("nak")}, ExitFailure, ErrCodeDeviceWrite},
		{&provision.ReadBackError{Err: errors.New("nak")}, ExitFailure, ErrCodeVerifyFailed},
		{&provision.VerificationMismatchError{Offset: 3}, ExitFailure, ErrCodeVerifyFailed},
		{&provision.OperatorAbortError{State: provision.StateAwaitingWriteUnlock}, ExitFailure, ErrCodeAborted},
		{errors.New("cancelled"), ExitFailure, ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			exit, code, message := classifyProvisionError(tt.err)
			assert.Equal(t, tt.wantExit, exit)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, message)
		})
	}
}
