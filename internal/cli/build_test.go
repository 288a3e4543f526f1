package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bb-io-cape/go-capeid/capeid"
)

func runBuildCmd(t *testing.T, rootOpts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewBuildCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestBuildDefaults(t *testing.T) {
	fixedNow(t)
	output := filepath.Join(t.TempDir(), "cape.bin")

	text, err := runBuildCmd(t, &RootOptions{Format: "text"}, "-o", output)
	require.NoError(t, err)

	img, err := os.ReadFile(output)
	require.NoError(t, err)

	want := capeid.DefaultRecord()
	want.SerialNumber = "0325CAPE0001"
	wantImg, err := capeid.Build(want)
	require.NoError(t, err)
	assert.Equal(t, wantImg, img)

	assert.Contains(t, text, "Generated EEPROM image: "+output+" (244 bytes)")
	assert.Contains(t, text, "First 96 bytes (hex):")
	assert.Contains(t, text, "  0000: AA 55 33 EE 41 31 42 42")
	assert.Contains(t, text, "|.U3.A1BB-IO-CAPE|")
	assert.NotContains(t, text, "EEPROM Contents:")
}

func TestBuildVerboseShowsRecord(t *testing.T) {
	fixedNow(t)
	output := filepath.Join(t.TempDir(), "cape.bin")

	text, err := runBuildCmd(t, &RootOptions{Format: "text", Verbose: true}, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, text, "EEPROM Contents:")
	assert.Contains(t, text, "Serial:       0325CAPE0001")
	assert.Contains(t, text, "Generated serial number 0325CAPE0001")
}

func TestBuildConfigAndFlags(t *testing.T) {
	fixedNow(t)
	dir := t.TempDir()
	config := filepath.Join(dir, "cape.yaml")
	require.NoError(t, os.WriteFile(config, []byte(
		"board_name: TEST-CAPE\nversion: \"0002\"\nserial_number: 0125TEST0007\nvdd_5v_ma: 100\n"), 0o644))
	output := filepath.Join(dir, "cape.bin")

	_, err := runBuildCmd(t, &RootOptions{Format: "text"},
		"-c", config, "-o", output, "--version", "0003", "--sys-5v-ma", "250")
	require.NoError(t, err)

	rec, err := capeid.Parse(output)
	require.NoError(t, err)
	assert.Equal(t, "TEST-CAPE", rec.BoardName)
	assert.Equal(t, "0003", rec.Version)
	assert.Equal(t, "0125TEST0007", rec.SerialNumber)
	assert.Equal(t, uint16(100), rec.VDD5V)
	assert.Equal(t, uint16(250), rec.SYS5V)
	assert.Equal(t, uint16(capeid.DefaultVDD3V3B), rec.VDD3V3B)
}

func TestBuildJSON(t *testing.T) {
	fixedNow(t)
	output := filepath.Join(t.TempDir(), "cape.bin")

	text, err := runBuildCmd(t, &RootOptions{Format: "json"}, "-o", output, "--serial", "4425CAPE0100")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BuildResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, output, resp.Data.Output)
	assert.Equal(t, capeid.ImageSize, resp.Data.Size)
	assert.Equal(t, "4425CAPE0100", resp.Data.Record.SerialNumber)
	assert.Equal(t, "0xAA5533EE", resp.Data.Record.Magic)
	assert.NotEmpty(t, resp.Data.Record.Pins)
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("version: \"12345\"\n"), 0o644))

	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{
			name:     "missing config",
			args:     []string{"-c", filepath.Join(dir, "missing.yaml")},
			wantCode: ErrCodeNotFound,
			wantExit: ExitCommandError,
		},
		{
			name:     "invalid config",
			args:     []string{"-c", badConfig},
			wantCode: ErrCodeInvalidInput,
			wantExit: ExitCommandError,
		},
		{
			name:     "board name too long",
			args:     []string{"--board-name", strings.Repeat("X", 33)},
			wantCode: ErrCodeInvalidInput,
			wantExit: ExitCommandError,
		},
		{
			name:     "unwritable output",
			args:     []string{"--serial", "0325CAPE0001", "-o", filepath.Join(dir, "no", "such", "dir", "cape.bin")},
			wantCode: ErrCodeWriteFailed,
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-o", filepath.Join(dir, "out.bin")}, tt.args...)
			text, err := runBuildCmd(t, &RootOptions{Format: "text"}, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, text, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestHexDump(t *testing.T) {
	data := []byte("\x00\x01ABCDEFGHIJKLMNOPQR")
	buf := &bytes.Buffer{}

	hexDump(buf, data, 96)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  0000: 00 01 41 42 43 44 45 46 47 48 49 4A 4B 4C 4D 4E  |..ABCDEFGHIJKLMN|", lines[0])
	assert.Equal(t, "  0010: 4F 50 51 52"+strings.Repeat(" ", 48-11)+" |OPQR|", lines[1])

	buf.Reset()
	hexDump(buf, data, 4)
	assert.Equal(t, "  0000: 00 01 41 42"+strings.Repeat(" ", 48-11)+" |..AB|\n", buf.String())
}
