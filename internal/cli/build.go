package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bb-io-cape/go-capeid/capeid"
)

// hexPreviewBytes is how much of a built image is dumped in text mode.
const hexPreviewBytes = 96

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Config       string
	Output       string
	BoardName    string
	Version      string
	Manufacturer string
	PartNumber   string
	Revision     string
	Serial       string
	VDD3V3B      uint16
	VDD5V        uint16
	SYS5V        uint16
	DCSupplied   uint16
}

// BuildResult is the JSON payload of a successful build.
type BuildResult struct {
	Output string     `json:"output"`
	Size   int        `json:"size"`
	Record RecordView `json:"record"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a cape EEPROM image",
		Long: `Build a 244-byte cape EEPROM image.

Fields start from the BB-IO-CAPE defaults, are overridden by the optional
description file (YAML or HCL) and finally by any field flags given. When
no serial number is set one is generated from the current ISO week.`,
		Example: `  capeid build
  capeid build -c cape.yaml -o cape.bin
  capeid build --version 0002 --serial 0325CAPE0042`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Config, "config", "c", "", "description file (.yaml, .yml, .hcl, .json)")
	f.StringVarP(&opts.Output, "output", "o", "cape_eeprom.bin", "output image path")
	f.StringVar(&opts.BoardName, "board-name", "", "board name (max 32 chars)")
	f.StringVar(&opts.Version, "version", "", "hardware version (4 chars)")
	f.StringVar(&opts.Manufacturer, "manufacturer", "", "manufacturer (max 16 chars)")
	f.StringVar(&opts.PartNumber, "part-number", "", "part number (max 16 chars)")
	f.StringVar(&opts.Revision, "eeprom-rev", "", "EEPROM layout revision (2 chars)")
	f.StringVar(&opts.Serial, "serial", "", "serial number (max 12 chars)")
	f.Uint16Var(&opts.VDD3V3B, "vdd-3v3b-ma", 0, "current drawn from VDD_3V3B in mA")
	f.Uint16Var(&opts.VDD5V, "vdd-5v-ma", 0, "current drawn from VDD_5V in mA")
	f.Uint16Var(&opts.SYS5V, "sys-5v-ma", 0, "current drawn from SYS_5V in mA")
	f.Uint16Var(&opts.DCSupplied, "dc-supplied-ma", 0, "current supplied to DC in mA")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rec := capeid.DefaultRecord()
	if opts.Config != "" {
		out.VerboseLog("Loading description from %s", opts.Config)
		loaded, err := capeid.LoadFile(opts.Config)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return out.fail(ExitCommandError, ErrCodeNotFound, "description file not found", err)
			}
			return out.fail(ExitCommandError, ErrCodeInvalidInput, "invalid description", err)
		}
		rec = loaded
	}

	applyBuildFlags(cmd, opts, rec)

	if rec.SerialNumber == "" {
		serial, err := capeid.GenerateSerial(now(), capeid.DefaultAssemblyCode, 1)
		if err != nil {
			return out.fail(ExitCommandError, ErrCodeInvalidInput, "cannot generate serial number", err)
		}
		out.VerboseLog("Generated serial number %s", serial)
		rec.SerialNumber = serial
	}

	img, err := capeid.Build(rec)
	if err != nil {
		return out.fail(ExitCommandError, ErrCodeInvalidInput, "invalid record", err)
	}
	if err := writeImage(opts.Output, img); err != nil {
		return out.fail(ExitFailure, ErrCodeWriteFailed, "cannot write image", err)
	}

	view := newRecordView(rec)
	if opts.Format == "json" {
		return out.Success(BuildResult{Output: opts.Output, Size: len(img), Record: view})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generated EEPROM image: %s (%d bytes)\n", opts.Output, len(img))
	if opts.Verbose {
		fmt.Fprintf(&b, "\n%s\n", view)
	}
	fmt.Fprintf(&b, "\nFirst %d bytes (hex):\n", hexPreviewBytes)
	hexDump(&b, img, hexPreviewBytes)
	return out.Success(strings.TrimRight(b.String(), "\n"))
}

// applyBuildFlags copies the field flags the user set onto rec.
func applyBuildFlags(cmd *cobra.Command, opts *BuildOptions, rec *capeid.Record) {
	f := cmd.Flags()
	strs := []struct {
		flag string
		src  string
		dst  *string
	}{
		{"board-name", opts.BoardName, &rec.BoardName},
		{"version", opts.Version, &rec.Version},
		{"manufacturer", opts.Manufacturer, &rec.Manufacturer},
		{"part-number", opts.PartNumber, &rec.PartNumber},
		{"eeprom-rev", opts.Revision, &rec.EEPROMRevision},
		{"serial", opts.Serial, &rec.SerialNumber},
	}
	for _, s := range strs {
		if f.Changed(s.flag) {
			*s.dst = s.src
		}
	}

	nums := []struct {
		flag string
		src  uint16
		dst  *uint16
	}{
		{"vdd-3v3b-ma", opts.VDD3V3B, &rec.VDD3V3B},
		{"vdd-5v-ma", opts.VDD5V, &rec.VDD5V},
		{"sys-5v-ma", opts.SYS5V, &rec.SYS5V},
		{"dc-supplied-ma", opts.DCSupplied, &rec.DCSupplied},
	}
	for _, n := range nums {
		if f.Changed(n.flag) {
			*n.dst = n.src
		}
	}
}

func writeImage(path string, img []byte) error {
	return os.WriteFile(path, img, 0o644)
}
