package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bb-io-cape/go-capeid/capeid"
)

// SerialOptions holds flags for the serial command.
type SerialOptions struct {
	*RootOptions
	Assembly string
	Board    int
	Date     string
}

// SerialResult is the JSON payload of the serial command.
type SerialResult struct {
	Serial string `json:"serial"`
}

func (r SerialResult) String() string { return r.Serial }

// NewSerialCommand creates the serial command.
func NewSerialCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SerialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serial",
		Short: "Generate a serial number",
		Long: `Generate a serial number of the form WWYYAAAAnnnn: ISO week, two-digit
ISO year, 4-character assembly code and 4-digit board number.`,
		Example: `  capeid serial --board 42
  capeid serial --date 2025-01-15 --assembly IOC1 --board 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSerial(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Assembly, "assembly", capeid.DefaultAssemblyCode, "assembly code (4 chars)")
	cmd.Flags().IntVar(&opts.Board, "board", 1, "board number (0-9999)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "manufacture date YYYY-MM-DD (default today)")

	return cmd
}

func runSerial(cmd *cobra.Command, opts *SerialOptions) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	t := now()
	if opts.Date != "" {
		d, err := time.Parse(time.DateOnly, opts.Date)
		if err != nil {
			return out.fail(ExitCommandError, ErrCodeInvalidInput, "invalid date", err)
		}
		t = d
	}

	serial, err := capeid.GenerateSerial(t, opts.Assembly, opts.Board)
	if err != nil {
		return out.fail(ExitCommandError, ErrCodeInvalidInput, "cannot generate serial number", err)
	}
	return out.Success(SerialResult{Serial: serial})
}
