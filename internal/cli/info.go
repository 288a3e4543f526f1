package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bb-io-cape/go-capeid/capeid"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info IMAGE",
		Short: "Decode a cape EEPROM image",
		Long: `Decode a cape EEPROM image file and print its fields, used pins and
power budget.

The image may be a built file or a dump of the EEPROM; bytes past the
first 244 are ignored.`,
		Example: `  capeid info cape_eeprom.bin
  capeid info --format json /sys/bus/i2c/devices/2-0054/eeprom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runInfo(cmd *cobra.Command, opts *RootOptions, path string) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	img, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out.fail(ExitCommandError, ErrCodeNotFound, "image not found", err)
		}
		return out.fail(ExitCommandError, ErrCodeGeneric, "cannot read image", err)
	}
	if len(img) > capeid.ImageSize {
		out.VerboseLog("Ignoring %d bytes past the image", len(img)-capeid.ImageSize)
		img = img[:capeid.ImageSize]
	}

	rec, err := capeid.Decode(img)
	if err != nil {
		return out.fail(ExitCommandError, ErrCodeInvalidInput, "invalid image", err)
	}

	return out.Success(newRecordView(rec))
}
