// Command capeid builds, inspects and programs cape identification
// EEPROMs.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bb-io-cape/go-capeid/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// ExitErrors have already been reported by the command
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
