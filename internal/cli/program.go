package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/bb-io-cape/go-capeid/capeid"
	"github.com/bb-io-cape/go-capeid/eeprom"
	"github.com/bb-io-cape/go-capeid/eeprom/sim"
	"github.com/bb-io-cape/go-capeid/i2cdev"
	"github.com/bb-io-cape/go-capeid/operator"
	"github.com/bb-io-cape/go-capeid/provision"
	"github.com/bb-io-cape/go-capeid/sysfs"
)

// Access methods for the program command.
const (
	MethodI2C   = "i2c"
	MethodSysfs = "sysfs"
)

// ProgramOptions holds flags for the program command.
type ProgramOptions struct {
	*RootOptions
	Bus            int
	Method         string
	Address        string
	Yes            bool
	Simulate       bool
	SysfsRoot      string
	DeviceType     string
	BindRetryDelay time.Duration
	NoImageCheck   bool
}

// ProgramResult is the JSON payload of a completed session.
type ProgramResult struct {
	Bus     int      `json:"bus"`
	Address string   `json:"address"`
	Bytes   int      `json:"bytes"`
	Outcome string   `json:"outcome"`
	States  []string `json:"states"`
	Elapsed string   `json:"elapsed"`
}

func (r ProgramResult) String() string {
	return fmt.Sprintf("Programmed and verified %d bytes at %s on bus %d in %s",
		r.Bytes, r.Address, r.Bus, r.Elapsed)
}

// NewProgramCommand creates the program command.
func NewProgramCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProgramOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "program IMAGE",
		Short: "Write an image to a cape EEPROM",
		Long: `Write an image to the cape EEPROM and verify it.

The EEPROM is found by probing 0x54-0x57 on the bus; when none responds
the address is asked for. The operator is asked to remove write
protection before writing and to restore it after verification.

Access methods:
  i2c    direct transfers on /dev/i2c-N
  sysfs  the kernel at24 driver under /sys/bus/i2c/devices`,
		Example: `  capeid program cape_eeprom.bin
  capeid program --bus 1 --method sysfs cape_eeprom.bin
  capeid program --simulate --yes cape_eeprom.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Bus, "bus", 2, "I2C bus number")
	f.StringVar(&opts.Method, "method", MethodI2C, "access method (i2c|sysfs)")
	f.StringVar(&opts.Address, "address", "", "EEPROM address in hex, skips discovery")
	f.BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")
	f.BoolVar(&opts.Simulate, "simulate", false, "program a simulated EEPROM at 0x54")
	f.StringVar(&opts.SysfsRoot, "sysfs-root", sysfs.DefaultRoot, "sysfs I2C devices directory")
	f.StringVar(&opts.DeviceType, "device-type", sysfs.DefaultDeviceType, "at24 device type to register")
	f.DurationVar(&opts.BindRetryDelay, "bind-retry-delay", 500*time.Millisecond, "delay before retrying a failed bind")
	f.BoolVar(&opts.NoImageCheck, "no-image-check", false, "write images that do not decode as cape images")

	return cmd
}

func runProgram(cmd *cobra.Command, opts *ProgramOptions, path string) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Prompts and progress go to stdout in text mode and stay off the
	// JSON stream otherwise.
	console := cmd.OutOrStdout()
	if opts.Format == "json" {
		console = cmd.ErrOrStderr()
	}

	img, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out.fail(ExitCommandError, ErrCodeNotFound, "image not found", err)
		}
		return out.fail(ExitCommandError, ErrCodeGeneric, "cannot read image", err)
	}

	provOpts := []provision.Option{
		provision.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())),
		provision.WithBindRetryDelay(opts.BindRetryDelay),
		provision.WithImageCheck(!opts.NoImageCheck),
		provision.WithProgressCallback(stateReporter(console)),
	}
	if opts.Address != "" {
		addr, err := operator.ParseAddress(opts.Address)
		if err != nil {
			return out.fail(ExitCommandError, ErrCodeInvalidInput, "invalid --address", err)
		}
		provOpts = append(provOpts, provision.WithAddress(addr))
	}

	var op provision.Operator
	if opts.Yes {
		op = &operator.Auto{W: console}
	} else {
		term := newTerminal(cmd.InOrStdin(), console)
		defer func() { _ = term.Close() }()
		op = term
	}

	var target provision.Target
	switch {
	case opts.Simulate:
		bus := sim.NewBus()
		chip := bus.Attach(eeprom.DefaultAddress, sim.NewChip(int(eeprom.DefaultSize)))
		target = eeprom.NewBusTarget(bus, opts.Bus, eeprom.WithWriteCycle(0))
		op = &simulatedFixture{Operator: op, chip: chip}
		out.VerboseLog("Simulating write-protected EEPROM at 0x%02X", eeprom.DefaultAddress)
	case opts.Method == MethodI2C:
		target = &i2cdev.Target{Bus: opts.Bus}
	case opts.Method == MethodSysfs:
		target = &sysfs.Target{Bus: opts.Bus, Root: opts.SysfsRoot, DeviceType: opts.DeviceType}
	default:
		return out.fail(ExitCommandError, ErrCodeInvalidInput,
			fmt.Sprintf("invalid --method %q: must be %s or %s", opts.Method, MethodI2C, MethodSysfs), nil)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sess, err := provision.New(target, op, provOpts...).Provision(ctx, img)
	if err != nil {
		exitCode, code, message := classifyProvisionError(err)
		return out.fail(exitCode, code, message, err)
	}

	states := make([]string, 0, len(sess.History()))
	for _, st := range sess.History() {
		states = append(states, st.String())
	}
	return out.Success(ProgramResult{
		Bus:     sess.Bus,
		Address: fmt.Sprintf("0x%02X", sess.Address),
		Bytes:   sess.Written,
		Outcome: sess.Outcome.String(),
		States:  states,
		Elapsed: sess.Elapsed.Round(time.Millisecond).String(),
	})
}

// newTerminal prompts on the real terminal when stdin is a file and
// line by line otherwise.
func newTerminal(in io.Reader, out io.Writer) *operator.Terminal {
	if f, ok := in.(*os.File); ok {
		if o, ok := out.(*os.File); ok {
			return operator.NewTerminal(f, o)
		}
	}
	return operator.New(operator.NewLinePrompter(in, out), out)
}

// stateReporter prints one line per state change.
func stateReporter(w io.Writer) provision.ProgressCallback {
	last := provision.State(-1)
	return func(p provision.Progress) {
		if p.State == last {
			return
		}
		last = p.State
		fmt.Fprintf(w, "[%s] %5.1f%% %d/%d bytes\n", p.State, p.Percentage, p.Offset, p.Total)
	}
}

// classifyProvisionError maps a session error to an exit code, error code
// and message.
func classifyProvisionError(err error) (int, string, string) {
	var (
		notFound *provision.DeviceNotFoundError
		bind     *provision.DeviceBindError
		write    *provision.WriteError
		readBack *provision.ReadBackError
		mismatch *provision.VerificationMismatchError
		abort    *provision.OperatorAbortError
		size     *capeid.ImageSizeError
	)

	switch {
	case errors.Is(err, provision.ErrEmptyImage):
		return ExitCommandError, ErrCodeInvalidInput, "image is empty"
	case errors.As(err, &size), errors.Is(err, capeid.ErrBadMagic):
		return ExitCommandError, ErrCodeInvalidInput, "not a cape EEPROM image"
	case errors.As(err, &notFound):
		return ExitFailure, ErrCodeDeviceNotFound, "EEPROM not found"
	case errors.As(err, &bind):
		return ExitFailure, ErrCodeBindFailed, "cannot bind EEPROM"
	case errors.As(err, &write):
		return ExitFailure, ErrCodeDeviceWrite, "write failed"
	case errors.As(err, &readBack), errors.As(err, &mismatch):
		return ExitFailure, ErrCodeVerifyFailed, "verification failed"
	case errors.As(err, &abort):
		return ExitFailure, ErrCodeAborted, "aborted"
	}
	return ExitFailure, ErrCodeGeneric, "provisioning failed"
}

// simulatedFixture plays the write-protect jumper for a simulated chip:
// protection is lifted and restored as the operator confirms.
type simulatedFixture struct {
	provision.Operator
	chip *sim.Chip
}

func (f *simulatedFixture) ConfirmWriteUnlock(ctx context.Context, bus int, addr uint16) (bool, error) {
	ok, err := f.Operator.ConfirmWriteUnlock(ctx, bus, addr)
	if ok && err == nil {
		f.chip.SetWriteProtect(false)
	}
	return ok, err
}

func (f *simulatedFixture) ConfirmWriteLock(ctx context.Context, bus int, addr uint16) (bool, error) {
	ok, err := f.Operator.ConfirmWriteLock(ctx, bus, addr)
	if ok && err == nil {
		f.chip.SetWriteProtect(true)
	}
	return ok, err
}
