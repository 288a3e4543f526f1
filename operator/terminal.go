// Package operator asks the person provisioning a cape for confirmations
// and addresses.
//
// Terminal prompts interactively, with line editing when stdin and stdout
// are terminals. Auto answers everything with yes for unattended runs
// where write protection is handled by a fixture.
package operator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/bb-io-cape/go-capeid/eeprom"
	"github.com/bb-io-cape/go-capeid/provision"
)

// ErrQuit is returned when the operator gives up on address entry.
var ErrQuit = errors.New("operator quit")

var (
	_ provision.Operator = (*Terminal)(nil)
	_ provision.Operator = (*Auto)(nil)
)

// Terminal is a provision.Operator reading answers from a Prompter.
type Terminal struct {
	p Prompter
	w io.Writer
}

// New returns a Terminal prompting through p and printing notices to w.
func New(p Prompter, w io.Writer) *Terminal {
	if w == nil {
		w = io.Discard
	}
	return &Terminal{p: p, w: w}
}

// NewTerminal uses liner when in and out are terminals and a
// LinePrompter otherwise.
func NewTerminal(in, out *os.File) *Terminal {
	if isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd()) {
		return New(NewLiner(), out)
	}
	return New(NewLinePrompter(in, out), out)
}

// Close releases the prompter.
func (t *Terminal) Close() error {
	return t.p.Close()
}

// ConfirmWriteUnlock asks for write protection to be removed.
func (t *Terminal) ConfirmWriteUnlock(ctx context.Context, bus int, addr uint16) (bool, error) {
	fmt.Fprintf(t.w, "Cape EEPROM at 0x%02X on bus %d is ready to program.\n", addr, bus)
	return t.confirm(ctx, "Remove write protection (WP jumper) and continue? [y/N] ")
}

// ConfirmWriteLock asks for write protection to be restored.
func (t *Terminal) ConfirmWriteLock(ctx context.Context, bus int, addr uint16) (bool, error) {
	fmt.Fprintf(t.w, "Cape EEPROM at 0x%02X on bus %d verified.\n", addr, bus)
	return t.confirm(ctx, "Write protection restored? [y/N] ")
}

// EnterAddress asks for a hex address, offering fallback.
func (t *Terminal) EnterAddress(ctx context.Context, bus int, fallback uint16) (uint16, error) {
	fmt.Fprintf(t.w, "No cape EEPROM responded on bus %d.\n", bus)
	suggestion := fmt.Sprintf("0x%02X", fallback)
	prompt := fmt.Sprintf("EEPROM address (q to quit) [%s]: ", suggestion)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		var line string
		var err error
		if s, ok := t.p.(suggester); ok {
			line, err = s.PromptWithSuggestion(prompt, suggestion, -1)
		} else {
			line, err = t.p.Prompt(prompt)
		}
		if err != nil {
			return 0, err
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			return fallback, nil
		case "q", "quit":
			return 0, ErrQuit
		}

		addr, err := ParseAddress(line)
		if err != nil {
			fmt.Fprintf(t.w, "%v\n", err)
			continue
		}
		return addr, nil
	}
}

func (t *Terminal) confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		line, err := t.p.Prompt(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.w, "Please answer y or n.")
	}
}

// ParseAddress parses a 7-bit bus address written in hex, with or without
// a 0x prefix.
func ParseAddress(s string) (uint16, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	v, err := strconv.ParseUint(h, 16, 8)
	if err != nil || v > eeprom.MaxAddress {
		return 0, fmt.Errorf("invalid address %q: want hex 0x00-0x%02X", s, eeprom.MaxAddress)
	}
	return uint16(v), nil
}

// Auto confirms every step and accepts the fallback address. Notices are
// printed to W when it is set.
type Auto struct {
	W io.Writer
}

func (a *Auto) notice(format string, args ...interface{}) {
	if a.W != nil {
		fmt.Fprintf(a.W, format, args...)
	}
}

func (a *Auto) ConfirmWriteUnlock(ctx context.Context, bus int, addr uint16) (bool, error) {
	a.notice("Programming EEPROM 0x%02X on bus %d without confirmation.\n", addr, bus)
	return true, nil
}

func (a *Auto) ConfirmWriteLock(ctx context.Context, bus int, addr uint16) (bool, error) {
	a.notice("Restore write protection on EEPROM 0x%02X.\n", addr)
	return true, nil
}

func (a *Auto) EnterAddress(ctx context.Context, bus int, fallback uint16) (uint16, error) {
	a.notice("No cape EEPROM responded on bus %d, using 0x%02X.\n", bus, fallback)
	return fallback, nil
}
