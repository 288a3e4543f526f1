package operator

import (
	"bufio"
	"fmt"
	"io"

	"github.com/platinasystems/liner"
)

// Prompter prints a prompt and returns one line of input.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// suggester is implemented by prompters that can pre-fill the input line.
type suggester interface {
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
}

// LinePrompter reads lines from any reader. It serves scripts, pipes and
// terminals liner does not support.
type LinePrompter struct {
	scanner *bufio.Scanner
	w       io.Writer
}

// NewLinePrompter prompts on w (which may be nil) and reads from r.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(r), w: w}
}

// Prompt returns the next line, or io.EOF at end of input.
func (p *LinePrompter) Prompt(prompt string) (string, error) {
	if p.w != nil {
		fmt.Fprint(p.w, prompt)
	}
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}
	err := p.scanner.Err()
	if err == nil {
		err = io.EOF
	}
	return "", err
}

// Close does nothing.
func (p *LinePrompter) Close() error { return nil }

// Liner is a line editing prompter for interactive terminals. Ctrl-C
// aborts the prompt with liner.ErrPromptAborted.
type Liner struct {
	s *liner.State
}

// NewLiner puts the terminal in raw mode until Close.
func NewLiner() *Liner {
	s := liner.NewLiner()
	s.SetCtrlCAborts(true)
	return &Liner{s: s}
}

func (l *Liner) Prompt(prompt string) (string, error) {
	return l.s.Prompt(prompt)
}

func (l *Liner) PromptWithSuggestion(prompt, text string, pos int) (string, error) {
	return l.s.PromptWithSuggestion(prompt, text, pos)
}

// Close restores the terminal mode.
func (l *Liner) Close() error {
	return l.s.Close()
}
