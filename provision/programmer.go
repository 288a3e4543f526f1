package provision

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bb-io-cape/go-capeid/capeid"
	"github.com/bb-io-cape/go-capeid/eeprom"
)

// Programmer provisions cape identification EEPROMs on a target bus.
// It runs one session at a time; a session is strictly sequential.
type Programmer struct {
	target   Target
	operator Operator
	config   Config
}

// New creates a new Programmer for target, asking op for confirmations.
//
// Example:
//
//	target := &i2cdev.Target{Bus: 2}
//	prog := provision.New(target, operator.NewTerminal(os.Stdin, os.Stdout),
//	    provision.WithProgressCallback(progressFunc),
//	    provision.WithLogger(slog.Default()),
//	)
func New(target Target, op Operator, opts ...Option) *Programmer {
	if target == nil {
		panic("target cannot be nil")
	}
	if op == nil {
		panic("operator cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		target:   target,
		operator: op,
		config:   cfg,
	}
}

// Provision performs the complete provisioning sequence:
//  1. Discover the device address (probe, else ask the operator)
//  2. Wait for the operator to remove write protection
//  3. Bind the storage endpoint, retrying once
//  4. Write the image one byte at a time
//  5. Read it back and compare byte for byte
//  6. Wait for the operator to restore write protection
//
// The returned Session is never nil. On failure it is in StateFailed and
// holds the same error that is returned. The context is honoured until
// writing starts; after that the session runs to completion.
//
// Example:
//
//	img, _ := os.ReadFile("bb-io-cape.eeprom")
//	sess, err := prog.Provision(context.Background(), img)
func (p *Programmer) Provision(ctx context.Context, image []byte) (*Session, error) {
	s := newSession(p.target.ID(), image)

	if len(image) == 0 {
		return p.abort(s, &WriteError{Offset: 0, Err: ErrEmptyImage})
	}
	if p.config.ImageCheck {
		if _, err := capeid.Decode(image); err != nil {
			return p.abort(s, fmt.Errorf("invalid cape image: %w", err))
		}
	}

	// Discovering
	p.reportProgress(s, 0)
	addr, err := p.discover(ctx, s)
	if err != nil {
		return p.abort(s, err)
	}
	s.Address = addr

	p.logInfo("cape EEPROM selected",
		"bus", s.Bus,
		"address", fmt.Sprintf("0x%02X", addr),
	)

	// Awaiting write unlock
	p.transition(s, StateAwaitingWriteUnlock, 0)
	if err := p.confirm(ctx, s, p.operator.ConfirmWriteUnlock); err != nil {
		return p.abort(s, err)
	}

	// Device binding
	if err := ctx.Err(); err != nil {
		return p.abort(s, fmt.Errorf("cancelled: %w", err))
	}
	p.transition(s, StateDeviceBinding, 2)
	dev, err := p.bind(ctx, s)
	if err != nil {
		return p.abort(s, err)
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := dev.Close(); err != nil {
			p.logError("release device failed", "address", fmt.Sprintf("0x%02X", addr), "error", err)
		}
	}
	defer release()

	// Writing
	p.transition(s, StateWriting, 5)
	if err := p.write(s, dev); err != nil {
		return p.abort(s, err)
	}

	// Verifying
	p.transition(s, StateVerifying, 90)
	if err := p.verify(s, dev); err != nil {
		return p.abort(s, err)
	}
	s.Outcome = OutcomeVerified
	release()

	p.logInfo("image verified",
		"bytes", len(image),
		"elapsed", time.Since(s.Started).String(),
	)

	// Awaiting write lock
	p.transition(s, StateAwaitingWriteLock, 95)
	if err := p.confirm(ctx, s, p.operator.ConfirmWriteLock); err != nil {
		return p.abort(s, err)
	}

	s.finish()
	p.reportProgress(s, 100)

	p.logInfo("provisioning complete",
		"bus", s.Bus,
		"address", fmt.Sprintf("0x%02X", addr),
		"elapsed", s.Elapsed.String(),
	)

	return s, nil
}

// Discover probes the candidate addresses in order and returns the first
// that responds. It does not consult the operator.
func (p *Programmer) Discover(ctx context.Context) (uint16, bool, error) {
	for _, addr := range p.config.Candidates {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		if err := p.target.Probe(ctx, addr); err != nil {
			p.logDebug("no response", "address", fmt.Sprintf("0x%02X", addr), "error", err)
			continue
		}
		return addr, true, nil
	}
	return 0, false, nil
}

func (p *Programmer) discover(ctx context.Context, s *Session) (uint16, error) {
	if p.config.FixedAddress {
		p.logDebug("address given, skipping discovery", "address", fmt.Sprintf("0x%02X", p.config.Address))
		return p.config.Address, nil
	}

	addr, found, err := p.Discover(ctx)
	if err != nil {
		return 0, fmt.Errorf("cancelled: %w", err)
	}
	if found {
		return addr, nil
	}

	p.logInfo("no cape EEPROM responded, asking operator", "bus", s.Bus)

	addr, err = p.operator.EnterAddress(ctx, s.Bus, p.config.FallbackAddress)
	if err != nil {
		return 0, &DeviceNotFoundError{
			Bus:        s.Bus,
			Candidates: p.config.Candidates,
			Err:        err,
		}
	}
	if addr > eeprom.MaxAddress {
		return 0, &DeviceNotFoundError{
			Bus:        s.Bus,
			Candidates: p.config.Candidates,
			Err:        fmt.Errorf("address 0x%X beyond 7-bit range", addr),
		}
	}
	return addr, nil
}

// confirm blocks on an operator confirmation for the current state.
func (p *Programmer) confirm(ctx context.Context, s *Session,
	ask func(context.Context, int, uint16) (bool, error)) error {
	state := s.State
	ok, err := ask(ctx, s.Bus, s.Address)
	if err != nil {
		return &OperatorAbortError{State: state, Err: err}
	}
	if !ok {
		return &OperatorAbortError{State: state}
	}
	return nil
}

// bind acquires the device, retrying once after the configured delay.
func (p *Programmer) bind(ctx context.Context, s *Session) (eeprom.Device, error) {
	dev, err := p.target.Bind(ctx, s.Address)
	if err == nil {
		return dev, nil
	}

	p.logInfo("bind failed, retrying",
		"address", fmt.Sprintf("0x%02X", s.Address),
		"delay", p.config.BindRetryDelay.String(),
		"error", err,
	)

	timer := time.NewTimer(p.config.BindRetryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, fmt.Errorf("cancelled: %w", ctx.Err())
	}

	dev, err = p.target.Bind(ctx, s.Address)
	if err != nil {
		return nil, &DeviceBindError{
			Bus:      s.Bus,
			Address:  s.Address,
			Attempts: 2,
			Err:      err,
		}
	}
	return dev, nil
}

// write transfers the image from offset 0, one byte per write.
func (p *Programmer) write(s *Session, dev eeprom.Device) error {
	total := len(s.Image)
	for i := 0; i < total; i++ {
		n, err := dev.WriteAt(s.Image[i:i+1], int64(i))
		if err == nil && n != 1 {
			err = io.ErrShortWrite
		}
		if err != nil {
			p.logError("write failed", "offset", i, "error", err)
			return &WriteError{Offset: int64(i), Err: err}
		}
		s.Written = i + 1

		p.reportProgress(s, 5+float64(i+1)/float64(total)*85)
	}
	return nil
}

// verify reads back the whole image and compares it byte for byte.
func (p *Programmer) verify(s *Session, dev eeprom.Device) error {
	back := make([]byte, len(s.Image))
	n, err := dev.ReadAt(back, 0)
	if n < len(back) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return &ReadBackError{Offset: int64(n), Err: err}
	}

	var mismatch *VerificationMismatchError
	for i := range s.Image {
		if back[i] == s.Image[i] {
			continue
		}
		if mismatch == nil {
			mismatch = &VerificationMismatchError{
				Offset:   i,
				Expected: s.Image[i],
				Actual:   back[i],
			}
		}
		mismatch.Count++
	}
	if mismatch != nil {
		p.logError("verification failed",
			"offset", mismatch.Offset,
			"expected", fmt.Sprintf("0x%02X", mismatch.Expected),
			"actual", fmt.Sprintf("0x%02X", mismatch.Actual),
			"count", mismatch.Count,
		)
		return mismatch
	}
	return nil
}

func (p *Programmer) transition(s *Session, state State, percentage float64) {
	p.logDebug("state", "from", s.State.String(), "to", state.String())
	s.enter(state)
	p.reportProgress(s, percentage)
}

func (p *Programmer) abort(s *Session, err error) (*Session, error) {
	p.logError("provisioning failed", "state", s.State.String(), "error", err)
	s.fail(err)
	p.reportProgress(s, 0)
	return s, err
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(s *Session, percentage float64) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(Progress{
			State:      s.State,
			Offset:     s.Written,
			Total:      len(s.Image),
			Percentage: percentage,
			Elapsed:    time.Since(s.Started),
		})
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
