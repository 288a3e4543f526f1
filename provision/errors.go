package provision

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyImage is wrapped by the WriteError returned for an empty image.
var ErrEmptyImage = errors.New("image is empty")

// DeviceNotFoundError indicates that no candidate address responded and no
// address was entered manually.
type DeviceNotFoundError struct {
	Bus        int
	Candidates []uint16

	// Err is the reason manual entry was abandoned
	Err error
}

func (e *DeviceNotFoundError) Error() string {
	addrs := make([]string, len(e.Candidates))
	for i, a := range e.Candidates {
		addrs[i] = fmt.Sprintf("0x%02X", a)
	}
	msg := fmt.Sprintf("no cape EEPROM found on bus %d (probed %s)", e.Bus, strings.Join(addrs, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeviceNotFoundError) Unwrap() error {
	return e.Err
}

// DeviceBindError indicates that the storage endpoint could not be bound
// after the retry.
type DeviceBindError struct {
	Bus      int
	Address  uint16
	Attempts int
	Err      error
}

func (e *DeviceBindError) Error() string {
	return fmt.Sprintf("bind EEPROM 0x%02X on bus %d failed after %d attempts: %v",
		e.Address, e.Bus, e.Attempts, e.Err)
}

func (e *DeviceBindError) Unwrap() error {
	return e.Err
}

// WriteError indicates that a byte of the image could not be written.
type WriteError struct {
	Offset int64
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed at offset 0x%04X: %v", e.Offset, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ReadBackError indicates that the written image could not be read back.
type ReadBackError struct {
	Offset int64
	Err    error
}

func (e *ReadBackError) Error() string {
	return fmt.Sprintf("read back failed at offset 0x%04X: %v", e.Offset, e.Err)
}

func (e *ReadBackError) Unwrap() error {
	return e.Err
}

// VerificationMismatchError indicates that the read-back differs from the
// image. Offset, Expected and Actual describe the first differing byte;
// Count is the number of differing bytes.
type VerificationMismatchError struct {
	Offset   int
	Expected byte
	Actual   byte
	Count    int
}

func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("verification mismatch at offset 0x%04X: expected 0x%02X, got 0x%02X (%d bytes differ)",
		e.Offset, e.Expected, e.Actual, e.Count)
}

// OperatorAbortError indicates that the operator declined a confirmation.
type OperatorAbortError struct {
	// State is the state the session was waiting in
	State State

	// Err is set when the operator channel failed rather than declined
	Err error
}

func (e *OperatorAbortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("operator aborted during %s: %v", e.State, e.Err)
	}
	return fmt.Sprintf("operator aborted during %s", e.State)
}

func (e *OperatorAbortError) Unwrap() error {
	return e.Err
}
