package eeprom

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned for transfers past the end of the chip.
var ErrOutOfRange = errors.New("transfer past end of EEPROM")

// TransferError represents a failed bus transaction.
type TransferError struct {
	// Op is "read", "write" or "probe"
	Op string

	// Address is the bus address of the chip
	Address uint16

	// Offset is the word address of the failed byte
	Offset int64

	Err error
}

func (e *TransferError) Error() string {
	if e.Op == "probe" {
		return fmt.Sprintf("probe 0x%02X: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("%s 0x%02X at offset 0x%04X: %v", e.Op, e.Address, e.Offset, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// IsTransferError returns true if the error is a TransferError.
func IsTransferError(err error) bool {
	var te *TransferError
	return errors.As(err, &te)
}
