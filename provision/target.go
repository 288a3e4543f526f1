package provision

import (
	"context"

	"github.com/bb-io-cape/go-capeid/eeprom"
)

// Target is an addressable bus carrying cape EEPROMs.
//
// Implementations: eeprom.BusTarget (any drivers.I2C bus), i2cdev.Target
// and sysfs.Target.
type Target interface {
	// ID returns the bus number used in reports
	ID() int

	// Probe returns nil when a device acknowledges at addr
	Probe(ctx context.Context, addr uint16) error

	// Bind acquires the storage endpoint at addr. The caller closes it.
	Bind(ctx context.Context, addr uint16) (eeprom.Device, error)
}

// Operator is the human in the loop. Every call blocks until answered.
type Operator interface {
	// ConfirmWriteUnlock asks the operator to remove write protection.
	// Nothing is written unless it returns true.
	ConfirmWriteUnlock(ctx context.Context, bus int, addr uint16) (bool, error)

	// ConfirmWriteLock asks the operator to restore write protection.
	ConfirmWriteLock(ctx context.Context, bus int, addr uint16) (bool, error)

	// EnterAddress asks for a device address after discovery found none.
	// Empty input selects fallback. An error abandons the session.
	EnterAddress(ctx context.Context, bus int, fallback uint16) (uint16, error)
}
