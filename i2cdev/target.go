package i2cdev

import (
	"context"
	"fmt"

	"github.com/bb-io-cape/go-capeid/eeprom"
)

// Target provisions cape EEPROMs on /dev/i2c-Bus. The adapter is opened
// for each probe and held by each bound device until it is closed.
type Target struct {
	Bus int

	// Options configure bound chips
	Options []eeprom.ChipOption

	open func(int) (*Bus, error)
}

// ID returns the adapter number.
func (t *Target) ID() int { return t.Bus }

func (t *Target) openBus() (*Bus, error) {
	if t.open != nil {
		return t.open(t.Bus)
	}
	return Open(t.Bus)
}

// Probe checks for a device acknowledging at addr.
func (t *Target) Probe(ctx context.Context, addr uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bus, err := t.openBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	return eeprom.Probe(bus, addr)
}

// Bind opens the adapter and returns the chip at addr. Closing the
// returned device closes the adapter.
func (t *Target) Bind(ctx context.Context, addr uint16) (eeprom.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bus, err := t.openBus()
	if err != nil {
		return nil, err
	}
	if err := eeprom.Probe(bus, addr); err != nil {
		bus.Close()
		return nil, fmt.Errorf("bind: %w", err)
	}
	return &device{Chip: eeprom.NewChip(bus, addr, t.Options...), bus: bus}, nil
}

type device struct {
	*eeprom.Chip
	bus *Bus
}

func (d *device) Close() error {
	return d.bus.Close()
}
