package eeprom

import (
	"context"

	"tinygo.org/x/drivers"
)

// BusTarget provisions chips on an already open drivers.I2C bus.
// The bus stays open across sessions; bound chips do not close it.
type BusTarget struct {
	bus  drivers.I2C
	id   int
	opts []ChipOption
}

// NewBusTarget wraps bus, identified as bus number id in reports.
func NewBusTarget(bus drivers.I2C, id int, opts ...ChipOption) *BusTarget {
	if bus == nil {
		panic("bus cannot be nil")
	}
	return &BusTarget{bus: bus, id: id, opts: opts}
}

// ID returns the bus number.
func (t *BusTarget) ID() int { return t.id }

// Probe checks for a device acknowledging at addr.
func (t *BusTarget) Probe(ctx context.Context, addr uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Probe(t.bus, addr)
}

// Bind returns a chip handle at addr after checking that it responds.
func (t *BusTarget) Bind(ctx context.Context, addr uint16) (Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Probe(t.bus, addr); err != nil {
		return nil, err
	}
	return NewChip(t.bus, addr, t.opts...), nil
}
