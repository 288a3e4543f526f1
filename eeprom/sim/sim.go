// Package sim simulates I2C EEPROMs on a bus for tests and dry runs.
//
// A Bus implements tinygo.org/x/drivers.I2C. Chips attached to it behave
// like 24Cxx parts with a word address pointer, a write-protect input and
// optional fault injection:
//
//	bus := sim.NewBus()
//	chip := bus.Attach(0x55, sim.NewChip(32*1024))
//	chip.SetWriteProtect(false)
//	target := eeprom.NewBusTarget(bus, 2, eeprom.WithWriteCycle(0))
package sim

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoDevice is returned when nothing acknowledges the address.
	ErrNoDevice = errors.New("no device acknowledged")

	// ErrWriteProtected is returned when data bytes are not acknowledged
	// because the write-protect input is asserted.
	ErrWriteProtected = errors.New("write protected: data not acknowledged")

	// ErrInjected is returned by injected write faults.
	ErrInjected = errors.New("injected bus fault")
)

// Bus is a simulated I2C bus.
type Bus struct {
	mu    sync.Mutex
	chips map[uint16]*Chip
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{chips: make(map[uint16]*Chip)}
}

// Attach places chip at addr and returns it.
func (b *Bus) Attach(addr uint16, chip *Chip) *Chip {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chips[addr] = chip
	return chip
}

// Detach removes the chip at addr.
func (b *Bus) Detach(addr uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.chips, addr)
}

// Chip returns the chip at addr, or nil.
func (b *Bus) Chip(addr uint16) *Chip {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chips[addr]
}

// Tx performs one transaction: write w, then read len(r) bytes.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	chip := b.chips[addr]
	b.mu.Unlock()

	if chip == nil {
		return fmt.Errorf("0x%02X: %w", addr, ErrNoDevice)
	}
	return chip.tx(w, r)
}

// Stats counts chip transactions.
type Stats struct {
	// Writes is the number of write transactions carrying data
	Writes int

	// Reads is the number of transactions that read data
	Reads int

	// MaxWriteLen is the longest data payload of a single write
	MaxWriteLen int

	// ProtectedWrites counts writes refused by write protection
	ProtectedWrites int
}

// Chip is a simulated EEPROM with a 2-byte word address.
// It starts write protected, like a cape with the WP jumper fitted.
type Chip struct {
	mu        sync.Mutex
	mem       []byte
	ptr       int
	protected bool
	stats     Stats

	corrupt   map[int]byte
	failWrite map[int]bool
}

// NewChip returns a blank (0xFF filled) chip of size bytes.
func NewChip(size int) *Chip {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &Chip{
		mem:       mem,
		protected: true,
		corrupt:   make(map[int]byte),
		failWrite: make(map[int]bool),
	}
}

// SetWriteProtect drives the write-protect input.
func (c *Chip) SetWriteProtect(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.protected = on
}

// WriteProtected reports the write-protect input.
func (c *Chip) WriteProtected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.protected
}

// CorruptRead makes reads of offset return the stored byte XOR mask.
// The stored byte is unchanged.
func (c *Chip) CorruptRead(offset int, mask byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.corrupt[offset] = mask
}

// FailWrite makes the write of offset fail with ErrInjected.
func (c *Chip) FailWrite(offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWrite[offset] = true
}

// Contents returns a copy of n bytes from offset 0.
func (c *Chip) Contents(n int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, n)
	copy(out, c.mem)
	return out
}

// Load stores data at offset 0 regardless of write protection.
func (c *Chip) Load(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.mem, data)
}

// Stats returns the transaction counters.
func (c *Chip) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Chip) tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case len(w) == 0:
	case len(w) == 1:
		return fmt.Errorf("incomplete word address")
	default:
		c.ptr = (int(w[0])<<8 | int(w[1])) % len(c.mem)
		if data := w[2:]; len(data) > 0 {
			if err := c.write(data); err != nil {
				return err
			}
		}
	}

	if len(r) > 0 {
		c.stats.Reads++
		for i := range r {
			r[i] = c.mem[c.ptr] ^ c.corrupt[c.ptr]
			c.ptr = (c.ptr + 1) % len(c.mem)
		}
	}
	return nil
}

func (c *Chip) write(data []byte) error {
	if c.protected {
		c.stats.ProtectedWrites++
		return ErrWriteProtected
	}
	if c.failWrite[c.ptr] {
		return fmt.Errorf("offset 0x%04X: %w", c.ptr, ErrInjected)
	}

	c.stats.Writes++
	if len(data) > c.stats.MaxWriteLen {
		c.stats.MaxWriteLen = len(data)
	}
	for _, b := range data {
		c.mem[c.ptr] = b
		c.ptr = (c.ptr + 1) % len(c.mem)
	}
	return nil
}
