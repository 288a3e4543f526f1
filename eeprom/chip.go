package eeprom

import (
	"fmt"
	"io"
	"time"

	"tinygo.org/x/drivers"
)

// Device is a bound EEPROM: random access to its bytes plus release of the
// underlying handle.
type Device interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// ChipConfig holds the chip geometry and timing.
type ChipConfig struct {
	// Size is the capacity in bytes
	Size int64

	// AddressWidth is the word address length in bytes (1 or 2)
	AddressWidth int

	// WriteCycle is the delay after every byte write
	WriteCycle time.Duration

	// ReadChunk is the maximum length of one read transaction
	ReadChunk int
}

func defaultChipConfig() ChipConfig {
	return ChipConfig{
		Size:         DefaultSize,
		AddressWidth: DefaultAddressWidth,
		WriteCycle:   DefaultWriteCycle,
		ReadChunk:    DefaultReadChunk,
	}
}

// ChipOption is a functional option for configuring a Chip.
type ChipOption func(*ChipConfig)

// WithSize sets the chip capacity in bytes.
func WithSize(size int64) ChipOption {
	return func(c *ChipConfig) {
		if size > 0 {
			c.Size = size
		}
	}
}

// WithAddressWidth sets the word address length (1 for 24C01-24C16 style
// parts, 2 for 24C32 and up).
func WithAddressWidth(width int) ChipOption {
	return func(c *ChipConfig) {
		if width == 1 || width == 2 {
			c.AddressWidth = width
		}
	}
}

// WithWriteCycle sets the delay after every byte write.
//
// Example:
//
//	chip := eeprom.NewChip(bus, 0x54, eeprom.WithWriteCycle(0)) // simulated chip
func WithWriteCycle(d time.Duration) ChipOption {
	return func(c *ChipConfig) {
		if d >= 0 {
			c.WriteCycle = d
		}
	}
}

// WithReadChunk sets the maximum number of bytes per read transaction.
func WithReadChunk(n int) ChipOption {
	return func(c *ChipConfig) {
		if n > 0 {
			c.ReadChunk = n
		}
	}
}

// Chip is an I2C EEPROM at a fixed bus address.
//
// Writes are issued one byte per transaction so no page boundary
// assumptions are made about the part. Chip does not own the bus; Close
// is a no-op.
type Chip struct {
	bus  drivers.I2C
	addr uint16
	cfg  ChipConfig
}

// NewChip returns a handle to the EEPROM at addr on bus.
func NewChip(bus drivers.I2C, addr uint16, opts ...ChipOption) *Chip {
	if bus == nil {
		panic("bus cannot be nil")
	}

	cfg := defaultChipConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Chip{bus: bus, addr: addr, cfg: cfg}
}

// Address returns the bus address of the chip.
func (c *Chip) Address() uint16 { return c.addr }

// Size returns the configured capacity.
func (c *Chip) Size() int64 { return c.cfg.Size }

// ReadAt reads len(p) bytes starting at word address off.
func (c *Chip) ReadAt(p []byte, off int64) (int, error) {
	if err := c.checkRange(off, len(p)); err != nil {
		return 0, err
	}

	n := 0
	for n < len(p) {
		chunk := len(p) - n
		if chunk > c.cfg.ReadChunk {
			chunk = c.cfg.ReadChunk
		}

		w, err := BuildAddress(off+int64(n), c.cfg.AddressWidth)
		if err != nil {
			return n, err
		}
		if err := c.bus.Tx(c.addr, w, p[n:n+chunk]); err != nil {
			return n, &TransferError{Op: "read", Address: c.addr, Offset: off + int64(n), Err: err}
		}
		n += chunk
	}

	return n, nil
}

// WriteAt writes p starting at word address off, one byte per transaction,
// waiting the write cycle after each byte.
func (c *Chip) WriteAt(p []byte, off int64) (int, error) {
	if err := c.checkRange(off, len(p)); err != nil {
		return 0, err
	}

	for i, b := range p {
		w, err := BuildWriteByte(off+int64(i), c.cfg.AddressWidth, b)
		if err != nil {
			return i, err
		}
		if err := c.bus.Tx(c.addr, w, nil); err != nil {
			return i, &TransferError{Op: "write", Address: c.addr, Offset: off + int64(i), Err: err}
		}
		if c.cfg.WriteCycle > 0 {
			time.Sleep(c.cfg.WriteCycle)
		}
	}

	return len(p), nil
}

// Close releases nothing; the bus belongs to the caller.
func (c *Chip) Close() error { return nil }

func (c *Chip) checkRange(off int64, n int) error {
	if off < 0 || off+int64(n) > c.cfg.Size {
		return fmt.Errorf("offset 0x%X length %d: %w", off, n, ErrOutOfRange)
	}
	return nil
}

// Probe reports whether a device acknowledges at addr by reading one byte
// from its current address.
func Probe(bus drivers.I2C, addr uint16) error {
	if addr > MaxAddress {
		return &TransferError{Op: "probe", Address: addr, Err: fmt.Errorf("address beyond 7-bit range")}
	}
	var b [1]byte
	if err := bus.Tx(addr, nil, b[:]); err != nil {
		return &TransferError{Op: "probe", Address: addr, Err: err}
	}
	return nil
}
