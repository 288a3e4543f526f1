// Package i2cdev drives Linux /dev/i2c-N adapters as
// tinygo.org/x/drivers.I2C buses.
//
// Adapters with plain I2C support get combined write/read transfers
// (I2C_RDWR). SMBus-only adapters get the transfer shapes a 24Cxx EEPROM
// needs, emulated with SMBus commands:
//
//	[hi lo v]  write word data, command hi, data lo v
//	[hi lo]    write byte data, command hi, data lo
//	[b]        write byte b
//	read N     N receive byte commands
package i2cdev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/platinasystems/i2c"
)

// Lock serialises transfers on every adapter opened by this process.
var Lock sync.Mutex

// ErrUnsupported is returned for transfers an SMBus-only adapter cannot
// express.
var ErrUnsupported = errors.New("transfer not supported by SMBus adapter")

// adapter is the subset of *i2c.Bus used here.
type adapter interface {
	GetFeatures() (i2c.FeatureFlag, error)
	ForceSlaveAddress(n int) error
	Do(rw i2c.RW, command uint8, size i2c.SMBusSize, data *i2c.SMBusData) error
	Send(messages []i2c.Message) error
	Close() error
}

// Bus is an open /dev/i2c-N adapter.
type Bus struct {
	index    int
	dev      adapter
	features i2c.FeatureFlag
	slave    int
}

// Open opens /dev/i2c-index.
func Open(index int) (*Bus, error) {
	dev := new(i2c.Bus)
	if err := dev.Open(index); err != nil {
		return nil, err
	}
	return newBus(index, dev)
}

func newBus(index int, dev adapter) (*Bus, error) {
	features, err := dev.GetFeatures()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("i2c-%d: get features: %w", index, err)
	}
	return &Bus{index: index, dev: dev, features: features, slave: -1}, nil
}

// Index returns the adapter number.
func (b *Bus) Index() int { return b.index }

// RawI2C reports whether the adapter supports combined I2C transfers.
func (b *Bus) RawI2C() bool { return b.features&i2c.I2C != 0 }

// Close closes the adapter.
func (b *Bus) Close() error {
	return b.dev.Close()
}

// Tx writes w and then reads len(r) bytes from the device at addr.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 && len(r) == 0 {
		return nil
	}

	Lock.Lock()
	defer Lock.Unlock()

	if b.RawI2C() {
		return b.send(addr, w, r)
	}
	return b.smbus(addr, w, r)
}

func (b *Bus) send(addr uint16, w, r []byte) error {
	msgs := make([]i2c.Message, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2c.Message{Address: addr, Data: w})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2c.Message{Address: addr, Flags: i2c.ReadData, Data: r})
	}
	if err := b.dev.Send(msgs); err != nil {
		return fmt.Errorf("i2c-%d 0x%02X: %w", b.index, addr, err)
	}
	return nil
}

func (b *Bus) smbus(addr uint16, w, r []byte) error {
	if int(addr) != b.slave {
		if err := b.dev.ForceSlaveAddress(int(addr)); err != nil {
			return fmt.Errorf("i2c-%d: %w", b.index, err)
		}
		b.slave = int(addr)
	}

	var data i2c.SMBusData
	var err error
	switch len(w) {
	case 0:
	case 1:
		err = b.dev.Do(i2c.Write, w[0], i2c.Byte, &data)
	case 2:
		data[0] = w[1]
		err = b.dev.Do(i2c.Write, w[0], i2c.ByteData, &data)
	case 3:
		data[0], data[1] = w[1], w[2]
		err = b.dev.Do(i2c.Write, w[0], i2c.WordData, &data)
	default:
		return fmt.Errorf("i2c-%d 0x%02X: %d byte write: %w", b.index, addr, len(w), ErrUnsupported)
	}
	if err != nil {
		return fmt.Errorf("i2c-%d 0x%02X: %w", b.index, addr, err)
	}

	for i := range r {
		if err := b.dev.Do(i2c.Read, 0, i2c.Byte, &data); err != nil {
			return fmt.Errorf("i2c-%d 0x%02X: %w", b.index, addr, err)
		}
		r[i] = data[0]
	}
	return nil
}
