// Package sysfs provisions cape EEPROMs through the Linux at24 driver.
//
// Binding registers the chip with the adapter when needed
//
//	echo 24c256 0x54 > /sys/bus/i2c/devices/i2c-2/new_device
//
// and opens /sys/bus/i2c/devices/2-0054/eeprom. The kernel driver then
// handles paging and write-cycle timing.
package sysfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bb-io-cape/go-capeid/eeprom"
	"github.com/bb-io-cape/go-capeid/i2cdev"
)

const (
	// DefaultRoot is the sysfs directory of I2C devices
	DefaultRoot = "/sys/bus/i2c/devices"

	// DefaultDeviceType is the at24 device name of the cape EEPROM
	DefaultDeviceType = "24c256"
)

// ErrNoEndpoint is returned when the eeprom file has not appeared after
// registration.
var ErrNoEndpoint = errors.New("eeprom endpoint not present")

// Prober checks for a device at an address.
type Prober interface {
	Probe(ctx context.Context, addr uint16) error
}

// Target provisions chips on one adapter through sysfs.
type Target struct {
	Bus int

	// Root defaults to DefaultRoot
	Root string

	// DeviceType defaults to DefaultDeviceType
	DeviceType string

	// Prober defaults to an i2cdev.Target on the same bus
	Prober Prober
}

// ID returns the adapter number.
func (t *Target) ID() int { return t.Bus }

func (t *Target) root() string {
	if t.Root != "" {
		return t.Root
	}
	return DefaultRoot
}

func (t *Target) deviceType() string {
	if t.DeviceType != "" {
		return t.DeviceType
	}
	return DefaultDeviceType
}

// DeviceDir returns the sysfs directory of the client at addr.
func (t *Target) DeviceDir(addr uint16) string {
	return filepath.Join(t.root(), fmt.Sprintf("%d-%04x", t.Bus, addr))
}

func (t *Target) adapterFile(name string) string {
	return filepath.Join(t.root(), fmt.Sprintf("i2c-%d", t.Bus), name)
}

// Probe checks for a device acknowledging at addr. A client already
// bound by the kernel counts as present.
func (t *Target) Probe(ctx context.Context, addr uint16) error {
	if _, err := os.Stat(filepath.Join(t.DeviceDir(addr), "eeprom")); err == nil {
		return nil
	}
	p := t.Prober
	if p == nil {
		p = &i2cdev.Target{Bus: t.Bus}
	}
	return p.Probe(ctx, addr)
}

// Bind registers the chip if no client exists at addr and opens its
// eeprom file.
func (t *Target) Bind(ctx context.Context, addr uint16) (eeprom.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := t.DeviceDir(addr)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := t.Register(addr); err != nil {
			return nil, err
		}
	}

	path := filepath.Join(dir, "eeprom")
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoEndpoint)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Register instantiates an at24 client at addr.
func (t *Target) Register(addr uint16) error {
	line := fmt.Sprintf("%s 0x%02x\n", t.deviceType(), addr)
	return writeAttr(t.adapterFile("new_device"), line)
}

// Unregister removes the client at addr.
func (t *Target) Unregister(addr uint16) error {
	return writeAttr(t.adapterFile("delete_device"), fmt.Sprintf("0x%02x\n", addr))
}

func writeAttr(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
