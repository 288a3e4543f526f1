package provision

import (
	"time"

	"github.com/bb-io-cape/go-capeid/eeprom"
)

// Config holds the programmer configuration.
type Config struct {
	// ProgressCallback is called during provisioning to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Candidates are the addresses probed during discovery, in order
	Candidates []uint16

	// FallbackAddress is offered to the operator when discovery finds nothing
	FallbackAddress uint16

	// Address is used without probing when FixedAddress is set
	Address      uint16
	FixedAddress bool

	// BindRetryDelay is the wait before the single bind retry
	BindRetryDelay time.Duration

	// ImageCheck rejects images that do not decode as a cape image
	ImageCheck bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Candidates:      append([]uint16(nil), eeprom.CapeAddresses...),
		FallbackAddress: eeprom.DefaultAddress,
		BindRetryDelay:  500 * time.Millisecond,
		ImageCheck:      true,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track provisioning progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
//
// Example:
//
//	prog := provision.New(target, op, provision.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAddress skips discovery and provisions the device at addr.
//
// Example:
//
//	prog := provision.New(target, op, provision.WithAddress(0x57))
func WithAddress(addr uint16) Option {
	return func(c *Config) {
		if addr <= eeprom.MaxAddress {
			c.Address = addr
			c.FixedAddress = true
		}
	}
}

// WithCandidates replaces the addresses probed during discovery.
// An empty list is ignored.
func WithCandidates(addrs ...uint16) Option {
	return func(c *Config) {
		if len(addrs) > 0 {
			c.Candidates = append([]uint16(nil), addrs...)
		}
	}
}

// WithFallbackAddress sets the address suggested to the operator when no
// candidate responds.
func WithFallbackAddress(addr uint16) Option {
	return func(c *Config) {
		if addr <= eeprom.MaxAddress {
			c.FallbackAddress = addr
		}
	}
}

// WithBindRetryDelay sets the wait before retrying a failed bind.
// Default is 500ms.
func WithBindRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.BindRetryDelay = d
		}
	}
}

// WithImageCheck enables or disables decoding the image before use.
// Default is true.
func WithImageCheck(check bool) Option {
	return func(c *Config) {
		c.ImageCheck = check
	}
}
