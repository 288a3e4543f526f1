package eeprom

import "time"

// Cape EEPROM bus addresses. The two address straps on a cape select one of
// four slots.
const (
	// BaseAddress is the address of slot 0 (both straps low)
	BaseAddress = 0x54

	// SlotCount is the number of addressable cape slots
	SlotCount = 4

	// DefaultAddress is used when discovery finds nothing and the operator
	// enters no address
	DefaultAddress = BaseAddress
)

// CapeAddresses lists the candidate addresses in probe order.
var CapeAddresses = []uint16{0x54, 0x55, 0x56, 0x57}

// Chip geometry and timing defaults (24C256).
const (
	// DefaultSize is the chip capacity in bytes
	DefaultSize = 32 * 1024

	// DefaultAddressWidth is the number of word address bytes sent before data
	DefaultAddressWidth = 2

	// DefaultWriteCycle is the wait after each write. Parts specify a 5ms
	// maximum internal write cycle.
	DefaultWriteCycle = 10 * time.Millisecond

	// DefaultReadChunk is the maximum number of bytes read per transaction
	DefaultReadChunk = 32
)

// MaxAddress is the highest 7-bit bus address.
const MaxAddress = 0x7F
