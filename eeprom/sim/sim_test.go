package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusNoDevice(t *testing.T) {
	bus := NewBus()
	assert.ErrorIs(t, bus.Tx(0x54, nil, make([]byte, 1)), ErrNoDevice)
	assert.Nil(t, bus.Chip(0x54))
}

func TestChipStartsProtectedAndBlank(t *testing.T) {
	chip := NewChip(64)
	assert.True(t, chip.WriteProtected())
	assert.Equal(t, []byte{0xFF, 0xFF}, chip.Contents(2))

	bus := NewBus()
	bus.Attach(0x54, chip)

	err := bus.Tx(0x54, []byte{0x00, 0x00, 0x12}, nil)
	assert.ErrorIs(t, err, ErrWriteProtected)
	assert.Equal(t, 1, chip.Stats().ProtectedWrites)
	assert.Equal(t, []byte{0xFF}, chip.Contents(1))
}

func TestChipWriteAndSequentialRead(t *testing.T) {
	bus := NewBus()
	chip := bus.Attach(0x57, NewChip(64))
	chip.SetWriteProtect(false)

	require.NoError(t, bus.Tx(0x57, []byte{0x00, 0x10, 'a', 'b', 'c'}, nil))
	stats := chip.Stats()
	assert.Equal(t, 1, stats.Writes)
	assert.Equal(t, 3, stats.MaxWriteLen)

	r := make([]byte, 3)
	require.NoError(t, bus.Tx(0x57, []byte{0x00, 0x10}, r))
	assert.Equal(t, []byte("abc"), r)

	// current address read continues after the last byte
	require.NoError(t, bus.Tx(0x57, []byte{0x00, 0x11}, r[:1]))
	require.NoError(t, bus.Tx(0x57, nil, r[:1]))
	assert.Equal(t, byte('c'), r[0])
	assert.Equal(t, 3, chip.Stats().Reads)
}

func TestChipCorruptRead(t *testing.T) {
	bus := NewBus()
	chip := bus.Attach(0x54, NewChip(16))
	chip.Load([]byte{1, 2, 3, 4})
	chip.CorruptRead(2, 0x80)

	r := make([]byte, 4)
	require.NoError(t, bus.Tx(0x54, []byte{0, 0}, r))
	assert.Equal(t, []byte{1, 2, 0x83, 4}, r)
	assert.Equal(t, []byte{1, 2, 3, 4}, chip.Contents(4))
}

func TestChipFailWrite(t *testing.T) {
	bus := NewBus()
	chip := bus.Attach(0x54, NewChip(16))
	chip.SetWriteProtect(false)
	chip.FailWrite(1)

	require.NoError(t, bus.Tx(0x54, []byte{0, 0, 9}, nil))
	assert.ErrorIs(t, bus.Tx(0x54, []byte{0, 1, 9}, nil), ErrInjected)
}

func TestChipIncompleteAddress(t *testing.T) {
	bus := NewBus()
	bus.Attach(0x54, NewChip(16))
	assert.Error(t, bus.Tx(0x54, []byte{0}, nil))
}

func TestDetach(t *testing.T) {
	bus := NewBus()
	bus.Attach(0x55, NewChip(16))
	bus.Detach(0x55)
	assert.ErrorIs(t, bus.Tx(0x55, nil, make([]byte, 1)), ErrNoDevice)
}
