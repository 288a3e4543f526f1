package capeid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPin(t *testing.T) {
	p, err := NewPin(0, PinRxEnable|PinPullUp)
	require.NoError(t, err)
	assert.Equal(t, PinConfig(0x8030), p)
	assert.True(t, p.Used())
	assert.True(t, p.RxEnabled())
	assert.True(t, p.PullUp())
	assert.False(t, p.PullDisabled())
	assert.False(t, p.SlewSlow())
	assert.Equal(t, 0, p.Mux())

	p, err = NewPin(7, PinSlewSlow|PinPullDisable)
	require.NoError(t, err)
	assert.Equal(t, PinConfig(0x804F), p)
	assert.Equal(t, 7, p.Mux())

	// stray bits outside the flag set are dropped
	p, err = NewPin(1, PinConfig(0x0100)|PinPullUp)
	require.NoError(t, err)
	assert.Equal(t, PinConfig(0x8011), p)

	_, err = NewPin(8, 0)
	var invalid *InvalidFieldError
	assert.True(t, errors.As(err, &invalid))

	_, err = NewPin(-1, 0)
	assert.True(t, errors.As(err, &invalid))
}

func TestPinConfigString(t *testing.T) {
	tests := []struct {
		cfg  PinConfig
		want string
	}{
		{0, "unused"},
		{0x8030, "mode0 rx pullup"},
		{0x8017, "mode7 pullup"},
		{0x8007, "mode7 pulldown"},
		{0x804B, "mode3 nopull slow"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.String())
	}
}

func TestPinSlot(t *testing.T) {
	tests := []struct {
		header, pin int
		want        int
		wantErr     bool
	}{
		{HeaderP8, 1, 0, false},
		{HeaderP8, 46, 45, false},
		{HeaderP9, 1, 46, false},
		{HeaderP9, 28, 73, false},
		{HeaderP9, 29, 0, true},
		{HeaderP9, 39, 0, true},
		{HeaderP8, 0, 0, true},
		{HeaderP8, 47, 0, true},
		{7, 1, 0, true},
	}

	for _, tt := range tests {
		got, err := PinSlot(tt.header, tt.pin)
		if tt.wantErr {
			assert.Error(t, err, "P%d_%d", tt.header, tt.pin)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSlotName(t *testing.T) {
	assert.Equal(t, "P8_01", SlotName(0))
	assert.Equal(t, "P8_46", SlotName(45))
	assert.Equal(t, "P9_01", SlotName(46))
	assert.Equal(t, "P9_28", SlotName(73))
}

func TestParsePinName(t *testing.T) {
	tests := []struct {
		name        string
		header, pin int
		wantErr     bool
	}{
		{"P9_26", 9, 26, false},
		{"p8.07", 8, 7, false},
		{"P9-11", 9, 11, false},
		{" P8_46 ", 8, 46, false},
		{"P9_39", 0, 0, true},
		{"P10_1", 0, 0, true},
		{"Q9_26", 0, 0, true},
		{"P9", 0, 0, true},
		{"P9_xx", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, pin, err := ParsePinName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.header, header)
			assert.Equal(t, tt.pin, pin)
		})
	}
}

func TestSetPinAndUsedPins(t *testing.T) {
	rec := minimalRecord()
	assert.Empty(t, rec.UsedPins())

	cfg, err := NewPin(2, PinRxEnable)
	require.NoError(t, err)
	require.NoError(t, rec.SetPin(HeaderP9, 17, cfg))
	require.NoError(t, rec.SetPin(HeaderP8, 3, cfg))

	assert.Equal(t, []int{2, 62}, rec.UsedPins())
	assert.Error(t, rec.SetPin(HeaderP9, 41, cfg))
}

func TestDefaultRecordPins(t *testing.T) {
	rec := DefaultRecord()
	assert.Len(t, rec.UsedPins(), len(defaultPins))
	assert.Equal(t, uint16(DefaultPinCount), rec.PinCount)
	require.NoError(t, rec.Validate())
}
