package capeid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalRecord() *Record {
	return &Record{EEPROMRevision: "A1", Version: "0001"}
}

func TestBuildDefaultGolden(t *testing.T) {
	rec := DefaultRecord()
	rec.SerialNumber = "0325CAPE0042"

	img, err := Build(rec)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "default_record", img)
}

func TestBuildLayout(t *testing.T) {
	rec := DefaultRecord()
	rec.SerialNumber = "0325CAPE0042"
	rec.VDD5V = 0x0102
	rec.SYS5V = 0x0304
	rec.DCSupplied = 0x0506

	img, err := Build(rec)
	require.NoError(t, err)
	require.Len(t, img, ImageSize)

	assert.Equal(t, []byte{0xAA, 0x55, 0x33, 0xEE}, img[0:4])
	assert.Equal(t, "A1", string(img[4:6]))
	assert.Equal(t, "BB-IO-CAPE"+strings.Repeat(" ", 22), string(img[6:38]))
	assert.Equal(t, "0001", string(img[38:42]))
	assert.Equal(t, "Andrew C. Young ", string(img[42:58]))
	assert.Equal(t, "BB-IO-CAPE-01   ", string(img[58:74]))
	assert.Equal(t, uint16(36), binary.BigEndian.Uint16(img[74:76]))
	assert.Equal(t, "0325CAPE0042", string(img[76:88]))
	assert.Equal(t, uint16(50), binary.BigEndian.Uint16(img[236:238]))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, img[238:244])

	// P9_26 is UART1 RX, mode 0 with receiver and pull-up
	slot, err := PinSlot(HeaderP9, 26)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8030), binary.BigEndian.Uint16(img[PinUsageOffset+2*slot:]))
}

func TestBuildFixedLength(t *testing.T) {
	tests := []struct {
		name string
		rec  *Record
	}{
		{"minimal", minimalRecord()},
		{"default", DefaultRecord()},
		{
			name: "every string full",
			rec: &Record{
				EEPROMRevision: "Z9",
				BoardName:      strings.Repeat("B", BoardNameSize),
				Version:        "ZZZZ",
				Manufacturer:   strings.Repeat("M", ManufacturerSize),
				PartNumber:     strings.Repeat("P", PartNumberSize),
				SerialNumber:   strings.Repeat("S", SerialNumberSize),
				PinCount:       0xFFFF,
				VDD3V3B:        0xFFFF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Build(tt.rec)
			require.NoError(t, err)
			assert.Len(t, img, ImageSize)
		})
	}
}

func TestBuildPadding(t *testing.T) {
	img, err := Build(minimalRecord())
	require.NoError(t, err)

	assert.Equal(t, bytes.Repeat([]byte{' '}, BoardNameSize), img[BoardNameOffset:BoardNameOffset+BoardNameSize])
	assert.Equal(t, bytes.Repeat([]byte{' '}, ManufacturerSize), img[ManufacturerOffset:ManufacturerOffset+ManufacturerSize])
	assert.Equal(t, bytes.Repeat([]byte{' '}, PartNumberSize), img[PartNumberOffset:PartNumberOffset+PartNumberSize])
	assert.Equal(t, bytes.Repeat([]byte{' '}, SerialNumberSize), img[SerialNumberOffset:SerialNumberOffset+SerialNumberSize])
	assert.Equal(t, make([]byte, PinUsageSize), img[PinUsageOffset:PinUsageOffset+PinUsageSize])
	assert.Equal(t, make([]byte, 8), img[VDD3V3BOffset:ImageSize])
	assert.Equal(t, []byte{0, 0}, img[PinCountOffset:PinCountOffset+PinCountSize])
}

func TestBuildFieldTooLong(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
		max    int
	}{
		{"board name", func(r *Record) { r.BoardName = strings.Repeat("x", 33) }, FieldBoardName, BoardNameSize},
		{"manufacturer", func(r *Record) { r.Manufacturer = strings.Repeat("x", 17) }, FieldManufacturer, ManufacturerSize},
		{"part number", func(r *Record) { r.PartNumber = strings.Repeat("x", 17) }, FieldPartNumber, PartNumberSize},
		{"serial", func(r *Record) { r.SerialNumber = "0325CAPE00421" }, FieldSerialNumber, SerialNumberSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := DefaultRecord()
			tt.mutate(rec)

			img, err := Build(rec)
			assert.Nil(t, img)

			var tooLong *FieldTooLongError
			require.True(t, errors.As(err, &tooLong), "got %v", err)
			assert.Equal(t, tt.field, tooLong.Field)
			assert.Equal(t, tt.max, tooLong.Max)
		})
	}
}

func TestBuildInvalidField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"empty revision", func(r *Record) { r.EEPROMRevision = "" }, FieldRevision},
		{"lower-case revision", func(r *Record) { r.EEPROMRevision = "a1" }, FieldRevision},
		{"long revision", func(r *Record) { r.EEPROMRevision = "A10" }, FieldRevision},
		{"short version", func(r *Record) { r.Version = "001" }, FieldVersion},
		{"version with dash", func(r *Record) { r.Version = "00-1" }, FieldVersion},
		{"non-ascii board name", func(r *Record) { r.BoardName = "BB-IO-CAPÉ" }, FieldBoardName},
		{"control byte in manufacturer", func(r *Record) { r.Manufacturer = "ACME\x00" }, FieldManufacturer},
		{"trailing space in part number", func(r *Record) { r.PartNumber = "BB-IO-CAPE-01 " }, FieldPartNumber},
		{"reserved pin bits", func(r *Record) { r.Pins[3] = PinUsed | 0x0100 }, FieldPins},
		{"pin config without used bit", func(r *Record) { r.Pins[3] = PinRxEnable }, FieldPins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := DefaultRecord()
			tt.mutate(rec)

			_, err := Build(rec)
			var invalid *InvalidFieldError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestBuildNil(t *testing.T) {
	_, err := Build(nil)
	assert.Error(t, err)
}
