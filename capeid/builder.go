package capeid

import (
	"encoding/binary"
	"fmt"
	"regexp"
)

var (
	revisionPattern = regexp.MustCompile(`^[A-Z][0-9]$`)
	versionPattern  = regexp.MustCompile(`^[0-9A-Z]{4}$`)
)

// stringField describes one space-padded string field of the layout.
type stringField struct {
	name   string
	offset int
	size   int
	value  string

	// fixed fields are checked against a pattern instead of a byte budget
	fixed bool
}

func (r *Record) stringFields() []stringField {
	return []stringField{
		{FieldRevision, RevisionOffset, RevisionSize, r.EEPROMRevision, true},
		{FieldBoardName, BoardNameOffset, BoardNameSize, r.BoardName, false},
		{FieldVersion, VersionOffset, VersionSize, r.Version, true},
		{FieldManufacturer, ManufacturerOffset, ManufacturerSize, r.Manufacturer, false},
		{FieldPartNumber, PartNumberOffset, PartNumberSize, r.PartNumber, false},
		{FieldSerialNumber, SerialNumberOffset, SerialNumberSize, r.SerialNumber, false},
	}
}

// Build encodes the record into a cape EEPROM image.
// The result is always exactly ImageSize bytes.
//
// Example:
//
//	rec := capeid.DefaultRecord()
//	rec.SerialNumber = "0325CAPE0042"
//	img, err := capeid.Build(rec)
func Build(r *Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	img := make([]byte, ImageSize)
	copy(img[MagicOffset:], Magic[:])

	for _, f := range r.stringFields() {
		putString(img[f.offset:f.offset+f.size], f.value)
	}

	binary.BigEndian.PutUint16(img[PinCountOffset:], r.PinCount)

	for i, pin := range r.Pins {
		binary.BigEndian.PutUint16(img[PinUsageOffset+2*i:], uint16(pin))
	}

	binary.BigEndian.PutUint16(img[VDD3V3BOffset:], r.VDD3V3B)
	binary.BigEndian.PutUint16(img[VDD5VOffset:], r.VDD5V)
	binary.BigEndian.PutUint16(img[SYS5VOffset:], r.SYS5V)
	binary.BigEndian.PutUint16(img[DCSuppliedOffset:], r.DCSupplied)

	return img, nil
}

// Validate checks every field against its byte budget and format without
// encoding the record.
func (r *Record) Validate() error {
	for _, f := range r.stringFields() {
		if f.fixed {
			continue
		}
		if len(f.value) > f.size {
			return &FieldTooLongError{Field: f.name, Max: f.size, Length: len(f.value)}
		}
		if err := checkPrintable(f.name, f.value); err != nil {
			return err
		}
	}

	if !revisionPattern.MatchString(r.EEPROMRevision) {
		return &InvalidFieldError{
			Field:  FieldRevision,
			Value:  r.EEPROMRevision,
			Reason: "must be an upper-case letter followed by a digit",
		}
	}
	if !versionPattern.MatchString(r.Version) {
		return &InvalidFieldError{
			Field:  FieldVersion,
			Value:  r.Version,
			Reason: "must be 4 digits or upper-case letters",
		}
	}

	for i, pin := range r.Pins {
		if pin != 0 && !pin.Used() {
			return &InvalidFieldError{
				Field:  FieldPins,
				Value:  fmt.Sprintf("slot %d = 0x%04X", i, uint16(pin)),
				Reason: "configured slot is not marked used",
			}
		}
		if pin&pinReservedMask != 0 {
			return &InvalidFieldError{
				Field:  FieldPins,
				Value:  fmt.Sprintf("slot %d = 0x%04X", i, uint16(pin)),
				Reason: "reserved bits 14-7 must be zero",
			}
		}
	}

	return nil
}

// checkPrintable rejects bytes outside printable ASCII. Trailing spaces are
// also rejected because they cannot be told apart from padding.
func checkPrintable(field, s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return &InvalidFieldError{
				Field:  field,
				Value:  s,
				Reason: fmt.Sprintf("byte 0x%02X at position %d is not printable ASCII", s[i], i),
			}
		}
	}
	if len(s) > 0 && s[len(s)-1] == StringPad {
		return &InvalidFieldError{Field: field, Value: s, Reason: "trailing spaces are reserved for padding"}
	}
	return nil
}

// putString left-justifies s in dst and pads the remainder with spaces.
func putString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = StringPad
	}
}
