package capeid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// Decode parses a cape EEPROM image back into a Record.
// The image must be exactly ImageSize bytes and start with Magic.
// String fields are returned with space and NUL padding removed.
func Decode(img []byte) (*Record, error) {
	if len(img) != ImageSize {
		return nil, &ImageSizeError{Length: len(img)}
	}
	if !bytes.Equal(img[MagicOffset:MagicOffset+MagicSize], Magic[:]) {
		return nil, ErrBadMagic
	}

	r := &Record{
		EEPROMRevision: getString(img, RevisionOffset, RevisionSize),
		BoardName:      getString(img, BoardNameOffset, BoardNameSize),
		Version:        getString(img, VersionOffset, VersionSize),
		Manufacturer:   getString(img, ManufacturerOffset, ManufacturerSize),
		PartNumber:     getString(img, PartNumberOffset, PartNumberSize),
		PinCount:       binary.BigEndian.Uint16(img[PinCountOffset:]),
		SerialNumber:   getString(img, SerialNumberOffset, SerialNumberSize),
		VDD3V3B:        binary.BigEndian.Uint16(img[VDD3V3BOffset:]),
		VDD5V:          binary.BigEndian.Uint16(img[VDD5VOffset:]),
		SYS5V:          binary.BigEndian.Uint16(img[SYS5VOffset:]),
		DCSupplied:     binary.BigEndian.Uint16(img[DCSuppliedOffset:]),
	}
	for i := range r.Pins {
		r.Pins[i] = PinConfig(binary.BigEndian.Uint16(img[PinUsageOffset+2*i:]))
	}

	return r, nil
}

// Parse reads and decodes an image file.
//
// Example:
//
//	rec, err := capeid.Parse("cape_eeprom.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rec.BoardName, rec.Version)
func Parse(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader reads and decodes an image from r.
// Reading stops one byte past ImageSize so oversized input is reported.
func ParseReader(r io.Reader) (*Record, error) {
	img, err := io.ReadAll(io.LimitReader(r, ImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(img)
}

// ReadImage reads a raw image file and checks that it decodes.
func ReadImage(path string) ([]byte, *Record, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	rec, err := Decode(img)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, rec, nil
}

// WriteFile builds the record and writes the image to path.
func WriteFile(path string, r *Record) ([]byte, error) {
	img, err := Build(r)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	return img, nil
}

func getString(img []byte, offset, size int) string {
	return strings.TrimRight(string(img[offset:offset+size]), " \x00")
}
