// Package capeid encodes and decodes BeagleBone cape identification EEPROM
// images.
//
// # Image Layout
//
// An image is always 244 bytes. Every field sits at a fixed offset;
// strings are left-justified and space padded, numbers are big-endian:
//
//	Offset  Size  Field
//	0       4     Magic (0xAA 0x55 0x33 0xEE)
//	4       2     EEPROM revision ("A1")
//	6       32    Board name
//	38      4     Version ("0001")
//	42      16    Manufacturer
//	58      16    Part number
//	74      2     Number of pins used
//	76      12    Serial number (WWYYCAPEnnnn)
//	88      148   Pin usage, 74 x 16-bit slots
//	236     2     VDD_3V3B current (mA)
//	238     2     VDD_5V current (mA)
//	240     2     SYS_5V current (mA)
//	242     2     DC supplied (mA)
//
// The layout has no checksum. The boot loader matches the board name,
// version and part number against overlay file names.
//
// # Usage
//
// Build an image from the defaults:
//
//	rec := capeid.DefaultRecord()
//	rec.SerialNumber, _ = capeid.GenerateSerial(time.Now(), "CAPE", 1)
//	img, err := capeid.Build(rec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or from a description file:
//
//	rec, err := capeid.LoadFile("cape.yaml")
//
// Decode an image:
//
//	rec, err := capeid.Parse("cape_eeprom.bin")
//
// # Error Handling
//
// Build never truncates. A string longer than its field returns
// *FieldTooLongError; a malformed revision, version, pin or non-ASCII
// string returns *InvalidFieldError. Decode returns *ImageSizeError or
// ErrBadMagic for input that is not a cape image.
package capeid
