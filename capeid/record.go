package capeid

// Record is the identity record stored in a cape EEPROM.
//
// String fields hold the trimmed content; padding is applied by Build and
// stripped by Decode.
type Record struct {
	// EEPROMRevision is the layout revision code, e.g. "A1"
	EEPROMRevision string

	// BoardName is the human-readable board name (up to 32 bytes)
	BoardName string

	// Version is the hardware version, exactly 4 characters, e.g. "0001"
	Version string

	// Manufacturer is the manufacturer name (up to 16 bytes)
	Manufacturer string

	// PartNumber is matched against overlay file names by the boot loader (up to 16 bytes)
	PartNumber string

	// PinCount is the number of header pins the cape uses (0 if unused)
	PinCount uint16

	// SerialNumber is the board serial, WWYYCAPEnnnn by convention (up to 12 bytes)
	SerialNumber string

	// Pins holds one configuration slot per header pin
	Pins [PinSlots]PinConfig

	// Current draw on each power rail in milliamps
	VDD3V3B    uint16
	VDD5V      uint16
	SYS5V      uint16
	DCSupplied uint16
}

// Field layout of the EEPROM image. Offsets are in bytes from the start of
// the image; all numeric fields are big-endian.
const (
	MagicOffset          = 0
	MagicSize            = 4
	RevisionOffset       = 4
	RevisionSize         = 2
	BoardNameOffset      = 6
	BoardNameSize        = 32
	VersionOffset        = 38
	VersionSize          = 4
	ManufacturerOffset   = 42
	ManufacturerSize     = 16
	PartNumberOffset     = 58
	PartNumberSize       = 16
	PinCountOffset       = 74
	PinCountSize         = 2
	SerialNumberOffset   = 76
	SerialNumberSize     = 12
	PinUsageOffset       = 88
	PinUsageSize         = 148
	VDD3V3BOffset        = 236
	VDD5VOffset          = 238
	SYS5VOffset          = 240
	DCSuppliedOffset     = 242
	CurrentDrawFieldSize = 2

	// ImageSize is the length of every encoded image
	ImageSize = 244

	// PinSlots is the number of 16-bit pin usage slots
	PinSlots = PinUsageSize / 2
)

// Magic identifies a cape EEPROM image.
var Magic = [MagicSize]byte{0xAA, 0x55, 0x33, 0xEE}

// Pad bytes for string and binary fields.
const (
	StringPad = ' '
	BinaryPad = 0x00
)

// Field names used in errors.
const (
	FieldRevision     = "eeprom_revision"
	FieldBoardName    = "board_name"
	FieldVersion      = "version"
	FieldManufacturer = "manufacturer"
	FieldPartNumber   = "part_number"
	FieldSerialNumber = "serial_number"
	FieldPins         = "pins"
)
