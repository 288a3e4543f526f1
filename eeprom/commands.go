package eeprom

import "fmt"

// BuildAddress constructs the word address prefix of a transfer.
//
// Frame structure (width 2):
//
//	[ADDR_H][ADDR_L]
//
// Width 1 chips take a single address byte.
func BuildAddress(offset int64, width int) ([]byte, error) {
	switch width {
	case 1:
		if offset < 0 || offset > 0xFF {
			return nil, fmt.Errorf("offset 0x%X does not fit a 1-byte word address", offset)
		}
		return []byte{byte(offset)}, nil
	case 2:
		if offset < 0 || offset > 0xFFFF {
			return nil, fmt.Errorf("offset 0x%X does not fit a 2-byte word address", offset)
		}
		return []byte{byte(offset >> 8), byte(offset)}, nil
	default:
		return nil, fmt.Errorf("address width must be 1 or 2, got %d", width)
	}
}

// BuildWriteByte constructs a single byte write.
//
// Frame structure (width 2):
//
//	[ADDR_H][ADDR_L][DATA]
func BuildWriteByte(offset int64, width int, value byte) ([]byte, error) {
	frame, err := BuildAddress(offset, width)
	if err != nil {
		return nil, err
	}
	return append(frame, value), nil
}

// ParseAddress is the inverse of BuildAddress. It returns the word address
// and the remaining bytes of the frame.
func ParseAddress(frame []byte, width int) (int64, []byte, error) {
	if width != 1 && width != 2 {
		return 0, nil, fmt.Errorf("address width must be 1 or 2, got %d", width)
	}
	if len(frame) < width {
		return 0, nil, fmt.Errorf("frame too short for %d-byte word address: %d bytes", width, len(frame))
	}
	if width == 1 {
		return int64(frame[0]), frame[1:], nil
	}
	return int64(frame[0])<<8 | int64(frame[1]), frame[2:], nil
}
