package capeid

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAssemblyCode is the assembly code used in generated serial numbers.
const DefaultAssemblyCode = "CAPE"

// GenerateSerial returns a serial number in the form WWYYAAAAnnnn:
// ISO week and two-digit ISO year of t, a 4-character assembly code
// (truncated, or right-padded with '0') and a 4-digit board number.
//
// Example:
//
//	capeid.GenerateSerial(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "CAPE", 42)
//	// "0325CAPE0042"
func GenerateSerial(t time.Time, assembly string, board int) (string, error) {
	if board < 0 || board > 9999 {
		return "", &InvalidFieldError{
			Field:  FieldSerialNumber,
			Value:  fmt.Sprint(board),
			Reason: "board number must be 0-9999",
		}
	}
	if err := checkPrintable(FieldSerialNumber, assembly); err != nil {
		return "", err
	}

	if len(assembly) > 4 {
		assembly = assembly[:4]
	}
	assembly += strings.Repeat("0", 4-len(assembly))

	year, week := t.ISOWeek()
	return fmt.Sprintf("%02d%02d%s%04d", week, year%100, assembly, board), nil
}
