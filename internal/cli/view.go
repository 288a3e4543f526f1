package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bb-io-cape/go-capeid/capeid"
)

// RecordView is the printable form of an identity record.
type RecordView struct {
	Magic          string    `json:"magic"`
	EEPROMRevision string    `json:"eeprom_revision"`
	BoardName      string    `json:"board_name"`
	Version        string    `json:"version"`
	Manufacturer   string    `json:"manufacturer"`
	PartNumber     string    `json:"part_number"`
	PinCount       uint16    `json:"pin_count"`
	SerialNumber   string    `json:"serial_number"`
	VDD3V3B        uint16    `json:"vdd_3v3b_ma"`
	VDD5V          uint16    `json:"vdd_5v_ma"`
	SYS5V          uint16    `json:"sys_5v_ma"`
	DCSupplied     uint16    `json:"dc_supplied_ma"`
	Pins           []PinView `json:"pins"`
	Size           int       `json:"size"`
}

// PinView is one used pin slot.
type PinView struct {
	Pin    string `json:"pin"`
	Value  string `json:"value"`
	Config string `json:"config"`
}

func newRecordView(r *capeid.Record) RecordView {
	v := RecordView{
		Magic:          fmt.Sprintf("0x%X", capeid.Magic[:]),
		EEPROMRevision: r.EEPROMRevision,
		BoardName:      r.BoardName,
		Version:        r.Version,
		Manufacturer:   r.Manufacturer,
		PartNumber:     r.PartNumber,
		PinCount:       r.PinCount,
		SerialNumber:   r.SerialNumber,
		VDD3V3B:        r.VDD3V3B,
		VDD5V:          r.VDD5V,
		SYS5V:          r.SYS5V,
		DCSupplied:     r.DCSupplied,
		Pins:           []PinView{},
		Size:           capeid.ImageSize,
	}
	for _, slot := range r.UsedPins() {
		cfg := r.Pins[slot]
		v.Pins = append(v.Pins, PinView{
			Pin:    capeid.SlotName(slot),
			Value:  fmt.Sprintf("0x%04X", uint16(cfg)),
			Config: cfg.String(),
		})
	}
	return v
}

func (v RecordView) String() string {
	var b strings.Builder
	sep := strings.Repeat("-", 50)
	fmt.Fprintln(&b, "EEPROM Contents:")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Header:       %s\n", strings.TrimPrefix(v.Magic, "0x"))
	fmt.Fprintf(&b, "EEPROM Rev:   %s\n", v.EEPROMRevision)
	fmt.Fprintf(&b, "Board Name:   %s\n", v.BoardName)
	fmt.Fprintf(&b, "Version:      %s\n", v.Version)
	fmt.Fprintf(&b, "Manufacturer: %s\n", v.Manufacturer)
	fmt.Fprintf(&b, "Part Number:  %s\n", v.PartNumber)
	fmt.Fprintf(&b, "Num Pins:     %d\n", v.PinCount)
	fmt.Fprintf(&b, "Serial:       %s\n", v.SerialNumber)
	fmt.Fprintf(&b, "VDD_3V3B:     %d mA\n", v.VDD3V3B)
	fmt.Fprintf(&b, "VDD_5V:       %d mA\n", v.VDD5V)
	fmt.Fprintf(&b, "SYS_5V:       %d mA\n", v.SYS5V)
	fmt.Fprintf(&b, "DC Supplied:  %d mA\n", v.DCSupplied)
	fmt.Fprintf(&b, "Total size:   %d bytes\n", v.Size)
	if len(v.Pins) > 0 {
		fmt.Fprintln(&b, "Pins:")
		for _, p := range v.Pins {
			fmt.Fprintf(&b, "  %s  %s  %s\n", p.Pin, p.Value, p.Config)
		}
	}
	b.WriteString(sep)
	return b.String()
}

// hexDump writes the first n bytes of data, 16 per line, with an ASCII
// column.
func hexDump(w io.Writer, data []byte, n int) {
	if n > len(data) {
		n = len(data)
	}
	for i := 0; i < n; i += 16 {
		end := i + 16
		if end > n {
			end = n
		}
		line := data[i:end]

		hexPart := make([]string, len(line))
		ascii := make([]byte, len(line))
		for j, c := range line {
			hexPart[j] = fmt.Sprintf("%02X", c)
			if c >= 32 && c < 127 {
				ascii[j] = c
			} else {
				ascii[j] = '.'
			}
		}
		fmt.Fprintf(w, "  %04X: %-48s |%s|\n", i, strings.Join(hexPart, " "), ascii)
	}
}
