package capeid

import (
	"fmt"
	"strconv"
	"strings"
)

// PinConfig is one 16-bit pin usage slot.
//
// Bit layout:
//
//	15    pin used
//	14-7  reserved (0)
//	6     slew rate slow
//	5     receiver enabled
//	4     pull-up selected (0 = pull-down)
//	3     pull disabled
//	2-0   mux mode
type PinConfig uint16

// Pin configuration bits.
const (
	PinUsed        PinConfig = 1 << 15
	PinSlewSlow    PinConfig = 1 << 6
	PinRxEnable    PinConfig = 1 << 5
	PinPullUp      PinConfig = 1 << 4
	PinPullDisable PinConfig = 1 << 3

	pinMuxMask      PinConfig = 0x0007
	pinReservedMask PinConfig = 0x7F80
)

// Expansion headers and their pin counts.
const (
	HeaderP8      = 8
	HeaderP9      = 9
	PinsPerHeader = 46

	// MaxMuxMode is the highest pad mux mode
	MaxMuxMode = 7
)

// NewPin returns a used pin slot with the given mux mode and flags.
//
// Example:
//
//	uart1rx, _ := capeid.NewPin(0, capeid.PinRxEnable|capeid.PinPullUp)
func NewPin(mux int, flags PinConfig) (PinConfig, error) {
	if mux < 0 || mux > MaxMuxMode {
		return 0, &InvalidFieldError{
			Field:  FieldPins,
			Value:  strconv.Itoa(mux),
			Reason: fmt.Sprintf("mux mode must be 0-%d", MaxMuxMode),
		}
	}
	flags &= PinSlewSlow | PinRxEnable | PinPullUp | PinPullDisable
	return PinUsed | flags | PinConfig(mux), nil
}

// Used reports whether the slot is marked as used.
func (p PinConfig) Used() bool { return p&PinUsed != 0 }

// Mux returns the pad mux mode.
func (p PinConfig) Mux() int { return int(p & pinMuxMask) }

func (p PinConfig) SlewSlow() bool     { return p&PinSlewSlow != 0 }
func (p PinConfig) RxEnabled() bool    { return p&PinRxEnable != 0 }
func (p PinConfig) PullUp() bool       { return p&PinPullUp != 0 }
func (p PinConfig) PullDisabled() bool { return p&PinPullDisable != 0 }

func (p PinConfig) String() string {
	if !p.Used() {
		return "unused"
	}
	parts := []string{fmt.Sprintf("mode%d", p.Mux())}
	if p.RxEnabled() {
		parts = append(parts, "rx")
	}
	switch {
	case p.PullDisabled():
		parts = append(parts, "nopull")
	case p.PullUp():
		parts = append(parts, "pullup")
	default:
		parts = append(parts, "pulldown")
	}
	if p.SlewSlow() {
		parts = append(parts, "slow")
	}
	return strings.Join(parts, " ")
}

// PinSlot returns the slot index of a header pin.
// P8 pins map to slots 0-45 and P9 pins to 46 onwards; P9 pins past the
// end of the table have no slot.
func PinSlot(header, pin int) (int, error) {
	if pin < 1 || pin > PinsPerHeader {
		return 0, &InvalidFieldError{
			Field:  FieldPins,
			Value:  pinName(header, pin),
			Reason: fmt.Sprintf("pin must be 1-%d", PinsPerHeader),
		}
	}

	var slot int
	switch header {
	case HeaderP8:
		slot = pin - 1
	case HeaderP9:
		slot = PinsPerHeader + pin - 1
	default:
		return 0, &InvalidFieldError{
			Field:  FieldPins,
			Value:  pinName(header, pin),
			Reason: "header must be P8 or P9",
		}
	}

	if slot >= PinSlots {
		return 0, &InvalidFieldError{
			Field:  FieldPins,
			Value:  pinName(header, pin),
			Reason: fmt.Sprintf("slot %d is beyond the %d-entry pin table", slot, PinSlots),
		}
	}
	return slot, nil
}

// SlotName returns the header pin name of a slot, e.g. "P9_26".
func SlotName(slot int) string {
	if slot < PinsPerHeader {
		return pinName(HeaderP8, slot+1)
	}
	return pinName(HeaderP9, slot-PinsPerHeader+1)
}

// ParsePinName parses names like "P9_26", "P9.26", "p9-26".
func ParsePinName(name string) (header, pin int, err error) {
	invalid := &InvalidFieldError{Field: FieldPins, Value: name, Reason: "expected P8_nn or P9_nn"}

	s := strings.ToUpper(strings.TrimSpace(name))
	if len(s) < 4 || s[0] != 'P' {
		return 0, 0, invalid
	}
	sep := strings.IndexAny(s, "_.-")
	if sep < 2 {
		return 0, 0, invalid
	}
	header, err = strconv.Atoi(s[1:sep])
	if err != nil {
		return 0, 0, invalid
	}
	pin, err = strconv.Atoi(s[sep+1:])
	if err != nil {
		return 0, 0, invalid
	}
	if _, err := PinSlot(header, pin); err != nil {
		return 0, 0, err
	}
	return header, pin, nil
}

// SetPin stores cfg in the slot of the given header pin.
func (r *Record) SetPin(header, pin int, cfg PinConfig) error {
	slot, err := PinSlot(header, pin)
	if err != nil {
		return err
	}
	r.Pins[slot] = cfg
	return nil
}

// UsedPins returns the slots marked as used, in slot order.
func (r *Record) UsedPins() []int {
	var slots []int
	for i, p := range r.Pins {
		if p.Used() {
			slots = append(slots, i)
		}
	}
	return slots
}

func pinName(header, pin int) string {
	return fmt.Sprintf("P%d_%02d", header, pin)
}
