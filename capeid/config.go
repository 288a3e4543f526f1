package capeid

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"
)

// Description is the on-disk form of an identity record.
// Omitted fields take their DefaultRecord values; a non-nil Pins list
// replaces the default pin table.
//
// YAML:
//
//	board_name: BB-IO-CAPE
//	version: "0002"
//	vdd_3v3b_ma: 120
//	pins:
//	  - {name: P9_26, mux: 0, rx: true}
//	  - {name: P9_24, mux: 0}
//
// HCL:
//
//	board_name  = "BB-IO-CAPE"
//	version     = "0002"
//	vdd_3v3b_ma = 120
//	pin "P9_26" {
//	  mux = 0
//	  rx  = true
//	}
type Description struct {
	EEPROMRevision string `yaml:"eeprom_revision" hcl:"eeprom_revision,optional"`
	BoardName      string `yaml:"board_name" hcl:"board_name,optional"`
	Version        string `yaml:"version" hcl:"version,optional"`
	Manufacturer   string `yaml:"manufacturer" hcl:"manufacturer,optional"`
	PartNumber     string `yaml:"part_number" hcl:"part_number,optional"`
	SerialNumber   string `yaml:"serial_number" hcl:"serial_number,optional"`

	PinCount      *int `yaml:"pin_count" hcl:"pin_count,optional"`
	VDD3V3BMilliA *int `yaml:"vdd_3v3b_ma" hcl:"vdd_3v3b_ma,optional"`
	VDD5VMilliA   *int `yaml:"vdd_5v_ma" hcl:"vdd_5v_ma,optional"`
	SYS5VMilliA   *int `yaml:"sys_5v_ma" hcl:"sys_5v_ma,optional"`
	DCSuppliedMA  *int `yaml:"dc_supplied_ma" hcl:"dc_supplied_ma,optional"`

	Pins []PinDescription `yaml:"pins" hcl:"pin,block"`
}

// PinDescription configures one header pin.
type PinDescription struct {
	Name string `yaml:"name" hcl:"name,label"`
	Mux  int    `yaml:"mux" hcl:"mux"`
	Rx   bool   `yaml:"rx" hcl:"rx,optional"`

	// Pull is "up" (default), "down" or "none"
	Pull string `yaml:"pull" hcl:"pull,optional"`
	Slow bool   `yaml:"slow" hcl:"slow,optional"`
}

// LoadFile reads an identity description and returns the resulting record.
// The format is chosen by extension: .yaml and .yml are YAML, .hcl and
// .json are HCL.
func LoadFile(path string) (*Record, error) {
	var desc Description

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read description: %w", err)
		}
		if err := decodeYAML(data, &desc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".hcl", ".json":
		if err := hclsimple.DecodeFile(path, nil, &desc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported description format %q", path, ext)
	}

	rec, err := desc.Record()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// LoadYAML decodes a YAML description from r.
func LoadYAML(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	var desc Description
	if err := decodeYAML(data, &desc); err != nil {
		return nil, err
	}
	return desc.Record()
}

func decodeYAML(data []byte, desc *Description) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(desc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// Record applies the description over DefaultRecord and validates the result.
func (d *Description) Record() (*Record, error) {
	r := DefaultRecord()

	setString(&r.EEPROMRevision, d.EEPROMRevision)
	setString(&r.BoardName, d.BoardName)
	setString(&r.Version, d.Version)
	setString(&r.Manufacturer, d.Manufacturer)
	setString(&r.PartNumber, d.PartNumber)
	setString(&r.SerialNumber, d.SerialNumber)

	numbers := []struct {
		name string
		src  *int
		dst  *uint16
	}{
		{"pin_count", d.PinCount, &r.PinCount},
		{"vdd_3v3b_ma", d.VDD3V3BMilliA, &r.VDD3V3B},
		{"vdd_5v_ma", d.VDD5VMilliA, &r.VDD5V},
		{"sys_5v_ma", d.SYS5VMilliA, &r.SYS5V},
		{"dc_supplied_ma", d.DCSuppliedMA, &r.DCSupplied},
	}
	for _, n := range numbers {
		if n.src == nil {
			continue
		}
		if *n.src < 0 || *n.src > 0xFFFF {
			return nil, &InvalidFieldError{Field: n.name, Value: fmt.Sprint(*n.src), Reason: "must be 0-65535"}
		}
		*n.dst = uint16(*n.src)
	}

	if d.Pins != nil {
		r.Pins = [PinSlots]PinConfig{}
		for _, p := range d.Pins {
			if err := p.apply(r); err != nil {
				return nil, err
			}
		}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (p PinDescription) apply(r *Record) error {
	header, pin, err := ParsePinName(p.Name)
	if err != nil {
		return err
	}

	var flags PinConfig
	switch strings.ToLower(p.Pull) {
	case "", "up":
		flags |= PinPullUp
	case "down":
	case "none":
		flags |= PinPullDisable
	default:
		return &InvalidFieldError{Field: FieldPins, Value: p.Pull, Reason: `pull must be "up", "down" or "none"`}
	}
	if p.Rx {
		flags |= PinRxEnable
	}
	if p.Slow {
		flags |= PinSlewSlow
	}

	cfg, err := NewPin(p.Mux, flags)
	if err != nil {
		return err
	}
	return r.SetPin(header, pin, cfg)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
