package capeid

import (
	"errors"
	"fmt"
)

// ErrBadMagic indicates that an image does not start with the cape magic.
var ErrBadMagic = errors.New("missing cape EEPROM magic 0xAA5533EE")

// FieldTooLongError indicates that a string field does not fit its byte budget.
type FieldTooLongError struct {
	Field  string
	Max    int
	Length int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("field %s is %d bytes, maximum is %d", e.Field, e.Length, e.Max)
}

// InvalidFieldError indicates that a field value does not match its format.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ImageSizeError indicates that an image is not exactly ImageSize bytes.
type ImageSizeError struct {
	Length int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("image is %d bytes, expected %d", e.Length, ImageSize)
}
