package eeprom

import (
	"errors"
	"fmt"
)

// CapacityError indicates an EEPROM size with no known version tag address.
type CapacityError struct {
	Kbit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("unsupported EEPROM capacity %d kbit: supported sizes are 64, 128, 256 and 512 kbit", e.Kbit)
}

// ImageTooLargeError indicates an image that would overwrite the version tag.
type ImageTooLargeError struct {
	Size  int
	Limit int
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("image of %d bytes does not fit: limit is %d bytes", e.Size, e.Limit)
}

// VerificationError indicates that the version tag read back after
// programming differs from the one written.
type VerificationError struct {
	Expected byte
	Actual   byte
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("firmware verification failed: version tag is 0x%02X, expected 0x%02X",
		e.Actual, e.Expected)
}

// IsVerificationError returns true if the error is a VerificationError.
func IsVerificationError(err error) bool {
	var ve *VerificationError
	return errors.As(err, &ve)
}
