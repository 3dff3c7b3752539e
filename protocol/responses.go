package protocol

import (
	"fmt"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// ReadbackSize is the number of bytes returned by a data capture register.
const ReadbackSize = 3

// ParseRegisterValue concatenates the bytes read from a register into an
// unsigned integer, most significant byte first.
//
// Example:
//
//	v, _ := protocol.ParseRegisterValue([]byte{0x00, 0x1C}) // 0x001C
func ParseRegisterValue(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("register value cannot be empty")
	}
	if len(data) > 8 {
		return 0, fmt.Errorf("register value of %d bytes does not fit in 64 bits", len(data))
	}

	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// ParseReadback converts the 3 bytes read from a data capture register
// (5.19 fixed point) to a real number.
func ParseReadback(data []byte) (float64, error) {
	if len(data) != ReadbackSize {
		return 0, fmt.Errorf("invalid readback length: got %d bytes, expected %d", len(data), ReadbackSize)
	}

	return fixed.Decode519([3]byte{data[0], data[1], data[2]}), nil
}
