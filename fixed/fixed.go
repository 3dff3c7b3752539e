package fixed

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Wire format constants for SigmaDSP parameter words.
const (
	// WordSize is the size of a parameter word on the bus.
	// The safeload data registers are 5 bytes wide because they are shared
	// with the slew RAM; parameter RAM only uses the low 4 bytes.
	WordSize = 5

	// FractionalBits is the number of fractional bits in the 5.23 format
	FractionalBits = 23

	// Scale is 2^FractionalBits, the value of 1.0 in 5.23
	Scale = 1 << FractionalBits

	// MinFloat is the smallest value representable in 5.23
	MinFloat = -16.0

	// MaxFloat is the exclusive upper bound of 5.23
	MaxFloat = 16.0

	// readbackFractionalBits is the fractional width of the 5.19 capture format
	readbackFractionalBits = 19
)

// Word is one encoded parameter word: byte 0 is always 0x00, bytes 1-4 hold a
// big-endian two's-complement int32.
type Word [WordSize]byte

// EncodeFloat converts a real value to a 5.23 word.
// The value is rounded to the nearest step and wraps on overflow; no clamping
// is performed.
//
// Example:
//
//	w := fixed.EncodeFloat(1.0) // 00 00 80 00 00
func EncodeFloat(v float64) Word {
	return EncodeInt(FloatToInt(v))
}

// EncodeInt converts an integer to a 28.0 word without scaling.
func EncodeInt(v int32) Word {
	var w Word
	binary.BigEndian.PutUint32(w[1:], uint32(v))
	return w
}

// FloatToInt returns the raw 5.23 integer for v, round(v * 2^23).
func FloatToInt(v float64) int32 {
	// Through int64 so out-of-range values wrap instead of saturating.
	return int32(int64(math.Round(v * Scale)))
}

// Decode interprets a word as 5.23.
func Decode(w Word) float64 {
	return float64(DecodeInt(w)) / Scale
}

// DecodeInt interprets a word as 28.0.
func DecodeInt(w Word) int32 {
	return int32(binary.BigEndian.Uint32(w[1:]))
}

// Decode519 converts a 3-byte 5.19 readback value (as returned by the data
// capture registers) to a real number.
func Decode519(b [3]byte) float64 {
	raw := int32(uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8) >> 8
	return float64(raw) / (1 << readbackFractionalBits)
}

// Bytes returns the word as a slice, ready to be written to the bus.
func (w Word) Bytes() []byte {
	return w[:]
}

func (w Word) String() string {
	return fmt.Sprintf("%02X %02X %02X %02X %02X", w[0], w[1], w[2], w[3], w[4])
}
