// Package fixed implements the SigmaDSP parameter word format.
//
// # Word Format
//
// Every parameter travels as 5 bytes:
//
//	[0x00][B31..B24][B23..B16][B15..B8][B7..B0]
//
// The first byte is padding. The remaining four bytes hold a big-endian
// two's-complement integer which is interpreted either as
//   - 5.23 fixed point: value = int / 2^23, range [-16, 16)
//   - 28.0 integer: value = int (indices, masks, sample counts)
//
// Both formats share the same layout; which one applies is decided by the
// caller, so values are carried as a tagged Value:
//
//	fixed.Float(0.5).Word() // 00 00 40 00 00
//	fixed.Int(255).Word()   // 00 00 00 00 FF
//
// # Readback
//
// The data capture registers return 3-byte 5.19 numbers; see Decode519.
package fixed
