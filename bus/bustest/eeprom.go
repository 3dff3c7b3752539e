package bustest

import (
	"encoding/binary"

	"github.com/moffa90/go-sigmadsp/protocol"
)

// EEPROM simulates a 24xx serial EEPROM with 2-byte addressing.
type EEPROM struct {
	// Mem is the memory array, erased to 0xFF
	Mem []byte

	// ByteWrites counts the data bytes programmed
	ByteWrites int

	pointer int
}

// NewEEPROM creates an erased EEPROM of kbit kilobits.
func NewEEPROM(kbit int) *EEPROM {
	mem := make([]byte, kbit*1024/8)
	for i := range mem {
		mem[i] = protocol.EEPROMEmptyByte
	}
	return &EEPROM{Mem: mem}
}

// Write implements Device. The first two bytes set the address pointer and
// the rest are programmed sequentially, wrapping at the end of the array.
func (e *EEPROM) Write(data []byte) protocol.Status {
	if len(data) == 0 {
		return protocol.StatusOK
	}
	if len(data) < protocol.AddressSize {
		return protocol.StatusDataNack
	}

	e.pointer = int(binary.BigEndian.Uint16(data)) % len(e.Mem)
	for _, c := range data[protocol.AddressSize:] {
		e.Mem[e.pointer] = c
		e.pointer = (e.pointer + 1) % len(e.Mem)
		e.ByteWrites++
	}
	return protocol.StatusOK
}

// Read implements Device with sequential reads from the address pointer.
func (e *EEPROM) Read(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = e.Mem[e.pointer]
		e.pointer = (e.pointer + 1) % len(e.Mem)
	}
	return out
}
