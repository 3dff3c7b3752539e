package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// BuildAddress constructs the address phase of a transaction: the 2-byte
// big-endian register address with no payload. It is sent before a read.
//
// Frame structure:
//
//	[ADDR_H][ADDR_L]
func BuildAddress(address uint16) []byte {
	frame := make([]byte, AddressSize)
	binary.BigEndian.PutUint16(frame, address)
	return frame
}

// BuildRegisterWrite constructs a register write transaction.
// The frame, address included, must fit in MaxTransferSize bytes.
//
// Frame structure:
//
//	[ADDR_H][ADDR_L][DATA...]
//
// Returns the complete frame ready to send, or an error if validation fails.
func BuildRegisterWrite(address uint16, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("data length %d exceeds maximum %d bytes", len(data), MaxDataSize)
	}

	frame := make([]byte, 0, AddressSize+len(data))
	frame = append(frame, BuildAddress(address)...)
	frame = append(frame, data...)

	return frame, nil
}

// BuildSafeloadAddressCmd constructs the write of a parameter address into
// safeload address slot `slot` (0x0815 + slot).
//
// Frame structure:
//
//	[0x08][0x15+SLOT][PARAM_ADDR_H][PARAM_ADDR_L]
func BuildSafeloadAddressCmd(slot int, paramAddress uint16) ([]byte, error) {
	if slot < 0 || slot >= SafeloadSlots {
		return nil, fmt.Errorf("safeload slot %d out of range 0-%d", slot, SafeloadSlots-1)
	}

	payload := make([]byte, SafeloadAddressSize)
	binary.BigEndian.PutUint16(payload, paramAddress)

	return BuildRegisterWrite(RegSafeloadAddress0+uint16(slot), payload)
}

// BuildSafeloadDataCmd constructs the write of a parameter word into
// safeload data slot `slot` (0x0810 + slot).
//
// Frame structure:
//
//	[0x08][0x10+SLOT][0x00][B3][B2][B1][B0]
func BuildSafeloadDataCmd(slot int, word fixed.Word) ([]byte, error) {
	if slot < 0 || slot >= SafeloadSlots {
		return nil, fmt.Errorf("safeload slot %d out of range 0-%d", slot, SafeloadSlots-1)
	}

	return BuildRegisterWrite(RegSafeloadData0+uint16(slot), word.Bytes())
}

// BuildInitiateSafeloadCmd constructs the core register write that copies all
// staged safeload slots into parameter RAM in one step.
//
// Frame structure:
//
//	[0x08][0x1C][0x00][0x3C]
func BuildInitiateSafeloadCmd() []byte {
	frame := BuildAddress(RegCore)
	return binary.BigEndian.AppendUint16(frame, CoreInitiateSafeload)
}

// BuildReadbackCmd constructs the data capture setup write: the program step
// whose output should be captured, in the 2-byte capture register format.
//
// Frame structure:
//
//	[ADDR_H][ADDR_L][COUNT_H][COUNT_L]
func BuildReadbackCmd(register uint16, captureCount uint16) ([]byte, error) {
	if register != RegDataCapture0 && register != RegDataCapture1 {
		return nil, fmt.Errorf("register 0x%04X is not a data capture register", register)
	}

	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, captureCount)

	return BuildRegisterWrite(register, payload)
}
