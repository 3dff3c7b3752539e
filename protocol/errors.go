package protocol

import (
	"errors"
	"fmt"
)

// BusError represents a failed bus transaction.
// Contains the status code reported by the transport.
type BusError struct {
	// Operation is the operation that failed
	Operation string

	// Device is the 7-bit I²C address of the target
	Device uint8

	// Address is the register or memory address of the transaction
	Address uint16

	// Status is the transport status code
	Status Status
}

func (e *BusError) Error() string {
	return fmt.Sprintf("%s failed: device 0x%02X register 0x%04X: %s (%d)",
		e.Operation, e.Device, e.Address, getStatusName(e.Status), e.Status)
}

// IsBusError returns true if the error is, or wraps, a BusError.
func IsBusError(err error) bool {
	var be *BusError
	return errors.As(err, &be)
}

// StatusOf returns the bus status carried by err: StatusOK for nil,
// the BusError status when err wraps one, StatusOther otherwise.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var be *BusError
	if errors.As(err, &be) {
		return be.Status
	}
	return StatusOther
}

// getStatusName returns a human-readable name for a status code.
func getStatusName(code Status) string {
	switch code {
	case StatusOK:
		return "success"
	case StatusDataTooLong:
		return "data too long"
	case StatusAddressNack:
		return "address not acknowledged"
	case StatusDataNack:
		return "data not acknowledged"
	case StatusOther:
		return "unknown error"
	default:
		return fmt.Sprintf("unknown status code %d", byte(code))
	}
}
