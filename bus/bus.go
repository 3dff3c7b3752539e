package bus

import (
	"github.com/moffa90/go-sigmadsp/protocol"
)

// Bus is a byte-oriented two-wire bus master.
//
// A write transaction is BeginTransfer, one WriteByte per byte and
// EndTransfer. A read transaction is RequestBytes followed by one ReadByte
// per byte received. Implementations buffer the bytes of a transaction and
// put them on the wire in EndTransfer, so the returned Status covers the
// whole transaction.
//
// Implementations are not required to be safe for concurrent use.
type Bus interface {
	// BeginTransfer starts buffering a write transaction to the 7-bit
	// device address addr.
	BeginTransfer(addr uint8)

	// WriteByte appends b to the current transaction. It fails when the
	// transmit buffer is full.
	WriteByte(b byte) error

	// EndTransfer sends the buffered transaction. With stop false the bus is
	// kept for a repeated start.
	EndTransfer(stop bool) protocol.Status

	// RequestBytes reads n bytes from the device and returns how many were
	// received.
	RequestBytes(addr uint8, n int) int

	// ReadByte returns the next byte received by RequestBytes.
	ReadByte() (byte, error)

	// SetClockSpeed sets the bus clock frequency in Hz.
	SetClockSpeed(hz uint32) error
}

// Pin is a digital output line, used for the DSP reset line and the
// programming LED.
type Pin interface {
	Set(high bool) error
}

// Write sends frame to device as one transaction and returns the bus status.
func Write(b Bus, device uint8, frame []byte) protocol.Status {
	b.BeginTransfer(device)
	for _, c := range frame {
		if err := b.WriteByte(c); err != nil {
			b.EndTransfer(true)
			return protocol.StatusDataTooLong
		}
	}
	return b.EndTransfer(true)
}

// Read writes the address phase without a stop, then reads n bytes with a
// repeated start.
func Read(b Bus, device uint8, address []byte, n int) ([]byte, protocol.Status) {
	b.BeginTransfer(device)
	for _, c := range address {
		if err := b.WriteByte(c); err != nil {
			b.EndTransfer(true)
			return nil, protocol.StatusDataTooLong
		}
	}
	if status := b.EndTransfer(false); status != protocol.StatusOK {
		return nil, status
	}

	if got := b.RequestBytes(device, n); got != n {
		// Drain whatever arrived so the next read starts clean.
		for i := 0; i < got; i++ {
			_, _ = b.ReadByte()
		}
		return nil, protocol.StatusOther
	}

	data := make([]byte, n)
	for i := range data {
		c, err := b.ReadByte()
		if err != nil {
			return nil, protocol.StatusOther
		}
		data[i] = c
	}
	return data, protocol.StatusOK
}

// Probe addresses device with an empty write and reports whether it
// acknowledged.
func Probe(b Bus, device uint8) protocol.Status {
	b.BeginTransfer(device)
	return b.EndTransfer(true)
}

// Check converts a transaction status to an error. It returns nil for
// protocol.StatusOK and a *protocol.BusError otherwise.
func Check(op string, device uint8, address uint16, status protocol.Status) error {
	if status == protocol.StatusOK {
		return nil
	}
	return &protocol.BusError{
		Operation: op,
		Device:    device,
		Address:   address,
		Status:    status,
	}
}
