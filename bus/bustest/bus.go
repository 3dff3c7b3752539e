package bustest

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-sigmadsp/protocol"
)

// Device is a simulated bus target.
type Device interface {
	// Write receives the bytes of one write transaction, device address
	// excluded. An empty slice is an address-only probe.
	Write(data []byte) protocol.Status

	// Read returns n bytes for a read transaction.
	Read(n int) []byte
}

// Transfer is one recorded transaction.
type Transfer struct {
	Device uint8
	Read   bool
	Data   []byte
	Status protocol.Status
}

func (t Transfer) String() string {
	dir := "W"
	if t.Read {
		dir = "R"
	}
	return fmt.Sprintf("%s 0x%02X [% X] %s", dir, t.Device, t.Data, t.Status)
}

// Transaction splits a write transfer into register address and payload.
// It returns false for reads and for transfers shorter than an address.
func (t Transfer) Transaction() (protocol.Transaction, bool) {
	if t.Read || len(t.Data) < protocol.AddressSize {
		return protocol.Transaction{}, false
	}
	return protocol.Transaction{
		Address: uint16(t.Data[0])<<8 | uint16(t.Data[1]),
		Data:    t.Data[protocol.AddressSize:],
	}, true
}

// Bus is an in-memory implementation of bus.Bus. Every transaction is
// recorded in Transfers.
type Bus struct {
	// MaxTransfer is the transmit buffer size, 32 bytes by default
	MaxTransfer int

	// Fault, when set, is consulted before a write transaction is delivered.
	// A status other than protocol.StatusOK drops the transaction and is
	// returned from EndTransfer.
	Fault func(t Transfer) protocol.Status

	// Transfers lists every completed transaction in order
	Transfers []Transfer

	// ClockSpeed is the last value passed to SetClockSpeed
	ClockSpeed uint32

	devices map[uint8]Device
	target  uint8
	tx      []byte
	rx      []byte
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		MaxTransfer: protocol.MaxTransferSize,
		devices:     make(map[uint8]Device),
	}
}

// Attach connects dev at the 7-bit address addr.
func (b *Bus) Attach(addr uint8, dev Device) {
	b.devices[addr] = dev
}

// BeginTransfer implements bus.Bus.
func (b *Bus) BeginTransfer(addr uint8) {
	b.target = addr
	b.tx = b.tx[:0]
}

// WriteByte implements bus.Bus.
func (b *Bus) WriteByte(c byte) error {
	if len(b.tx) >= b.MaxTransfer {
		return errors.New("bustest: transmit buffer full")
	}
	b.tx = append(b.tx, c)
	return nil
}

// EndTransfer implements bus.Bus.
func (b *Bus) EndTransfer(stop bool) protocol.Status {
	t := Transfer{Device: b.target, Data: append([]byte(nil), b.tx...)}
	b.tx = b.tx[:0]

	dev, ok := b.devices[t.Device]
	switch {
	case !ok:
		t.Status = protocol.StatusAddressNack
	case b.Fault != nil:
		t.Status = b.Fault(t)
	}
	if ok && t.Status == protocol.StatusOK {
		t.Status = dev.Write(t.Data)
	}

	b.Transfers = append(b.Transfers, t)
	return t.Status
}

// RequestBytes implements bus.Bus.
func (b *Bus) RequestBytes(addr uint8, n int) int {
	b.rx = b.rx[:0]

	dev, ok := b.devices[addr]
	if !ok {
		b.Transfers = append(b.Transfers, Transfer{Device: addr, Read: true, Status: protocol.StatusAddressNack})
		return 0
	}

	data := dev.Read(n)
	b.rx = append(b.rx, data...)
	b.Transfers = append(b.Transfers, Transfer{Device: addr, Read: true, Data: append([]byte(nil), data...)})
	return len(data)
}

// ReadByte implements bus.Bus.
func (b *Bus) ReadByte() (byte, error) {
	if len(b.rx) == 0 {
		return 0, errors.New("bustest: no data available")
	}
	c := b.rx[0]
	b.rx = b.rx[1:]
	return c, nil
}

// SetClockSpeed implements bus.Bus.
func (b *Bus) SetClockSpeed(hz uint32) error {
	b.ClockSpeed = hz
	return nil
}

// Writes returns the write transactions addressed to device.
func (b *Bus) Writes(device uint8) []Transfer {
	var out []Transfer
	for _, t := range b.Transfers {
		if t.Device == device && !t.Read {
			out = append(out, t)
		}
	}
	return out
}

// Reset forgets the recorded transfers.
func (b *Bus) Reset() {
	b.Transfers = nil
}

// Pin records the levels an output line was driven to.
type Pin struct {
	Levels []bool
	Err    error
}

// Set implements bus.Pin.
func (p *Pin) Set(high bool) error {
	if p.Err != nil {
		return p.Err
	}
	p.Levels = append(p.Levels, high)
	return nil
}

// Toggles returns the number of level changes recorded.
func (p *Pin) Toggles() int {
	n := 0
	for i := 1; i < len(p.Levels); i++ {
		if p.Levels[i] != p.Levels[i-1] {
			n++
		}
	}
	return n
}
