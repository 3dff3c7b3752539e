package buspirate

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pkg/term"

	"github.com/moffa90/go-sigmadsp/protocol"
)

// Binary mode commands.
const (
	cmdReset      = 0x00
	cmdI2CMode    = 0x02
	cmdExit       = 0x0F
	cmdStart      = 0x02
	cmdStop       = 0x03
	cmdReadByte   = 0x04
	cmdACK        = 0x06
	cmdNACK       = 0x07
	cmdBulkWrite  = 0x10
	cmdPeripheral = 0x40
	cmdSpeed      = 0x60

	peripheralPower   = 0x08
	peripheralPullups = 0x04
	peripheralAUX     = 0x02

	respOK   = 0x01
	respACK  = 0x00
	maxBulk  = 16
	maxEntry = 20
)

// DefaultBaud is the serial speed of the Bus Pirate v3 and v4.
const DefaultBaud = 115200

// Bus is a bus.Bus driving a Bus Pirate in binary I2C mode.
type Bus struct {
	port        io.ReadWriter
	peripherals byte
	target      uint8
	tx          []byte
	rx          []byte
}

// Open opens the serial device at path, enters binary I2C mode and turns on
// the power supplies and pull-up resistors.
func Open(path string) (*Bus, error) {
	t, err := term.Open(path, term.Speed(DefaultBaud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := t.SetReadTimeout(100 * time.Millisecond); err != nil {
		t.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if err := t.Flush(); err != nil {
		t.Close()
		return nil, fmt.Errorf("flush: %w", err)
	}

	b, err := New(t)
	if err != nil {
		t.Close()
		return nil, err
	}
	return b, nil
}

// New enters binary I2C mode on an already open port and turns on the power
// supplies and pull-up resistors.
func New(port io.ReadWriter) (*Bus, error) {
	b := &Bus{port: port}

	if err := b.enterBitbang(); err != nil {
		return nil, err
	}
	if err := b.expect([]byte{cmdI2CMode}, "I2C1"); err != nil {
		return nil, fmt.Errorf("enter i2c mode: %w", err)
	}
	if err := b.setPeripherals(peripheralPower | peripheralPullups); err != nil {
		return nil, fmt.Errorf("enable power: %w", err)
	}
	return b, nil
}

// enterBitbang sends 0x00 until the Bus Pirate answers BBIO1. Up to 20
// resets are needed when it is in the middle of a menu.
func (b *Bus) enterBitbang() error {
	for i := 0; i < maxEntry; i++ {
		if err := b.expect([]byte{cmdReset}, "BBIO1"); err == nil {
			return nil
		}
	}
	return errors.New("buspirate: no response to binary mode entry")
}

func (b *Bus) expect(cmd []byte, reply string) error {
	if _, err := b.port.Write(cmd); err != nil {
		return err
	}
	buf := make([]byte, len(reply))
	if _, err := io.ReadFull(b.port, buf); err != nil {
		return err
	}
	if string(buf) != reply {
		return fmt.Errorf("buspirate: got %q, want %q", buf, reply)
	}
	return nil
}

// command sends a one-byte command and checks the 0x01 acknowledge.
func (b *Bus) command(c byte) error {
	if _, err := b.port.Write([]byte{c}); err != nil {
		return err
	}
	var resp [1]byte
	if _, err := io.ReadFull(b.port, resp[:]); err != nil {
		return err
	}
	if resp[0] != respOK {
		return fmt.Errorf("buspirate: command 0x%02X failed: 0x%02X", c, resp[0])
	}
	return nil
}

func (b *Bus) setPeripherals(bits byte) error {
	if err := b.command(cmdPeripheral | bits); err != nil {
		return err
	}
	b.peripherals = bits
	return nil
}

// bulkWrite clocks out data and returns the index of the first byte that was
// not acknowledged, or -1.
func (b *Bus) bulkWrite(data []byte) (int, error) {
	for off := 0; off < len(data); off += maxBulk {
		chunk := data[off:min(off+maxBulk, len(data))]
		if err := b.command(cmdBulkWrite | byte(len(chunk)-1)); err != nil {
			return -1, err
		}
		if _, err := b.port.Write(chunk); err != nil {
			return -1, err
		}
		acks := make([]byte, len(chunk))
		if _, err := io.ReadFull(b.port, acks); err != nil {
			return -1, err
		}
		for i, a := range acks {
			if a != respACK {
				return off + i, nil
			}
		}
	}
	return -1, nil
}

// BeginTransfer implements bus.Bus.
func (b *Bus) BeginTransfer(addr uint8) {
	b.target = addr
	b.tx = b.tx[:0]
}

// WriteByte implements bus.Bus.
func (b *Bus) WriteByte(c byte) error {
	if len(b.tx) >= protocol.MaxTransferSize {
		return errors.New("buspirate: transmit buffer full")
	}
	b.tx = append(b.tx, c)
	return nil
}

// EndTransfer implements bus.Bus. With stop false the next transaction begins
// with a repeated start.
func (b *Bus) EndTransfer(stop bool) protocol.Status {
	if err := b.command(cmdStart); err != nil {
		return protocol.StatusOther
	}

	frame := append([]byte{b.target << 1}, b.tx...)
	nack, err := b.bulkWrite(frame)
	switch {
	case err != nil:
		return protocol.StatusOther
	case nack == 0:
		b.stop()
		return protocol.StatusAddressNack
	case nack > 0:
		b.stop()
		return protocol.StatusDataNack
	}

	if stop {
		if err := b.stop(); err != nil {
			return protocol.StatusOther
		}
	}
	return protocol.StatusOK
}

func (b *Bus) stop() error {
	return b.command(cmdStop)
}

// RequestBytes implements bus.Bus.
func (b *Bus) RequestBytes(addr uint8, n int) int {
	b.rx = b.rx[:0]

	if err := b.command(cmdStart); err != nil {
		return 0
	}
	defer b.stop()

	if nack, err := b.bulkWrite([]byte{addr<<1 | 1}); err != nil || nack >= 0 {
		return 0
	}

	for i := 0; i < n; i++ {
		if _, err := b.port.Write([]byte{cmdReadByte}); err != nil {
			return len(b.rx)
		}
		var c [1]byte
		if _, err := io.ReadFull(b.port, c[:]); err != nil {
			return len(b.rx)
		}
		b.rx = append(b.rx, c[0])

		// The master acknowledges every byte but the last.
		ack := byte(cmdACK)
		if i == n-1 {
			ack = cmdNACK
		}
		if err := b.command(ack); err != nil {
			return len(b.rx)
		}
	}
	return len(b.rx)
}

// ReadByte implements bus.Bus.
func (b *Bus) ReadByte() (byte, error) {
	if len(b.rx) == 0 {
		return 0, errors.New("buspirate: no data available")
	}
	c := b.rx[0]
	b.rx = b.rx[1:]
	return c, nil
}

// SetClockSpeed implements bus.Bus. The Bus Pirate supports 5, 50, 100 and
// 400 kHz; the fastest setting not above hz is used.
func (b *Bus) SetClockSpeed(hz uint32) error {
	var n byte
	switch {
	case hz >= 400000:
		n = 3
	case hz >= 100000:
		n = 2
	case hz >= 50000:
		n = 1
	case hz >= 5000:
		n = 0
	default:
		return fmt.Errorf("buspirate: clock %d Hz below the 5 kHz minimum", hz)
	}
	return b.command(cmdSpeed | n)
}

// AUX returns the AUX output, usable as the DSP reset line or a status LED.
func (b *Bus) AUX() *AuxPin {
	return &AuxPin{bus: b}
}

// AuxPin is the Bus Pirate AUX output line.
type AuxPin struct {
	bus *Bus
}

// Set implements bus.Pin.
func (p *AuxPin) Set(high bool) error {
	bits := p.bus.peripherals &^ peripheralAUX
	if high {
		bits |= peripheralAUX
	}
	return p.bus.setPeripherals(bits)
}

// Close leaves binary mode and closes the port if it is an io.Closer.
func (b *Bus) Close() error {
	var errs []error
	if _, err := b.port.Write([]byte{cmdReset, cmdExit}); err != nil {
		errs = append(errs, err)
	}
	if c, ok := b.port.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
