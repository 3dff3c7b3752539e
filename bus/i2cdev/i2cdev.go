package i2cdev

import (
	"errors"
	"fmt"

	"github.com/d2r2/go-i2c"
	logger "github.com/d2r2/go-logger"

	"github.com/moffa90/go-sigmadsp/protocol"
)

// Bus is a bus.Bus backed by a Linux /dev/i2c-N adapter.
//
// Each target address gets its own file handle, opened on first use.
// The kernel issues a stop between the address phase and the data phase of
// a read; the ADAU1701 and 24xx EEPROMs keep their address pointer across it.
type Bus struct {
	adapter int
	handles map[uint8]*i2c.I2C
	target  uint8
	tx      []byte
	rx      []byte
}

// Open returns a bus on /dev/i2c-<adapter>.
//
// go-i2c logs every transfer at debug level; Open lowers its package logger
// to info so programming an EEPROM does not flood the output.
func Open(adapter int) (*Bus, error) {
	if adapter < 0 {
		return nil, fmt.Errorf("invalid i2c adapter number %d", adapter)
	}
	if err := logger.ChangePackageLogLevel("i2c", logger.InfoLevel); err != nil {
		return nil, fmt.Errorf("quiet go-i2c logging: %w", err)
	}

	return &Bus{
		adapter: adapter,
		handles: make(map[uint8]*i2c.I2C),
	}, nil
}

func (b *Bus) handle(addr uint8) (*i2c.I2C, error) {
	if h, ok := b.handles[addr]; ok {
		return h, nil
	}
	h, err := i2c.NewI2C(addr, b.adapter)
	if err != nil {
		return nil, err
	}
	b.handles[addr] = h
	return h, nil
}

// BeginTransfer implements bus.Bus.
func (b *Bus) BeginTransfer(addr uint8) {
	b.target = addr
	b.tx = b.tx[:0]
}

// WriteByte implements bus.Bus.
func (b *Bus) WriteByte(c byte) error {
	if len(b.tx) >= protocol.MaxTransferSize {
		return errors.New("i2cdev: transmit buffer full")
	}
	b.tx = append(b.tx, c)
	return nil
}

// EndTransfer implements bus.Bus. The stop flag has no effect: the kernel
// always terminates a write with a stop condition.
func (b *Bus) EndTransfer(stop bool) protocol.Status {
	h, err := b.handle(b.target)
	if err != nil {
		return protocol.StatusOther
	}

	if len(b.tx) == 0 {
		// Zero-length writes are not supported by every adapter; probe
		// with a one-byte read instead.
		if _, err := h.ReadBytes(make([]byte, 1)); err != nil {
			return statusFromErrno(err)
		}
		return protocol.StatusOK
	}

	n, err := h.WriteBytes(b.tx)
	if err != nil {
		return statusFromErrno(err)
	}
	if n != len(b.tx) {
		return protocol.StatusDataNack
	}
	return protocol.StatusOK
}

// RequestBytes implements bus.Bus.
func (b *Bus) RequestBytes(addr uint8, n int) int {
	b.rx = b.rx[:0]

	h, err := b.handle(addr)
	if err != nil {
		return 0
	}
	buf := make([]byte, n)
	got, err := h.ReadBytes(buf)
	if err != nil {
		return 0
	}
	b.rx = append(b.rx, buf[:got]...)
	return got
}

// ReadByte implements bus.Bus.
func (b *Bus) ReadByte() (byte, error) {
	if len(b.rx) == 0 {
		return 0, errors.New("i2cdev: no data available")
	}
	c := b.rx[0]
	b.rx = b.rx[1:]
	return c, nil
}

// SetClockSpeed implements bus.Bus. The adapter clock is fixed by the kernel
// (device tree or module parameter), so this always fails.
func (b *Bus) SetClockSpeed(hz uint32) error {
	return fmt.Errorf("i2cdev: set clock to %d Hz: %w", hz, errors.ErrUnsupported)
}

// Close releases every open handle.
func (b *Bus) Close() error {
	var errs []error
	for addr, h := range b.handles {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close 0x%02X: %w", addr, err))
		}
		delete(b.handles, addr)
	}
	return errors.Join(errs...)
}
