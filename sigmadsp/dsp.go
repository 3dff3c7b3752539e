package sigmadsp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moffa90/go-sigmadsp/bus"
	"github.com/moffa90/go-sigmadsp/project"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// ErrNoResetPin is returned by Reset when no reset pin is configured.
var ErrNoResetPin = errors.New("no reset pin configured")

// DSP controls one ADAU1701 over a two-wire bus.
//
// DSP keeps the state of the safeload batch being staged and is not safe for
// concurrent use. Each DSP on a bus needs its own instance.
type DSP struct {
	bus    bus.Bus
	config Config

	// counter is the next free safeload slot
	counter int
}

// New creates a DSP on the given bus with the given options.
//
// Example:
//
//	b, _ := i2cdev.Open(1)
//	dsp := sigmadsp.New(b,
//	    sigmadsp.WithSampleRate(48000),
//	    sigmadsp.WithLogger(myLogger),
//	)
func New(b bus.Bus, opts ...Option) *DSP {
	if b == nil {
		panic("bus cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &DSP{
		bus:    b,
		config: cfg,
	}
}

// SampleRate returns the sample rate the block writers compute with.
func (d *DSP) SampleRate() float64 {
	return d.config.SampleRate
}

// Address returns the 7-bit bus address of the DSP.
func (d *DSP) Address() uint8 {
	return d.config.Address
}

// Ping addresses the DSP with an empty write. It returns a *protocol.BusError
// if the DSP does not acknowledge.
func (d *DSP) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	status := bus.Probe(d.bus, d.config.Address)
	return bus.Check("ping", d.config.Address, 0, status)
}

// SetClock sets the bus clock frequency in Hz.
func (d *DSP) SetClock(ctx context.Context, hz uint32) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	if err := d.bus.SetClockSpeed(hz); err != nil {
		return fmt.Errorf("set clock speed %d Hz: %w", hz, err)
	}
	return nil
}

// Reset pulses the reset line low. The DSP restarts from its boot EEPROM,
// or waits for a download if there is none. Pending safeload slots are
// forgotten.
func (d *DSP) Reset(ctx context.Context) error {
	pin := d.config.ResetPin
	if pin == nil {
		return ErrNoResetPin
	}

	if err := pin.Set(false); err != nil {
		return fmt.Errorf("assert reset: %w", err)
	}
	d.counter = 0

	// Release the line even when the wait is cancelled.
	waitErr := sleep(ctx, d.config.ResetDuration)
	if err := pin.Set(true); err != nil {
		return fmt.Errorf("release reset: %w", err)
	}
	if waitErr != nil {
		return waitErr
	}

	d.logDebug("reset", "duration", d.config.ResetDuration.String())
	return nil
}

// WriteRegister writes data to the register or memory at address in one
// transaction. The data is sent as is; it must fit in one transfer.
//
// Example:
//
//	// Run the core with the ADCs and DACs enabled
//	err := dsp.WriteRegister(ctx, protocol.RegCore, []byte{0x00, 0x1C})
func (d *DSP) WriteRegister(ctx context.Context, address uint16, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	return d.write("write register", address, data)
}

// WriteRegisterBlock writes data to consecutive registers starting at
// address, registerSize bytes each. Every register is its own transaction and
// the address advances by one per register, which is how the ADAU1701 maps
// program RAM (5 bytes), parameter RAM (4 bytes) and control registers.
func (d *DSP) WriteRegisterBlock(ctx context.Context, address uint16, data []byte, registerSize int) error {
	if registerSize < 1 || registerSize > protocol.MaxDataSize {
		return fmt.Errorf("register size %d out of range 1-%d", registerSize, protocol.MaxDataSize)
	}
	if len(data)%registerSize != 0 {
		return fmt.Errorf("data length %d is not a multiple of register size %d", len(data), registerSize)
	}

	for i := 0; i < len(data); i += registerSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		addr := address + uint16(i/registerSize)
		if err := d.write("write register block", addr, data[i:i+registerSize]); err != nil {
			return err
		}
	}
	return nil
}

// ReadRegister reads length bytes (1 to 8) from the register at address and
// returns them as one big-endian number.
//
// Example:
//
//	core, err := dsp.ReadRegister(ctx, protocol.RegCore, 2)
func (d *DSP) ReadRegister(ctx context.Context, address uint16, length int) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("cancelled: %w", err)
	}
	if length < 1 || length > 8 {
		return 0, fmt.Errorf("read length %d out of range 1-8", length)
	}

	data, err := d.read("read register", address, length)
	if err != nil {
		return 0, err
	}
	return protocol.ParseRegisterValue(data)
}

// ReadBack reads a signal value through a data capture register. register
// is protocol.RegDataCapture0 or RegDataCapture1; captureCount is the capture
// setting SigmaStudio shows for the readback block (program step and data
// register). The value is returned as a real number, 1.0 being full scale.
//
// Example:
//
//	level, err := dsp.ReadBack(ctx, protocol.RegDataCapture0, 0x0622)
func (d *DSP) ReadBack(ctx context.Context, register, captureCount uint16) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("cancelled: %w", err)
	}

	cmd, err := protocol.BuildReadbackCmd(register, captureCount)
	if err != nil {
		return 0, err
	}
	if err := d.send("set capture", register, cmd); err != nil {
		return 0, err
	}

	data, err := d.read("read capture", register, protocol.ReadbackSize)
	if err != nil {
		return 0, err
	}
	return protocol.ParseReadback(data)
}

// Download writes the default download of a SigmaStudio project, block by
// block. See project.LoadDownload.
//
// Example:
//
//	blocks, _ := project.LoadDownload("Export/design_IC_1.h")
//	err := dsp.Download(ctx, blocks)
func (d *DSP) Download(ctx context.Context, blocks []project.Block) error {
	startTime := time.Now()
	total := 0

	for i, b := range blocks {
		d.logDebug("download block",
			"index", i,
			"name", b.Name,
			"address", fmt.Sprintf("0x%04X", b.Address),
			"bytes", len(b.Data),
		)

		if err := d.WriteRegisterBlock(ctx, b.Address, b.Data, b.RegisterSize); err != nil {
			d.logError("download failed", "block", b.Name, "error", err)
			return fmt.Errorf("download %s: %w", b.Name, err)
		}
		total += len(b.Data)
	}

	d.logInfo("download complete",
		"blocks", len(blocks),
		"bytes", total,
		"elapsed", time.Since(startTime).String(),
	)
	return nil
}

// write sends address and data as one transaction.
func (d *DSP) write(op string, address uint16, data []byte) error {
	frame, err := protocol.BuildRegisterWrite(address, data)
	if err != nil {
		return fmt.Errorf("%s 0x%04X: %w", op, address, err)
	}
	return d.send(op, address, frame)
}

// send puts a complete frame on the bus.
func (d *DSP) send(op string, address uint16, frame []byte) error {
	status := bus.Write(d.bus, d.config.Address, frame)
	return bus.Check(op, d.config.Address, address, status)
}

func (d *DSP) read(op string, address uint16, n int) ([]byte, error) {
	data, status := bus.Read(d.bus, d.config.Address, protocol.BuildAddress(address), n)
	if err := bus.Check(op, d.config.Address, address, status); err != nil {
		return nil, err
	}
	return data, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
