package eeprom

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-sigmadsp/bus"
	"github.com/moffa90/go-sigmadsp/protocol"
)

const (
	// ledImageInterval and ledEraseInterval are the byte counts between LED
	// toggles while writing the image and while erasing
	ledImageInterval = 32
	ledEraseInterval = 16

	// progressInterval is the byte count between progress reports
	progressInterval = 64
)

// Programmer writes SigmaDSP boot images to the 24xx EEPROM the DSP
// self-boots from. The last byte of the EEPROM holds a version tag, so an
// image is only rewritten when its version changes.
//
// Programmer is not safe for concurrent use.
type Programmer struct {
	bus         bus.Bus
	config      Config
	kbit        int
	versionAddr uint16

	ledCounter int
	ledOn      bool
}

// New creates a Programmer for an EEPROM of kbit kilobits on b. Supported
// sizes are 64, 128, 256 and 512 kbit; any other size returns a
// *CapacityError.
//
// Example:
//
//	b, _ := i2cdev.Open(1)
//	prog, err := eeprom.New(b, 64,
//	    eeprom.WithLEDPin(led),
//	    eeprom.WithProgressCallback(progressFunc),
//	)
func New(b bus.Bus, kbit int, opts ...Option) (*Programmer, error) {
	if b == nil {
		panic("bus cannot be nil")
	}

	addr, ok := protocol.EEPROMVersionAddress(kbit)
	if !ok {
		return nil, &CapacityError{Kbit: kbit}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		bus:         b,
		config:      cfg,
		kbit:        kbit,
		versionAddr: addr,
	}, nil
}

// Capacity returns the EEPROM size in kbit.
func (p *Programmer) Capacity() int {
	return p.kbit
}

// VersionAddress returns the address of the version tag, the last byte of
// the EEPROM.
func (p *Programmer) VersionAddress() uint16 {
	return p.versionAddr
}

// MaxImageSize returns the largest image that fits below the version tag.
func (p *Programmer) MaxImageSize() int {
	return int(p.versionAddr)
}

// Ping addresses the EEPROM with an empty write. It returns a
// *protocol.BusError if the EEPROM does not acknowledge.
func (p *Programmer) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	status := bus.Probe(p.bus, p.config.Address)
	return bus.Check("ping", p.config.Address, 0, status)
}

// GetFirmwareVersion reads the version tag. An erased EEPROM reads 0xFF.
func (p *Programmer) GetFirmwareVersion(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("cancelled: %w", err)
	}

	data, status := bus.Read(p.bus, p.config.Address, protocol.BuildAddress(p.versionAddr), 1)
	if err := bus.Check("read version", p.config.Address, p.versionAddr, status); err != nil {
		return 0, err
	}
	return data[0], nil
}

// WriteFirmware programs image from address 0 and tags it with version,
// unless the EEPROM already holds that version. A negative version always
// rewrites and leaves the tag erased (0xFF).
//
// The sequence is:
//  1. Read the stored version tag and stop if it matches
//  2. Write the image one byte per transaction, waiting WriteDelay after each
//  3. Overwrite the bytes from the end of the image to EraseExtent with 0xFF
//  4. Write the version tag
//  5. Read the tag back
//
// It returns true when the tag read back matches. A mismatch returns false
// and a *VerificationError. Failed byte writes are not retried; the error
// stops programming and the EEPROM holds a partial image with the old tag.
//
// Example:
//
//	img, _ := project.ParseFile("E2Prom.Hex", project.ParseHexImage)
//	ok, err := prog.WriteFirmware(ctx, img, 3)
func (p *Programmer) WriteFirmware(ctx context.Context, image []byte, version int) (bool, error) {
	if len(image) == 0 {
		return false, fmt.Errorf("image cannot be empty")
	}
	if version > 0xFF {
		return false, fmt.Errorf("version %d out of range: must be at most 255", version)
	}
	if len(image) > p.MaxImageSize() {
		return false, &ImageTooLargeError{Size: len(image), Limit: p.MaxImageSize()}
	}

	tag := byte(protocol.EEPROMEmptyByte)
	if version >= 0 {
		tag = byte(version)
	}

	startTime := time.Now()
	eraseEnd := p.config.EraseExtent
	if eraseEnd > int(p.versionAddr) {
		eraseEnd = int(p.versionAddr)
	}
	total := len(image) + 1
	if eraseEnd > len(image) {
		total += eraseEnd - len(image)
	}

	p.reportProgress(Progress{
		Phase:      PhaseChecking,
		TotalBytes: total,
	})

	stored, err := p.GetFirmwareVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("check version: %w", err)
	}
	if version >= 0 && stored == tag {
		p.logInfo("firmware up to date", "version", version)
		p.reportProgress(Progress{
			Phase:       PhaseComplete,
			Percentage:  100,
			ElapsedTime: time.Since(startTime),
		})
		return true, nil
	}

	p.logInfo("writing firmware",
		"bytes", len(image),
		"version", version,
		"stored_version", stored,
	)

	written := 0
	for i, c := range image {
		if err := p.writeByte(ctx, uint16(i), c); err != nil {
			p.ledOff()
			return false, fmt.Errorf("write byte %d: %w", i, err)
		}
		p.blink(ledImageInterval)
		written++
		if written%progressInterval == 0 {
			p.reportBytes(PhaseWriting, written, total, startTime)
		}
	}

	p.logDebug("image written", "bytes", written)

	for i := len(image); i < eraseEnd; i++ {
		if err := p.writeByte(ctx, uint16(i), protocol.EEPROMEmptyByte); err != nil {
			p.ledOff()
			return false, fmt.Errorf("erase byte %d: %w", i, err)
		}
		p.blink(ledEraseInterval)
		written++
		if written%progressInterval == 0 {
			p.reportBytes(PhaseErasing, written, total, startTime)
		}
	}

	p.reportBytes(PhaseTagging, written, total, startTime)
	if err := p.writeByte(ctx, p.versionAddr, tag); err != nil {
		p.ledOff()
		return false, fmt.Errorf("write version: %w", err)
	}
	written++
	p.ledOff()

	p.reportBytes(PhaseVerifying, written, total, startTime)
	got, err := p.GetFirmwareVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("verify version: %w", err)
	}
	if got != tag {
		p.logError("verification failed", "expected", tag, "actual", got)
		return false, &VerificationError{Expected: tag, Actual: got}
	}

	p.reportProgress(Progress{
		Phase:        PhaseComplete,
		BytesWritten: written,
		TotalBytes:   total,
		Percentage:   100,
		ElapsedTime:  time.Since(startTime),
	})

	p.logInfo("firmware written",
		"bytes", written,
		"version", version,
		"elapsed", time.Since(startTime).String(),
	)

	return true, nil
}

// writeByte programs one byte and waits out the write cycle.
func (p *Programmer) writeByte(ctx context.Context, address uint16, c byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	frame, err := protocol.BuildRegisterWrite(address, []byte{c})
	if err != nil {
		return err
	}
	status := bus.Write(p.bus, p.config.Address, frame)
	if err := bus.Check("eeprom write", p.config.Address, address, status); err != nil {
		return err
	}

	return sleep(ctx, p.config.WriteDelay)
}

// blink toggles the LED every interval bytes.
func (p *Programmer) blink(interval int) {
	p.ledCounter++
	if p.config.LEDPin == nil || p.ledCounter%interval != 0 {
		return
	}
	p.ledOn = !p.ledOn
	if err := p.config.LEDPin.Set(p.ledOn); err != nil {
		p.logDebug("LED toggle failed", "error", err)
	}
}

// ledOff leaves the LED low.
func (p *Programmer) ledOff() {
	if p.config.LEDPin == nil {
		return
	}
	p.ledOn = false
	if err := p.config.LEDPin.Set(false); err != nil {
		p.logDebug("LED off failed", "error", err)
	}
}

func (p *Programmer) reportBytes(phase string, written, total int, start time.Time) {
	p.reportProgress(Progress{
		Phase:        phase,
		BytesWritten: written,
		TotalBytes:   total,
		Percentage:   float64(written) / float64(total) * 100,
		ElapsedTime:  time.Since(start),
	})
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
