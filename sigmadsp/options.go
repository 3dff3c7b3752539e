package sigmadsp

import (
	"time"

	"github.com/moffa90/go-sigmadsp/bus"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// Config holds the DSP configuration.
type Config struct {
	// SampleRate is the DSP sample rate in Hz, used by the block writers
	SampleRate float64

	// Address is the 7-bit bus address of the DSP
	Address uint8

	// ResetPin drives the DSP reset line (optional)
	ResetPin bus.Pin

	// ResetDuration is how long Reset holds the line low
	ResetDuration time.Duration

	// Logger is used for logging operations (optional)
	Logger Logger

	// CheckValues rejects parameter values that do not fit the 5.23 format
	// before anything is written
	CheckValues bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		SampleRate:    48000,
		Address:       protocol.DefaultDSPAddress,
		ResetDuration: 200 * time.Millisecond,
		CheckValues:   true,
	}
}

// Option is a functional option for configuring the DSP.
type Option func(*Config)

// WithSampleRate sets the sample rate the DSP runs at. Default is 48 kHz.
//
// Example:
//
//	dsp := sigmadsp.New(b, sigmadsp.WithSampleRate(96000))
func WithSampleRate(hz float64) Option {
	return func(c *Config) {
		if hz > 0 {
			c.SampleRate = hz
		}
	}
}

// WithAddress sets the 7-bit bus address of the DSP. Default is 0x34
// (0x68 in 8-bit notation).
func WithAddress(addr uint8) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithResetPin sets the output pin wired to the DSP reset line.
//
// Example:
//
//	dsp := sigmadsp.New(b, sigmadsp.WithResetPin(pirate.AUX()))
func WithResetPin(pin bus.Pin) Option {
	return func(c *Config) {
		c.ResetPin = pin
	}
}

// WithResetDuration sets how long Reset holds the reset line low.
func WithResetDuration(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ResetDuration = d
		}
	}
}

// WithLogger sets a logger for the DSP operations.
//
// Example:
//
//	dsp := sigmadsp.New(b, sigmadsp.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithValueCheck enables or disables the range check of parameter values.
// With the check off, out of range floats wrap around like the hardware
// would. Default is true.
func WithValueCheck(check bool) Option {
	return func(c *Config) {
		c.CheckValues = check
	}
}
