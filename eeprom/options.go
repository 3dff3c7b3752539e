package eeprom

import (
	"time"

	"github.com/moffa90/go-sigmadsp/bus"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// Config holds the programmer configuration.
type Config struct {
	// Address is the 7-bit bus address of the EEPROM
	Address uint8

	// WriteDelay is the wait after each byte for the EEPROM write cycle
	WriteDelay time.Duration

	// EraseExtent is the end (exclusive) of the area overwritten with 0xFF
	// after the image
	EraseExtent int

	// LEDPin is toggled while programming (optional)
	LEDPin bus.Pin

	// ProgressCallback is called during programming to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Address:     protocol.DefaultEEPROMAddress,
		WriteDelay:  5 * time.Millisecond,
		EraseExtent: protocol.EEPROMEraseExtent,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithAddress sets the 7-bit bus address of the EEPROM. Default is 0x50.
func WithAddress(addr uint8) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithWriteDelay sets the wait after each byte write. Default is 5ms, the
// write cycle time of 24xx parts.
//
// Example:
//
//	prog, err := eeprom.New(b, 256, eeprom.WithWriteDelay(10*time.Millisecond))
func WithWriteDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.WriteDelay = d
		}
	}
}

// WithEraseExtent sets the end of the area cleared to 0xFF after the image.
// Default is 0x2000. An extent at or below the image length clears nothing.
func WithEraseExtent(extent int) Option {
	return func(c *Config) {
		if extent >= 0 {
			c.EraseExtent = extent
		}
	}
}

// WithLEDPin sets a pin that blinks while programming and is left low when
// programming ends.
func WithLEDPin(pin bus.Pin) Option {
	return func(c *Config) {
		c.LEDPin = pin
	}
}

// WithProgressCallback sets a callback function to track programming progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
//
// Example:
//
//	prog, err := eeprom.New(b, 64, eeprom.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
