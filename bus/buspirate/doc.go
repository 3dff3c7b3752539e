// Package buspirate implements bus.Bus on a Bus Pirate v3 or v4 in binary
// I2C mode, so an ADAU1701 board can be driven from any machine with a USB
// port.
//
// # Basic Usage
//
//	b, err := buspirate.Open("/dev/ttyUSB0")
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//
//	dsp := sigmadsp.New(b, sigmadsp.WithResetPin(b.AUX()))
//
// Open enters binary mode, selects I2C and turns on the power supplies and
// pull-ups. New does the same on a port that is already open.
//
// # Clock Speed
//
// The Bus Pirate runs I2C at 5, 50, 100 or 400 kHz. SetClockSpeed picks the
// fastest of these that does not exceed the requested rate.
//
// # AUX Pin
//
// The AUX output can hold the DSP in reset or drive an activity LED while
// the boot EEPROM is written.
package buspirate
