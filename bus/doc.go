// Package bus defines the two-wire bus capability consumed by the DSP driver
// and the EEPROM programmer.
//
// The interface mirrors a classic microcontroller wire library: transactions
// are buffered byte by byte and completed with a single status code. Three
// implementations are provided:
//
//   - bus/i2cdev: Linux /dev/i2c-N character devices
//   - bus/buspirate: a Bus Pirate in binary I2C mode over a serial port
//   - bus/bustest: an in-memory bus with simulated devices, for tests
//
// # Helpers
//
// Write, Read and Probe run complete transactions, and Check turns a status
// into a *protocol.BusError:
//
//	status := bus.Write(b, 0x34, frame)
//	if err := bus.Check("write register", 0x34, 0x081C, status); err != nil {
//	    return err
//	}
package bus
