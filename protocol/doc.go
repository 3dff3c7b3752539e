// Package protocol implements the ADAU1701 SigmaDSP register-level protocol.
//
// This package provides the register map, bus status codes and functions to
// build the write transactions understood by the DSP control port.
//
// # Protocol Overview
//
// Every write is a single two-wire transaction addressed to the DSP:
//
//	[START][DEV_ADDR+W][ADDR_H][ADDR_L][DATA...][STOP]
//
// A read first writes the 2-byte address, then issues a repeated start:
//
//	[START][DEV_ADDR+W][ADDR_H][ADDR_L][RESTART][DEV_ADDR+R][DATA...][STOP]
//
// Frames returned by the Build* functions contain the bytes following the
// device address byte. The transport adds START, STOP and the device address.
//
// # Safeload
//
// Parameter RAM can be updated atomically through five staging slots:
//
//	0x0810-0x0814  safeload data    (5 bytes: 0x00 + 4-byte word)
//	0x0815-0x0819  safeload address (2 bytes: parameter address)
//	0x081C         core register    (write 0x003C to initiate the transfer)
//
// Use BuildSafeloadAddressCmd, BuildSafeloadDataCmd and
// BuildInitiateSafeloadCmd to build the individual writes.
//
// # Error Handling
//
// Transports report completion with a Status. Anything other than StatusOK
// is surfaced as a BusError:
//
//	err := &protocol.BusError{
//	    Operation: "write register",
//	    Device:    0x34,
//	    Address:   0x081C,
//	    Status:    protocol.StatusAddressNack,
//	}
//	// err.Error() returns:
//	// "write register failed: device 0x34 register 0x081C: address not acknowledged (2)"
//
// # Reference
//
// For complete register details, see the ADAU1701 data sheet (Rev. C),
// "Control Port" and "Safeload Registers".
package protocol
