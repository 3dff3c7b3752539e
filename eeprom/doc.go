// Package eeprom programs the serial EEPROM an ADAU1701 boots from.
//
// # Overview
//
// At power-up the ADAU1701 in self-boot mode loads its program and
// parameters from a 24xx EEPROM. The Programmer writes a SigmaStudio boot
// image (the E2Prom.Hex export) to that EEPROM:
//   - The last byte of the EEPROM holds a version tag
//   - An image is only rewritten when the requested version differs
//   - Bytes past the image are overwritten with 0xFF up to an erase extent
//   - The tag is read back to verify the write
//
// # Basic Usage
//
//	img, err := project.ParseFile("E2Prom.Hex", project.ParseHexImage)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prog, err := eeprom.New(b, 64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := prog.WriteFirmware(ctx, img, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The DSP must be held in reset, or its self-boot disabled, while the EEPROM
// is written; both drive the same bus.
//
// # Progress Tracking
//
// Each byte costs one write cycle (5ms by default), so a full 8 KiB image
// takes around 40 seconds:
//
//	prog, err := eeprom.New(b, 64,
//	    eeprom.WithLEDPin(led),
//	    eeprom.WithProgressCallback(func(p eeprom.Progress) {
//	        fmt.Printf("[%s] %.1f%%\n", p.Phase, p.Percentage)
//	    }),
//	)
//
// # Error Handling
//
//	ok, err := prog.WriteFirmware(ctx, img, 2)
//	if err != nil {
//	    var ve *eeprom.VerificationError
//	    if errors.As(err, &ve) {
//	        log.Printf("tag reads 0x%02X", ve.Actual)
//	    }
//	}
//
// Byte writes are not retried. A failed write returns a *protocol.BusError
// and leaves the old tag in place, so the next WriteFirmware with the same
// version rewrites the image.
package eeprom
