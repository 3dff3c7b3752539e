// Package sigmadsp controls an ADAU1701 SigmaDSP over its I2C control port.
//
// # Overview
//
// A DSP wraps a bus.Bus and adds the operations a host needs at run time:
//   - Direct register and memory writes (WriteRegister, WriteRegisterBlock)
//   - Glitch-free parameter updates through the safeload registers
//   - Block writers that compute and commit the cells of SigmaStudio blocks
//   - Reading back data capture registers
//   - Downloading a SigmaStudio program (Download)
//   - Hardware reset through an optional reset pin
//
// # Basic Usage
//
//	b, err := i2cdev.Open(1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	dsp := sigmadsp.New(b)
//	if err := dsp.Ping(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Volume control at parameter address 8, -12 dB
//	err = dsp.Volume(ctx, 8, -12)
//
// # Safeload
//
// Parameter RAM is read by the core every sample, so writing the five
// coefficients of a biquad one by one lets the filter run with a mix of old
// and new values. SafeloadWrite stages up to five words and commits them
// together at the end of a frame. Longer groups are committed every five
// words.
//
// # Block Addresses
//
// Every block writer takes the address of the first cell of the block as
// exported by SigmaStudio. The project package parses those exports:
//
//	params, err := project.ParseFile("Project_IC_1_PARAM.h", project.ParseParams)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eq, ok := params.Module("Mid EQ")
//	if ok {
//	    err = dsp.EQSecondOrder(ctx, eq.Address(), algo.NewSecondOrderEQ(algo.Peaking, 1000))
//	}
//
// # Configuration Options
//
//	dsp := sigmadsp.New(b,
//	    sigmadsp.WithSampleRate(96000),
//	    sigmadsp.WithAddress(0x35),
//	    sigmadsp.WithResetPin(pin),
//	    sigmadsp.WithLogger(myLogger),
//	)
//
// # Error Handling
//
// Bad block parameters are reported as *algo.ParamError and values that do
// not fit the 5.23 format as *fixed.RangeError, both before any bus traffic.
// Bus failures are *protocol.BusError:
//
//	if err := dsp.Volume(ctx, 8, -12); err != nil {
//	    if protocol.IsBusError(err) {
//	        log.Printf("bus status: %v", protocol.StatusOf(err))
//	    }
//	}
//
// A DSP is not safe for concurrent use; the safeload slot counter is shared
// by every write.
package sigmadsp
