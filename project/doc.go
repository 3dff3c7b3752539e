// Package project reads the files SigmaStudio exports for an ADAU1701 design.
//
// # Export Files
//
// "Export System Files" in SigmaStudio writes C headers per IC:
//
//	<name>_IC_1.h        default download: program, parameter and register data
//	<name>_IC_1_PARAM.h  parameter RAM address of every block cell
//	<name>_IC_1_REG.h    control register addresses and defaults
//
// and, for a self-boot design, an EEPROM image (E2Prom.Hex) as a list of
// byte literals.
//
// # Usage
//
// Look up the address of a block to control it at run time:
//
//	params, err := project.ParseFile("Export/volume_IC_1_PARAM.h", project.ParseParams)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vol, ok := params.Module("SW vol 1")
//	if ok {
//	    err = dsp.Volume(ctx, vol.Address(), -12)
//	}
//
// Download a design into a DSP that boots without an EEPROM:
//
//	blocks, err := project.LoadDownload("Export/volume_IC_1.h")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = dsp.Download(ctx, blocks)
//
// Load an EEPROM image for the eeprom programmer:
//
//	image, err := project.ParseFile("E2Prom.Hex", project.ParseHexImage)
//
// Only the subset of C that SigmaStudio emits is understood: #define with a
// numeric value, ADI_REG_TYPE arrays of byte literals and
// SIGMA_WRITE_REGISTER_BLOCK calls.
package project
