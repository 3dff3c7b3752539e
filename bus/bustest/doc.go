// Package bustest provides an in-memory two-wire bus with a simulated
// ADAU1701 and a simulated 24xx EEPROM.
//
// It is used by the package tests and the example programs, and lets driver
// code be exercised without hardware:
//
//	b := bustest.NewBus()
//	chip := bustest.NewDSP()
//	b.Attach(protocol.DefaultDSPAddress, chip)
//
//	dsp := sigmadsp.New(b)
//	_ = dsp.Gain(ctx, 0x0010, fixed.Float(0.5), 2)
//
//	fmt.Println(chip.Param(0x0010), len(chip.Commits)) // 0.5 1
//
// Every transaction is recorded in Bus.Transfers, and Bus.Fault can inject
// not-acknowledged or other failures into selected transactions.
package bustest
