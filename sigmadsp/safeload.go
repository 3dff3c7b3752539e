package sigmadsp

import (
	"context"
	"fmt"

	"github.com/moffa90/go-sigmadsp/fixed"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// SafeloadWriteRegister stages one parameter word in the next free safeload
// slot: the parameter address goes to 0x0815+slot and the word to
// 0x0810+slot. When finished is set, or the fifth slot was just filled, the
// staged slots are committed to parameter RAM in one step and the batch
// starts over at slot 0.
//
// A bus error abandons the batch. The slots already staged are left
// uncommitted and the next write starts at slot 0 again.
func (d *DSP) SafeloadWriteRegister(ctx context.Context, address uint16, word fixed.Word, finished bool) error {
	if d.counter == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
	}

	if err := d.stage(address, word, finished); err != nil {
		d.logError("safeload failed", "address", fmt.Sprintf("0x%04X", address), "error", err)
		return err
	}
	return nil
}

func (d *DSP) stage(address uint16, word fixed.Word, finished bool) error {
	slot := d.counter

	cmd, err := protocol.BuildSafeloadAddressCmd(slot, address)
	if err != nil {
		d.counter = 0
		return err
	}
	if err := d.send("safeload address", protocol.RegSafeloadAddress0+uint16(slot), cmd); err != nil {
		d.counter = 0
		return err
	}

	cmd, err = protocol.BuildSafeloadDataCmd(slot, word)
	if err != nil {
		d.counter = 0
		return err
	}
	if err := d.send("safeload data", protocol.RegSafeloadData0+uint16(slot), cmd); err != nil {
		d.counter = 0
		return err
	}

	d.counter++
	if !finished && d.counter < protocol.SafeloadSlots {
		return nil
	}

	d.counter = 0
	return d.send("initiate safeload", protocol.RegCore, protocol.BuildInitiateSafeloadCmd())
}

// SafeloadWrite writes values to consecutive parameter addresses starting at
// address through the safeload registers. The last value commits the group,
// so a group of up to five values lands in parameter RAM in one step; longer
// groups are committed every five values.
//
// When value checking is on (the default) every value is checked before the
// first transaction, and a value that does not fit the 5.23 format fails the
// whole group with a *fixed.RangeError.
//
// Example:
//
//	// Second order EQ at 100: b0, b1, b2, a1, a2
//	err := dsp.SafeloadWrite(ctx, 100, fixed.Floats(1, -1.9, 0.9, 1.9, -0.9)...)
func (d *DSP) SafeloadWrite(ctx context.Context, address uint16, values ...fixed.Value) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to write")
	}
	if int(address)+len(values) > protocol.ParamRAMSize {
		return fmt.Errorf("%d values at 0x%04X exceed parameter RAM (%d words)",
			len(values), address, protocol.ParamRAMSize)
	}
	if d.config.CheckValues {
		for i, v := range values {
			if err := v.Check(); err != nil {
				return fmt.Errorf("value %d for 0x%04X: %w", i, address+uint16(i), err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	d.logDebug("safeload write",
		"address", fmt.Sprintf("0x%04X", address),
		"values", len(values),
	)

	last := len(values) - 1
	for i, v := range values {
		if err := d.stage(address+uint16(i), v.Word(), i == last); err != nil {
			d.logError("safeload failed", "address", fmt.Sprintf("0x%04X", address+uint16(i)), "error", err)
			return fmt.Errorf("safeload 0x%04X: %w", address+uint16(i), err)
		}
	}
	return nil
}

// Pending returns the number of safeload slots staged but not yet
// committed.
func (d *DSP) Pending() int {
	return d.counter
}
