package sigmadsp

import (
	"context"
	"fmt"

	"github.com/moffa90/go-sigmadsp/algo"
	"github.com/moffa90/go-sigmadsp/fixed"
	"github.com/moffa90/go-sigmadsp/protocol"
)

// The block writers below take the parameter RAM address of the first cell
// of a SigmaStudio block, as found in the *_PARAM.h export, compute the cells
// with the sample rate of the DSP and commit them with SafeloadWrite.
// Invalid parameters are reported as a *algo.ParamError before anything is
// written.

// Gain sets a linear gain block with the given number of channels.
// An integer value is written in 28.0 format, a float in 5.23.
//
// Example:
//
//	err := dsp.Gain(ctx, 20, fixed.Float(0.5), 2)
func (d *DSP) Gain(ctx context.Context, address uint16, gain fixed.Value, channels int) error {
	vs, err := algo.Gain(gain, channels)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// Mux selects input index (0-based) of a count-input switch.
func (d *DSP) Mux(ctx context.Context, address uint16, index, count int) error {
	vs, err := algo.Mux(index, count)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// Demux routes the input of a count-output demultiplexer to output index.
func (d *DSP) Demux(ctx context.Context, address uint16, index, count int) error {
	vs, err := algo.Demux(index, count)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// VolumeSlew sets a slew volume control to dB with slew rate slew
// (algo.MinSlew to algo.MaxSlew; higher is slower).
func (d *DSP) VolumeSlew(ctx context.Context, address uint16, dB float64, slew int) error {
	vs, err := algo.VolumeSlew(dB, slew)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// Volume sets a slew volume control to dB with the default slew rate.
func (d *DSP) Volume(ctx context.Context, address uint16, dB float64) error {
	return d.VolumeSlew(ctx, address, dB, algo.DefaultSlew)
}

// HardClip sets the thresholds of a hard clipper, as linear levels.
func (d *DSP) HardClip(ctx context.Context, address uint16, high, low float64) error {
	vs, err := algo.HardClip(high, low)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// SoftClip sets the curve of a soft clipper.
func (d *DSP) SoftClip(ctx context.Context, address uint16, alpha float64) error {
	vs, err := algo.SoftClip(alpha)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// DCSource sets the output level of a DC source.
func (d *DSP) DCSource(ctx context.Context, address uint16, level float64) error {
	vs, err := algo.DCSource(level)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// SineSource sets the frequency of a sine tone generator and turns it on.
func (d *DSP) SineSource(ctx context.Context, address uint16, freq float64) error {
	vs, err := algo.SineSource(freq, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// SquareSource sets the frequency of a square wave generator and turns it on.
func (d *DSP) SquareSource(ctx context.Context, address uint16, freq float64) error {
	vs, err := algo.SquareSource(freq, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// SawtoothSource sets the frequency of a sawtooth generator and turns it on.
func (d *DSP) SawtoothSource(ctx context.Context, address uint16, freq float64) error {
	vs, err := algo.SawtoothSource(freq, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// TriangleSource sets the frequency of a triangle wave generator and turns
// it on.
func (d *DSP) TriangleSource(ctx context.Context, address uint16, freq float64) error {
	vs, err := algo.TriangleSource(freq, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// AudioDelay sets a delay block to ms milliseconds, clamped to the
// algo.MaxDelaySamples the block can hold.
func (d *DSP) AudioDelay(ctx context.Context, address uint16, ms float64) error {
	vs, err := algo.AudioDelay(ms, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// EQFirstOrder sets a first order lowpass or highpass filter.
//
// Example:
//
//	eq := algo.NewFirstOrderEQ(algo.Highpass, 80)
//	err := dsp.EQFirstOrder(ctx, 16, eq)
func (d *DSP) EQFirstOrder(ctx context.Context, address uint16, eq algo.FirstOrderEQ) error {
	vs, err := algo.FirstOrder(eq, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// EQSecondOrder sets a second order (biquad) filter. The five cells are
// committed together, so the filter never runs with a mix of old and new
// coefficients.
//
// Example:
//
//	eq := algo.NewSecondOrderEQ(algo.Peaking, 1000)
//	eq.Boost = -6
//	eq.Q = 2
//	err := dsp.EQSecondOrder(ctx, 24, eq)
func (d *DSP) EQSecondOrder(ctx context.Context, address uint16, eq algo.SecondOrderEQ) error {
	vs, err := algo.SecondOrder(eq, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// ToneControl sets a bass/treble tone control.
func (d *DSP) ToneControl(ctx context.Context, address uint16, tc algo.ToneControl) error {
	vs, err := algo.Tone(tc, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// StateVariable sets the frequency and Q of a state variable filter.
func (d *DSP) StateVariable(ctx context.Context, address uint16, freq, q float64) error {
	vs, err := algo.StateVariable(freq, q, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.SafeloadWrite(ctx, address, vs...)
}

// CompressorRMS sets an RMS compressor block.
//
// Example:
//
//	c := algo.NewCompressor(500)
//	c.Threshold = -20
//	c.Ratio = 4
//	err := dsp.CompressorRMS(ctx, 40, c)
func (d *DSP) CompressorRMS(ctx context.Context, address uint16, cfg algo.Compressor) error {
	p, err := algo.CompressorRMS(cfg, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.writeCompressor(ctx, address, p)
}

// CompressorPeak sets a peak compressor block.
func (d *DSP) CompressorPeak(ctx context.Context, address uint16, cfg algo.Compressor) error {
	p, err := algo.CompressorPeak(cfg, d.config.SampleRate)
	if err != nil {
		return err
	}
	return d.writeCompressor(ctx, address, p)
}

// writeCompressor commits each group of a compressor at consecutive
// addresses.
func (d *DSP) writeCompressor(ctx context.Context, address uint16, p algo.CompressorParams) error {
	groups := p.Groups()
	if int(address)+p.Len() > protocol.ParamRAMSize {
		return fmt.Errorf("compressor of %d cells at 0x%04X exceeds parameter RAM", p.Len(), address)
	}
	if d.config.CheckValues {
		for _, g := range groups {
			for _, v := range g {
				if err := v.Check(); err != nil {
					return fmt.Errorf("compressor at 0x%04X: %w", address, err)
				}
			}
		}
	}

	addr := address
	for _, g := range groups {
		if err := d.SafeloadWrite(ctx, addr, g...); err != nil {
			return err
		}
		addr += uint16(len(g))
	}
	return nil
}
