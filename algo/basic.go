package algo

import (
	"math"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// Block limits.
const (
	// MaxDelaySamples is the length of the delay line of an audio delay block
	MaxDelaySamples = 2048

	// MinSlew and MaxSlew bound the slew rate of a volume control
	MinSlew = 1
	MaxSlew = 23

	// DefaultSlew is the slew rate SigmaStudio uses for a new volume control
	DefaultSlew = 12

	// oscillatorRate is the rate that oscillator increments are scaled to
	oscillatorRate = 24000.0

	// slewFullScale is the slew RAM step for slew rate 1
	slewFullScale = 0x400000
)

// Gain replicates one linear gain over channels consecutive cells.
func Gain(gain fixed.Value, channels int) ([]fixed.Value, error) {
	c := checker{block: "gain"}
	if channels < 1 {
		c.fail("channels", float64(channels), "must be at least 1")
	}
	if c.err != nil {
		return nil, c.err
	}

	out := make([]fixed.Value, channels)
	for i := range out {
		out[i] = gain
	}
	return out, nil
}

// Mux selects input index of a count-way clickless mux.
func Mux(index, count int) ([]fixed.Value, error) {
	c := checker{block: "mux"}
	c.index("index", index, count)
	if c.err != nil {
		return nil, c.err
	}
	return []fixed.Value{fixed.Of(index)}, nil
}

// Demux routes the input to output index of a count-way demux: one cell per
// output, 1.0 on the selected one and 0.0 elsewhere.
func Demux(index, count int) ([]fixed.Value, error) {
	c := checker{block: "demux"}
	c.index("index", index, count)
	if c.err != nil {
		return nil, c.err
	}

	out := make([]fixed.Value, count)
	for i := range out {
		out[i] = fixed.Float(0)
	}
	out[index] = fixed.Float(1)
	return out, nil
}

// VolumeSlew returns the target gain and slew step of a volume control with
// slew. Higher slew values ramp more slowly.
func VolumeSlew(dB float64, slew int) ([]fixed.Value, error) {
	c := checker{block: "volume"}
	c.finite("level", dB)
	if slew < MinSlew || slew > MaxSlew {
		c.fail("slew", float64(slew), "must be in [1, 23]")
	}
	if c.err != nil {
		return nil, c.err
	}

	return []fixed.Value{
		fixed.Float(dBToLinear(dB)),
		fixed.Int(slewFullScale >> (slew - 1)),
	}, nil
}

// HardClip returns the high and low thresholds of a hard clipper.
func HardClip(high, low float64) ([]fixed.Value, error) {
	c := checker{block: "hard clip"}
	c.finite("high threshold", high)
	c.finite("low threshold", low)
	if high < low {
		c.fail("high threshold", high, "must not be below the low threshold")
	}
	if c.err != nil {
		return nil, c.err
	}
	return fixed.Floats(high, low), nil
}

// SoftClip returns the cells of a cubic soft clipper with curve alpha.
func SoftClip(alpha float64) ([]fixed.Value, error) {
	c := checker{block: "soft clip"}
	c.positive("alpha", alpha)
	if c.err != nil {
		return nil, c.err
	}
	return fixed.Floats(alpha, 1/alpha, 0.333, 0.666), nil
}

// DCSource returns the level of a DC source.
func DCSource(level float64) ([]fixed.Value, error) {
	c := checker{block: "dc source"}
	c.finite("level", level)
	if c.err != nil {
		return nil, c.err
	}
	return fixed.Floats(level), nil
}

// SineSource returns the cells of a sine oscillator: lookup mask, phase
// increment and enable.
func SineSource(freq, fs float64) ([]fixed.Value, error) {
	return maskedSource("sine source", freq, fs)
}

// SquareSource returns the cells of a square oscillator; its layout matches
// the sine oscillator.
func SquareSource(freq, fs float64) ([]fixed.Value, error) {
	return maskedSource("square source", freq, fs)
}

func maskedSource(block string, freq, fs float64) ([]fixed.Value, error) {
	c := checker{block: block}
	c.rate(fs)
	c.frequency("frequency", freq, fs)
	if c.err != nil {
		return nil, c.err
	}
	return []fixed.Value{
		fixed.Int(0xFF),
		fixed.Float(freq / oscillatorRate),
		fixed.Float(1),
	}, nil
}

// SawtoothSource returns the phase increment and enable of a sawtooth
// oscillator.
func SawtoothSource(freq, fs float64) ([]fixed.Value, error) {
	c := checker{block: "sawtooth source"}
	c.rate(fs)
	c.frequency("frequency", freq, fs)
	if c.err != nil {
		return nil, c.err
	}
	return fixed.Floats(freq*0.5/oscillatorRate, 1), nil
}

// TriangleSource returns the cells of a triangle oscillator: four shape
// breakpoints, a 2-bit mask, the phase increment and enable.
func TriangleSource(freq, fs float64) ([]fixed.Value, error) {
	c := checker{block: "triangle source"}
	c.rate(fs)
	c.frequency("frequency", freq, fs)
	if c.err != nil {
		return nil, c.err
	}
	return []fixed.Value{
		fixed.Float(0),
		fixed.Float(1),
		fixed.Float(0),
		fixed.Float(-1),
		fixed.Int(3),
		fixed.Float(freq * 0.5 / oscillatorRate),
		fixed.Float(1),
	}, nil
}

// AudioDelay returns the delay of a delay block in samples, clamped to
// MaxDelaySamples.
func AudioDelay(ms, fs float64) ([]fixed.Value, error) {
	c := checker{block: "audio delay"}
	c.rate(fs)
	c.nonNegative("delay", ms)
	if c.err != nil {
		return nil, c.err
	}

	ticks := math.Floor(ms * 0.001 * fs)
	if ticks > MaxDelaySamples {
		ticks = MaxDelaySamples
	}
	return []fixed.Value{fixed.Int(int32(ticks))}, nil
}

// StateVariable returns the frequency and damping cells of a state variable
// filter.
func StateVariable(freq, q, fs float64) ([]fixed.Value, error) {
	c := checker{block: "state variable filter"}
	c.rate(fs)
	c.frequency("frequency", freq, fs)
	c.positive("Q", q)
	if c.err != nil {
		return nil, c.err
	}
	return fixed.Floats(2*math.Sin(math.Pi*freq/fs), 1/q), nil
}

func dBToLinear(dB float64) float64 {
	return math.Pow(10, dB/20)
}
