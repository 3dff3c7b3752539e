package algo

import (
	"fmt"
	"math"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// Biquad holds the raw coefficients of a second-order section before
// normalization:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (A0 + A1 z^-1 + A2 z^-2)
type Biquad struct {
	B0, B1, B2 float64
	A0, A1, A2 float64
}

// bypass is the coefficient set of a switched-off filter.
var bypass = [5]float64{1, 0, 0, 0, 0}

// Coefficients returns the five cells of a SigmaDSP biquad:
// b0/a0, b1/a0, b2/a0, -a1/a0, -a2/a0. The feedback terms are negated
// because the core adds them. Inverted phase negates the feed-forward terms
// only. A switched-off filter, or one with A0 == 0, is a pass-through.
func (q Biquad) Coefficients(phase Phase, state State) [5]float64 {
	if state == Off || q.A0 == 0 {
		return bypass
	}

	sign := 1.0
	if phase == Inverted {
		sign = -1
	}
	return [5]float64{
		sign * q.B0 / q.A0,
		sign * q.B1 / q.A0,
		sign * q.B2 / q.A0,
		-q.A1 / q.A0,
		-q.A2 / q.A0,
	}
}

// FirstOrder returns b0, b1 and a1 of a first-order lowpass or highpass
// filter. Unlike the biquad cells, a1 is written as is.
func FirstOrder(eq FirstOrderEQ, fs float64) ([]fixed.Value, error) {
	c := checker{block: "first order EQ"}
	c.rate(fs)
	c.frequency("frequency", eq.Freq, fs)
	c.finite("gain", eq.Gain)
	if eq.Type != Lowpass && eq.Type != Highpass {
		c.fail("filter type", float64(eq.Type), fmt.Sprintf("%s is not a first order filter", eq.Type))
	}
	if c.err != nil {
		return nil, c.err
	}

	if eq.State == Off {
		return fixed.Floats(1, 0, 0), nil
	}

	w0 := 2 * math.Pi * eq.Freq / fs
	gain := dBToLinear(eq.Gain)
	a1 := math.Pow(2.7, -w0)

	var b0, b1 float64
	if eq.Type == Lowpass {
		b0 = gain * (1 - a1)
		b1 = 0
	} else {
		b0 = gain * a1
		b1 = -a1 * gain
	}

	if eq.Phase == Inverted {
		b0, b1 = -b0, -b1
	}
	return fixed.Floats(b0, b1, a1), nil
}

// SecondOrderBiquad computes the raw coefficients of a biquad EQ using the
// bilinear-transform formulas of the Audio EQ Cookbook.
func SecondOrderBiquad(eq SecondOrderEQ, fs float64) (Biquad, error) {
	c := checker{block: "second order EQ"}
	c.rate(fs)
	c.frequency("frequency", eq.Freq, fs)
	c.finite("gain", eq.Gain)
	c.finite("boost", eq.Boost)
	switch eq.Type {
	case Peaking, Parametric, Lowpass, Highpass:
		c.positive("Q", eq.Q)
	case LowShelf, HighShelf:
		c.positive("slope", eq.S)
		if eq.S > 2 {
			c.fail("slope", eq.S, "must be at most 2")
		}
	case Bandpass, Bandstop:
		c.positive("bandwidth", eq.Bandwidth)
	case ButterworthLowpass, ButterworthHighpass, BesselLowpass, BesselHighpass:
	default:
		c.fail("filter type", float64(eq.Type), "unknown filter type")
	}
	if c.err != nil {
		return Biquad{}, c.err
	}

	A := math.Pow(10, eq.Boost/40)
	w0 := 2 * math.Pi * eq.Freq / fs
	g := dBToLinear(eq.Gain)
	sin, cos := math.Sincos(w0)

	var q Biquad
	switch eq.Type {
	case Peaking, Parametric:
		alpha := sin / (2 * eq.Q)
		q = Biquad{
			A0: 1 + alpha/A,
			A1: -2 * cos,
			A2: 1 - alpha/A,
			B0: (1 + alpha*A) * g,
			B1: -2 * cos * g,
			B2: (1 - alpha*A) * g,
		}

	case LowShelf:
		alpha := sin / 2 * math.Sqrt((A+1/A)*(1/eq.S-1)+2)
		sqA := 2 * math.Sqrt(A) * alpha
		q = Biquad{
			A0: (A + 1) + (A-1)*cos + sqA,
			A1: -2 * ((A - 1) + (A+1)*cos),
			A2: (A + 1) + (A-1)*cos - sqA,
			B0: A * ((A + 1) - (A-1)*cos + sqA) * g,
			B1: 2 * A * ((A - 1) - (A+1)*cos) * g,
			B2: A * ((A + 1) - (A-1)*cos - sqA) * g,
		}

	case HighShelf:
		alpha := sin / 2 * math.Sqrt((A+1/A)*(1/eq.S-1)+2)
		sqA := 2 * math.Sqrt(A) * alpha
		q = Biquad{
			A0: (A + 1) - (A-1)*cos + sqA,
			A1: 2 * ((A - 1) - (A+1)*cos),
			A2: (A + 1) - (A-1)*cos - sqA,
			B0: A * ((A + 1) + (A-1)*cos + sqA) * g,
			B1: -2 * A * ((A - 1) + (A+1)*cos) * g,
			B2: A * ((A + 1) + (A-1)*cos - sqA) * g,
		}

	case Lowpass:
		q = lowpass(sin/(2*eq.Q), cos, g)
	case Highpass:
		q = highpass(sin/(2*eq.Q), cos, g)
	case ButterworthLowpass:
		q = lowpass(sin/(2*(1/math.Sqrt2)), cos, g)
	case ButterworthHighpass:
		q = highpass(sin/(2*(1/math.Sqrt2)), cos, g)
	case BesselLowpass:
		q = lowpass(sin/(2*(1/math.Sqrt(3))), cos, g)
	case BesselHighpass:
		q = highpass(sin/(2*(1/math.Sqrt(3))), cos, g)

	case Bandpass, Bandstop:
		alpha := sin * math.Sinh(math.Ln2/(2*eq.Bandwidth*w0/sin))
		q = Biquad{
			A0: 1 + alpha,
			A1: -2 * cos,
			A2: 1 - alpha,
		}
		if eq.Type == Bandpass {
			q.B0, q.B1, q.B2 = alpha*g, 0, -alpha*g
		} else {
			q.B0, q.B1, q.B2 = g, -2*cos*g, g
		}
	}
	return q, nil
}

func lowpass(alpha, cos, g float64) Biquad {
	return Biquad{
		A0: 1 + alpha,
		A1: -2 * cos,
		A2: 1 - alpha,
		B0: (1 - cos) * g / 2,
		B1: (1 - cos) * g,
		B2: (1 - cos) * g / 2,
	}
}

func highpass(alpha, cos, g float64) Biquad {
	return Biquad{
		A0: 1 + alpha,
		A1: -2 * cos,
		A2: 1 - alpha,
		B0: (1 + cos) * g / 2,
		B1: -(1 + cos) * g,
		B2: (1 + cos) * g / 2,
	}
}

// SecondOrder returns the five biquad cells of an EQ block.
func SecondOrder(eq SecondOrderEQ, fs float64) ([]fixed.Value, error) {
	q, err := SecondOrderBiquad(eq, fs)
	if err != nil {
		return nil, err
	}
	k := q.Coefficients(eq.Phase, eq.State)
	return fixed.Floats(k[:]...), nil
}

// ToneBiquad combines the treble and bass shelving stages of a Baxandall
// tone control into one second-order section.
func ToneBiquad(tc ToneControl, fs float64) (Biquad, error) {
	c := checker{block: "tone control"}
	c.rate(fs)
	c.frequency("bass frequency", tc.BassFreq, fs)
	c.frequency("treble frequency", tc.TrebleFreq, fs)
	c.finite("bass boost", tc.BassBoost)
	c.finite("treble boost", tc.TrebleBoost)
	if c.err != nil {
		return Biquad{}, c.err
	}

	tb := dBToLinear(tc.TrebleBoost)
	bb := dBToLinear(tc.BassBoost)
	wT := math.Tan(math.Pi * tc.TrebleFreq / fs)
	wB := math.Tan(math.Pi * tc.BassFreq / fs)

	knumT := 2 / (1 + 1/tb)
	kdenT := 2 / (1 + tb)
	knumB := 2 / (1 + 1/bb)
	kdenB := 2 / (1 + bb)

	alpha0 := wT + kdenT
	beta1 := wT + knumT
	alpha1 := wT - kdenT
	beta2 := wT - knumT

	alpha2 := wB*kdenB + 1
	beta3 := wB*knumB - 1
	alpha3 := wB*kdenB - 1
	beta4 := wB*knumB + 1

	return Biquad{
		A0: alpha0 * alpha2,
		A1: alpha0*alpha3 + alpha1*alpha2,
		A2: alpha1 * alpha3,
		B0: beta1 * beta3,
		B1: beta1*beta4 + beta2*beta3,
		B2: beta2 * beta4,
	}, nil
}

// Tone returns the five biquad cells of a tone control block.
func Tone(tc ToneControl, fs float64) ([]fixed.Value, error) {
	q, err := ToneBiquad(tc, fs)
	if err != nil {
		return nil, err
	}
	k := q.Coefficients(tc.Phase, tc.State)
	return fixed.Floats(k[:]...), nil
}
