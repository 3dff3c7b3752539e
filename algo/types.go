package algo

import (
	"strconv"
	"strings"
)

// FilterType selects the coefficient formula of an equalizer block.
type FilterType uint8

// Filter types. Peaking and Parametric share one formula.
const (
	Peaking FilterType = iota
	Parametric
	LowShelf
	HighShelf
	Lowpass
	Highpass
	Bandpass
	Bandstop
	ButterworthLowpass
	ButterworthHighpass
	BesselLowpass
	BesselHighpass
)

var filterTypeNames = [...]string{
	Peaking:             "peaking",
	Parametric:          "parametric",
	LowShelf:            "lowShelf",
	HighShelf:           "highShelf",
	Lowpass:             "lowpass",
	Highpass:            "highpass",
	Bandpass:            "bandpass",
	Bandstop:            "bandstop",
	ButterworthLowpass:  "butterworthLowpass",
	ButterworthHighpass: "butterworthHighpass",
	BesselLowpass:       "besselLowpass",
	BesselHighpass:      "besselHighpass",
}

func (t FilterType) String() string {
	if int(t) < len(filterTypeNames) {
		return filterTypeNames[t]
	}
	return "filterType(" + strconv.Itoa(int(t)) + ")"
}

// ParseFilterType returns the filter type named s, as printed by String.
// Case is ignored.
func ParseFilterType(s string) (FilterType, bool) {
	for i, name := range filterTypeNames {
		if strings.EqualFold(name, s) {
			return FilterType(i), true
		}
	}
	return 0, false
}

// Phase selects the output polarity of a filter block.
type Phase uint8

const (
	// NonInverted is 0 degrees
	NonInverted Phase = iota

	// Inverted is 180 degrees: the feed-forward coefficients change sign
	Inverted
)

// State switches a filter block between filtering and bypass.
// The zero value is On.
type State uint8

const (
	// On computes the filter coefficients
	On State = iota

	// Off writes a unity pass-through
	Off
)

// FirstOrderEQ configures a first-order lowpass or highpass block.
type FirstOrderEQ struct {
	// Freq is the corner frequency in Hz (20-20000)
	Freq float64

	// Gain is the pass-band gain in dB (+/-15)
	Gain float64

	// Type is Lowpass or Highpass
	Type FilterType

	Phase Phase
	State State
}

// NewFirstOrderEQ returns a first-order EQ with unity gain, non-inverted and on.
func NewFirstOrderEQ(typ FilterType, freq float64) FirstOrderEQ {
	return FirstOrderEQ{Freq: freq, Type: typ}
}

// SecondOrderEQ configures a biquad equalizer block.
type SecondOrderEQ struct {
	// Q is the quality factor of peaking, parametric, lowpass and highpass
	// filters (0-16)
	Q float64

	// S is the shelf slope of lowShelf and highShelf filters (0-2]
	S float64

	// Bandwidth is the width in octaves of bandpass and bandstop filters (0-11)
	Bandwidth float64

	// Boost is the peak or shelf boost in dB (+/-15)
	Boost float64

	// Freq is the center or corner frequency in Hz (20-20000)
	Freq float64

	// Gain is the overall gain in dB (+/-15)
	Gain float64

	Type  FilterType
	Phase Phase
	State State
}

// NewSecondOrderEQ returns a biquad EQ with Q 1.41, shelf slope 1, unity gain,
// non-inverted and on.
func NewSecondOrderEQ(typ FilterType, freq float64) SecondOrderEQ {
	return SecondOrderEQ{
		Q:    1.41,
		S:    1,
		Freq: freq,
		Type: typ,
	}
}

// ToneControl configures a Baxandall bass and treble tone control.
type ToneControl struct {
	// BassBoost is the low shelf boost in dB
	BassBoost float64

	// TrebleBoost is the high shelf boost in dB
	TrebleBoost float64

	// BassFreq is the bass corner frequency in Hz
	BassFreq float64

	// TrebleFreq is the treble corner frequency in Hz
	TrebleFreq float64

	Phase Phase
	State State
}

// NewToneControl returns a flat tone control with the treble corner at 5 kHz.
func NewToneControl(bassFreq float64) ToneControl {
	return ToneControl{BassFreq: bassFreq, TrebleFreq: 5000}
}

// Compressor configures an RMS or peak compressor block.
type Compressor struct {
	// Threshold is the knee input level in dB (-90 to +6)
	Threshold float64

	// Ratio is the compression ratio above the threshold (1-100); 1 disables
	// compression
	Ratio float64

	// RMSTC is the RMS time constant in ms (1-500), RMS compressors only
	RMSTC float64

	// Hold is the hold time in ms (0-500)
	Hold float64

	// Decay is the decay time in ms (0-2000]
	Decay float64

	// PostGain is the make-up gain in dB (-30 to +24)
	PostGain float64

	// WithPostGain tells that the block has a post-gain cell between the
	// curve and the hold time
	WithPostGain bool
}

// NewCompressor returns a disabled compressor: ratio 1, 1 ms RMS time
// constant and the given decay.
func NewCompressor(decay float64) Compressor {
	return Compressor{Ratio: 1, RMSTC: 1, Decay: decay}
}
