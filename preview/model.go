package preview

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"

	"github.com/moffa90/go-sigmadsp/algo"
	"github.com/moffa90/go-sigmadsp/fixed"
)

type stage struct {
	name      string
	newFilter func() Filter
}

// Model is an offline chain of SigmaStudio blocks. Each block is computed
// with the same algo functions the DSP block writers use and its cells are
// quantized to 5.23, so the output is what the DSP would play with those
// cells. The signal path itself runs in float64.
//
// Blocks are applied in the order they were added, to every channel
// independently.
type Model struct {
	sampleRate float64
	stages     []stage
}

// New returns an empty model running at sampleRate Hz.
func New(sampleRate float64) *Model {
	return &Model{sampleRate: sampleRate}
}

// SampleRate returns the rate the blocks are computed for.
func (m *Model) SampleRate() float64 {
	return m.sampleRate
}

// Blocks returns the names of the blocks in processing order.
func (m *Model) Blocks() []string {
	names := make([]string, len(m.stages))
	for i, s := range m.stages {
		names[i] = s.name
	}
	return names
}

func (m *Model) add(name string, newFilter func() Filter) {
	m.stages = append(m.stages, stage{name: name, newFilter: newFilter})
}

// Gain adds a linear gain block.
func (m *Model) Gain(g fixed.Value) error {
	vs, err := algo.Gain(g, 1)
	if err != nil {
		return err
	}
	k := cell(vs[0])
	m.add("gain", func() Filter { return &gain{g: k} })
	return nil
}

// Volume adds a volume control set to dB. The control jumps to the target
// gain; the slew ramp of the DSP is not modelled.
func (m *Model) Volume(dB float64) error {
	vs, err := algo.VolumeSlew(dB, algo.DefaultSlew)
	if err != nil {
		return err
	}
	k := cell(vs[0])
	m.add("volume", func() Filter { return &gain{g: k} })
	return nil
}

// HardClip adds a hard clipper with linear thresholds.
func (m *Model) HardClip(high, low float64) error {
	vs, err := algo.HardClip(high, low)
	if err != nil {
		return err
	}
	hi, lo := cell(vs[0]), cell(vs[1])
	m.add("hard clip", func() Filter { return &clip{high: hi, low: lo} })
	return nil
}

// AudioDelay adds a delay of ms milliseconds, clamped like the DSP block.
func (m *Model) AudioDelay(ms float64) error {
	vs, err := algo.AudioDelay(ms, m.sampleRate)
	if err != nil {
		return err
	}
	n := int(vs[0].Int32())
	m.add("delay", func() Filter { return &delay{line: make([]float64, n)} })
	return nil
}

// EQFirstOrder adds a first order lowpass or highpass filter.
func (m *Model) EQFirstOrder(eq algo.FirstOrderEQ) error {
	vs, err := algo.FirstOrder(eq, m.sampleRate)
	if err != nil {
		return err
	}
	b0, b1, a1 := cell(vs[0]), cell(vs[1]), cell(vs[2])
	m.add("first order "+eq.Type.String(), func() Filter {
		return &firstOrder{b0: b0, b1: b1, a1: a1}
	})
	return nil
}

// EQSecondOrder adds a second order EQ.
func (m *Model) EQSecondOrder(eq algo.SecondOrderEQ) error {
	vs, err := algo.SecondOrder(eq, m.sampleRate)
	if err != nil {
		return err
	}
	return m.addBiquad(eq.Type.String(), vs)
}

// ToneControl adds a bass/treble tone control.
func (m *Model) ToneControl(tc algo.ToneControl) error {
	vs, err := algo.Tone(tc, m.sampleRate)
	if err != nil {
		return err
	}
	return m.addBiquad("tone control", vs)
}

// Biquad adds a second order section from its five cells, in the order the
// DSP stores them: b0, b1, b2, a1, a2.
func (m *Model) Biquad(cells []fixed.Value) error {
	return m.addBiquad("biquad", cells)
}

func (m *Model) addBiquad(name string, vs []fixed.Value) error {
	if len(vs) != 5 {
		return fmt.Errorf("%s: got %d cells, want 5", name, len(vs))
	}
	var k [5]float64
	for i, v := range vs {
		k[i] = cell(v)
	}
	m.add(name, func() Filter {
		return &biquad{b0: k[0], b1: k[1], b2: k[2], a1: k[3], a2: k[4]}
	})
	return nil
}

// Process runs the model over buf in place. buf must be at the model's
// sample rate.
func (m *Model) Process(buf *audio.FloatBuffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("buffer has no format")
	}
	if float64(buf.Format.SampleRate) != m.sampleRate {
		return fmt.Errorf("input is %d Hz, model runs at %g Hz", buf.Format.SampleRate, m.sampleRate)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return fmt.Errorf("invalid channel count %d", channels)
	}

	for ch := 0; ch < channels; ch++ {
		filters := make([]Filter, len(m.stages))
		for i, s := range m.stages {
			filters[i] = s.newFilter()
		}
		for i := ch; i < len(buf.Data); i += channels {
			x := buf.Data[i]
			for _, f := range filters {
				x = f.Process(x)
			}
			buf.Data[i] = x
		}
	}
	return nil
}

// Sine returns n samples of a mono sine at freq Hz and linear amplitude
// level.
func Sine(freq float64, sampleRate, n int, level float64) *audio.FloatBuffer {
	data := make([]float64, n)
	for i := range data {
		data[i] = level * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   data,
	}
}

// Level returns the RMS level of channel ch of buf in dBFS, where a full
// scale sine reads -3 dB. Silence reads -Inf.
func Level(buf *audio.FloatBuffer, ch int) float64 {
	channels := buf.Format.NumChannels
	var sum float64
	n := 0
	for i := ch; i < len(buf.Data); i += channels {
		sum += buf.Data[i] * buf.Data[i]
		n++
	}
	if n == 0 || sum == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(math.Sqrt(sum/float64(n)))
}
