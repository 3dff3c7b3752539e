package sigmadsp

import (
	"context"
	"math"
	"testing"

	"github.com/moffa90/go-sigmadsp/algo"
	"github.com/moffa90/go-sigmadsp/fixed"
)

// q returns x as it reads back from parameter RAM.
func q(x float64) float64 {
	return fixed.Decode(fixed.EncodeFloat(x))
}

func TestDemux(t *testing.T) {
	dsp, _, chip := setup()

	if err := dsp.Demux(context.Background(), 100, 2, 4); err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 0, 1, 0}
	for i, w := range want {
		if got := chip.Param(100 + uint16(i)); got != w {
			t.Errorf("param %d = %v, want %v", 100+i, got, w)
		}
	}
	if len(chip.Commits) != 1 {
		t.Fatalf("%d commits, want 1", len(chip.Commits))
	}
	addrs := chip.Commits[0].Addresses()
	for i, a := range addrs {
		if a != 100+uint16(i) {
			t.Errorf("commit addresses = %v, want 100..103", addrs)
			break
		}
	}
}

func TestMux(t *testing.T) {
	dsp, _, chip := setup()
	ctx := context.Background()

	if err := dsp.Mux(ctx, 7, 2, 3); err != nil {
		t.Fatal(err)
	}
	if chip.ParamInt(7) != 2 {
		t.Errorf("mux cell = %d, want 2", chip.ParamInt(7))
	}

	if err := dsp.Mux(ctx, 7, 3, 3); !algo.IsParamError(err) {
		t.Errorf("index out of range: error = %v, want *algo.ParamError", err)
	}
}

func TestVolume(t *testing.T) {
	tests := []struct {
		name string
		dB   float64
		slew int
		gain float64
		step int32
	}{
		{name: "unity default slew", dB: 0, slew: algo.DefaultSlew, gain: 1, step: 0x400000 >> 11},
		{name: "half fastest", dB: 20 * math.Log10(0.5), slew: 1, gain: 0.5, step: 0x400000},
		{name: "quiet slowest", dB: -60, slew: 23, gain: 0.001, step: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsp, _, chip := setup()
			if err := dsp.VolumeSlew(context.Background(), 50, tt.dB, tt.slew); err != nil {
				t.Fatal(err)
			}
			if got := chip.Param(50); got != q(tt.gain) {
				t.Errorf("gain = %v, want %v", got, q(tt.gain))
			}
			if got := chip.ParamInt(51); got != tt.step {
				t.Errorf("slew step = %d, want %d", got, tt.step)
			}
		})
	}
}

func TestVolumeDefaultSlew(t *testing.T) {
	dsp, _, chip := setup()
	if err := dsp.Volume(context.Background(), 10, -6); err != nil {
		t.Fatal(err)
	}
	if chip.ParamInt(11) != 0x400000>>(algo.DefaultSlew-1) {
		t.Errorf("slew step = %d", chip.ParamInt(11))
	}
	if len(chip.Commits) != 1 {
		t.Errorf("%d commits, want 1", len(chip.Commits))
	}
}

func TestEQSecondOrderSingleCommit(t *testing.T) {
	dsp, _, chip := setup()

	eq := algo.NewSecondOrderEQ(algo.Peaking, 1000)
	eq.Boost = -6
	eq.Q = 2
	if err := dsp.EQSecondOrder(context.Background(), 24, eq); err != nil {
		t.Fatal(err)
	}

	if len(chip.Commits) != 1 || len(chip.Commits[0].Entries) != 5 {
		t.Fatalf("commits = %v, want one commit of 5", chip.Commits)
	}

	want, err := algo.SecondOrder(eq, 48000)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range want {
		if got := chip.ParamWord(24 + uint16(i)); got != w.Word() {
			t.Errorf("coefficient %d = %v, want %v", i, got, w.Word())
		}
	}
}

func TestCompressorRMS(t *testing.T) {
	dsp, _, chip := setup()

	c := algo.NewCompressor(500)
	c.Threshold = -20
	c.Ratio = 4
	c.Hold = 10
	if err := dsp.CompressorRMS(context.Background(), 40, c); err != nil {
		t.Fatal(err)
	}

	// 34 curve points and the attack in 7 commits, then hold and decay
	if len(chip.Commits) != 9 {
		t.Fatalf("%d commits, want 9", len(chip.Commits))
	}
	for i, n := range []int{5, 5, 5, 5, 5, 5, 5, 1, 1} {
		if len(chip.Commits[i].Entries) != n {
			t.Errorf("commit %d has %d entries, want %d", i, len(chip.Commits[i].Entries), n)
		}
	}

	if chip.Param(40) != 1 {
		t.Errorf("curve below threshold = %v, want 1", chip.Param(40))
	}
	hold := uint16(40 + algo.RMSCurvePoints + 1)
	if chip.ParamInt(hold) != 480 {
		t.Errorf("hold = %d samples, want 480", chip.ParamInt(hold))
	}
	if chip.Commits[8].Entries[0].Address != hold+1 {
		t.Errorf("decay written at %d, want %d", chip.Commits[8].Entries[0].Address, hold+1)
	}
}

func TestCompressorPeakPostGain(t *testing.T) {
	dsp, _, chip := setup()

	c := algo.NewCompressor(100)
	c.WithPostGain = true
	c.PostGain = 6
	if err := dsp.CompressorPeak(context.Background(), 200, c); err != nil {
		t.Fatal(err)
	}

	// 33 curve points in 7 commits, then post-gain, hold and decay
	if len(chip.Commits) != 10 {
		t.Fatalf("%d commits, want 10", len(chip.Commits))
	}
	post := uint16(200 + algo.PeakCurvePoints)
	if got, want := chip.Param(post), q(math.Pow(10, 6.0/40)); got != want {
		t.Errorf("post gain = %v, want %v", got, want)
	}
	if chip.ParamInt(post+1) != 0 {
		t.Errorf("hold = %d, want 0", chip.ParamInt(post+1))
	}
}

func TestCompressorPastParamRAM(t *testing.T) {
	dsp, b, _ := setup()
	if err := dsp.CompressorRMS(context.Background(), 1000, algo.NewCompressor(100)); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(b.Transfers) != 0 {
		t.Errorf("%d transfers before the error", len(b.Transfers))
	}
}

func TestAudioDelayClamp(t *testing.T) {
	tests := []struct {
		ms   float64
		want int32
	}{
		{ms: 0, want: 0},
		{ms: 10, want: 480},
		{ms: 100, want: algo.MaxDelaySamples},
	}

	for _, tt := range tests {
		dsp, _, chip := setup()
		if err := dsp.AudioDelay(context.Background(), 3, tt.ms); err != nil {
			t.Fatal(err)
		}
		if got := chip.ParamInt(3); got != tt.want {
			t.Errorf("AudioDelay(%v) = %d samples, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestBlockParamErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(d *DSP) error
	}{
		{"EQ above Nyquist", func(d *DSP) error {
			return d.EQSecondOrder(ctx, 0, algo.NewSecondOrderEQ(algo.Lowpass, 30000))
		}},
		{"negative delay", func(d *DSP) error { return d.AudioDelay(ctx, 0, -1) }},
		{"slew out of range", func(d *DSP) error { return d.VolumeSlew(ctx, 0, 0, 24) }},
		{"zero channels", func(d *DSP) error { return d.Gain(ctx, 0, fixed.Float(1), 0) }},
		{"compressor ratio", func(d *DSP) error {
			c := algo.NewCompressor(100)
			c.Ratio = 0.5
			return d.CompressorPeak(ctx, 0, c)
		}},
		{"state variable Q", func(d *DSP) error { return d.StateVariable(ctx, 0, 1000, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsp, b, _ := setup()
			err := tt.call(dsp)
			if !algo.IsParamError(err) {
				t.Fatalf("error = %v, want *algo.ParamError", err)
			}
			if len(b.Transfers) != 0 {
				t.Errorf("%d transfers before the error", len(b.Transfers))
			}
		})
	}
}

func TestBlocksUseSampleRate(t *testing.T) {
	dsp, _, chip := setup(WithSampleRate(96000))
	ctx := context.Background()

	if err := dsp.SineSource(ctx, 10, 1000); err != nil {
		t.Fatal(err)
	}
	if chip.ParamInt(10) != 0xFF {
		t.Errorf("mask = %d, want 0xFF", chip.ParamInt(10))
	}
	if got, want := chip.Param(11), q(1000.0/24000); got != want {
		t.Errorf("increment = %v, want %v", got, want)
	}

	if err := dsp.AudioDelay(ctx, 20, 10); err != nil {
		t.Fatal(err)
	}
	if chip.ParamInt(20) != 960 {
		t.Errorf("delay = %d samples, want 960 at 96 kHz", chip.ParamInt(20))
	}

	if err := dsp.StateVariable(ctx, 30, 1000, 2); err != nil {
		t.Fatal(err)
	}
	if got, want := chip.Param(30), q(2*math.Sin(math.Pi*1000/96000)); got != want {
		t.Errorf("frequency cell = %v, want %v", got, want)
	}
}
