package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/moffa90/go-sigmadsp/algo"
	"github.com/moffa90/go-sigmadsp/fixed"
	"github.com/moffa90/go-sigmadsp/preview"
	"github.com/moffa90/go-sigmadsp/sigmadsp"
)

// blockKeys lists the settings each block kind accepts.
var blockKeys = map[string][]string{
	"gain":       {"value", "channels"},
	"volume":     {"db", "slew"},
	"mux":        {"index", "count"},
	"demux":      {"index", "count"},
	"clip":       {"high", "low"},
	"softclip":   {"alpha"},
	"dc":         {"level"},
	"sine":       {"freq"},
	"square":     {"freq"},
	"sawtooth":   {"freq"},
	"triangle":   {"freq"},
	"delay":      {"ms"},
	"eq":         {"type", "freq", "gain", "boost", "q", "s", "bw", "phase", "state"},
	"eq1":        {"type", "freq", "gain", "phase", "state"},
	"tone":       {"bass", "treble", "bassfreq", "treblefreq", "phase", "state"},
	"svf":        {"freq", "q"},
	"compressor": {"mode", "threshold", "ratio", "rmstc", "hold", "decay", "postgain"},
}

// blockDef is a block kind with key=value settings, as typed on the
// command line: "eq type=peaking freq=1000 boost=-6".
type blockDef struct {
	kind string
	args map[string]string
}

func parseBlock(fields []string) (blockDef, error) {
	if len(fields) == 0 {
		return blockDef{}, fmt.Errorf("missing block kind")
	}

	blk := blockDef{kind: strings.ToLower(fields[0]), args: make(map[string]string)}
	keys, ok := blockKeys[blk.kind]
	if !ok {
		return blockDef{}, fmt.Errorf("unknown block kind %q (known: %s)", fields[0], strings.Join(blockKinds(), ", "))
	}

	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return blockDef{}, fmt.Errorf("%s: setting %q is not key=value", blk.kind, f)
		}
		key = strings.ToLower(key)
		if !contains(keys, key) {
			return blockDef{}, fmt.Errorf("%s: unknown setting %q (known: %s)", blk.kind, key, strings.Join(keys, ", "))
		}
		blk.args[key] = value
	}
	return blk, nil
}

func blockKinds() []string {
	kinds := make([]string, 0, len(blockKeys))
	for k := range blockKeys {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (b blockDef) float(key string, def float64) (float64, error) {
	s, ok := b.args[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s=%q is not a number", b.kind, key, s)
	}
	return v, nil
}

func (b blockDef) int(key string, def int) (int, error) {
	s, ok := b.args[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %s=%q is not an integer", b.kind, key, s)
	}
	return v, nil
}

// value parses a gain: "0.5" is 5.23, "3i" is a 28.0 integer.
func (b blockDef) value(key string, def fixed.Value) (fixed.Value, error) {
	s, ok := b.args[key]
	if !ok {
		return def, nil
	}
	if strings.HasSuffix(s, "i") {
		n, err := strconv.ParseInt(strings.TrimSuffix(s, "i"), 0, 32)
		if err != nil {
			return fixed.Value{}, fmt.Errorf("%s: %s=%q is not an integer", b.kind, key, s)
		}
		return fixed.Int(int32(n)), nil
	}
	v, err := b.float(key, 0)
	return fixed.Float(v), err
}

// floats reads several float settings, stopping at the first error.
func (b blockDef) floats(defs map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(defs))
	for key, def := range defs {
		v, err := b.float(key, def)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (b blockDef) filterType(def algo.FilterType) (algo.FilterType, error) {
	s, ok := b.args["type"]
	if !ok {
		return def, nil
	}
	t, ok := algo.ParseFilterType(s)
	if !ok {
		return 0, fmt.Errorf("%s: unknown filter type %q", b.kind, s)
	}
	return t, nil
}

func (b blockDef) phaseState() (algo.Phase, algo.State, error) {
	phase := algo.NonInverted
	switch strings.ToLower(b.args["phase"]) {
	case "", "normal", "0":
	case "inverted", "180":
		phase = algo.Inverted
	default:
		return 0, 0, fmt.Errorf("%s: phase must be normal or inverted", b.kind)
	}

	state := algo.On
	switch strings.ToLower(b.args["state"]) {
	case "", "on":
	case "off":
		state = algo.Off
	default:
		return 0, 0, fmt.Errorf("%s: state must be on or off", b.kind)
	}
	return phase, state, nil
}

func (b blockDef) secondOrder() (algo.SecondOrderEQ, error) {
	t, err := b.filterType(algo.Peaking)
	if err != nil {
		return algo.SecondOrderEQ{}, err
	}
	v, err := b.floats(map[string]float64{"freq": 1000, "gain": 0, "boost": 0, "q": 1.41, "s": 1, "bw": 1})
	if err != nil {
		return algo.SecondOrderEQ{}, err
	}
	eq := algo.NewSecondOrderEQ(t, v["freq"])
	eq.Gain, eq.Boost, eq.Q, eq.S, eq.Bandwidth = v["gain"], v["boost"], v["q"], v["s"], v["bw"]
	eq.Phase, eq.State, err = b.phaseState()
	return eq, err
}

func (b blockDef) firstOrder() (algo.FirstOrderEQ, error) {
	t, err := b.filterType(algo.Lowpass)
	if err != nil {
		return algo.FirstOrderEQ{}, err
	}
	v, err := b.floats(map[string]float64{"freq": 1000, "gain": 0})
	if err != nil {
		return algo.FirstOrderEQ{}, err
	}
	eq := algo.NewFirstOrderEQ(t, v["freq"])
	eq.Gain = v["gain"]
	eq.Phase, eq.State, err = b.phaseState()
	return eq, err
}

func (b blockDef) tone() (algo.ToneControl, error) {
	v, err := b.floats(map[string]float64{"bass": 0, "treble": 0, "bassfreq": 100, "treblefreq": 5000})
	if err != nil {
		return algo.ToneControl{}, err
	}
	tc := algo.NewToneControl(v["bassfreq"])
	tc.TrebleFreq = v["treblefreq"]
	tc.BassBoost, tc.TrebleBoost = v["bass"], v["treble"]
	tc.Phase, tc.State, err = b.phaseState()
	return tc, err
}

func (b blockDef) compressor() (algo.Compressor, bool, error) {
	rms := true
	switch strings.ToLower(b.args["mode"]) {
	case "", "rms":
	case "peak":
		rms = false
	default:
		return algo.Compressor{}, false, fmt.Errorf("compressor: mode must be rms or peak")
	}

	v, err := b.floats(map[string]float64{"threshold": 0, "ratio": 1, "rmstc": 1, "hold": 0, "decay": 100, "postgain": 0})
	if err != nil {
		return algo.Compressor{}, false, err
	}
	c := algo.NewCompressor(v["decay"])
	c.Threshold, c.Ratio, c.RMSTC, c.Hold = v["threshold"], v["ratio"], v["rmstc"], v["hold"]
	if _, ok := b.args["postgain"]; ok {
		c.WithPostGain = true
		c.PostGain = v["postgain"]
	}
	return c, rms, nil
}

// cells computes the parameter cells of a block at sample rate fs.
func cells(b blockDef, fs float64) ([]fixed.Value, error) {
	switch b.kind {
	case "gain":
		g, err := b.value("value", fixed.Float(1))
		if err != nil {
			return nil, err
		}
		n, err := b.int("channels", 1)
		if err != nil {
			return nil, err
		}
		return algo.Gain(g, n)
	case "volume":
		dB, err := b.float("db", 0)
		if err != nil {
			return nil, err
		}
		slew, err := b.int("slew", algo.DefaultSlew)
		if err != nil {
			return nil, err
		}
		return algo.VolumeSlew(dB, slew)
	case "mux", "demux":
		index, err := b.int("index", 0)
		if err != nil {
			return nil, err
		}
		count, err := b.int("count", 2)
		if err != nil {
			return nil, err
		}
		if b.kind == "mux" {
			return algo.Mux(index, count)
		}
		return algo.Demux(index, count)
	case "clip":
		v, err := b.floats(map[string]float64{"high": 1, "low": -1})
		if err != nil {
			return nil, err
		}
		return algo.HardClip(v["high"], v["low"])
	case "softclip":
		alpha, err := b.float("alpha", 1)
		if err != nil {
			return nil, err
		}
		return algo.SoftClip(alpha)
	case "dc":
		level, err := b.float("level", 0)
		if err != nil {
			return nil, err
		}
		return algo.DCSource(level)
	case "sine", "square", "sawtooth", "triangle":
		freq, err := b.float("freq", 1000)
		if err != nil {
			return nil, err
		}
		return oscillator(b.kind)(freq, fs)
	case "delay":
		ms, err := b.float("ms", 0)
		if err != nil {
			return nil, err
		}
		return algo.AudioDelay(ms, fs)
	case "eq":
		eq, err := b.secondOrder()
		if err != nil {
			return nil, err
		}
		return algo.SecondOrder(eq, fs)
	case "eq1":
		eq, err := b.firstOrder()
		if err != nil {
			return nil, err
		}
		return algo.FirstOrder(eq, fs)
	case "tone":
		tc, err := b.tone()
		if err != nil {
			return nil, err
		}
		return algo.Tone(tc, fs)
	case "svf":
		v, err := b.floats(map[string]float64{"freq": 1000, "q": 1})
		if err != nil {
			return nil, err
		}
		return algo.StateVariable(v["freq"], v["q"], fs)
	case "compressor":
		c, rms, err := b.compressor()
		if err != nil {
			return nil, err
		}
		compute := algo.CompressorPeak
		if rms {
			compute = algo.CompressorRMS
		}
		p, err := compute(c, fs)
		if err != nil {
			return nil, err
		}
		var out []fixed.Value
		for _, g := range p.Groups() {
			out = append(out, g...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown block kind %q", b.kind)
}

func oscillator(kind string) func(freq, fs float64) ([]fixed.Value, error) {
	switch kind {
	case "square":
		return algo.SquareSource
	case "sawtooth":
		return algo.SawtoothSource
	case "triangle":
		return algo.TriangleSource
	}
	return algo.SineSource
}

// apply writes a block to the DSP at address. Blocks with a dedicated
// writer go through it so grouped commits are kept.
func apply(ctx context.Context, dsp *sigmadsp.DSP, address uint16, b blockDef) error {
	switch b.kind {
	case "compressor":
		c, rms, err := b.compressor()
		if err != nil {
			return err
		}
		if rms {
			return dsp.CompressorRMS(ctx, address, c)
		}
		return dsp.CompressorPeak(ctx, address, c)
	case "eq":
		eq, err := b.secondOrder()
		if err != nil {
			return err
		}
		return dsp.EQSecondOrder(ctx, address, eq)
	case "tone":
		tc, err := b.tone()
		if err != nil {
			return err
		}
		return dsp.ToneControl(ctx, address, tc)
	}

	vs, err := cells(b, dsp.SampleRate())
	if err != nil {
		return err
	}
	return dsp.SafeloadWrite(ctx, address, vs...)
}

// addToModel appends a block to a preview model.
func addToModel(m *preview.Model, b blockDef) error {
	switch b.kind {
	case "gain":
		g, err := b.value("value", fixed.Float(1))
		if err != nil {
			return err
		}
		return m.Gain(g)
	case "volume":
		dB, err := b.float("db", 0)
		if err != nil {
			return err
		}
		return m.Volume(dB)
	case "clip":
		v, err := b.floats(map[string]float64{"high": 1, "low": -1})
		if err != nil {
			return err
		}
		return m.HardClip(v["high"], v["low"])
	case "delay":
		ms, err := b.float("ms", 0)
		if err != nil {
			return err
		}
		return m.AudioDelay(ms)
	case "eq":
		eq, err := b.secondOrder()
		if err != nil {
			return err
		}
		return m.EQSecondOrder(eq)
	case "eq1":
		eq, err := b.firstOrder()
		if err != nil {
			return err
		}
		return m.EQFirstOrder(eq)
	case "tone":
		tc, err := b.tone()
		if err != nil {
			return err
		}
		return m.ToneControl(tc)
	}
	return fmt.Errorf("%s blocks cannot be previewed", b.kind)
}
