package algo

import (
	"math"

	"github.com/moffa90/go-sigmadsp/fixed"
)

// Compressor curve sizes.
const (
	RMSCurvePoints  = 34
	PeakCurvePoints = 33

	// curveMin and curveMax bound the input level grid in dB
	curveMin = -90.0
	curveMax = 6.0
)

// CompressorParams holds the computed cells of a compressor block in the
// order they are laid out in parameter RAM.
type CompressorParams struct {
	// Curve is the gain applied at each point of the input level grid
	Curve []float64

	// Attack is the RMS detector coefficient, RMS compressors only
	Attack float64

	// PostGain is the linear make-up gain, when the block has one
	PostGain float64

	// Hold is the hold time in samples
	Hold int32

	// Decay is the gain release per sample
	Decay float64

	rms      bool
	postGain bool
}

// Groups returns the cells split into the groups that are committed
// separately: the curve (plus the attack for RMS), then post-gain, hold and
// decay one by one.
func (p CompressorParams) Groups() [][]fixed.Value {
	head := fixed.Floats(p.Curve...)
	if p.rms {
		head = append(head, fixed.Float(p.Attack))
	}

	groups := [][]fixed.Value{head}
	if p.postGain {
		groups = append(groups, []fixed.Value{fixed.Float(p.PostGain)})
	}
	return append(groups,
		[]fixed.Value{fixed.Int(p.Hold)},
		[]fixed.Value{fixed.Float(p.Decay)},
	)
}

// Len returns the number of parameter cells of the block.
func (p CompressorParams) Len() int {
	n := 0
	for _, g := range p.Groups() {
		n += len(g)
	}
	return n
}

// CompressorRMS computes the cells of an RMS compressor block.
func CompressorRMS(cfg Compressor, fs float64) (CompressorParams, error) {
	c := checker{block: "RMS compressor"}
	c.positive("RMS time constant", cfg.RMSTC)
	p, err := compressor(&c, cfg, fs, RMSCurvePoints)
	if err != nil {
		return CompressorParams{}, err
	}

	dbps := (20 / (cfg.RMSTC * 2.3)) * 1000
	p.Attack = math.Abs(1 - math.Pow(10, dbps/(10*fs)))
	p.rms = true
	return p, nil
}

// CompressorPeak computes the cells of a peak compressor block.
func CompressorPeak(cfg Compressor, fs float64) (CompressorParams, error) {
	c := checker{block: "peak compressor"}
	return compressor(&c, cfg, fs, PeakCurvePoints)
}

func compressor(c *checker, cfg Compressor, fs float64, points int) (CompressorParams, error) {
	c.rate(fs)
	c.finite("threshold", cfg.Threshold)
	c.finite("ratio", cfg.Ratio)
	if cfg.Ratio < 1 {
		c.fail("ratio", cfg.Ratio, "must be at least 1")
	}
	c.nonNegative("hold", cfg.Hold)
	c.positive("decay", cfg.Decay)
	if cfg.WithPostGain {
		c.finite("post gain", cfg.PostGain)
	}
	if c.err != nil {
		return CompressorParams{}, c.err
	}

	p := CompressorParams{
		Curve:    CompressorCurve(cfg.Threshold, cfg.Ratio, points),
		Hold:     int32(math.Round(cfg.Hold * fs / 1000)),
		Decay:    (20 / (cfg.Decay * 2.3)) * 1000 / (96 * fs),
		postGain: cfg.WithPostGain,
	}
	if cfg.WithPostGain {
		p.PostGain = math.Pow(10, cfg.PostGain/40)
	}
	return p, nil
}

// CompressorCurve samples the static gain of a compressor on points input
// levels from -90 dB upwards in steps of 96/points dB. Below threshold the
// gain is 1; above it the output rises with slope 1/ratio from the first
// grid point at or over the threshold.
func CompressorCurve(threshold, ratio float64, points int) []float64 {
	step := (math.Abs(curveMin) + math.Abs(curveMax)) / float64(points)
	slope := 1 / ratio

	curve := make([]float64, points)
	knee := false
	var delta float64
	for i := range curve {
		x := curveMin + step*float64(i)
		y := x
		if x >= threshold {
			if !knee {
				knee = true
				delta = x*slope - x
			}
			y = x*slope - delta
		}
		curve[i] = math.Pow(10, y/20) / math.Pow(10, x/20)
	}
	return curve
}
