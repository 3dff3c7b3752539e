package preview

import "github.com/moffa90/go-sigmadsp/fixed"

// Filter processes one channel, one sample at a time.
type Filter interface {
	Process(x float64) float64
}

// cell returns v as the core reads it from parameter RAM.
func cell(v fixed.Value) float64 {
	return fixed.Decode(v.Word())
}

type gain struct {
	g float64
}

func (f *gain) Process(x float64) float64 {
	return f.g * x
}

type clip struct {
	high, low float64
}

func (f *clip) Process(x float64) float64 {
	switch {
	case x > f.high:
		return f.high
	case x < f.low:
		return f.low
	}
	return x
}

// delay is a circular delay line of len(line) samples.
type delay struct {
	line []float64
	pos  int
}

func (f *delay) Process(x float64) float64 {
	if len(f.line) == 0 {
		return x
	}
	y := f.line[f.pos]
	f.line[f.pos] = x
	f.pos = (f.pos + 1) % len(f.line)
	return y
}

// firstOrder computes y = b0·x + b1·x[n-1] + a1·y[n-1].
type firstOrder struct {
	b0, b1, a1 float64
	x1, y1     float64
}

func (f *firstOrder) Process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.a1*f.y1
	f.x1, f.y1 = x, y
	return y
}

// biquad is a direct form I section with the SigmaDSP sign convention: the
// a1 and a2 cells are added.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func (f *biquad) Process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 + f.a1*f.y1 + f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
