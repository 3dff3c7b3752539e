package algo

import (
	"math"
	"testing"

	"github.com/moffa90/go-sigmadsp/fixed"
)

func TestCompressorCurveIdentity(t *testing.T) {
	for _, threshold := range []float64{-90, -40, 0, 6} {
		for _, points := range []int{RMSCurvePoints, PeakCurvePoints} {
			curve := CompressorCurve(threshold, 1, points)
			if len(curve) != points {
				t.Fatalf("len = %d, want %d", len(curve), points)
			}
			for i, g := range curve {
				if math.Abs(g-1) > 1e-12 {
					t.Errorf("threshold %v point %d = %v, want 1", threshold, i, g)
				}
			}
		}
	}
}

func TestCompressorCurveKnee(t *testing.T) {
	const ratio = 2.0
	curve := CompressorCurve(0, ratio, RMSCurvePoints)
	step := 96.0 / RMSCurvePoints

	knee := -1
	for i, g := range curve {
		x := -90 + step*float64(i)
		if x < 0 {
			if g != 1 {
				t.Errorf("point %d (%.2f dB) below threshold = %v, want 1", i, x, g)
			}
			continue
		}
		if knee < 0 {
			knee = i
		}
		xk := -90 + step*float64(knee)

		// Output rises with slope 1/ratio from the knee.
		want := -(x - xk) * (1 - 1/ratio)
		if got := 20 * math.Log10(g); math.Abs(got-want) > 1e-9 {
			t.Errorf("point %d (%.2f dB) = %.6f dB, want %.6f dB", i, x, got, want)
		}
	}
	if knee < 0 {
		t.Fatal("no point above threshold")
	}
	if curve[knee] != 1 {
		t.Errorf("knee point = %v, want 1", curve[knee])
	}
}

func TestCompressorRMS(t *testing.T) {
	cfg := Compressor{Threshold: -20, Ratio: 4, RMSTC: 10, Hold: 50, Decay: 500}
	p, err := CompressorRMS(cfg, fs)
	if err != nil {
		t.Fatal(err)
	}

	groups := p.Groups()
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if len(groups[0]) != RMSCurvePoints+1 {
		t.Errorf("curve group = %d cells, want %d", len(groups[0]), RMSCurvePoints+1)
	}
	if p.Len() != RMSCurvePoints+3 {
		t.Errorf("Len = %d", p.Len())
	}

	dbps := 20 / (10 * 2.3) * 1000
	if want := math.Abs(1 - math.Pow(10, dbps/(10*fs))); !near(p.Attack, want) {
		t.Errorf("attack = %v, want %v", p.Attack, want)
	}
	if groups[0][RMSCurvePoints] != fixed.Float(p.Attack) {
		t.Error("attack is not the last cell of the curve group")
	}

	if groups[1][0] != fixed.Int(2400) {
		t.Errorf("hold = %v, want 2400 samples", groups[1][0])
	}
	decay := 20 / (500 * 2.3) * 1000 / (96 * fs)
	if !near(groups[2][0].Float64(), decay) {
		t.Errorf("decay = %v, want %v", groups[2][0], decay)
	}
}

func TestCompressorPeak(t *testing.T) {
	cfg := NewCompressor(200)
	cfg.Threshold = -10
	cfg.Ratio = 3
	cfg.WithPostGain = true
	cfg.PostGain = 6

	p, err := CompressorPeak(cfg, fs)
	if err != nil {
		t.Fatal(err)
	}

	groups := p.Groups()
	if len(groups) != 4 {
		t.Fatalf("groups = %d, want 4", len(groups))
	}
	if len(groups[0]) != PeakCurvePoints {
		t.Errorf("curve group = %d cells, want %d", len(groups[0]), PeakCurvePoints)
	}
	if !near(groups[1][0].Float64(), math.Pow(10, 6.0/40)) {
		t.Errorf("post gain = %v", groups[1][0])
	}
	if groups[2][0] != fixed.Int(0) {
		t.Errorf("hold = %v, want 0", groups[2][0])
	}
}
