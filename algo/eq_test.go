package algo

import (
	"math"
	"math/cmplx"
	"testing"
)

// response evaluates the normalized biquad cells at frequency f.
func response(k []float64, f float64) complex128 {
	z1 := cmplx.Exp(complex(0, -2*math.Pi*f/fs))
	z2 := z1 * z1
	num := complex(k[0], 0) + complex(k[1], 0)*z1 + complex(k[2], 0)*z2
	den := 1 - complex(k[3], 0)*z1 - complex(k[4], 0)*z2
	return num / den
}

func dB(h complex128) float64 {
	return 20 * math.Log10(cmplx.Abs(h))
}

func TestFirstOrderBypass(t *testing.T) {
	for _, typ := range []FilterType{Lowpass, Highpass} {
		for _, freq := range []float64{20, 1000, 20000} {
			eq := NewFirstOrderEQ(typ, freq)
			eq.Gain = 12
			eq.Phase = Inverted
			eq.State = Off

			vs, err := FirstOrder(eq, fs)
			if err != nil {
				t.Fatal(err)
			}
			got := floats(t, vs)
			if got[0] != 1 || got[1] != 0 || got[2] != 0 {
				t.Errorf("%v %v Hz off = %v, want [1 0 0]", typ, freq, got)
			}
		}
	}
}

func TestFirstOrderInversion(t *testing.T) {
	tests := []FirstOrderEQ{
		{Freq: 100, Gain: 0, Type: Lowpass},
		{Freq: 1000, Gain: -6, Type: Lowpass},
		{Freq: 250, Gain: 3, Type: Highpass},
		{Freq: 15000, Gain: 15, Type: Highpass},
	}

	for _, eq := range tests {
		normal, err := FirstOrder(eq, fs)
		if err != nil {
			t.Fatal(err)
		}
		eq.Phase = Inverted
		inverted, err := FirstOrder(eq, fs)
		if err != nil {
			t.Fatal(err)
		}

		n, i := floats(t, normal), floats(t, inverted)
		if i[0] != -n[0] || i[1] != -n[1] || i[2] != n[2] {
			t.Errorf("%+v: normal %v, inverted %v", eq, n, i)
		}
	}
}

func TestFirstOrderCoefficients(t *testing.T) {
	w0 := 2 * math.Pi * 1000 / fs
	a1 := math.Pow(2.7, -w0)

	lp, _ := FirstOrder(NewFirstOrderEQ(Lowpass, 1000), fs)
	got := floats(t, lp)
	if !near(got[0], 1-a1) || got[1] != 0 || !near(got[2], a1) {
		t.Errorf("lowpass = %v", got)
	}

	hp, _ := FirstOrder(NewFirstOrderEQ(Highpass, 1000), fs)
	got = floats(t, hp)
	if !near(got[0], a1) || !near(got[1], -a1) || !near(got[2], a1) {
		t.Errorf("highpass = %v", got)
	}
}

func TestSecondOrderNormalization(t *testing.T) {
	eq := NewSecondOrderEQ(Peaking, 1000)
	eq.Q = 1

	vs, err := SecondOrder(eq, fs)
	if err != nil {
		t.Fatal(err)
	}
	got := floats(t, vs)

	// Independent evaluation of the peaking formula with zero boost and gain.
	w0 := 2 * math.Pi * 1000 / fs
	alpha := math.Sin(w0) / 2
	a0 := 1 + alpha
	a1 := -2 * math.Cos(w0)
	a2 := 1 - alpha

	if !near(got[4], -a2/a0) {
		t.Errorf("cell 4 = %v, want %v", got[4], -a2/a0)
	}
	if !near(got[3], -a1/a0) {
		t.Errorf("cell 3 = %v, want %v", got[3], -a1/a0)
	}
	// A flat peaking filter is an identity.
	if !near(got[0], 1) || !near(got[1], a1/a0) || !near(got[2], a2/a0) {
		t.Errorf("feed-forward = %v", got[:3])
	}
}

func TestSecondOrderPhaseAndState(t *testing.T) {
	for typ := Peaking; typ <= BesselHighpass; typ++ {
		eq := NewSecondOrderEQ(typ, 2000)
		eq.Bandwidth = 1
		eq.Boost = 4
		eq.Gain = -2

		normal, err := SecondOrder(eq, fs)
		if err != nil {
			t.Fatalf("%v: %v", typ, err)
		}
		eq.Phase = Inverted
		inverted, _ := SecondOrder(eq, fs)
		eq.State = Off
		off, _ := SecondOrder(eq, fs)

		n, i, o := floats(t, normal), floats(t, inverted), floats(t, off)
		for k := 0; k < 3; k++ {
			if i[k] != -n[k] {
				t.Errorf("%v: inverted b%d = %v, want %v", typ, k, i[k], -n[k])
			}
		}
		for k := 3; k < 5; k++ {
			if i[k] != n[k] {
				t.Errorf("%v: inverted feedback cell %d changed", typ, k)
			}
		}
		if o[0] != 1 || o[1] != 0 || o[2] != 0 || o[3] != 0 || o[4] != 0 {
			t.Errorf("%v: off = %v", typ, o)
		}
	}
}

func TestSecondOrderResponse(t *testing.T) {
	tests := []struct {
		name   string
		eq     SecondOrderEQ
		freq   float64
		wantDB float64
		tol    float64
	}{
		{name: "peaking boost at center", eq: SecondOrderEQ{Q: 1.41, Boost: 6, Freq: 1000, Type: Peaking}, freq: 1000, wantDB: 6, tol: 0.01},
		{name: "parametric cut at center", eq: SecondOrderEQ{Q: 4, Boost: -9, Freq: 3000, Type: Parametric}, freq: 3000, wantDB: -9, tol: 0.01},
		{name: "lowpass passband", eq: SecondOrderEQ{Q: 0.707, Freq: 5000, Type: Lowpass}, freq: 20, wantDB: 0, tol: 0.01},
		{name: "lowpass Q at corner", eq: SecondOrderEQ{Q: 2, Freq: 5000, Type: Lowpass}, freq: 5000, wantDB: 20 * math.Log10(2), tol: 0.01},
		{name: "highpass passband", eq: SecondOrderEQ{Q: 0.707, Freq: 100, Type: Highpass}, freq: 20000, wantDB: 0, tol: 0.05},
		{name: "butterworth corner", eq: SecondOrderEQ{Freq: 1000, Type: ButterworthLowpass}, freq: 1000, wantDB: -3.0103, tol: 0.01},
		{name: "butterworth highpass corner", eq: SecondOrderEQ{Freq: 1000, Type: ButterworthHighpass}, freq: 1000, wantDB: -3.0103, tol: 0.01},
		{name: "bessel dc", eq: SecondOrderEQ{Freq: 1000, Type: BesselLowpass, Gain: 3}, freq: 1, wantDB: 3, tol: 0.01},
		{name: "bessel corner", eq: SecondOrderEQ{Freq: 1000, Type: BesselLowpass}, freq: 1000, wantDB: -4.7712, tol: 0.01},
		{name: "bessel highpass corner", eq: SecondOrderEQ{Freq: 1000, Type: BesselHighpass}, freq: 1000, wantDB: -4.7712, tol: 0.01},
		{name: "bandpass center", eq: SecondOrderEQ{Bandwidth: 1, Freq: 2000, Type: Bandpass}, freq: 2000, wantDB: 0, tol: 0.01},
		{name: "low shelf dc", eq: SecondOrderEQ{S: 1, Boost: 6, Freq: 200, Type: LowShelf}, freq: 1, wantDB: 6, tol: 0.01},
		{name: "high shelf top", eq: SecondOrderEQ{S: 1, Boost: -6, Freq: 2000, Type: HighShelf}, freq: 23999, wantDB: -6, tol: 0.05},
		{name: "gain applies", eq: SecondOrderEQ{Q: 1, Freq: 1000, Gain: -6, Type: Peaking}, freq: 50, wantDB: -6, tol: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, err := SecondOrder(tt.eq, fs)
			if err != nil {
				t.Fatal(err)
			}
			got := dB(response(floats(t, vs), tt.freq))
			if math.Abs(got-tt.wantDB) > tt.tol {
				t.Errorf("|H(%v Hz)| = %.4f dB, want %.4f dB", tt.freq, got, tt.wantDB)
			}
		})
	}
}

func TestFixedQFilters(t *testing.T) {
	tests := []struct {
		typ   FilterType
		wantQ float64
	}{
		{ButterworthLowpass, 1 / math.Sqrt2},
		{ButterworthHighpass, 1 / math.Sqrt2},
		{BesselLowpass, 1 / math.Sqrt(3)},
		{BesselHighpass, 1 / math.Sqrt(3)},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			// Q is fixed by the type; the field is ignored.
			eq := SecondOrderEQ{Freq: 1000, Q: 10, Type: tt.typ}
			vs, err := SecondOrder(eq, fs)
			if err != nil {
				t.Fatal(err)
			}
			k := floats(t, vs)

			// The last cell is -a2/a0 = -(1-alpha)/(1+alpha).
			a2 := -k[4]
			alpha := (1 - a2) / (1 + a2)
			q := math.Sin(2*math.Pi*1000/fs) / (2 * alpha)
			if math.Abs(q-tt.wantQ) > 1e-4 {
				t.Errorf("Q = %.6f, want %.6f", q, tt.wantQ)
			}
		})
	}
}

func TestBandstopNotch(t *testing.T) {
	eq := SecondOrderEQ{Bandwidth: 1, Freq: 1000, Type: Bandstop}
	vs, err := SecondOrder(eq, fs)
	if err != nil {
		t.Fatal(err)
	}
	k := floats(t, vs)
	if got := cmplx.Abs(response(k, 1000)); got > 1e-6 {
		t.Errorf("|H(1000 Hz)| = %v, want 0", got)
	}
	if got := dB(response(k, 20)); math.Abs(got) > 0.01 {
		t.Errorf("|H(20 Hz)| = %v dB, want 0", got)
	}
}

func TestBiquadZeroA0(t *testing.T) {
	got := Biquad{B0: 1, B1: 2, B2: 3}.Coefficients(NonInverted, On)
	if got != [5]float64{1, 0, 0, 0, 0} {
		t.Errorf("Coefficients with A0 = 0: %v", got)
	}
}

func TestToneControl(t *testing.T) {
	flat := NewToneControl(100)
	vs, err := Tone(flat, fs)
	if err != nil {
		t.Fatal(err)
	}
	k := floats(t, vs)
	for _, f := range []float64{20, 100, 1000, 5000, 15000} {
		if got := dB(response(k, f)); math.Abs(got) > 0.01 {
			t.Errorf("flat tone control: |H(%v Hz)| = %.4f dB", f, got)
		}
	}

	boosted := NewToneControl(100)
	boosted.BassBoost = 6
	boosted.TrebleBoost = -6
	vs, err = Tone(boosted, fs)
	if err != nil {
		t.Fatal(err)
	}
	k = floats(t, vs)
	if got := dB(response(k, 5)); math.Abs(got-6) > 0.1 {
		t.Errorf("bass shelf: |H(5 Hz)| = %.3f dB, want 6", got)
	}
	if got := dB(response(k, 23000)); math.Abs(got+6) > 0.2 {
		t.Errorf("treble shelf: |H(23 kHz)| = %.3f dB, want -6", got)
	}

	boosted.Phase = Inverted
	inv, _ := Tone(boosted, fs)
	ki := floats(t, inv)
	for i := 0; i < 3; i++ {
		if ki[i] != -k[i] {
			t.Errorf("inverted b%d = %v, want %v", i, ki[i], -k[i])
		}
	}
	if ki[3] != k[3] || ki[4] != k[4] {
		t.Error("inversion changed the feedback cells")
	}

	boosted.State = Off
	off, _ := Tone(boosted, fs)
	if ko := floats(t, off); ko[0] != 1 || ko[3] != 0 {
		t.Errorf("off = %v", ko)
	}
}
