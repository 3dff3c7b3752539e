package fixed

import (
	"math"
	"strings"
	"testing"
)

func TestEncodeFloat(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Word
	}{
		{name: "zero", value: 0, want: Word{0x00, 0x00, 0x00, 0x00, 0x00}},
		{name: "one", value: 1.0, want: Word{0x00, 0x00, 0x80, 0x00, 0x00}},
		{name: "half", value: 0.5, want: Word{0x00, 0x00, 0x40, 0x00, 0x00}},
		{name: "minus one", value: -1.0, want: Word{0x00, 0xFF, 0x80, 0x00, 0x00}},
		{name: "1st order b0", value: -0.987082520837763, want: Word{0x00, 0xFF, 0x81, 0xA7, 0x48}},
		{name: "1st order a1", value: 0.987082520837763, want: Word{0x00, 0x00, 0x7E, 0x58, 0xB8}},
		{name: "sine increment 440Hz", value: 0.0183333333333333, want: Word{0x00, 0x00, 0x02, 0x58, 0xBF}},
		{name: "state variable freq", value: 0.130806258460286, want: Word{0x00, 0x00, 0x10, 0xBE, 0x42}},
		{name: "slew step", value: 0.000244140625, want: Word{0x00, 0x00, 0x00, 0x08, 0x00}},
		{name: "smallest step", value: 1.0 / Scale, want: Word{0x00, 0x00, 0x00, 0x00, 0x01}},
		{name: "lower bound", value: -16.0, want: Word{0x00, 0xF8, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeFloat(tt.value)
			if got != tt.want {
				t.Errorf("EncodeFloat(%v) = %v, want %v", tt.value, got, tt.want)
			}
			if got[0] != 0x00 {
				t.Errorf("padding byte = 0x%02X, want 0x00", got[0])
			}
		})
	}
}

func TestEncodeFloatWraps(t *testing.T) {
	// 256.0 * 2^23 = 2^31 does not fit in int32 and wraps to MinInt32
	got := EncodeFloat(256.0)
	want := Word{0x00, 0x80, 0x00, 0x00, 0x00}
	if got != want {
		t.Errorf("EncodeFloat(256) = %v, want %v", got, want)
	}
}

func TestEncodeInt(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		want  Word
	}{
		{name: "zero", value: 0, want: Word{0, 0, 0, 0, 0}},
		{name: "sine mask", value: 0xFF, want: Word{0, 0, 0, 0, 0xFF}},
		{name: "slew 12", value: 0x800, want: Word{0, 0, 0, 0x08, 0}},
		{name: "minus one", value: -1, want: Word{0, 0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "max", value: math.MaxInt32, want: Word{0, 0x7F, 0xFF, 0xFF, 0xFF}},
		{name: "min", value: math.MinInt32, want: Word{0, 0x80, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeInt(tt.value)
			if got != tt.want {
				t.Errorf("EncodeInt(%d) = %v, want %v", tt.value, got, tt.want)
			}
			if back := DecodeInt(got); back != tt.value {
				t.Errorf("DecodeInt = %d, want %d", back, tt.value)
			}
		})
	}
}

func TestFloatRoundTrip(t *testing.T) {
	const step = 1.0 / 1024
	tolerance := 1.0 / Scale

	for v := MinFloat; v < MaxFloat; v += step * 3.7 {
		got := Decode(EncodeFloat(v))
		if math.Abs(got-v) > tolerance {
			t.Fatalf("round trip of %v = %v, error %g exceeds %g", v, got, math.Abs(got-v), tolerance)
		}
	}

	edge := MaxFloat - 1.0/Scale
	if got := Decode(EncodeFloat(edge)); got != edge {
		t.Errorf("round trip of %v = %v", edge, got)
	}
}

func TestIntRoundTripSignPreserving(t *testing.T) {
	values := []int32{math.MinInt32, -134217728, -65536, -2, -1, 0, 1, 2, 255, 2048, 65535, 134217727, math.MaxInt32}
	for i := int32(-1 << 30); i < 1<<30; i += 12345677 {
		values = append(values, i)
	}

	for _, n := range values {
		if got := DecodeInt(EncodeInt(n)); got != n {
			t.Errorf("DecodeInt(EncodeInt(%d)) = %d", n, got)
		}
	}
}

func TestFloatToInt(t *testing.T) {
	tests := []struct {
		value float64
		want  int32
	}{
		{0, 0},
		{1, 8388608},
		{-1, -8388608},
		{0.25, 2097152},
		{1.0 / 3.0, 2796203},
		{-0.987082520837763, -8280248},
	}

	for _, tt := range tests {
		if got := FloatToInt(tt.value); got != tt.want {
			t.Errorf("FloatToInt(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestDecode519(t *testing.T) {
	tests := []struct {
		name string
		in   [3]byte
		want float64
	}{
		{name: "zero", in: [3]byte{0x00, 0x00, 0x00}, want: 0},
		{name: "one", in: [3]byte{0x08, 0x00, 0x00}, want: 1.0},
		{name: "half", in: [3]byte{0x04, 0x00, 0x00}, want: 0.5},
		{name: "minus one", in: [3]byte{0xF8, 0x00, 0x00}, want: -1.0},
		{name: "smallest negative", in: [3]byte{0xFF, 0xFF, 0xFF}, want: -1.0 / (1 << 19)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode519(tt.in); got != tt.want {
				t.Errorf("Decode519(% X) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		wantKind Kind
		wantWord Word
	}{
		{name: "float64", value: Of(0.5), wantKind: KindFloat, wantWord: EncodeFloat(0.5)},
		{name: "float32", value: Of(float32(0.25)), wantKind: KindFloat, wantWord: EncodeFloat(0.25)},
		{name: "int", value: Of(3), wantKind: KindInt, wantWord: EncodeInt(3)},
		{name: "int8 negative", value: Of(int8(-2)), wantKind: KindInt, wantWord: EncodeInt(-2)},
		{name: "uint8", value: Of(uint8(200)), wantKind: KindInt, wantWord: EncodeInt(200)},
		{name: "uint16", value: Of(uint16(60000)), wantKind: KindInt, wantWord: EncodeInt(60000)},
		{name: "uint32 narrowed", value: Of(uint32(0xFFFFFFFF)), wantKind: KindInt, wantWord: EncodeInt(-1)},
		{name: "int64 truncated", value: Of(int64(1) << 32), wantKind: KindInt, wantWord: EncodeInt(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Kind() != tt.wantKind {
				t.Errorf("Kind = %v, want %v", tt.value.Kind(), tt.wantKind)
			}
			if got := tt.value.Word(); got != tt.wantWord {
				t.Errorf("Word = %v, want %v", got, tt.wantWord)
			}
		})
	}
}

func TestValueCheck(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		wantErr bool
		errMsg  string
	}{
		{name: "in range", value: Float(1.5)},
		{name: "lower bound", value: Float(-16)},
		{name: "upper bound", value: Float(16), wantErr: true, errMsg: "outside 5.23 range"},
		{name: "too small", value: Float(-16.5), wantErr: true, errMsg: "outside 5.23 range"},
		{name: "rounds up to 16", value: Float(16 - 1.0/(1<<24)), wantErr: true, errMsg: "outside 5.23 range"},
		{name: "largest step below 16", value: Float(16 - 1.0/(1<<22))},
		{name: "rounds down past -16", value: Float(-16 - 1.0/(1<<24)), wantErr: true, errMsg: "outside 5.23 range"},
		{name: "rounds to -16", value: Float(-16 - 1.0/(1<<25))},
		{name: "nan", value: Float(math.NaN()), wantErr: true, errMsg: "not a number"},
		{name: "inf", value: Float(math.Inf(1)), wantErr: true, errMsg: "infinite"},
		{name: "large int", value: Int(math.MaxInt32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Check()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !IsRangeError(err) {
					t.Errorf("error type = %T, want *RangeError", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	f := Float(0.75)
	if f.Float64() != 0.75 {
		t.Errorf("Float64 = %v, want 0.75", f.Float64())
	}
	if f.Int32() != 6291456 {
		t.Errorf("Int32 = %d, want 6291456", f.Int32())
	}
	if f.String() != "0.75" {
		t.Errorf("String = %q, want 0.75", f.String())
	}

	i := Int(-7)
	if i.Float64() != -7 || i.Int32() != -7 || i.String() != "-7" {
		t.Errorf("Int accessors = %v %v %q", i.Float64(), i.Int32(), i.String())
	}

	var zero Value
	if zero.Kind() != KindFloat || zero.Word() != (Word{}) {
		t.Errorf("zero Value = %v %v, want float 0", zero.Kind(), zero.Word())
	}
}
