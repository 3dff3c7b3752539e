package fixed

import (
	"fmt"
	"math"
	"strconv"
)

// Kind tells whether a Value is scaled (5.23) or raw (28.0).
type Kind uint8

const (
	// KindFloat values are encoded as 5.23 fixed point
	KindFloat Kind = iota

	// KindInt values are encoded as 28.0 integers
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "5.23"
	case KindInt:
		return "28.0"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a parameter value tagged with the format it must be written in.
// The zero Value is the float 0.0.
type Value struct {
	kind Kind
	f    float64
	i    int32
}

// Float returns a 5.23 value.
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Int returns a 28.0 value.
func Int(v int32) Value {
	return Value{kind: KindInt, i: v}
}

// Number lists the host types accepted by Of.
type Number interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Of builds a Value from any host number. Integer types become 28.0 values
// after conversion to int32 (wider types are truncated to their low 32 bits),
// floating point types become 5.23 values after widening to float64.
//
// Example:
//
//	fixed.Of(0.5)        // 5.23
//	fixed.Of(uint8(2))   // 28.0
func Of[T Number](v T) Value {
	switch x := any(v).(type) {
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case int:
		return Int(int32(x))
	case int8:
		return Int(int32(x))
	case int16:
		return Int(int32(x))
	case int32:
		return Int(x)
	case int64:
		return Int(int32(x))
	case uint:
		return Int(int32(x))
	case uint8:
		return Int(int32(x))
	case uint16:
		return Int(int32(x))
	case uint32:
		return Int(int32(x))
	case uint64:
		return Int(int32(x))
	}
	panic("unreachable")
}

// Floats converts a list of reals to 5.23 values.
func Floats(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// Kind returns the encoding format of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Float64 returns the numeric value of v. For 28.0 values this is the integer
// itself, not its 5.23 interpretation.
func (v Value) Float64() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Int32 returns the raw integer that will be placed on the wire.
func (v Value) Int32() int32 {
	if v.kind == KindInt {
		return v.i
	}
	return FloatToInt(v.f)
}

// Word encodes v.
func (v Value) Word() Word {
	if v.kind == KindInt {
		return EncodeInt(v.i)
	}
	return EncodeFloat(v.f)
}

// Check reports whether v can be encoded without wrapping.
// Integers always can; floats must be finite and round to a raw value
// inside the 28-bit range [-2^27, 2^27).
func (v Value) Check() error {
	if v.kind == KindInt {
		return nil
	}
	raw := math.Round(v.f * Scale)
	switch {
	case math.IsNaN(v.f):
		return &RangeError{Value: v.f, Reason: "not a number"}
	case math.IsInf(v.f, 0):
		return &RangeError{Value: v.f, Reason: "infinite"}
	case raw < MinFloat*Scale || raw >= MaxFloat*Scale:
		return &RangeError{Value: v.f, Reason: fmt.Sprintf("outside 5.23 range [%g, %g)", MinFloat, MaxFloat)}
	}
	return nil
}

func (v Value) String() string {
	if v.kind == KindInt {
		return strconv.FormatInt(int64(v.i), 10)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}
