package algo

import (
	"errors"
	"fmt"
	"math"
)

// ParamError indicates a block parameter outside the range its formula is
// defined for. No coefficient is produced.
type ParamError struct {
	Block  string
	Param  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: invalid %s %g: %s", e.Block, e.Param, e.Value, e.Reason)
}

// IsParamError returns true if the error is, or wraps, a ParamError.
func IsParamError(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe)
}

// checker collects the first violation found for a block.
type checker struct {
	block string
	err   error
}

func (c *checker) fail(param string, v float64, reason string) {
	if c.err == nil {
		c.err = &ParamError{Block: c.block, Param: param, Value: v, Reason: reason}
	}
}

func (c *checker) finite(param string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.fail(param, v, "must be finite")
	}
}

func (c *checker) positive(param string, v float64) {
	c.finite(param, v)
	if !(v > 0) {
		c.fail(param, v, "must be greater than 0")
	}
}

func (c *checker) nonNegative(param string, v float64) {
	c.finite(param, v)
	if v < 0 {
		c.fail(param, v, "must not be negative")
	}
}

// rate checks the sample rate.
func (c *checker) rate(fs float64) {
	c.positive("sample rate", fs)
}

// frequency checks 0 < f < fs/2.
func (c *checker) frequency(param string, f, fs float64) {
	c.positive(param, f)
	if f >= fs/2 {
		c.fail(param, f, fmt.Sprintf("must be below the Nyquist frequency %g Hz", fs/2))
	}
}

func (c *checker) index(param string, v, count int) {
	if v < 0 || v >= count {
		c.fail(param, float64(v), fmt.Sprintf("must be in [0, %d)", count))
	}
}
