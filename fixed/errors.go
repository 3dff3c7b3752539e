package fixed

import (
	"errors"
	"fmt"
)

// RangeError indicates a float that cannot be represented as 5.23.
type RangeError struct {
	Value  float64
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("fixed: value %g cannot be encoded: %s", e.Value, e.Reason)
}

// IsRangeError returns true if the error is a RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}
