package thermo

import (
	"fmt"

	"lacthermo/internal/ndarray"
)

// InvalidParameterError reports a physical parameter outside its domain.
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("thermo: invalid %s=%g: %s", e.Param, e.Value, e.Reason)
}

// ShapeMismatchError reports array inputs that do not broadcast together.
type ShapeMismatchError = ndarray.ShapeMismatchError

func invalid(param string, v float64, reason string) error {
	return &InvalidParameterError{Param: param, Value: v, Reason: reason}
}
