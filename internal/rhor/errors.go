package rhor

import (
	"errors"
	"fmt"
)

// Domain errors for model construction and queries.
var (
	// ErrInvalidConfiguration indicates a ShellConfiguration field outside
	// its physical domain. Values are never clamped.
	ErrInvalidConfiguration = errors.New("rhor: invalid configuration")

	// ErrPrecondition indicates a query argument that is not physical.
	ErrPrecondition = errors.New("rhor: precondition violated")

	// ErrOutOfRange indicates a query outside the built table. Callers
	// usually report the point as not computable and carry on.
	ErrOutOfRange = errors.New("rhor: outside attenuation table range")

	// ErrNonConvergence indicates the table march hit its step cap or
	// produced too few usable samples.
	ErrNonConvergence = errors.New("rhor: attenuation table did not converge")

	// ErrNonMonotone indicates the exit energy is not monotone in Rcm, so
	// the energy-to-radius inversion is ambiguous.
	ErrNonMonotone = errors.New("rhor: exit energy not monotone in Rcm")
)

// FieldError reports the configuration field that failed validation.
type FieldError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s: %s=%v: %s", ErrInvalidConfiguration, e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidConfiguration}
	}
	return []error{ErrInvalidConfiguration, e.Err}
}
