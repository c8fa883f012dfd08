package analysis

import "errors"

var (
	// ErrOversizedUncertainty indicates a half-width that pushes its
	// parameter outside the physical domain.
	ErrOversizedUncertainty = errors.New("analysis: uncertainty too large for parameter")

	ErrUnknownParam     = errors.New("analysis: unknown parameter")
	ErrInvalidHalfWidth = errors.New("analysis: half-width must be finite and non-negative")
)
