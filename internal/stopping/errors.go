package stopping

import "errors"

var (
	// ErrUnknownModel indicates a stopping model name missing from the registry.
	ErrUnknownModel = errors.New("stopping: unknown stopping model")

	// ErrUnknownParticle indicates a test particle name that is not tabulated.
	ErrUnknownParticle = errors.New("stopping: unknown test particle")

	// ErrInvalidField indicates a species with a negative density, a
	// non-positive mass, or a non-positive temperature where one is needed.
	ErrInvalidField = errors.New("stopping: invalid field species")
)
