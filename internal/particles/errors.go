package particles

import (
	"errors"
	"fmt"
)

// Construction errors. The fixed-step loop itself never fails.
var (
	ErrNoParticles = errors.New("particles: world needs at least one particle")

	ErrInvalidBounds = errors.New("particles: world bounds must be positive")

	// ErrInvalidStep covers the simulation rate and the frame clamp.
	ErrInvalidStep = errors.New("particles: step rate and frame clamp must be positive")

	ErrInvalidMass = errors.New("particles: particle mass must be positive")

	ErrInvalidRadius = errors.New("particles: particle radius range is invalid")

	ErrInvalidSprites = errors.New("particles: sprite count must be positive")

	// ErrInvalidRotation indicates a spin rate that can wrap more than once per step.
	ErrInvalidRotation = errors.New("particles: rotation rate out of valid bounds")

	ErrSnapshotMismatch = errors.New("particles: snapshot does not match world size")
)

// ConfigError wraps a construction error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func invalid(field string, value any, err error) error {
	return &ConfigError{Field: field, Value: value, Wrapped: err}
}
