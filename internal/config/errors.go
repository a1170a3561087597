package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError reports a rejected configuration field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying cause, such as digest.ErrUnsupportedAlgorithm.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}
