package testconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a required key is not defined in any source
	ErrNotFound = errors.New("configuration property not found")
	// ErrConversion is returned when a value cannot be converted to the requested type
	ErrConversion = errors.New("configuration value conversion failed")
	// ErrNilProvider is returned when a resolver is built without a provider
	ErrNilProvider = errors.New("configuration provider is nil")
	// ErrUnsupportedParameter is returned when resolving a parameter without configuration metadata
	ErrUnsupportedParameter = errors.New("unsupported parameter")
	// ErrInvalidTarget is returned when an injection target is not a pointer to a struct
	ErrInvalidTarget = errors.New("invalid injection target")
)

// ResolutionError reports which parameter could not be resolved.
// The underlying provider error is available through errors.Is and errors.As.
type ResolutionError struct {
	Parameter string
	Key       string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve parameter %s (key %q): %v", e.Parameter, e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
