package testconfig

import (
	"fmt"
	"reflect"
)

// Provider is a read-only view over all configured sources.
//
// Implementations must be safe for concurrent reads. The config package provides
// the standard implementation.
type Provider interface {
	// Required returns the value of key converted to typ, or an error wrapping
	// ErrNotFound when the key is not defined in any source.
	Required(key string, typ reflect.Type) (any, error)
	// Optional returns the value of key converted to typ and whether the key was
	// defined at all.
	Optional(key string, typ reflect.Type) (any, bool, error)
	// Convert converts raw text to typ using the same rules as lookups.
	Convert(raw string, typ reflect.Type) (any, error)
}

// Resolver resolves configuration-backed parameters against a Provider.
// A Resolver holds no mutable state and may be shared between parallel tests.
type Resolver struct {
	provider Provider
}

// NewResolver creates a resolver backed by the given provider.
func NewResolver(p Provider) (*Resolver, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	return &Resolver{provider: p}, nil
}

// Supports reports whether the parameter carries configuration metadata.
// It does not check whether the key is actually configured.
func (r *Resolver) Supports(p Parameter) bool {
	return p.Property != nil
}

// Resolve returns the configured value for p converted to p.Type.
//
// A parameter without a default requires its key to be configured. With a
// default, a configured value always wins and the default is converted only when
// the key is absent. Provider errors are returned unchanged.
func (r *Resolver) Resolve(p Parameter) (any, error) {
	if !r.Supports(p) {
		return nil, fmt.Errorf("%w: %s has no configuration property", ErrUnsupportedParameter, p.Name)
	}
	if p.Type == nil {
		return nil, fmt.Errorf("%w: %s has no type", ErrUnsupportedParameter, p.Name)
	}

	prop := p.Property
	if !prop.HasDefault {
		return r.provider.Required(prop.Name, p.Type)
	}

	value, ok, err := r.provider.Optional(prop.Name, p.Type)
	if err != nil {
		return nil, err
	}
	if ok {
		return value, nil
	}

	return r.provider.Convert(prop.Default, p.Type)
}
