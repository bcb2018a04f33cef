package testconfig

import (
	"reflect"
)

const (
	// KeyTag is the struct tag holding the configuration key of a field.
	KeyTag = "config"
	// DefaultTag is the struct tag holding the textual default of a field.
	DefaultTag = "default"
)

// Property is the configuration metadata attached to a parameter.
type Property struct {
	Name       string // configuration key
	Default    string // textual default, only meaningful when HasDefault is set
	HasDefault bool
}

// Key returns a Property for a required key.
func Key(name string) Property {
	return Property{Name: name}
}

// WithDefault returns a copy of p that falls back to def when the key is absent.
func (p Property) WithDefault(def string) Property {
	p.Default = def
	p.HasDefault = true
	return p
}

// Parameter describes a value a test wants injected.
type Parameter struct {
	Name     string       // field or parameter name, used in error messages
	Type     reflect.Type // declared type the value is converted to
	Property *Property    // nil when the parameter carries no configuration metadata
}

// ParameterOf builds a Parameter from a struct field and its tags.
// Fields without a config tag, or tagged config:"-", have a nil Property.
func ParameterOf(f reflect.StructField) Parameter {
	param := Parameter{Name: f.Name, Type: f.Type}

	key, ok := f.Tag.Lookup(KeyTag)
	if !ok || key == "-" {
		return param
	}

	prop := Key(key)
	if def, ok := f.Tag.Lookup(DefaultTag); ok {
		prop = prop.WithDefault(def)
	}
	param.Property = &prop

	return param
}
