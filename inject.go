package testconfig

import (
	"fmt"
	"reflect"
	"testing"
)

// Populate resolves every configuration-tagged field of target, which must be a
// non-nil pointer to a struct. Embedded structs are walked as well.
//
// Populate stops at the first field that cannot be resolved and returns a
// *ResolutionError wrapping the cause. Fields without a config tag are untouched.
func Populate(r *Resolver, target any) error {
	if r == nil {
		return ErrNilProvider
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrInvalidTarget, target)
	}

	return populate(r, rv.Elem(), "")
}

func populate(r *Resolver, v reflect.Value, prefix string) error {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		param := ParameterOf(f)
		param.Name = prefix + f.Name

		if !r.Supports(param) {
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				if err := populate(r, v.Field(i), param.Name+"."); err != nil {
					return err
				}
			}
			continue
		}

		field := v.Field(i)
		if !field.CanSet() {
			return &ResolutionError{
				Parameter: param.Name,
				Key:       param.Property.Name,
				Err:       fmt.Errorf("%w: field is not settable", ErrInvalidTarget),
			}
		}

		value, err := resolveValue(r, param)
		if err != nil {
			return err
		}
		field.Set(value)
	}

	return nil
}

// resolveValue resolves param and adapts the result to param.Type.
func resolveValue(r *Resolver, param Parameter) (reflect.Value, error) {
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &ResolutionError{Parameter: param.Name, Key: param.Property.Name, Err: err}
	}

	resolved, err := r.Resolve(param)
	if err != nil {
		return fail(err)
	}

	value := reflect.ValueOf(resolved)
	switch {
	case !value.IsValid():
		return reflect.Zero(param.Type), nil
	case value.Type().AssignableTo(param.Type):
		return value, nil
	case value.Kind() == param.Type.Kind() && value.Type().ConvertibleTo(param.Type):
		return value.Convert(param.Type), nil
	}

	return fail(fmt.Errorf("%w: provider returned %s for %s", ErrConversion, value.Type(), param.Type))
}

// Value resolves a single property as a T. It is meant for TestMain and other
// setup code that runs outside a struct-based test.
func Value[T any](r *Resolver, prop Property) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNilProvider
	}

	param := Parameter{Name: prop.Name, Type: reflect.TypeFor[T](), Property: &prop}
	value, err := resolveValue(r, param)
	if err != nil {
		return zero, err
	}

	out, ok := value.Interface().(T)
	if !ok {
		return zero, &ResolutionError{
			Parameter: prop.Name,
			Key:       prop.Name,
			Err:       fmt.Errorf("%w: cannot use %s as %s", ErrConversion, value.Type(), param.Type),
		}
	}
	return out, nil
}

// Inject populates target and fails tb when any parameter cannot be resolved.
func Inject(tb testing.TB, r *Resolver, target any) {
	tb.Helper()

	if err := Populate(r, target); err != nil {
		tb.Fatalf("inject configuration: %v", err)
	}
}

// Run injects a fresh P and calls fn with it. When injection fails the failure is
// reported on t and fn is not called.
func Run[T testing.TB, P any](t T, r *Resolver, fn func(T, P)) {
	t.Helper()

	var params P
	if err := Populate(r, &params); err != nil {
		t.Fatalf("inject configuration: %v", err)
		return
	}

	fn(t, params)
}
