package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/sagarc03/testconfig"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	timeType            = reflect.TypeFor[time.Time]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

var (
	errUnsupportedType = errors.New("unsupported target type")
	errEmptyText       = errors.New("empty text")
)

// Convert converts a configured value or textual default to typ.
// The returned error wraps testconfig.ErrConversion.
func Convert(value any, typ reflect.Type) (any, error) {
	if typ == nil {
		return nil, fmt.Errorf("%w: no target type", testconfig.ErrConversion)
	}

	out, err := convertValue(value, typ)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot convert %v to %s: %w", testconfig.ErrConversion, value, typ, err)
	}
	return out.Interface(), nil
}

func convertValue(value any, typ reflect.Type) (reflect.Value, error) {
	if value != nil && reflect.TypeOf(value) == typ {
		return reflect.ValueOf(value), nil
	}

	switch {
	case typ.Kind() == reflect.Pointer:
		elem, err := convertValue(value, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	case typ.Kind() == reflect.Interface:
		if value == nil {
			return reflect.Zero(typ), nil
		}
		if !reflect.TypeOf(value).Implements(typ) {
			return reflect.Value{}, fmt.Errorf("%T does not implement %s", value, typ)
		}
		return reflect.ValueOf(value), nil
	case typ == durationType:
		d, err := cast.ToDurationE(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	case typ == timeType:
		t, err := cast.ToTimeE(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	case reflect.PointerTo(typ).Implements(textUnmarshalerType):
		return unmarshalText(value, typ)
	}

	var (
		out any
		err error
	)

	switch typ.Kind() {
	case reflect.String:
		out, err = cast.ToStringE(value)
	case reflect.Bool:
		out, err = cast.ToBoolE(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		n, err = toInt64(value, typ.Bits())
		if err == nil && reflect.Zero(typ).OverflowInt(n) {
			err = fmt.Errorf("%d overflows %s", n, typ)
		}
		out = n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		n, err = toUint64(value, typ.Bits())
		if err == nil && reflect.Zero(typ).OverflowUint(n) {
			err = fmt.Errorf("%d overflows %s", n, typ)
		}
		out = n
	case reflect.Float32, reflect.Float64:
		var f float64
		f, err = toFloat64(value, typ.Bits())
		if err == nil && reflect.Zero(typ).OverflowFloat(f) {
			err = fmt.Errorf("%g overflows %s", f, typ)
		}
		out = f
	case reflect.Slice:
		return convertSlice(value, typ)
	default:
		return reflect.Value{}, errUnsupportedType
	}

	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(out).Convert(typ), nil
}

// toInt64 parses text strictly in base 10 after trimming. Values already typed
// by a structured file go through cast.
func toInt64(value any, bits int) (int64, error) {
	s, ok := value.(string)
	if !ok {
		return cast.ToInt64E(value)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyText
	}
	return strconv.ParseInt(s, 10, bits)
}

func toUint64(value any, bits int) (uint64, error) {
	s, ok := value.(string)
	if !ok {
		return cast.ToUint64E(value)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyText
	}
	return strconv.ParseUint(s, 10, bits)
}

func toFloat64(value any, bits int) (float64, error) {
	s, ok := value.(string)
	if !ok {
		return cast.ToFloat64E(value)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyText
	}
	return strconv.ParseFloat(s, bits)
}

func unmarshalText(value any, typ reflect.Type) (reflect.Value, error) {
	text, err := cast.ToStringE(value)
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(typ)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}

// convertSlice converts comma separated text, or a slice read from a structured
// file, element by element.
func convertSlice(value any, typ reflect.Type) (reflect.Value, error) {
	var items []any

	switch v := value.(type) {
	case nil:
	case string:
		if typ.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf([]byte(v)).Convert(typ), nil
		}
		if strings.TrimSpace(v) != "" {
			for _, part := range strings.Split(v, ",") {
				items = append(items, strings.TrimSpace(part))
			}
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return reflect.Value{}, fmt.Errorf("%T is not a list", value)
		}
		for i := range rv.Len() {
			items = append(items, rv.Index(i).Interface())
		}
	}

	out := reflect.MakeSlice(typ, 0, len(items))
	for i, item := range items {
		elem, err := convertValue(item, typ.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out = reflect.Append(out, elem)
	}
	return out, nil
}
