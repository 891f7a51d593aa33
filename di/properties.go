package di

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// PropertySource supplies values for `value:"key"` tagged fields.
//
// It is intentionally:
// - read-only
// - side effect free
//
// Expected usage:
//
//	val, ok, err := props.Lookup("employees.maxPageSize")
type PropertySource interface {
	Lookup(key string) (val any, ok bool, err error)
}

// ErrPropertyPanic is returned if a property source panics internally.
var ErrPropertyPanic = errors.New("di: panic during property lookup")

// MapProperties is a simple in-memory property source.
type MapProperties struct {
	items map[string]any
}

// NewMapProperties returns an empty source.
func NewMapProperties() *MapProperties {
	return &MapProperties{items: map[string]any{}}
}

// Set stores a value under a key and returns the source for chaining.
func (p *MapProperties) Set(key string, val any) *MapProperties {
	p.items[key] = val
	return p
}

// Lookup implements PropertySource and converts panics into errors.
func (p *MapProperties) Lookup(key string) (val any, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			val = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrPropertyPanic, rec)
		}
	}()

	v, ok := p.items[key]
	return v, ok, nil
}

// Get returns the value if present.
func (p *MapProperties) Get(key string) (any, bool) {
	v, ok := p.items[key]
	return v, ok
}

var durationType = reflect.TypeFor[time.Duration]()

// convertProperty converts a raw property value into a value of type want.
// Strings are parsed for numeric, bool and duration targets.
func convertProperty(key string, raw any, want reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Value{}, PropertyConversionError{Key: key, Want: want}
	}
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}

	if s, ok := raw.(string); ok {
		return parseProperty(key, s, want)
	}

	if want == durationType {
		return reflect.Value{}, PropertyConversionError{Key: key, Want: want}
	}
	if isNumeric(rv.Kind()) && isNumeric(want.Kind()) {
		return rv.Convert(want), nil
	}
	if want.Kind() == reflect.String {
		return reflect.ValueOf(fmt.Sprint(raw)).Convert(want), nil
	}
	return reflect.Value{}, PropertyConversionError{Key: key, Want: want}
}

func parseProperty(key, s string, want reflect.Type) (reflect.Value, error) {
	out := reflect.New(want).Elem()
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, PropertyConversionError{Key: key, Want: want, Err: err}
	}

	if want == durationType {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fail(err)
		}
		out.SetInt(int64(d))
		return out, nil
	}

	switch want.Kind() {
	case reflect.String:
		out.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fail(err)
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, want.Bits())
		if err != nil {
			return fail(err)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, want.Bits())
		if err != nil {
			return fail(err)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, want.Bits())
		if err != nil {
			return fail(err)
		}
		out.SetFloat(f)
	default:
		return fail(nil)
	}
	return out, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
