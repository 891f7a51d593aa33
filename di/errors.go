package di

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrNilTarget is returned when an injector or Autowire is applied to a nil target.
	ErrNilTarget = errors.New("di: nil target")

	// ErrNilBean is returned when a factory produces a nil value.
	ErrNilBean = errors.New("di: factory returned nil")

	// ErrContextClosed is returned by lookups on a closed context.
	ErrContextClosed = errors.New("di: context is closed")

	// ErrNotRefreshed is returned by lookups before Refresh has completed.
	ErrNotRefreshed = errors.New("di: context not refreshed")

	// ErrAlreadyRefreshed is returned by Refresh on a refreshed context and by
	// registration calls made after Refresh.
	ErrAlreadyRefreshed = errors.New("di: context already refreshed")

	// ErrUnexportedField is returned when an inject or value tag sits on an
	// unexported struct field.
	ErrUnexportedField = errors.New("di: cannot inject unexported field")

	// ErrNoPropertySource is returned when a value tag is used on a context
	// without a PropertySource.
	ErrNoPropertySource = errors.New("di: no property source configured")
)

// DuplicateKeyError is returned when an injector attempts to record a dependency
// under a key that already exists in the target.
type DuplicateKeyError struct{ Key DependencyKey }

func (e DuplicateKeyError) Error() string {
	return "di: duplicate dependency key " + strconv.Quote(string(e.Key))
}

// MissingDependencyError is returned by TryGetAs when the key is not present.
type MissingDependencyError struct{ Key DependencyKey }

func (e MissingDependencyError) Error() string {
	return "di: dependency " + strconv.Quote(string(e.Key)) + " missing"
}

// WrongTypeDependencyError is returned by TryGetAs when the key exists but holds
// a value of another type.
type WrongTypeDependencyError struct {
	Key DependencyKey

	// GotType is reflect.TypeOf(raw).String() for the stored value.
	GotType string
}

func (e WrongTypeDependencyError) Error() string {
	return "di: dependency " + strconv.Quote(string(e.Key)) + " has wrong type (" + e.GotType + ")"
}

// NilDependencyError indicates a nil dependency handed to Injecting.
type NilDependencyError struct{ Key DependencyKey }

func (e NilDependencyError) Error() string {
	return "di: nil dependency for key " + strconv.Quote(string(e.Key))
}

// NilSetterError indicates a nil setter handed to Injecting.
type NilSetterError struct{ Key DependencyKey }

func (e NilSetterError) Error() string {
	return "di: nil setter for key " + strconv.Quote(string(e.Key))
}

// DuplicateBeanError is returned when a bean name is registered twice.
type DuplicateBeanError struct{ Name string }

func (e DuplicateBeanError) Error() string {
	return "di: bean " + strconv.Quote(e.Name) + " already registered"
}

// NoSuchBeanError is returned when no definition matches a name or a type.
// Exactly one of Name and Type is set.
type NoSuchBeanError struct {
	Name string
	Type reflect.Type
}

func (e NoSuchBeanError) Error() string {
	if e.Type != nil {
		return "di: no bean of type " + e.Type.String()
	}
	return "di: no bean named " + strconv.Quote(e.Name)
}

// NoUniqueBeanError is returned when a by-type lookup matches several
// definitions and none (or more than one) of them is primary.
type NoUniqueBeanError struct {
	Type       reflect.Type
	Candidates []string
}

func (e NoUniqueBeanError) Error() string {
	return "di: expected single bean of type " + e.Type.String() +
		" but found " + strconv.Itoa(len(e.Candidates)) + ": " + strings.Join(e.Candidates, ", ")
}

// WrongTypeBeanError is returned when a named bean is not assignable to the
// requested type.
type WrongTypeBeanError struct {
	Name string
	Want reflect.Type
	Got  reflect.Type
}

func (e WrongTypeBeanError) Error() string {
	return "di: bean " + strconv.Quote(e.Name) + " is " + e.Got.String() + ", not " + e.Want.String()
}

// CircularDependencyError reports a dependency cycle. Path starts and ends with
// the same bean name.
type CircularDependencyError struct{ Path []string }

func (e CircularDependencyError) Error() string {
	return "di: circular dependency " + strings.Join(e.Path, " -> ")
}

// BeanCreationError wraps any failure raised while creating a bean.
type BeanCreationError struct {
	Name string
	Err  error
}

func (e BeanCreationError) Error() string {
	return "di: creating bean " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

func (e BeanCreationError) Unwrap() error { return e.Err }

// UnsatisfiedDependencyError reports a factory parameter that cannot be
// resolved. Param is the zero-based parameter index.
type UnsatisfiedDependencyError struct {
	Bean  string
	Param int
	Err   error
}

func (e UnsatisfiedDependencyError) Error() string {
	return "di: bean " + strconv.Quote(e.Bean) + " parameter " + strconv.Itoa(e.Param) + ": " + e.Err.Error()
}

func (e UnsatisfiedDependencyError) Unwrap() error { return e.Err }

// InvalidFactoryError is returned at registration time when the factory is not
// usable: not a function, variadic, wrong results, or too many qualifiers.
type InvalidFactoryError struct {
	Name   string
	Reason string
}

func (e InvalidFactoryError) Error() string {
	if e.Name == "" {
		return "di: invalid factory: " + e.Reason
	}
	return "di: invalid factory for " + strconv.Quote(e.Name) + ": " + e.Reason
}

// FieldInjectionError reports a struct field that could not be populated.
type FieldInjectionError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e FieldInjectionError) Error() string {
	return "di: field " + e.Type.String() + "." + e.Field + ": " + e.Err.Error()
}

func (e FieldInjectionError) Unwrap() error { return e.Err }

// MissingPropertyError is returned when a value tag names an unknown key and
// carries no default.
type MissingPropertyError struct{ Key string }

func (e MissingPropertyError) Error() string {
	return "di: property " + strconv.Quote(e.Key) + " missing"
}

// PropertyConversionError is returned when a property cannot be converted to
// the field type.
type PropertyConversionError struct {
	Key  string
	Want reflect.Type
	Err  error
}

func (e PropertyConversionError) Error() string {
	msg := "di: property " + strconv.Quote(e.Key) + " is not convertible to " + e.Want.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e PropertyConversionError) Unwrap() error { return e.Err }

// InvalidTargetError is returned by Autowire when the target is not a pointer
// to a struct.
type InvalidTargetError struct{ Type reflect.Type }

func (e InvalidTargetError) Error() string {
	return "di: got a " + e.Type.String() + "; want a pointer to a struct"
}

// ListenerError wraps an error returned by a listener.
type ListenerError struct {
	Event string
	Err   error
}

func (e ListenerError) Error() string {
	return "di: listener for " + strconv.Quote(e.Event) + ": " + e.Err.Error()
}

func (e ListenerError) Unwrap() error { return e.Err }
