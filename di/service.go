package di

import (
	"reflect"
)

// DependencyKey identifies a dependency recorded by setter injection.
//
// Keys are typically package-level constants:
//
//	const KeyClientDao di.DependencyKey = "clientDao"
type DependencyKey string

// Key converts a string into a DependencyKey.
func Key(name string) DependencyKey { return DependencyKey(name) }

// Wired is a constructed value plus the dependencies handed to its setters.
//
// Bean methods use it when the produced object is wired through setters rather
// than its constructor:
//
//	w, err := di.Init(NewClientServiceImpl).
//		With(di.Injecting(KeyClientDao, dao, (*ClientServiceImpl).SetClientDao))
//
// Deps keeps every injected dependency for introspection in tests.
type Wired[T any] struct {
	Val  *T
	Deps map[DependencyKey]any
}

// Init constructs a Wired by calling ctor and initializing the dependency bag.
func Init[T any](ctor func() *T) *Wired[T] {
	return &Wired[T]{Val: ctor(), Deps: make(map[DependencyKey]any)}
}

// Value returns the constructed value pointer.
func (w *Wired[T]) Value() *T { return w.Val }

// Injector mutates a Wired in place and returns an error if wiring fails.
type Injector[T any] func(*Wired[T]) error

// With applies a single injector. A nil injector is a no-op.
func (w *Wired[T]) With(inj Injector[T]) (*Wired[T], error) {
	if inj == nil {
		return w, nil
	}
	if err := inj(w); err != nil {
		return w, err
	}
	return w, nil
}

// WithAll applies injectors in order and stops at the first error.
func (w *Wired[T]) WithAll(injs ...Injector[T]) (*Wired[T], error) {
	for _, inj := range injs {
		if _, err := w.With(inj); err != nil {
			return w, err
		}
	}
	return w, nil
}

// Injecting builds an Injector that records dep under key and hands it to set.
//
// set is usually a method expression such as (*ClientServiceImpl).SetClientDao.
//
// The returned injector fails if:
//   - the target (or its Val) is nil (ErrNilTarget)
//   - dep is nil (NilDependencyError)
//   - set is nil (NilSetterError)
//   - key was already injected (DuplicateKeyError)
func Injecting[T any, D any](key DependencyKey, dep D, set func(target *T, dependency D)) Injector[T] {
	return func(w *Wired[T]) error {
		if w == nil || w.Val == nil {
			return ErrNilTarget
		}
		if isNil(reflect.ValueOf(dep)) {
			return NilDependencyError{Key: key}
		}
		if set == nil {
			return NilSetterError{Key: key}
		}
		if w.Deps == nil {
			w.Deps = make(map[DependencyKey]any)
		}
		if _, exists := w.Deps[key]; exists {
			return DuplicateKeyError{Key: key}
		}

		w.Deps[key] = dep
		set(w.Val, dep)
		return nil
	}
}

// Has reports whether a dependency was recorded for key.
func (w *Wired[T]) Has(key DependencyKey) bool {
	if w == nil || w.Deps == nil {
		return false
	}
	_, ok := w.Deps[key]
	return ok
}

// GetAny returns the raw recorded dependency.
func (w *Wired[T]) GetAny(key DependencyKey) (any, bool) {
	if w == nil || w.Deps == nil {
		return nil, false
	}
	v, ok := w.Deps[key]
	return v, ok
}

// GetAs returns the dependency recorded under key as a D.
func GetAs[T any, D any](w *Wired[T], key DependencyKey) (D, bool) {
	var zero D
	if w == nil || w.Deps == nil {
		return zero, false
	}
	raw, ok := w.Deps[key]
	if !ok || raw == nil {
		return zero, false
	}
	d, ok := raw.(D)
	return d, ok
}

// TryGetAs is GetAs with typed errors: MissingDependencyError or
// WrongTypeDependencyError.
func TryGetAs[T any, D any](w *Wired[T], key DependencyKey) (D, error) {
	var zero D
	if w == nil || w.Deps == nil {
		return zero, MissingDependencyError{Key: key}
	}
	raw, ok := w.Deps[key]
	if !ok || raw == nil {
		return zero, MissingDependencyError{Key: key}
	}
	d, ok := raw.(D)
	if !ok {
		return zero, WrongTypeDependencyError{
			Key:     key,
			GotType: reflect.TypeOf(raw).String(),
		}
	}
	return d, nil
}

// isNil reports whether v is invalid or a nil pointer-like value.
func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
