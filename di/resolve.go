package di

import (
	"reflect"
)

// Resolve returns the single bean assignable to T. Several candidates resolve
// to the primary one; otherwise NoUniqueBeanError is returned.
func Resolve[T any](c *Context) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return zero, err
	}
	v, err := c.getByType(reflect.TypeFor[T](), nil)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}

// MustResolve wraps Resolve and panics on error.
func MustResolve[T any](c *Context) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// ResolveNamed returns the bean called name as a T.
func ResolveNamed[T any](c *Context, name string) (T, error) {
	var zero T
	raw, err := c.Bean(name)
	if err != nil {
		return zero, err
	}
	v, ok := raw.(T)
	if !ok {
		return zero, WrongTypeBeanError{Name: name, Want: reflect.TypeFor[T](), Got: reflect.TypeOf(raw)}
	}
	return v, nil
}

// BeansOfType returns every bean assignable to T keyed by name. Lazy
// singletons and prototypes are created as a side effect.
func BeansOfType[T any](c *Context) (map[string]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return nil, err
	}
	out := map[string]T{}
	for _, name := range c.candidates(reflect.TypeFor[T]()) {
		v, err := c.getByName(name, nil)
		if err != nil {
			return nil, err
		}
		out[name] = v.Interface().(T)
	}
	return out, nil
}
