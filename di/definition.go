package di

import (
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var errorType = reflect.TypeFor[error]()

// Definition describes one registered bean.
type Definition struct {
	Name    string
	Kind    Kind
	Scope   Scope
	Type    reflect.Type
	Primary bool
	Lazy    bool

	params     []param
	qualifiers []string
	factory    reflect.Value
	returnsErr bool
	instance   reflect.Value
}

// param is one factory parameter. An empty qualifier means by-type lookup.
type param struct {
	typ       reflect.Type
	qualifier string
}

// Params returns the factory parameter types in order.
func (d Definition) Params() []reflect.Type {
	out := make([]reflect.Type, len(d.params))
	for i, p := range d.params {
		out[i] = p.typ
	}
	return out
}

// Option configures a definition at registration time.
type Option func(*Definition)

// Qualify names the bean to inject for each factory parameter, in order.
// An empty string keeps by-type lookup for that position.
//
//	c.Provide("beanDemo", cfg.BeanDemo, di.Qualify("theBeanNumber"))
func Qualify(names ...string) Option {
	return func(d *Definition) { d.qualifiers = names }
}

// WithScope sets the definition scope.
func WithScope(s Scope) Option {
	return func(d *Definition) { d.Scope = s }
}

// Primary marks the definition as the preferred candidate for by-type lookups.
func Primary() Option {
	return func(d *Definition) { d.Primary = true }
}

// Lazy defers singleton creation from Refresh to the first lookup.
func Lazy() Option {
	return func(d *Definition) { d.Lazy = true }
}

// Named overrides the name derived for a component.
func Named(name string) Option {
	return func(d *Definition) { d.Name = name }
}

// newDefinition inspects fn the way a constructor is recognised: a non-variadic
// function returning T or (T, error).
func newDefinition(name string, kind Kind, fn any, opts []Option) (*Definition, error) {
	if fn == nil {
		return nil, InvalidFactoryError{Name: name, Reason: "nil factory"}
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, InvalidFactoryError{Name: name, Reason: "got " + t.String() + "; want a function"}
	}
	if v.IsNil() {
		return nil, InvalidFactoryError{Name: name, Reason: "nil factory"}
	}
	if t.IsVariadic() {
		return nil, InvalidFactoryError{Name: name, Reason: "variadic factories are not supported"}
	}
	numOut := t.NumOut()
	if numOut == 0 || numOut > 2 || (numOut == 2 && t.Out(1) != errorType) {
		return nil, InvalidFactoryError{Name: name, Reason: t.String() + " must return T or (T, error)"}
	}

	d := &Definition{
		Name:       name,
		Kind:       kind,
		Scope:      Singleton,
		Type:       t.Out(0),
		factory:    v,
		returnsErr: numOut == 2,
		params:     make([]param, t.NumIn()),
	}
	for i := range d.params {
		d.params[i] = param{typ: t.In(i)}
	}

	if kind == KindComponent && d.Name == "" {
		d.Name = componentName(d.Type)
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.Name == "" {
		return nil, InvalidFactoryError{Reason: "cannot derive a bean name for " + d.Type.String() + "; use Named"}
	}
	if len(d.qualifiers) > len(d.params) {
		return nil, InvalidFactoryError{
			Name:   d.Name,
			Reason: strconv.Itoa(len(d.qualifiers)) + " qualifiers for " + strconv.Itoa(len(d.params)) + " parameters",
		}
	}
	for i, q := range d.qualifiers {
		d.params[i].qualifier = q
	}
	return d, nil
}

// componentName derives the bean name of a component from its type:
// *ComponentDemo becomes "componentDemo", URLMapper stays "URLMapper".
func componentName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return decapitalize(t.Name())
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, n := utf8.DecodeRuneInString(s)
	if len(s) > n {
		second, _ := utf8.DecodeRuneInString(s[n:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			return s
		}
	}
	return string(unicode.ToLower(first)) + s[n:]
}
