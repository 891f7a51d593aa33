package di

import (
	"context"
	"errors"
	"io"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"
)

type state int

const (
	stateNew state = iota
	stateRefreshed
	stateClosing
	stateClosed
)

// Context holds bean definitions, the singleton cache and the registered
// listeners. It is safe for concurrent use.
//
// Factories run while the context lock is held and must not call back into the
// context; they receive their dependencies as parameters instead.
type Context struct {
	mu         sync.Mutex
	defs       map[string]*Definition
	order      []string
	singletons map[string]reflect.Value
	created    []string
	listeners  []Listener
	props      PropertySource
	log        *zap.Logger
	state      state
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger used for registration and creation messages.
func WithLogger(l *zap.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// WithProperties sets the source consulted for `value:"key"` fields.
func WithProperties(p PropertySource) ContextOption {
	return func(c *Context) { c.props = p }
}

// New returns an empty context.
func New(opts ...ContextOption) *Context {
	c := &Context{
		defs:       map[string]*Definition{},
		singletons: map[string]reflect.Value{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provide registers a bean method under name. fn returns T or (T, error) and
// its parameters are resolved by type, or by name where Qualify says so.
func (c *Context) Provide(name string, fn any, opts ...Option) error {
	if name == "" {
		return InvalidFactoryError{Reason: "empty bean name"}
	}
	d, err := newDefinition(name, KindBeanMethod, fn, opts)
	if err != nil {
		return err
	}
	return c.register(d)
}

// Component registers a constructor whose bean name is derived from the type
// it produces, unless Named is given.
func (c *Context) Component(fn any, opts ...Option) error {
	d, err := newDefinition("", KindComponent, fn, opts)
	if err != nil {
		return err
	}
	return c.register(d)
}

// Instance registers an already-built singleton.
func (c *Context) Instance(name string, v any) error {
	if name == "" {
		return InvalidFactoryError{Reason: "empty bean name"}
	}
	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return BeanCreationError{Name: name, Err: ErrNilBean}
	}
	return c.register(&Definition{
		Name:     name,
		Kind:     KindInstance,
		Scope:    Singleton,
		Type:     rv.Type(),
		instance: rv,
	})
}

func (c *Context) register(d *Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateNew:
	case stateRefreshed:
		return ErrAlreadyRefreshed
	default:
		return ErrContextClosed
	}
	if _, exists := c.defs[d.Name]; exists {
		return DuplicateBeanError{Name: d.Name}
	}
	c.defs[d.Name] = d
	c.order = append(c.order, d.Name)

	c.log.Debug("registered bean",
		zap.String("name", d.Name),
		zap.Stringer("kind", d.Kind),
		zap.Stringer("scope", d.Scope),
		zap.Stringer("type", d.Type),
	)
	return nil
}

// Refresh validates the graph, creates every non-lazy singleton in
// registration order, registers singletons implementing Listener and then
// publishes ContextRefreshedEvent.
//
// If creation fails, the singletons created so far are closed and the context
// is left closed.
func (c *Context) Refresh(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case stateNew:
	case stateRefreshed:
		c.mu.Unlock()
		return ErrAlreadyRefreshed
	default:
		c.mu.Unlock()
		return ErrContextClosed
	}

	if err := c.validate(); err != nil {
		c.mu.Unlock()
		return err
	}

	for _, name := range c.order {
		d := c.defs[name]
		if d.Scope != Singleton || d.Lazy {
			continue
		}
		if _, err := c.getByName(name, nil); err != nil {
			errs := append([]error{err}, c.destroySingletons()...)
			c.state = stateClosed
			c.mu.Unlock()
			return errors.Join(errs...)
		}
	}

	for _, name := range c.order {
		v, ok := c.singletons[name]
		if !ok {
			continue
		}
		if l, ok := v.Interface().(Listener); ok {
			c.listeners = append(c.listeners, l)
		}
	}

	c.state = stateRefreshed
	c.log.Debug("context refreshed", zap.Int("beans", len(c.order)), zap.Int("singletons", len(c.created)))
	c.mu.Unlock()

	return c.Publish(ctx, ContextRefreshedEvent{Context: c})
}

// Close publishes ContextClosedEvent, then closes every singleton the context
// created that implements io.Closer, in reverse creation order. Errors are
// joined. Closing twice is a no-op.
func (c *Context) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.state == stateClosing || c.state == stateClosed {
		c.mu.Unlock()
		return nil
	}
	wasRefreshed := c.state == stateRefreshed
	c.state = stateClosing
	c.mu.Unlock()

	var errs []error
	if wasRefreshed {
		if err := c.Publish(ctx, ContextClosedEvent{Context: c}); err != nil {
			errs = append(errs, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	errs = append(errs, c.destroySingletons()...)
	c.state = stateClosed
	c.log.Debug("context closed")
	return errors.Join(errs...)
}

// destroySingletons must be called with c.mu held.
func (c *Context) destroySingletons() []error {
	var errs []error
	for i := len(c.created) - 1; i >= 0; i-- {
		name := c.created[i]
		v := c.singletons[name]
		closer, ok := v.Interface().(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			c.log.Warn("closing bean failed", zap.String("name", name), zap.Error(err))
			errs = append(errs, BeanCreationError{Name: name, Err: err})
			continue
		}
		c.log.Debug("closed bean", zap.String("name", name))
	}
	c.created = nil
	c.singletons = map[string]reflect.Value{}
	return errs
}

// validate checks that every factory parameter has a candidate. It does not
// create anything. Must be called with c.mu held.
func (c *Context) validate() error {
	var errs []error
	for _, name := range c.order {
		d := c.defs[name]
		for i, p := range d.params {
			if _, err := c.candidateFor(p); err != nil {
				errs = append(errs, UnsatisfiedDependencyError{Bean: name, Param: i, Err: err})
			}
		}
	}
	return errors.Join(errs...)
}

// usable reports whether lookups are allowed. Must be called with c.mu held.
func (c *Context) usable() error {
	switch c.state {
	case stateRefreshed, stateClosing:
		return nil
	case stateNew:
		return ErrNotRefreshed
	default:
		return ErrContextClosed
	}
}

// Bean returns the bean registered under name.
func (c *Context) Bean(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return nil, err
	}
	v, err := c.getByName(name, nil)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Names returns every registered bean name in registration order.
func (c *Context) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// Definition returns a copy of the definition registered under name.
func (c *Context) Definition(name string) (Definition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.defs[name]
	if !ok {
		return Definition{}, false
	}
	return *d, true
}

// Autowire populates the tagged fields of target, which must be a non-nil
// pointer to a struct. See the package documentation for the tag syntax.
func (c *Context) Autowire(target any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usable(); err != nil {
		return err
	}
	v := reflect.ValueOf(target)
	if isNil(v) {
		return ErrNilTarget
	}
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return InvalidTargetError{Type: v.Type()}
	}
	return c.autowire(v, nil)
}

// getByName returns the bean called name, creating it when needed. path holds
// the names currently being created. Must be called with c.mu held.
func (c *Context) getByName(name string, path []string) (reflect.Value, error) {
	d, ok := c.defs[name]
	if !ok {
		return reflect.Value{}, NoSuchBeanError{Name: name}
	}
	if d.Kind == KindInstance {
		// Instances are owned by the caller and are never closed by the context.
		c.singletons[name] = d.instance
		return d.instance, nil
	}
	if d.Scope == Singleton {
		if v, ok := c.singletons[name]; ok {
			return v, nil
		}
	}
	if slices.Contains(path, name) {
		cycle := append(slices.Clone(path[slices.Index(path, name):]), name)
		return reflect.Value{}, CircularDependencyError{Path: cycle}
	}
	path = append(slices.Clone(path), name)

	args := make([]reflect.Value, len(d.params))
	for i, p := range d.params {
		arg, err := c.resolveParam(p, path)
		if err != nil {
			return reflect.Value{}, BeanCreationError{
				Name: name,
				Err:  UnsatisfiedDependencyError{Bean: name, Param: i, Err: err},
			}
		}
		args[i] = arg
	}

	out := d.factory.Call(args)
	if d.returnsErr && !out[1].IsNil() {
		return reflect.Value{}, BeanCreationError{Name: name, Err: out[1].Interface().(error)}
	}
	v := out[0]
	if isNil(v) {
		return reflect.Value{}, BeanCreationError{Name: name, Err: ErrNilBean}
	}
	if target := autowireTarget(v); target.IsValid() {
		if err := c.autowire(target, path); err != nil {
			return reflect.Value{}, BeanCreationError{Name: name, Err: err}
		}
	}

	if d.Scope == Singleton {
		c.singletons[name] = v
		c.created = append(c.created, name)
		c.log.Debug("created singleton", zap.String("name", name), zap.Stringer("type", d.Type))
	}
	return v, nil
}

func (c *Context) resolveParam(p param, path []string) (reflect.Value, error) {
	if p.qualifier == "" {
		return c.getByType(p.typ, path)
	}
	d, ok := c.defs[p.qualifier]
	if !ok {
		return reflect.Value{}, NoSuchBeanError{Name: p.qualifier}
	}
	if !d.Type.AssignableTo(p.typ) {
		return reflect.Value{}, WrongTypeBeanError{Name: p.qualifier, Want: p.typ, Got: d.Type}
	}
	return c.getByName(p.qualifier, path)
}

// getByType resolves the single candidate assignable to t.
func (c *Context) getByType(t reflect.Type, path []string) (reflect.Value, error) {
	name, err := c.uniqueCandidate(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return c.getByName(name, path)
}

// candidateFor reports the bean name p would resolve to.
func (c *Context) candidateFor(p param) (string, error) {
	if p.qualifier == "" {
		return c.uniqueCandidate(p.typ)
	}
	d, ok := c.defs[p.qualifier]
	if !ok {
		return "", NoSuchBeanError{Name: p.qualifier}
	}
	if !d.Type.AssignableTo(p.typ) {
		return "", WrongTypeBeanError{Name: p.qualifier, Want: p.typ, Got: d.Type}
	}
	return p.qualifier, nil
}

func (c *Context) uniqueCandidate(t reflect.Type) (string, error) {
	candidates := c.candidates(t)
	switch len(candidates) {
	case 0:
		return "", NoSuchBeanError{Type: t}
	case 1:
		return candidates[0], nil
	}

	var primary []string
	for _, name := range candidates {
		if c.defs[name].Primary {
			primary = append(primary, name)
		}
	}
	if len(primary) == 1 {
		return primary[0], nil
	}
	return "", NoUniqueBeanError{Type: t, Candidates: candidates}
}

// candidates lists, in registration order, the beans assignable to t.
func (c *Context) candidates(t reflect.Type) []string {
	var out []string
	for _, name := range c.order {
		if c.defs[name].Type.AssignableTo(t) {
			out = append(out, name)
		}
	}
	return out
}
