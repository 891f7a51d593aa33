package di

import (
	"reflect"
)

const (
	injectTag  = "inject"
	valueTag   = "value"
	defaultTag = "default"
)

// autowireTarget returns v as a pointer to a struct, or the zero Value when v
// holds anything else.
func autowireTarget(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v
}

// autowire populates fields tagged inject or value. Untagged fields keep
// whatever value they already had. Must be called with c.mu held.
func (c *Context) autowire(ptr reflect.Value, path []string) error {
	v := ptr.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		injectName, hasInject := sf.Tag.Lookup(injectTag)
		key, hasValue := sf.Tag.Lookup(valueTag)
		if !hasInject && !hasValue {
			continue
		}
		if !sf.IsExported() {
			return FieldInjectionError{Type: t, Field: sf.Name, Err: ErrUnexportedField}
		}

		var (
			fv  reflect.Value
			err error
		)
		if hasInject {
			fv, err = c.resolveParam(param{typ: sf.Type, qualifier: injectName}, path)
		} else {
			fv, err = c.property(key, sf)
		}
		if err != nil {
			return FieldInjectionError{Type: t, Field: sf.Name, Err: err}
		}
		v.Field(i).Set(fv)
	}
	return nil
}

func (c *Context) property(key string, sf reflect.StructField) (reflect.Value, error) {
	def, hasDefault := sf.Tag.Lookup(defaultTag)
	if c.props == nil {
		if hasDefault {
			return convertProperty(key, def, sf.Type)
		}
		return reflect.Value{}, ErrNoPropertySource
	}

	raw, ok, err := c.props.Lookup(key)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		if !hasDefault {
			return reflect.Value{}, MissingPropertyError{Key: key}
		}
		raw = def
	}
	return convertProperty(key, raw, sf.Type)
}
