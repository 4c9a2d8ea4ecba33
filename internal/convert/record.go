package convert

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Entity is anything backed by a Record.
type Entity interface {
	Record() *Record
}

// Convertible is an Entity that renders itself as a wire mapping.
type Convertible interface {
	Entity
	ToMapping() (Mapping, error)
}

// Record stores the attribute values of one entity instance. Attributes
// that were never assigned, or were cleared, read as the field default.
type Record struct {
	schema *Schema
	values map[string]any
}

func NewRecord(s *Schema) *Record {
	return &Record{
		schema: s,
		values: make(map[string]any, len(s.fields)),
	}
}

func (r *Record) Schema() *Schema {
	return r.schema
}

func (r *Record) mustField(name string) *Field {
	f, ok := r.schema.byName[name]
	if !ok {
		panic(fmt.Sprintf("convert: schema %s has no field %q", r.schema.name, name))
	}
	return f
}

// Get returns the current value of the named attribute.
func (r *Record) Get(name string) any {
	f := r.mustField(name)
	v, ok := r.values[name]
	if !ok {
		v = f.Default
	}
	if v == nil && f.Fallback != nil {
		return f.Fallback(r)
	}
	return v
}

// IsSet reports whether the attribute holds an assigned value rather than
// its default.
func (r *Record) IsSet(name string) bool {
	r.mustField(name)
	_, ok := r.values[name]
	return ok
}

// Set assigns v through the public path, rejecting read-only fields.
func (r *Record) Set(name string, v any) error {
	f, ok := r.schema.byName[name]
	if !ok {
		return fmt.Errorf("%s.%s: %w", r.schema.name, name, ErrUnknownField)
	}
	if f.ReadOnly {
		return &ReadOnlyFieldError{Field: name}
	}
	r.values[name] = v
	return nil
}

// Force assigns v regardless of the read-only flag. It backs wire
// deserialization and server-assigned values.
func (r *Record) Force(name string, v any) {
	r.mustField(name)
	r.values[name] = v
}

// Clear restores the field default.
func (r *Record) Clear(name string) {
	r.mustField(name)
	delete(r.values, name)
}

// Reset restores every field default.
func (r *Record) Reset() {
	clear(r.values)
}

// Populate applies every field of the schema to wire.
func (r *Record) Populate(wire Mapping) error {
	for _, f := range r.schema.fields {
		if err := f.FromMapping(r, wire); err != nil {
			return fmt.Errorf("populate %s: %w", r.schema.name, err)
		}
	}
	return nil
}

// Mapping renders all exported fields in schema order.
func (r *Record) Mapping() (Mapping, error) {
	out := make(Mapping, len(r.schema.fields))
	for _, f := range r.schema.fields {
		m, err := f.ToMapping(r)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", r.schema.name, err)
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out, nil
}

// Values returns a snapshot of every attribute.
func (r *Record) Values() Values {
	out := make(Values, len(r.schema.fields))
	for _, f := range r.schema.fields {
		out[f.Name] = r.Get(f.Name)
	}
	return out
}

// Equal compares two records structurally.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.schema != other.schema {
		return false
	}
	for _, f := range r.schema.fields {
		if !valuesEqual(r.Get(f.Name), other.Get(f.Name)) {
			return false
		}
	}
	return true
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.schema.name)
	b.WriteByte('{')
	for i, f := range r.schema.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", f.Name, r.Get(f.Name))
	}
	b.WriteByte('}')
	return b.String()
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if ea, ok := a.(Entity); ok {
		eb, ok := b.(Entity)
		return ok && ea.Record().Equal(eb.Record())
	}
	return reflect.DeepEqual(a, b)
}

// Get returns the named attribute as T, or the zero T when it is nil or of
// another type.
func Get[T any](r *Record, name string) T {
	v, _ := Lookup[T](r, name)
	return v
}

// Lookup returns the named attribute as T and whether it held a T.
func Lookup[T any](r *Record, name string) (T, bool) {
	v, ok := r.Get(name).(T)
	return v, ok
}
