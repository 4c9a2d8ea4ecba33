package convert

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

const discriminatorKey = "type"

// Builder creates one concrete variant from its wire mapping.
type Builder[T Convertible] func(Mapping) (T, error)

// Variants picks a concrete type from the "type" discriminator of a wire
// mapping. The table is copied on construction and never modified.
type Variants[T Convertible] struct {
	kind     string
	table    map[string]Builder[T]
	required bool
}

func NewVariants[T Convertible](kind string, table map[string]Builder[T]) *Variants[T] {
	return &Variants[T]{
		kind:  kind,
		table: maps.Clone(table),
	}
}

// Required makes a null or empty wire value fail with ErrMissingRequiredValue.
func (v *Variants[T]) Required() *Variants[T] {
	v.required = true
	return v
}

func (v *Variants[T]) Kind() string {
	return v.kind
}

func (v *Variants[T]) Discriminators() []string {
	return slices.Sorted(maps.Keys(v.table))
}

func (v *Variants[T]) FromWire(wire any) (any, error) {
	m, isMapping := wire.(map[string]any)
	if wire == nil || (isMapping && len(m) == 0) {
		if v.required {
			return nil, fmt.Errorf("%s: %w", v.kind, ErrMissingRequiredValue)
		}
		return nil, nil
	}
	if !isMapping {
		return nil, parseError(v.kind, wire, nil)
	}

	disc, _ := m[discriminatorKey].(string)
	build, ok := v.table[disc]
	if !ok {
		return nil, &UnknownVariantError{Kind: v.kind, Discriminator: m[discriminatorKey]}
	}
	obj, err := build(m)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (v *Variants[T]) ToWire(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	c, ok := value.(T)
	if !ok {
		return nil, fmt.Errorf("%s converter got %T", v.kind, value)
	}
	if rv := reflect.ValueOf(c); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	return c.ToMapping()
}
