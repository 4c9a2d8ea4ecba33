package convert

import "fmt"

// Field binds an entity attribute to a wire key through a Converter.
type Field struct {
	Name      string
	WireKey   string
	Converter Converter
	Default   any
	ReadOnly  bool
	Exported  bool
	// Fallback supplies a value when the attribute resolves to nil.
	Fallback func(r *Record) any
}

type FieldOption func(*Field)

func WithDefault(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
	}
}

// ReadOnly rejects assignments made through Record.Set. Wire data still
// populates the field.
func ReadOnly() FieldOption {
	return func(f *Field) {
		f.ReadOnly = true
	}
}

// NotExported keeps the field out of Record.Mapping.
func NotExported() FieldOption {
	return func(f *Field) {
		f.Exported = false
	}
}

func WithFallback(fn func(r *Record) any) FieldOption {
	return func(f *Field) {
		f.Fallback = fn
	}
}

func NewField(name, wireKey string, c Converter, opts ...FieldOption) *Field {
	f := &Field{
		Name:      name,
		WireKey:   wireKey,
		Converter: c,
		Exported:  true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FromMapping assigns the converted wire value to r. A missing wire key
// leaves the attribute untouched; an explicit null is converted like any
// other value.
func (f *Field) FromMapping(r *Record, wire Mapping) error {
	raw, ok := wire[f.WireKey]
	if !ok {
		return nil
	}
	v, err := f.Converter.FromWire(raw)
	if err != nil {
		return fmt.Errorf("convert %s: %w", f.WireKey, err)
	}
	r.Force(f.Name, v)
	return nil
}

// ToMapping renders the attribute as a single-key mapping. Nil values are
// emitted as null without calling the converter.
func (f *Field) ToMapping(r *Record) (Mapping, error) {
	if !f.Exported {
		return Mapping{}, nil
	}
	v := r.Get(f.Name)
	if v == nil {
		return Mapping{f.WireKey: nil}, nil
	}
	w, err := f.Converter.ToWire(v)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", f.WireKey, err)
	}
	return Mapping{f.WireKey: w}, nil
}

func (f *Field) String() string {
	return fmt.Sprintf("<Field %s>", f.Name)
}
