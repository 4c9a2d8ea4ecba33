package convert

import "fmt"

// Values holds attribute values keyed by field name.
type Values map[string]any

// Schema is the static field registry of one entity type.
type Schema struct {
	name   string
	fields []*Field
	byName map[string]*Field
}

// NewSchema panics when two fields share a name or a wire key; schemas are
// declared at package initialization.
func NewSchema(name string, fields ...*Field) *Schema {
	s := &Schema{
		name:   name,
		fields: make([]*Field, 0, len(fields)),
		byName: make(map[string]*Field, len(fields)),
	}
	wireKeys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := s.byName[f.Name]; ok {
			panic(fmt.Sprintf("convert: schema %s declares field %q twice", name, f.Name))
		}
		if _, ok := wireKeys[f.WireKey]; ok {
			panic(fmt.Sprintf("convert: schema %s declares wire key %q twice", name, f.WireKey))
		}
		wireKeys[f.WireKey] = struct{}{}
		s.byName[f.Name] = f
		s.fields = append(s.fields, f)
	}
	return s
}

// Extend returns a new schema holding the fields of s followed by fields.
func (s *Schema) Extend(name string, fields ...*Field) *Schema {
	all := make([]*Field, 0, len(s.fields)+len(fields))
	all = append(all, s.fields...)
	all = append(all, fields...)
	return NewSchema(name, all...)
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Decode converts the wire keys present in wire and splits the results into
// values a constructor may accept and read-only values that have to be
// assigned after construction.
func (s *Schema) Decode(wire Mapping) (public, restricted Values, err error) {
	public = Values{}
	restricted = Values{}
	for _, f := range s.fields {
		raw, ok := wire[f.WireKey]
		if !ok {
			continue
		}
		v, err := f.Converter.FromWire(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s.%s: %w", s.name, f.WireKey, err)
		}
		if f.ReadOnly {
			restricted[f.Name] = v
		} else {
			public[f.Name] = v
		}
	}
	return public, restricted, nil
}
