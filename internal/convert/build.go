package convert

import "fmt"

// Build creates an entity from wire data in two phases. construct receives
// the decoded values that the public setters accept and runs the entity's
// own validation; afterwards those values are applied through Record.Set and
// the read-only values are forced in.
func Build[T Entity](s *Schema, wire Mapping, construct func(Values) (T, error)) (T, error) {
	var zero T
	public, restricted, err := s.Decode(wire)
	if err != nil {
		return zero, err
	}
	obj, err := construct(public)
	if err != nil {
		return zero, fmt.Errorf("construct %s: %w", s.name, err)
	}
	rec := obj.Record()
	for _, f := range s.fields {
		if v, ok := public[f.Name]; ok {
			if err := rec.Set(f.Name, v); err != nil {
				return zero, err
			}
		}
	}
	for _, f := range s.fields {
		if v, ok := restricted[f.Name]; ok {
			rec.Force(f.Name, v)
		}
	}
	return obj, nil
}
