// Package recurrence models the repetition rules of a task: a pattern that
// says how often it repeats and a range that says for how long.
package recurrence

import (
	"fmt"

	"github.com/TWRT/mstodo/internal/convert"
)

var recurrenceSchema = convert.NewSchema("Recurrence",
	convert.NewField("pattern", "pattern", Patterns),
	convert.NewField("range", "range", Ranges),
)

type Recurrence struct {
	rec *convert.Record
}

func New(p Pattern, r Range) *Recurrence {
	rec := convert.NewRecord(recurrenceSchema)
	rec.Force("pattern", p)
	rec.Force("range", r)
	return &Recurrence{rec: rec}
}

func (r *Recurrence) Record() *convert.Record {
	return r.rec
}

func (r *Recurrence) ToMapping() (convert.Mapping, error) {
	return r.rec.Mapping()
}

func (r *Recurrence) Pattern() Pattern {
	return convert.Get[Pattern](r.rec, "pattern")
}

func (r *Recurrence) Range() Range {
	return convert.Get[Range](r.rec, "range")
}

func (r *Recurrence) Equal(other *Recurrence) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.rec.Equal(other.rec)
}

func (r *Recurrence) String() string {
	return r.rec.String()
}

// Converter decodes the "recurrence" property of a task. A missing
// recurrence or one without a pattern decodes to nil.
var Converter convert.Converter = recurrenceConverter{}

type recurrenceConverter struct{}

func (recurrenceConverter) FromWire(wire any) (any, error) {
	if wire == nil {
		return nil, nil
	}
	m, ok := wire.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("recurrence: %w", convert.ErrParse)
	}
	if pm, isMapping := m["pattern"].(map[string]any); m["pattern"] == nil || (isMapping && len(pm) == 0) {
		return nil, nil
	}
	return convert.Build(recurrenceSchema, m, func(v convert.Values) (*Recurrence, error) {
		p, _ := v["pattern"].(Pattern)
		rng, _ := v["range"].(Range)
		if rng == nil {
			return nil, fmt.Errorf("range: %w", convert.ErrMissingRequiredValue)
		}
		return New(p, rng), nil
	})
}

func (recurrenceConverter) ToWire(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *Recurrence:
		if v == nil {
			return nil, nil
		}
		return v.ToMapping()
	default:
		return nil, fmt.Errorf("recurrence converter got %T", value)
	}
}
