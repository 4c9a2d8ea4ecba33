package recurrence

import (
	"time"

	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/models"
)

// Range bounds the occurrences of a recurring task.
type Range interface {
	convert.Convertible
	Type() models.RangeType
	// StartDate reports the first day of the recurrence, if known.
	StartDate() (time.Time, bool)
}

// The API rejects start and end dates on range updates, so both are read
// from the wire and never written back. The task due date carries the start
// instead.
var (
	rangeSchema = convert.NewSchema("Range",
		convert.NewField("type", "type", convert.Enum(models.RangeTypes...), convert.ReadOnly()),
		convert.NewField("startDate", "startDate", convert.Date, convert.NotExported()),
	)
	endDateSchema = rangeSchema.Extend("EndDate",
		convert.NewField("endDate", "endDate", convert.Date, convert.NotExported()),
	)
	noEndSchema    = rangeSchema.Extend("NoEnd")
	numberedSchema = rangeSchema.Extend("Numbered",
		convert.NewField("numberOfOccurrences", "numberOfOccurrences", convert.Int),
	)
)

type bound struct {
	rec *convert.Record
}

func newBound(s *convert.Schema, t models.RangeType, start time.Time) bound {
	rec := convert.NewRecord(s)
	rec.Force("type", t)
	if !start.IsZero() {
		rec.Force("startDate", start)
	}
	return bound{rec: rec}
}

func (b *bound) Record() *convert.Record {
	return b.rec
}

func (b *bound) ToMapping() (convert.Mapping, error) {
	return b.rec.Mapping()
}

func (b *bound) Type() models.RangeType {
	return convert.Get[models.RangeType](b.rec, "type")
}

func (b *bound) StartDate() (time.Time, bool) {
	return convert.Lookup[time.Time](b.rec, "startDate")
}

func (b *bound) Equal(other convert.Entity) bool {
	return other != nil && b.rec.Equal(other.Record())
}

func (b *bound) String() string {
	return b.rec.String()
}

type EndDate struct{ bound }

func NewEndDate(start, end time.Time) *EndDate {
	r := &EndDate{newBound(endDateSchema, models.RangeEndDate, start)}
	if !end.IsZero() {
		r.rec.Force("endDate", end)
	}
	return r
}

func (r *EndDate) EndDate() (time.Time, bool) {
	return convert.Lookup[time.Time](r.rec, "endDate")
}

type NoEnd struct{ bound }

func NewNoEnd(start time.Time) *NoEnd {
	return &NoEnd{newBound(noEndSchema, models.RangeNoEnd, start)}
}

type Numbered struct{ bound }

func NewNumbered(start time.Time, occurrences int) *Numbered {
	r := &Numbered{newBound(numberedSchema, models.RangeNumbered, start)}
	r.rec.Force("numberOfOccurrences", occurrences)
	return r
}

func (r *Numbered) Occurrences() int {
	return convert.Get[int](r.rec, "numberOfOccurrences")
}

func buildRange[T Range](s *convert.Schema, construct func() T) convert.Builder[Range] {
	return func(wire convert.Mapping) (Range, error) {
		return convert.Build(s, wire, func(convert.Values) (Range, error) {
			return construct(), nil
		})
	}
}

// Ranges decodes the "range" object of a recurrence. A range is mandatory
// whenever a pattern is present.
var Ranges = convert.NewVariants("range", map[string]convert.Builder[Range]{
	string(models.RangeEndDate): buildRange(endDateSchema, func() *EndDate {
		return &EndDate{newBound(endDateSchema, models.RangeEndDate, time.Time{})}
	}),
	string(models.RangeNoEnd): buildRange(noEndSchema, func() *NoEnd {
		return NewNoEnd(time.Time{})
	}),
	string(models.RangeNumbered): buildRange(numberedSchema, func() *Numbered {
		return &Numbered{newBound(numberedSchema, models.RangeNumbered, time.Time{})}
	}),
}).Required()
