package recurrence

import (
	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/models"
)

// Pattern is how often a recurring task repeats.
type Pattern interface {
	convert.Convertible
	Type() models.PatternType
}

var (
	weekday  = convert.Enum(models.Weekdays...)
	weekdays = convert.ListOf[models.Weekday](weekday)

	patternSchema = convert.NewSchema("Pattern",
		convert.NewField("type", "type", convert.Enum(models.PatternTypes...), convert.ReadOnly()),
		convert.NewField("interval", "interval", convert.Int),
	)
	dailySchema  = patternSchema.Extend("Daily")
	weeklySchema = patternSchema.Extend("Weekly",
		convert.NewField("daysOfWeek", "daysOfWeek", weekdays),
		convert.NewField("firstDayOfWeek", "firstDayOfWeek", weekday, convert.WithDefault(models.Sunday)),
	)
	monthlyAbsoluteSchema = patternSchema.Extend("MonthlyAbsolute",
		convert.NewField("dayOfMonth", "dayOfMonth", convert.Int),
	)
	monthlyRelativeSchema = patternSchema.Extend("MonthlyRelative",
		convert.NewField("daysOfWeek", "daysOfWeek", weekdays),
	)
	yearlyAbsoluteSchema = patternSchema.Extend("YearlyAbsolute",
		convert.NewField("dayOfMonth", "dayOfMonth", convert.Int),
		convert.NewField("month", "month", convert.Int),
	)
	yearlyRelativeSchema = patternSchema.Extend("YearlyRelative",
		convert.NewField("daysOfWeek", "daysOfWeek", weekdays),
		convert.NewField("month", "month", convert.Int),
	)
)

type pattern struct {
	rec *convert.Record
}

func newPattern(s *convert.Schema, t models.PatternType) pattern {
	rec := convert.NewRecord(s)
	rec.Force("type", t)
	return pattern{rec: rec}
}

func (p *pattern) Record() *convert.Record {
	return p.rec
}

func (p *pattern) ToMapping() (convert.Mapping, error) {
	return p.rec.Mapping()
}

func (p *pattern) Type() models.PatternType {
	return convert.Get[models.PatternType](p.rec, "type")
}

func (p *pattern) Interval() int {
	return convert.Get[int](p.rec, "interval")
}

func (p *pattern) SetInterval(n int) {
	p.rec.Force("interval", n)
}

// Equal compares every attribute of both patterns.
func (p *pattern) Equal(other convert.Entity) bool {
	return other != nil && p.rec.Equal(other.Record())
}

func (p *pattern) String() string {
	return p.rec.String()
}

type Daily struct{ pattern }

func NewDaily(interval int) *Daily {
	d := &Daily{newPattern(dailySchema, models.PatternDaily)}
	d.SetInterval(interval)
	return d
}

type Weekly struct{ pattern }

func NewWeekly(interval int, days ...models.Weekday) *Weekly {
	w := &Weekly{newPattern(weeklySchema, models.PatternWeekly)}
	w.SetInterval(interval)
	w.rec.Force("daysOfWeek", days)
	return w
}

func (w *Weekly) DaysOfWeek() []models.Weekday {
	return convert.Get[[]models.Weekday](w.rec, "daysOfWeek")
}

func (w *Weekly) FirstDayOfWeek() models.Weekday {
	return convert.Get[models.Weekday](w.rec, "firstDayOfWeek")
}

func (w *Weekly) SetFirstDayOfWeek(d models.Weekday) {
	w.rec.Force("firstDayOfWeek", d)
}

type MonthlyAbsolute struct{ pattern }

func NewMonthlyAbsolute(interval, dayOfMonth int) *MonthlyAbsolute {
	m := &MonthlyAbsolute{newPattern(monthlyAbsoluteSchema, models.PatternAbsoluteMonthly)}
	m.SetInterval(interval)
	m.rec.Force("dayOfMonth", dayOfMonth)
	return m
}

func (m *MonthlyAbsolute) DayOfMonth() int {
	return convert.Get[int](m.rec, "dayOfMonth")
}

type MonthlyRelative struct{ pattern }

func NewMonthlyRelative(interval int, days ...models.Weekday) *MonthlyRelative {
	m := &MonthlyRelative{newPattern(monthlyRelativeSchema, models.PatternRelativeMonthly)}
	m.SetInterval(interval)
	m.rec.Force("daysOfWeek", days)
	return m
}

func (m *MonthlyRelative) DaysOfWeek() []models.Weekday {
	return convert.Get[[]models.Weekday](m.rec, "daysOfWeek")
}

type YearlyAbsolute struct{ pattern }

func NewYearlyAbsolute(interval, dayOfMonth, month int) *YearlyAbsolute {
	y := &YearlyAbsolute{newPattern(yearlyAbsoluteSchema, models.PatternAbsoluteYearly)}
	y.SetInterval(interval)
	y.rec.Force("dayOfMonth", dayOfMonth)
	y.rec.Force("month", month)
	return y
}

func (y *YearlyAbsolute) DayOfMonth() int {
	return convert.Get[int](y.rec, "dayOfMonth")
}

func (y *YearlyAbsolute) Month() int {
	return convert.Get[int](y.rec, "month")
}

type YearlyRelative struct{ pattern }

func NewYearlyRelative(interval, month int, days ...models.Weekday) *YearlyRelative {
	y := &YearlyRelative{newPattern(yearlyRelativeSchema, models.PatternRelativeYearly)}
	y.SetInterval(interval)
	y.rec.Force("month", month)
	y.rec.Force("daysOfWeek", days)
	return y
}

func (y *YearlyRelative) DaysOfWeek() []models.Weekday {
	return convert.Get[[]models.Weekday](y.rec, "daysOfWeek")
}

func (y *YearlyRelative) Month() int {
	return convert.Get[int](y.rec, "month")
}

// buildPattern returns the wire builder of one pattern type. The
// discriminator is assigned by the constructor, everything else by Build.
func buildPattern[T Pattern](s *convert.Schema, construct func() T) convert.Builder[Pattern] {
	return func(wire convert.Mapping) (Pattern, error) {
		return convert.Build(s, wire, func(convert.Values) (Pattern, error) {
			return construct(), nil
		})
	}
}

// Patterns decodes the "pattern" object of a recurrence. A null pattern
// decodes to nil.
var Patterns = convert.NewVariants("pattern", map[string]convert.Builder[Pattern]{
	string(models.PatternDaily): buildPattern(dailySchema, func() *Daily {
		return &Daily{newPattern(dailySchema, models.PatternDaily)}
	}),
	string(models.PatternWeekly): buildPattern(weeklySchema, func() *Weekly {
		return &Weekly{newPattern(weeklySchema, models.PatternWeekly)}
	}),
	string(models.PatternAbsoluteMonthly): buildPattern(monthlyAbsoluteSchema, func() *MonthlyAbsolute {
		return &MonthlyAbsolute{newPattern(monthlyAbsoluteSchema, models.PatternAbsoluteMonthly)}
	}),
	string(models.PatternRelativeMonthly): buildPattern(monthlyRelativeSchema, func() *MonthlyRelative {
		return &MonthlyRelative{newPattern(monthlyRelativeSchema, models.PatternRelativeMonthly)}
	}),
	string(models.PatternAbsoluteYearly): buildPattern(yearlyAbsoluteSchema, func() *YearlyAbsolute {
		return &YearlyAbsolute{newPattern(yearlyAbsoluteSchema, models.PatternAbsoluteYearly)}
	}),
	string(models.PatternRelativeYearly): buildPattern(yearlyRelativeSchema, func() *YearlyRelative {
		return &YearlyRelative{newPattern(yearlyRelativeSchema, models.PatternRelativeYearly)}
	}),
})
