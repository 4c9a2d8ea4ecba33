package models

type PatternType string

const (
	PatternDaily           PatternType = "daily"
	PatternWeekly          PatternType = "weekly"
	PatternAbsoluteMonthly PatternType = "absoluteMonthly"
	PatternRelativeMonthly PatternType = "relativeMonthly"
	PatternAbsoluteYearly  PatternType = "absoluteYearly"
	PatternRelativeYearly  PatternType = "relativeYearly"
)

var PatternTypes = []PatternType{
	PatternDaily,
	PatternWeekly,
	PatternAbsoluteMonthly,
	PatternRelativeMonthly,
	PatternAbsoluteYearly,
	PatternRelativeYearly,
}

type RangeType string

const (
	RangeEndDate  RangeType = "endDate"
	RangeNoEnd    RangeType = "noEnd"
	RangeNumbered RangeType = "numbered"
)

var RangeTypes = []RangeType{RangeEndDate, RangeNoEnd, RangeNumbered}

type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

var Weekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
