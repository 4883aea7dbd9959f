package calendar

import (
	"time"
)

// =============================================================================
// DATE - A calendar day in the local timezone
// =============================================================================

// LocalTZName is the timezone all report timestamps are interpreted in.
const LocalTZName = "Asia/Jerusalem"

var localTZ = mustLoadLocation(LocalTZName)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Containers without tzdata fall back to a fixed offset;
		// IST is UTC+2 (DST drift is acceptable for date bucketing).
		return time.FixedZone("IST", 2*3600)
	}
	return loc
}

// Date is a calendar day with no time-of-day component. The zero value
// is "no date".
type Date struct {
	t time.Time
}

// NewDate builds a Date from year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf converts an instant to the calendar day it falls on in the
// local timezone.
func DateOf(ts time.Time) Date {
	local := ts.In(localTZ)
	return NewDate(local.Year(), local.Month(), local.Day())
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// InMonth reports whether the date falls in the given year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

// String formats as ISO "2006-01-02" (the Shabbat table key format).
func (d Date) String() string { return d.t.Format("2006-01-02") }

// Display formats as "02/01/2006", the day key used in breakdowns.
func (d Date) Display() string { return d.t.Format("02/01/2006") }

// Time returns the date as a UTC midnight instant.
func (d Date) Time() time.Time { return d.t }

// =============================================================================
// MONTH RANGES
// =============================================================================

// MonthRange returns the half-open instant interval [start, end) of the
// month in the local timezone, for filtering report timestamps.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, localTZ)
	return start, start.AddDate(0, 1, 0)
}

// SeniorityYears returns the whole work-year ordinal (1-based) for an
// employment start date as of the first of the given month. A zero or
// future start date yields year 1.
func SeniorityYears(startDate Date, year int, month time.Month) int {
	if startDate.IsZero() {
		return 1
	}
	asOf := NewDate(year, month, 1)
	days := asOf.Time().Sub(startDate.Time()).Hours() / 24
	years := int(days / 365.25)
	if years < 0 {
		years = 0
	}
	return years + 1
}
