/*
Package calendar provides the leaf time utilities for the wage engine.

PURPOSE:
  Everything here is arithmetic on minutes-of-day and calendar dates.
  Shifts are reported as "HH:MM" wall-clock strings and computed on as
  minute offsets from midnight; a minute offset may exceed 1440 when a
  span crosses midnight.

KEY CONCEPTS IN THIS FILE (clock.go):
  - ParseClock:  "HH:MM" -> minutes from midnight
  - SpanMinutes: report start/end -> [start, end) minute offsets,
                 resolving overnight spans (end <= start means the end
                 falls on the following day and gains 1440 minutes)
  - ClockString: minute offset -> "HH:MM", wrapping past midnight

SEE ALSO:
  - dates.go:  calendar-date arithmetic
  - hebrew.go: Hebrew calendar rendering for display
*/
package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// MINUTE CONSTANTS
// =============================================================================

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour // 1440
)

// =============================================================================
// CLOCK PARSING AND FORMATTING
// =============================================================================

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(value string) (int, error) {
	h, m, ok := strings.Cut(value, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hours*MinutesPerHour + minutes, nil
}

// SpanMinutes converts a start/end clock pair to minute offsets,
// resolving overnight spans: an end at or before the start belongs to
// the following day and is shifted by 1440 minutes.
func SpanMinutes(startClock, endClock string) (start, end int, err error) {
	start, err = ParseClock(startClock)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(endClock)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		end += MinutesPerDay
	}
	return start, end, nil
}

// ClockString formats a minute offset as "HH:MM", wrapping offsets past
// midnight back onto the 24h clock.
func ClockString(minutes int) string {
	dayMinutes := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", dayMinutes/MinutesPerHour, dayMinutes%MinutesPerHour)
}

// HoursString formats a minute count as decimal hours with trailing
// zeros trimmed, e.g. 90 -> "1.5", 480 -> "8".
func HoursString(minutes int) string {
	s := fmt.Sprintf("%.2f", float64(minutes)/MinutesPerHour)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// Overlap returns the overlap in minutes between [aStart, aEnd) and
// [bStart, bEnd). Never negative, and symmetric in its two ranges.
func Overlap(aStart, aEnd, bStart, bEnd int) int {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
