/*
shabbat.go - Shabbat membership oracle

PURPOSE:
  Decides, for a weekday and minute-of-day, whether that minute falls
  inside Shabbat. Friday is Shabbat from candle lighting onward;
  Saturday is Shabbat before havdalah. Exact times come from a
  per-Saturday window table; absent or malformed entries fall back to
  fixed defaults (Friday 16:00, Saturday 22:00) and never fail.

TABLE SEMANTICS:
  The table is keyed by the Saturday's ISO date. The caller passes the
  effective date of the minute being classified, so post-midnight
  minutes of an overnight Friday chain consult the correct window.

SEE ALSO:
  - chain.go: the only consumer; classifies minutes in chains
*/
package engine

import (
	"time"

	"github.com/diyur/wage-engine/calendar"
)

// ShabbatTable maps a Saturday's ISO date ("2006-01-02") to its window.
// Loaded once per request/batch and passed explicitly; it is read-only
// configuration, never a hidden singleton.
type ShabbatTable map[string]ShabbatWindow

// IsShabbat reports whether the given minute-of-day on the given
// effective date falls within Shabbat.
func (t ShabbatTable) IsShabbat(weekday time.Weekday, minuteOfDay int, date calendar.Date) bool {
	if weekday != time.Friday && weekday != time.Saturday {
		return false
	}

	saturday := date
	if weekday == time.Friday {
		saturday = date.AddDays(1)
	}

	if window, ok := t[saturday.String()]; ok {
		enter, errEnter := calendar.ParseClock(window.Candles)
		exit, errExit := calendar.ParseClock(window.Havdalah)
		if errEnter == nil && errExit == nil {
			if weekday == time.Friday {
				return minuteOfDay >= enter
			}
			return minuteOfDay < exit
		}
		// Malformed entry: fall through to defaults.
	}

	if weekday == time.Friday {
		return minuteOfDay >= ShabbatEnterDefault
	}
	return minuteOfDay < ShabbatExitDefault
}

// boundary returns the window boundary minute for the weekday: the
// entry minute on Friday, the exit minute on Saturday. Used by the
// block-wise classifier to find where Shabbat status flips.
func (t ShabbatTable) boundary(weekday time.Weekday, date calendar.Date) int {
	saturday := date
	if weekday == time.Friday {
		saturday = date.AddDays(1)
	}
	if window, ok := t[saturday.String()]; ok {
		enter, errEnter := calendar.ParseClock(window.Candles)
		exit, errExit := calendar.ParseClock(window.Havdalah)
		// A window with either clock malformed is malformed as a whole,
		// exactly as IsShabbat treats it.
		if errEnter == nil && errExit == nil {
			if weekday == time.Friday {
				return enter
			}
			return exit
		}
	}
	if weekday == time.Friday {
		return ShabbatEnterDefault
	}
	return ShabbatExitDefault
}
