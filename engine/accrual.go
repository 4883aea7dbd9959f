/*
accrual.go - Vacation and sick leave accrual

PURPOSE:
  Derives the monthly accrual fields from the actual work days already
  aggregated for the month:

    job scope      = min(actual days / 21.66, 1)
    sick accrued   = scope * 1.5
    vacation       = (annual quota / 12) * scope

  The annual quota depends on the seniority year and on whether the
  month looks like a 6-day work week (more than 20 actual days).

SEE ALSO:
  - aggregate.go: fills ActualWorkDays before accrual runs
  - calendar/dates.go: seniority year arithmetic
*/
package engine

import (
	"math"
	"time"

	"github.com/diyur/wage-engine/calendar"
)

// sixDayWeekThreshold is the actual-day count above which the month is
// treated as a 6-day work week for quota purposes.
const sixDayWeekThreshold = 20

// annualVacationQuota returns the statutory annual vacation days for a
// seniority year under the given work-week regime.
func annualVacationQuota(seniorityYear int, sixDayWeek bool) int {
	if sixDayWeek {
		switch {
		case seniorityYear <= 4:
			return 14
		case seniorityYear == 5:
			return 16
		case seniorityYear == 6:
			return 18
		case seniorityYear == 7:
			return 21
		case seniorityYear == 8:
			return 22
		case seniorityYear == 9:
			return 23
		default:
			return 24
		}
	}
	switch {
	case seniorityYear <= 5:
		return 12
	case seniorityYear == 6:
		return 14
	case seniorityYear == 7:
		return 15
	case seniorityYear == 8:
		return 16
	case seniorityYear == 9:
		return 17
	case seniorityYear == 10:
		return 18
	case seniorityYear == 11:
		return 19
	default:
		return 20
	}
}

// applyAccruals fills the accrual fields of a monthly total in place.
func applyAccruals(totals *MonthlyTotals, person Person, year int, month time.Month) {
	scope := float64(totals.ActualWorkDays) / StandardWorkDaysPerMonth
	if scope > 1 {
		scope = 1
	}

	seniority := calendar.SeniorityYears(person.StartDate, year, month)
	sixDay := totals.ActualWorkDays > sixDayWeekThreshold
	quota := annualVacationQuota(seniority, sixDay)

	// The reported percentage truncates; 96.95% reads as 96.
	totals.JobScopePct = int(scope * 100)
	totals.SeniorityYear = seniority
	totals.AnnualQuota = quota
	totals.SickDaysAccrued = round2(scope * MaxSickDaysPerMonth)
	totals.VacationDaysAccrued = round2(float64(quota) / 12 * scope)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
