package engine

import (
	"testing"
	"time"

	"github.com/diyur/wage-engine/calendar"
)

func TestAnnualVacationQuota(t *testing.T) {
	cases := []struct {
		seniority int
		sixDay    bool
		want      int
	}{
		{1, false, 12},
		{5, false, 12},
		{6, false, 14},
		{7, false, 15},
		{10, false, 18},
		{11, false, 19},
		{12, false, 20},
		{25, false, 20},
		{1, true, 14},
		{4, true, 14},
		{5, true, 16},
		{6, true, 18},
		{7, true, 21},
		{9, true, 23},
		{10, true, 24},
		{30, true, 24},
	}
	for _, c := range cases {
		if got := annualVacationQuota(c.seniority, c.sixDay); got != c.want {
			t.Errorf("annualVacationQuota(%d, %v) = %d, want %d", c.seniority, c.sixDay, got, c.want)
		}
	}
}

func TestApplyAccruals_PartialScope(t *testing.T) {
	// GIVEN: 11 actual work days in a first-seniority-year month
	// THEN: scope 50% (truncated), quota 12, proportional accruals
	totals := NewMonthlyTotals()
	totals.ActualWorkDays = 11
	person := Person{StartDate: calendar.NewDate(2025, time.June, 1)}

	applyAccruals(&totals, person, 2026, time.March)

	if totals.SeniorityYear != 1 {
		t.Errorf("seniority = %d, want 1", totals.SeniorityYear)
	}
	if totals.AnnualQuota != 12 {
		t.Errorf("quota = %d, want 12", totals.AnnualQuota)
	}
	if totals.JobScopePct != 50 {
		t.Errorf("job scope = %d%%, want 50%%", totals.JobScopePct)
	}
	if totals.SickDaysAccrued != 0.76 {
		t.Errorf("sick accrued = %v, want 0.76", totals.SickDaysAccrued)
	}
	if totals.VacationDaysAccrued != 0.51 {
		t.Errorf("vacation accrued = %v, want 0.51", totals.VacationDaysAccrued)
	}
}

func TestApplyAccruals_ScopeClampsAtFull(t *testing.T) {
	totals := NewMonthlyTotals()
	totals.ActualWorkDays = 26
	person := Person{StartDate: calendar.NewDate(2019, time.January, 15)}

	applyAccruals(&totals, person, 2026, time.March)

	if totals.JobScopePct != 100 {
		t.Errorf("job scope = %d%%, want 100%%", totals.JobScopePct)
	}
	if totals.SickDaysAccrued != 1.5 {
		t.Errorf("sick accrued = %v, want 1.5", totals.SickDaysAccrued)
	}
	// 26 days is a 6-day week; 8th seniority year gives 22 days a year.
	if totals.SeniorityYear != 8 {
		t.Errorf("seniority = %d, want 8", totals.SeniorityYear)
	}
	if totals.AnnualQuota != 22 {
		t.Errorf("quota = %d, want 22", totals.AnnualQuota)
	}
	if totals.VacationDaysAccrued != 1.83 {
		t.Errorf("vacation accrued = %v, want 1.83", totals.VacationDaysAccrued)
	}
}

func TestApplyAccruals_SixDayThreshold(t *testing.T) {
	// Exactly 20 days is still a 5-day week; 21 flips to the 6-day table.
	person := Person{StartDate: calendar.NewDate(2025, time.June, 1)}

	totals := NewMonthlyTotals()
	totals.ActualWorkDays = 20
	applyAccruals(&totals, person, 2026, time.March)
	if totals.AnnualQuota != 12 {
		t.Errorf("20 days: quota = %d, want 12", totals.AnnualQuota)
	}

	totals = NewMonthlyTotals()
	totals.ActualWorkDays = 21
	applyAccruals(&totals, person, 2026, time.March)
	if totals.AnnualQuota != 14 {
		t.Errorf("21 days: quota = %d, want 14", totals.AnnualQuota)
	}
}

func TestApplyAccruals_ScopeTruncatesFraction(t *testing.T) {
	// 21 / 21.66 = 96.95%; the percent column drops the fraction
	// rather than rounding it up.
	totals := NewMonthlyTotals()
	totals.ActualWorkDays = 21
	person := Person{StartDate: calendar.NewDate(2025, time.June, 1)}

	applyAccruals(&totals, person, 2026, time.March)

	if totals.JobScopePct != 96 {
		t.Errorf("job scope = %d%%, want 96%%", totals.JobScopePct)
	}
}

func TestApplyAccruals_ZeroDays(t *testing.T) {
	totals := NewMonthlyTotals()
	person := Person{StartDate: calendar.NewDate(2025, time.June, 1)}

	applyAccruals(&totals, person, 2026, time.March)

	if totals.JobScopePct != 0 || totals.SickDaysAccrued != 0 || totals.VacationDaysAccrued != 0 {
		t.Errorf("zero days should accrue nothing: %+v", totals)
	}
}
