package engine

import (
	"testing"
	"time"

	"github.com/diyur/wage-engine/calendar"
)

func dayTemplates() map[int64][]SegmentTemplate {
	return map[int64][]SegmentTemplate{
		// Plain day shift.
		1: {
			{ID: 11, ShiftTypeID: 1, StartClock: "08:00", EndClock: "16:00", Kind: KindWork, WagePercent: 100},
		},
		// Overnight shift: evening work, night standby, morning work.
		2: {
			{ID: 21, ShiftTypeID: 2, StartClock: "16:00", EndClock: "23:00", Kind: KindWork, WagePercent: 100, OrderIndex: 0},
			{ID: 22, ShiftTypeID: 2, StartClock: "23:00", EndClock: "06:30", Kind: KindStandby, OrderIndex: 1},
			{ID: 23, ShiftTypeID: 2, StartClock: "06:30", EndClock: "08:00", Kind: KindWork, WagePercent: 100, OrderIndex: 2},
		},
	}
}

func planMinutes(days []DayEntry) int {
	total := 0
	for _, d := range days {
		for _, s := range d.Segments {
			total += s.Duration()
		}
	}
	return total
}

func TestBuildDailyPlan_SimpleDayShift(t *testing.T) {
	reports := []TimeReport{{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 2), // Monday
		StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1,
	}}

	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if len(days[0].Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(days[0].Segments))
	}

	seg := days[0].Segments[0]
	if seg.Start != 480 || seg.End != 960 || seg.Kind != KindWork {
		t.Errorf("segment = [%d,%d) %s, want [480,960) work", seg.Start, seg.End, seg.Kind)
	}
}

func TestBuildDailyPlan_OvernightSplitsAtMidnight(t *testing.T) {
	// GIVEN: a 16:00-08:00 overnight report
	// THEN: the first date carries [960,1440), the next date carries [0,480),
	//       with the standby template spanning the boundary
	reports := []TimeReport{{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 9),
		StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2,
	}}

	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date.String() != "2026-03-09" || days[1].Date.String() != "2026-03-10" {
		t.Fatalf("unexpected dates %s, %s", days[0].Date, days[1].Date)
	}

	// Day 1: work 960-1380, standby 1380-1440.
	d1 := days[0].Segments
	if len(d1) != 2 {
		t.Fatalf("day 1: expected 2 segments, got %d", len(d1))
	}
	if d1[0].Kind != KindWork || d1[0].Start != 960 || d1[0].End != 1380 {
		t.Errorf("day 1 work = [%d,%d) %s", d1[0].Start, d1[0].End, d1[0].Kind)
	}
	if d1[1].Kind != KindStandby || d1[1].Start != 1380 || d1[1].End != 1440 {
		t.Errorf("day 1 standby = [%d,%d) %s", d1[1].Start, d1[1].End, d1[1].Kind)
	}

	// Day 2: standby 0-390, work 390-480.
	d2 := days[1].Segments
	if len(d2) != 2 {
		t.Fatalf("day 2: expected 2 segments, got %d", len(d2))
	}
	if d2[0].Kind != KindStandby || d2[0].Start != 0 || d2[0].End != 390 {
		t.Errorf("day 2 standby = [%d,%d) %s", d2[0].Start, d2[0].End, d2[0].Kind)
	}
	if d2[1].Kind != KindWork || d2[1].Start != 390 || d2[1].End != 480 {
		t.Errorf("day 2 work = [%d,%d) %s", d2[1].Start, d2[1].End, d2[1].Kind)
	}

	// Coverage invariant: 16 reported hours, 16 planned hours.
	if got := planMinutes(days); got != 960 {
		t.Errorf("planned minutes = %d, want 960", got)
	}
}

func TestBuildDailyPlan_EarlyStartFlowsIntoDefaultWork(t *testing.T) {
	// GIVEN: a report starting an hour before its first template
	// THEN: the uncovered leading hour becomes a default 100% work segment
	reports := []TimeReport{{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 9),
		StartClock: "15:00", EndClock: "08:00", ShiftTypeID: 2,
	}}

	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	d1 := days[0].Segments
	if len(d1) != 3 {
		t.Fatalf("day 1: expected 3 segments, got %d", len(d1))
	}
	if d1[0].Start != 900 || d1[0].End != 960 || d1[0].Kind != KindWork || d1[0].TemplateID != 0 {
		t.Errorf("leading gap = [%d,%d) %s tpl=%d, want synthetic work [900,960)",
			d1[0].Start, d1[0].End, d1[0].Kind, d1[0].TemplateID)
	}

	// Coverage invariant still holds: 17 hours reported.
	if got := planMinutes(days); got != 1020 {
		t.Errorf("planned minutes = %d, want 1020", got)
	}
}

func TestBuildDailyPlan_MissingTemplatesSynthesizeWork(t *testing.T) {
	reports := []TimeReport{{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 2),
		StartClock: "09:00", EndClock: "17:30", ShiftTypeID: 7, // no templates
	}}

	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 1 || len(days[0].Segments) != 1 {
		t.Fatalf("expected a single synthetic segment")
	}
	seg := days[0].Segments[0]
	if seg.Kind != KindWork || seg.Duration() != 510 {
		t.Errorf("synthetic segment = %s %d minutes, want work 510", seg.Kind, seg.Duration())
	}
}

func TestBuildDailyPlan_SkipsIncompleteReports(t *testing.T) {
	reports := []TimeReport{
		{ID: 1, Date: calendar.NewDate(2026, time.March, 2), StartClock: "", EndClock: "16:00", ShiftTypeID: 1},
		{ID: 2, Date: calendar.NewDate(2026, time.March, 2), StartClock: "08:00", EndClock: "", ShiftTypeID: 1},
		{ID: 3, Date: calendar.NewDate(2026, time.March, 2), StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 0},
		{ID: 4, Date: calendar.NewDate(2026, time.March, 2), StartClock: "8am", EndClock: "16:00", ShiftTypeID: 1},
	}

	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 0 {
		t.Errorf("incomplete reports should produce no days, got %d", len(days))
	}
}

func TestBuildDailyPlan_ClassRelabeling(t *testing.T) {
	// Explicit classification relabels every derived segment.
	reports := []TimeReport{{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 2),
		StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1,
		Class: ClassVacation,
	}}
	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 1 || days[0].Segments[0].Kind != KindVacation {
		t.Fatalf("explicit vacation class should relabel segments")
	}

	// Legacy fallback: shift name containing the sick marker.
	reports[0].Class = ClassRegular
	reports[0].ShiftName = "יום מחלה"
	days = BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 1 || days[0].Segments[0].Kind != KindSick {
		t.Fatalf("legacy sick marker should relabel segments")
	}
}

func TestBuildDailyPlan_SecondDayOutsideMonthDropped(t *testing.T) {
	// An overnight report on the last day of the month keeps only its
	// in-month part.
	reports := []TimeReport{{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 31),
		StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2,
	}}

	days := BuildDailyPlan(reports, dayTemplates(), 2026, time.March)
	if len(days) != 1 {
		t.Fatalf("expected only the in-month day, got %d", len(days))
	}
	if days[0].Date.String() != "2026-03-31" {
		t.Errorf("unexpected date %s", days[0].Date)
	}
}
