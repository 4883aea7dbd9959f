package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/diyur/wage-engine/calendar"
)

func workSeg(start, end int) DaySegment {
	return DaySegment{Start: start, End: end, Kind: KindWork, WageLabel: Tier100, ShiftTypeID: 1}
}

func testDayContext() dayContext {
	return dayContext{
		Rates:       NewRateTable(nil),
		MinimumWage: decimal.RequireFromString("34.40"),
	}
}

func TestProcessDay_LongGapBreaksChain(t *testing.T) {
	// GIVEN: two work segments 80 minutes apart
	// THEN: two chains, each under the overtime threshold, all at 100%
	entry := DayEntry{
		Date:     calendar.NewDate(2026, time.March, 2),
		Segments: []DaySegment{workSeg(480, 720), workSeg(800, 1100)},
	}

	result := processDay(entry, testDayContext())

	if result.Tiers.M100 != 540 || result.Tiers.M125 != 0 {
		t.Errorf("tiers = %+v, want 540 at 100%%", result.Tiers)
	}
	require.Len(t, result.Chains, 2)
	require.Equal(t, "הפסקה (80 דקות)", result.Chains[0].BreakReason)
	require.Empty(t, result.Chains[1].BreakReason)
}

func TestProcessDay_ShortGapKeepsChainAlive(t *testing.T) {
	// A 40-minute gap does not reset the overtime counter: the second
	// segment's minutes continue past 480 into overtime tiers.
	entry := DayEntry{
		Date:     calendar.NewDate(2026, time.March, 2),
		Segments: []DaySegment{workSeg(480, 960), workSeg(1000, 1200)},
	}

	result := processDay(entry, testDayContext())

	if result.Tiers.M100 != 480 || result.Tiers.M125 != 120 || result.Tiers.M150 != 80 {
		t.Errorf("tiers = %+v", result.Tiers)
	}
	if result.Tiers.Overtime150 != 80 {
		t.Errorf("overtime 150 = %d, want 80", result.Tiers.Overtime150)
	}
}

func TestProcessDay_StandbyBreaksChainAndPays(t *testing.T) {
	rates := NewRateTable([]StandbyRate{
		{TemplateID: 22, MaritalStatus: "single", Priority: 0, Amount: decimal.RequireFromString("70")},
	})
	ctx := dayContext{Rates: rates, MinimumWage: decimal.RequireFromString("34.40")}

	entry := DayEntry{
		Date: calendar.NewDate(2026, time.March, 9),
		Segments: []DaySegment{
			workSeg(960, 1380),
			{Start: 1380, End: 1440, Kind: KindStandby, TemplateID: 22, ShiftTypeID: 2},
		},
	}

	result := processDay(entry, ctx)

	require.Len(t, result.Chains, 1)
	require.Equal(t, "כוננות", result.Chains[0].BreakReason)
	require.Equal(t, "70", result.StandbyPayment.String())
	require.Equal(t, 420, result.Tiers.Total())
}

func TestProcessDay_MidnightStandbyContinuationPaysNothing(t *testing.T) {
	// The second half of an overnight standby opens at minute 0; it was
	// paid on the previous date.
	entry := DayEntry{
		Date: calendar.NewDate(2026, time.March, 10),
		Segments: []DaySegment{
			{Start: 0, End: 390, Kind: KindStandby, TemplateID: 22, ShiftTypeID: 2},
			workSeg(390, 480),
		},
	}

	result := processDay(entry, testDayContext())

	require.True(t, result.StandbyPayment.IsZero())
	require.Equal(t, 90, result.Tiers.M100)
}

func TestProcessDay_CancelledStandbyDrawsNoFee(t *testing.T) {
	entry := DayEntry{
		Date: calendar.NewDate(2026, time.March, 2),
		Segments: []DaySegment{
			workSeg(480, 960),
			{Start: 480, End: 600, Kind: KindStandby, TemplateID: 22},
		},
	}

	result := processDay(entry, testDayContext())

	require.True(t, result.StandbyPayment.IsZero())
	require.Len(t, result.CancelledStandbys, 1)
	require.Equal(t, 100, result.CancelledStandbys[0].OverlapPct)
	require.Equal(t, 480, result.Tiers.Total())
}

func TestProcessDay_VacationAndSickMinutes(t *testing.T) {
	entry := DayEntry{
		Date: calendar.NewDate(2026, time.March, 10),
		Segments: []DaySegment{
			{Start: 480, End: 960, Kind: KindVacation},
		},
	}
	result := processDay(entry, testDayContext())
	if result.VacationMinutes != 480 || len(result.Chains) != 0 {
		t.Errorf("vacation minutes = %d, chains = %d", result.VacationMinutes, len(result.Chains))
	}

	entry.Segments = []DaySegment{{Start: 480, End: 900, Kind: KindSick}}
	result = processDay(entry, testDayContext())
	if result.SickMinutes != 420 {
		t.Errorf("sick minutes = %d, want 420", result.SickMinutes)
	}
	// Sick segments show in the day breakdown like vacation does.
	require.Len(t, result.Segments, 1)
	require.Equal(t, KindSick, result.Segments[0].Kind)
	require.Empty(t, result.Chains)
}

func TestProcessDay_SickInterruptsChain(t *testing.T) {
	// GIVEN: work 08:00-16:00, sick 16:00-17:00, work 17:00-20:00
	// THEN: two separate chains, none of them reaching overtime
	entry := DayEntry{
		Date: calendar.NewDate(2026, time.March, 2),
		Segments: []DaySegment{
			workSeg(480, 960),
			{Start: 960, End: 1020, Kind: KindSick},
			workSeg(1020, 1200),
		},
	}

	result := processDay(entry, testDayContext())

	if result.Tiers.M100 != 660 || result.Tiers.M125 != 0 || result.Tiers.M150 != 0 {
		t.Errorf("tiers = %+v, want 660 at 100%%", result.Tiers)
	}
	require.Len(t, result.Chains, 2)
	require.Equal(t, "מחלה", result.Chains[0].BreakReason)
	require.Equal(t, 60, result.SickMinutes)
}

func TestProcessDay_DuplicateWorkReportsCountOnce(t *testing.T) {
	// Two identical source rows for the same shift collapse into one.
	entry := DayEntry{
		Date:     calendar.NewDate(2026, time.March, 2),
		Segments: []DaySegment{workSeg(480, 960), workSeg(480, 960)},
	}

	result := processDay(entry, testDayContext())

	require.Equal(t, 480, result.Tiers.Total())
	require.Len(t, result.Chains, 1)
	require.Equal(t, "275.2", result.Chains[0].Payment.String())
}

func TestAggregateDays_OvernightTailCountsPreviousDate(t *testing.T) {
	// GIVEN: a Monday day shift plus a Tuesday entry holding only the
	//        00:00-08:00 tail of Monday night's shift
	// THEN: one actual work day, not two
	ctx := testDayContext()
	monday := processDay(DayEntry{
		Date:     calendar.NewDate(2026, time.March, 2),
		Segments: []DaySegment{workSeg(480, 960)},
	}, ctx)
	tuesday := processDay(DayEntry{
		Date:     calendar.NewDate(2026, time.March, 3),
		Segments: []DaySegment{workSeg(0, 480)},
	}, ctx)

	totals := aggregateDays([]DayResult{monday, tuesday}, ctx.MinimumWage, 2026, time.March)

	require.Equal(t, 1, totals.ActualWorkDays)
	require.Equal(t, 960, totals.Calc100)
	require.Equal(t, 960, totals.TotalMinutes)
	require.Equal(t, "550.4", totals.BasePayment.String())
	require.True(t, totals.TotalPayment.Equal(totals.BasePayment))
}

func TestAggregateDays_FirstOfMonthTailBelongsToLastMonth(t *testing.T) {
	// A pre-08:00 tail on the 1st attributes to the last day of the
	// previous month: it pays, but it is not a work day of this month.
	ctx := testDayContext()
	first := processDay(DayEntry{
		Date:     calendar.NewDate(2026, time.March, 1),
		Segments: []DaySegment{workSeg(30, 450)}, // 00:30-07:30
	}, ctx)

	totals := aggregateDays([]DayResult{first}, ctx.MinimumWage, 2026, time.March)

	require.Equal(t, 0, totals.ActualWorkDays)
	require.Equal(t, 420, totals.Calc100)
	require.Equal(t, 420, totals.TotalMinutes)
}

func TestAggregateDays_VacationAndSickPayments(t *testing.T) {
	ctx := testDayContext()
	days := []DayResult{
		processDay(DayEntry{
			Date:     calendar.NewDate(2026, time.March, 10),
			Segments: []DaySegment{{Start: 480, End: 960, Kind: KindVacation}},
		}, ctx),
		processDay(DayEntry{
			Date:     calendar.NewDate(2026, time.March, 18),
			Segments: []DaySegment{{Start: 480, End: 900, Kind: KindSick}},
		}, ctx),
	}

	totals := aggregateDays(days, ctx.MinimumWage, 2026, time.March)

	require.Equal(t, 1, totals.VacationDaysTaken)
	require.Equal(t, 1, totals.SickDaysTaken)
	require.Equal(t, 0, totals.ActualWorkDays)
	require.Equal(t, "275.2", totals.VacationPayment.String())
	require.Equal(t, "240.8", totals.SickPayment.String())
	require.Equal(t, "516", totals.BasePayment.String())
}

func TestAggregateDays_ShabbatDecomposition(t *testing.T) {
	// Saturday work lands in the 150% bucket with its Shabbat source and
	// the base/extra export split mirroring it.
	ctx := dayContext{
		Shabbat:     ShabbatTable{"2026-03-07": {Candles: "17:12", Havdalah: "18:11"}},
		Rates:       NewRateTable(nil),
		MinimumWage: decimal.RequireFromString("34.40"),
	}
	saturday := processDay(DayEntry{
		Date:     calendar.NewDate(2026, time.March, 7),
		Segments: []DaySegment{workSeg(540, 1020)}, // 09:00-17:00, havdalah 18:11
	}, ctx)

	totals := aggregateDays([]DayResult{saturday}, ctx.MinimumWage, 2026, time.March)

	require.Equal(t, 480, totals.Calc150)
	require.Equal(t, 480, totals.Calc150Shabbat)
	require.Equal(t, 480, totals.Calc150ShabbatBase)
	require.Equal(t, 480, totals.Calc150ShabbatExtra)
	require.Equal(t, 0, totals.Calc150Overtime)
}
