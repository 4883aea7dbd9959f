/*
aggregate.go - Daily processing and monthly roll-up

PURPOSE:
  Walks the daily plan one day at a time: filters standby against work,
  runs the chain state machine over the chronological event stream, and
  folds the per-day results into the monthly totals.

CHAIN BREAKS:
  A chain closes on any of:
    - a standby event ("כוננות")
    - a vacation event ("חופשה")
    - a sick event ("מחלה")
    - a work gap longer than BreakThresholdMinutes ("הפסקה (N דקות)")
    - end of day

  Sick segments interrupt chains like vacation does, but their minutes
  are tracked separately and paid at full rate alongside vacation.

WORK DAY COUNTING:
  A calendar day counts as worked when it holds work minutes, except
  that a work segment ending at or before 08:00 is attributed to the
  previous date (it is the tail of an overnight shift). A previous
  date outside the reported month does not count.

SEE ALSO:
  - chain.go:   tier classification of a closed chain
  - standby.go: cancellation filter and rate resolution
  - accrual.go: the accrual fields this file leaves zero
*/
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/calendar"
)

// Break reason labels, rendered verbatim in statements.
const (
	breakStandby  = "כוננות"
	breakVacation = "חופשה"
	breakSick     = "מחלה"
	breakEndOfDay = ""
)

func breakGap(minutes int) string {
	return fmt.Sprintf("הפסקה (%d דקות)", minutes)
}

// =============================================================================
// PER-DAY PROCESSING
// =============================================================================

// dayContext bundles the auxiliary tables a day computation needs.
type dayContext struct {
	Shabbat     ShabbatTable
	Rates       RateTable
	MinimumWage decimal.Decimal
}

// processDay runs one calendar day through the standby filter and the
// chain state machine.
func processDay(entry DayEntry, ctx dayContext) DayResult {
	result := DayResult{
		Date:           entry.Date,
		HebrewDate:     calendar.HebrewDate(entry.Date),
		StandbyPayment: decimal.Zero,
	}

	var work, standby, rest []DaySegment
	for _, s := range entry.Segments {
		switch s.Kind {
		case KindWork:
			work = append(work, s)
		case KindStandby:
			standby = append(standby, s)
		default:
			rest = append(rest, s)
		}
	}

	work = DedupSegments(work)
	standby = DedupSegments(standby)
	kept, cancelled := FilterStandby(standby, work)
	result.CancelledStandbys = cancelled

	events := make([]DaySegment, 0, len(work)+len(kept)+len(rest))
	events = append(events, work...)
	events = append(events, kept...)
	for _, s := range rest {
		switch s.Kind {
		case KindVacation:
			result.VacationMinutes += s.Duration()
			events = append(events, s)
		case KindSick:
			result.SickMinutes += s.Duration()
			events = append(events, s)
		}
	}
	sortSegments(events)
	result.Segments = events

	var chain []chainSegment
	lastEnd := 0

	closeChain := func(reason string) {
		if len(chain) == 0 {
			return
		}
		result.Chains = append(result.Chains, chainDisplayRows(chain, entry.Date, ctx.Shabbat, ctx.MinimumWage, reason)...)
		tiers := tierMinutesByBlock(chain, entry.Date, ctx.Shabbat)
		result.Tiers.Add(tiers)
		chain = nil
	}

	for _, ev := range events {
		switch ev.Kind {
		case KindWork:
			if len(chain) > 0 {
				if gap := ev.Start - lastEnd; gap > BreakThresholdMinutes {
					closeChain(breakGap(gap))
				}
			}
			chain = append(chain, chainSegment{Start: ev.Start, End: ev.End, ShiftTypeID: ev.ShiftTypeID})
			lastEnd = ev.End

		case KindStandby:
			closeChain(breakStandby)
			// A standby opening at midnight is the continuation of the
			// previous day's duty and was already paid there.
			if ev.Start > 0 {
				rate := ctx.Rates.Resolve(ev.TemplateID, ev.ApartmentTypeID, ev.IsMarried)
				result.StandbyPayment = result.StandbyPayment.Add(rate)
			}

		case KindVacation:
			closeChain(breakVacation)

		case KindSick:
			closeChain(breakSick)
		}
	}
	closeChain(breakEndOfDay)

	return result
}

// =============================================================================
// MONTHLY ROLL-UP
// =============================================================================

// aggregateDays folds per-day results into monthly totals. Accrual
// fields, travel/extras, and the final total stay zero here; the
// engine fills them afterwards.
func aggregateDays(days []DayResult, minimumWage decimal.Decimal, year int, month time.Month) MonthlyTotals {
	totals := NewMonthlyTotals()
	var tiers TierMinutes
	workDays := make(map[string]struct{})

	for _, d := range days {
		tiers.Add(d.Tiers)
		totals.StandbyPayment = totals.StandbyPayment.Add(d.StandbyPayment)

		totals.VacationMinutes += d.VacationMinutes
		if d.VacationMinutes > 0 {
			totals.VacationDaysTaken++
		}
		totals.SickMinutes += d.SickMinutes
		if d.SickMinutes > 0 {
			totals.SickDaysTaken++
		}

		for _, s := range d.Segments {
			if s.Kind != KindWork {
				continue
			}
			eff := d.Date
			if s.End <= WorkDayCutoff {
				eff = d.Date.AddDays(-1)
				// An overnight tail on the 1st belongs to last month.
				if !eff.InMonth(year, month) {
					continue
				}
			}
			workDays[eff.String()] = struct{}{}
		}
	}

	totals.Calc100 = tiers.M100
	totals.Calc125 = tiers.M125
	totals.Calc150 = tiers.M150
	totals.Calc175 = tiers.M175
	totals.Calc200 = tiers.M200
	totals.Calc150Shabbat = tiers.Shabbat150
	totals.Calc150Overtime = tiers.Overtime150
	totals.Calc150ShabbatBase = tiers.Shabbat150
	totals.Calc150ShabbatExtra = tiers.Shabbat150
	totals.TotalMinutes = tiers.Total()
	totals.ActualWorkDays = len(workDays)

	totals.VacationPayment = MinutePayment(totals.VacationMinutes, minimumWage).Round(2)
	totals.SickPayment = MinutePayment(totals.SickMinutes, minimumWage).Round(2)
	totals.StandbyPayment = totals.StandbyPayment.Round(2)

	totals.BasePayment = tiers.Payment(minimumWage).
		Add(totals.StandbyPayment).
		Add(totals.VacationPayment).
		Add(totals.SickPayment).
		Round(2)
	totals.TotalPayment = totals.BasePayment

	return totals
}

// sortDayResults orders results chronologically.
func sortDayResults(days []DayResult) {
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
}
