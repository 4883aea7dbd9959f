/*
engine.go - Pipeline orchestration

PURPOSE:
  The Engine wires the pure computation passes to a data Source and
  produces per-person statements and whole-roster summaries. Auxiliary
  data that fails to load (Shabbat windows, standby rates, minimum
  wage) degrades to documented defaults with a logged warning; only the
  primary inputs (person, reports) abort a computation.

SEE ALSO:
  - store/sqlite: the production Source
  - aggregate.go, accrual.go: the passes driven here
*/
package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MonthKey identifies one reporting month.
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Source supplies the raw data the engine computes from. Every method
// takes a context and returns an explicit error; the engine decides
// which failures degrade and which abort.
type Source interface {
	Person(ctx context.Context, id int64) (Person, error)
	ActivePeople(ctx context.Context) ([]Person, error)

	ReportsForMonth(ctx context.Context, personID int64, year int, month time.Month) ([]TimeReport, error)
	ReportsForAll(ctx context.Context, year int, month time.Month) ([]TimeReport, error)
	TemplatesForShiftTypes(ctx context.Context, shiftTypeIDs []int64) (map[int64][]SegmentTemplate, error)

	ShabbatTable(ctx context.Context) (ShabbatTable, error)
	StandbyRates(ctx context.Context) ([]StandbyRate, error)
	MinimumWage(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)

	PaymentComponents(ctx context.Context, personID int64, year int, month time.Month) ([]PaymentComponent, error)
	AllPaymentComponents(ctx context.Context, year int, month time.Month) ([]PaymentComponent, error)

	AvailableMonths(ctx context.Context) ([]MonthKey, error)
}

// Engine computes wage statements from a Source.
type Engine struct {
	src Source
	log *zap.Logger
}

// New returns an Engine over the given source. A nil logger disables
// logging.
func New(src Source, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{src: src, log: log}
}

// =============================================================================
// SHARED MONTH CONTEXT
// =============================================================================

// monthData is the auxiliary data loaded once per computation. For the
// roster path it is shared across every person in the month.
type monthData struct {
	Templates   map[int64][]SegmentTemplate
	Shabbat     ShabbatTable
	Rates       RateTable
	MinimumWage decimal.Decimal
}

func (e *Engine) loadMonthData(ctx context.Context, reports []TimeReport, year int, month time.Month) (monthData, error) {
	data := monthData{Shabbat: ShabbatTable{}, Rates: NewRateTable(nil)}

	templates, err := e.src.TemplatesForShiftTypes(ctx, shiftTypeIDs(reports))
	if err != nil {
		return data, sourceErr("shift segment templates", err)
	}
	data.Templates = templates

	if table, err := e.src.ShabbatTable(ctx); err != nil {
		e.log.Warn("shabbat table unavailable, using default window", zap.Error(err))
	} else {
		data.Shabbat = table
	}

	if rates, err := e.src.StandbyRates(ctx); err != nil {
		e.log.Warn("standby rates unavailable, using default rate", zap.Error(err))
	} else {
		data.Rates = NewRateTable(rates)
	}

	wage, err := e.src.MinimumWage(ctx, year, month)
	if err != nil || wage.IsZero() {
		e.log.Warn("minimum wage unavailable, using default",
			zap.Int("year", year), zap.Int("month", int(month)), zap.Error(err))
		wage = DefaultMinimumWage
	}
	data.MinimumWage = wage

	return data, nil
}

func shiftTypeIDs(reports []TimeReport) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range reports {
		if r.ShiftTypeID == 0 {
			continue
		}
		if _, ok := seen[r.ShiftTypeID]; ok {
			continue
		}
		seen[r.ShiftTypeID] = struct{}{}
		ids = append(ids, r.ShiftTypeID)
	}
	return ids
}

// =============================================================================
// STATEMENTS
// =============================================================================

// ComputeStatement builds the full statement for one person-month.
func (e *Engine) ComputeStatement(ctx context.Context, personID int64, year int, month time.Month) (*Statement, error) {
	person, err := e.src.Person(ctx, personID)
	if err != nil {
		return nil, err
	}

	reports, err := e.src.ReportsForMonth(ctx, personID, year, month)
	if err != nil {
		return nil, sourceErr("time reports", err)
	}

	data, err := e.loadMonthData(ctx, reports, year, month)
	if err != nil {
		return nil, err
	}

	components, err := e.src.PaymentComponents(ctx, personID, year, month)
	if err != nil {
		e.log.Warn("payment components unavailable", zap.Int64("person", personID), zap.Error(err))
		components = nil
	}

	return e.computePerson(person, reports, components, data, year, month), nil
}

// computePerson runs the pure pipeline with everything preloaded.
func (e *Engine) computePerson(person Person, reports []TimeReport, components []PaymentComponent, data monthData, year int, month time.Month) *Statement {
	plan := BuildDailyPlan(reports, data.Templates, year, month)

	dayCtx := dayContext{Shabbat: data.Shabbat, Rates: data.Rates, MinimumWage: data.MinimumWage}
	days := make([]DayResult, 0, len(plan))
	for _, entry := range plan {
		days = append(days, processDay(entry, dayCtx))
	}
	sortDayResults(days)

	totals := aggregateDays(days, data.MinimumWage, year, month)
	totals.StandbyCount = countStandbyReports(reports, data.Templates)
	applyAccruals(&totals, person, year, month)

	for _, c := range components {
		if c.ComponentTypeID == ComponentTypeTravel {
			totals.Travel = totals.Travel.Add(c.Amount)
		} else {
			totals.Extras = totals.Extras.Add(c.Amount)
		}
	}
	totals.Travel = totals.Travel.Round(2)
	totals.Extras = totals.Extras.Round(2)
	totals.TotalPayment = totals.BasePayment.Add(totals.Travel).Add(totals.Extras).Round(2)

	return &Statement{Person: person, Year: year, Month: month, Days: days, Totals: totals}
}

// countStandbyReports counts reports whose shift type carries a standby
// segment template.
func countStandbyReports(reports []TimeReport, templates map[int64][]SegmentTemplate) int {
	hasStandby := make(map[int64]bool)
	for shiftTypeID, segs := range templates {
		for _, t := range segs {
			if t.Kind == KindStandby {
				hasStandby[shiftTypeID] = true
				break
			}
		}
	}
	count := 0
	for _, r := range reports {
		if hasStandby[r.ShiftTypeID] {
			count++
		}
	}
	return count
}

// =============================================================================
// ROSTER SUMMARY
// =============================================================================

// ComputeRoster builds the monthly summary for every active person,
// loading the shared auxiliary data once.
func (e *Engine) ComputeRoster(ctx context.Context, year int, month time.Month) (*RosterSummary, error) {
	people, err := e.src.ActivePeople(ctx)
	if err != nil {
		return nil, sourceErr("active people", err)
	}

	allReports, err := e.src.ReportsForAll(ctx, year, month)
	if err != nil {
		return nil, sourceErr("time reports", err)
	}
	reportsByPerson := make(map[int64][]TimeReport)
	for _, r := range allReports {
		reportsByPerson[r.PersonID] = append(reportsByPerson[r.PersonID], r)
	}

	data, err := e.loadMonthData(ctx, allReports, year, month)
	if err != nil {
		return nil, err
	}

	componentsByPerson := make(map[int64][]PaymentComponent)
	if all, err := e.src.AllPaymentComponents(ctx, year, month); err != nil {
		e.log.Warn("payment components unavailable", zap.Error(err))
	} else {
		for _, c := range all {
			componentsByPerson[c.PersonID] = append(componentsByPerson[c.PersonID], c)
		}
	}

	summary := &RosterSummary{
		Year:        year,
		Month:       month,
		GrandTotals: NewMonthlyTotals(),
		MinimumWage: data.MinimumWage,
	}
	for _, person := range people {
		st := e.computePerson(person, reportsByPerson[person.ID], componentsByPerson[person.ID], data, year, month)
		// People with no hours and no pay stay off the summary.
		if st.Totals.TotalMinutes == 0 && st.Totals.TotalPayment.IsZero() {
			continue
		}
		summary.Rows = append(summary.Rows, RosterRow{
			PersonID: person.ID,
			Name:     person.Name,
			PayCode:  person.PayCode,
			Totals:   st.Totals,
		})
		addTotals(&summary.GrandTotals, st.Totals)
	}
	return summary, nil
}

// addTotals sums the additive fields of a monthly total into dst.
// Per-person fields (seniority, quota, job scope) stay zero in grand
// totals.
func addTotals(dst *MonthlyTotals, src MonthlyTotals) {
	dst.Calc100 += src.Calc100
	dst.Calc125 += src.Calc125
	dst.Calc150 += src.Calc150
	dst.Calc175 += src.Calc175
	dst.Calc200 += src.Calc200
	dst.Calc150Shabbat += src.Calc150Shabbat
	dst.Calc150Overtime += src.Calc150Overtime
	dst.Calc150ShabbatBase += src.Calc150ShabbatBase
	dst.Calc150ShabbatExtra += src.Calc150ShabbatExtra
	dst.TotalMinutes += src.TotalMinutes

	dst.StandbyCount += src.StandbyCount
	dst.StandbyPayment = dst.StandbyPayment.Add(src.StandbyPayment)
	dst.VacationMinutes += src.VacationMinutes
	dst.VacationPayment = dst.VacationPayment.Add(src.VacationPayment)
	dst.SickMinutes += src.SickMinutes
	dst.SickPayment = dst.SickPayment.Add(src.SickPayment)

	dst.ActualWorkDays += src.ActualWorkDays
	dst.VacationDaysTaken += src.VacationDaysTaken
	dst.SickDaysTaken += src.SickDaysTaken
	dst.SickDaysAccrued += src.SickDaysAccrued
	dst.VacationDaysAccrued += src.VacationDaysAccrued

	dst.Travel = dst.Travel.Add(src.Travel)
	dst.Extras = dst.Extras.Add(src.Extras)
	dst.BasePayment = dst.BasePayment.Add(src.BasePayment)
	dst.TotalPayment = dst.TotalPayment.Add(src.TotalPayment)
}

// AvailableMonths lists the months with any reported data.
func (e *Engine) AvailableMonths(ctx context.Context) ([]MonthKey, error) {
	months, err := e.src.AvailableMonths(ctx)
	if err != nil {
		return nil, sourceErr("available months", err)
	}
	return months, nil
}
