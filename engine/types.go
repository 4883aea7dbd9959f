/*
Package engine implements the wage computation pipeline for shift-based
care workers under Israeli labor rules.

PURPOSE:
  Turns raw clock-in/clock-out reports plus shift segment templates
  into per-day, per-tier minute buckets, payment amounts, and monthly
  aggregates. The pipeline is a sequence of pure transformation passes:

    reports -> daily plan -> standby filter -> chains -> tier minutes
            -> day results -> monthly totals

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeReport / SegmentTemplate: immutable inputs
  - DaySegment: a typed, timed slice of a day (work/standby/vacation/sick)
  - TierMinutes: the five-tier minute vector and its payment formula
  - MonthlyTotals: the exhaustive aggregate for one (person, month)

DESIGN PRINCIPLES:
  1. Statelessness: every computation is rebuilt from inputs; nothing
     derived is cached or mutated across calls
  2. Precision: payment amounts use decimal.Decimal throughout and are
     rounded to agorot only at the edges
  3. Degradation over failure: missing or malformed auxiliary data
     falls back to documented defaults and never aborts a month

SEE ALSO:
  - dayplan.go:  daily segment builder
  - standby.go:  cancellation filter and rate resolution
  - chain.go:    chain state machine and tier classification
  - aggregate.go: daily/monthly aggregation
  - accrual.go:  vacation/sick accrual
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/calendar"
)

// =============================================================================
// FIXED RULE CONSTANTS
// =============================================================================

const (
	// Tier thresholds, in cumulative chain minutes.
	RegularLimit     = 8 * calendar.MinutesPerHour  // 480: first 8 hours
	Overtime125Limit = 10 * calendar.MinutesPerHour // 600: hours 9-10

	// Gaps longer than this split work chains.
	BreakThresholdMinutes = 60

	// Standby overlapping work by at least this ratio is cancelled.
	StandbyCancelThreshold = 0.70

	// A work segment entirely before 08:00 counts toward the previous
	// calendar date's work day.
	WorkDayCutoff = 8 * calendar.MinutesPerHour // 480

	// Shabbat defaults when the window table has no entry.
	ShabbatEnterDefault = 16 * calendar.MinutesPerHour // Friday 16:00
	ShabbatExitDefault  = 22 * calendar.MinutesPerHour // Saturday 22:00

	// Accrual constants.
	StandardWorkDaysPerMonth = 21.66
	MaxSickDaysPerMonth      = 1.5
)

// Hard defaults when the store has no rate rows.
var (
	DefaultMinimumWage = decimal.NewFromFloat(34.40)
	DefaultStandbyRate = decimal.NewFromFloat(70.0)
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// ReportClass is the explicit classification of a report, set at
// ingestion. ClassRegular reports follow their templates; vacation and
// sick reports relabel every derived segment.
type ReportClass string

const (
	ClassRegular  ReportClass = ""
	ClassVacation ReportClass = "vacation"
	ClassSick     ReportClass = "sick"
)

// TimeReport is one raw clock-in/clock-out row. Reports missing a
// start, end, or shift type are skipped by the builder, not rejected.
type TimeReport struct {
	ID          int64
	PersonID    int64
	Date        calendar.Date
	StartClock  string // "HH:MM"
	EndClock    string // "HH:MM"; at or before StartClock means overnight
	ShiftTypeID int64  // 0 = missing
	ShiftName   string
	Class       ReportClass

	// Standby rate context, joined from the person and apartment.
	ApartmentID     int64
	ApartmentTypeID *int64
	IsMarried       bool
}

// SegmentKind tags what a slice of a shift is for.
type SegmentKind string

const (
	KindWork     SegmentKind = "work"
	KindStandby  SegmentKind = "standby"
	KindVacation SegmentKind = "vacation"
	KindSick     SegmentKind = "sick"
)

// SegmentTemplate is one ordered sub-interval of a shift type's
// canonical schedule. Relative clocks; alignment to a concrete report
// is computed at build time.
type SegmentTemplate struct {
	ID          int64
	ShiftTypeID int64
	StartClock  string
	EndClock    string
	Kind        SegmentKind
	WagePercent int // 100, 125, 150, ...
	OrderIndex  int
}

// ShabbatWindow is the candle-lighting/havdalah pair for one Saturday.
type ShabbatWindow struct {
	Candles  string // "HH:MM" Friday entry
	Havdalah string // "HH:MM" Saturday exit
}

// StandbyRate is one prioritized rate row. Priority 10 rows are
// apartment-type specific; priority 0 rows are the general fallback.
type StandbyRate struct {
	TemplateID      int64
	ApartmentTypeID *int64
	MaritalStatus   string // "married" | "single"
	Priority        int
	Amount          decimal.Decimal // shekels
}

// Person carries the attributes the engine needs from the roster.
type Person struct {
	ID        int64
	Name      string
	IsMarried bool
	IsActive  bool
	StartDate calendar.Date // zero = unknown
	PayCode   string        // external payroll identifier
}

// PaymentComponent is an extra pay row (travel, bonuses) attached to a
// person-month outside the computed wage.
type PaymentComponent struct {
	PersonID        int64
	Date            time.Time
	ComponentTypeID int64
	Amount          decimal.Decimal // shekels
}

// ComponentTypeTravel marks travel reimbursement rows; everything else
// aggregates into extras.
const ComponentTypeTravel int64 = 2

// =============================================================================
// DERIVED, TRANSIENT TYPES
// =============================================================================

// DaySegment is a typed, timed slice of one calendar day. Start/End are
// minute offsets from that day's midnight; End may exceed 1440 when the
// segment runs past the following midnight.
type DaySegment struct {
	Start       int
	End         int
	Kind        SegmentKind
	WageLabel   string // "100%", "125%", ... as templated
	ShiftTypeID int64
	TemplateID  int64 // 0 = synthetic (uncovered minutes or missing templates)

	// Standby rate context carried from the report.
	ApartmentTypeID *int64
	IsMarried       bool
}

// Duration returns the segment length in minutes.
func (s DaySegment) Duration() int { return s.End - s.Start }

// DayEntry is all segments attributed to one calendar date.
type DayEntry struct {
	Date     calendar.Date
	Segments []DaySegment
}

// =============================================================================
// WAGE TIERS
// =============================================================================

// Tier labels. The effective tier of a minute is a pure function of its
// 1-based chain index and its Shabbat membership.
const (
	Tier100 = "100%"
	Tier125 = "125%"
	Tier150 = "150%"
	Tier175 = "175%"
	Tier200 = "200%"
)

// TierForMinute classifies the n-th minute of a chain (1-based).
func TierForMinute(n int, shabbat bool) string {
	switch {
	case n <= RegularLimit:
		if shabbat {
			return Tier150
		}
		return Tier100
	case n <= Overtime125Limit:
		if shabbat {
			return Tier175
		}
		return Tier125
	default:
		if shabbat {
			return Tier200
		}
		return Tier150
	}
}

// TierMinutes is the per-tier minute vector. The 150% bucket is also
// decomposed into its Shabbat and overtime sources (the Shabbat part
// splits into a pension-bearing 100% base and a 50% supplement for
// payroll export, both equal to Shabbat150).
type TierMinutes struct {
	M100 int
	M125 int
	M150 int
	M175 int
	M200 int

	Shabbat150  int // 150% minutes earned by Shabbat membership
	Overtime150 int // 150% minutes earned past the 600-minute threshold
}

// AddMinutes records n minutes at the given tier.
func (t *TierMinutes) AddMinutes(tier string, n int, shabbat bool) {
	switch tier {
	case Tier100:
		t.M100 += n
	case Tier125:
		t.M125 += n
	case Tier150:
		t.M150 += n
		if shabbat {
			t.Shabbat150 += n
		} else {
			t.Overtime150 += n
		}
	case Tier175:
		t.M175 += n
	case Tier200:
		t.M200 += n
	}
}

// Add accumulates another vector.
func (t *TierMinutes) Add(o TierMinutes) {
	t.M100 += o.M100
	t.M125 += o.M125
	t.M150 += o.M150
	t.M175 += o.M175
	t.M200 += o.M200
	t.Shabbat150 += o.Shabbat150
	t.Overtime150 += o.Overtime150
}

// Total returns the total minutes across all tiers.
func (t TierMinutes) Total() int {
	return t.M100 + t.M125 + t.M150 + t.M175 + t.M200
}

var (
	rate100 = decimal.NewFromFloat(1.0)
	rate125 = decimal.NewFromFloat(1.25)
	rate150 = decimal.NewFromFloat(1.5)
	rate175 = decimal.NewFromFloat(1.75)
	rate200 = decimal.NewFromFloat(2.0)

	sixty = decimal.NewFromInt(60)
)

// Payment converts the vector into shekels at the given hourly minimum
// wage: sum over tiers of minutes/60 * multiplier * wage.
func (t TierMinutes) Payment(minimumWage decimal.Decimal) decimal.Decimal {
	pay := decimal.Zero
	for _, part := range []struct {
		minutes int
		rate    decimal.Decimal
	}{
		{t.M100, rate100},
		{t.M125, rate125},
		{t.M150, rate150},
		{t.M175, rate175},
		{t.M200, rate200},
	} {
		if part.minutes == 0 {
			continue
		}
		hours := decimal.NewFromInt(int64(part.minutes)).Div(sixty)
		pay = pay.Add(hours.Mul(part.rate).Mul(minimumWage))
	}
	return pay
}

// MinutePayment is full pay for untiered minutes (vacation/sick).
func MinutePayment(minutes int, minimumWage decimal.Decimal) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Mul(minimumWage)
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// CancelledStandby records a standby segment absorbed by paid work.
type CancelledStandby struct {
	Start      int
	End        int
	OverlapPct int
	Reason     string
}

// ChainRow is one display row of a closed chain, split at every rate
// change so a row carries a single tier label.
type ChainRow struct {
	Start       int
	End         int
	Rate        string
	Minutes     int
	Tiers       TierMinutes
	Payment     decimal.Decimal
	BreakReason string // set on the last row of a chain, empty otherwise
	FromPrevDay bool   // first row of a chain starting at minute 0
}

// DayResult is the computed outcome for one calendar day.
type DayResult struct {
	Date       calendar.Date
	HebrewDate string

	Segments          []DaySegment
	Chains            []ChainRow
	CancelledStandbys []CancelledStandby

	Tiers           TierMinutes
	StandbyPayment  decimal.Decimal
	VacationMinutes int
	SickMinutes     int
}

// MonthlyTotals is the aggregate for one (person, year, month). Field
// names are stable; exporters rely on them.
type MonthlyTotals struct {
	Calc100         int `json:"calc100"`
	Calc125         int `json:"calc125"`
	Calc150         int `json:"calc150"`
	Calc175         int `json:"calc175"`
	Calc200         int `json:"calc200"`
	Calc150Shabbat  int `json:"calc150_shabbat"`
	Calc150Overtime int `json:"calc150_overtime"`
	// Pension decomposition of the Shabbat 150%: base 100% is
	// pension-bearing, the 50% supplement is not.
	Calc150ShabbatBase  int `json:"calc150_shabbat_100"`
	Calc150ShabbatExtra int `json:"calc150_shabbat_50"`

	TotalMinutes int `json:"total_minutes"`

	StandbyCount    int             `json:"standby"`
	StandbyPayment  decimal.Decimal `json:"standby_payment"`
	VacationMinutes int             `json:"vacation_minutes"`
	VacationPayment decimal.Decimal `json:"vacation_payment"`
	SickMinutes     int             `json:"sick_minutes"`
	SickPayment     decimal.Decimal `json:"sick_payment"`

	ActualWorkDays    int `json:"actual_work_days"`
	VacationDaysTaken int `json:"vacation_days_taken"`
	SickDaysTaken     int `json:"sick_days_taken"`

	SickDaysAccrued     float64 `json:"sick_days_accrued"`
	VacationDaysAccrued float64 `json:"vacation_days_accrued"`
	SeniorityYear       int     `json:"seniority_year"`
	AnnualQuota         int     `json:"annual_quota"`
	JobScopePct         int     `json:"job_scope_pct"`

	Travel decimal.Decimal `json:"travel"`
	Extras decimal.Decimal `json:"extras"`

	// BasePayment is tiers + standby + vacation + sick; TotalPayment
	// adds travel and extras. Both rounded to agorot.
	BasePayment  decimal.Decimal `json:"payment"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}

// NewMonthlyTotals returns a zero-valued totals struct with the
// decimal fields initialized.
func NewMonthlyTotals() MonthlyTotals {
	return MonthlyTotals{
		StandbyPayment:  decimal.Zero,
		VacationPayment: decimal.Zero,
		SickPayment:     decimal.Zero,
		Travel:          decimal.Zero,
		Extras:          decimal.Zero,
		BasePayment:     decimal.Zero,
		TotalPayment:    decimal.Zero,
	}
}

// Statement is the full per-person month: breakdown plus totals.
type Statement struct {
	Person Person
	Year   int
	Month  time.Month
	Days   []DayResult
	Totals MonthlyTotals
}

// RosterRow is one person's line in the whole-roster summary.
type RosterRow struct {
	PersonID int64
	Name     string
	PayCode  string
	Totals   MonthlyTotals
}

// RosterSummary is the monthly summary across all active people.
type RosterSummary struct {
	Year        int
	Month       time.Month
	Rows        []RosterRow
	GrandTotals MonthlyTotals
	MinimumWage decimal.Decimal
}
