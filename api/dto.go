/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the HTTP API, kept separate from the engine types so
  the wire format can render minutes as clock strings and money as
  fixed-point strings without leaking into the computation layer.

CONVENTIONS:
  - Times render as "HH:MM"; spans past midnight wrap ("32:10" -> "08:10")
  - Durations render as decimal hours with trailing zeros trimmed
  - Money renders as strings with two decimal places

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: where these are populated
  - engine/types.go: the domain types they mirror
*/
package api

import (
	"github.com/diyur/wage-engine/calendar"
	"github.com/diyur/wage-engine/engine"
)

// ErrorResponse is the standard error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PersonDTO is one roster entry.
type PersonDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PayCode   string `json:"pay_code,omitempty"`
	IsMarried bool   `json:"is_married"`
	StartDate string `json:"start_date,omitempty"`
}

// SegmentDTO is a typed slice of a day.
type SegmentDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Kind  string `json:"kind"`
	Rate  string `json:"rate,omitempty"`
}

// ChainRowDTO is one display row of a work chain.
type ChainRowDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Rate        string `json:"rate"`
	Hours       string `json:"hours"`
	Payment     string `json:"payment"`
	BreakReason string `json:"break_reason,omitempty"`
	FromPrevDay bool   `json:"from_prev_day,omitempty"`
}

// CancelledStandbyDTO is a standby absorbed by overlapping work.
type CancelledStandbyDTO struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

// DayDTO is one computed day of a statement.
type DayDTO struct {
	Date       string `json:"date"`
	Display    string `json:"display_date"`
	HebrewDate string `json:"hebrew_date"`
	Weekday    string `json:"weekday"`

	Segments          []SegmentDTO          `json:"segments"`
	Chains            []ChainRowDTO         `json:"chains"`
	CancelledStandbys []CancelledStandbyDTO `json:"cancelled_standbys,omitempty"`

	TotalHours     string `json:"total_hours"`
	StandbyPayment string `json:"standby_payment"`
	VacationHours  string `json:"vacation_hours,omitempty"`
	SickHours      string `json:"sick_hours,omitempty"`
}

// StatementDTO is the full person-month response.
type StatementDTO struct {
	Person PersonDTO            `json:"person"`
	Year   int                  `json:"year"`
	Month  int                  `json:"month"`
	Days   []DayDTO             `json:"days"`
	Totals engine.MonthlyTotals `json:"totals"`
}

// RosterRowDTO is one person's line of the monthly summary.
type RosterRowDTO struct {
	PersonID int64                `json:"person_id"`
	Name     string               `json:"name"`
	PayCode  string               `json:"pay_code,omitempty"`
	Totals   engine.MonthlyTotals `json:"totals"`
}

// RosterSummaryDTO is the whole-roster monthly summary.
type RosterSummaryDTO struct {
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	MinimumWage string               `json:"minimum_wage"`
	Rows        []RosterRowDTO       `json:"rows"`
	GrandTotals engine.MonthlyTotals `json:"grand_totals"`
}

// =============================================================================
// INGESTION REQUESTS
// =============================================================================

// PersonRequest upserts one roster row.
type PersonRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	IsMarried   bool   `json:"is_married"`
	IsActive    bool   `json:"is_active"`
	StartDate   string `json:"start_date,omitempty"` // "YYYY-MM-DD"
	PayCode     string `json:"pay_code,omitempty"`
	ApartmentID int64  `json:"apartment_id,omitempty"`
}

// ApartmentTypeRequest upserts an apartment category.
type ApartmentTypeRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ApartmentRequest upserts an apartment.
type ApartmentRequest struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ApartmentTypeID int64  `json:"apartment_type_id,omitempty"`
}

// ShiftTypeRequest upserts a shift type with its segment templates.
type ShiftTypeRequest struct {
	ID       int64                    `json:"id"`
	Name     string                   `json:"name"`
	Segments []SegmentTemplateRequest `json:"segments,omitempty"`
}

// SegmentTemplateRequest is one templated sub-interval of a shift.
type SegmentTemplateRequest struct {
	ID          int64  `json:"id"`
	StartClock  string `json:"start"`
	EndClock    string `json:"end"`
	Kind        string `json:"kind,omitempty"` // work (default), standby, vacation, sick
	WagePercent int    `json:"wage_percent,omitempty"`
	OrderIndex  int    `json:"order_index,omitempty"`
}

// TimeReportRequest upserts one raw clock-in/clock-out row. An
// apartment_id marks a shift covered outside the person's home
// apartment; omitted, the home apartment applies.
type TimeReportRequest struct {
	ID          int64  `json:"id"`
	PersonID    int64  `json:"person_id"`
	Date        string `json:"date"` // "YYYY-MM-DD"
	StartClock  string `json:"start"`
	EndClock    string `json:"end"`
	ShiftTypeID int64  `json:"shift_type_id,omitempty"`
	Class       string `json:"class,omitempty"` // "", "vacation", "sick"
	ApartmentID int64  `json:"apartment_id,omitempty"`
}

// ShabbatWindowRequest upserts one Saturday's window.
type ShabbatWindowRequest struct {
	Saturday string `json:"saturday"` // "YYYY-MM-DD"
	Candles  string `json:"candles"`  // "HH:MM" Friday entry
	Havdalah string `json:"havdalah"` // "HH:MM" Saturday exit
}

// StandbyRateRequest inserts one prioritized standby rate row.
type StandbyRateRequest struct {
	SegmentID       int64  `json:"segment_id"`
	ApartmentTypeID *int64 `json:"apartment_type_id,omitempty"`
	MaritalStatus   string `json:"marital_status"` // "married" | "single"
	Priority        int    `json:"priority"`
	Amount          string `json:"amount"` // shekels, e.g. "70.00"
}

// MinimumWageRequest upserts the hourly minimum for a month.
type MinimumWageRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Amount string `json:"amount"` // shekels per hour
}

// PaymentComponentRequest inserts one extra pay row.
type PaymentComponentRequest struct {
	PersonID        int64  `json:"person_id"`
	Date            string `json:"date"` // "YYYY-MM-DD"
	ComponentTypeID int64  `json:"component_type_id"`
	Amount          string `json:"amount"` // shekels
}

// =============================================================================
// CONVERSIONS
// =============================================================================

var hebrewWeekdays = [7]string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}

func toPersonDTO(p engine.Person) PersonDTO {
	dto := PersonDTO{ID: p.ID, Name: p.Name, PayCode: p.PayCode, IsMarried: p.IsMarried}
	if !p.StartDate.IsZero() {
		dto.StartDate = p.StartDate.String()
	}
	return dto
}

func toDayDTO(d engine.DayResult) DayDTO {
	dto := DayDTO{
		Date:           d.Date.String(),
		Display:        d.Date.Display(),
		HebrewDate:     d.HebrewDate,
		Weekday:        hebrewWeekdays[int(d.Date.Weekday())],
		Segments:       make([]SegmentDTO, 0, len(d.Segments)),
		Chains:         make([]ChainRowDTO, 0, len(d.Chains)),
		TotalHours:     calendar.HoursString(d.Tiers.Total()),
		StandbyPayment: d.StandbyPayment.StringFixed(2),
	}
	if d.VacationMinutes > 0 {
		dto.VacationHours = calendar.HoursString(d.VacationMinutes)
	}
	if d.SickMinutes > 0 {
		dto.SickHours = calendar.HoursString(d.SickMinutes)
	}

	for _, s := range d.Segments {
		dto.Segments = append(dto.Segments, SegmentDTO{
			Start: calendar.ClockString(s.Start),
			End:   calendar.ClockString(s.End),
			Kind:  string(s.Kind),
			Rate:  s.WageLabel,
		})
	}
	for _, c := range d.Chains {
		dto.Chains = append(dto.Chains, ChainRowDTO{
			Start:       calendar.ClockString(c.Start),
			End:         calendar.ClockString(c.End),
			Rate:        c.Rate,
			Hours:       calendar.HoursString(c.Minutes),
			Payment:     c.Payment.StringFixed(2),
			BreakReason: c.BreakReason,
			FromPrevDay: c.FromPrevDay,
		})
	}
	for _, c := range d.CancelledStandbys {
		dto.CancelledStandbys = append(dto.CancelledStandbys, CancelledStandbyDTO{
			Start:  calendar.ClockString(c.Start),
			End:    calendar.ClockString(c.End),
			Reason: c.Reason,
		})
	}
	return dto
}

func toStatementDTO(st *engine.Statement) StatementDTO {
	dto := StatementDTO{
		Person: toPersonDTO(st.Person),
		Year:   st.Year,
		Month:  int(st.Month),
		Days:   make([]DayDTO, 0, len(st.Days)),
		Totals: st.Totals,
	}
	for _, d := range st.Days {
		dto.Days = append(dto.Days, toDayDTO(d))
	}
	return dto
}

func toRosterDTO(summary *engine.RosterSummary) RosterSummaryDTO {
	dto := RosterSummaryDTO{
		Year:        summary.Year,
		Month:       int(summary.Month),
		MinimumWage: summary.MinimumWage.StringFixed(2),
		Rows:        make([]RosterRowDTO, 0, len(summary.Rows)),
		GrandTotals: summary.GrandTotals,
	}
	for _, r := range summary.Rows {
		dto.Rows = append(dto.Rows, RosterRowDTO{
			PersonID: r.PersonID,
			Name:     r.Name,
			PayCode:  r.PayCode,
			Totals:   r.Totals,
		})
	}
	return dto
}
