/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with
	realistic data for testing and demos. Each scenario creates people,
	shift types with segment templates, time reports, and the auxiliary
	tables (Shabbat windows, standby rates, minimum wage) needed to
	demonstrate a specific computation feature.

AVAILABLE SCENARIOS:

	day-shifts:           Plain weekday shifts with overtime tiers
	overnight-standby:    16:00-08:00 shifts with templated standby
	shabbat-weekend:      Friday-into-Saturday chains with premiums
	vacation-sick-month:  Mixed vacation/sick reports and accruals

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Seed apartments, people, shift types with templates
 3. Seed the month's reports and auxiliary tables

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overnight-standby"}

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Handler context and helpers
  - store/sqlite/sqlite.go: the Save helpers used here
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/calendar"
	"github.com/diyur/wage-engine/engine"
)

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "day-shifts",
		Name:        "Day Shifts",
		Description: "Plain weekday shifts showing the 100/125/150 overtime tiers",
	},
	{
		ID:          "overnight-standby",
		Name:        "Overnight with Standby",
		Description: "16:00-08:00 shifts split into evening work, night standby, morning work",
	},
	{
		ID:          "shabbat-weekend",
		Name:        "Shabbat Weekend",
		Description: "Friday-into-Saturday chains with Shabbat premium windows",
	},
	{
		ID:          "vacation-sick-month",
		Name:        "Vacation and Sick Month",
		Description: "Mixed regular, vacation, and sick reports with accruals",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "day-shifts":
		err = h.loadDayShiftsScenario(ctx)
	case "overnight-standby":
		err = h.loadOvernightStandbyScenario(ctx)
	case "shabbat-weekend":
		err = h.loadShabbatWeekendScenario(ctx)
	case "vacation-sick-month":
		err = h.loadVacationSickScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario": req.ScenarioID})
}

// =============================================================================
// SHARED SEED DATA
// =============================================================================

// demoMonth is the month every scenario populates.
var demoYear, demoMonth = 2026, time.March

func (h *Handler) seedBase(ctx context.Context) error {
	if err := h.Store.SaveApartmentType(ctx, 1, "דירת רווקים"); err != nil {
		return err
	}
	if err := h.Store.SaveApartmentType(ctx, 2, "דירת משפחות"); err != nil {
		return err
	}
	if err := h.Store.SaveApartment(ctx, 1, "דירה א", 1); err != nil {
		return err
	}
	if err := h.Store.SaveApartment(ctx, 2, "דירה ב", 2); err != nil {
		return err
	}

	people := []struct {
		p   engine.Person
		apt int64
	}{
		{engine.Person{ID: 1, Name: "אביגיל כהן", IsActive: true, StartDate: calendar.NewDate(2023, time.June, 1), PayCode: "1001"}, 1},
		{engine.Person{ID: 2, Name: "דוד לוי", IsMarried: true, IsActive: true, StartDate: calendar.NewDate(2019, time.January, 15), PayCode: "1002"}, 2},
	}
	for _, entry := range people {
		if err := h.Store.SavePerson(ctx, entry.p, entry.apt); err != nil {
			return err
		}
	}

	return h.Store.SaveMinimumWage(ctx, demoYear, demoMonth, decimal.NewFromFloat(34.40))
}

func (h *Handler) seedShiftType(ctx context.Context, id int64, name string, segments []engine.SegmentTemplate) error {
	if err := h.Store.SaveShiftType(ctx, id, name); err != nil {
		return err
	}
	for _, t := range segments {
		t.ShiftTypeID = id
		if err := h.Store.SaveSegmentTemplate(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) seedReports(ctx context.Context, reports []engine.TimeReport) error {
	for _, r := range reports {
		if err := h.Store.SaveTimeReport(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadDayShiftsScenario(ctx context.Context) error {
	if err := h.seedBase(ctx); err != nil {
		return err
	}
	if err := h.seedShiftType(ctx, 1, "משמרת יום", []engine.SegmentTemplate{
		{ID: 11, StartClock: "08:00", EndClock: "16:00", Kind: engine.KindWork, WagePercent: 100, OrderIndex: 0},
	}); err != nil {
		return err
	}

	// Two regular days, one long day reaching the 150% tier.
	reports := []engine.TimeReport{
		{ID: 101, PersonID: 1, Date: calendar.NewDate(demoYear, demoMonth, 2), StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1},
		{ID: 102, PersonID: 1, Date: calendar.NewDate(demoYear, demoMonth, 3), StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1},
		{ID: 103, PersonID: 1, Date: calendar.NewDate(demoYear, demoMonth, 4), StartClock: "08:00", EndClock: "19:30", ShiftTypeID: 1},
	}
	return h.seedReports(ctx, reports)
}

func (h *Handler) loadOvernightStandbyScenario(ctx context.Context) error {
	if err := h.seedBase(ctx); err != nil {
		return err
	}
	if err := h.seedShiftType(ctx, 2, "משמרת לילה", []engine.SegmentTemplate{
		{ID: 21, StartClock: "16:00", EndClock: "23:00", Kind: engine.KindWork, WagePercent: 100, OrderIndex: 0},
		{ID: 22, StartClock: "23:00", EndClock: "07:00", Kind: engine.KindStandby, OrderIndex: 1},
		{ID: 23, StartClock: "07:00", EndClock: "08:00", Kind: engine.KindWork, WagePercent: 100, OrderIndex: 2},
	}); err != nil {
		return err
	}

	rates := []engine.StandbyRate{
		{TemplateID: 22, MaritalStatus: "single", Priority: 0, Amount: decimal.NewFromFloat(70.0)},
		{TemplateID: 22, ApartmentTypeID: ptrInt64(2), MaritalStatus: "married", Priority: 10, Amount: decimal.NewFromFloat(95.0)},
	}
	for _, rate := range rates {
		if err := h.Store.SaveStandbyRate(ctx, rate); err != nil {
			return err
		}
	}

	reports := []engine.TimeReport{
		{ID: 201, PersonID: 1, Date: calendar.NewDate(demoYear, demoMonth, 9), StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2},
		{ID: 202, PersonID: 2, Date: calendar.NewDate(demoYear, demoMonth, 9), StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2},
	}
	return h.seedReports(ctx, reports)
}

func (h *Handler) loadShabbatWeekendScenario(ctx context.Context) error {
	if err := h.seedBase(ctx); err != nil {
		return err
	}
	if err := h.seedShiftType(ctx, 3, "משמרת סופ\"ש", []engine.SegmentTemplate{
		{ID: 31, StartClock: "14:00", EndClock: "23:00", Kind: engine.KindWork, WagePercent: 100, OrderIndex: 0},
	}); err != nil {
		return err
	}

	// 2026-03-07 is a Saturday.
	saturday := calendar.NewDate(demoYear, demoMonth, 7)
	window := engine.ShabbatWindow{Candles: "17:12", Havdalah: "18:11"}
	if err := h.Store.SaveShabbatWindow(ctx, saturday, window); err != nil {
		return err
	}

	reports := []engine.TimeReport{
		{ID: 301, PersonID: 1, Date: saturday.AddDays(-1), StartClock: "14:00", EndClock: "23:00", ShiftTypeID: 3},
		{ID: 302, PersonID: 1, Date: saturday, StartClock: "09:00", EndClock: "20:00", ShiftTypeID: 3},
	}
	return h.seedReports(ctx, reports)
}

func (h *Handler) loadVacationSickScenario(ctx context.Context) error {
	if err := h.seedBase(ctx); err != nil {
		return err
	}
	if err := h.seedShiftType(ctx, 1, "משמרת יום", []engine.SegmentTemplate{
		{ID: 11, StartClock: "08:00", EndClock: "16:00", Kind: engine.KindWork, WagePercent: 100, OrderIndex: 0},
	}); err != nil {
		return err
	}

	var reports []engine.TimeReport
	id := int64(400)
	for day := 2; day <= 26; day++ {
		date := calendar.NewDate(demoYear, demoMonth, day)
		if wd := date.Weekday(); wd == time.Friday || wd == time.Saturday {
			continue
		}
		id++
		r := engine.TimeReport{
			ID: id, PersonID: 2, Date: date,
			StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1,
		}
		switch day {
		case 10, 11:
			r.Class = engine.ClassVacation
		case 18:
			r.Class = engine.ClassSick
		}
		reports = append(reports, r)
	}
	return h.seedReports(ctx, reports)
}

func ptrInt64(v int64) *int64 { return &v }
