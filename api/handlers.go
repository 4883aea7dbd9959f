/*
handlers.go - HTTP API handlers for the wage computation engine

PURPOSE:
  Exposes the wage engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and store.

ENDPOINTS:
  Read:
    GET /api/months                      Months with any reported data
    GET /api/people                      Active roster
    GET /api/people/{id}/statement       Full person-month statement
    GET /api/summary                     Whole-roster monthly summary
    GET /api/summary/export              Monthly summary as xlsx

  Ingestion (admin):
    POST /api/admin/people               Upsert roster rows
    POST /api/admin/apartment-types      Upsert apartment categories
    POST /api/admin/apartments           Upsert apartments
    POST /api/admin/shift-types          Upsert shift types + templates
    POST /api/admin/reports              Upsert raw time reports
    POST /api/admin/shabbat              Upsert Shabbat windows
    POST /api/admin/standby-rates        Insert standby rate rows
    POST /api/admin/minimum-wage         Upsert monthly minimum wage
    POST /api/admin/payment-components   Insert extra pay rows
    POST /api/admin/reset                Clear all data (dev only)

  Ingestion endpoints accept JSON arrays so a sync job can push a full
  snapshot in one call.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Person not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diyur/wage-engine/calendar"
	"github.com/diyur/wage-engine/engine"
	"github.com/diyur/wage-engine/export"
	"github.com/diyur/wage-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *engine.Engine
	Log    *zap.Logger

	// Track currently loaded demo scenario.
	currentScenario string

	// Short-lived roster summary cache; the scheduler keeps the
	// current month warm, ingestion invalidates on write.
	summaryMu sync.Mutex
	summaries map[engine.MonthKey]summaryEntry
}

// NewHandler creates a handler over the given store.
func NewHandler(store *sqlite.Store, eng *engine.Engine, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Store:     store,
		Engine:    eng,
		Log:       log,
		summaries: make(map[engine.MonthKey]summaryEntry),
	}
}

// summaryTTL bounds staleness between background refreshes.
const summaryTTL = 5 * time.Minute

type summaryEntry struct {
	summary    *engine.RosterSummary
	computedAt time.Time
}

// rosterSummary returns the cached summary for a month, recomputing
// when the entry is missing, stale, or force is set.
func (h *Handler) rosterSummary(ctx context.Context, year int, month time.Month, force bool) (*engine.RosterSummary, error) {
	key := engine.MonthKey{Year: year, Month: month}

	if !force {
		h.summaryMu.Lock()
		entry, ok := h.summaries[key]
		h.summaryMu.Unlock()
		if ok && time.Since(entry.computedAt) < summaryTTL {
			return entry.summary, nil
		}
	}

	summary, err := h.Engine.ComputeRoster(ctx, year, month)
	if err != nil {
		return nil, err
	}

	h.summaryMu.Lock()
	h.summaries[key] = summaryEntry{summary: summary, computedAt: time.Now()}
	h.summaryMu.Unlock()
	return summary, nil
}

func (h *Handler) invalidateSummaries() {
	h.summaryMu.Lock()
	h.summaries = make(map[engine.MonthKey]summaryEntry)
	h.summaryMu.Unlock()
}

// =============================================================================
// READ ENDPOINTS
// =============================================================================

// ListMonths returns the months with any reported data.
// GET /api/months
func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.Engine.AvailableMonths(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list months", err)
		return
	}
	if months == nil {
		months = []engine.MonthKey{}
	}
	writeJSON(w, http.StatusOK, months)
}

// ListPeople returns the active roster.
// GET /api/people
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ActivePeople(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list people", err)
		return
	}

	dtos := make([]PersonDTO, 0, len(people))
	for _, p := range people {
		dtos = append(dtos, toPersonDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStatement returns the full statement for one person-month.
// GET /api/people/{id}/statement?year=2026&month=3
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	personID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid person id", err)
		return
	}
	year, month, err := parseMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	st, err := h.Engine.ComputeStatement(r.Context(), personID, year, month)
	if err != nil {
		if errors.Is(err, engine.ErrPersonNotFound) {
			writeError(w, http.StatusNotFound, "Person not found", nil)
			return
		}
		h.Log.Error("statement computation failed",
			zap.Int64("person", personID), zap.Int("year", year), zap.Int("month", int(month)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compute statement", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementDTO(st))
}

// GetSummary returns the whole-roster monthly summary.
// GET /api/summary?year=2026&month=3
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	summary, err := h.rosterSummary(r.Context(), year, month, false)
	if err != nil {
		h.Log.Error("roster computation failed",
			zap.Int("year", year), zap.Int("month", int(month)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toRosterDTO(summary))
}

// ExportSummary streams the monthly summary as an xlsx workbook.
// GET /api/summary/export?year=2026&month=3
func (h *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	summary, err := h.rosterSummary(r.Context(), year, month, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}

	buf, err := export.RosterWorkbook(summary)
	if err != nil {
		h.Log.Error("workbook rendering failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to render workbook", err)
		return
	}

	filename := fmt.Sprintf("wage-summary-%d-%02d.xlsx", year, int(month))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// INGESTION ENDPOINTS
// =============================================================================

// UpsertPeople bulk-upserts roster rows.
// POST /api/admin/people
func (h *Handler) UpsertPeople(w http.ResponseWriter, r *http.Request) {
	var reqs []PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, req := range reqs {
		if req.ID == 0 || req.Name == "" {
			writeError(w, http.StatusBadRequest, "Person requires id and name", nil)
			return
		}
		p := engine.Person{
			ID:        req.ID,
			Name:      req.Name,
			IsMarried: req.IsMarried,
			IsActive:  req.IsActive,
			PayCode:   req.PayCode,
		}
		if req.StartDate != "" {
			d, err := parseDateParam(req.StartDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid start_date", err)
				return
			}
			p.StartDate = d
		}
		if err := h.Store.SavePerson(r.Context(), p, req.ApartmentID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save person", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertApartmentTypes bulk-upserts apartment categories.
// POST /api/admin/apartment-types
func (h *Handler) UpsertApartmentTypes(w http.ResponseWriter, r *http.Request) {
	var reqs []ApartmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	for _, req := range reqs {
		if err := h.Store.SaveApartmentType(r.Context(), req.ID, req.Name); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save apartment type", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertApartments bulk-upserts apartments.
// POST /api/admin/apartments
func (h *Handler) UpsertApartments(w http.ResponseWriter, r *http.Request) {
	var reqs []ApartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	for _, req := range reqs {
		if err := h.Store.SaveApartment(r.Context(), req.ID, req.Name, req.ApartmentTypeID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save apartment", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertShiftTypes bulk-upserts shift types with their templates.
// POST /api/admin/shift-types
func (h *Handler) UpsertShiftTypes(w http.ResponseWriter, r *http.Request) {
	var reqs []ShiftTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, req := range reqs {
		if err := h.Store.SaveShiftType(r.Context(), req.ID, req.Name); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save shift type", err)
			return
		}
		for i, seg := range req.Segments {
			kind := engine.SegmentKind(seg.Kind)
			if kind == "" {
				kind = engine.KindWork
			}
			percent := seg.WagePercent
			if percent == 0 {
				percent = 100
			}
			order := seg.OrderIndex
			if order == 0 {
				order = i
			}
			t := engine.SegmentTemplate{
				ID:          seg.ID,
				ShiftTypeID: req.ID,
				StartClock:  seg.StartClock,
				EndClock:    seg.EndClock,
				Kind:        kind,
				WagePercent: percent,
				OrderIndex:  order,
			}
			if err := h.Store.SaveSegmentTemplate(r.Context(), t); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to save shift segment", err)
				return
			}
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertReports bulk-upserts raw time reports.
// POST /api/admin/reports
func (h *Handler) UpsertReports(w http.ResponseWriter, r *http.Request) {
	var reqs []TimeReportRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, req := range reqs {
		date, err := parseDateParam(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid report date", err)
			return
		}
		report := engine.TimeReport{
			ID:          req.ID,
			PersonID:    req.PersonID,
			Date:        date,
			StartClock:  req.StartClock,
			EndClock:    req.EndClock,
			ShiftTypeID: req.ShiftTypeID,
			Class:       engine.ReportClass(req.Class),
			ApartmentID: req.ApartmentID,
		}
		if err := h.Store.SaveTimeReport(r.Context(), report); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save report", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertShabbat bulk-upserts Saturday windows.
// POST /api/admin/shabbat
func (h *Handler) UpsertShabbat(w http.ResponseWriter, r *http.Request) {
	var reqs []ShabbatWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, req := range reqs {
		saturday, err := parseDateParam(req.Saturday)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid saturday date", err)
			return
		}
		window := engine.ShabbatWindow{Candles: req.Candles, Havdalah: req.Havdalah}
		if err := h.Store.SaveShabbatWindow(r.Context(), saturday, window); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save shabbat window", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertStandbyRates bulk-inserts standby rate rows.
// POST /api/admin/standby-rates
func (h *Handler) UpsertStandbyRates(w http.ResponseWriter, r *http.Request) {
	var reqs []StandbyRateRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, req := range reqs {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid rate amount", err)
			return
		}
		rate := engine.StandbyRate{
			TemplateID:      req.SegmentID,
			ApartmentTypeID: req.ApartmentTypeID,
			MaritalStatus:   req.MaritalStatus,
			Priority:        req.Priority,
			Amount:          amount,
		}
		if err := h.Store.SaveStandbyRate(r.Context(), rate); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save standby rate", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// UpsertMinimumWage sets the hourly minimum for a month.
// POST /api/admin/minimum-wage
func (h *Handler) UpsertMinimumWage(w http.ResponseWriter, r *http.Request) {
	var req MinimumWageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 || req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid year/month", nil)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if err := h.Store.SaveMinimumWage(r.Context(), req.Year, time.Month(req.Month), amount); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save minimum wage", err)
		return
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UpsertPaymentComponents bulk-inserts extra pay rows.
// POST /api/admin/payment-components
func (h *Handler) UpsertPaymentComponents(w http.ResponseWriter, r *http.Request) {
	var reqs []PaymentComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, req := range reqs {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid component date", err)
			return
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid component amount", err)
			return
		}
		c := engine.PaymentComponent{
			PersonID:        req.PersonID,
			Date:            date,
			ComponentTypeID: req.ComponentTypeID,
			Amount:          amount,
		}
		if err := h.Store.SavePaymentComponent(r.Context(), c); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save payment component", err)
			return
		}
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(reqs)})
}

// ResetDatabase clears all data (dev only).
// POST /api/admin/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseMonth(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year: %w", err)
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month: %w", err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range: %d", month)
	}
	return year, time.Month(month), nil
}

func parseDateParam(value string) (calendar.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return calendar.Date{}, err
	}
	return calendar.NewDate(t.Year(), t.Month(), t.Day()), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
