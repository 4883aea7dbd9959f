/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/months            Available reporting months
  /api/people/*          Roster and per-person statements
  /api/summary/*         Whole-roster summary and xlsx export
  /api/scenarios/*       Demo scenarios
  /api/admin/*           Data ingestion and reset

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/months", h.ListMonths)

		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Get("/{id}/statement", h.GetStatement)
		})

		r.Route("/summary", func(r chi.Router) {
			r.Get("/", h.GetSummary)
			r.Get("/export", h.ExportSummary)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/people", h.UpsertPeople)
			r.Post("/apartment-types", h.UpsertApartmentTypes)
			r.Post("/apartments", h.UpsertApartments)
			r.Post("/shift-types", h.UpsertShiftTypes)
			r.Post("/reports", h.UpsertReports)
			r.Post("/shabbat", h.UpsertShabbat)
			r.Post("/standby-rates", h.UpsertStandbyRates)
			r.Post("/minimum-wage", h.UpsertMinimumWage)
			r.Post("/payment-components", h.UpsertPaymentComponents)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
