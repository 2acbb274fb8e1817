/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/reports/*        Report endpoints (the point of the system)
  /api/members/*        Member management
  /api/projects/*       Project management
  /api/entries, ...     Record ingestion
  /api/scenarios/*      Demo scenarios
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Route("/employees/{id}", func(r chi.Router) {
				r.Get("/distribution", h.EmployeeDistribution)
				r.Get("/utilization", h.EmployeeUtilization)
				r.Get("/profitability", h.EmployeeProfitability)
			})

			r.Route("/team", func(r chi.Router) {
				r.Get("/utilization", h.TeamUtilization)
				r.Get("/capacity", h.TeamCapacity)
				r.Get("/time-mix", h.TeamTimeMix)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/billable-mix", h.ProjectBillableMix)
				r.Get("/unbilled", h.ProjectUnbilled)
				r.Get("/{id}/burndown", h.ProjectBurndown)
				r.Get("/{id}/profitability", h.ProjectProfitability)
			})

			r.Route("/company", func(r chi.Router) {
				r.Get("/overhead", h.CompanyOverhead)
				r.Get("/non-billable", h.CompanyNonBillable)
				r.Get("/billing", h.CompanyBilling)
			})

			r.Route("/risk", func(r chi.Router) {
				r.Get("/velocity", h.RiskVelocity)
				r.Get("/red-list", h.RiskRedList)
			})

			r.Route("/forecast", func(r chi.Router) {
				r.Get("/financial", h.ForecastFinancial)
				r.Get("/staffing", h.ForecastStaffing)
				r.Get("/bridge", h.ForecastBridge)
			})
		})

		// Entity routes
		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.ListMembers)
			r.Post("/", h.CreateMember)
		})
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
		})
		r.Post("/entries", h.CreateEntry)
		r.Post("/expenses", h.CreateExpense)
		r.Post("/company-expenses", h.CreateCompanyExpense)
		r.Post("/allocations", h.CreateAllocation)
		r.Post("/invoices", h.CreateInvoice)
		r.Post("/holidays", h.CreateHoliday)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Landing page: a reporting backend has no frontend of its own, so
	// point humans at the API surface.
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Reporting Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Reporting Engine API</h1>
<p>Report endpoints take <code>start</code>, <code>end</code>, optional
<code>granularity</code> (weekly|monthly) and <code>approval</code>
(approved_only|all) query parameters.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/members">/api/members</a> - List members</li>
<li><a href="/api/projects">/api/projects</a> - List projects</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
