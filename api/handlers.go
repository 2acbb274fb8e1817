/*
handlers.go - HTTP API handlers for the reporting backend

PURPOSE:
  Exposes the analytics engine via REST API. Handlers fetch raw records
  from the store, narrow them by range and approval filter, and hand them
  to the engine's pure aggregators. No metric math happens here.

ENDPOINTS:
  Reports:
    GET /api/reports/employees/{id}/distribution   Hours by billing status
    GET /api/reports/employees/{id}/utilization    Utilization trend
    GET /api/reports/employees/{id}/profitability  Revenue/cost/profit trend
    GET /api/reports/team/utilization              Per-member window utilization
    GET /api/reports/team/capacity                 Utilization vs business-day capacity
    GET /api/reports/team/time-mix                 Per-member hours by status
    GET /api/reports/projects/{id}/burndown        Cumulative budget consumption
    GET /api/reports/projects/{id}/profitability   Project P&L trend
    GET /api/reports/projects/billable-mix         Per-project hours by status
    GET /api/reports/projects/unbilled             Approved-not-invoiced work
    GET /api/reports/company/overhead              Revenue vs full cost
    GET /api/reports/company/non-billable          Non-billable hour share
    GET /api/reports/company/billing               Invoiced/collected/outstanding
    GET /api/reports/risk/velocity                 Budget-vs-time pacing
    GET /api/reports/risk/red-list                 Projects past the risk threshold
    GET /api/reports/forecast/financial            Moving-average continuation
    GET /api/reports/forecast/staffing             Allocation-based forward revenue
    GET /api/reports/forecast/bridge               Planned vs actual vs breakeven

  Entities:
    GET/POST /api/members, /api/projects; POST /api/entries, /api/expenses,
    /api/company-expenses, /api/allocations, /api/invoices, /api/holidays

QUERY PARAMETERS (report endpoints):
  start, end:   YYYY-MM-DD window bounds, both required
  granularity:  weekly | monthly (default monthly)
  approval:     approved_only | all (default approved_only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed ranges, unknown enum values
  - 404: Unknown member or project
  - 500: Store failures

SEE ALSO:
  - dto.go: Request data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
	"github.com/warp/reporting-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Now supplies "today" for risk and forecast endpoints. Injectable so
	// demo scenarios and tests can pin the reference date.
	Now func() time.Time

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Now:   time.Now,
	}
}

func (h *Handler) today() time.Time {
	t := h.Now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// reportParams is the parsed query surface shared by all report endpoints.
type reportParams struct {
	Range    analytics.ReportRange
	Approval analytics.ApprovalFilter
}

// parseReportParams reads start/end/granularity/approval from the query
// string. All validation errors map to 400.
func parseReportParams(r *http.Request) (reportParams, error) {
	q := r.URL.Query()

	if q.Get("start") == "" || q.Get("end") == "" {
		return reportParams{}, analytics.ErrMissingDateRange
	}
	start, err := parseDate(q.Get("start"))
	if err != nil {
		return reportParams{}, err
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		return reportParams{}, err
	}

	gran := analytics.Monthly
	if s := q.Get("granularity"); s != "" {
		gran, err = analytics.ParseGranularity(s)
		if err != nil {
			return reportParams{}, err
		}
	}

	rng, err := analytics.NewReportRange(start, end, gran)
	if err != nil {
		return reportParams{}, err
	}

	approval, err := analytics.ParseApprovalFilter(q.Get("approval"))
	if err != nil {
		return reportParams{}, err
	}

	return reportParams{Range: rng, Approval: approval}, nil
}

// fetchEntries pulls the window's entries and applies the approval filter.
func (h *Handler) fetchEntries(r *http.Request, p reportParams) ([]analytics.TimeEntry, error) {
	entries, err := h.Store.EntriesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		return nil, err
	}
	return analytics.FilterByApproval(entries, p.Approval), nil
}

// writeReportError maps engine validation errors to 400 and everything
// else to 500.
func writeReportError(w http.ResponseWriter, err error) {
	if analytics.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Report failed", err)
}

// =============================================================================
// EMPLOYEE REPORTS
// =============================================================================

// EmployeeDistribution returns one member's hours broken down by billing status.
func (h *Handler) EmployeeDistribution(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	id := chi.URLParam(r, "id")

	member, err := h.Store.GetMember(r.Context(), id)
	if err != nil {
		writeReportError(w, err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	entries, err := h.Store.EntriesForUser(r.Context(), id, p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries = analytics.FilterByApproval(entries, p.Approval)

	writeJSON(w, http.StatusOK, map[string]any{
		"memberId":     id,
		"distribution": analytics.EmployeeTimeDistribution(entries),
	})
}

// EmployeeUtilization returns one member's period-bucketed utilization trend.
func (h *Handler) EmployeeUtilization(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	id := chi.URLParam(r, "id")

	member, err := h.Store.GetMember(r.Context(), id)
	if err != nil {
		writeReportError(w, err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	entries, err := h.Store.EntriesForUser(r.Context(), id, p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries = analytics.FilterByApproval(entries, p.Approval)

	writeJSON(w, http.StatusOK, map[string]any{
		"memberId": id,
		"trend":    analytics.EmployeeUtilizationTrend(*member, entries, p.Range),
	})
}

// EmployeeProfitability returns one member's revenue/cost/profit trend.
func (h *Handler) EmployeeProfitability(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	id := chi.URLParam(r, "id")

	member, err := h.Store.GetMember(r.Context(), id)
	if err != nil {
		writeReportError(w, err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	entries, err := h.Store.EntriesForUser(r.Context(), id, p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries = analytics.FilterByApproval(entries, p.Approval)

	writeJSON(w, http.StatusOK, map[string]any{
		"memberId": id,
		"trend":    analytics.EmployeeProfitability(*member, entries, p.Range),
	})
}

// =============================================================================
// TEAM REPORTS
// =============================================================================

// TeamUtilization returns every member's whole-window utilization.
func (h *Handler) TeamUtilization(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows": analytics.TeamUtilization(members, entries, p.Range),
	})
}

// TeamCapacity returns per-member utilization against business-day
// capacity, with company holidays from the store excluded.
func (h *Handler) TeamCapacity(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	cm := analytics.NewCapacityModel(h.Store)
	writeJSON(w, http.StatusOK, map[string]any{
		"rows": analytics.TeamCapacity(members, entries, cm, p.Range.From, p.Range.To),
	})
}

// TeamTimeMix returns every member's hours broken down by billing status.
func (h *Handler) TeamTimeMix(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows": analytics.TeamTimeMix(members, entries),
	})
}

// =============================================================================
// PROJECT REPORTS
// =============================================================================

// ProjectBurndown returns one project's cumulative budget consumption.
func (h *Handler) ProjectBurndown(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	id := chi.URLParam(r, "id")

	project, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeReportError(w, err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	entries, err := h.Store.EntriesForProject(r.Context(), id, p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries = analytics.FilterByApproval(entries, p.Approval)

	writeJSON(w, http.StatusOK, map[string]any{
		"projectId": id,
		"burndown":  analytics.ProjectBurndown(*project, entries, p.Range),
	})
}

// ProjectProfitability returns one project's P&L trend including expenses.
func (h *Handler) ProjectProfitability(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}
	id := chi.URLParam(r, "id")

	project, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeReportError(w, err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	entries, err := h.Store.EntriesForProject(r.Context(), id, p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries = analytics.FilterByApproval(entries, p.Approval)

	expenses, err := h.Store.ProjectExpensesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	var projectExpenses []analytics.Expense
	for _, x := range expenses {
		if x.ProjectID == id {
			projectExpenses = append(projectExpenses, x)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projectId": id,
		"trend":     analytics.ProjectProfitability(*project, entries, projectExpenses, p.Range),
	})
}

// ProjectBillableMix returns per-project hour breakdowns by billing status.
func (h *Handler) ProjectBillableMix(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows": analytics.ProjectBillableMix(projects, entries),
	})
}

// ProjectUnbilled returns approved billable work not yet invoiced.
func (h *Handler) ProjectUnbilled(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.Store.EntriesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}

	// UnbilledWork applies its own approval rule (strictly approved, since
	// locked hours are already invoiced), so the window query stays
	// unfiltered here.
	writeJSON(w, http.StatusOK, map[string]any{
		"rows": analytics.UnbilledWork(projects, entries),
	})
}

// =============================================================================
// COMPANY REPORTS
// =============================================================================

// CompanyOverhead returns revenue vs full cost per period.
func (h *Handler) CompanyOverhead(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}
	projectExpenses, err := h.Store.ProjectExpensesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	companyExpenses, err := h.Store.CompanyExpensesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"series": analytics.CompanyOverhead(entries, projectExpenses, companyExpenses, p.Range),
	})
}

// CompanyNonBillable returns the non-billable hour share per period.
func (h *Handler) CompanyNonBillable(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"series": analytics.NonBillableTrend(entries, p.Range),
	})
}

// CompanyBilling returns invoiced/collected/outstanding totals per period.
func (h *Handler) CompanyBilling(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	invoices, err := h.Store.InvoicesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"series": analytics.BillingVelocity(invoices, p.Range),
	})
}

// =============================================================================
// RISK REPORTS
// =============================================================================

// RiskVelocity returns the budget-vs-time pacing scatter for budgeted projects.
func (h *Handler) RiskVelocity(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"points": analytics.BudgetVelocity(projects, entries, h.today()),
	})
}

// RiskRedList returns projects whose budget consumption crossed the threshold.
func (h *Handler) RiskRedList(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rows": analytics.RedList(projects, entries),
	})
}

// =============================================================================
// FORECAST REPORTS
// =============================================================================

// ForecastFinancial continues the company financial series with a
// moving-average projection. Query: horizon (periods ahead, default 3).
func (h *Handler) ForecastFinancial(w http.ResponseWriter, r *http.Request) {
	p, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	horizon := 3
	if s := r.URL.Query().Get("horizon"); s != "" {
		horizon, err = strconv.Atoi(s)
		if err != nil || horizon < 0 {
			writeError(w, http.StatusBadRequest, "Invalid horizon", err)
			return
		}
	}

	entries, err := h.fetchEntries(r, p)
	if err != nil {
		writeReportError(w, err)
		return
	}
	projectExpenses, err := h.Store.ProjectExpensesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}
	companyExpenses, err := h.Store.CompanyExpensesInRange(r.Context(), p.Range.From, p.Range.To)
	if err != nil {
		writeReportError(w, err)
		return
	}

	history := analytics.CompanyFinancials(entries, projectExpenses, companyExpenses, p.Range)
	forecast := analytics.MovingAverageForecast(history, horizon)

	writeJSON(w, http.StatusOK, map[string]any{
		"history":  history,
		"forecast": forecast,
	})
}

// ForecastStaffing returns allocation-based forward revenue.
// Query: days (window length, default 30).
func (h *Handler) ForecastStaffing(w http.ResponseWriter, r *http.Request) {
	days := 30
	if s := r.URL.Query().Get("days"); s != "" {
		var err error
		days, err = strconv.Atoi(s)
		if err != nil || days <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid days", err)
			return
		}
	}

	allocations, err := h.Store.ListAllocations(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}

	today := h.today()
	planned := analytics.StaffingRevenueForecast(allocations, projects, members, today, days)

	writeJSON(w, http.StatusOK, map[string]any{
		"windowDays":     days,
		"windowStart":    today.Format(dateLayout),
		"plannedRevenue": planned,
	})
}

// ForecastBridge reconciles planned revenue, trailing actuals, and breakeven.
// Query: days (staffing window), months (trailing lookback).
func (h *Handler) ForecastBridge(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, err := intParam(q.Get("days"), 30)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid days", err)
		return
	}
	months, err := intParam(q.Get("months"), 6)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid months", err)
		return
	}

	today := h.today()
	trailingStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0)

	entries, err := h.Store.EntriesInRange(r.Context(), trailingStart, today)
	if err != nil {
		writeReportError(w, err)
		return
	}
	entries = analytics.FilterByApproval(entries, analytics.ApprovedOnly)

	projectExpenses, err := h.Store.ProjectExpensesInRange(r.Context(), trailingStart, today)
	if err != nil {
		writeReportError(w, err)
		return
	}
	companyExpenses, err := h.Store.CompanyExpensesInRange(r.Context(), trailingStart, today)
	if err != nil {
		writeReportError(w, err)
		return
	}
	allocations, err := h.Store.ListAllocations(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}
	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeReportError(w, err)
		return
	}

	bridge := analytics.BuildRevenueBridge(analytics.BridgeInput{
		Entries:         entries,
		ProjectExpenses: projectExpenses,
		CompanyExpenses: companyExpenses,
		Allocations:     allocations,
		Projects:        projects,
		Members:         members,
		Today:           today,
		ForecastDays:    days,
		TrailingMonths:  months,
	})

	writeJSON(w, http.StatusOK, bridge)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// =============================================================================
// ENTITY HANDLERS
// =============================================================================

// ListMembers returns all members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list members", err)
		return
	}

	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		hourly, _ := m.HourlyRate.Float64()
		cost, _ := m.CostRate.Float64()
		target, _ := m.WeeklyTarget.Float64()
		dtos[i] = MemberDTO{
			ID: m.ID, Name: m.Name,
			HourlyRate: hourly, CostRate: cost, WeeklyTarget: target,
			IsHourly: m.IsHourly,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": dtos})
}

// CreateMember creates or replaces a member.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var dto MemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	m, err := dto.toEntity()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid member", err)
		return
	}
	if err := h.Store.SaveMember(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save member", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": m.ID})
}

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		budget, _ := p.BudgetHours.Float64()
		rate, _ := p.ProjectRate.Float64()
		dto := ProjectDTO{
			ID: p.ID, Name: p.Name, Client: p.Client, Color: p.Color,
			Billable: p.Billable, Active: p.Active,
			BudgetHours: budget, RateMode: string(p.RateMode), ProjectRate: rate,
		}
		if p.StartDate != nil {
			dto.StartDate = p.StartDate.Format(dateLayout)
		}
		if p.EndDate != nil {
			dto.EndDate = p.EndDate.Format(dateLayout)
		}
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": dtos})
}

// CreateProject creates or replaces a project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var dto ProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := dto.toEntity()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project", err)
		return
	}
	if err := h.Store.SaveProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": p.ID})
}

// CreateEntry records a time entry.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var dto TimeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	e, err := dto.toEntity()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time entry", err)
		return
	}
	if err := h.Store.SaveEntry(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": e.ID})
}

// CreateExpense records a project expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "id and projectId are required", nil)
		return
	}
	date, err := parseDate(dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense", err)
		return
	}
	approval := analytics.ApprovalStatus(dto.ApprovalStatus)
	if dto.ApprovalStatus == "" {
		approval = analytics.Approved
	} else if !validApprovalStatus(approval) {
		writeError(w, http.StatusBadRequest, "Invalid approval status", nil)
		return
	}

	x := analytics.Expense{
		ID: dto.ID, ProjectID: dto.ProjectID,
		Amount: decimal.NewFromFloat(dto.Amount), Date: date,
		Category: dto.Category, Description: dto.Description,
	}
	if err := h.Store.SaveExpense(r.Context(), x, approval); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": x.ID})
}

// CreateCompanyExpense records company overhead.
func (h *Handler) CreateCompanyExpense(w http.ResponseWriter, r *http.Request) {
	var dto CompanyExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	date, err := parseDate(dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense", err)
		return
	}
	freq := analytics.ExpenseFrequency(dto.Frequency)
	switch freq {
	case "":
		freq = analytics.FreqMonthly
	case analytics.FreqMonthly, analytics.FreqQuarterly, analytics.FreqYearly:
	default:
		writeError(w, http.StatusBadRequest, "Invalid frequency", nil)
		return
	}

	rec := sqlite.CompanyExpenseRecord{
		ID: dto.ID, Amount: decimal.NewFromFloat(dto.Amount), Date: date,
		Category: dto.Category, Recurring: dto.Recurring, Frequency: freq,
	}
	if err := h.Store.SaveCompanyExpense(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": rec.ID})
}

// CreateAllocation creates or replaces a staffing interval.
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var dto AllocationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	a, err := dto.toEntity()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid allocation", err)
		return
	}
	if err := h.Store.SaveAllocation(r.Context(), dto.ID, a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save allocation", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": dto.ID})
}

// CreateInvoice creates or replaces an invoice.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var dto InvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	inv, err := dto.toEntity()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice", err)
		return
	}
	if err := h.Store.SaveInvoice(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": inv.ID})
}

// CreateHoliday records a company holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	date, err := parseDate(dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday", err)
		return
	}
	if err := h.Store.SaveHoliday(r.Context(), dto.ID, date, dto.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": dto.ID})
}

// ResetDatabase clears everything. Development and demo use only.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

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
