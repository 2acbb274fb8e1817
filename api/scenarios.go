/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates members, projects,
	time entries, expenses, allocations, and invoices that light up
	specific reports.

AVAILABLE SCENARIOS:

	consulting-quarter: Three months of a small consultancy: two members,
	                    three projects, invoices, expenses. Exercises the
	                    employee, team, project, and company reports.
	budget-risk:        A fixed-budget project burning ahead of schedule,
	                    plus a healthy one. Exercises velocity and red list.
	staffing-pipeline:  Confirmed forward allocations at mixed rate modes.
	                    Exercises the staffing forecast and revenue bridge.

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create members and projects
 3. Record time entries, expenses, invoices, allocations
 4. Dates are anchored relative to the handler's reference date so the
    data always lands in a queryable recent window

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "consulting-quarter"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context and response helpers
  - server.go: Scenario routes
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
	"github.com/warp/reporting-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "consulting-quarter",
		Name:        "Consulting Quarter",
		Description: "Three months of a small consultancy: utilization, profitability, billing",
		Category:    "reports",
	},
	{
		ID:          "budget-risk",
		Name:        "Budget Risk",
		Description: "One project burning ahead of schedule, one healthy",
		Category:    "risk",
	},
	{
		ID:          "staffing-pipeline",
		Name:        "Staffing Pipeline",
		Description: "Confirmed forward allocations feeding the revenue forecast",
		Category:    "forecast",
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

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "consulting-quarter":
		err = h.loadConsultingQuarterScenario(ctx)
	case "budget-risk":
		err = h.loadBudgetRiskScenario(ctx)
	case "staffing-pipeline":
		err = h.loadStaffingPipelineScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// monthAnchor returns the first day of the month n months before the
// reference date. Scenario data is laid out relative to these anchors so
// the default dashboard windows always contain it.
func (h *Handler) monthAnchor(monthsAgo int) time.Time {
	t := h.today()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -monthsAgo, 0)
}

func (h *Handler) loadConsultingQuarterScenario(ctx context.Context) error {
	members := []analytics.Member{
		{ID: "alice", Name: "Alice Moreau", HourlyRate: dec(150), CostRate: dec(75), WeeklyTarget: dec(40)},
		{ID: "bruno", Name: "Bruno Keller", HourlyRate: dec(120), CostRate: dec(60), WeeklyTarget: dec(32)},
	}
	for _, m := range members {
		if err := h.Store.SaveMember(ctx, m); err != nil {
			return err
		}
	}

	projects := []analytics.Project{
		{ID: "acme-platform", Name: "Acme Platform", Client: "Acme", Billable: true,
			Active: true, RateMode: analytics.RateByMember, BudgetHours: dec(600)},
		{ID: "globex-audit", Name: "Globex Audit", Client: "Globex", Billable: true,
			Active: true, RateMode: analytics.RateByProject, ProjectRate: dec(175)},
		{ID: "internal-tools", Name: "Internal Tools", Billable: false,
			Active: true, RateMode: analytics.RateByMember},
	}
	for _, p := range projects {
		if err := h.Store.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	// Three months of entries: Alice mostly billable on the platform,
	// Bruno split between the audit and internal work.
	entryID := 0
	addEntry := func(user, project string, d time.Time, hours float64, billing analytics.BillingStatus, invoiceID string) error {
		entryID++
		var invoicedAt *time.Time
		if invoiceID != "" {
			ia := d.AddDate(0, 0, 14)
			invoicedAt = &ia
		}
		return h.Store.SaveEntry(ctx, analytics.TimeEntry{
			ID:             fmt.Sprintf("entry-%03d", entryID),
			UserID:         user,
			ProjectID:      project,
			Date:           d,
			Hours:          decimal.NewFromFloat(hours),
			BillingStatus:  billing,
			ApprovalStatus: analytics.Approved,
			InvoiceID:      invoiceID,
			InvoicedAt:     invoicedAt,
		})
	}

	for monthsAgo := 3; monthsAgo >= 1; monthsAgo-- {
		anchor := h.monthAnchor(monthsAgo)
		invoiceID := ""
		if monthsAgo >= 2 {
			invoiceID = fmt.Sprintf("inv-%s", anchor.Format("2006-01"))
		}
		// Four working weeks per month, Monday through Thursday sampled.
		for week := 0; week < 4; week++ {
			for dow := 0; dow < 4; dow++ {
				d := anchor.AddDate(0, 0, week*7+dow)
				if err := addEntry("alice", "acme-platform", d, 7, analytics.Billable, invoiceID); err != nil {
					return err
				}
				if err := addEntry("bruno", "globex-audit", d, 5, analytics.Billable, invoiceID); err != nil {
					return err
				}
			}
			// Friday internal work, never invoiced
			d := anchor.AddDate(0, 0, week*7+4)
			if err := addEntry("alice", "internal-tools", d, 2, analytics.Internal, ""); err != nil {
				return err
			}
			if err := addEntry("bruno", "internal-tools", d, 3, analytics.NonBillable, ""); err != nil {
				return err
			}
		}
	}

	// Project expense on the audit, company overhead on a monthly cycle.
	if err := h.Store.SaveExpense(ctx, analytics.Expense{
		ID: "exp-travel", ProjectID: "globex-audit", Amount: dec(1200),
		Date: h.monthAnchor(2).AddDate(0, 0, 9), Category: "travel",
	}, analytics.Approved); err != nil {
		return err
	}
	if err := h.Store.SaveCompanyExpense(ctx, sqlite.CompanyExpenseRecord{
		ID: "rent", Amount: dec(3000), Date: h.monthAnchor(3),
		Category: "rent", Recurring: true, Frequency: analytics.FreqMonthly,
	}); err != nil {
		return err
	}

	// Invoices: older months sent and paid, last month still outstanding.
	invoices := []analytics.Invoice{
		{ID: "inv-a", Status: analytics.InvoicePaid, Total: dec(18000), InvoiceDate: h.monthAnchor(2).AddDate(0, 0, 5)},
		{ID: "inv-b", Status: analytics.InvoicePaid, Total: dec(16500), InvoiceDate: h.monthAnchor(1).AddDate(0, 0, 5)},
		{ID: "inv-c", Status: analytics.InvoiceSent, Total: dec(17200), InvoiceDate: h.today().AddDate(0, 0, -3)},
	}
	for _, inv := range invoices {
		if err := h.Store.SaveInvoice(ctx, inv); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) loadBudgetRiskScenario(ctx context.Context) error {
	if err := h.Store.SaveMember(ctx, analytics.Member{
		ID: "carla", Name: "Carla Jensen", HourlyRate: dec(140), CostRate: dec(70), WeeklyTarget: dec(40),
	}); err != nil {
		return err
	}

	// The risky project is a third through its timeline with most of its
	// budget gone; the healthy one tracks its schedule.
	riskStart := h.today().AddDate(0, 0, -30)
	riskEnd := h.today().AddDate(0, 0, 60)
	healthyStart := h.today().AddDate(0, 0, -45)
	healthyEnd := h.today().AddDate(0, 0, 45)

	projects := []analytics.Project{
		{ID: "runaway", Name: "Runaway Replatform", Client: "Initech", Billable: true,
			Active: true, RateMode: analytics.RateByMember, BudgetHours: dec(100),
			StartDate: &riskStart, EndDate: &riskEnd},
		{ID: "steady", Name: "Steady Retainer", Client: "Hooli", Billable: true,
			Active: true, RateMode: analytics.RateByMember, BudgetHours: dec(200),
			StartDate: &healthyStart, EndDate: &healthyEnd},
	}
	for _, p := range projects {
		if err := h.Store.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	addEntry := func(id, project string, d time.Time, hours float64) error {
		return h.Store.SaveEntry(ctx, analytics.TimeEntry{
			ID: id, UserID: "carla", ProjectID: project, Date: d,
			Hours:          decimal.NewFromFloat(hours),
			BillingStatus:  analytics.Billable,
			ApprovalStatus: analytics.Approved,
		})
	}

	// 92 of 100 budget hours burned in the first third: red list and
	// over-pace both trigger.
	for i := 0; i < 23; i++ {
		d := riskStart.AddDate(0, 0, i)
		if err := addEntry(fmt.Sprintf("risk-%02d", i), "runaway", d, 4); err != nil {
			return err
		}
	}
	// 90 of 200 at the halfway mark: on pace, below the threshold.
	for i := 0; i < 30; i++ {
		d := healthyStart.AddDate(0, 0, i)
		if err := addEntry(fmt.Sprintf("ok-%02d", i), "steady", d, 3); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) loadStaffingPipelineScenario(ctx context.Context) error {
	members := []analytics.Member{
		{ID: "dmitri", Name: "Dmitri Novak", HourlyRate: dec(160), CostRate: dec(80), WeeklyTarget: dec(40)},
		{ID: "elena", Name: "Elena Ruiz", HourlyRate: dec(130), CostRate: dec(65), WeeklyTarget: dec(40)},
	}
	for _, m := range members {
		if err := h.Store.SaveMember(ctx, m); err != nil {
			return err
		}
	}

	projects := []analytics.Project{
		{ID: "northwind", Name: "Northwind Integration", Client: "Northwind", Billable: true,
			Active: true, RateMode: analytics.RateByProject, ProjectRate: dec(180)},
		{ID: "contoso", Name: "Contoso Migration", Client: "Contoso", Billable: true,
			Active: true, RateMode: analytics.RateByMember},
	}
	for _, p := range projects {
		if err := h.Store.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	today := h.today()
	allocations := []struct {
		id    string
		alloc analytics.ResourceAllocation
	}{
		// Explicit rate wins over everything else.
		{"alloc-1", analytics.ResourceAllocation{
			UserID: "dmitri", ProjectID: "northwind",
			StartDate: today, EndDate: today.AddDate(0, 0, 20),
			HoursPerDay: dec(6), Status: analytics.Confirmed, BillRate: dec(200),
		}},
		// Falls back to the project's flat rate.
		{"alloc-2", analytics.ResourceAllocation{
			UserID: "elena", ProjectID: "northwind",
			StartDate: today.AddDate(0, 0, 7), EndDate: today.AddDate(0, 0, 35),
			HoursPerDay: dec(4), Status: analytics.Confirmed,
		}},
		// Falls back to the member's own rate.
		{"alloc-3", analytics.ResourceAllocation{
			UserID: "elena", ProjectID: "contoso",
			StartDate: today.AddDate(0, 0, 14), EndDate: today.AddDate(0, 0, 60),
			HoursPerDay: dec(3), Status: analytics.Tentative,
		}},
		// Completed work never counts forward.
		{"alloc-4", analytics.ResourceAllocation{
			UserID: "dmitri", ProjectID: "contoso",
			StartDate: today.AddDate(0, 0, -40), EndDate: today.AddDate(0, 0, -10),
			HoursPerDay: dec(8), Status: analytics.Completed, BillRate: dec(220),
		}},
	}
	for _, a := range allocations {
		if err := h.Store.SaveAllocation(ctx, a.id, a.alloc); err != nil {
			return err
		}
	}

	// A little trailing history so the bridge has actuals and a breakeven.
	for monthsAgo := 2; monthsAgo >= 1; monthsAgo-- {
		anchor := h.monthAnchor(monthsAgo)
		for week := 0; week < 4; week++ {
			if err := h.Store.SaveEntry(ctx, analytics.TimeEntry{
				ID:     fmt.Sprintf("hist-%d-%d", monthsAgo, week),
				UserID: "dmitri", ProjectID: "contoso",
				Date:           anchor.AddDate(0, 0, week*7),
				Hours:          dec(30),
				BillingStatus:  analytics.Billable,
				ApprovalStatus: analytics.Approved,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
