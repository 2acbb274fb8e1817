package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
)

// =============================================================================
// BURNDOWN
// =============================================================================

func TestProjectBurndown_CumulativeAcrossPeriods(t *testing.T) {
	// GIVEN: Budget 100h, 20h in January, 30h in February, empty March
	// WHEN: Computing burndown over a three-month window
	// THEN: Cumulative hoursUsed [20, 50, 50]

	p := budgetedProject(100)
	entries := []analytics.TimeEntry{
		entry(20, analytics.Billable, day(2025, time.January, 10)),
		entry(30, analytics.Billable, day(2025, time.February, 10)),
	}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.March, 31))

	points := analytics.ProjectBurndown(p, entries, r)
	if len(points) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(points))
	}
	want := []float64{20, 50, 50}
	for i, w := range want {
		if points[i].HoursUsed != w {
			t.Errorf("period %d hoursUsed = %v, want %v", i, points[i].HoursUsed, w)
		}
	}
	if points[2].Remaining != 50 {
		t.Errorf("remaining = %v, want 50", points[2].Remaining)
	}
}

func TestProjectBurndown_NoBudgetMeansNoSeries(t *testing.T) {
	// "No budget configured" is undefined, not a zero budget.
	p := budgetedProject(0)
	entries := []analytics.TimeEntry{entry(20, analytics.Billable, day(2025, time.January, 10))}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.March, 31))

	if points := analytics.ProjectBurndown(p, entries, r); len(points) != 0 {
		t.Errorf("expected empty burndown, got %d points", len(points))
	}
}

func TestProjectBurndown_MonotonicallyNonDecreasing(t *testing.T) {
	p := budgetedProject(500)
	entries := []analytics.TimeEntry{
		entry(12.5, analytics.Billable, day(2025, time.January, 3)),
		entry(7.5, analytics.Internal, day(2025, time.February, 3)),
		entry(30, analytics.Billable, day(2025, time.April, 3)),
	}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.May, 31))

	points := analytics.ProjectBurndown(p, entries, r)
	for i := 1; i < len(points); i++ {
		if points[i].HoursUsed < points[i-1].HoursUsed {
			t.Errorf("burndown decreased at period %d: %v -> %v", i, points[i-1].HoursUsed, points[i].HoursUsed)
		}
	}
}

// =============================================================================
// PROFITABILITY
// =============================================================================

func TestProjectProfitability_ProjectRateMode(t *testing.T) {
	// GIVEN: A flat-rate project at 80/h, an entry carrying member rate 100
	// WHEN: Computing profitability
	// THEN: Revenue uses the project rate, cost the entry's cost rate

	p := budgetedProject(100)
	p.RateMode = analytics.RateByProject
	p.ProjectRate = dec(80)
	entries := []analytics.TimeEntry{entry(10, analytics.Billable, day(2025, time.January, 10))}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.January, 31))

	points := analytics.ProjectProfitability(p, entries, nil, r)
	if points[0].Revenue != 800 {
		t.Errorf("revenue = %v, want 800 (project rate)", points[0].Revenue)
	}
	if points[0].Cost != 500 {
		t.Errorf("cost = %v, want 500", points[0].Cost)
	}
}

func TestProjectProfitability_ExpensesAddToCost(t *testing.T) {
	p := budgetedProject(100)
	entries := []analytics.TimeEntry{entry(10, analytics.Billable, day(2025, time.January, 10))}
	expenses := []analytics.Expense{
		{ProjectID: "proj-1", Amount: dec(200), Date: day(2025, time.January, 12)},
		{ProjectID: "other", Amount: dec(999), Date: day(2025, time.January, 12)},
	}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.January, 31))

	points := analytics.ProjectProfitability(p, entries, expenses, r)
	if points[0].Cost != 700 {
		t.Errorf("cost = %v, want 700 (500 labor + 200 own expense)", points[0].Cost)
	}
}

// =============================================================================
// BILLABLE MIX
// =============================================================================

func TestProjectBillableMix_FiltersZeroHourProjects(t *testing.T) {
	// GIVEN: Two projects, only one with hours in the window
	// WHEN: Building the mix
	// THEN: The idle project does not appear at all

	busy := budgetedProject(100)
	idle := analytics.Project{ID: "proj-2", Name: "Idle"}
	entries := []analytics.TimeEntry{
		entry(6, analytics.Billable, day(2025, time.January, 6)),
		entry(2, analytics.Presales, day(2025, time.January, 7)),
	}

	rows := analytics.ProjectBillableMix([]analytics.Project{busy, idle}, entries)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Billable != 6 || rows[0].Presales != 2 || rows[0].Total != 8 {
		t.Errorf("mix row = %+v", rows[0])
	}
}

func TestProjectBillableMix_SkipsUnknownProjectRefs(t *testing.T) {
	// An entry referencing a deleted project is dropped silently.
	orphan := entry(5, analytics.Billable, day(2025, time.January, 6))
	orphan.ProjectID = "ghost"

	rows := analytics.ProjectBillableMix([]analytics.Project{budgetedProject(100)}, []analytics.TimeEntry{orphan})
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %+v", rows)
	}
}

// =============================================================================
// UNBILLED WORK
// =============================================================================

func TestUnbilledWork_RequiresApprovedBillableUninvoiced(t *testing.T) {
	// GIVEN: Approved billable (counts), submitted billable (excluded even
	//        though billable), locked billable (excluded, already invoiced),
	//        approved internal (excluded), invoiced billable (excluded)
	good := entry(4, analytics.Billable, day(2025, time.January, 6))
	pending := entry(8, analytics.Billable, day(2025, time.January, 7))
	pending.ApprovalStatus = analytics.Submitted
	locked := entry(3, analytics.Billable, day(2025, time.January, 7))
	locked.ApprovalStatus = analytics.Locked
	internal := entry(2, analytics.Internal, day(2025, time.January, 8))
	billed := entry(6, analytics.Billable, day(2025, time.January, 9))
	billed.InvoiceID = "inv-1"

	rows := analytics.UnbilledWork(
		[]analytics.Project{budgetedProject(100)},
		[]analytics.TimeEntry{good, pending, locked, internal, billed},
	)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Hours != 4 {
		t.Errorf("hours = %v, want 4", rows[0].Hours)
	}
	if rows[0].EstimatedRevenue != 400 {
		t.Errorf("estimated revenue = %v, want 400", rows[0].EstimatedRevenue)
	}
}

// Guard against drift between decimal internals and rounded outputs.
func TestBillRateFor(t *testing.T) {
	p := budgetedProject(10)
	e := entry(1, analytics.Billable, day(2025, time.January, 6))

	if got := p.BillRateFor(e); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("member-rate mode rate = %v", got)
	}
	p.RateMode = analytics.RateByProject
	p.ProjectRate = dec(75)
	if got := p.BillRateFor(e); !got.Equal(dec(75)) {
		t.Errorf("project-rate mode rate = %v", got)
	}
}
