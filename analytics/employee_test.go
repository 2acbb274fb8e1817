package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
)

// =============================================================================
// TIME DISTRIBUTION
// =============================================================================

func TestEmployeeTimeDistribution_GroupsByBillingStatus(t *testing.T) {
	// GIVEN: 5h billable, 3h internal, 2h billable
	// WHEN: Building the distribution snapshot
	// THEN: {billable: 7, internal: 3}

	entries := []analytics.TimeEntry{
		entry(5, analytics.Billable, day(2025, time.January, 6)),
		entry(3, analytics.Internal, day(2025, time.January, 7)),
		entry(2, analytics.Billable, day(2025, time.January, 8)),
	}

	dist := analytics.EmployeeTimeDistribution(entries)
	if len(dist) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(dist))
	}
	if dist[0].Status != analytics.Billable || dist[0].Hours != 7 {
		t.Errorf("billable row = %+v", dist[0])
	}
	if dist[1].Status != analytics.Internal || dist[1].Hours != 3 {
		t.Errorf("internal row = %+v", dist[1])
	}
}

func TestEmployeeTimeDistribution_EmptyInputIsEmptyList(t *testing.T) {
	// Snapshot breakdowns are sparse: no entries means no rows, not
	// zero-filled rows.
	if dist := analytics.EmployeeTimeDistribution(nil); len(dist) != 0 {
		t.Errorf("expected empty distribution, got %+v", dist)
	}
}

// =============================================================================
// UTILIZATION TREND
// =============================================================================

func TestEmployeeUtilizationTrend_ZeroTargetNeverNaN(t *testing.T) {
	// GIVEN: A member with weeklyTarget 0 but real worked hours
	// WHEN: Computing the trend
	// THEN: Both utilizations are exactly 0 for every period

	m := member(100, 50, 0)
	entries := []analytics.TimeEntry{
		entry(30, analytics.Billable, day(2025, time.January, 10)),
		entry(10, analytics.Internal, day(2025, time.February, 10)),
	}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.March, 31))

	points := analytics.EmployeeUtilizationTrend(m, entries, r)
	if len(points) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(points))
	}
	for _, p := range points {
		if p.BillableUtil != 0 || p.TotalUtil != 0 {
			t.Errorf("period %s: utilization %v/%v, want 0/0", p.Period, p.BillableUtil, p.TotalUtil)
		}
	}
}

func TestEmployeeUtilizationTrend_EmptyPeriodsStillAppear(t *testing.T) {
	// GIVEN: Entries only in January of a three-month window
	// WHEN: Computing the trend
	// THEN: February and March appear with zero utilization (gapless)

	m := member(100, 50, 40)
	entries := []analytics.TimeEntry{entry(40, analytics.Billable, day(2025, time.January, 15))}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.March, 31))

	points := analytics.EmployeeUtilizationTrend(m, entries, r)
	if len(points) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(points))
	}
	if points[0].TotalUtil == 0 {
		t.Error("January should show utilization")
	}
	if points[1].TotalUtil != 0 || points[2].TotalUtil != 0 {
		t.Errorf("empty months should be zero: %v %v", points[1].TotalUtil, points[2].TotalUtil)
	}
	// Target reflects the prorated expected hours, even for empty months.
	if points[1].Target == 0 {
		t.Error("February target should be positive")
	}
}

// =============================================================================
// PROFITABILITY
// =============================================================================

func TestEmployeeProfitability_OneMonth(t *testing.T) {
	// GIVEN: Member at 100/50, 10h billable + 5h internal in one month
	// WHEN: Computing profitability
	// THEN: revenue=1000, cost=750, profit=250

	m := member(100, 50, 40)
	entries := []analytics.TimeEntry{
		entry(10, analytics.Billable, day(2025, time.January, 10)),
		entry(5, analytics.Internal, day(2025, time.January, 20)),
	}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.January, 31))

	points := analytics.EmployeeProfitability(m, entries, r)
	if len(points) != 1 {
		t.Fatalf("expected 1 period, got %d", len(points))
	}
	p := points[0]
	if p.Revenue != 1000 || p.Cost != 750 || p.Profit != 250 {
		t.Errorf("got revenue=%v cost=%v profit=%v, want 1000/750/250", p.Revenue, p.Cost, p.Profit)
	}
}

func TestEmployeeProfitability_PeriodSumMatchesDirectTotal(t *testing.T) {
	// Revenue summed across the period series must equal revenue computed
	// directly over the whole window: no double-counting or omission at
	// period boundaries.

	m := member(100, 50, 40)
	entries := []analytics.TimeEntry{
		entry(8, analytics.Billable, day(2025, time.January, 31)),
		entry(6, analytics.Billable, day(2025, time.February, 1)),
		entry(4, analytics.Billable, day(2025, time.March, 31)),
		entry(5, analytics.Internal, day(2025, time.February, 14)),
	}
	r := monthlyRange(day(2025, time.January, 1), day(2025, time.March, 31))

	points := analytics.EmployeeProfitability(m, entries, r)
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(dec(p.Revenue))
	}
	direct := analytics.Revenue(entries)
	if !sum.Equal(direct) {
		t.Errorf("period sum %v != direct revenue %v", sum, direct)
	}
}

// =============================================================================
// APPROVAL FILTER
// =============================================================================

func TestFilterByApproval(t *testing.T) {
	e1 := entry(1, analytics.Billable, day(2025, time.January, 6))
	e2 := entry(2, analytics.Billable, day(2025, time.January, 7))
	e2.ApprovalStatus = analytics.Draft
	e3 := entry(3, analytics.Billable, day(2025, time.January, 8))
	e3.ApprovalStatus = analytics.Locked

	got := analytics.FilterByApproval([]analytics.TimeEntry{e1, e2, e3}, analytics.ApprovedOnly)
	if len(got) != 2 {
		t.Fatalf("approved_only kept %d entries, want 2 (approved + locked)", len(got))
	}
	all := analytics.FilterByApproval([]analytics.TimeEntry{e1, e2, e3}, analytics.AllEntries)
	if len(all) != 3 {
		t.Errorf("all filter kept %d entries, want 3", len(all))
	}
}
