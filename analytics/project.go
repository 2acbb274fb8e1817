/*
project.go - Project-level aggregators

PURPOSE:
  Budget burndown, per-period profitability, whole-window billing mix, and
  unbilled-work detection.

REFERENTIAL GAPS:
  Entries referencing an unknown project are skipped silently. The engine
  is a best-effort reporting layer; consistency is the storage layer's job.

SEE ALSO:
  - risk.go: budget pacing built on the same hours-used math
*/
package analytics

import "github.com/shopspring/decimal"

// ProjectBurndown emits cumulative hours consumed against the project
// budget, one point per period. HoursUsed is a running sum across ordered
// periods, not a per-period delta, so it is monotonically non-decreasing.
//
// A project without a positive budget returns an empty list: "no budget
// configured" is undefined burndown, distinct from "zero hours used".
func ProjectBurndown(project Project, entries []TimeEntry, r ReportRange) []BurndownPoint {
	if !project.HasBudget() {
		return nil
	}
	own := entriesForProject(entries, project.ID)
	buckets := PeriodKeys(r)
	points := make([]BurndownPoint, 0, len(buckets))
	cumulative := decimal.Zero
	for _, b := range buckets {
		cumulative = cumulative.Add(TotalHours(entriesIn(own, b)))
		points = append(points, BurndownPoint{
			Period:      b.Label,
			HoursUsed:   RoundHours(cumulative),
			BudgetHours: RoundHours(project.BudgetHours),
			Remaining:   RoundHours(project.BudgetHours.Sub(cumulative)),
		})
	}
	return points
}

// ProjectProfitability emits revenue, cost and profit per period for one
// project. Revenue prices billable hours at the project's effective bill
// rate; cost accrues for every worked hour at the entry's cost rate, and
// approved project expenses in the period add to cost.
func ProjectProfitability(project Project, entries []TimeEntry, expenses []Expense, r ReportRange) []ProfitPoint {
	own := entriesForProject(entries, project.ID)
	buckets := PeriodKeys(r)
	points := make([]ProfitPoint, 0, len(buckets))
	for _, b := range buckets {
		inBucket := entriesIn(own, b)
		revenue := decimal.Zero
		for _, e := range inBucket {
			if e.BillingStatus == Billable {
				revenue = revenue.Add(e.Hours.Mul(project.BillRateFor(e)))
			}
		}
		cost := Cost(inBucket)
		for _, x := range expenses {
			if x.ProjectID == project.ID && b.Contains(x.Date) {
				cost = cost.Add(x.Amount)
			}
		}
		points = append(points, ProfitPoint{
			Period:  b.Label,
			Revenue: RoundCurrency(revenue),
			Cost:    RoundCurrency(cost),
			Profit:  RoundCurrency(revenue.Sub(cost)),
		})
	}
	return points
}

// BillRateFor resolves the hourly rate billable work on this project earns:
// the flat project rate in project-rate mode, otherwise the rate carried on
// the entry (the member's rate).
func (p Project) BillRateFor(e TimeEntry) decimal.Decimal {
	if p.RateMode == RateByProject {
		return p.ProjectRate
	}
	return e.HourlyRate
}

// ProjectBillableMix aggregates hours by billing status per project across
// the whole window, no period bucketing. Projects with zero total hours
// are filtered out entirely, and entries referencing unknown projects are
// skipped.
func ProjectBillableMix(projects []Project, entries []TimeEntry) []ProjectMixRow {
	var rows []ProjectMixRow
	for _, p := range projects {
		own := entriesForProject(entries, p.ID)
		total := TotalHours(own)
		if total.IsZero() {
			continue
		}
		rows = append(rows, ProjectMixRow{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Billable:    RoundHours(HoursWithStatus(own, Billable)),
			Included:    RoundHours(HoursWithStatus(own, Included)),
			NonBillable: RoundHours(HoursWithStatus(own, NonBillable)),
			Internal:    RoundHours(HoursWithStatus(own, Internal)),
			Presales:    RoundHours(HoursWithStatus(own, Presales)),
			Total:       RoundHours(total),
		})
	}
	return rows
}

// UnbilledWork finds approved billable hours not yet attached to an
// invoice, grouped by project. Non-approved or non-billable entries are
// excluded entirely, never zeroed, and projects with nothing unbilled do
// not appear. Estimated revenue prices the hours at each entry's rate.
func UnbilledWork(projects []Project, entries []TimeEntry) []UnbilledRow {
	var rows []UnbilledRow
	for _, p := range projects {
		hours := decimal.Zero
		revenue := decimal.Zero
		for _, e := range entriesForProject(entries, p.ID) {
			if e.BillingStatus != Billable || e.ApprovalStatus != Approved || e.InvoiceID != "" {
				continue
			}
			hours = hours.Add(e.Hours)
			revenue = revenue.Add(e.Hours.Mul(e.HourlyRate))
		}
		if hours.IsZero() {
			continue
		}
		rows = append(rows, UnbilledRow{
			ProjectID:        p.ID,
			ProjectName:      p.Name,
			Hours:            RoundHours(hours),
			EstimatedRevenue: RoundCurrency(revenue),
		})
	}
	return rows
}
