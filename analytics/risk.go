/*
risk.go - Budget risk classification

PURPOSE:
  Threshold-based risk flags over project budgets: the budget-velocity
  scatter (is the budget burning faster than the calendar?) and the red
  list (absolute consumption alarm).

THRESHOLDS:
  Over-pace uses strict ">": consuming budget exactly as fast as time
  elapses is on-pace. The red list uses inclusive ">= 90%": hitting 90%
  of budget already warrants attention. The two thresholds measure
  different things (relative pacing vs. absolute risk) and are
  intentionally not the same comparison.

SEE ALSO:
  - project.go: burndown over the same hours-used math
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// redListThreshold is the budget consumption ratio that puts a project on
// the red list.
var redListThreshold = decimal.NewFromFloat(0.90)

// BudgetVelocity builds one scatter point per project comparing budget
// consumed against schedule elapsed, both clamped to [0, 100]. Projects
// without a positive budget or without both start and end dates are
// skipped: pacing is undefined for them. The reference date is injected
// so reports are deterministic.
func BudgetVelocity(projects []Project, entries []TimeEntry, today time.Time) []VelocityPoint {
	today = dateOnly(today)
	var points []VelocityPoint
	for _, p := range projects {
		if !p.HasBudget() || p.StartDate == nil || p.EndDate == nil {
			continue
		}
		start, end := dateOnly(*p.StartDate), dateOnly(*p.EndDate)
		span := end.Sub(start).Hours() / 24
		if span <= 0 {
			continue
		}
		elapsed := decimal.NewFromFloat(today.Sub(start).Hours() / 24).
			Div(decimal.NewFromFloat(span)).Mul(hundred)
		elapsed = ClampPercent(elapsed)

		used := TotalHours(entriesForProject(entries, p.ID))
		consumed := ClampPercent(used.Div(p.BudgetHours).Mul(hundred))

		points = append(points, VelocityPoint{
			ProjectID:      p.ID,
			ProjectName:    p.Name,
			TimeElapsedPct: RoundPercent(elapsed),
			BudgetUsedPct:  RoundPercent(consumed),
			OverPace:       consumed.GreaterThan(elapsed),
		})
	}
	return points
}

// RedList returns projects whose hours consumed reached 90% of budget
// (inclusive). Each row reports the overrun beyond budget (0 while still
// under) and the project's current margin. Rows are emitted in project
// input order; display sorting is the caller's concern.
func RedList(projects []Project, entries []TimeEntry) []RedListRow {
	var rows []RedListRow
	for _, p := range projects {
		if !p.HasBudget() {
			continue
		}
		own := entriesForProject(entries, p.ID)
		used := TotalHours(own)
		ratio := used.Div(p.BudgetHours)
		if ratio.LessThan(redListThreshold) {
			continue
		}
		overrun := used.Sub(p.BudgetHours)
		if overrun.IsNegative() {
			overrun = decimal.Zero
		}
		revenue := decimal.Zero
		for _, e := range own {
			if e.BillingStatus == Billable {
				revenue = revenue.Add(e.Hours.Mul(p.BillRateFor(e)))
			}
		}
		profit := revenue.Sub(Cost(own))
		rows = append(rows, RedListRow{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			BudgetHours: RoundHours(p.BudgetHours),
			HoursUsed:   RoundHours(used),
			UsedPct:     RoundPercent(ratio.Mul(hundred)),
			Overrun:     RoundHours(overrun),
			MarginPct:   RoundPercent(MarginPercent(profit, revenue)),
		})
	}
	return rows
}
