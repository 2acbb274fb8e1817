/*
employee.go - Employee-level aggregators

PURPOSE:
  Per-member reports: how hours split across billing statuses, how worked
  hours track the weekly target over time, and what the member's work
  earns versus costs.

SPARSITY POLICY:
  The time distribution is a snapshot: zero entries means an empty list.
  The trend series are gapless: a period with no entries still appears,
  with zero-valued metrics.

SEE ALSO:
  - formulas.go: the per-record math
  - team.go: the same formulas rolled up per member
*/
package analytics

// EmployeeTimeDistribution groups an entry set by billing status and sums
// hours per status. No period bucketing; statuses with zero hours are
// omitted, and zero entries yields an empty result.
func EmployeeTimeDistribution(entries []TimeEntry) []StatusHours {
	var out []StatusHours
	for _, status := range BillingStatuses {
		hours := HoursWithStatus(entries, status)
		if hours.IsZero() {
			continue
		}
		out = append(out, StatusHours{Status: status, Hours: RoundHours(hours)})
	}
	return out
}

// EmployeeUtilizationTrend emits one point per period comparing actual
// hours against the member's expected hours (weeklyTarget * weeks in the
// bucket).
//
// A weekly target of 0 forces both utilizations to 0 for every period.
// This is a guard, not a division by near-zero: the capacity floor in
// Member.EffectiveWeeklyTarget is deliberately NOT applied here, so a
// member configured without a target never shows phantom utilization.
func EmployeeUtilizationTrend(member Member, entries []TimeEntry, r ReportRange) []UtilizationPoint {
	buckets := PeriodKeys(r)
	points := make([]UtilizationPoint, 0, len(buckets))
	for _, b := range buckets {
		inBucket := entriesIn(entries, b)
		expected := member.WeeklyTarget.Mul(b.Weeks())
		actual := TotalHours(inBucket)
		billable := HoursWithStatus(inBucket, Billable)
		points = append(points, UtilizationPoint{
			Period:       b.Label,
			BillableUtil: RoundPercent(UtilizationPercent(billable, expected)),
			TotalUtil:    RoundPercent(UtilizationPercent(actual, expected)),
			Target:       RoundHours(expected),
		})
	}
	return points
}

// EmployeeProfitability emits one point per period. Revenue counts only
// billable entries at the member's hourly rate; cost counts ALL entries at
// the member's cost rate.
func EmployeeProfitability(member Member, entries []TimeEntry, r ReportRange) []ProfitPoint {
	buckets := PeriodKeys(r)
	points := make([]ProfitPoint, 0, len(buckets))
	for _, b := range buckets {
		inBucket := entriesIn(entries, b)
		revenue := HoursWithStatus(inBucket, Billable).Mul(member.HourlyRate)
		cost := TotalHours(inBucket).Mul(member.CostRate)
		points = append(points, ProfitPoint{
			Period:  b.Label,
			Revenue: RoundCurrency(revenue),
			Cost:    RoundCurrency(cost),
			Profit:  RoundCurrency(revenue.Sub(cost)),
		})
	}
	return points
}

// entriesIn filters entries to those dated inside the bucket.
func entriesIn(entries []TimeEntry, b PeriodBucket) []TimeEntry {
	var out []TimeEntry
	for _, e := range entries {
		if b.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// entriesForUser filters entries to a single member.
func entriesForUser(entries []TimeEntry, userID string) []TimeEntry {
	var out []TimeEntry
	for _, e := range entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// entriesForProject filters entries to a single project.
func entriesForProject(entries []TimeEntry, projectID string) []TimeEntry {
	var out []TimeEntry
	for _, e := range entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// FilterByApproval narrows entries by workflow state. The approved_only
// view keeps approved and locked entries.
func FilterByApproval(entries []TimeEntry, f ApprovalFilter) []TimeEntry {
	if f == AllEntries {
		return entries
	}
	var out []TimeEntry
	for _, e := range entries {
		if f.Matches(e.ApprovalStatus) {
			out = append(out, e)
		}
	}
	return out
}
