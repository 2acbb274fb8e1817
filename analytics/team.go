/*
team.go - Team-level aggregators

PURPOSE:
  Per-member rollups over a shared window: one row per member per call,
  preserving the caller's member order. Unlike the status breakdowns,
  these rollups are never sparse: a member with zero matching entries
  still appears, with zero values.

SEE ALSO:
  - employee.go: the per-member formulas these compose
  - capacity.go: the business-day model behind TeamCapacity
*/
package analytics

import "time"

// TeamUtilization emits one utilization row per member over the whole
// window. Expected hours are weeklyTarget * periods-in-range (fractional
// weeks for the weekly view), with the same zero-target guard as the
// employee trend.
func TeamUtilization(members []Member, entries []TimeEntry, r ReportRange) []MemberUtilizationRow {
	weeks := PeriodsBetween(r.From, r.To, Weekly)
	rows := make([]MemberUtilizationRow, 0, len(members))
	for _, m := range members {
		own := entriesForUser(entries, m.ID)
		expected := m.WeeklyTarget.Mul(weeks)
		actual := TotalHours(own)
		billable := HoursWithStatus(own, Billable)
		rows = append(rows, MemberUtilizationRow{
			MemberID:      m.ID,
			MemberName:    m.Name,
			ActualHours:   RoundHours(actual),
			ExpectedHours: RoundHours(expected),
			BillableUtil:  RoundPercent(UtilizationPercent(billable, expected)),
			TotalUtil:     RoundPercent(UtilizationPercent(actual, expected)),
		})
	}
	return rows
}

// TeamCapacity emits one utilization row per member with expected hours
// derived from the capacity model: effective weekly target spread over the
// window's business days, weekends and calendar holidays excluded. Unlike
// TeamUtilization, the full-time floor applies to members with no target
// configured.
func TeamCapacity(members []Member, entries []TimeEntry, cm CapacityModel, from, to time.Time) []MemberUtilizationRow {
	rows := make([]MemberUtilizationRow, 0, len(members))
	for _, m := range members {
		own := entriesForUser(entries, m.ID)
		expected := cm.ExpectedHours(m, from, to)
		actual := TotalHours(own)
		billable := HoursWithStatus(own, Billable)
		rows = append(rows, MemberUtilizationRow{
			MemberID:      m.ID,
			MemberName:    m.Name,
			ActualHours:   RoundHours(actual),
			ExpectedHours: RoundHours(expected),
			BillableUtil:  RoundPercent(UtilizationPercent(billable, expected)),
			TotalUtil:     RoundPercent(UtilizationPercent(actual, expected)),
		})
	}
	return rows
}

// TeamTimeMix emits one row per member with hours broken down by billing
// status across the whole window.
func TeamTimeMix(members []Member, entries []TimeEntry) []MemberTimeMixRow {
	rows := make([]MemberTimeMixRow, 0, len(members))
	for _, m := range members {
		own := entriesForUser(entries, m.ID)
		rows = append(rows, MemberTimeMixRow{
			MemberID:    m.ID,
			MemberName:  m.Name,
			Billable:    RoundHours(HoursWithStatus(own, Billable)),
			Included:    RoundHours(HoursWithStatus(own, Included)),
			NonBillable: RoundHours(HoursWithStatus(own, NonBillable)),
			Internal:    RoundHours(HoursWithStatus(own, Internal)),
			Presales:    RoundHours(HoursWithStatus(own, Presales)),
			Total:       RoundHours(TotalHours(own)),
		})
	}
	return rows
}
