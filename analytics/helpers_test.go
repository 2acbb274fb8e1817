package analytics_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
)

// =============================================================================
// SHARED TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// entry builds an approved entry at hourlyRate 100 / costRate 50, the
// rates used across the end-to-end scenarios.
func entry(hours float64, status analytics.BillingStatus, date time.Time) analytics.TimeEntry {
	return analytics.TimeEntry{
		Hours:          dec(hours),
		Date:           date,
		BillingStatus:  status,
		ApprovalStatus: analytics.Approved,
		UserID:         "mem-1",
		ProjectID:      "proj-1",
		HourlyRate:     dec(100),
		CostRate:       dec(50),
	}
}

func monthlyRange(from, to time.Time) analytics.ReportRange {
	r, err := analytics.NewReportRange(from, to, analytics.Monthly)
	if err != nil {
		panic(err)
	}
	return r
}

func weeklyRange(from, to time.Time) analytics.ReportRange {
	r, err := analytics.NewReportRange(from, to, analytics.Weekly)
	if err != nil {
		panic(err)
	}
	return r
}

func member(hourlyRate, costRate, weeklyTarget float64) analytics.Member {
	return analytics.Member{
		ID:           "mem-1",
		Name:         "Dana",
		HourlyRate:   dec(hourlyRate),
		CostRate:     dec(costRate),
		WeeklyTarget: dec(weeklyTarget),
	}
}

func budgetedProject(budget float64) analytics.Project {
	return analytics.Project{
		ID:          "proj-1",
		Name:        "Atlas",
		Billable:    true,
		Active:      true,
		BudgetHours: dec(budget),
		RateMode:    analytics.RateByMember,
	}
}
