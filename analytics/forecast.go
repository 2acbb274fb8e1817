/*
forecast.go - Short-horizon projections

PURPOSE:
  Three forward-looking reductions:
  1. Moving-average continuation of a financial period series.
  2. Staffing-based near-term revenue from resource-allocation intervals.
  3. The revenue bridge: planned vs. actual vs. breakeven.

DEGRADATION POLICY:
  Forecasts degrade to empty/zero with sparse data rather than guessing:
  fewer than 3 historical points produces no forecast at all, and a
  breakeven over zero months of cost data is 0.

SEE ALSO:
  - company.go: CompanyFinancials produces the history these continue
*/
package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// movingAverageWindow is how many trailing points feed the forecast mean.
const movingAverageWindow = 3

// MovingAverageForecast continues a financial series for the next horizon
// periods. Each forecast field is the arithmetic mean of the last 3
// historical points for that field: a flat projection, not a trend
// extrapolation. Every forecast row is tagged IsForecast.
//
// Fewer than 3 historical points returns an empty list; no forecast beats
// an unreliable one.
func MovingAverageForecast(history []FinancialPoint, horizon int) []FinancialPoint {
	if len(history) < movingAverageWindow || horizon <= 0 {
		return nil
	}
	tail := history[len(history)-movingAverageWindow:]
	revenue := meanOf(tail, func(p FinancialPoint) float64 { return p.Revenue })
	cost := meanOf(tail, func(p FinancialPoint) float64 { return p.TotalCost })
	margin := meanOf(tail, func(p FinancialPoint) float64 { return p.ContributionMargin })

	labels := continuationLabels(history[len(history)-1].Period, horizon)
	points := make([]FinancialPoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		points = append(points, FinancialPoint{
			Period:             labels[i],
			Revenue:            revenue,
			TotalCost:          cost,
			ContributionMargin: margin,
			IsForecast:         true,
		})
	}
	return points
}

func meanOf(points []FinancialPoint, field func(FinancialPoint) float64) float64 {
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(decimal.NewFromFloat(field(p)))
	}
	return RoundCurrency(sum.Div(decimal.NewFromInt(int64(len(points)))))
}

// continuationLabels extends the series' period labels. Monthly labels
// ("January 2006") continue as month names; anything else falls back to
// ordinal forecast labels.
func continuationLabels(last string, horizon int) []string {
	labels := make([]string, horizon)
	if t, err := time.Parse("January 2006", last); err == nil {
		for i := range labels {
			labels[i] = t.AddDate(0, i+1, 0).Format("January 2006")
		}
		return labels
	}
	for i := range labels {
		labels[i] = fmt.Sprintf("Forecast +%d", i+1)
	}
	return labels
}

// =============================================================================
// STAFFING FORECAST
// =============================================================================

// StaffingRevenueForecast sums expected revenue from active (non-completed)
// resource allocations over the rolling window of windowDays days starting
// at today, inclusive. Each allocation contributes
// hoursPerDay * billRate * overlap-day-count: proration is by whole-day
// overlap only, never partial days. The result is a single scalar.
//
// The effective bill rate is the allocation's own rate when set; otherwise
// the project's flat rate in project-rate mode, else the assigned member's
// hourly rate. Allocations whose rate cannot be resolved are skipped.
func StaffingRevenueForecast(allocations []ResourceAllocation, projects []Project, members []Member, today time.Time, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	windowStart := dateOnly(today)
	windowEnd := windowStart.AddDate(0, 0, windowDays-1)

	projectByID := make(map[string]Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}
	memberByID := make(map[string]Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	total := decimal.Zero
	for _, a := range allocations {
		if a.Status == Completed {
			continue
		}
		overlap := overlapDays(dateOnly(a.StartDate), dateOnly(a.EndDate), windowStart, windowEnd)
		if overlap <= 0 {
			continue
		}
		rate, ok := allocationRate(a, projectByID, memberByID)
		if !ok {
			continue
		}
		total = total.Add(a.HoursPerDay.Mul(rate).Mul(decimal.NewFromInt(int64(overlap))))
	}
	return RoundCurrency(total)
}

func allocationRate(a ResourceAllocation, projects map[string]Project, members map[string]Member) (decimal.Decimal, bool) {
	if a.BillRate.IsPositive() {
		return a.BillRate, true
	}
	if p, ok := projects[a.ProjectID]; ok && p.RateMode == RateByProject {
		return p.ProjectRate, true
	}
	if m, ok := members[a.UserID]; ok {
		return m.HourlyRate, true
	}
	return decimal.Zero, false
}

// overlapDays counts whole days in the intersection of two inclusive spans.
func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := maxDate(aStart, bStart)
	end := minDate(aEnd, bEnd)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// =============================================================================
// REVENUE BRIDGE
// =============================================================================

// BridgeInput bundles everything the revenue bridge reduces over.
type BridgeInput struct {
	Entries         []TimeEntry
	ProjectExpenses []Expense
	CompanyExpenses []Expense
	Allocations     []ResourceAllocation
	Projects        []Project
	Members         []Member

	Today          time.Time
	ForecastDays   int // staffing window, default 30
	TrailingMonths int // actual-revenue lookback, default 6
}

// BuildRevenueBridge reconciles staffed forward revenue, trailing actual
// monthly revenue from billable entries, and a monthly breakeven line: the
// arithmetic mean of total monthly cost across however many months of cost
// data exist (zero months means breakeven 0). A pure reduction; the only
// forecasting is the averaging already described.
func BuildRevenueBridge(in BridgeInput) RevenueBridge {
	forecastDays := in.ForecastDays
	if forecastDays <= 0 {
		forecastDays = 30
	}
	trailing := in.TrailingMonths
	if trailing <= 0 {
		trailing = 6
	}

	planned := StaffingRevenueForecast(in.Allocations, in.Projects, in.Members, in.Today, forecastDays)

	// Trailing actual revenue, one point per month ending with the current one.
	monthEnd := dateOnly(in.Today)
	monthStart := time.Date(monthEnd.Year(), monthEnd.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(trailing - 1), 0)
	var actual []FinancialPoint
	if r, err := NewReportRange(monthStart, monthEnd, Monthly); err == nil {
		for _, b := range PeriodKeys(r) {
			inBucket := entriesIn(in.Entries, b)
			actual = append(actual, FinancialPoint{
				Period:  b.Label,
				Revenue: RoundCurrency(Revenue(inBucket)),
			})
		}
	}

	return RevenueBridge{
		PlannedRevenue:   planned,
		ActualMonthly:    actual,
		MonthlyBreakeven: monthlyBreakeven(in.Entries, in.ProjectExpenses, in.CompanyExpenses),
	}
}

// monthlyBreakeven averages total cost (labor + all expense categories)
// over every month that has any cost data.
func monthlyBreakeven(entries []TimeEntry, projectExpenses, companyExpenses []Expense) float64 {
	byMonth := make(map[string]decimal.Decimal)
	for _, e := range entries {
		key := PeriodKeyOf(e.Date, Monthly)
		byMonth[key] = byMonth[key].Add(e.Hours.Mul(e.CostRate))
	}
	for _, x := range projectExpenses {
		key := PeriodKeyOf(x.Date, Monthly)
		byMonth[key] = byMonth[key].Add(x.Amount)
	}
	for _, x := range companyExpenses {
		key := PeriodKeyOf(x.Date, Monthly)
		byMonth[key] = byMonth[key].Add(x.Amount)
	}
	if len(byMonth) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range byMonth {
		sum = sum.Add(v)
	}
	return RoundCurrency(sum.Div(decimal.NewFromInt(int64(len(byMonth)))))
}
