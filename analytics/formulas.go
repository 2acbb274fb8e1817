/*
formulas.go - Financial formulas and the rounding policy

PURPOSE:
  The pure per-record formulas every aggregator composes: revenue, cost,
  profit, utilization %, margin %. Also the single home of the rounding
  rule, so a number is rounded exactly once, where it crosses a component
  boundary, and displayed parts stay additive with their totals.

FORMULAS:
  revenue = sum(hours * hourlyRate) over billable entries only
  cost    = sum(hours * costRate) over ALL entries (cost accrues for any
            worked hour, whatever its billing status)
  profit  = revenue - cost
  utilization% = actual / expected * 100, 0 when expected <= 0
  margin%      = profit / revenue * 100,  0 when revenue  <= 0

ROUNDING POLICY:
  Hours and percentages: 1 decimal place. Currency: 2 decimal places.
  Half-away-from-zero on the scaled value (decimal.Round's rule), applied
  only through the Round* helpers below.

SEE ALSO:
  - types.go: entry/enum definitions
  - employee.go .. company.go: callers
*/
package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// =============================================================================
// PER-RECORD FORMULAS
// =============================================================================

// Revenue sums hours * hourlyRate over billable entries.
func Revenue(entries []TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.BillingStatus == Billable {
			total = total.Add(e.Hours.Mul(e.HourlyRate))
		}
	}
	return total
}

// Cost sums hours * costRate over all entries regardless of billing status.
func Cost(entries []TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours.Mul(e.CostRate))
	}
	return total
}

// Profit is revenue minus cost.
func Profit(entries []TimeEntry) decimal.Decimal {
	return Revenue(entries).Sub(Cost(entries))
}

// TotalHours sums hours over all entries.
func TotalHours(entries []TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}

// HoursWithStatus sums hours over entries with the given billing status.
func HoursWithStatus(entries []TimeEntry, s BillingStatus) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.BillingStatus == s {
			total = total.Add(e.Hours)
		}
	}
	return total
}

// =============================================================================
// RATIOS - always guarded, never NaN/Inf
// =============================================================================

// UtilizationPercent is actual/expected * 100, 0 when expected <= 0.
func UtilizationPercent(actual, expected decimal.Decimal) decimal.Decimal {
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return actual.Div(expected).Mul(hundred)
}

// MarginPercent is profit/revenue * 100, 0 when revenue <= 0.
func MarginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred)
}

// RatioPercent is part/whole * 100, 0 when whole <= 0.
func RatioPercent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ClampPercent bounds a percentage into [0, 100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// =============================================================================
// ROUNDING - the only place the engine converts decimal to float64
// =============================================================================

// RoundHours rounds an hour quantity to 1 decimal place.
func RoundHours(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// RoundPercent rounds a percentage to 1 decimal place.
func RoundPercent(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// RoundCurrency rounds a money amount to 2 decimal places.
func RoundCurrency(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
