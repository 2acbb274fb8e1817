package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
)

// =============================================================================
// FORMULAS
// =============================================================================

func TestRevenue_CountsOnlyBillableEntries(t *testing.T) {
	entries := []analytics.TimeEntry{
		entry(10, analytics.Billable, day(2025, time.January, 6)),
		entry(5, analytics.Internal, day(2025, time.January, 7)),
		entry(3, analytics.NonBillable, day(2025, time.January, 8)),
	}

	if got := analytics.Revenue(entries); !got.Equal(dec(1000)) {
		t.Errorf("revenue = %v, want 1000", got)
	}
	// Cost accrues for every worked hour regardless of billing status.
	if got := analytics.Cost(entries); !got.Equal(dec(900)) {
		t.Errorf("cost = %v, want 900", got)
	}
	if got := analytics.Profit(entries); !got.Equal(dec(100)) {
		t.Errorf("profit = %v, want 100", got)
	}
}

func TestRatios_ZeroDenominatorGuards(t *testing.T) {
	// Every ratio returns a documented 0 instead of NaN/Inf.
	if got := analytics.UtilizationPercent(dec(10), decimal.Zero); !got.IsZero() {
		t.Errorf("utilization with zero expected = %v, want 0", got)
	}
	if got := analytics.MarginPercent(dec(10), decimal.Zero); !got.IsZero() {
		t.Errorf("margin with zero revenue = %v, want 0", got)
	}
	if got := analytics.RatioPercent(dec(1), decimal.Zero); !got.IsZero() {
		t.Errorf("ratio with zero whole = %v, want 0", got)
	}
}

// =============================================================================
// ROUNDING - half away from zero on the scaled value
// =============================================================================

func TestRounding_HalfAwayFromZero(t *testing.T) {
	if got := analytics.RoundHours(dec(2.25)); got != 2.3 {
		t.Errorf("RoundHours(2.25) = %v, want 2.3", got)
	}
	if got := analytics.RoundHours(dec(-2.25)); got != -2.3 {
		t.Errorf("RoundHours(-2.25) = %v, want -2.3", got)
	}
	if got := analytics.RoundCurrency(dec(10.005)); got != 10.01 {
		t.Errorf("RoundCurrency(10.005) = %v, want 10.01", got)
	}
	if got := analytics.RoundCurrency(dec(-10.005)); got != -10.01 {
		t.Errorf("RoundCurrency(-10.005) = %v, want -10.01", got)
	}
	if got := analytics.RoundPercent(dec(66.666)); got != 66.7 {
		t.Errorf("RoundPercent(66.666) = %v, want 66.7", got)
	}
}

func TestClampPercent(t *testing.T) {
	if got := analytics.ClampPercent(dec(-4)); !got.IsZero() {
		t.Errorf("clamp(-4) = %v", got)
	}
	if got := analytics.ClampPercent(dec(140)); !got.Equal(dec(100)) {
		t.Errorf("clamp(140) = %v", got)
	}
	if got := analytics.ClampPercent(dec(55)); !got.Equal(dec(55)) {
		t.Errorf("clamp(55) = %v", got)
	}
}

// =============================================================================
// CAPACITY
// =============================================================================

type fixedHolidays []time.Time

func (h fixedHolidays) IsHoliday(d time.Time) bool {
	for _, x := range h {
		if x.Equal(d) {
			return true
		}
	}
	return false
}

func TestCapacity_BusinessDaysExcludeWeekendsAndHolidays(t *testing.T) {
	// GIVEN: The week of Jan 6-12 2025 with a holiday on Wednesday Jan 8
	// WHEN: Counting business days
	// THEN: 4 (Mon, Tue, Thu, Fri)

	cm := analytics.NewCapacityModel(fixedHolidays{day(2025, time.January, 8)})
	got := cm.BusinessDays(day(2025, time.January, 6), day(2025, time.January, 12))
	if got != 4 {
		t.Errorf("business days = %d, want 4", got)
	}
}

func TestCapacity_ExpectedHoursUsesCapacityFloor(t *testing.T) {
	// GIVEN: A member with no weekly target configured
	// WHEN: Computing expected hours for one full work week
	// THEN: The standard 40h week applies (8h/day * 5 days)

	cm := analytics.NewCapacityModel(nil)
	m := member(100, 50, 0)
	got := cm.ExpectedHours(m, day(2025, time.January, 6), day(2025, time.January, 10))
	if !got.Equal(dec(40)) {
		t.Errorf("expected hours = %v, want 40", got)
	}
}
