/*
capacity.go - Expected working hours

PURPOSE:
  Computes how many hours a member is expected to work over a date span,
  given their weekly target, the business-day calendar, and holiday
  exclusions. Holidays are consumed through an interface; computing the
  holiday calendar itself belongs to a collaborator, not this engine.

SEE ALSO:
  - calendar.go: bucket spans this is prorated over
  - employee.go, team.go: utilization consumers
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// HolidayCalendar answers whether a date is a company holiday.
// Implementations live outside the engine (storage layer, fixed lists).
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// NoHolidays is the calendar used when holiday tracking is disabled.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }

// CapacityModel derives expected hours from targets and working days.
type CapacityModel struct {
	Calendar HolidayCalendar
}

// NewCapacityModel returns a model with the given calendar, defaulting to
// no holidays when nil.
func NewCapacityModel(cal HolidayCalendar) CapacityModel {
	if cal == nil {
		cal = NoHolidays{}
	}
	return CapacityModel{Calendar: cal}
}

// IsWorkday reports whether the date is a weekday and not a holiday.
func (cm CapacityModel) IsWorkday(d time.Time) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !cm.Calendar.IsHoliday(d)
}

// BusinessDays counts workdays in the inclusive span [from, to].
func (cm CapacityModel) BusinessDays(from, to time.Time) int {
	from, to = dateOnly(from), dateOnly(to)
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if cm.IsWorkday(d) {
			n++
		}
	}
	return n
}

// ExpectedHours returns the hours a member is expected to work over the
// inclusive span, spreading their effective weekly target across a
// five-day week and excluding weekends and holidays.
func (cm CapacityModel) ExpectedHours(m Member, from, to time.Time) decimal.Decimal {
	days := cm.BusinessDays(from, to)
	if days == 0 {
		return decimal.Zero
	}
	perDay := m.EffectiveWeeklyTarget().Div(decimal.NewFromInt(5))
	return perDay.Mul(decimal.NewFromInt(int64(days)))
}
