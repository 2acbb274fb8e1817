/*
calendar.go - Period bucketing

PURPOSE:
  Splits a report window into an ordered, gapless sequence of weekly or
  monthly buckets and assigns dates to bucket keys. Every period series in
  the engine is built over these buckets, so boundary behavior lives in
  exactly one place.

BUCKETING RULES:
  Monthly: buckets align to calendar months. The first and last bucket are
  clipped to the report window but keep the full month label.
  Weekly: buckets align to ISO weeks starting Monday, clipped the same way.

  A date strictly outside the window is never assigned to a bucket; callers
  pre-filter by range, the calendar does not clamp.

KEYS AND LABELS:
  Monthly key "2025-01", label "January 2025".
  Weekly key "2025-01-06" (the Monday), label "Week of Jan 06".

SEE ALSO:
  - errors.go: ReportRange validation
  - capacity.go: expected-hours proration over buckets
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD BUCKET
// =============================================================================

// PeriodBucket is one bucket of a report window. Start and End are
// inclusive dates, already clipped to the window.
type PeriodBucket struct {
	Key   string
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether the date falls inside the bucket.
func (b PeriodBucket) Contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(b.Start) && !d.After(b.End)
}

// DaySpan returns the inclusive number of days covered by the bucket.
func (b PeriodBucket) DaySpan() int {
	return int(b.End.Sub(b.Start).Hours()/24) + 1
}

// Weeks returns the bucket's span as fractional weeks, used to prorate
// weekly capacity targets over clipped buckets.
func (b PeriodBucket) Weeks() decimal.Decimal {
	return decimal.NewFromInt(int64(b.DaySpan())).Div(decimal.NewFromInt(7))
}

// =============================================================================
// BUCKET GENERATION
// =============================================================================

// PeriodKeys produces the ordered, gapless bucket sequence for the window.
// Adjacent buckets share no days and leave no gaps; the union of all
// buckets is exactly [From, To].
func PeriodKeys(r ReportRange) []PeriodBucket {
	switch r.Granularity {
	case Weekly:
		return weeklyBuckets(r)
	case Monthly:
		return monthlyBuckets(r)
	}
	return nil
}

// PeriodKeyOf returns the bucket key a date belongs to, independent of any
// window. Pair with ReportRange.Contains before trusting the assignment.
func PeriodKeyOf(d time.Time, g Granularity) string {
	d = dateOnly(d)
	switch g {
	case Weekly:
		return mondayOf(d).Format("2006-01-02")
	case Monthly:
		return d.Format("2006-01")
	}
	return ""
}

// PeriodsBetween returns the window length in periods, used as "weeks in
// range" or "months in range" for expected-hours math.
//
// Weekly returns the real-valued day difference divided by 7 (fractional
// weeks allowed), NOT the bucket count. Monthly returns the number of
// calendar months the window touches, matching the bucket count.
func PeriodsBetween(from, to time.Time, g Granularity) decimal.Decimal {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return decimal.Zero
	}
	switch g {
	case Weekly:
		days := decimal.NewFromInt(int64(to.Sub(from).Hours() / 24))
		return days.Div(decimal.NewFromInt(7))
	case Monthly:
		months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
		return decimal.NewFromInt(int64(months))
	}
	return decimal.Zero
}

func weeklyBuckets(r ReportRange) []PeriodBucket {
	var buckets []PeriodBucket
	cursor := mondayOf(r.From)
	for !cursor.After(r.To) {
		weekEnd := cursor.AddDate(0, 0, 6)
		b := PeriodBucket{
			Key:   cursor.Format("2006-01-02"),
			Label: "Week of " + cursor.Format("Jan 02"),
			Start: maxDate(cursor, r.From),
			End:   minDate(weekEnd, r.To),
		}
		buckets = append(buckets, b)
		cursor = cursor.AddDate(0, 0, 7)
	}
	return buckets
}

func monthlyBuckets(r ReportRange) []PeriodBucket {
	var buckets []PeriodBucket
	cursor := time.Date(r.From.Year(), r.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(r.To) {
		monthEnd := cursor.AddDate(0, 1, 0).AddDate(0, 0, -1)
		b := PeriodBucket{
			Key:   cursor.Format("2006-01"),
			Label: cursor.Format("January 2006"),
			Start: maxDate(cursor, r.From),
			End:   minDate(monthEnd, r.To),
		}
		buckets = append(buckets, b)
		cursor = cursor.AddDate(0, 1, 0)
	}
	return buckets
}

// mondayOf returns the Monday of the ISO week containing d.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
