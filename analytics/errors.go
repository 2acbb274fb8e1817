/*
errors.go - Input-shape validation for the analytics engine

PURPOSE:
  The engine fails fast on malformed requests (missing range, unknown
  granularity token, reversed range) and never fails on data shape.
  Sparse data, zero budgets, zero targets and dangling foreign keys are
  defined zero/empty-result policies, documented on each aggregator.

USAGE:
  Callers (the API layer) check with errors.Is and translate to 4xx:

    r, err := analytics.NewReportRange(from, to, g)
    if analytics.IsClientError(err) { ... 400 ... }

SEE ALSO:
  - types.go: enum definitions
  - calendar.go: ReportRange consumers
*/
package analytics

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingDateRange is returned when either end of the range is unset.
	ErrMissingDateRange = errors.New("missing date range")

	// ErrInvalidRange is returned when the range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidGranularity is returned for an unknown granularity token.
	// The engine never silently defaults granularity.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrInvalidApprovalFilter is returned for an unknown approval filter token.
	ErrInvalidApprovalFilter = errors.New("invalid approval filter")
)

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingDateRange) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidGranularity) ||
		errors.Is(err, ErrInvalidApprovalFilter)
}

// =============================================================================
// PARSERS - closed-set tokens from the query surface
// =============================================================================

// ParseGranularity validates a granularity token.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
}

// ParseApprovalFilter validates an approval filter token. Empty defaults to
// approved_only, the conservative reporting view.
func ParseApprovalFilter(s string) (ApprovalFilter, error) {
	switch ApprovalFilter(s) {
	case ApprovedOnly:
		return ApprovedOnly, nil
	case AllEntries:
		return AllEntries, nil
	case "":
		return ApprovedOnly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidApprovalFilter, s)
	}
}

// =============================================================================
// REPORT RANGE - the validated (from, to, granularity) window
// =============================================================================

// ReportRange is a validated aggregation window. Construct with
// NewReportRange; aggregators assume From <= To and a known granularity.
// Both bounds are inclusive dates.
type ReportRange struct {
	From        time.Time
	To          time.Time
	Granularity Granularity
}

// NewReportRange validates the window before any aggregation runs.
func NewReportRange(from, to time.Time, g Granularity) (ReportRange, error) {
	if from.IsZero() || to.IsZero() {
		return ReportRange{}, ErrMissingDateRange
	}
	if to.Before(from) {
		return ReportRange{}, fmt.Errorf("%w (%s > %s)", ErrInvalidRange,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if g != Weekly && g != Monthly {
		return ReportRange{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
	}
	return ReportRange{From: dateOnly(from), To: dateOnly(to), Granularity: g}, nil
}

// Contains reports whether the date falls inside the inclusive window.
func (r ReportRange) Contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(r.From) && !d.After(r.To)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
