/*
Package analytics is the aggregation and forecasting engine for the
reporting backend.

PURPOSE:
  Turns raw operational records (time entries, expenses, projects, members,
  resource allocations, invoices) into period-bucketed business metrics:
  utilization, profitability, burndown, billing mix, overhead, risk flags,
  and short-horizon forecasts.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entity snapshots: TimeEntry, Member, Project, Expense, ResourceAllocation, Invoice
  - Closed enums: BillingStatus, ApprovalStatus, Granularity, RateMode, ...
  - Output points: one concrete struct per report series, JSON-ready

DESIGN PRINCIPLES:
  1. Purity: every function is a total mapping from input slices to output
     slices. No I/O, no clock reads, no mutation of inputs.
  2. Precision: decimal.Decimal for all hour/money math; float64 appears
     only on output fields, after the centralized rounding in formulas.go.
  3. Closed enums: typed string sets with parse functions and exhaustive
     switches, so a new billing status cannot silently fall through.
  4. Injectable time: anything that needs "today" takes it as a parameter.

SEE ALSO:
  - calendar.go: period bucketing
  - formulas.go: financial formulas and rounding policy
  - employee.go, team.go, project.go, company.go: aggregators
  - risk.go, forecast.go: risk flags and projections
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOSED ENUMS
// =============================================================================

// BillingStatus classifies a time entry's invoiceability.
type BillingStatus string

const (
	Billable    BillingStatus = "billable"
	Included    BillingStatus = "included" // billable work bundled into a fixed fee
	NonBillable BillingStatus = "non_billable"
	Internal    BillingStatus = "internal"
	Presales    BillingStatus = "presales"
)

// BillingStatuses lists every status in canonical display order.
// Aggregators that break hours down by status iterate this, never a map,
// so output ordering is stable.
var BillingStatuses = []BillingStatus{Billable, Included, NonBillable, Internal, Presales}

// ApprovalStatus is the workflow state of a time entry or expense.
type ApprovalStatus string

const (
	Draft     ApprovalStatus = "draft"
	Submitted ApprovalStatus = "submitted"
	Approved  ApprovalStatus = "approved"
	Locked    ApprovalStatus = "locked"
	Rejected  ApprovalStatus = "rejected"
)

// Granularity is the period-bucketing resolution.
type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ApprovalFilter narrows entries by workflow state before aggregation.
type ApprovalFilter string

const (
	ApprovedOnly ApprovalFilter = "approved_only" // approved or locked
	AllEntries   ApprovalFilter = "all"
)

// Matches reports whether an entry's approval status passes the filter.
func (f ApprovalFilter) Matches(s ApprovalStatus) bool {
	switch f {
	case ApprovedOnly:
		return s == Approved || s == Locked
	default:
		return true
	}
}

// RateMode selects how billable work on a project is priced.
type RateMode string

const (
	RateByMember  RateMode = "member"  // each member's own hourly rate
	RateByProject RateMode = "project" // one flat project rate
)

// AllocationStatus is the lifecycle state of a resource allocation.
type AllocationStatus string

const (
	Tentative AllocationStatus = "tentative"
	Confirmed AllocationStatus = "confirmed"
	Completed AllocationStatus = "completed"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"
)

// ExpenseFrequency is how often a recurring company expense repeats.
type ExpenseFrequency string

const (
	FreqMonthly   ExpenseFrequency = "monthly"
	FreqQuarterly ExpenseFrequency = "quarterly"
	FreqYearly    ExpenseFrequency = "yearly"
)

// =============================================================================
// ENTITY SNAPSHOTS - read-only inputs, owned by the storage layer
// =============================================================================

// TimeEntry is the atomic unit of all hour/revenue/cost computation.
// Rates are the member's rates as of fetch time, joined in by the store
// so the engine never needs a member lookup for per-entry math.
// Invariant: Hours >= 0.
type TimeEntry struct {
	ID             string
	Hours          decimal.Decimal
	Date           time.Time
	BillingStatus  BillingStatus
	ApprovalStatus ApprovalStatus
	UserID         string
	ProjectID      string
	PhaseName      string
	InvoiceID      string // empty = not yet invoiced
	InvoicedAt     *time.Time
	HourlyRate     decimal.Decimal
	CostRate       decimal.Decimal
}

// Member is a team member snapshot.
type Member struct {
	ID                   string
	Name                 string
	HourlyRate           decimal.Decimal
	CostRate             decimal.Decimal
	WeeklyTarget         decimal.Decimal // 0 = unset; see EffectiveWeeklyTarget
	IsHourly             bool
	VacationDays         int
	VacationTrackingUnit string
	VacationHoursPerYear decimal.Decimal
}

// standardWeekHours is the full-time capacity floor applied when a member
// has no weekly target configured.
var standardWeekHours = decimal.NewFromInt(40)

// EffectiveWeeklyTarget returns the member's weekly target, defaulting to a
// standard full-time week when unset. Capacity math uses this; the
// utilization trend deliberately does NOT (see EmployeeUtilizationTrend).
func (m Member) EffectiveWeeklyTarget() decimal.Decimal {
	if m.WeeklyTarget.IsZero() {
		return standardWeekHours
	}
	return m.WeeklyTarget
}

// Project is a project snapshot. BudgetHours zero means "no budget
// configured": burndown and red-list math treat that as undefined, not
// as a zero budget.
type Project struct {
	ID                       string
	Name                     string
	Client                   string
	Color                    string
	Billable                 bool
	BudgetHours              decimal.Decimal
	Active                   bool
	EstimatedNonBillablePct  decimal.Decimal
	StartDate                *time.Time
	EndDate                  *time.Time
	RateMode                 RateMode
	ProjectRate              decimal.Decimal
	SystemType               string
}

// HasBudget reports whether burndown/red-list math is defined for the project.
func (p Project) HasBudget() bool { return p.BudgetHours.IsPositive() }

// Expense is a dated cost. ProjectID is empty for company-scoped overhead.
// Recurring company expenses arrive here already expanded into one dated
// occurrence per covered period (the store owns that expansion).
type Expense struct {
	ID          string
	ProjectID   string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Description string
}

// ResourceAllocation is a staffing interval, used only by the forecast
// engine. Completed allocations never contribute to forward revenue.
type ResourceAllocation struct {
	UserID      string
	ProjectID   string
	StartDate   time.Time
	EndDate     time.Time
	HoursPerDay decimal.Decimal
	Status      AllocationStatus
	BillRate    decimal.Decimal // 0 = derive from project rate mode
}

// Invoice is consumed by the company billing-velocity aggregators.
type Invoice struct {
	ID          string
	Status      InvoiceStatus
	Total       decimal.Decimal
	InvoiceDate time.Time
}

// =============================================================================
// OUTPUT POINTS - one struct per report series, JSON-ready
// =============================================================================
// All numeric fields are already rounded per the formulas.go policy:
// hours and percentages to 1 decimal, currency to 2.

// StatusHours is one row of a time-distribution snapshot.
type StatusHours struct {
	Status BillingStatus `json:"status"`
	Hours  float64       `json:"hours"`
}

// UtilizationPoint is one period of a utilization trend.
type UtilizationPoint struct {
	Period       string  `json:"period"`
	BillableUtil float64 `json:"billableUtil"`
	TotalUtil    float64 `json:"totalUtil"`
	Target       float64 `json:"target"` // expected hours for the period
}

// ProfitPoint is one period of a profitability series.
type ProfitPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// MemberUtilizationRow is one member's whole-window utilization.
type MemberUtilizationRow struct {
	MemberID      string  `json:"memberId"`
	MemberName    string  `json:"memberName"`
	ActualHours   float64 `json:"actualHours"`
	ExpectedHours float64 `json:"expectedHours"`
	BillableUtil  float64 `json:"billableUtil"`
	TotalUtil     float64 `json:"totalUtil"`
}

// MemberTimeMixRow is one member's hours broken down by billing status.
type MemberTimeMixRow struct {
	MemberID    string  `json:"memberId"`
	MemberName  string  `json:"memberName"`
	Billable    float64 `json:"billable"`
	Included    float64 `json:"included"`
	NonBillable float64 `json:"nonBillable"`
	Internal    float64 `json:"internal"`
	Presales    float64 `json:"presales"`
	Total       float64 `json:"total"`
}

// BurndownPoint is one period of cumulative budget consumption.
type BurndownPoint struct {
	Period      string  `json:"period"`
	HoursUsed   float64 `json:"hoursUsed"` // cumulative through this period
	BudgetHours float64 `json:"budgetHours"`
	Remaining   float64 `json:"remaining"` // budget - cumulative, may go negative
}

// ProjectMixRow is one project's whole-window hours by billing status.
type ProjectMixRow struct {
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	Billable    float64 `json:"billable"`
	Included    float64 `json:"included"`
	NonBillable float64 `json:"nonBillable"`
	Internal    float64 `json:"internal"`
	Presales    float64 `json:"presales"`
	Total       float64 `json:"total"`
}

// UnbilledRow is approved billable work not yet attached to an invoice.
type UnbilledRow struct {
	ProjectID        string  `json:"projectId"`
	ProjectName      string  `json:"projectName"`
	Hours            float64 `json:"hours"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
}

// OverheadPoint is one period of company revenue vs. full cost.
type OverheadPoint struct {
	Period          string  `json:"period"`
	Revenue         float64 `json:"revenue"`
	LaborCost       float64 `json:"laborCost"`
	ProjectExpenses float64 `json:"projectExpenses"`
	CompanyExpenses float64 `json:"companyExpenses"`
	TotalCost       float64 `json:"totalCost"`
	Profit          float64 `json:"profit"`
}

// NonBillablePoint is one period of the non-billable hour share.
type NonBillablePoint struct {
	Period          string  `json:"period"`
	TotalPercent    float64 `json:"totalPercent"`
	InternalPercent float64 `json:"internalPercent"`
	TotalHours      float64 `json:"totalHours"`
}

// BillingPoint is one period of invoicing and collection totals.
type BillingPoint struct {
	Period      string  `json:"period"`
	Invoiced    float64 `json:"invoiced"`    // sent + paid
	Collected   float64 `json:"collected"`   // paid
	Outstanding float64 `json:"outstanding"` // sent, not yet paid
}

// VelocityPoint is one project's budget-vs-time pacing scatter point.
type VelocityPoint struct {
	ProjectID      string  `json:"projectId"`
	ProjectName    string  `json:"projectName"`
	TimeElapsedPct float64 `json:"timeElapsedPct"`
	BudgetUsedPct  float64 `json:"budgetUsedPct"`
	OverPace       bool    `json:"overPace"`
}

// RedListRow is a project whose budget consumption crossed the risk threshold.
type RedListRow struct {
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	BudgetHours float64 `json:"budgetHours"`
	HoursUsed   float64 `json:"hoursUsed"`
	UsedPct     float64 `json:"usedPct"`
	Overrun     float64 `json:"overrun"` // max(0, used - budget)
	MarginPct   float64 `json:"marginPct"`
}

// FinancialPoint is one period of the financial series the forecast engine
// continues. Historical points come from aggregator output; forecast points
// carry IsForecast=true.
type FinancialPoint struct {
	Period             string  `json:"period"`
	Revenue            float64 `json:"revenue"`
	TotalCost          float64 `json:"totalCost"`
	ContributionMargin float64 `json:"contributionMargin"`
	IsForecast         bool    `json:"isForecast,omitempty"`
}

// RevenueBridge reconciles staffed forward revenue, trailing actual revenue,
// and the cost breakeven line.
type RevenueBridge struct {
	PlannedRevenue   float64          `json:"plannedRevenue"` // staffed, forward window
	ActualMonthly    []FinancialPoint `json:"actualMonthly"`  // trailing booked revenue
	MonthlyBreakeven float64          `json:"monthlyBreakeven"`
}
