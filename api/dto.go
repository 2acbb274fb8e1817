/*
dto.go - Request/response data structures for the reporting API

PURPOSE:
  Defines the JSON shapes crossing the HTTP boundary. Write-side DTOs
  carry string dates and float amounts; toEntity converters validate
  them into engine snapshot types. Report responses need no DTOs here:
  the engine's output point structs are JSON-ready.

CONVENTIONS:
  - All dates are "YYYY-MM-DD" strings, interpreted as UTC calendar days
  - Amounts and hours are JSON numbers, converted to decimal at the edge
  - Enum fields are validated against the engine's closed sets

SEE ALSO:
  - handlers.go: Handlers using these DTOs
  - analytics/types.go: The entity snapshots these convert into
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
)

const dateLayout = "2006-01-02"

// ErrorResponse is the standard error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// WRITE-SIDE DTOS
// =============================================================================

// MemberDTO creates or replaces a team member.
type MemberDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	HourlyRate   float64 `json:"hourlyRate"`
	CostRate     float64 `json:"costRate"`
	WeeklyTarget float64 `json:"weeklyTarget"`
	IsHourly     bool    `json:"isHourly"`
}

func (d MemberDTO) toEntity() (analytics.Member, error) {
	if d.ID == "" || d.Name == "" {
		return analytics.Member{}, fmt.Errorf("id and name are required")
	}
	return analytics.Member{
		ID:           d.ID,
		Name:         d.Name,
		HourlyRate:   decimal.NewFromFloat(d.HourlyRate),
		CostRate:     decimal.NewFromFloat(d.CostRate),
		WeeklyTarget: decimal.NewFromFloat(d.WeeklyTarget),
		IsHourly:     d.IsHourly,
	}, nil
}

// ProjectDTO creates or replaces a project.
type ProjectDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Client      string  `json:"client,omitempty"`
	Color       string  `json:"color,omitempty"`
	Billable    bool    `json:"billable"`
	Active      bool    `json:"active"`
	BudgetHours float64 `json:"budgetHours,omitempty"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate,omitempty"`
	RateMode    string  `json:"rateMode,omitempty"` // member | project
	ProjectRate float64 `json:"projectRate,omitempty"`
}

func (d ProjectDTO) toEntity() (analytics.Project, error) {
	if d.ID == "" || d.Name == "" {
		return analytics.Project{}, fmt.Errorf("id and name are required")
	}

	mode := analytics.RateMode(d.RateMode)
	switch mode {
	case "", analytics.RateByMember:
		mode = analytics.RateByMember
	case analytics.RateByProject:
	default:
		return analytics.Project{}, fmt.Errorf("unknown rate mode %q", d.RateMode)
	}

	p := analytics.Project{
		ID:          d.ID,
		Name:        d.Name,
		Client:      d.Client,
		Color:       d.Color,
		Billable:    d.Billable,
		Active:      d.Active,
		BudgetHours: decimal.NewFromFloat(d.BudgetHours),
		RateMode:    mode,
		ProjectRate: decimal.NewFromFloat(d.ProjectRate),
	}
	if d.StartDate != "" {
		t, err := parseDate(d.StartDate)
		if err != nil {
			return analytics.Project{}, err
		}
		p.StartDate = &t
	}
	if d.EndDate != "" {
		t, err := parseDate(d.EndDate)
		if err != nil {
			return analytics.Project{}, err
		}
		p.EndDate = &t
	}
	return p, nil
}

// TimeEntryDTO records hours worked.
type TimeEntryDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	ProjectID      string  `json:"projectId"`
	Date           string  `json:"date"`
	Hours          float64 `json:"hours"`
	BillingStatus  string  `json:"billingStatus"`
	ApprovalStatus string  `json:"approvalStatus,omitempty"` // defaults to draft
	PhaseName      string  `json:"phaseName,omitempty"`
	InvoiceID      string  `json:"invoiceId,omitempty"`
}

func (d TimeEntryDTO) toEntity() (analytics.TimeEntry, error) {
	if d.ID == "" || d.UserID == "" || d.ProjectID == "" {
		return analytics.TimeEntry{}, fmt.Errorf("id, userId, and projectId are required")
	}
	if d.Hours < 0 {
		return analytics.TimeEntry{}, fmt.Errorf("hours must be non-negative")
	}
	date, err := parseDate(d.Date)
	if err != nil {
		return analytics.TimeEntry{}, err
	}

	billing := analytics.BillingStatus(d.BillingStatus)
	if !validBillingStatus(billing) {
		return analytics.TimeEntry{}, fmt.Errorf("unknown billing status %q", d.BillingStatus)
	}
	approval := analytics.ApprovalStatus(d.ApprovalStatus)
	if d.ApprovalStatus == "" {
		approval = analytics.Draft
	} else if !validApprovalStatus(approval) {
		return analytics.TimeEntry{}, fmt.Errorf("unknown approval status %q", d.ApprovalStatus)
	}

	return analytics.TimeEntry{
		ID:             d.ID,
		UserID:         d.UserID,
		ProjectID:      d.ProjectID,
		Date:           date,
		Hours:          decimal.NewFromFloat(d.Hours),
		BillingStatus:  billing,
		ApprovalStatus: approval,
		PhaseName:      d.PhaseName,
		InvoiceID:      d.InvoiceID,
	}, nil
}

// ExpenseDTO records a project-scoped expense.
type ExpenseDTO struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"projectId"`
	Amount         float64 `json:"amount"`
	Date           string  `json:"date"`
	Category       string  `json:"category,omitempty"`
	Description    string  `json:"description,omitempty"`
	ApprovalStatus string  `json:"approvalStatus,omitempty"` // defaults to approved
}

// CompanyExpenseDTO records company overhead, optionally recurring.
type CompanyExpenseDTO struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Category  string  `json:"category,omitempty"`
	Recurring bool    `json:"recurring,omitempty"`
	Frequency string  `json:"frequency,omitempty"` // monthly | quarterly | yearly
}

// AllocationDTO creates or replaces a staffing interval.
type AllocationDTO struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	ProjectID   string  `json:"projectId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	HoursPerDay float64 `json:"hoursPerDay"`
	Status      string  `json:"status,omitempty"` // defaults to tentative
	BillRate    float64 `json:"billRate,omitempty"`
}

func (d AllocationDTO) toEntity() (analytics.ResourceAllocation, error) {
	if d.ID == "" || d.UserID == "" || d.ProjectID == "" {
		return analytics.ResourceAllocation{}, fmt.Errorf("id, userId, and projectId are required")
	}
	start, err := parseDate(d.StartDate)
	if err != nil {
		return analytics.ResourceAllocation{}, err
	}
	end, err := parseDate(d.EndDate)
	if err != nil {
		return analytics.ResourceAllocation{}, err
	}
	if end.Before(start) {
		return analytics.ResourceAllocation{}, fmt.Errorf("endDate before startDate")
	}

	status := analytics.AllocationStatus(d.Status)
	switch status {
	case "":
		status = analytics.Tentative
	case analytics.Tentative, analytics.Confirmed, analytics.Completed:
	default:
		return analytics.ResourceAllocation{}, fmt.Errorf("unknown allocation status %q", d.Status)
	}

	return analytics.ResourceAllocation{
		UserID:      d.UserID,
		ProjectID:   d.ProjectID,
		StartDate:   start,
		EndDate:     end,
		HoursPerDay: decimal.NewFromFloat(d.HoursPerDay),
		Status:      status,
		BillRate:    decimal.NewFromFloat(d.BillRate),
	}, nil
}

// InvoiceDTO creates or replaces an invoice.
type InvoiceDTO struct {
	ID     string  `json:"id"`
	Status string  `json:"status"` // draft | sent | paid | void
	Total  float64 `json:"total"`
	Date   string  `json:"date"`
}

func (d InvoiceDTO) toEntity() (analytics.Invoice, error) {
	if d.ID == "" {
		return analytics.Invoice{}, fmt.Errorf("id is required")
	}
	date, err := parseDate(d.Date)
	if err != nil {
		return analytics.Invoice{}, err
	}
	status := analytics.InvoiceStatus(d.Status)
	switch status {
	case analytics.InvoiceDraft, analytics.InvoiceSent, analytics.InvoicePaid, analytics.InvoiceVoid:
	default:
		return analytics.Invoice{}, fmt.Errorf("unknown invoice status %q", d.Status)
	}
	return analytics.Invoice{
		ID:          d.ID,
		Status:      status,
		Total:       decimal.NewFromFloat(d.Total),
		InvoiceDate: date,
	}, nil
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// HolidayDTO records a company holiday.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func validBillingStatus(s analytics.BillingStatus) bool {
	for _, known := range analytics.BillingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func validApprovalStatus(s analytics.ApprovalStatus) bool {
	switch s {
	case analytics.Draft, analytics.Submitted, analytics.Approved, analytics.Locked, analytics.Rejected:
		return true
	}
	return false
}
