/*
Package sqlite provides the SQLite-backed datastore feeding the analytics
engine.

PURPOSE:
  Owns persistence and querying of the raw operational records (members,
  projects, time entries, expenses, allocations, invoices, holidays). The
  analytics engine never touches the database: the API layer fetches plain
  snapshot slices here, narrows them by range/approval, and hands them to
  the engine.

KEY TABLES:
  members:           Team member records with rates and targets
  projects:          Projects with budget/rate configuration
  time_entries:      The atomic work records
  expenses:          Project-scoped dated costs
  company_expenses:  Company overhead, optionally recurring
  allocations:       Resource staffing intervals
  invoices:          Issued invoices
  holidays:          Company holidays (HolidayCalendar source)

RECURRING EXPENSE EXPANSION:
  The engine consumes company expenses as one dated occurrence per covered
  period. That expansion is this package's contract: see
  CompanyExpensesInRange, which amortizes quarterly amounts by 3 and
  yearly by 12 into monthly occurrences.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and WAL mode for concurrent readers.

USAGE:
  store, err := sqlite.New("./data/reporting.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - analytics/types.go: the snapshot types returned here
  - api/handlers.go: the fetching caller
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/reporting-engine/analytics"
)

const dateLayout = "2006-01-02"

// Store implements persistence for all reporting entities.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Team members
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hourly_rate REAL NOT NULL DEFAULT 0,
		cost_rate REAL NOT NULL DEFAULT 0,
		weekly_target REAL NOT NULL DEFAULT 0,
		is_hourly BOOLEAN DEFAULT FALSE,
		vacation_days INTEGER DEFAULT 0,
		vacation_tracking_unit TEXT DEFAULT 'days',
		vacation_hours_per_year REAL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Projects
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client TEXT,
		color TEXT,
		billable BOOLEAN DEFAULT TRUE,
		budget_hours REAL DEFAULT 0,
		active BOOLEAN DEFAULT TRUE,
		estimated_non_billable_pct REAL DEFAULT 0,
		start_date TEXT,
		end_date TEXT,
		rate_mode TEXT NOT NULL DEFAULT 'member',
		project_rate REAL DEFAULT 0,
		system_type TEXT,
		created_at TEXT NOT NULL
	);

	-- Time entries: the atomic unit of all hour/revenue/cost computation
	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		hours REAL NOT NULL CHECK (hours >= 0),
		billing_status TEXT NOT NULL,
		approval_status TEXT NOT NULL DEFAULT 'draft',
		phase_name TEXT,
		invoice_id TEXT,
		invoiced_at TEXT,
		created_at TEXT NOT NULL
	);

	-- Range scans are the hot path for every report
	CREATE INDEX IF NOT EXISTS idx_entries_date ON time_entries(entry_date);
	CREATE INDEX IF NOT EXISTS idx_entries_user_date ON time_entries(user_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_entries_project_date ON time_entries(project_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_entries_approval ON time_entries(approval_status);

	-- Project-scoped expenses
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		amount REAL NOT NULL,
		expense_date TEXT NOT NULL,
		category TEXT,
		description TEXT,
		approval_status TEXT NOT NULL DEFAULT 'approved',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_project_date ON expenses(project_id, expense_date);
	CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date);

	-- Company overhead, optionally recurring
	CREATE TABLE IF NOT EXISTS company_expenses (
		id TEXT PRIMARY KEY,
		amount REAL NOT NULL,
		expense_date TEXT NOT NULL,
		category TEXT,
		recurring BOOLEAN DEFAULT FALSE,
		frequency TEXT DEFAULT 'monthly',
		created_at TEXT NOT NULL
	);

	-- Resource allocations (staffing intervals)
	CREATE TABLE IF NOT EXISTS allocations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		hours_per_day REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'tentative',
		bill_rate REAL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_allocations_dates ON allocations(start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_allocations_status ON allocations(status);

	-- Invoices
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'draft',
		total REAL NOT NULL DEFAULT 0,
		invoice_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices(invoice_date);

	-- Holidays (HolidayCalendar source)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEMBERS
// =============================================================================

// SaveMember inserts or replaces a member record.
func (s *Store) SaveMember(ctx context.Context, m analytics.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO members
		(id, name, hourly_rate, cost_rate, weekly_target, is_hourly,
		 vacation_days, vacation_tracking_unit, vacation_hours_per_year, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.Name,
		f64(m.HourlyRate), f64(m.CostRate), f64(m.WeeklyTarget),
		m.IsHourly, m.VacationDays, m.VacationTrackingUnit,
		f64(m.VacationHoursPerYear),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetMember returns a member by id, or nil when absent.
func (s *Store) GetMember(ctx context.Context, id string) (*analytics.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members, err := s.queryMembers(ctx, `SELECT id, name, hourly_rate, cost_rate,
		weekly_target, is_hourly, vacation_days, vacation_tracking_unit,
		vacation_hours_per_year FROM members WHERE id = ?`, id)
	if err != nil || len(members) == 0 {
		return nil, err
	}
	return &members[0], nil
}

// ListMembers returns all members ordered by name.
func (s *Store) ListMembers(ctx context.Context) ([]analytics.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMembers(ctx, `SELECT id, name, hourly_rate, cost_rate,
		weekly_target, is_hourly, vacation_days, vacation_tracking_unit,
		vacation_hours_per_year FROM members ORDER BY name`)
}

func (s *Store) queryMembers(ctx context.Context, query string, args ...any) ([]analytics.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []analytics.Member
	for rows.Next() {
		var m analytics.Member
		var hourly, cost, target, vacHours float64
		if err := rows.Scan(&m.ID, &m.Name, &hourly, &cost, &target,
			&m.IsHourly, &m.VacationDays, &m.VacationTrackingUnit, &vacHours); err != nil {
			return nil, err
		}
		m.HourlyRate = decimal.NewFromFloat(hourly)
		m.CostRate = decimal.NewFromFloat(cost)
		m.WeeklyTarget = decimal.NewFromFloat(target)
		m.VacationHoursPerYear = decimal.NewFromFloat(vacHours)
		members = append(members, m)
	}
	return members, rows.Err()
}

// =============================================================================
// PROJECTS
// =============================================================================

// SaveProject inserts or replaces a project record.
func (s *Store) SaveProject(ctx context.Context, p analytics.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var start, end any
	if p.StartDate != nil {
		start = p.StartDate.Format(dateLayout)
	}
	if p.EndDate != nil {
		end = p.EndDate.Format(dateLayout)
	}

	query := `
		INSERT OR REPLACE INTO projects
		(id, name, client, color, billable, budget_hours, active,
		 estimated_non_billable_pct, start_date, end_date, rate_mode,
		 project_rate, system_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Client, p.Color, p.Billable,
		f64(p.BudgetHours), p.Active, f64(p.EstimatedNonBillablePct),
		start, end, string(p.RateMode), f64(p.ProjectRate), p.SystemType,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetProject returns a project by id, or nil when absent.
func (s *Store) GetProject(ctx context.Context, id string) (*analytics.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects, err := s.queryProjects(ctx, projectSelect+` WHERE id = ?`, id)
	if err != nil || len(projects) == 0 {
		return nil, err
	}
	return &projects[0], nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]analytics.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryProjects(ctx, projectSelect+` ORDER BY name`)
}

const projectSelect = `SELECT id, name, client, color, billable, budget_hours,
	active, estimated_non_billable_pct, start_date, end_date, rate_mode,
	project_rate, system_type FROM projects`

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]analytics.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []analytics.Project
	for rows.Next() {
		var p analytics.Project
		var client, color, systemType, rateMode sql.NullString
		var start, end sql.NullString
		var budget, nonBillablePct, projectRate float64
		if err := rows.Scan(&p.ID, &p.Name, &client, &color, &p.Billable,
			&budget, &p.Active, &nonBillablePct, &start, &end,
			&rateMode, &projectRate, &systemType); err != nil {
			return nil, err
		}
		p.Client = client.String
		p.Color = color.String
		p.SystemType = systemType.String
		p.RateMode = analytics.RateMode(rateMode.String)
		p.BudgetHours = decimal.NewFromFloat(budget)
		p.EstimatedNonBillablePct = decimal.NewFromFloat(nonBillablePct)
		p.ProjectRate = decimal.NewFromFloat(projectRate)
		if d, ok := parseNullDate(start); ok {
			p.StartDate = &d
		}
		if d, ok := parseNullDate(end); ok {
			p.EndDate = &d
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

// SaveEntry inserts or replaces a time entry.
func (s *Store) SaveEntry(ctx context.Context, e analytics.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var invoicedAt any
	if e.InvoicedAt != nil {
		invoicedAt = e.InvoicedAt.Format(dateLayout)
	}

	query := `
		INSERT OR REPLACE INTO time_entries
		(id, user_id, project_id, entry_date, hours, billing_status,
		 approval_status, phase_name, invoice_id, invoiced_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.ProjectID, e.Date.Format(dateLayout),
		f64(e.Hours), string(e.BillingStatus), string(e.ApprovalStatus),
		e.PhaseName, nullable(e.InvoiceID), invoicedAt,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// EntriesInRange returns entries dated inside [from, to] inclusive, with
// the member's current rates joined in so the engine needs no lookups.
// Entries whose member no longer exists carry zero rates; the engine's
// referential-gap policy handles them.
func (s *Store) EntriesInRange(ctx context.Context, from, to time.Time) ([]analytics.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := entrySelect + `
		WHERE e.entry_date >= ? AND e.entry_date <= ?
		ORDER BY e.entry_date, e.id`
	return s.queryEntries(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
}

// EntriesForUser narrows a range query to one member.
func (s *Store) EntriesForUser(ctx context.Context, userID string, from, to time.Time) ([]analytics.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := entrySelect + `
		WHERE e.user_id = ? AND e.entry_date >= ? AND e.entry_date <= ?
		ORDER BY e.entry_date, e.id`
	return s.queryEntries(ctx, query, userID, from.Format(dateLayout), to.Format(dateLayout))
}

// EntriesForProject narrows a range query to one project.
func (s *Store) EntriesForProject(ctx context.Context, projectID string, from, to time.Time) ([]analytics.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := entrySelect + `
		WHERE e.project_id = ? AND e.entry_date >= ? AND e.entry_date <= ?
		ORDER BY e.entry_date, e.id`
	return s.queryEntries(ctx, query, projectID, from.Format(dateLayout), to.Format(dateLayout))
}

const entrySelect = `
	SELECT e.id, e.user_id, e.project_id, e.entry_date, e.hours,
	       e.billing_status, e.approval_status, e.phase_name,
	       e.invoice_id, e.invoiced_at,
	       COALESCE(m.hourly_rate, 0), COALESCE(m.cost_rate, 0)
	FROM time_entries e
	LEFT JOIN members m ON m.id = e.user_id`

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]analytics.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []analytics.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (analytics.TimeEntry, error) {
	var e analytics.TimeEntry
	var date string
	var hours, hourlyRate, costRate float64
	var billing, approval string
	var phase, invoiceID, invoicedAt sql.NullString

	if err := rows.Scan(&e.ID, &e.UserID, &e.ProjectID, &date, &hours,
		&billing, &approval, &phase, &invoiceID, &invoicedAt,
		&hourlyRate, &costRate); err != nil {
		return analytics.TimeEntry{}, err
	}

	d, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return analytics.TimeEntry{}, fmt.Errorf("bad entry date %q: %w", date, err)
	}
	e.Date = d
	e.Hours = decimal.NewFromFloat(hours)
	e.BillingStatus = analytics.BillingStatus(billing)
	e.ApprovalStatus = analytics.ApprovalStatus(approval)
	e.PhaseName = phase.String
	e.InvoiceID = invoiceID.String
	e.HourlyRate = decimal.NewFromFloat(hourlyRate)
	e.CostRate = decimal.NewFromFloat(costRate)
	if d, ok := parseNullDate(invoicedAt); ok {
		e.InvoicedAt = &d
	}
	return e, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

// SaveExpense inserts or replaces a project-scoped expense.
func (s *Store) SaveExpense(ctx context.Context, x analytics.Expense, approval analytics.ApprovalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO expenses
		(id, project_id, amount, expense_date, category, description, approval_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		x.ID, x.ProjectID, f64(x.Amount), x.Date.Format(dateLayout),
		x.Category, x.Description, string(approval),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ProjectExpensesInRange returns approved project expenses dated inside
// [from, to].
func (s *Store) ProjectExpensesInRange(ctx context.Context, from, to time.Time) ([]analytics.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, project_id, amount, expense_date, category, description
		FROM expenses
		WHERE approval_status IN ('approved', 'locked')
		  AND expense_date >= ? AND expense_date <= ?
		ORDER BY expense_date, id`
	rows, err := s.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []analytics.Expense
	for rows.Next() {
		var x analytics.Expense
		var amount float64
		var date string
		var category, description sql.NullString
		if err := rows.Scan(&x.ID, &x.ProjectID, &amount, &date, &category, &description); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad expense date %q: %w", date, err)
		}
		x.Amount = decimal.NewFromFloat(amount)
		x.Date = d
		x.Category = category.String
		x.Description = description.String
		expenses = append(expenses, x)
	}
	return expenses, rows.Err()
}

// CompanyExpenseRecord is the stored (unexpanded) company expense.
type CompanyExpenseRecord struct {
	ID        string
	Amount    decimal.Decimal
	Date      time.Time
	Category  string
	Recurring bool
	Frequency analytics.ExpenseFrequency
}

// SaveCompanyExpense inserts or replaces a company expense record.
func (s *Store) SaveCompanyExpense(ctx context.Context, x CompanyExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO company_expenses
		(id, amount, expense_date, category, recurring, frequency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		x.ID, f64(x.Amount), x.Date.Format(dateLayout), x.Category,
		x.Recurring, string(x.Frequency),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// CompanyExpensesInRange returns company overhead as dated occurrences
// inside [from, to]. One-off expenses pass through; recurring expenses are
// expanded into one synthetic occurrence per covered month, amortizing
// quarterly amounts by 3 and yearly by 12. This expansion is the output
// contract the engine's company aggregators consume.
func (s *Store) CompanyExpensesInRange(ctx context.Context, from, to time.Time) ([]analytics.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, expense_date, category, recurring, frequency
		FROM company_expenses ORDER BY expense_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.Expense
	for rows.Next() {
		var rec CompanyExpenseRecord
		var amount float64
		var date string
		var category, frequency sql.NullString
		if err := rows.Scan(&rec.ID, &amount, &date, &category, &rec.Recurring, &frequency); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad company expense date %q: %w", date, err)
		}
		rec.Amount = decimal.NewFromFloat(amount)
		rec.Date = d
		rec.Category = category.String
		rec.Frequency = analytics.ExpenseFrequency(frequency.String)
		out = append(out, expandOccurrences(rec, from, to)...)
	}
	return out, rows.Err()
}

// expandOccurrences turns a stored company expense into dated occurrences
// within [from, to].
func expandOccurrences(rec CompanyExpenseRecord, from, to time.Time) []analytics.Expense {
	oneOff := analytics.Expense{
		ID: rec.ID, Amount: rec.Amount, Date: rec.Date, Category: rec.Category,
	}
	if !rec.Recurring {
		if inRange(rec.Date, from, to) {
			return []analytics.Expense{oneOff}
		}
		return nil
	}

	monthly := rec.Amount
	switch rec.Frequency {
	case analytics.FreqQuarterly:
		monthly = rec.Amount.Div(decimal.NewFromInt(3))
	case analytics.FreqYearly:
		monthly = rec.Amount.Div(decimal.NewFromInt(12))
	case analytics.FreqMonthly:
		// already per-month
	}

	// One occurrence per month from the expense's start, on the same day
	// of month the expense was anchored to (capped to short months).
	var out []analytics.Expense
	cursor := time.Date(rec.Date.Year(), rec.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(to) {
		occ := occurrenceDay(cursor, rec.Date.Day())
		if !occ.Before(rec.Date) && inRange(occ, from, to) {
			out = append(out, analytics.Expense{
				ID:       fmt.Sprintf("%s@%s", rec.ID, occ.Format("2006-01")),
				Amount:   monthly,
				Date:     occ,
				Category: rec.Category,
			})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out
}

func occurrenceDay(monthStart time.Time, day int) time.Time {
	lastDay := monthStart.AddDate(0, 1, 0).AddDate(0, 0, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, time.UTC)
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

// SaveAllocation inserts or replaces a resource allocation.
func (s *Store) SaveAllocation(ctx context.Context, id string, a analytics.ResourceAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO allocations
		(id, user_id, project_id, start_date, end_date, hours_per_day, status, bill_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		id, a.UserID, a.ProjectID,
		a.StartDate.Format(dateLayout), a.EndDate.Format(dateLayout),
		f64(a.HoursPerDay), string(a.Status), f64(a.BillRate),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListAllocations returns all allocations ordered by start date.
func (s *Store) ListAllocations(ctx context.Context) ([]analytics.ResourceAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, project_id, start_date, end_date, hours_per_day, status, bill_rate
		FROM allocations ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocs []analytics.ResourceAllocation
	for rows.Next() {
		var a analytics.ResourceAllocation
		var start, end, status string
		var hoursPerDay, billRate float64
		if err := rows.Scan(&a.UserID, &a.ProjectID, &start, &end, &hoursPerDay, &status, &billRate); err != nil {
			return nil, err
		}
		sd, err := time.ParseInLocation(dateLayout, start, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad allocation start %q: %w", start, err)
		}
		ed, err := time.ParseInLocation(dateLayout, end, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad allocation end %q: %w", end, err)
		}
		a.StartDate = sd
		a.EndDate = ed
		a.HoursPerDay = decimal.NewFromFloat(hoursPerDay)
		a.Status = analytics.AllocationStatus(status)
		a.BillRate = decimal.NewFromFloat(billRate)
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

// =============================================================================
// INVOICES
// =============================================================================

// SaveInvoice inserts or replaces an invoice.
func (s *Store) SaveInvoice(ctx context.Context, inv analytics.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO invoices (id, status, total, invoice_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		inv.ID, string(inv.Status), f64(inv.Total),
		inv.InvoiceDate.Format(dateLayout),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// InvoicesInRange returns invoices dated inside [from, to].
func (s *Store) InvoicesInRange(ctx context.Context, from, to time.Time) ([]analytics.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, total, invoice_date FROM invoices
		WHERE invoice_date >= ? AND invoice_date <= ?
		ORDER BY invoice_date, id`,
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []analytics.Invoice
	for rows.Next() {
		var inv analytics.Invoice
		var status, date string
		var total float64
		if err := rows.Scan(&inv.ID, &status, &total, &date); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad invoice date %q: %w", date, err)
		}
		inv.Status = analytics.InvoiceStatus(status)
		inv.Total = decimal.NewFromFloat(total)
		inv.InvoiceDate = d
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// =============================================================================
// HOLIDAYS - analytics.HolidayCalendar implementation
// =============================================================================

// SaveHoliday records a company holiday.
func (s *Store) SaveHoliday(ctx context.Context, id string, date time.Time, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO holidays (id, date, name, created_at)
		VALUES (?, ?, ?, ?)`,
		id, date.Format(dateLayout), name, time.Now().UTC().Format(time.RFC3339))
	return err
}

// IsHoliday reports whether the date is a recorded holiday.
func (s *Store) IsHoliday(date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM holidays WHERE date = ?`,
		date.Format(dateLayout)).Scan(&n)
	return err == nil && n > 0
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data. Development and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"time_entries", "expenses", "company_expenses",
		"allocations", "invoices", "holidays", "projects", "members",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseNullDate(ns sql.NullString) (time.Time, bool) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, ns.String, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
