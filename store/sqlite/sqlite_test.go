package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reporting-engine/analytics"
	"github.com/warp/reporting-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMemberRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := analytics.Member{
		ID:           "mem-1",
		Name:         "Alice",
		HourlyRate:   dec("150"),
		CostRate:     dec("80"),
		WeeklyTarget: dec("32"),
	}
	require.NoError(t, store.SaveMember(ctx, m))

	got, err := store.GetMember(ctx, "mem-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.HourlyRate.Equal(dec("150")), "hourly rate should survive the round trip")
	assert.True(t, got.WeeklyTarget.Equal(dec("32")), "weekly target should survive the round trip")
}

func TestGetMemberMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetMember(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got, "missing member should return nil, not an error")
}

func TestProjectRoundTripWithDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := day(2025, time.January, 1)
	end := day(2025, time.June, 30)
	p := analytics.Project{
		ID:          "proj-1",
		Name:        "Platform Rebuild",
		Client:      "Acme",
		Billable:    true,
		Active:      true,
		BudgetHours: dec("400"),
		StartDate:   &start,
		EndDate:     &end,
		RateMode:    analytics.RateByProject,
		ProjectRate: dec("175"),
	}
	require.NoError(t, store.SaveProject(ctx, p))

	got, err := store.GetProject(ctx, "proj-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))
	assert.Equal(t, analytics.RateByProject, got.RateMode)
	assert.True(t, got.ProjectRate.Equal(dec("175")))
	assert.True(t, got.HasBudget())
}

func TestProjectNilDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := analytics.Project{ID: "proj-2", Name: "Retainer", RateMode: analytics.RateByMember}
	require.NoError(t, store.SaveProject(ctx, p))

	got, err := store.GetProject(ctx, "proj-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
}

func TestEntriesInRangeJoinsMemberRates(t *testing.T) {
	// GIVEN a member with rates and entries inside and outside the window
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMember(ctx, analytics.Member{
		ID: "mem-1", Name: "Alice", HourlyRate: dec("100"), CostRate: dec("50"),
	}))

	save := func(id string, d time.Time) {
		t.Helper()
		require.NoError(t, store.SaveEntry(ctx, analytics.TimeEntry{
			ID: id, UserID: "mem-1", ProjectID: "proj-1",
			Date: d, Hours: dec("4"),
			BillingStatus:  analytics.Billable,
			ApprovalStatus: analytics.Approved,
		}))
	}
	save("e1", day(2025, time.March, 3))
	save("e2", day(2025, time.March, 31)) // inclusive upper bound
	save("e3", day(2025, time.April, 1))  // outside

	// WHEN we query March
	entries, err := store.EntriesInRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	require.NoError(t, err)

	// THEN only March entries return, carrying the member's rates
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.HourlyRate.Equal(dec("100")), "entry %s should carry the member's hourly rate", e.ID)
		assert.True(t, e.CostRate.Equal(dec("50")), "entry %s should carry the member's cost rate", e.ID)
	}
}

func TestEntriesOrphanedMemberZeroRates(t *testing.T) {
	// GIVEN an entry whose member was never saved
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEntry(ctx, analytics.TimeEntry{
		ID: "e1", UserID: "ghost", ProjectID: "proj-1",
		Date: day(2025, time.March, 3), Hours: dec("2"),
		BillingStatus:  analytics.Billable,
		ApprovalStatus: analytics.Approved,
	}))

	entries, err := store.EntriesInRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	require.NoError(t, err)

	// THEN the entry still returns, with zero rates
	require.Len(t, entries, 1)
	assert.True(t, entries[0].HourlyRate.IsZero())
	assert.True(t, entries[0].CostRate.IsZero())
}

func TestEntriesForUserAndProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	save := func(id, user, project string) {
		t.Helper()
		require.NoError(t, store.SaveEntry(ctx, analytics.TimeEntry{
			ID: id, UserID: user, ProjectID: project,
			Date: day(2025, time.March, 10), Hours: dec("1"),
			BillingStatus:  analytics.Billable,
			ApprovalStatus: analytics.Approved,
		}))
	}
	save("e1", "mem-1", "proj-1")
	save("e2", "mem-2", "proj-1")
	save("e3", "mem-1", "proj-2")

	from, to := day(2025, time.March, 1), day(2025, time.March, 31)

	byUser, err := store.EntriesForUser(ctx, "mem-1", from, to)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byProject, err := store.EntriesForProject(ctx, "proj-1", from, to)
	require.NoError(t, err)
	assert.Len(t, byProject, 2)
}

func TestProjectExpensesApprovedOnly(t *testing.T) {
	// GIVEN expenses in several approval states
	store := newTestStore(t)
	ctx := context.Background()

	save := func(id string, approval analytics.ApprovalStatus) {
		t.Helper()
		require.NoError(t, store.SaveExpense(ctx, analytics.Expense{
			ID: id, ProjectID: "proj-1", Amount: dec("100"),
			Date: day(2025, time.March, 10),
		}, approval))
	}
	save("x1", analytics.Approved)
	save("x2", analytics.Locked)
	save("x3", analytics.Draft)
	save("x4", analytics.Rejected)

	expenses, err := store.ProjectExpensesInRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	require.NoError(t, err)

	// THEN only approved and locked expenses return
	assert.Len(t, expenses, 2)
}

func TestCompanyExpenseOneOff(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCompanyExpense(ctx, sqlite.CompanyExpenseRecord{
		ID: "cx1", Amount: dec("500"), Date: day(2025, time.March, 15),
		Category: "software",
	}))

	// Inside the window: one occurrence
	got, err := store.CompanyExpensesInRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(dec("500")))

	// Outside the window: nothing
	got, err = store.CompanyExpensesInRange(ctx, day(2025, time.April, 1), day(2025, time.April, 30))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompanyExpenseMonthlyRecurring(t *testing.T) {
	// GIVEN a monthly recurring expense anchored in January
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCompanyExpense(ctx, sqlite.CompanyExpenseRecord{
		ID: "rent", Amount: dec("2000"), Date: day(2025, time.January, 1),
		Category: "rent", Recurring: true, Frequency: analytics.FreqMonthly,
	}))

	// WHEN we query March through May
	got, err := store.CompanyExpensesInRange(ctx, day(2025, time.March, 1), day(2025, time.May, 31))
	require.NoError(t, err)

	// THEN one full-amount occurrence lands in each covered month
	require.Len(t, got, 3)
	for _, x := range got {
		assert.True(t, x.Amount.Equal(dec("2000")), "monthly amount passes through unamortized")
	}
	assert.True(t, got[0].Date.Equal(day(2025, time.March, 1)))
}

func TestCompanyExpenseAmortization(t *testing.T) {
	// GIVEN quarterly and yearly recurring expenses
	store := newTestStore(t)
	ctx := context.Background()

	records := []sqlite.CompanyExpenseRecord{
		{ID: "insurance", Amount: dec("900"), Date: day(2025, time.January, 1),
			Recurring: true, Frequency: analytics.FreqQuarterly},
		{ID: "audit", Amount: dec("2400"), Date: day(2025, time.January, 1),
			Recurring: true, Frequency: analytics.FreqYearly},
	}
	for _, rec := range records {
		require.NoError(t, store.SaveCompanyExpense(ctx, rec))
	}

	// WHEN expanded over a single month
	got, err := store.CompanyExpensesInRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	require.NoError(t, err)

	// THEN quarterly amortizes by 3 and yearly by 12: 300 + 200
	require.Len(t, got, 2)
	total := decimal.Zero
	for _, x := range got {
		total = total.Add(x.Amount)
	}
	assert.True(t, total.Equal(dec("500")), "amortized total = %s, want 500", total)
}

func TestCompanyExpenseNotBeforeAnchor(t *testing.T) {
	// GIVEN a recurring expense first incurred in June
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCompanyExpense(ctx, sqlite.CompanyExpenseRecord{
		ID: "saas", Amount: dec("100"), Date: day(2025, time.June, 15),
		Recurring: true, Frequency: analytics.FreqMonthly,
	}))

	got, err := store.CompanyExpensesInRange(ctx, day(2025, time.March, 1), day(2025, time.May, 31))
	require.NoError(t, err)

	// THEN no occurrences predate the expense itself
	assert.Empty(t, got)
}

func TestAllocationRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := analytics.ResourceAllocation{
		UserID: "mem-1", ProjectID: "proj-1",
		StartDate: day(2025, time.September, 1), EndDate: day(2025, time.September, 30),
		HoursPerDay: dec("6"), Status: analytics.Confirmed, BillRate: dec("140"),
	}
	require.NoError(t, store.SaveAllocation(ctx, "alloc-1", a))

	got, err := store.ListAllocations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, analytics.Confirmed, got[0].Status)
	assert.True(t, got[0].BillRate.Equal(dec("140")))
	assert.True(t, got[0].StartDate.Equal(a.StartDate))
	assert.True(t, got[0].EndDate.Equal(a.EndDate))
}

func TestInvoicesInRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	save := func(id string, d time.Time, status analytics.InvoiceStatus) {
		t.Helper()
		require.NoError(t, store.SaveInvoice(ctx, analytics.Invoice{
			ID: id, Status: status, Total: dec("1000"), InvoiceDate: d,
		}))
	}
	save("inv-1", day(2025, time.March, 5), analytics.InvoiceSent)
	save("inv-2", day(2025, time.March, 20), analytics.InvoicePaid)
	save("inv-3", day(2025, time.April, 2), analytics.InvoiceDraft)

	got, err := store.InvoicesInRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestHolidayCalendar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, "hol-1", day(2025, time.December, 25), "Christmas"))

	assert.True(t, store.IsHoliday(day(2025, time.December, 25)))
	assert.False(t, store.IsHoliday(day(2025, time.December, 24)))

	// The store satisfies the engine's calendar interface.
	var _ analytics.HolidayCalendar = store
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMember(ctx, analytics.Member{ID: "mem-1", Name: "Alice"}))
	require.NoError(t, store.Reset(ctx))

	members, err := store.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}
