/*
company.go - Company-level aggregators

PURPOSE:
  Whole-company series: revenue against full cost (labor + project
  expenses + recurring overhead), the non-billable share of worked hours,
  and invoicing/collection velocity.

EXPENSE CONTRACT:
  Company-scoped recurring expenses arrive already expanded into one dated
  occurrence per covered period (quarterly amounts amortized by 3, yearly
  by 12). That expansion belongs to the storage collaborator; this engine
  just sums dated occurrences.

SEE ALSO:
  - forecast.go: breakeven reuses the same monthly total-cost math
*/
package analytics

import "github.com/shopspring/decimal"

// CompanyOverhead emits one point per period with revenue against total
// cost: labor (all hours at cost rate) + project expenses + expanded
// company expenses falling in the period.
func CompanyOverhead(entries []TimeEntry, projectExpenses, companyExpenses []Expense, r ReportRange) []OverheadPoint {
	buckets := PeriodKeys(r)
	points := make([]OverheadPoint, 0, len(buckets))
	for _, b := range buckets {
		inBucket := entriesIn(entries, b)
		revenue := Revenue(inBucket)
		labor := Cost(inBucket)
		projExp := expensesIn(projectExpenses, b)
		compExp := expensesIn(companyExpenses, b)
		totalCost := labor.Add(projExp).Add(compExp)
		points = append(points, OverheadPoint{
			Period:          b.Label,
			Revenue:         RoundCurrency(revenue),
			LaborCost:       RoundCurrency(labor),
			ProjectExpenses: RoundCurrency(projExp),
			CompanyExpenses: RoundCurrency(compExp),
			TotalCost:       RoundCurrency(totalCost),
			Profit:          RoundCurrency(revenue.Sub(totalCost)),
		})
	}
	return points
}

// NonBillableTrend emits the non-billable share of worked hours per
// period, with the internal sub-category broken out. A period with no
// entries reports 0, not an undefined ratio.
func NonBillableTrend(entries []TimeEntry, r ReportRange) []NonBillablePoint {
	buckets := PeriodKeys(r)
	points := make([]NonBillablePoint, 0, len(buckets))
	for _, b := range buckets {
		inBucket := entriesIn(entries, b)
		total := TotalHours(inBucket)
		nonBillable := decimal.Zero
		for _, e := range inBucket {
			switch e.BillingStatus {
			case NonBillable, Internal, Presales:
				nonBillable = nonBillable.Add(e.Hours)
			case Billable, Included:
				// revenue-bearing work
			}
		}
		internal := HoursWithStatus(inBucket, Internal)
		points = append(points, NonBillablePoint{
			Period:          b.Label,
			TotalPercent:    RoundPercent(RatioPercent(nonBillable, total)),
			InternalPercent: RoundPercent(RatioPercent(internal, total)),
			TotalHours:      RoundHours(total),
		})
	}
	return points
}

// BillingVelocity emits invoicing and collection totals per period from
// invoice dates. Void invoices are excluded everywhere; drafts count
// toward nothing until sent.
func BillingVelocity(invoices []Invoice, r ReportRange) []BillingPoint {
	buckets := PeriodKeys(r)
	points := make([]BillingPoint, 0, len(buckets))
	for _, b := range buckets {
		invoiced := decimal.Zero
		collected := decimal.Zero
		outstanding := decimal.Zero
		for _, inv := range invoices {
			if !b.Contains(inv.InvoiceDate) {
				continue
			}
			switch inv.Status {
			case InvoiceSent:
				invoiced = invoiced.Add(inv.Total)
				outstanding = outstanding.Add(inv.Total)
			case InvoicePaid:
				invoiced = invoiced.Add(inv.Total)
				collected = collected.Add(inv.Total)
			case InvoiceDraft, InvoiceVoid:
				// not yet issued / cancelled
			}
		}
		points = append(points, BillingPoint{
			Period:      b.Label,
			Invoiced:    RoundCurrency(invoiced),
			Collected:   RoundCurrency(collected),
			Outstanding: RoundCurrency(outstanding),
		})
	}
	return points
}

// CompanyFinancials emits the revenue/total-cost/contribution-margin
// series the forecast engine continues.
func CompanyFinancials(entries []TimeEntry, projectExpenses, companyExpenses []Expense, r ReportRange) []FinancialPoint {
	overhead := CompanyOverhead(entries, projectExpenses, companyExpenses, r)
	points := make([]FinancialPoint, 0, len(overhead))
	for _, o := range overhead {
		points = append(points, FinancialPoint{
			Period:             o.Period,
			Revenue:            o.Revenue,
			TotalCost:          o.TotalCost,
			ContributionMargin: o.Profit,
		})
	}
	return points
}

// expensesIn sums expense amounts dated inside the bucket.
func expensesIn(expenses []Expense, b PeriodBucket) decimal.Decimal {
	total := decimal.Zero
	for _, x := range expenses {
		if b.Contains(x.Date) {
			total = total.Add(x.Amount)
		}
	}
	return total
}
