// Package analytics aggregates normalized expenses into the dashboard
// views: a twelve-month series, a current-month category breakdown and a
// month-over-month comparison.
//
// Every function is pure. Dates are read in whatever location they carry,
// so expenses and the reference date should come from the same calendar
// (normalize.Normalize and the caller's clock, both in the user's zone).
package analytics

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

// ErrNoReferenceDate is returned when a zero reference date is passed.
var ErrNoReferenceDate = errors.New("reference date is required")

// MonthlyTotals returns twelve buckets, January first, summing the amounts
// of expenses dated in year. Expenses from other years are ignored.
func MonthlyTotals(expenses []model.Expense, year int) []model.MonthlyBucket {
	var totals [12]decimal.Decimal
	for _, e := range expenses {
		if e.Date.Year() != year {
			continue
		}
		i := int(e.Date.Month()) - 1
		totals[i] = totals[i].Add(e.Amount)
	}

	buckets := make([]model.MonthlyBucket, len(totals))
	for i, t := range totals {
		buckets[i] = model.MonthlyBucket{MonthIndex: i, Total: t}
	}
	return buckets
}
