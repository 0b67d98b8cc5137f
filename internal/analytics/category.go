package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

// ByCategory sums the expenses dated in now's calendar month per category.
// Expenses without a category go to model.Uncategorized. Buckets come back
// in first-seen order; callers should not rely on any ordering.
func ByCategory(expenses []model.Expense, now time.Time) ([]model.CategoryBucket, error) {
	if now.IsZero() {
		return nil, ErrNoReferenceDate
	}

	year, month := now.Year(), now.Month()
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range expenses {
		if !inMonth(e, year, month) {
			continue
		}
		label := model.Uncategorized
		if e.HasCategory() {
			label = e.Category
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] = totals[label].Add(e.Amount)
	}

	buckets := make([]model.CategoryBucket, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, model.CategoryBucket{Label: label, Total: totals[label]})
	}
	return buckets, nil
}

func inMonth(e model.Expense, year int, month time.Month) bool {
	return e.Date.Year() == year && e.Date.Month() == month
}
