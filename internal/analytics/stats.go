package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

// Stats are the headline numbers for a set of expenses, usually one year.
type Stats struct {
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	TopCategory   string          `json:"top_category"` // "" if no category has a positive total
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
}

// Summarize computes Stats. The top category is the one with the largest
// positive total; on a tie the first one seen wins.
func Summarize(expenses []model.Expense, monthlyBudget decimal.Decimal) Stats {
	stats := Stats{Total: decimal.Zero, Count: len(expenses), MonthlyBudget: monthlyBudget}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range expenses {
		stats.Total = stats.Total.Add(e.Amount)

		label := model.Uncategorized
		if e.HasCategory() {
			label = e.Category
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] = totals[label].Add(e.Amount)
	}

	best := decimal.Zero
	for _, label := range order {
		if totals[label].GreaterThan(best) {
			best = totals[label]
			stats.TopCategory = label
		}
	}
	return stats
}

// InYear returns the expenses dated in year.
func InYear(expenses []model.Expense, year int) []model.Expense {
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.Year() == year {
			out = append(out, e)
		}
	}
	return out
}
