package analytics

import (
	"fmt"
	"time"

	"github.com/finewise-dev/finewise/internal/model"
)

// Report bundles every dashboard view computed from one expense set.
type Report struct {
	Year       int                    `json:"year"`
	Now        time.Time              `json:"now"`
	Monthly    []model.MonthlyBucket  `json:"monthly"`
	Categories []model.CategoryBucket `json:"categories"`
	Comparison model.Comparison       `json:"comparison"`
	Stats      Stats                  `json:"stats"`
	Budget     BudgetUsage            `json:"budget"`
}

// Build runs all aggregations over expenses. The views are independent;
// Build only saves callers from threading now and year through each one.
// Stats cover year only, like the monthly series; the category breakdown,
// comparison and budget follow now's month.
func Build(expenses []model.Expense, now time.Time, year int, budget Budget) (Report, error) {
	categories, err := ByCategory(expenses, now)
	if err != nil {
		return Report{}, fmt.Errorf("category breakdown: %w", err)
	}

	cmp, err := CompareMonths(expenses, now)
	if err != nil {
		return Report{}, fmt.Errorf("month comparison: %w", err)
	}

	return Report{
		Year:       year,
		Now:        now,
		Monthly:    MonthlyTotals(expenses, year),
		Categories: categories,
		Comparison: cmp,
		Stats:      Summarize(InYear(expenses, year), budget.Monthly),
		Budget:     BudgetStatus(cmp.CurrentTotal, budget),
	}, nil
}
