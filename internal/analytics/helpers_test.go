package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func exp(amount string, d time.Time, category string) model.Expense {
	return model.Expense{Amount: dec(amount), Date: d, Category: category}
}

func sum(buckets []model.CategoryBucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Total)
	}
	return total
}
