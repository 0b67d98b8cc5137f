package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

// CompareMonths totals now's calendar month and the month before it.
// Equal totals count as an increase.
func CompareMonths(expenses []model.Expense, now time.Time) (model.Comparison, error) {
	if now.IsZero() {
		return model.Comparison{}, ErrNoReferenceDate
	}

	curYear, curMonth := now.Year(), now.Month()
	prevYear, prevMonth := PreviousMonth(curYear, curMonth)

	current := decimal.Zero
	previous := decimal.Zero
	for _, e := range expenses {
		switch {
		case inMonth(e, curYear, curMonth):
			current = current.Add(e.Amount)
		case inMonth(e, prevYear, prevMonth):
			previous = previous.Add(e.Amount)
		}
	}

	dir := model.DirectionIncrease
	if current.LessThan(previous) {
		dir = model.DirectionDecrease
	}

	return model.Comparison{
		CurrentTotal:  current,
		PreviousTotal: previous,
		Delta:         current.Sub(previous).Abs(),
		Direction:     dir,
	}, nil
}

// PreviousMonth returns the calendar month before (year, month).
// January rolls back to December of the previous year.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
