package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/analytics"
	"github.com/finewise-dev/finewise/internal/model"
	"github.com/finewise-dev/finewise/internal/money"
)

// NoCategory is shown when no category has a positive total.
const NoCategory = "N/A"

// Amount is a raw total with its display form.
type Amount struct {
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
}

// MonthView is one bar of the monthly trend chart.
type MonthView struct {
	Month string `json:"month"`
	Amount
}

// CategoryView is one slice of the category chart.
type CategoryView struct {
	Label string `json:"label"`
	Amount
}

// ComparisonView is the this-month vs last-month card.
type ComparisonView struct {
	Current   Amount          `json:"current"`
	Previous  Amount          `json:"previous"`
	Delta     Amount          `json:"delta"`
	Direction model.Direction `json:"direction"`
	Arrow     string          `json:"arrow"`
}

// StatsView holds the headline stat cards.
type StatsView struct {
	Total         Amount `json:"total"`
	Count         int    `json:"count"`
	TopCategory   string `json:"top_category"`
	MonthlyBudget Amount `json:"monthly_budget"`
}

// BudgetView is the monthly budget progress bar.
type BudgetView struct {
	Limit     Amount `json:"limit"`
	Spent     Amount `json:"spent"`
	Remaining Amount `json:"remaining"`
	Percent   string `json:"percent"` // e.g. "25.0"
	Alert     bool   `json:"alert"`
}

// View is a fully rendered dashboard.
type View struct {
	Year       int            `json:"year"`
	Date       string         `json:"date"` // reference date, YYYY-MM-DD
	Dropped    int            `json:"dropped"`
	Monthly    []MonthView    `json:"monthly"`
	Categories []CategoryView `json:"categories"`
	Comparison ComparisonView `json:"comparison"`
	Stats      StatsView      `json:"stats"`
	Budget     BudgetView     `json:"budget"`
}

// NewView renders report with the given currency symbol.
func NewView(report analytics.Report, dropped int, symbol string) View {
	amount := func(d decimal.Decimal) Amount {
		return Amount{Value: d, Formatted: money.FormatCurrency(symbol, d)}
	}

	v := View{
		Year:       report.Year,
		Date:       report.Now.Format("2006-01-02"),
		Dropped:    dropped,
		Monthly:    make([]MonthView, len(report.Monthly)),
		Categories: make([]CategoryView, len(report.Categories)),
	}
	for i, b := range report.Monthly {
		v.Monthly[i] = MonthView{Month: b.Label(), Amount: amount(b.Total)}
	}
	for i, b := range report.Categories {
		v.Categories[i] = CategoryView{Label: b.Label, Amount: amount(b.Total)}
	}

	cmp := report.Comparison
	v.Comparison = ComparisonView{
		Current:   amount(cmp.CurrentTotal),
		Previous:  amount(cmp.PreviousTotal),
		Delta:     amount(cmp.Delta),
		Direction: cmp.Direction,
		Arrow:     money.Arrow(cmp.Direction),
	}

	top := report.Stats.TopCategory
	if top == "" {
		top = NoCategory
	}
	v.Stats = StatsView{
		Total:         amount(report.Stats.Total),
		Count:         report.Stats.Count,
		TopCategory:   top,
		MonthlyBudget: amount(report.Stats.MonthlyBudget),
	}

	b := report.Budget
	v.Budget = BudgetView{
		Limit:     amount(b.Limit),
		Spent:     amount(b.Spent),
		Remaining: amount(b.Remaining),
		Percent:   b.Percent.StringFixed(1),
		Alert:     b.Alert,
	}
	return v
}
