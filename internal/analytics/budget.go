package analytics

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultAlertThreshold is the share of the budget, in percent, at which
// spending is flagged.
var DefaultAlertThreshold = decimal.NewFromInt(80)

// Budget is a monthly spending limit.
type Budget struct {
	Monthly        decimal.Decimal
	AlertThreshold decimal.Decimal // percent of Monthly
}

// BudgetUsage is how much of the monthly budget the reference month used.
type BudgetUsage struct {
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"` // negative once over budget
	Percent   decimal.Decimal `json:"percent"`   // 0..100, one decimal place
	Alert     bool            `json:"alert"`
}

// BudgetStatus measures spent against b. Percent is capped at 100 and the
// alert fires once it reaches the threshold. A budget that is not positive
// has no usage and never alerts.
func BudgetStatus(spent decimal.Decimal, b Budget) BudgetUsage {
	u := BudgetUsage{
		Limit:     b.Monthly,
		Spent:     spent,
		Remaining: b.Monthly.Sub(spent),
		Percent:   decimal.Zero,
	}
	if !b.Monthly.IsPositive() {
		return u
	}

	pct := spent.Mul(hundred).Div(b.Monthly)
	switch {
	case pct.GreaterThan(hundred):
		pct = hundred
	case pct.IsNegative():
		pct = decimal.Zero
	}
	u.Percent = pct.Round(1)
	u.Alert = pct.GreaterThanOrEqual(b.AlertThreshold)
	return u
}
