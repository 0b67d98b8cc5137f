// Package normalize turns raw expense-store records into aggregation-ready
// expenses. Records whose date or amount cannot be parsed are skipped and
// reported as drops; they never fail the batch.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

// Layouts accepted for transaction dates, tried in order. Date-only and
// zone-less values are read in the caller's location.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var (
	errEmptyDate   = errors.New("empty transaction date")
	errEmptyAmount = errors.New("empty amount")
)

// Drop records a raw expense that was skipped.
type Drop struct {
	Index int    // position in the input
	Field string // "transaction_date" or "amount"
	Value string
	Err   error
}

func (d Drop) Error() string {
	return fmt.Sprintf("record %d: %s %q: %v", d.Index, d.Field, d.Value, d.Err)
}

// Result is the output of Normalize.
type Result struct {
	Expenses []model.Expense
	Drops    []Drop
}

// Dropped returns how many input records were skipped.
func (r Result) Dropped() int {
	return len(r.Drops)
}

// Normalize validates raws in order. loc is the calendar the dates are read
// in; nil means time.Local.
func Normalize(raws []model.RawExpense, loc *time.Location) Result {
	if loc == nil {
		loc = time.Local
	}

	res := Result{Expenses: make([]model.Expense, 0, len(raws))}
	for i, raw := range raws {
		date, err := ParseDate(string(raw.TransactionDate), loc)
		if err != nil {
			res.Drops = append(res.Drops, Drop{Index: i, Field: "transaction_date", Value: string(raw.TransactionDate), Err: err})
			continue
		}

		amount, err := ParseAmount(string(raw.Amount))
		if err != nil {
			res.Drops = append(res.Drops, Drop{Index: i, Field: "amount", Value: string(raw.Amount), Err: err})
			continue
		}

		res.Expenses = append(res.Expenses, model.Expense{
			Amount:   amount,
			Date:     date,
			Category: categoryLabel(raw.Category),
		})
	}
	return res
}

// ParseDate parses a transaction date in loc. Values carrying their own
// offset are converted to loc so the calendar month is the local one.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyDate
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parsing date: %w", lastErr)
}

// ParseAmount parses a decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount: %w", err)
	}
	return d, nil
}

func categoryLabel(c *model.Category) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Name)
}
