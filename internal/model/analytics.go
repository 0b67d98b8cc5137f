package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Uncategorized labels the bucket for expenses without a category.
const Uncategorized = "Uncategorized"

// Direction is the sign of a month-over-month change.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// MonthlyBucket is one calendar month's spending total.
type MonthlyBucket struct {
	MonthIndex int             `json:"month_index"` // 0 = January
	Total      decimal.Decimal `json:"total"`
}

// Label returns the short month name ("Jan".."Dec").
func (b MonthlyBucket) Label() string {
	return time.Month(b.MonthIndex + 1).String()[:3]
}

// CategoryBucket is one category's spending total.
type CategoryBucket struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// Comparison is the current month measured against the previous one.
type Comparison struct {
	CurrentTotal  decimal.Decimal `json:"current_total"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	Delta         decimal.Decimal `json:"delta"` // always >= 0
	Direction     Direction       `json:"direction"`
}
