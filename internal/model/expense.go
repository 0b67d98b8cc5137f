package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RawValue holds a field exactly as the expense store sent it.
// JSON numbers and strings both decode to their text; null decodes to "".
type RawValue string

// UnmarshalJSON accepts a JSON string, number or null.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(data)
	return nil
}

// Category is the category object attached to an expense by the store.
type Category struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// RawExpense is an expense record as returned by an expense store, before
// any validation. Only the fields the analytics read are kept.
type RawExpense struct {
	ID              int       `json:"id,omitempty"`
	Amount          RawValue  `json:"amount"`
	TransactionDate RawValue  `json:"transaction_date"`
	Category        *Category `json:"category"`
	Description     string    `json:"description,omitempty"`
}

// Expense is a normalized, aggregation-ready expense.
type Expense struct {
	Amount   decimal.Decimal
	Date     time.Time // in the caller's location; month/year are read from it directly
	Category string    // "" = uncategorized
}

// HasCategory reports whether the expense carries a category label.
func (e Expense) HasCategory() bool {
	return e.Category != ""
}
