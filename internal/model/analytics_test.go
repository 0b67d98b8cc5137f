package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyBucketLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "Jan"},
		{5, "Jun"},
		{11, "Dec"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MonthlyBucket{MonthIndex: tt.index}.Label(), "Label(%d)", tt.index)
	}
}

func TestRawExpenseDecode(t *testing.T) {
	data := `[
		{"id": 1, "amount": 12.5, "transaction_date": "2024-03-01", "category": {"id": 2, "name": "Food"}},
		{"id": 2, "amount": "abc", "transaction_date": null, "category": null}
	]`

	var got []RawExpense
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	require.Len(t, got, 2)

	assert.Equal(t, RawValue("12.5"), got[0].Amount)
	assert.Equal(t, RawValue("2024-03-01"), got[0].TransactionDate)
	require.NotNil(t, got[0].Category)
	assert.Equal(t, "Food", got[0].Category.Name)

	assert.Equal(t, RawValue("abc"), got[1].Amount)
	assert.Equal(t, RawValue(""), got[1].TransactionDate)
	assert.Nil(t, got[1].Category)
}
