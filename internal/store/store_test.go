package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finewise-dev/finewise/internal/model"
)

// recordingStore returns one record per query, dated at the query start.
type recordingStore struct {
	mu      sync.Mutex
	queries []Query
	err     error
}

func (s *recordingStore) Expenses(_ context.Context, q Query) ([]model.RawExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return []model.RawExpense{{Amount: "1", TransactionDate: model.RawValue(q.Start.Format(dateFormat))}}, nil
}

func (s *recordingStore) starts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, q := range s.queries {
		out = append(out, q.Start.Format(dateFormat)+".."+q.End.Format(dateFormat))
	}
	return out
}

func TestFetchWindow_SameYear(t *testing.T) {
	s := &recordingStore{}
	now := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	got, err := FetchWindow(context.Background(), s, now, 2024, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"2024-01-01..2024-12-31"}, s.starts())
	assert.Equal(t, 1000, s.queries[0].Limit)
}

func TestFetchWindow_JanuaryFetchesPreviousDecember(t *testing.T) {
	s := &recordingStore{}
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	got, err := FetchWindow(context.Background(), s, now, 2024, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"2024-01-01..2024-12-31", "2023-12-01..2023-12-31"}, s.starts())
}

func TestFetchWindow_OtherYear(t *testing.T) {
	s := &recordingStore{}
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := FetchWindow(context.Background(), s, now, 2022, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"2022-01-01..2022-12-31",
		"2024-02-01..2024-02-29",
		"2024-03-01..2024-03-31",
	}, s.starts())
}

func TestFetchWindow_UndatedOnYearQueryOnly(t *testing.T) {
	s := &recordingStore{}
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := FetchWindow(context.Background(), s, now, 2022, 0)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	undated := 0
	for _, q := range s.queries {
		if q.Undated {
			undated++
			assert.Equal(t, 2022, q.Start.Year())
		}
	}
	assert.Equal(t, 1, undated)
}

func TestFetchWindow_CSVUndatedRowsReturnedOnce(t *testing.T) {
	path := writeCSV(t, ""+
		"1,100,2024-01-05,Food,\n"+
		"2,10,not-a-date,Food,\n"+
		"3,40,2023-12-20,Food,\n")
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	got, err := FetchWindow(context.Background(), NewCSVStore(path, time.UTC), now, 2024, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, expenseIDs(got))
}

func TestFetchWindow_Error(t *testing.T) {
	s := &recordingStore{err: errors.New("boom")}
	now := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	_, err := FetchWindow(context.Background(), s, now, 2024, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestQueryContains(t *testing.T) {
	q := MonthQuery(2024, time.February, time.UTC, 0)
	assert.True(t, q.Contains(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, q.Contains(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))
	assert.False(t, q.Contains(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, q.Contains(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)))

	assert.True(t, Query{}.Contains(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
