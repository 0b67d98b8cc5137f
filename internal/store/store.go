// Package store fetches raw expense records for the analytics. Stores hand
// back records exactly as they hold them; validation is left to the
// normalize package.
package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finewise-dev/finewise/internal/analytics"
	"github.com/finewise-dev/finewise/internal/model"
)

// Store is a source of expense records.
type Store interface {
	Expenses(ctx context.Context, q Query) ([]model.RawExpense, error)
}

// Query narrows a fetch. Zero Start/End mean unbounded; zero Limit means no limit.
type Query struct {
	Start time.Time
	End   time.Time
	Limit int
	// Undated asks stores that can see unreadable dates to return those
	// records as well. A record without a date matches no range, so only one
	// query of a batch should set it.
	Undated bool
}

// Contains reports whether t falls on or between Start and End, by calendar day.
func (q Query) Contains(t time.Time) bool {
	day := startOfDay(t)
	if !q.Start.IsZero() && day.Before(startOfDay(q.Start.In(t.Location()))) {
		return false
	}
	if !q.End.IsZero() && day.After(startOfDay(q.End.In(t.Location()))) {
		return false
	}
	return true
}

// YearQuery covers Jan 1 through Dec 31 of year in loc.
func YearQuery(year int, loc *time.Location, limit int) Query {
	return Query{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
		Limit: limit,
	}
}

// MonthQuery covers one calendar month in loc.
func MonthQuery(year int, month time.Month, loc *time.Location, limit int) Query {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Query{
		Start: start,
		End:   start.AddDate(0, 1, -1),
		Limit: limit,
	}
}

// FetchWindow fetches everything a Report for (now, year) reads: the whole
// of year, plus now's month and the month before it when they lie outside
// year (January compares against the previous December). The fetches run
// concurrently. Undated records come back with the year query only.
func FetchWindow(ctx context.Context, s Store, now time.Time, year, limit int) ([]model.RawExpense, error) {
	loc := now.Location()
	yq := YearQuery(year, loc, limit)
	yq.Undated = true
	queries := []Query{yq}
	py, pm := analytics.PreviousMonth(now.Year(), now.Month())
	for _, m := range []struct {
		year  int
		month time.Month
	}{{py, pm}, {now.Year(), now.Month()}} {
		if m.year != year {
			queries = append(queries, MonthQuery(m.year, m.month, loc, limit))
		}
	}

	results := make([][]model.RawExpense, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			recs, err := s.Expenses(ctx, q)
			if err != nil {
				return fmt.Errorf("fetching %s..%s: %w", q.Start.Format(dateFormat), q.End.Format(dateFormat), err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.RawExpense
	for _, recs := range results {
		all = append(all, recs...)
	}
	return all, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
