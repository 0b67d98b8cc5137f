// Package dashboard fetches expenses, runs the analytics and renders the
// results for display. It is the only place the store, the aggregators and
// the formatter meet.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/analytics"
	"github.com/finewise-dev/finewise/internal/normalize"
	"github.com/finewise-dev/finewise/internal/store"
)

// Options configures a Service.
type Options struct {
	Location       *time.Location
	Limit          int
	MonthlyBudget  decimal.Decimal
	AlertThreshold decimal.Decimal // percent of MonthlyBudget; zero means analytics.DefaultAlertThreshold
	CurrencySymbol string
	Logger         *slog.Logger
}

// Service produces dashboard views. It keeps no state between calls; each
// call fetches fresh data.
type Service struct {
	store  store.Store
	loc    *time.Location
	limit  int
	budget analytics.Budget
	symbol string
	logger *slog.Logger
}

// NewService creates a dashboard Service reading from st.
func NewService(st store.Store, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.AlertThreshold
	if threshold.IsZero() {
		threshold = analytics.DefaultAlertThreshold
	}
	return &Service{
		store:  st,
		loc:    loc,
		limit:  opts.Limit,
		budget: analytics.Budget{Monthly: opts.MonthlyBudget, AlertThreshold: threshold},
		symbol: opts.CurrencySymbol,
		logger: logger,
	}
}

// Location returns the time zone calendar months are read in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Report fetches the expenses around now and builds the dashboard for year.
func (s *Service) Report(ctx context.Context, now time.Time, year int) (View, error) {
	if now.IsZero() {
		return View{}, analytics.ErrNoReferenceDate
	}
	now = now.In(s.loc)

	raws, err := store.FetchWindow(ctx, s.store, now, year, s.limit)
	if err != nil {
		return View{}, fmt.Errorf("fetching expenses: %w", err)
	}

	res := normalize.Normalize(raws, s.loc)
	for _, d := range res.Drops {
		s.logger.Debug("skipping expense", "index", d.Index, "field", d.Field, "value", d.Value, "error", d.Err)
	}
	if res.Dropped() > 0 {
		s.logger.Info("skipped unusable expenses", "dropped", res.Dropped(), "kept", len(res.Expenses))
	}

	report, err := analytics.Build(res.Expenses, now, year, s.budget)
	if err != nil {
		return View{}, err
	}
	return NewView(report, res.Dropped(), s.symbol), nil
}
