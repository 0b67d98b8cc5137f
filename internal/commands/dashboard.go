package commands

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/config"
	"github.com/finewise-dev/finewise/internal/dashboard"
	"github.com/finewise-dev/finewise/internal/store"
)

// openDashboard resolves the config at path and wires a dashboard Service
// to the configured expense source.
func openDashboard(path string, logger *slog.Logger) (*config.Config, *dashboard.Service, error) {
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	budget, err := cfg.MonthlyBudget()
	if err != nil {
		return nil, nil, err
	}

	st, err := newStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	svc := dashboard.NewService(st, dashboard.Options{
		Location:       loc,
		Limit:          cfg.Source.Limit,
		MonthlyBudget:  budget,
		AlertThreshold: decimal.NewFromInt(int64(cfg.Budget.AlertThreshold)),
		CurrencySymbol: cfg.Locale.CurrencySymbol,
		Logger:         logger,
	})
	return cfg, svc, nil
}

func newStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Source.Kind {
	case config.SourceAPI:
		st, err := store.NewAPIStore(store.APIConfig{
			BaseURL:  cfg.Source.BaseURL,
			Token:    cfg.Source.Token,
			Timeout:  cfg.Source.Timeout,
			Attempts: cfg.Source.Retries,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating api store: %w", err)
		}
		logger.Debug("using api store", "base_url", cfg.Source.BaseURL)
		return st, nil
	default:
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		logger.Debug("using csv store", "path", cfg.Source.Path)
		return store.NewCSVStore(cfg.Source.Path, loc), nil
	}
}
