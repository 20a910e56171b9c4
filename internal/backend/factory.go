// Package backend builds the configured Store and PaymentSource from the
// application config.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget/memory"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/config"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/payments"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/storage"
)

// Factory builds storage and payment adapters from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the configured expense store. The returned cleanup
// func releases the store's resources; it is never nil.
func (f *Factory) CreateStore(cfg *config.Config) (budget.Store, func(), error) {
	loc := cfg.Location()
	defaultDaily := core.Money{Cents: int64(cfg.DefaultDailyLimit) * 100}
	defaultCategory := core.Money{Cents: int64(cfg.DefaultCategoryLimit) * 100}

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, loc, defaultCategory, defaultDaily)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, func() { _ = repo.Close() }, nil

	case "memory":
		store := memory.New(loc, defaultCategory, defaultDaily)
		f.logger.Info("Initialized memory backend")
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}

// CreatePaymentSource builds the configured payment source for imports.
func (f *Factory) CreatePaymentSource(ctx context.Context, cfg *config.Config) (budget.PaymentSource, error) {
	switch cfg.PaymentsSource {
	case "mock":
		f.logger.Info("Using mock payment source")
		return payments.NewMockSource(cfg.Location()), nil

	case "http":
		f.logger.Info("Using HTTP payment source", "url", cfg.PaymentsAPIURL)
		return payments.NewHTTPSource(cfg.PaymentsAPIURL, cfg.PaymentsToken), nil

	case "sheets":
		src, err := payments.NewSheetsSource(ctx, cfg.GoogleSpreadsheetID, cfg.GooglePaymentsRange)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets source: %w", err)
		}
		f.logger.Info("Using Google Sheets payment source", "range", cfg.GooglePaymentsRange)
		return src, nil

	default:
		return nil, fmt.Errorf("unsupported payments source: %s", cfg.PaymentsSource)
	}
}

// WaitForStore pings the store until it answers or the timeout elapses.
// The memory backend answers immediately; SQLite may still be running
// migrations on slow disks.
func WaitForStore(ctx context.Context, store budget.Store, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := store.CategoryLimits(ctx); err == nil {
			return nil
		} else if time.Now().After(deadline) {
			return fmt.Errorf("store not ready after %v: %w", timeout, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}
