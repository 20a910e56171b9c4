// Package budget declares the outbound ports of the aggregation engine:
// the persistent store, the remote payment source, the notification sink
// and the event publisher. Adapters live in sibling packages.
package budget

import (
	"context"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/ledger"
)

// Ports for outbound adapters.
type (
	// Store persists expenses and limit rows for one user. Implementations
	// must treat ApplyImport as atomic: either every accepted row and the
	// aggregate adjustment land, or nothing does.
	Store interface {
		InsertExpense(ctx context.Context, e core.Expense) error
		GetExpense(ctx context.Context, id string) (core.Expense, bool, error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// ExpensesBetween returns expenses whose calendar day falls in
		// [from, to], both inclusive.
		ExpensesBetween(ctx context.Context, from, to core.Day) ([]core.Expense, error)

		CategoryLimits(ctx context.Context) ([]core.CategoryLimit, error)
		// DailyLimit returns the limit row for day, creating it with the
		// default ceiling if none exists yet.
		DailyLimit(ctx context.Context, day core.Day) (core.DailyLimit, error)
		SetCategoryCeiling(ctx context.Context, c core.Category, limit core.Money) error
		SetDailyCeiling(ctx context.Context, day core.Day, limit core.Money) error

		// AdjustCurrents applies the cent deltas of one mutation; the daily
		// part targets day's row.
		AdjustCurrents(ctx context.Context, adj ledger.Adjustment, day core.Day) error
		// ApplyImport lands a batch of accepted expenses and its summed
		// adjustment together.
		ApplyImport(ctx context.Context, batch []core.Expense, adj ledger.Adjustment, day core.Day) error
		// RecomputeCurrents rebuilds every running total from the expense
		// set, restoring the aggregation invariant after drift.
		RecomputeCurrents(ctx context.Context, today core.Day) error

		Close() error
	}

	// Payment is a candidate transaction as received from the remote
	// source. Any field may be missing; the engine decides what to skip.
	Payment struct {
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"`
		Category string  `json:"category,omitempty"`
		Notes    string  `json:"notes,omitempty"`
	}

	// PaymentSource fetches candidate transactions from the external
	// payment provider. A failed fetch commits nothing.
	PaymentSource interface {
		Fetch(ctx context.Context) ([]Payment, error)
	}

	// Notice is a human-readable outcome message for the user.
	Notice struct {
		Level   NoticeLevel
		Title   string
		Message string
	}

	NoticeLevel string

	// Notifier delivers outcome messages for add/update/delete/import and
	// limit changes.
	Notifier interface {
		Notify(ctx context.Context, n Notice)
	}

	// EventPublisher announces committed mutations so downstream workers
	// can react. Publish failures must not fail the originating operation.
	EventPublisher interface {
		PublishExpenseChanged(ctx context.Context, action, expenseID string) error
		PublishImportCompleted(ctx context.Context, accepted int) error
	}
)

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)
