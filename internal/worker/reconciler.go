// Package worker holds the background processes: the Reconciler repairs
// running totals after mutation events, the ImportScheduler pulls payment
// batches on an interval.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/events"
)

// Reconcilable is the slice of the budget service the reconciler needs.
type Reconcilable interface {
	Reconcile(ctx context.Context) error
}

// Reconciler rebuilds the running totals whenever a mutation event arrives
// and on a periodic sweep as a backstop for lost messages.
type Reconciler struct {
	svc           Reconcilable
	sweepInterval time.Duration
}

func NewReconciler(svc Reconcilable, sweepInterval time.Duration) *Reconciler {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Reconciler{
		svc:           svc,
		sweepInterval: sweepInterval,
	}
}

// HandleMessage processes one budget event. Every event kind triggers the
// same repair: recompute the totals from the stored expenses.
func (r *Reconciler) HandleMessage(ctx context.Context, msg *events.Message) error {
	slog.InfoContext(ctx, "Processing budget event",
		"kind", msg.Kind,
		"action", msg.Action,
		"expense_id", msg.ExpenseID,
		"accepted", msg.Accepted)

	if err := r.svc.Reconcile(ctx); err != nil {
		return fmt.Errorf("reconcile after %s: %w", msg.Kind, err)
	}
	return nil
}

// RunSweep reconciles on a fixed interval until ctx is cancelled. The
// first sweep runs immediately so a restarted worker repairs drift
// without waiting a full interval.
func (r *Reconciler) RunSweep(ctx context.Context) error {
	if err := r.svc.Reconcile(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup reconcile failed", "error", err)
	}

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping reconcile sweep", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := r.svc.Reconcile(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic reconcile failed", "error", err)
			}
		}
	}
}
