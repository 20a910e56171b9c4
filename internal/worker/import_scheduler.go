package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Importer is the slice of the budget service the scheduler needs.
type Importer interface {
	ImportBatch(ctx context.Context) (int, error)
}

// ImportScheduler pulls a payment batch on a fixed interval. A failed
// batch is logged and retried on the next tick.
type ImportScheduler struct {
	svc      Importer
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewImportScheduler(svc Importer, interval time.Duration) *ImportScheduler {
	return &ImportScheduler{
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduling loop. The first batch runs immediately.
func (s *ImportScheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *ImportScheduler) run(ctx context.Context) {
	defer close(s.done)

	slog.InfoContext(ctx, "Import scheduler started", "interval", s.interval)
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Import scheduler stopping", "reason", ctx.Err())
			return
		case <-s.stop:
			slog.InfoContext(ctx, "Import scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *ImportScheduler) runOnce(ctx context.Context) {
	accepted, err := s.svc.ImportBatch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled import failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Scheduled import finished", "accepted", accepted)
}

// Stop halts the loop and waits for the in-flight batch to finish.
func (s *ImportScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}
