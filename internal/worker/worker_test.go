package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/events"
)

type countingService struct {
	mu         sync.Mutex
	reconciles int
	imports    int
	err        error
}

func (s *countingService) Reconcile(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciles++
	return s.err
}

func (s *countingService) ImportBatch(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imports++
	return 2, s.err
}

func (s *countingService) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciles, s.imports
}

func TestReconcilerHandleMessage(t *testing.T) {
	svc := &countingService{}
	r := NewReconciler(svc, time.Hour)

	msg := events.NewExpenseChangedMessage("created", "abc-123")
	if err := r.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if got, _ := svc.counts(); got != 1 {
		t.Errorf("reconciles = %d, want 1", got)
	}
}

func TestReconcilerHandleMessageError(t *testing.T) {
	svc := &countingService{err: errors.New("db locked")}
	r := NewReconciler(svc, time.Hour)

	msg := events.NewImportCompletedMessage(3)
	if err := r.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error to propagate for requeue")
	}
}

func TestReconcilerSweepRunsImmediately(t *testing.T) {
	svc := &countingService{}
	r := NewReconciler(svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.RunSweep(ctx) }()

	deadline := time.After(time.Second)
	for {
		if got, _ := svc.counts(); got >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("startup sweep never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("RunSweep returned %v, want context.Canceled", err)
	}
}

func TestImportSchedulerRunsAndStops(t *testing.T) {
	svc := &countingService{}
	s := NewImportScheduler(svc, 10*time.Millisecond)

	s.Start(context.Background())

	deadline := time.After(time.Second)
	for {
		if _, got := svc.counts(); got >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scheduler never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	_, after := svc.counts()

	time.Sleep(50 * time.Millisecond)
	if _, final := svc.counts(); final != after {
		t.Errorf("imports continued after Stop: %d -> %d", after, final)
	}

	// Stop is idempotent
	s.Stop()
}

func TestImportSchedulerContextCancel(t *testing.T) {
	svc := &countingService{}
	s := NewImportScheduler(svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit on context cancel")
	}
}
