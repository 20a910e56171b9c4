// Package notify provides Notifier adapters for the outcome messages the
// engine emits after each operation.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
)

// LogNotifier writes notices to the structured log. It is the default
// sink for the server and worker binaries.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice budget.Notice) {
	switch notice.Level {
	case budget.NoticeError:
		n.logger.ErrorContext(ctx, notice.Title, "detail", notice.Message)
	case budget.NoticeInfo:
		n.logger.InfoContext(ctx, notice.Title, "detail", notice.Message)
	default:
		n.logger.InfoContext(ctx, notice.Title, "detail", notice.Message, "level", string(notice.Level))
	}
}

// Recorder collects notices in memory. Tests use it to assert on the
// outcome messages an operation produced.
type Recorder struct {
	mu      sync.Mutex
	notices []budget.Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, notice budget.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []budget.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]budget.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (budget.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return budget.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
