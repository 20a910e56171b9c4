// Package services holds the application layer: BudgetService coordinates
// stores, payment sources, notifications and events around the aggregation
// rules in the ledger package.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/ledger"
)

const importedNotes = "Auto-categorized from imported transaction"

// ErrSourceUnavailable marks an ImportBatch failure that came from the
// payment source rather than the store.
var ErrSourceUnavailable = errors.New("payment source unavailable")

// BudgetService implements the expense and limit operations on top of a
// Store. The notifier receives an outcome message for every operation;
// events, when configured, announce committed mutations to workers.
type BudgetService struct {
	store    budget.Store
	source   budget.PaymentSource
	notifier budget.Notifier
	events   budget.EventPublisher
	loc      *time.Location

	now func() time.Time
}

func NewBudgetService(store budget.Store, source budget.PaymentSource, notifier budget.Notifier, events budget.EventPublisher, loc *time.Location) *BudgetService {
	if loc == nil {
		loc = time.UTC
	}
	return &BudgetService{
		store:    store,
		source:   source,
		notifier: notifier,
		events:   events,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *BudgetService) calendar() ledger.Calendar {
	return ledger.NewCalendar(s.now(), s.loc)
}

// AddExpense validates and stores a new manual expense, then applies its
// deltas to the category and daily totals.
func (s *BudgetService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = s.now().In(s.loc)
	}
	if e.Source == "" {
		e.Source = core.SourceManual
	}
	e.Title = strings.TrimSpace(e.Title)

	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	cal := s.calendar()
	if err := s.store.InsertExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	if err := s.store.AdjustCurrents(ctx, ledger.ForAdd(cal, e), cal.Today); err != nil {
		return core.Expense{}, fmt.Errorf("adjust totals: %w", err)
	}

	s.notify(ctx, budget.Notice{
		Level:   budget.NoticeSuccess,
		Title:   "Expense Added",
		Message: fmt.Sprintf("%s - %s added to %s", e.Title, e.Amount.Dollars(), e.Category),
	})
	s.publishChanged(ctx, "created", e.ID)

	return e, nil
}

// DeleteExpense removes an expense and reverses its contribution to the
// running totals. Deleting an absent id is a no-op with an info notice.
func (s *BudgetService) DeleteExpense(ctx context.Context, id string) error {
	existing, found, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("look up expense: %w", err)
	}
	if !found {
		s.notify(ctx, budget.Notice{
			Level:   budget.NoticeInfo,
			Title:   "Nothing To Delete",
			Message: "The expense was already removed",
		})
		return nil
	}

	cal := s.calendar()
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := s.store.AdjustCurrents(ctx, ledger.ForDelete(cal, existing), cal.Today); err != nil {
		return fmt.Errorf("adjust totals: %w", err)
	}

	s.notify(ctx, budget.Notice{
		Level:   budget.NoticeSuccess,
		Title:   "Expense Deleted",
		Message: fmt.Sprintf("%s - %s removed", existing.Title, existing.Amount.Dollars()),
	})
	s.publishChanged(ctx, "deleted", id)

	return nil
}

// UpdateExpense replaces an expense's fields and reconciles every affected
// running total, including cross-category moves and date changes. Updating
// an absent id is a no-op with an info notice.
func (s *BudgetService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	old, found, err := s.store.GetExpense(ctx, e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("look up expense: %w", err)
	}
	if !found {
		s.notify(ctx, budget.Notice{
			Level:   budget.NoticeInfo,
			Title:   "Nothing To Update",
			Message: "The expense no longer exists",
		})
		return core.Expense{}, nil
	}

	// Source survives edits; an imported expense stays imported.
	e.Source = old.Source
	e.Title = strings.TrimSpace(e.Title)
	if e.Date.IsZero() {
		e.Date = old.Date
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	cal := s.calendar()
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := s.store.AdjustCurrents(ctx, ledger.ForUpdate(cal, old, e), cal.Today); err != nil {
		return core.Expense{}, fmt.Errorf("adjust totals: %w", err)
	}

	s.notify(ctx, budget.Notice{
		Level:   budget.NoticeSuccess,
		Title:   "Expense Updated",
		Message: fmt.Sprintf("%s - %s in %s", e.Title, e.Amount.Dollars(), e.Category),
	})
	s.publishChanged(ctx, "updated", e.ID)

	return e, nil
}

// ImportBatch fetches candidate transactions from the payment source,
// categorizes the usable ones and lands them atomically. A source failure
// commits nothing; unusable rows are skipped, never failed on.
func (s *BudgetService) ImportBatch(ctx context.Context) (int, error) {
	payments, err := s.source.Fetch(ctx)
	if err != nil {
		s.notify(ctx, budget.Notice{
			Level:   budget.NoticeError,
			Title:   "Import Failed",
			Message: "Could not reach the payment source",
		})
		return 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	cal := s.calendar()
	batch := make([]core.Expense, 0, len(payments))
	skipped := 0

	for _, p := range payments {
		e, ok := s.expenseFromPayment(p)
		if !ok {
			skipped++
			continue
		}
		batch = append(batch, e)
	}

	if len(batch) > 0 {
		if err := s.store.ApplyImport(ctx, batch, ledger.ForImport(cal, batch), cal.Today); err != nil {
			return 0, fmt.Errorf("apply import: %w", err)
		}
	}

	slog.InfoContext(ctx, "Import batch processed",
		"fetched", len(payments),
		"accepted", len(batch),
		"skipped", skipped)

	if len(batch) == 0 {
		s.notify(ctx, budget.Notice{
			Level:   budget.NoticeInfo,
			Title:   "Nothing Imported",
			Message: "No usable transactions in this batch",
		})
	} else {
		s.notify(ctx, budget.Notice{
			Level:   budget.NoticeSuccess,
			Title:   "Import Complete",
			Message: fmt.Sprintf("%d transaction(s) imported", len(batch)),
		})
	}
	if s.events != nil {
		if err := s.events.PublishImportCompleted(ctx, len(batch)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish import event", "error", err)
		}
	}

	return len(batch), nil
}

// expenseFromPayment maps one fetched payment to an importable expense.
// Rows without a title, a positive amount or a parseable date are unusable.
func (s *BudgetService) expenseFromPayment(p budget.Payment) (core.Expense, bool) {
	title := strings.TrimSpace(p.Title)
	if title == "" || p.Amount <= 0 {
		return core.Expense{}, false
	}
	day, ok := s.paymentDay(p.Date)
	if !ok {
		return core.Expense{}, false
	}

	amount := core.MoneyFromFloat(p.Amount)
	if amount.Cents <= 0 {
		return core.Expense{}, false
	}

	category, err := core.ParseCategory(p.Category)
	if err != nil {
		category = core.Categorize(title, amount)
	}

	notes := strings.TrimSpace(p.Notes)
	if notes == "" {
		notes = importedNotes
	}

	return core.Expense{
		ID:       uuid.NewString(),
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     day.Time(s.loc),
		Notes:    notes,
		Source:   core.SourceImported,
	}, true
}

// paymentDay normalizes a payment's date to a calendar day. Feeds send
// either plain YYYY-MM-DD days or full ISO-8601 timestamps.
func (s *BudgetService) paymentDay(raw string) (core.Day, bool) {
	raw = strings.TrimSpace(raw)
	if day, err := core.ParseDay(raw); err == nil {
		return day, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return core.DayIn(t, s.loc), true
	}
	return core.Day{}, false
}

// SetDailyCeiling changes today's spending ceiling. The running total is
// untouched.
func (s *BudgetService) SetDailyCeiling(ctx context.Context, limit core.Money) error {
	if err := limit.Validate(); err != nil {
		return fmt.Errorf("validate limit: %w", err)
	}
	cal := s.calendar()
	if err := s.store.SetDailyCeiling(ctx, cal.Today, limit); err != nil {
		return fmt.Errorf("set daily ceiling: %w", err)
	}
	s.notify(ctx, budget.Notice{
		Level:   budget.NoticeSuccess,
		Title:   "Daily Limit Updated",
		Message: fmt.Sprintf("Today's ceiling is now %s", limit.Dollars()),
	})
	return nil
}

// SetCategoryCeiling changes one category's budget ceiling.
func (s *BudgetService) SetCategoryCeiling(ctx context.Context, category core.Category, limit core.Money) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidCategory, category)
	}
	if err := limit.Validate(); err != nil {
		return fmt.Errorf("validate limit: %w", err)
	}
	if err := s.store.SetCategoryCeiling(ctx, category, limit); err != nil {
		return fmt.Errorf("set category ceiling: %w", err)
	}
	s.notify(ctx, budget.Notice{
		Level:   budget.NoticeSuccess,
		Title:   "Category Limit Updated",
		Message: fmt.Sprintf("%s ceiling is now %s", category, limit.Dollars()),
	})
	return nil
}

// ListExpenses returns every stored expense, newest first per the store.
func (s *BudgetService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

// GetExpense fetches one expense by id.
func (s *BudgetService) GetExpense(ctx context.Context, id string) (core.Expense, bool, error) {
	return s.store.GetExpense(ctx, id)
}

// ExpensesOn returns the expenses of a single calendar day.
func (s *BudgetService) ExpensesOn(ctx context.Context, day core.Day) ([]core.Expense, error) {
	return s.store.ExpensesBetween(ctx, day, day)
}

// ExpensesInCurrentMonth returns this month's expenses, first day through
// last day inclusive.
func (s *BudgetService) ExpensesInCurrentMonth(ctx context.Context) ([]core.Expense, error) {
	from, to := core.MonthRange(s.now(), s.loc)
	return s.store.ExpensesBetween(ctx, from, to)
}

// CategoryLimits returns every category row with its ceiling and current.
func (s *BudgetService) CategoryLimits(ctx context.Context) ([]core.CategoryLimit, error) {
	return s.store.CategoryLimits(ctx)
}

// TodayLimit returns today's daily limit row, creating it on first touch.
func (s *BudgetService) TodayLimit(ctx context.Context) (core.DailyLimit, error) {
	return s.store.DailyLimit(ctx, s.calendar().Today)
}

// Reconcile rebuilds every running total from the stored expenses.
func (s *BudgetService) Reconcile(ctx context.Context) error {
	cal := s.calendar()
	if err := s.store.RecomputeCurrents(ctx, cal.Today); err != nil {
		return fmt.Errorf("recompute totals: %w", err)
	}
	slog.InfoContext(ctx, "Running totals reconciled", "day", cal.Today.String())
	return nil
}

func (s *BudgetService) notify(ctx context.Context, n budget.Notice) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, n)
	}
}

func (s *BudgetService) publishChanged(ctx context.Context, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseChanged(ctx, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"error", err,
			"action", action,
			"expense_id", id)
	}
}
