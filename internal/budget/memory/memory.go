// Package memory provides an in-memory Store, used as the default backend
// for local development and throughout the test suite.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/ledger"
)

type Store struct {
	mu           sync.Mutex
	loc          *time.Location
	defaultDaily core.Money

	expenses map[string]core.Expense
	order    []string // insertion order for stable listings
	catRows  map[core.Category]core.CategoryLimit
	dayRows  map[core.Day]core.DailyLimit
}

// New seeds one limit row per category; the set is fixed-size and never
// partial. Daily rows are created lazily with defaultDaily as ceiling.
func New(loc *time.Location, defaultCategory, defaultDaily core.Money) *Store {
	s := &Store{
		loc:          loc,
		defaultDaily: defaultDaily,
		expenses:     make(map[string]core.Expense),
		catRows:      make(map[core.Category]core.CategoryLimit),
		dayRows:      make(map[core.Day]core.DailyLimit),
	}
	for _, c := range core.Categories() {
		s.catRows[c] = core.CategoryLimit{Category: c, Limit: defaultCategory}
	}
	return s
}

func (s *Store) InsertExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	return e, ok, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; ok {
		s.expenses[e.ID] = e
	}
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return nil
	}
	delete(s.expenses, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.expenses[id])
	}
	return out, nil
}

func (s *Store) ExpensesBetween(_ context.Context, from, to core.Day) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, id := range s.order {
		e := s.expenses[id]
		d := core.DayIn(e.Date, s.loc)
		if !d.Before(from) && !d.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CategoryLimits(_ context.Context) ([]core.CategoryLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CategoryLimit, 0, len(s.catRows))
	for _, c := range core.Categories() {
		out = append(out, s.catRows[c])
	}
	return out, nil
}

func (s *Store) DailyLimit(_ context.Context, day core.Day) (core.DailyLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayRowLocked(day), nil
}

func (s *Store) SetCategoryCeiling(_ context.Context, c core.Category, limit core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.catRows[c]
	row.Limit = limit
	s.catRows[c] = row
	return nil
}

func (s *Store) SetDailyCeiling(_ context.Context, day core.Day, limit core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.dayRowLocked(day)
	row.Limit = limit
	s.dayRows[day] = row
	return nil
}

func (s *Store) AdjustCurrents(_ context.Context, adj ledger.Adjustment, day core.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustLocked(adj, day)
	return nil
}

func (s *Store) ApplyImport(_ context.Context, batch []core.Expense, adj ledger.Adjustment, day core.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range batch {
		if _, ok := s.expenses[e.ID]; !ok {
			s.order = append(s.order, e.ID)
		}
		s.expenses[e.ID] = e
	}
	s.adjustLocked(adj, day)
	return nil
}

func (s *Store) RecomputeCurrents(_ context.Context, today core.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c, row := range s.catRows {
		row.Current = core.Money{}
		s.catRows[c] = row
	}
	for d, row := range s.dayRows {
		row.Current = core.Money{}
		s.dayRows[d] = row
	}
	// Make sure today's row exists even with no expenses dated today.
	s.dayRows[today] = s.dayRowLocked(today)

	for _, e := range s.expenses {
		row := s.catRows[e.Category]
		row.Current.Cents += e.Amount.Cents
		s.catRows[e.Category] = row

		d := core.DayIn(e.Date, s.loc)
		if dayRow, ok := s.dayRows[d]; ok {
			dayRow.Current.Cents += e.Amount.Cents
			s.dayRows[d] = dayRow
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) adjustLocked(adj ledger.Adjustment, day core.Day) {
	for c, cents := range adj.ByCategory {
		row := s.catRows[c]
		row.Current.Cents += cents
		s.catRows[c] = row
	}
	if adj.Daily != 0 {
		row := s.dayRowLocked(day)
		row.Current.Cents += adj.Daily
		s.dayRows[day] = row
	}
}

// dayRowLocked returns day's limit row, creating it with the default
// ceiling on first touch. Callers hold the mutex.
func (s *Store) dayRowLocked(day core.Day) core.DailyLimit {
	if row, ok := s.dayRows[day]; ok {
		return row
	}
	row := core.DailyLimit{Day: day, Limit: s.defaultDaily}
	s.dayRows[day] = row
	return row
}
