// Package ledger implements the aggregation rules that keep the derived
// running totals (per-category current spend, today's current spend)
// consistent with the underlying expense set. Every mutation maps to an
// Adjustment, which stores then apply to their limit rows.
package ledger

import (
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
)

// Calendar fixes the day-bucketing rule for a single evaluation: one
// location, one "today". Mutations that compare dates must all go through
// the same Calendar so an operation cannot straddle midnight.
type Calendar struct {
	Loc   *time.Location
	Today core.Day
}

// NewCalendar builds a Calendar for now in loc.
func NewCalendar(now time.Time, loc *time.Location) Calendar {
	return Calendar{Loc: loc, Today: core.DayIn(now, loc)}
}

// IsToday reports whether t falls on the calendar's day.
func (c Calendar) IsToday(t time.Time) bool {
	return core.DayIn(t, c.Loc) == c.Today
}

// Adjustment holds the cent deltas a mutation applies to the limit rows.
// A nil/empty ByCategory and zero Daily means no change.
type Adjustment struct {
	ByCategory map[core.Category]int64
	Daily      int64
}

func (a Adjustment) IsZero() bool {
	if a.Daily != 0 {
		return false
	}
	for _, d := range a.ByCategory {
		if d != 0 {
			return false
		}
	}
	return true
}

func (a *Adjustment) addCategory(c core.Category, cents int64) {
	if cents == 0 {
		return
	}
	if a.ByCategory == nil {
		a.ByCategory = make(map[core.Category]int64)
	}
	a.ByCategory[c] += cents
	if a.ByCategory[c] == 0 {
		delete(a.ByCategory, c)
	}
}

// ForAdd returns the adjustment for appending e.
func ForAdd(cal Calendar, e core.Expense) Adjustment {
	var adj Adjustment
	adj.addCategory(e.Category, e.Amount.Cents)
	if cal.IsToday(e.Date) {
		adj.Daily = e.Amount.Cents
	}
	return adj
}

// ForDelete returns the adjustment for removing e.
func ForDelete(cal Calendar, e core.Expense) Adjustment {
	var adj Adjustment
	adj.addCategory(e.Category, -e.Amount.Cents)
	if cal.IsToday(e.Date) {
		adj.Daily = -e.Amount.Cents
	}
	return adj
}

// ForUpdate reconciles totals when old is replaced by updated.
//
// Categories: same category adjusts by the amount delta; a category move
// subtracts the old amount from the old category and adds the new amount to
// the new one. The daily total compares whether the old and new dates fall
// on today: both (amount delta), left today (minus old), entered today
// (plus new), neither (no change).
func ForUpdate(cal Calendar, old, updated core.Expense) Adjustment {
	var adj Adjustment

	if old.Category == updated.Category {
		adj.addCategory(old.Category, updated.Amount.Cents-old.Amount.Cents)
	} else {
		adj.addCategory(old.Category, -old.Amount.Cents)
		adj.addCategory(updated.Category, updated.Amount.Cents)
	}

	oldToday := cal.IsToday(old.Date)
	newToday := cal.IsToday(updated.Date)
	switch {
	case oldToday && newToday:
		adj.Daily = updated.Amount.Cents - old.Amount.Cents
	case oldToday:
		adj.Daily = -old.Amount.Cents
	case newToday:
		adj.Daily = updated.Amount.Cents
	}

	return adj
}

// ForImport sums a whole accepted batch into one adjustment: one delta per
// touched category plus a single daily delta, instead of one update per item.
func ForImport(cal Calendar, batch []core.Expense) Adjustment {
	var adj Adjustment
	for _, e := range batch {
		adj.addCategory(e.Category, e.Amount.Cents)
		if cal.IsToday(e.Date) {
			adj.Daily += e.Amount.Cents
		}
	}
	return adj
}
