package memory

import (
	"context"
	"testing"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/ledger"
)

var (
	defaultCat   = core.Money{Cents: 100000}
	defaultDaily = core.Money{Cents: 10000}
)

func newStore() *Store {
	return New(time.UTC, defaultCat, defaultDaily)
}

func TestNewSeedsAllCategoryRows(t *testing.T) {
	s := newStore()
	rows, err := s.CategoryLimits(context.Background())
	if err != nil {
		t.Fatalf("CategoryLimits: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	for i, c := range core.Categories() {
		if rows[i].Category != c {
			t.Errorf("row %d = %v, want %v", i, rows[i].Category, c)
		}
		if rows[i].Limit != defaultCat || rows[i].Current.Cents != 0 {
			t.Errorf("row %v not seeded with defaults: %+v", c, rows[i])
		}
	}
}

func TestExpenseCRUD(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	e := core.Expense{
		ID:       "e1",
		Title:    "Lunch",
		Amount:   core.Money{Cents: 1200},
		Category: core.CategoryFood,
		Date:     time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Source:   core.SourceManual,
	}

	if err := s.InsertExpense(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok, err := s.GetExpense(ctx, "e1")
	if err != nil || !ok || got.Title != "Lunch" {
		t.Fatalf("get: got=%+v ok=%v err=%v", got, ok, err)
	}

	e.Amount = core.Money{Cents: 1500}
	if err := s.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _, _ = s.GetExpense(ctx, "e1")
	if got.Amount.Cents != 1500 {
		t.Errorf("update not applied: %+v", got)
	}

	if err := s.DeleteExpense(ctx, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.GetExpense(ctx, "e1"); ok {
		t.Error("expense still present after delete")
	}
	// Deleting again is a no-op.
	if err := s.DeleteExpense(ctx, "e1"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestExpensesBetweenInclusive(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	for i, day := range []int{10, 15, 20} {
		e := core.Expense{
			ID:       string(rune('a' + i)),
			Title:    "x",
			Amount:   core.Money{Cents: 100},
			Category: core.CategoryOther,
			Date:     time.Date(2024, 6, day, 8, 0, 0, 0, time.UTC),
		}
		if err := s.InsertExpense(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.ExpensesBetween(ctx,
		core.Day{Year: 2024, Month: time.June, Date: 10},
		core.Day{Year: 2024, Month: time.June, Date: 15})
	if err != nil {
		t.Fatalf("between: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected both boundary days included, got %d rows", len(got))
	}
}

func TestDailyLimitCreatedWithDefault(t *testing.T) {
	s := newStore()
	day := core.Day{Year: 2024, Month: time.June, Date: 15}
	row, err := s.DailyLimit(context.Background(), day)
	if err != nil {
		t.Fatalf("DailyLimit: %v", err)
	}
	if row.Day != day || row.Limit != defaultDaily || row.Current.Cents != 0 {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestAdjustAndRecompute(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	today := core.Day{Year: 2024, Month: time.June, Date: 15}

	e := core.Expense{
		ID:       "e1",
		Title:    "Lunch",
		Amount:   core.Money{Cents: 1200},
		Category: core.CategoryFood,
		Date:     time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	if err := s.InsertExpense(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	adj := ledger.Adjustment{ByCategory: map[core.Category]int64{core.CategoryFood: 1200}, Daily: 1200}
	if err := s.AdjustCurrents(ctx, adj, today); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	rows, _ := s.CategoryLimits(ctx)
	if rows[0].Current.Cents != 1200 {
		t.Errorf("food current = %d, want 1200", rows[0].Current.Cents)
	}
	daily, _ := s.DailyLimit(ctx, today)
	if daily.Current.Cents != 1200 {
		t.Errorf("daily current = %d, want 1200", daily.Current.Cents)
	}

	// Corrupt the totals, then recompute from the expense set.
	bogus := ledger.Adjustment{ByCategory: map[core.Category]int64{core.CategoryFood: 9999}, Daily: -500}
	if err := s.AdjustCurrents(ctx, bogus, today); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := s.RecomputeCurrents(ctx, today); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	rows, _ = s.CategoryLimits(ctx)
	if rows[0].Current.Cents != 1200 {
		t.Errorf("recomputed food current = %d, want 1200", rows[0].Current.Cents)
	}
	daily, _ = s.DailyLimit(ctx, today)
	if daily.Current.Cents != 1200 {
		t.Errorf("recomputed daily current = %d, want 1200", daily.Current.Cents)
	}
}

func TestApplyImportLandsBatchAndAdjustment(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	today := core.Day{Year: 2024, Month: time.June, Date: 15}
	when := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	batch := []core.Expense{
		{ID: "i1", Title: "Coffee Shop", Amount: core.Money{Cents: 450}, Category: core.CategoryFood, Date: when, Source: core.SourceImported},
		{ID: "i2", Title: "Bus Fare", Amount: core.Money{Cents: 275}, Category: core.CategoryTravel, Date: when, Source: core.SourceImported},
	}
	adj := ledger.Adjustment{
		ByCategory: map[core.Category]int64{core.CategoryFood: 450, core.CategoryTravel: 275},
		Daily:      725,
	}
	if err := s.ApplyImport(ctx, batch, adj, today); err != nil {
		t.Fatalf("ApplyImport: %v", err)
	}

	all, _ := s.ListExpenses(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(all))
	}
	daily, _ := s.DailyLimit(ctx, today)
	if daily.Current.Cents != 725 {
		t.Errorf("daily current = %d, want 725", daily.Current.Cents)
	}
}
