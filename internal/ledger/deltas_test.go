package ledger

import (
	"testing"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
)

var (
	testNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	cal     = NewCalendar(testNow, time.UTC)
)

func expense(cat core.Category, cents int64, date time.Time) core.Expense {
	return core.Expense{
		ID:       "e1",
		Title:    "t",
		Amount:   core.Money{Cents: cents},
		Category: cat,
		Date:     date,
	}
}

func TestForAdd(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		e         core.Expense
		wantCat   int64
		wantDaily int64
	}{
		{"today counts toward daily", expense(core.CategoryFood, 2000, testNow), 2000, 2000},
		{"yesterday does not", expense(core.CategoryFood, 2000, yesterday), 2000, 0},
		{"late evening still today", expense(core.CategoryBills, 500, time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)), 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := ForAdd(cal, tt.e)
			if got := adj.ByCategory[tt.e.Category]; got != tt.wantCat {
				t.Errorf("category delta = %d, want %d", got, tt.wantCat)
			}
			if adj.Daily != tt.wantDaily {
				t.Errorf("daily delta = %d, want %d", adj.Daily, tt.wantDaily)
			}
		})
	}
}

func TestForDeleteMirrorsAdd(t *testing.T) {
	e := expense(core.CategoryTravel, 1875, testNow)
	add := ForAdd(cal, e)
	del := ForDelete(cal, e)
	if del.ByCategory[core.CategoryTravel] != -add.ByCategory[core.CategoryTravel] {
		t.Errorf("delete category delta %d does not mirror add %d",
			del.ByCategory[core.CategoryTravel], add.ByCategory[core.CategoryTravel])
	}
	if del.Daily != -add.Daily {
		t.Errorf("delete daily delta %d does not mirror add %d", del.Daily, add.Daily)
	}
}

func TestForUpdateCategoryMove(t *testing.T) {
	old := expense(core.CategoryFood, 2000, testNow)
	updated := expense(core.CategoryTravel, 3000, testNow)

	adj := ForUpdate(cal, old, updated)

	if got := adj.ByCategory[core.CategoryFood]; got != -2000 {
		t.Errorf("food delta = %d, want -2000", got)
	}
	if got := adj.ByCategory[core.CategoryTravel]; got != 3000 {
		t.Errorf("travel delta = %d, want 3000", got)
	}
	if len(adj.ByCategory) != 2 {
		t.Errorf("no other category may change, got %v", adj.ByCategory)
	}
	if adj.Daily != 1000 {
		t.Errorf("daily delta = %d, want 1000", adj.Daily)
	}
}

func TestForUpdateSameCategory(t *testing.T) {
	old := expense(core.CategoryFood, 2000, testNow)
	updated := expense(core.CategoryFood, 2500, testNow)

	adj := ForUpdate(cal, old, updated)
	if got := adj.ByCategory[core.CategoryFood]; got != 500 {
		t.Errorf("food delta = %d, want 500", got)
	}
	if len(adj.ByCategory) != 1 {
		t.Errorf("only food may change, got %v", adj.ByCategory)
	}
}

func TestForUpdateDailyTransitions(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		oldDate   time.Time
		newDate   time.Time
		wantDaily int64
	}{
		{"both today", testNow, testNow, 1000},
		{"left today", testNow, yesterday, -2000},
		{"entered today", yesterday, testNow, 3000},
		{"neither today", yesterday, yesterday.AddDate(0, 0, -3), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := expense(core.CategoryOther, 2000, tt.oldDate)
			updated := expense(core.CategoryOther, 3000, tt.newDate)
			adj := ForUpdate(cal, old, updated)
			if adj.Daily != tt.wantDaily {
				t.Errorf("daily delta = %d, want %d", adj.Daily, tt.wantDaily)
			}
		})
	}
}

func TestForImportSumsBatch(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	batch := []core.Expense{
		expense(core.CategoryFood, 450, testNow),
		expense(core.CategoryFood, 575, testNow),
		expense(core.CategoryTravel, 275, yesterday),
	}

	adj := ForImport(cal, batch)

	if got := adj.ByCategory[core.CategoryFood]; got != 1025 {
		t.Errorf("food delta = %d, want 1025", got)
	}
	if got := adj.ByCategory[core.CategoryTravel]; got != 275 {
		t.Errorf("travel delta = %d, want 275", got)
	}
	if adj.Daily != 1025 {
		t.Errorf("daily delta = %d, want 1025 (yesterday's row excluded)", adj.Daily)
	}
}

func TestAdjustmentIsZero(t *testing.T) {
	if !(Adjustment{}).IsZero() {
		t.Error("empty adjustment should be zero")
	}
	adj := ForImport(cal, nil)
	if !adj.IsZero() {
		t.Error("empty batch should yield zero adjustment")
	}
	// Same-category same-amount update cancels out entirely.
	e := expense(core.CategoryFood, 100, testNow)
	if got := ForUpdate(cal, e, e); !got.IsZero() {
		t.Errorf("no-op update should be zero, got %+v", got)
	}
}
