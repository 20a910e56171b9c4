package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"food", CategoryFood, false},
		{" Travel ", CategoryTravel, false},
		{"SHOPPING", CategoryShopping, false},
		{"groceries", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidCategory) {
				t.Errorf("error should wrap ErrInvalidCategory, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoriesOrder(t *testing.T) {
	want := []Category{CategoryFood, CategoryTravel, CategoryBills, CategoryEntertainment, CategoryShopping, CategoryOther}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		ID:       "x",
		Title:    "Lunch",
		Amount:   Money{Cents: 1200},
		Category: CategoryFood,
		Date:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{"valid", func(e *Expense) {}, nil},
		{"empty title", func(e *Expense) { e.Title = "  " }, ErrEmptyTitle},
		{"long title", func(e *Expense) { e.Title = strings.Repeat("a", 201) }, nil},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"bad category", func(e *Expense) { e.Category = "misc" }, ErrInvalidCategory},
		{"zero date", func(e *Expense) { e.Date = time.Time{} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.name == "valid" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseImported(t *testing.T) {
	e := Expense{Source: SourceImported, Notes: "whatever"}
	if !e.Imported() {
		t.Error("source=imported should report Imported()")
	}
	e = Expense{Source: SourceManual, Notes: "imported-looking note"}
	if e.Imported() {
		t.Error("notes must not influence Imported()")
	}
}
