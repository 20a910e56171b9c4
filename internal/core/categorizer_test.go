package core

import "testing"

func TestCategorizeKeywords(t *testing.T) {
	tests := []struct {
		title  string
		amount int64
		want   Category
	}{
		{"Starbucks Coffee", 450, CategoryFood},
		{"Uber ride", 1875, CategoryTravel},
		{"GROCERY run", 6575, CategoryFood},
		{"Internet Bill", 7999, CategoryBills},
		{"Netflix", 1599, CategoryEntertainment},
		{"Amazon order", 3250, CategoryShopping},
		{"Totally Unrecognized Vendor", 4200, CategoryOther},
		// Declared order is load-bearing: "gas" (travel) matches before
		// "gas bill" (bills) gets a chance.
		{"Gas Bill", 4500, CategoryTravel},
		{"Water company", 3000, CategoryBills},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Categorize(tt.title, Money{Cents: tt.amount})
			if got != tt.want {
				t.Errorf("Categorize(%q, %d) = %v, want %v", tt.title, tt.amount, got, tt.want)
			}
		})
	}
}

func TestCategorizeHeuristics(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		amount int64
		want   Category
	}{
		{"store in range", "Random Store XYZ", 15000, CategoryShopping},
		{"store below range", "Random Store XYZ", 9000, CategoryOther},
		{"store above range", "Random Store XYZ", 35000, CategoryOther},
		{"subscription any amount", "Vendor subscription", 9900, CategoryEntertainment},
		{"recurring word in range", "Annual box", 1000, CategoryEntertainment},
		{"recurring word out of range", "Annual box", 2500, CategoryOther},
		{"recurring word at lower bound excluded", "Monthly thing", 500, CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.title, Money{Cents: tt.amount})
			if got != tt.want {
				t.Errorf("Categorize(%q, %d) = %v, want %v", tt.title, tt.amount, got, tt.want)
			}
		})
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Categorize("Starbucks Coffee", Money{Cents: 450}); got != CategoryFood {
			t.Fatalf("run %d: got %v, want food", i, got)
		}
	}
}
