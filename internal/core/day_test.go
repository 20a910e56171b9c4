package core

import (
	"testing"
	"time"
)

func TestDayIn(t *testing.T) {
	utc := time.UTC
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 2024-03-10 02:30 UTC is still 2024-03-09 in New York.
	instant := time.Date(2024, 3, 10, 2, 30, 0, 0, utc)

	if got := DayIn(instant, utc); got != (Day{2024, time.March, 10}) {
		t.Errorf("DayIn(utc) = %v", got)
	}
	if got := DayIn(instant, ny); got != (Day{2024, time.March, 9}) {
		t.Errorf("DayIn(ny) = %v", got)
	}
}

func TestParseDayRoundTrip(t *testing.T) {
	d, err := ParseDay("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("String() = %q", d.String())
	}
	if _, err := ParseDay("not-a-day"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDayOrdering(t *testing.T) {
	a := Day{2024, time.January, 31}
	b := Day{2024, time.February, 1}
	if !a.Before(b) || b.Before(a) {
		t.Errorf("ordering broken: %v vs %v", a, b)
	}
	if !b.After(a) {
		t.Errorf("After broken: %v vs %v", b, a)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantFirst Day
		wantLast  Day
	}{
		{
			name:      "31 day month",
			at:        time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			wantFirst: Day{2024, time.January, 1},
			wantLast:  Day{2024, time.January, 31},
		},
		{
			name:      "leap february",
			at:        time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			wantFirst: Day{2024, time.February, 1},
			wantLast:  Day{2024, time.February, 29},
		},
		{
			name:      "december wraps year",
			at:        time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
			wantFirst: Day{2023, time.December, 1},
			wantLast:  Day{2023, time.December, 31},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := MonthRange(tt.at, time.UTC)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("MonthRange() = %v..%v, want %v..%v", first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}
