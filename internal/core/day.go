package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Day is a calendar day in the configured location. It is the single
// bucketing unit for every "today" and "this month" comparison; the original
// sliced ISO strings, which drifted across timezones, so all truncation goes
// through DayIn instead.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayIn truncates an instant to its calendar day in loc.
func DayIn(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Date: d}
}

// ParseDay parses "2006-01-02".
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Date: d}, nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

// Time returns midnight of the day in loc.
func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, loc)
}

func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Date < o.Date
}

func (d Day) After(o Day) bool {
	return o.Before(d)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// MonthRange returns the first and last calendar day of t's month in loc.
// Both bounds are inclusive.
func MonthRange(t time.Time, loc *time.Location) (Day, Day) {
	y, m, _ := t.In(loc).Date()
	first := Day{Year: y, Month: m, Date: 1}
	// Day zero of the next month is the last day of this one.
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	ly, lm, ld := last.Date()
	return first, Day{Year: ly, Month: lm, Date: ld}
}
