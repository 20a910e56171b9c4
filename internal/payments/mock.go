// Package payments provides PaymentSource adapters: a deterministic mock
// feed, an HTTP JSON endpoint and a Google Sheets reader.
package payments

import (
	"context"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
)

// MockSource returns a fixed pair of transactions dated today. It backs
// local development and the default PAYMENTS_SOURCE.
type MockSource struct {
	loc *time.Location
	now func() time.Time
}

func NewMockSource(loc *time.Location) *MockSource {
	if loc == nil {
		loc = time.UTC
	}
	return &MockSource{loc: loc, now: time.Now}
}

func (s *MockSource) Fetch(_ context.Context) ([]budget.Payment, error) {
	today := s.now().In(s.loc).Format("2006-01-02")
	return []budget.Payment{
		{Title: "Coffee Shop", Amount: 4.50, Date: today, Category: "food"},
		{Title: "Bus Fare", Amount: 2.75, Date: today, Category: "travel"},
	}, nil
}
