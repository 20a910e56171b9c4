package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMockSourceReturnsTodaysTransactions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	src := NewMockSource(loc)
	src.now = func() time.Time {
		// 2:00 UTC on March 11 is still March 10 in New York.
		return time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	}

	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got))
	}
	for _, p := range got {
		if p.Date != "2024-03-10" {
			t.Errorf("payment %q dated %s, want 2024-03-10", p.Title, p.Date)
		}
	}
	if got[0].Title != "Coffee Shop" || got[0].Amount != 4.50 {
		t.Errorf("unexpected first payment: %+v", got[0])
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"Gym Membership","amount":39.99,"date":"2024-03-01","category":"entertainment"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "secret-token")
	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization header = %q, want bearer token", gotAuth)
	}
	if len(got) != 1 || got[0].Title != "Gym Membership" || got[0].Amount != 39.99 {
		t.Errorf("unexpected payments: %+v", got)
	}
}

func TestHTTPSourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "")
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestParsePaymentRow(t *testing.T) {
	tests := []struct {
		name     string
		row      []any
		want     bool
		wantAmt  float64
		wantCat  string
		wantDate string
	}{
		{
			name:     "full row",
			row:      []any{"2024-03-05", "Grocery Run", "45.20", "food", "weekly shop"},
			want:     true,
			wantAmt:  45.20,
			wantCat:  "food",
			wantDate: "2024-03-05",
		},
		{
			name:     "decimal comma and currency sign",
			row:      []any{"2024-03-05", "Taxi", "$12,50", "", ""},
			want:     true,
			wantAmt:  12.50,
			wantDate: "2024-03-05",
		},
		{
			name:     "missing amount kept for engine to skip",
			row:      []any{"2024-03-05", "Mystery Charge"},
			want:     true,
			wantDate: "2024-03-05",
		},
		{
			name: "empty row dropped",
			row:  []any{"", "", ""},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := parsePaymentRow(tt.row)
			if ok != tt.want {
				t.Fatalf("ok = %v, want %v", ok, tt.want)
			}
			if !ok {
				return
			}
			if p.Amount != tt.wantAmt {
				t.Errorf("Amount = %v, want %v", p.Amount, tt.wantAmt)
			}
			if p.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", p.Category, tt.wantCat)
			}
			if p.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", p.Date, tt.wantDate)
			}
		})
	}
}
