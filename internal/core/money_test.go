package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"12.3", 1230, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"$4.50", 450, false},
		{" 7.00 ", 700, false},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyDollars(t *testing.T) {
	if got := (Money{Cents: 450}).Dollars(); got != "$4.50" {
		t.Errorf("Dollars() = %q, want $4.50", got)
	}
	if got := (Money{Cents: -1234}).Dollars(); got != "-$12.34" {
		t.Errorf("Dollars() = %q, want -$12.34", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1875})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"18.75"` {
		t.Errorf("marshal = %s, want \"18.75\"", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"4.50"`), &m); err != nil || m.Cents != 450 {
		t.Errorf("unmarshal string: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`4.5`), &m); err != nil || m.Cents != 450 {
		t.Errorf("unmarshal number: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"0"`), &m); err != nil || m.Cents != 0 {
		t.Errorf("unmarshal zero: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"-3.25"`), &m); err != nil || m.Cents != -325 {
		t.Errorf("unmarshal negative: cents=%d err=%v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"nope"`), &m); err == nil {
		t.Error("unmarshal garbage: expected error")
	}
}

func TestMoneyFromFloat(t *testing.T) {
	if got := MoneyFromFloat(4.50).Cents; got != 450 {
		t.Errorf("MoneyFromFloat(4.50) = %d, want 450", got)
	}
	if got := MoneyFromFloat(0.1 + 0.2).Cents; got != 30 {
		t.Errorf("MoneyFromFloat(0.1+0.2) = %d, want 30", got)
	}
}
