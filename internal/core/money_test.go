package core

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{"simple", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"integer", "1000", 100000, false},
		{"one fractional digit", "5.5", 550, false},
		{"rounds down", "12.344", 1234, false},
		{"rounds up", "12.345", 1235, false},
		{"leading dot", ".50", 50, false},
		{"empty", "", 0, true},
		{"negative", "-1.00", 0, true},
		{"explicit plus", "+1.00", 0, true},
		{"zero", "0.00", 0, true},
		{"non numeric", "abc", 0, true},
		{"two dots", "1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMoney(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseMoney(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if m.Cents != tt.wantCents {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, m.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 100000} // 1000.00
	b := Money{Cents: 25050}  // 250.50

	if got := a.Add(b).Cents; got != 125050 {
		t.Errorf("Add = %d, want 125050", got)
	}
	if got := b.Sub(a).Cents; got != -74950 {
		t.Errorf("Sub = %d, want -74950 (negative results allowed)", got)
	}
	if got := a.MulInt(12).Cents; got != 1200000 {
		t.Errorf("MulInt = %d, want 1200000", got)
	}
	if got := a.Cmp(b); got != 1 {
		t.Errorf("Cmp = %d, want 1", got)
	}
	if got := b.Cmp(a); got != -1 {
		t.Errorf("Cmp = %d, want -1", got)
	}
	if got := a.Cmp(Money{Cents: 100000}); got != 0 {
		t.Errorf("Cmp = %d, want 0", got)
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100000, "1000.00"},
		{-10000, "-100.00"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Errorf("positive amount should validate, got %v", err)
	}
	if err := (Money{}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount should fail with ErrInvalidAmount, got %v", err)
	}
	if err := (Money{Cents: -100}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount should fail with ErrInvalidAmount, got %v", err)
	}
}
