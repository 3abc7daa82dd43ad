package parser

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		token   string
		want    float64
		wantErr bool
	}{
		{"1.234,56", 1234.56, false},
		{"50", 0.50, false},
		{"150,00", 150.00, false},
		{"-150,00", -150.00, false},
		{"+12,34", 12.34, false},
		{"1.200,00", 1200.00, false},
		{"0", 0, false},
		{"  99,90 ", 99.90, false},
		{"", 0, true},
		{".", 0, true},
		{",-", 0, true},
		{"abc", 0, true},
		{"12a4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := NormalizeAmount(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !errors.Is(err, ErrMalformedAmount) {
					t.Errorf("error %v is not ErrMalformedAmount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// The cents rule guarantees every normalized amount is a whole number of
// minor units.
func TestNormalizeAmountWholeCents(t *testing.T) {
	tokens := []string{"1.234,56", "50", "0,01", "123.456.789", "7,5", "-33,33"}
	for _, tok := range tokens {
		v, err := NormalizeAmount(tok)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tok, err)
		}
		cents := v * 100
		if math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Errorf("%q: %v*100 = %v is not integral", tok, v, cents)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		token   string
		layout  string
		want    time.Time
		wantErr bool
	}{
		{"15-03-2024", LayoutDashed, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"15.03.2024", LayoutDotted, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"15/03/2024", LayoutSlashed, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"15.03.2024", LayoutDashed, time.Time{}, true},
		{"2024-03-15", LayoutDashed, time.Time{}, true},
		{"32-01-2024", LayoutDashed, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.token+"/"+tt.layout, func(t *testing.T) {
			got, err := NormalizeDate(tt.token, tt.layout)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrMalformedDate) {
					t.Errorf("error %v is not ErrMalformedDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStatementDate(t *testing.T) {
	for _, tok := range []string{"15-03-2024", "15.03.2024", "15/03/2024"} {
		if _, err := ParseStatementDate(tok); err != nil {
			t.Errorf("%q: unexpected error: %v", tok, err)
		}
	}
	if _, err := ParseStatementDate("not a date"); !errors.Is(err, ErrMalformedDate) {
		t.Errorf("expected ErrMalformedDate, got %v", err)
	}
}

func TestParseInstallment(t *testing.T) {
	tests := []struct {
		details    string
		wantIndex  int
		wantCount  int
		wantAbsent bool
	}{
		{"Rata 2 din 12 SUPERMARKET", 2, 12, false},
		{"Cumparare Rata 12 din 12", 12, 12, false},
		{"Rata 1 din 6 plus text", 1, 6, false},
		{"plain purchase", 0, 0, true},
		{"Rata 7 din 6", 0, 0, true},  // index past count
		{"Rata 0 din 12", 0, 0, true}, // index below 1
	}

	for _, tt := range tests {
		t.Run(tt.details, func(t *testing.T) {
			index, count := parseInstallment(tt.details)
			if tt.wantAbsent {
				if index != nil || count != nil {
					t.Fatalf("expected nil pair, got %v/%v", index, count)
				}
				return
			}
			if index == nil || count == nil {
				t.Fatal("expected installment pair, got nil")
			}
			if *index != tt.wantIndex || *count != tt.wantCount {
				t.Errorf("got %d/%d, want %d/%d", *index, *count, tt.wantIndex, tt.wantCount)
			}
		})
	}
}

func TestMerchantName(t *testing.T) {
	tests := []struct {
		name          string
		details       string
		afterLastDate bool
		want          string
	}{
		{
			name:          "text after date, digit tokens dropped",
			details:       "16-03-2024 SUPERMARKET CB BUCURESTI 1234",
			afterLastDate: true,
			want:          "SUPERMARKET CB BUCURESTI",
		},
		{
			name:          "installment phrase stripped",
			details:       "Rata 2 din 12 SUPERMARKET",
			afterLastDate: false,
			want:          "SUPERMARKET",
		},
		{
			name:          "after first of two dates",
			details:       "POS 11.03.2024 EMAG 12.03.2024 MARKETPLACE",
			afterLastDate: false,
			want:          "EMAG MARKETPLACE",
		},
		{
			name:          "after last of two dates",
			details:       "POS 11.03.2024 EMAG 12.03.2024 MARKETPLACE",
			afterLastDate: true,
			want:          "MARKETPLACE",
		},
		{
			name:          "nothing usable",
			details:       "12345 678,90",
			afterLastDate: false,
			want:          "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := merchantName(tt.details, tt.afterLastDate)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
