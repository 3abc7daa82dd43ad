package models

import "testing"

func TestIsInstallment(t *testing.T) {
	index, count := 2, 12

	txn := Transaction{InstallmentIndex: &index, InstallmentCount: &count}
	if !txn.IsInstallment() {
		t.Error("expected installment")
	}

	regular := Transaction{}
	if regular.IsInstallment() {
		t.Error("expected non-installment")
	}

	// A dangling index without a count does not qualify.
	partial := Transaction{InstallmentIndex: &index}
	if partial.IsInstallment() {
		t.Error("expected non-installment for partial pair")
	}
}

func TestMonthsRemaining(t *testing.T) {
	tests := []struct {
		index, count int
		want         int
	}{
		{1, 12, 11},
		{2, 12, 10},
		{12, 12, 0},
		{3, 6, 3},
	}
	for _, tt := range tests {
		txn := Transaction{InstallmentIndex: &tt.index, InstallmentCount: &tt.count}
		got, ok := txn.MonthsRemaining()
		if !ok {
			t.Fatalf("%d/%d: expected ok", tt.index, tt.count)
		}
		if got != tt.want {
			t.Errorf("%d/%d: got %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}

	regular := Transaction{}
	if _, ok := regular.MonthsRemaining(); ok {
		t.Error("expected not ok for non-installment")
	}
}
