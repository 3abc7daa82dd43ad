package parser

import (
	"errors"
	"testing"
)

func TestAutoDetect(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"bt statement", btSample, "bt"},
		{"cec statement", cecSample, "cec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.AutoDetect(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("got %q, want %q", e.Name(), tt.want)
			}
		})
	}

	if _, err := r.AutoDetect("quarterly report 2024"); !errors.Is(err, ErrUnrecognizedDocument) {
		t.Errorf("expected ErrUnrecognizedDocument, got %v", err)
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"bt", "cec"} {
		e, err := r.Get(name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if e.Name() != name {
			t.Errorf("got %q, want %q", e.Name(), name)
		}
	}
	if _, err := r.Get("hsbc"); err == nil {
		t.Error("expected error for unknown parser name")
	}
}

func TestRegistryParse(t *testing.T) {
	r := NewRegistry()

	e, txns, err := r.Parse(btSample, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Name() != "bt" {
		t.Errorf("detected parser: got %q", e.Name())
	}
	if len(txns) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(txns))
	}

	// Forcing a parser bypasses detection.
	if _, _, err := r.Parse(cecSample, "cec"); err != nil {
		t.Errorf("forced parse: unexpected error: %v", err)
	}

	// A recognized document with no extractable blocks is a recoverable
	// outcome, not a crash.
	_, _, err = r.Parse("BANCA TRANSILVANIA BT24 situatie 2024 fara tranzactii 01-01-2024", "")
	if !errors.Is(err, ErrNoTransactions) {
		t.Errorf("expected ErrNoTransactions, got %v", err)
	}

	if _, _, err := r.Parse("plain text", ""); !errors.Is(err, ErrUnrecognizedDocument) {
		t.Errorf("expected ErrUnrecognizedDocument, got %v", err)
	}
}
