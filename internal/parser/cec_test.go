package parser

import (
	"testing"
)

const cecSample = `CEC Bank SA
EXTRAS DE CONT card de credit
Perioada 01.03.2024 - 31.03.2024 Valuta RON

10.03.2024

11.03.2024
Cumparare POS 11.03.2024 EMAG MARKETPLACE totalul tranzactiei efectuate la comerciant 1.200,00 RON Rata 1 din 12
4521
TR99881-100,00

12.03.2024
PLATA FACTURA ENEL
7801
PX10045-30,00

13.03.2024
RAMBURSARE EXTRAGERE
9912
RB20001+75,50
`

func TestCECParserCanHandle(t *testing.T) {
	p := &CECParser{}
	if !p.CanHandle(cecSample) {
		t.Error("expected sample statement to be recognized")
	}
	if p.CanHandle("some unrelated document") {
		t.Error("unrelated document should not be recognized")
	}
	// Markers without any date do not qualify.
	if p.CanHandle("CEC EXTRAS DE CONT RON") {
		t.Error("markers without a date should not be enough")
	}
}

func TestCECParserExtract(t *testing.T) {
	p := &CECParser{}
	txns, err := p.Extract(cecSample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}

	first := txns[0]
	if first.HeaderDate != "10.03.2024" {
		t.Errorf("header date: got %q", first.HeaderDate)
	}
	if first.Date != "11.03.2024" {
		t.Errorf("date: got %q", first.Date)
	}
	if first.ReferenceToken != "4521" {
		t.Errorf("reference: got %q", first.ReferenceToken)
	}
	if first.TransactionNumber != "TR99881" {
		t.Errorf("transaction number: got %q", first.TransactionNumber)
	}
	if first.Amount != -100.00 {
		t.Errorf("amount: got %v", first.Amount)
	}
	if first.TotalTransactionAmount != -1200.00 {
		t.Errorf("total: got %v", first.TotalTransactionAmount)
	}
	if first.InstallmentIndex == nil || *first.InstallmentIndex != 1 {
		t.Errorf("installment index: got %v", first.InstallmentIndex)
	}
	if first.InstallmentCount == nil || *first.InstallmentCount != 12 {
		t.Errorf("installment count: got %v", first.InstallmentCount)
	}

	second := txns[1]
	if second.Date != "12.03.2024" {
		t.Errorf("date: got %q", second.Date)
	}
	if second.Amount != -30.00 {
		t.Errorf("amount: got %v", second.Amount)
	}
	if second.Store != "PLATA FACTURA ENEL" {
		t.Errorf("store: got %q", second.Store)
	}
	if second.InstallmentIndex != nil {
		t.Error("expected a non-installment record")
	}

	// Credits are kept in this family: "+" preserves the magnitude.
	third := txns[2]
	if third.Amount != 75.50 {
		t.Errorf("amount: got %v", third.Amount)
	}
	if third.Sign != "+" {
		t.Errorf("sign: got %q", third.Sign)
	}
}

// A block without the duplicated header date still matches: the leading date
// group is optional.
func TestCECParserOptionalHeaderDate(t *testing.T) {
	text := "15-03-2024\n\nRata 2 din 12 SUPERMARKET\n12345\nAB6789-150,00"
	p := &CECParser{}
	txns, err := p.Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}

	txn := txns[0]
	if txn.HeaderDate != "" {
		t.Errorf("header date: got %q, want empty", txn.HeaderDate)
	}
	if txn.Date != "15-03-2024" {
		t.Errorf("date: got %q", txn.Date)
	}
	if txn.Store != "SUPERMARKET" {
		t.Errorf("store: got %q", txn.Store)
	}
	if txn.ReferenceToken != "12345" {
		t.Errorf("reference: got %q", txn.ReferenceToken)
	}
	if txn.TransactionNumber != "AB6789" {
		t.Errorf("transaction number: got %q", txn.TransactionNumber)
	}
	if txn.Amount != -150.00 {
		t.Errorf("amount: got %v", txn.Amount)
	}
	if txn.InstallmentIndex == nil || *txn.InstallmentIndex != 2 {
		t.Errorf("installment index: got %v", txn.InstallmentIndex)
	}
	if remaining, ok := txn.MonthsRemaining(); !ok || remaining != 10 {
		t.Errorf("months remaining: got %d/%v", remaining, ok)
	}
}

// An unsigned amount is treated as a debit.
func TestCECParserUnsignedAmountIsDebit(t *testing.T) {
	text := "01.02.2024\nMAGAZIN ALFA\n100\nZZ123 45,00"
	p := &CECParser{}
	txns, err := p.Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount != -45.00 {
		t.Errorf("amount: got %v", txns[0].Amount)
	}
	if txns[0].Sign != "" {
		t.Errorf("sign: got %q", txns[0].Sign)
	}
}

func TestCECParserColumns(t *testing.T) {
	cols := (&CECParser{}).Columns()
	if len(cols) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(cols))
	}
	if cols[6].Label != "transaction_nr" || cols[7].Label != "total_transaction" {
		t.Errorf("unexpected column order: %v", cols)
	}
}
