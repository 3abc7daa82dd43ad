package models

// Transaction represents a single statement transaction. A parser produces it
// once and never mutates it afterwards; downstream consumers only read it.
type Transaction struct {
	// Date is the calendar date of the transaction as printed on the
	// statement, not the statement print date.
	Date string `json:"date"`
	// HeaderDate is an earlier, often-duplicate date token preceding the
	// transaction block. Empty when the format omits it.
	HeaderDate string `json:"headerDate,omitempty"`
	// Details is the raw free-text description block (merchant, narrative,
	// fee breakdown), possibly spanning multiple source lines.
	Details string `json:"details"`
	// Store is the merchant name derived from Details by stripping leading
	// date and digit tokens. Empty when extraction fails.
	Store string `json:"store"`
	// ReferenceToken is the short numeric identifier preceding the
	// settlement code.
	ReferenceToken string `json:"referenceToken,omitempty"`
	// TransactionNumber is the bank-assigned code (alphabetic prefix plus
	// digits).
	TransactionNumber string `json:"transactionNumber,omitempty"`
	// InstallmentIndex and InstallmentCount hold the "Rata N din M" pair for
	// financed purchases. Both nil for regular transactions; when set,
	// 1 <= index <= count.
	InstallmentIndex *int `json:"installmentIndex,omitempty"`
	InstallmentCount *int `json:"installmentCount,omitempty"`
	// TotalTransactionAmount is the full merchant-charged amount, which may
	// differ from the monthly debit. Zero when the statement omits it.
	TotalTransactionAmount float64 `json:"totalTransactionAmount"`
	// Amount is the monthly debit/credit actually posted, signed.
	Amount float64 `json:"amount"`
	// Sign is the raw sign token read from the source ("+" or "-"), kept
	// because magnitude alone is ambiguous in some layouts.
	Sign string `json:"sign,omitempty"`
	// Category is the merchant category resolved from the rule table. Empty
	// when no rule matched or categorization is deferred to presentation.
	Category string `json:"category,omitempty"`
}

// IsInstallment reports whether the transaction belongs to an installment plan.
func (t *Transaction) IsInstallment() bool {
	return t.InstallmentIndex != nil && t.InstallmentCount != nil
}

// MonthsRemaining returns how many monthly debits are still due for the
// transaction's plan. The second value is false for non-installment
// transactions.
func (t *Transaction) MonthsRemaining() (int, bool) {
	if !t.IsInstallment() {
		return 0, false
	}
	return *t.InstallmentCount - *t.InstallmentIndex, true
}

// Column declares one output field a parser emits: the Transaction field key
// and the translation key for its display label. Parsers declare their column
// lists statically so writers know which fields to render and in what order.
type Column struct {
	Key   string
	Label string
}

// Field keys used in column declarations.
const (
	ColDate             = "date"
	ColDetails          = "details"
	ColInstallment      = "installment"
	ColInstallmentCount = "installment_count"
	ColStore            = "store"
	ColCategory         = "category"
	ColTransactionNr    = "transaction_nr"
	ColTotalTransaction = "total_transaction"
	ColAmount           = "amount"
)
