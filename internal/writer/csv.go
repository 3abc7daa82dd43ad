// Package writer renders parsed transactions and payoff summaries. Writers
// are collaborators of the parsing core: they only read Transaction records
// and each parser's static column declaration.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ratetrack/ratetrack/internal/i18n"
	"github.com/ratetrack/ratetrack/internal/models"
)

// CSVWriter writes transactions to CSV, with headers and field order taken
// from the parser's column declaration.
type CSVWriter struct {
	// Lang selects the header label language ("en" or "ro").
	Lang string
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, cols []models.Column, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, cols, txns)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, cols []models.Column, txns []models.Transaction) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = i18n.T(w.Lang, col.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range txns {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = fieldValue(&txns[i], col.Key)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// fieldValue renders one Transaction field by column key.
func fieldValue(t *models.Transaction, key string) string {
	switch key {
	case models.ColDate:
		return t.Date
	case models.ColDetails:
		return t.Details
	case models.ColInstallment:
		if t.InstallmentIndex == nil {
			return ""
		}
		return strconv.Itoa(*t.InstallmentIndex)
	case models.ColInstallmentCount:
		if t.InstallmentCount == nil {
			return ""
		}
		return strconv.Itoa(*t.InstallmentCount)
	case models.ColStore:
		return t.Store
	case models.ColCategory:
		return t.Category
	case models.ColTransactionNr:
		return t.TransactionNumber
	case models.ColTotalTransaction:
		return formatAmount(t.TotalTransactionAmount)
	case models.ColAmount:
		return formatAmount(t.Amount)
	}
	return ""
}

// formatAmount renders a monetary value with exactly two decimals. Zero means
// the statement omitted the field and renders empty.
func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
