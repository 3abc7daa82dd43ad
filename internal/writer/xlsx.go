package writer

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ratetrack/ratetrack/internal/i18n"
	"github.com/ratetrack/ratetrack/internal/models"
	"github.com/ratetrack/ratetrack/internal/rules"
	"github.com/ratetrack/ratetrack/internal/summary"
)

// RulesSheet is the workbook sheet holding the categorization rule table.
const RulesSheet = "Rules"

const tableStyle = "TableStyleMedium9"

// XLSXWriter renders statements into a workbook: one Rules sheet shared by
// the whole book, one transactions sheet per statement with a live category
// formula, and a months-remaining summary table beside the transactions.
//
// The category column is written as a spreadsheet formula over the Rules
// table so that editing a rule inside the workbook recategorizes every
// statement. The formula implements the same first-match-wins substring
// lookup as rules.Categorize.
type XLSXWriter struct {
	// Lang selects the header label language ("en" or "ro").
	Lang string
}

// WriteWorkbook writes (or appends to) the workbook at path: ensures the
// Rules sheet exists, then adds one sheet named sheetName with the
// transactions and their summary. Fails if the sheet already exists.
func (w *XLSXWriter) WriteWorkbook(path, sheetName string, cols []models.Column, txns []models.Transaction, sum summary.Summary, table []rules.Rule) error {
	f, created, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.ensureRulesSheet(f, table); err != nil {
		return err
	}
	if err := w.writeStatementSheet(f, sheetName, cols, txns, sum, table); err != nil {
		return err
	}

	// The blank default sheet is only present in a workbook we created
	if created {
		if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
			f.DeleteSheet("Sheet1")
		}
	}

	return f.SaveAs(path)
}

// openOrCreate opens an existing workbook for appending, or starts a new one.
func openOrCreate(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("opening workbook %q: %w", path, err)
		}
		return f, false, nil
	}
	return excelize.NewFile(), true, nil
}

// ensureRulesSheet writes the rule table once per workbook.
func (w *XLSXWriter) ensureRulesSheet(f *excelize.File, table []rules.Rule) error {
	if idx, _ := f.GetSheetIndex(RulesSheet); idx >= 0 {
		return nil
	}
	if _, err := f.NewSheet(RulesSheet); err != nil {
		return err
	}

	header := []interface{}{i18n.T(w.Lang, "pattern"), i18n.T(w.Lang, "category")}
	if err := f.SetSheetRow(RulesSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range table {
		row := []interface{}{r.Pattern, r.Category}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(RulesSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := w.boldRange(f, RulesSheet, "A1", "B1"); err != nil {
		return err
	}

	end, _ := excelize.CoordinatesToCellName(2, len(table)+1)
	return addTable(f, RulesSheet, "A1:"+end, RulesSheet)
}

func (w *XLSXWriter) writeStatementSheet(f *excelize.File, sheetName string, cols []models.Column, txns []models.Transaction, sum summary.Summary, table []rules.Rule) error {
	if idx, _ := f.GetSheetIndex(sheetName); idx >= 0 {
		return fmt.Errorf("sheet %q already exists", sheetName)
	}
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(cols))
	categoryCol := -1
	for i, col := range cols {
		header[i] = i18n.T(w.Lang, col.Label)
		if col.Key == models.ColCategory {
			categoryCol = i
		}
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := w.boldRange(f, sheetName, "A1", endHeader); err != nil {
		return err
	}

	for i := range txns {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			row[j] = cellValue(&txns[i], col.Key)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	endRow := len(txns) + 1
	endCell, _ := excelize.CoordinatesToCellName(len(cols), endRow)
	if err := addTable(f, sheetName, "A1:"+endCell, sheetName+"_transactions"); err != nil {
		return err
	}

	// Category column recomputes inside the spreadsheet from the Rules
	// table, first-match-wins over a case-insensitive substring search —
	// the same semantics as rules.Categorize.
	if len(table) > 0 && categoryCol >= 0 {
		formula := fmt.Sprintf(
			"INDEX(%s[%s],MATCH(1,INDEX(--ISNUMBER(SEARCH(INDEX(%s[%s],0),[@[%s]])),0),0))",
			RulesSheet, i18n.T(w.Lang, "category"),
			RulesSheet, i18n.T(w.Lang, "pattern"),
			i18n.T(w.Lang, "store"),
		)
		for r := 2; r <= endRow; r++ {
			cell, _ := excelize.CoordinatesToCellName(categoryCol+1, r)
			if err := f.SetCellFormula(sheetName, cell, formula); err != nil {
				return err
			}
		}
	}

	return w.writeSummarySection(f, sheetName, len(cols)+2, sum)
}

// writeSummarySection renders the payoff summary to the right of the
// transactions table: the months-remaining buckets as a named table, then
// the two scalar totals underneath.
func (w *XLSXWriter) writeSummarySection(f *excelize.File, sheetName string, startCol int, sum summary.Summary) error {
	header := []interface{}{i18n.T(w.Lang, "over_x_months"), i18n.T(w.Lang, "sum")}
	head, _ := excelize.CoordinatesToCellName(startCol, 1)
	if err := f.SetSheetRow(sheetName, head, &header); err != nil {
		return err
	}
	headEnd, _ := excelize.CoordinatesToCellName(startCol+1, 1)
	if err := w.boldRange(f, sheetName, head, headEnd); err != nil {
		return err
	}

	buckets := sum.SortedBuckets()
	for i, b := range buckets {
		row := []interface{}{b.MonthsRemaining, b.Sum}
		cell, _ := excelize.CoordinatesToCellName(startCol, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	start, _ := excelize.CoordinatesToCellName(startCol, 1)
	end, _ := excelize.CoordinatesToCellName(startCol+1, len(buckets)+1)
	if err := addTable(f, sheetName, start+":"+end, sheetName+"_summary"); err != nil {
		return err
	}

	totalsRow := len(buckets) + 3
	for i, t := range []struct {
		key string
		val float64
	}{
		{"non_installment_total", sum.NonInstallmentTotal},
		{"newly_opened_total", sum.NewlyOpenedTotal},
	} {
		row := []interface{}{i18n.T(w.Lang, t.key), t.val}
		cell, _ := excelize.CoordinatesToCellName(startCol, totalsRow+i)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func (w *XLSXWriter) boldRange(f *excelize.File, sheet, from, to string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func addTable(f *excelize.File, sheet, rng, name string) error {
	stripes := true
	return f.AddTable(sheet, &excelize.Table{
		Range:          rng,
		Name:           tableName(name),
		StyleName:      tableStyle,
		ShowRowStripes: &stripes,
	})
}

var (
	invalidTableChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
	invalidSheetChars = regexp.MustCompile(`[\[\]:*?/\\]`)
)

// tableName sanitizes a sheet-derived name into a valid workbook table name.
func tableName(name string) string {
	n := invalidTableChars.ReplaceAllString(name, "_")
	if n == "" || (n[0] >= '0' && n[0] <= '9') {
		n = "_" + n
	}
	return n
}

// cellValue renders one Transaction field as a typed cell value: amounts and
// installment numbers stay numeric so spreadsheet arithmetic works on them.
func cellValue(t *models.Transaction, key string) interface{} {
	switch key {
	case models.ColInstallment:
		if t.InstallmentIndex == nil {
			return nil
		}
		return *t.InstallmentIndex
	case models.ColInstallmentCount:
		if t.InstallmentCount == nil {
			return nil
		}
		return *t.InstallmentCount
	case models.ColTotalTransaction:
		if t.TotalTransactionAmount == 0 {
			return nil
		}
		return t.TotalTransactionAmount
	case models.ColAmount:
		return t.Amount
	case models.ColCategory:
		// Written as a formula afterwards when a rule table is present
		return t.Category
	default:
		return fieldValue(t, key)
	}
}

// SheetNameForFile derives a workbook sheet name from a statement filename.
func SheetNameForFile(path string) string {
	base := strings.TrimSuffix(path, ".pdf")
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	// Sheet names cap at 31 chars and exclude []:*?/\
	base = invalidSheetChars.ReplaceAllString(base, "_")
	if len(base) > 31 {
		base = base[:31]
	}
	if base == "" {
		base = "Statement"
	}
	return base
}
