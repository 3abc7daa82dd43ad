package parser

import (
	"regexp"
	"strings"

	"github.com/ratetrack/ratetrack/internal/models"
)

// BTParser handles Banca Transilvania card statements.
//
// These statements come out of text extraction as a loose line stream: a
// repeated date line announces each transaction, followed by blank-line
// separated paragraphs for the transaction date, the details blob and the
// monthly amount:
//
//	15-03-2024
//
//	15-03-2024
//
//	15-03-2024 Rata 2 din 12 SUPERMARKET BUCURESTI
//
//	-150,00
//
// Refunds and incoming credits show up as positive amounts; this grammar
// tracks installment debits only, so positive records are dropped.
type BTParser struct{}

var btMarkers = []string{
	"BANCA TRANSILVANIA",
	"BT24",
	"STAR BT",
	"BT PAY",
}

// btDate matches the dashed DD-MM-YYYY date used by this family.
var btDate = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)

func (p *BTParser) Name() string { return "bt" }

// CanHandle requires at least two family markers plus one dashed date.
func (p *BTParser) CanHandle(text string) bool {
	return countMarkers(text, btMarkers) >= 2 && btDate.MatchString(text)
}

func (p *BTParser) Columns() []models.Column {
	return []models.Column{
		{Key: models.ColDate, Label: "data"},
		{Key: models.ColDetails, Label: "details"},
		{Key: models.ColInstallment, Label: "rate_nr"},
		{Key: models.ColInstallmentCount, Label: "num_rates"},
		{Key: models.ColStore, Label: "store"},
		{Key: models.ColCategory, Label: "category"},
		{Key: models.ColAmount, Label: "amount_to_return"},
	}
}

// Extract scans for date-pattern lines and consumes the three following
// paragraphs as transaction date, details and amount.
func (p *BTParser) Extract(text string) ([]models.Transaction, error) {
	lines := strings.Split(text, "\n")
	var txns []models.Transaction

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !dashedDateLine.MatchString(line) {
			i++
			continue
		}
		headerDate := dashedDateLine.FindString(line)
		i++

		paras, next := nextParagraphs(lines, i, 3)
		if len(paras) < 3 {
			// Truncated trailing block, nothing more to read.
			break
		}
		i = next

		if txn, ok := p.buildTransaction(headerDate, paras); ok {
			txns = append(txns, txn)
		}
	}

	return txns, nil
}

func (p *BTParser) buildTransaction(headerDate string, paras []string) (models.Transaction, bool) {
	date, details, amountPara := paras[0], paras[1], paras[2]

	amountTok := amountToken.FindString(amountPara)
	amount, err := NormalizeAmount(amountTok)
	if err != nil {
		// Field-level failure: keep the record, zero the amount.
		amount = 0
	}
	// Only debits feed the installment tracker in this family.
	if amount > 0 {
		return models.Transaction{}, false
	}

	index, count := parseInstallment(details)

	sign := ""
	switch {
	case strings.HasPrefix(amountTok, "+"):
		sign = "+"
	case strings.HasPrefix(amountTok, "-"):
		sign = "-"
	}

	dateTok := btDate.FindString(date)
	if dateTok == "" {
		dateTok = date
	}

	return models.Transaction{
		Date:                   dateTok,
		HeaderDate:             headerDate,
		Details:                details,
		Store:                  merchantName(details, true),
		InstallmentIndex:       index,
		InstallmentCount:       count,
		TotalTransactionAmount: amount,
		Amount:                 amount,
		Sign:                   sign,
	}, true
}

// nextParagraphs collects up to n blank-line separated paragraphs starting at
// line index start. Lines inside a paragraph are joined with a space. Returns
// the paragraphs and the index of the first unconsumed line.
func nextParagraphs(lines []string, start, n int) ([]string, int) {
	var paras []string
	i := start
	for len(paras) < n && i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		j := i
		for j < len(lines) && strings.TrimSpace(lines[j]) != "" {
			j++
		}
		var parts []string
		for _, l := range lines[i:j] {
			parts = append(parts, strings.TrimSpace(l))
		}
		paras = append(paras, strings.Join(parts, " "))
		i = j
	}
	return paras, i
}
