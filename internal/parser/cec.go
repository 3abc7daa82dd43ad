package parser

import (
	"regexp"
	"strings"

	"github.com/ratetrack/ratetrack/internal/models"
)

// CECParser handles CEC Bank card statements.
//
// This family has denser structure than the BT line stream: each transaction
// is one contiguous block carrying an optional header date, the transaction
// date, a free-text info blob, a numeric reference, a settlement code with an
// optional sign character and the posted amount. A single multi-line pattern
// recognizes the whole block.
type CECParser struct{}

var cecMarkers = []string{
	"CEC",
	"CASA DE ECONOMII",
	"EXTRAS DE CONT",
	"RON",
}

// cecBlock matches one transaction block. Sub-fields in textual order:
// optional header date, transaction date, lazy info blob (may span lines),
// numeric reference token, settlement code, optional sign, amount.
var cecBlock = regexp.MustCompile(`(?s)` +
	`(?:(\d{2}[./-]\d{2}[./-]\d{4})\s*\n\s*\n?)?` +
	`(\d{2}[./-]\d{2}[./-]\d{4})\s*\n` +
	`(.*?)\n` +
	`(\d+?)\s*\n` +
	`([A-Z]{2,}\d+)\s*([-+])?\s*` +
	`([\d.,]+)`)

// merchantTotal matches the "total charged via merchant" note inside the info
// blob, e.g. " comerciant 1.200,00 RON".
var merchantTotal = regexp.MustCompile(`\s+comerciant\s+([\d.,]+)\s+RON`)

func (p *CECParser) Name() string { return "cec" }

// CanHandle requires at least two family markers plus one date-shaped
// substring.
func (p *CECParser) CanHandle(text string) bool {
	return countMarkers(text, cecMarkers) >= 2 && hasDateToken(text)
}

func (p *CECParser) Columns() []models.Column {
	return []models.Column{
		{Key: models.ColDate, Label: "data"},
		{Key: models.ColDetails, Label: "details"},
		{Key: models.ColInstallment, Label: "rate_nr"},
		{Key: models.ColInstallmentCount, Label: "num_rates"},
		{Key: models.ColStore, Label: "store"},
		{Key: models.ColCategory, Label: "category"},
		{Key: models.ColTransactionNr, Label: "transaction_nr"},
		{Key: models.ColTotalTransaction, Label: "total_transaction"},
		{Key: models.ColAmount, Label: "amount_to_return"},
	}
}

// Extract matches every transaction block in the text. Unlike the BT grammar
// nothing is discarded here: the sign token only decides which way amount and
// total are negated.
func (p *CECParser) Extract(text string) ([]models.Transaction, error) {
	var txns []models.Transaction

	for _, m := range cecBlock.FindAllStringSubmatch(text, -1) {
		headerDate := m[1]
		date := m[2]
		info := strings.TrimSpace(m[3])
		ref := strings.TrimSpace(m[4])
		number := m[5]
		sign := m[6]

		amount, err := NormalizeAmount(m[7])
		if err != nil {
			amount = 0
		}

		total := 0.0
		if tm := merchantTotal.FindStringSubmatch(info); tm != nil {
			if v, err := NormalizeAmount(tm[1]); err == nil {
				total = v
			}
		}

		// "+" keeps the magnitude; absence or "-" negates.
		if sign != "+" {
			amount = -amount
			total = -total
		}

		index, count := parseInstallment(info)

		txns = append(txns, models.Transaction{
			Date:                   date,
			HeaderDate:             headerDate,
			Details:                info,
			Store:                  merchantName(info, false),
			ReferenceToken:         ref,
			TransactionNumber:      number,
			InstallmentIndex:       index,
			InstallmentCount:       count,
			TotalTransactionAmount: total,
			Amount:                 amount,
			Sign:                   sign,
		})
	}

	return txns, nil
}
