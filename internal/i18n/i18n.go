// Package i18n holds the display labels used by the output writers. Column
// declarations carry translation keys, not display text, so the same parser
// output renders under Romanian or English headers.
package i18n

var translations = map[string]map[string]string{
	"en": {
		"data":                  "Date",
		"details":               "Details",
		"rate_nr":               "Installment",
		"num_rates":             "Of",
		"store":                 "Store",
		"category":              "Category",
		"transaction_nr":        "Transaction no.",
		"total_transaction":     "Total transaction",
		"amount_to_return":      "Amount",
		"pattern":               "Pattern",
		"over_x_months":         "Months remaining",
		"sum":                   "Sum",
		"non_installment_total": "Other spend",
		"newly_opened_total":    "Newly opened installments",
	},
	"ro": {
		"data":                  "Data",
		"details":               "Detalii",
		"rate_nr":               "Rata",
		"num_rates":             "Din",
		"store":                 "Magazin",
		"category":              "Categorie",
		"transaction_nr":        "Nr tranzactie",
		"total_transaction":     "Total tranzactie",
		"amount_to_return":      "Suma",
		"pattern":               "Sablon",
		"over_x_months":         "Luni ramase",
		"sum":                   "Suma",
		"non_installment_total": "Cheltuieli",
		"newly_opened_total":    "Rate noi deschise",
	},
}

// DefaultLanguage is used when a requested language is unknown.
const DefaultLanguage = "en"

// T returns the display label for key in the given language. Unknown
// languages fall back to English; unknown keys return the key itself so a
// missing translation is visible rather than blank.
func T(lang, key string) string {
	m, ok := translations[lang]
	if !ok {
		m = translations[DefaultLanguage]
	}
	if label, ok := m[key]; ok {
		return label
	}
	if label, ok := translations[DefaultLanguage][key]; ok {
		return label
	}
	return key
}

// Languages returns the supported language codes.
func Languages() []string {
	return []string{"en", "ro"}
}
