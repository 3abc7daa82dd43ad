// Package rules implements the ordered merchant-categorization rule table.
//
// The matching semantics are the contract: the first rule, in file order,
// whose pattern occurs case-insensitively inside the merchant string wins.
// The xlsx writer re-expresses the same lookup as a live spreadsheet formula
// against the same table; both must resolve to the same category.
package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Rule is one ordered (pattern, category) pair.
type Rule struct {
	Pattern  string
	Category string
}

// Load reads a rule table from comma-separated lines ("pattern,category").
// A row with fewer than two columns fails the whole load: a partially loaded
// table would silently miscategorize transactions.
func Load(r io.Reader) ([]Rule, error) {
	var loaded []Rule

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("bad rules file: line %d has %d column(s), want 2", lineNo, len(fields))
		}
		loaded = append(loaded, Rule{
			Pattern:  strings.TrimSpace(fields[0]),
			Category: strings.TrimSpace(fields[1]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	return loaded, nil
}

// LoadFile loads a rule table from a CSV or TXT file.
func LoadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Categorize returns the category of the first rule whose pattern occurs as a
// case-insensitive substring of merchant, or "" when no rule matches.
func Categorize(merchant string, table []Rule) string {
	m := strings.ToUpper(merchant)
	for _, r := range table {
		if r.Pattern == "" {
			continue
		}
		if strings.Contains(m, strings.ToUpper(r.Pattern)) {
			return r.Category
		}
	}
	return ""
}
