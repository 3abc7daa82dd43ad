package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts in use across the supported statement families.
const (
	// LayoutDashed is the DD-MM-YYYY format used by line-window statements.
	LayoutDashed = "02-01-2006"
	// LayoutDotted and LayoutSlashed appear in block-structured statements.
	LayoutDotted  = "02.01.2006"
	LayoutSlashed = "02/01/2006"
)

var (
	// dateToken matches any supported DD?MM?YYYY date with -, . or / separators.
	dateToken = regexp.MustCompile(`\d{2}[./-]\d{2}[./-]\d{4}`)
	// dashedDateLine matches a line beginning with a DD-MM-YYYY date.
	dashedDateLine = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`)
	// installmentPhrase matches "Rata <n> din <m>" installment markers.
	installmentPhrase = regexp.MustCompile(`Rata (\d+) din (\d+)`)
	// amountToken matches locale-formatted amounts like 1.234,56 with an
	// optional leading sign.
	amountToken = regexp.MustCompile(`[-+]?[\d.,]+`)
)

// NormalizeAmount converts a locale-formatted amount token to a float value.
// The statement locale uses "." as a thousands separator and "," erratically,
// so both are stripped and the remaining digit string is read as an integer
// number of minor units: "1.234,56" -> 1234.56, "50" -> 0.50. An optional
// leading "+" or "-" is honored. Returns ErrMalformedAmount when no digits
// remain or the residue is not purely numeric.
func NormalizeAmount(token string) (float64, error) {
	s := strings.TrimSpace(token)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, fmt.Errorf("%w: %q has no digits", ErrMalformedAmount, token)
	}

	cents, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, token)
	}

	v := float64(cents) / 100.0
	if neg {
		v = -v
	}
	return v, nil
}

// NormalizeDate parses a date token against the given literal layout.
// Returns ErrMalformedDate on mismatch.
func NormalizeDate(token, layout string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s", ErrMalformedDate, token, layout)
	}
	return t, nil
}

// ParseStatementDate tries every supported layout in turn.
func ParseStatementDate(token string) (time.Time, error) {
	for _, layout := range []string{LayoutDashed, LayoutDotted, LayoutSlashed} {
		if t, err := NormalizeDate(token, layout); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, token)
}

// parseInstallment extracts the "Rata N din M" pair from a details blob.
// Both pointers are nil when the phrase is absent or the pair is implausible
// (index outside 1..count).
func parseInstallment(details string) (index, count *int) {
	m := installmentPhrase.FindStringSubmatch(details)
	if m == nil {
		return nil, nil
	}
	i, err1 := strconv.Atoi(m[1])
	n, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || i < 1 || i > n {
		return nil, nil
	}
	return &i, &n
}

// merchantName derives the merchant from a details blob. The installment
// phrase is stripped first, then the text after a date-shaped substring is
// kept (details often repeat the posting date before the merchant). When no
// date is embedded the whole blob is used. Tokens starting with a digit are
// card numbers, amounts or terminal IDs and are dropped. Best-effort: an
// unextractable merchant yields "".
func merchantName(details string, afterLastDate bool) string {
	cleaned := installmentPhrase.ReplaceAllString(details, "")

	locs := dateToken.FindAllStringIndex(cleaned, -1)
	if len(locs) > 0 {
		if afterLastDate {
			cleaned = cleaned[locs[len(locs)-1][1]:]
		} else {
			cleaned = cleaned[locs[0][1]:]
		}
	}

	var kept []string
	for _, tok := range strings.Fields(cleaned) {
		if tok[0] >= '0' && tok[0] <= '9' {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// countMarkers returns how many of the family indicator strings occur in the
// text, case-insensitively.
func countMarkers(text string, markers []string) int {
	upper := strings.ToUpper(text)
	n := 0
	for _, m := range markers {
		if strings.Contains(upper, strings.ToUpper(m)) {
			n++
		}
	}
	return n
}

// hasDateToken reports whether the text contains at least one date-shaped
// substring.
func hasDateToken(text string) bool {
	return dateToken.MatchString(text)
}
