// pkg/cleaner/operations.go
package cleaner

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// dateLayouts are tried in order; the first layout that parses wins
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

// lenientLayouts catch stragglers the primary layouts miss
var lenientLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
	"20060102",
}

// parseTransactionDate parses a raw date string against the primary
// layouts first and the lenient layouts second
func parseTransactionDate(v sql.NullString) (time.Time, error) {
	if !v.Valid {
		return time.Time{}, errors.New("transaction_date is null")
	}

	cleaned := strings.TrimSpace(v.String)
	if cleaned == "" {
		return time.Time{}, errors.New("transaction_date is empty")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date from '%s'", cleaned)
}

// normalizeAmount strips everything but digits, decimal point and sign,
// parses the remainder and discards the sign. Null, zero and unparsable
// amounts are errors.
func normalizeAmount(v sql.NullString) (float64, error) {
	if !v.Valid {
		return 0, errors.New("transaction_amount is null")
	}

	var b strings.Builder
	for _, r := range v.String {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	stripped := b.String()
	if stripped == "" {
		return 0, fmt.Errorf("no numeric content in '%s'", v.String)
	}

	amount, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse amount from '%s'", v.String)
	}

	amount = math.Abs(amount)
	if amount == 0 {
		return 0, errors.New("transaction_amount is zero")
	}

	return amount, nil
}

// Helper functions

// normalizeText trims and title-cases a nullable text field; null
// becomes the empty string
func normalizeText(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return titleCase(strings.TrimSpace(v.String))
}

// titleCase uppercases every letter that follows a non-letter and
// lowercases the rest, so "MAIN st. branch" becomes "Main St. Branch"
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}

	return b.String()
}

// parseAge converts a raw age string to an integer, truncating any
// fraction; anything unparsable becomes null
func parseAge(v sql.NullString) sql.NullInt64 {
	if !v.Valid {
		return sql.NullInt64{}
	}

	cleaned := strings.TrimSpace(v.String)
	if cleaned == "" {
		return sql.NullInt64{}
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(f), Valid: true}
}

// defaultIfNull substitutes a fallback for a null value. An empty
// string is a present value and passes through unchanged.
func defaultIfNull(v sql.NullString, fallback string) string {
	if !v.Valid {
		return fallback
	}
	return v.String
}
