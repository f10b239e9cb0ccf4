// Package core holds the watchdog domain: ledger entries, creation
// validation, read-time normalization, and the pure filter and
// aggregation engines the public pages are built on.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a form amount string to whole Kenyan Shillings.
//
// It accepts optional comma thousand separators ("1,000,000") and a
// fractional part, which is rounded half-up to the nearest shilling.
// Negative and zero amounts are rejected.
//
// Examples:
//
//	ParseAmount("1000000")   -> 1000000, nil
//	ParseAmount("1,000,000") -> 1000000, nil
//	ParseAmount("12.50")     -> 13, nil
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", "")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if len(fracPart) > 0 && fracPart[0] >= '5' {
		v++
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatKES renders an amount as a grouped currency string, e.g.
// "KES 1,000,000".
func FormatKES(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-KES " + b.String()
	}
	return "KES " + b.String()
}
