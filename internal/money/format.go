// Package money renders amounts with South-Asian digit grouping
// (12,34,567.89) and parses them back.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finewise-dev/finewise/internal/model"
)

// ErrInvalidAmount is returned by Parse for text that is not an amount.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	separator = ","
	decimals  = 2
)

// Format rounds d to two decimals and groups the integer part as
// [1-2 digits],[pairs],[last 3]. Negative amounts get a leading "-" in
// front of the grouped magnitude.
func Format(d decimal.Decimal) string {
	s := d.Abs().StringFixed(decimals)
	intPart, fracPart, _ := strings.Cut(s, ".")

	out := group(intPart) + "." + fracPart
	if d.Round(decimals).IsNegative() {
		return "-" + out
	}
	return out
}

// FormatCurrency is Format with a currency symbol, e.g. "₹12,34,567.89".
// The sign goes before the symbol.
func FormatCurrency(symbol string, d decimal.Decimal) string {
	s := Format(d)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-" + symbol + rest
	}
	return symbol + s
}

// Parse reads an amount written by Format or FormatCurrency: an optional
// "-", an optional currency symbol, then digits grouped the way Format
// groups them (or not grouped at all) with an optional fraction.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := false
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		neg = true
		s = rest
	}
	s = strings.TrimLeftFunc(s, isSymbol)
	s = strings.TrimSpace(s)

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if hasFrac && !allDigits(fracPart) {
		return decimal.Zero, ErrInvalidAmount
	}
	digits, ok := ungroup(intPart)
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}
	if hasFrac {
		digits += "." + fracPart
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// Arrow returns the glyph shown next to a month-over-month delta.
func Arrow(dir model.Direction) string {
	if dir == model.DirectionDecrease {
		return "▼"
	}
	return "▲"
}

// group inserts separators into a string of digits: the last three digits
// form one group, everything to their left is split into pairs.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead == 0 {
		lead = 2
	}
	b.WriteString(head[:lead])
	for i := lead; i < len(head); i += 2 {
		b.WriteString(separator)
		b.WriteString(head[i : i+2])
	}
	b.WriteString(separator)
	b.WriteString(tail)
	return b.String()
}

// ungroup strips separators from an integer part, checking that any
// grouping is [1-2 digits],[pairs],[last 3].
func ungroup(s string) (string, bool) {
	groups := strings.Split(s, separator)
	if len(groups) == 1 {
		return s, allDigits(s)
	}
	for i, g := range groups {
		var ok bool
		switch i {
		case 0:
			ok = len(g) == 1 || len(g) == 2
		case len(groups) - 1:
			ok = len(g) == 3
		default:
			ok = len(g) == 2
		}
		if !ok || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isSymbol matches the runes of a currency symbol prefix.
func isSymbol(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '-', r == '+', r == '.', r == ',', r == ' ':
		return false
	}
	return true
}
