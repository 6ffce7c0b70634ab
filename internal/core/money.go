// Package core holds the domain types and the pure calculators that every
// view derives from: balances, status, due dates, aggregates and search.
//
// This file handles the space-grouped amount strings the forms send
// ("1 000 000") and the matching display format.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.Russian)

// ParseAmountInput converts a grouped amount string to a whole amount.
//
// Any whitespace is treated as a group separator, including the no-break
// spaces that locale formatting produces. Signs, decimals and letters are
// rejected, as are zero and overflow. Examples:
//
//	ParseAmountInput("1 000 000") -> 1000000, nil
//	ParseAmountInput("250000")    -> 250000, nil
//	ParseAmountInput("12.5")      -> 0, ErrInvalidAmount
func ParseAmountInput(s string) (Amount, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '\u00a0' || r == '\u202f':
			continue
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return 0, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return Amount(v), nil
}

// GroupDigits renders n with space-separated thousands: 1000000 -> "1 000 000".
func GroupDigits(n Amount) string {
	s := groupPrinter.Sprintf("%d", int64(n))
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

// FormatAmount renders an amount with its currency marker.
func FormatAmount(n Amount, c Currency) string {
	if c == USD {
		return "$" + GroupDigits(n)
	}
	return GroupDigits(n) + " so'm"
}
