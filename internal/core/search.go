package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold the same way for queries and haystacks so "ALI", "Ali" and "ali"
// match, and so do Cyrillic names.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether any field contains query, case-insensitively.
// An empty query matches everything.
func Matches(query string, fields ...string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	q = fold(q)
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose fields match query.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(query, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}

func DebtFields(d Debt) []string             { return []string{d.CreditorName} }
func ReceivableFields(r Receivable) []string { return []string{r.Debtor} }
func ExpenseFields(e Expense) []string       { return []string{e.Title} }
func UserFields(u User) []string             { return []string{u.Name, u.Email, u.Phone} }
