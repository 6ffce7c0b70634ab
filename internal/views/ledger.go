// Package views turns upstream collections into the JSON view models the
// gateway answers with. Every builder is pure and takes the clock as an
// argument.
package views

import (
	"time"

	"omonat/internal/core"
)

// Derived fields sit next to the embedded entity. Status shadows the
// upstream status field, which is never trusted.

type DebtRow struct {
	core.Debt
	Remaining     core.Amount  `json:"remaining"`
	Percentage    int          `json:"percentage"`
	Status        core.Status  `json:"status"`
	DaysLeft      int          `json:"daysLeft"`
	Urgency       core.Urgency `json:"urgency,omitempty"`
	DisplayAmount string       `json:"displayAmount"`
}

type ReceivableRow struct {
	core.Receivable
	Remaining     core.Amount  `json:"remaining"`
	Percentage    int          `json:"percentage"`
	Status        core.Status  `json:"status"`
	DaysLeft      int          `json:"daysLeft"`
	Urgency       core.Urgency `json:"urgency,omitempty"`
	DisplayAmount string       `json:"displayAmount"`
}

func debtRow(d core.Debt, now time.Time) DebtRow {
	b, due := core.BalanceOf(d), core.DueOf(d.DueDate, now)
	return DebtRow{
		Debt:          d,
		Remaining:     b.Remaining,
		Percentage:    b.Percentage,
		Status:        b.Status,
		DaysLeft:      due.DaysLeft,
		Urgency:       due.Urgency,
		DisplayAmount: core.FormatAmount(d.Amount, d.Currency),
	}
}

func receivableRow(r core.Receivable, now time.Time) ReceivableRow {
	b, due := core.BalanceOf(r), core.DueOf(r.DueDate, now)
	return ReceivableRow{
		Receivable:    r,
		Remaining:     b.Remaining,
		Percentage:    b.Percentage,
		Status:        b.Status,
		DaysLeft:      due.DaysLeft,
		Urgency:       due.Urgency,
		DisplayAmount: core.FormatAmount(r.Amount, r.Currency),
	}
}

type DebtListView struct {
	Query  string         `json:"query"`
	Active []DebtRow      `json:"active"`
	Paid   []DebtRow      `json:"paid"`
	Stats  core.DebtStats `json:"stats"`
}

// DebtList filters by creditor name, splits the rows into active and paid
// by derived status, and totals the filtered set.
func DebtList(debts []core.Debt, query string, now time.Time) DebtListView {
	filtered := core.Filter(debts, query, core.DebtFields)
	v := DebtListView{
		Query:  query,
		Active: []DebtRow{},
		Paid:   []DebtRow{},
		Stats:  core.SummarizeDebts(filtered),
	}
	for _, d := range filtered {
		row := debtRow(d, now)
		if row.Status == core.StatusPaid {
			v.Paid = append(v.Paid, row)
		} else {
			v.Active = append(v.Active, row)
		}
	}
	return v
}

type ReceivableListView struct {
	Query  string               `json:"query"`
	Active []ReceivableRow      `json:"active"`
	Paid   []ReceivableRow      `json:"paid"`
	Stats  core.ReceivableStats `json:"stats"`
}

func ReceivableList(items []core.Receivable, query string, now time.Time) ReceivableListView {
	filtered := core.Filter(items, query, core.ReceivableFields)
	v := ReceivableListView{
		Query:  query,
		Active: []ReceivableRow{},
		Paid:   []ReceivableRow{},
		Stats:  core.SummarizeReceivables(filtered),
	}
	for _, r := range filtered {
		row := receivableRow(r, now)
		if row.Status == core.StatusPaid {
			v.Paid = append(v.Paid, row)
		} else {
			v.Active = append(v.Active, row)
		}
	}
	return v
}

// DebtDetailView is the single debt page. CanPay hides the payment
// action once the debt is settled.
type DebtDetailView struct {
	DebtRow
	CanPay bool   `json:"canPay"`
	Back   string `json:"back"`
}

func DebtDetail(d core.Debt, now time.Time) DebtDetailView {
	row := debtRow(d, now)
	if row.History == nil {
		row.History = []core.HistoryEntry{}
	}
	return DebtDetailView{DebtRow: row, CanPay: row.Status != core.StatusPaid, Back: "/debts"}
}

type ReceivableDetailView struct {
	ReceivableRow
	CanReceive bool   `json:"canReceive"`
	Back       string `json:"back"`
}

func ReceivableDetail(r core.Receivable, now time.Time) ReceivableDetailView {
	row := receivableRow(r, now)
	if row.History == nil {
		row.History = []core.HistoryEntry{}
	}
	return ReceivableDetailView{ReceivableRow: row, CanReceive: row.Status != core.StatusPaid, Back: "/receivables"}
}
