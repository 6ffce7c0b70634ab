package core

import (
	"math"
	"time"
)

// Settleable is an amount that gets paid down over time: a debt the user owes
// or a receivable owed to the user.
type Settleable interface {
	Total() Amount
	Settled() Amount
}

func (d Debt) Total() Amount   { return d.Amount }
func (d Debt) Settled() Amount { return d.PaidAmount }

func (r Receivable) Total() Amount   { return r.Amount }
func (r Receivable) Settled() Amount { return r.ReceivedAmount }

// Remaining returns amount - settled, clamped at zero.
func Remaining(amount, settled Amount) Amount {
	if settled >= amount {
		return 0
	}
	return amount - settled
}

// Percentage returns round(100*settled/amount) in [0, 100]. A zero amount is 0%.
func Percentage(settled, amount Amount) int {
	if amount <= 0 || settled <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(settled) / float64(amount)))
	if p > 100 {
		return 100
	}
	return p
}

// StatusOf classifies a balance. It is recomputed from its inputs every time
// and never read back from a stored status.
func StatusOf(amount, settled Amount) Status {
	switch {
	case settled >= amount:
		return StatusPaid
	case settled <= 0:
		return StatusPending
	default:
		return StatusPartial
	}
}

// DaysUntil returns the whole days between local midnight of now and due,
// rounded up. Negative means overdue. The wall clock of due is read in
// now's location, so a date stored as UTC midnight counts as that calendar
// day locally.
func DaysUntil(due, now time.Time) int {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dy, dm, dd := due.Date()
	local := time.Date(dy, dm, dd, due.Hour(), due.Minute(), due.Second(), due.Nanosecond(), loc)
	days := local.Sub(today).Hours() / 24
	return int(math.Ceil(days))
}

func DueUrgency(daysLeft int) Urgency {
	switch {
	case daysLeft < 0:
		return Overdue
	case daysLeft <= 3:
		return CloseToDue
	default:
		return OnTrack
	}
}

// Balance bundles the derived values every debt and receivable view shows.
type Balance struct {
	Remaining  Amount `json:"remaining"`
	Percentage int    `json:"percentage"`
	Status     Status `json:"status"`
}

func BalanceOf(s Settleable) Balance {
	return Balance{
		Remaining:  Remaining(s.Total(), s.Settled()),
		Percentage: Percentage(s.Settled(), s.Total()),
		Status:     StatusOf(s.Total(), s.Settled()),
	}
}

// Due bundles the day delta and urgency for a due date. A zero due date has
// no urgency.
type Due struct {
	DaysLeft int     `json:"daysLeft"`
	Urgency  Urgency `json:"urgency,omitempty"`
}

func DueOf(due Date, now time.Time) Due {
	if due.IsZero() {
		return Due{}
	}
	days := DaysUntil(due.Time, now)
	return Due{DaysLeft: days, Urgency: DueUrgency(days)}
}

// Active keeps items whose derived status is not paid.
func Active[T Settleable](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if StatusOf(it.Total(), it.Settled()) != StatusPaid {
			out = append(out, it)
		}
	}
	return out
}

// Paid keeps items whose derived status is paid.
func Paid[T Settleable](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if StatusOf(it.Total(), it.Settled()) == StatusPaid {
			out = append(out, it)
		}
	}
	return out
}

func SumTotal[T Settleable](items []T) Amount {
	var sum Amount
	for _, it := range items {
		sum += it.Total()
	}
	return sum
}

func SumSettled[T Settleable](items []T) Amount {
	var sum Amount
	for _, it := range items {
		sum += it.Settled()
	}
	return sum
}

func SumRemaining[T Settleable](items []T) Amount {
	var sum Amount
	for _, it := range items {
		sum += Remaining(it.Total(), it.Settled())
	}
	return sum
}

type DebtStats struct {
	TotalActiveAmount Amount `json:"totalActiveAmount"`
	TotalPaidOfActive Amount `json:"totalPaidOfActive"`
	TotalRemaining    Amount `json:"totalRemaining"`
	TotalFullyPaid    Amount `json:"totalFullyPaid"`
}

func SummarizeDebts(debts []Debt) DebtStats {
	active := Active(debts)
	return DebtStats{
		TotalActiveAmount: SumTotal(active),
		TotalPaidOfActive: SumSettled(active),
		TotalRemaining:    SumRemaining(active),
		TotalFullyPaid:    SumTotal(Paid(debts)),
	}
}

type ReceivableStats struct {
	TotalExpected         Amount `json:"totalExpected"`
	TotalReceivedOfActive Amount `json:"totalReceivedOfActive"`
	TotalRemaining        Amount `json:"totalRemaining"`
	TotalFullyReceived    Amount `json:"totalFullyReceived"`
}

func SummarizeReceivables(items []Receivable) ReceivableStats {
	active := Active(items)
	return ReceivableStats{
		TotalExpected:         SumTotal(active),
		TotalReceivedOfActive: SumSettled(active),
		TotalRemaining:        SumRemaining(active),
		TotalFullyReceived:    SumTotal(Paid(items)),
	}
}

type ExpenseStats struct {
	Total      Amount            `json:"total"`
	Card       Amount            `json:"card"`
	Cash       Amount            `json:"cash"`
	ByCategory map[string]Amount `json:"byCategory"`
}

func SummarizeExpenses(expenses []Expense) ExpenseStats {
	stats := ExpenseStats{ByCategory: make(map[string]Amount)}
	for _, e := range expenses {
		stats.Total += e.Amount
		switch e.Method {
		case Card:
			stats.Card += e.Amount
		case Cash:
			stats.Cash += e.Amount
		}
		stats.ByCategory[e.Category] += e.Amount
	}
	return stats
}

// ApplyHistoryDeletion returns the settled amount and status after removing a
// payment of value v. The settled amount never drops below zero.
func ApplyHistoryDeletion(amount, settled, v Amount) (Amount, Status) {
	next := settled - v
	if next < 0 {
		next = 0
	}
	return next, StatusOf(amount, next)
}

// ClampPayment caps a payment at the remaining balance. The second result
// reports whether the amount was reduced.
func ClampPayment(amount, remaining Amount) (Amount, bool) {
	if amount > remaining {
		return remaining, true
	}
	return amount, false
}

// FindHistory returns the history entry with the given id.
func FindHistory(history []HistoryEntry, id string) (HistoryEntry, bool) {
	for _, h := range history {
		if h.ID == id {
			return h, true
		}
	}
	return HistoryEntry{}, false
}

// WithoutHistory returns a debt with one payment removed and its settled
// amount and status recomputed.
func (d Debt) WithoutHistory(historyID string) (Debt, error) {
	entry, ok := FindHistory(d.History, historyID)
	if !ok {
		return d, ErrHistoryNotFound
	}
	out := d
	out.History = removeHistory(d.History, historyID)
	out.PaidAmount, out.Status = ApplyHistoryDeletion(d.Amount, d.PaidAmount, entry.Amount)
	return out, nil
}

// WithoutHistory is the receivable counterpart of Debt.WithoutHistory.
func (r Receivable) WithoutHistory(historyID string) (Receivable, error) {
	entry, ok := FindHistory(r.History, historyID)
	if !ok {
		return r, ErrHistoryNotFound
	}
	out := r
	out.History = removeHistory(r.History, historyID)
	out.ReceivedAmount, out.Status = ApplyHistoryDeletion(r.Amount, r.ReceivedAmount, entry.Amount)
	return out, nil
}

func removeHistory(history []HistoryEntry, id string) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history))
	for _, h := range history {
		if h.ID != id {
			out = append(out, h)
		}
	}
	return out
}
