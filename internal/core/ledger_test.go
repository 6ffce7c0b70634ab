package core

import (
	"errors"
	"testing"
	"time"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		amount, settled Amount
		want            Status
	}{
		{1000, 1000, StatusPaid},
		{1000, 0, StatusPending},
		{1000, 1, StatusPartial},
		{1000, 999, StatusPartial},
		{0, 0, StatusPaid},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.amount, tc.settled); got != tc.want {
			t.Fatalf("StatusOf(%d, %d) = %s, want %s", tc.amount, tc.settled, got, tc.want)
		}
	}
}

func TestStatusOfIsExhaustive(t *testing.T) {
	const amount = Amount(50)
	for settled := Amount(0); settled <= amount; settled++ {
		got := StatusOf(amount, settled)
		switch {
		case settled == amount && got != StatusPaid:
			t.Fatalf("settled=%d: want paid, got %s", settled, got)
		case settled == 0 && got != StatusPending:
			t.Fatalf("settled=%d: want pending, got %s", settled, got)
		case settled > 0 && settled < amount && got != StatusPartial:
			t.Fatalf("settled=%d: want partial, got %s", settled, got)
		}
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		settled, amount Amount
		want            int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 100, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1},
		{100, 100, 100},
		{150, 100, 100},
	}
	for _, tc := range cases {
		if got := Percentage(tc.settled, tc.amount); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", tc.settled, tc.amount, got, tc.want)
		}
	}
	for settled := Amount(0); settled <= 7; settled++ {
		if p := Percentage(settled, 7); p < 0 || p > 100 {
			t.Fatalf("Percentage(%d, 7) = %d out of range", settled, p)
		}
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(1000, 300); got != 700 {
		t.Fatalf("expected 700, got %d", got)
	}
	if got := Remaining(1000, 1200); got != 0 {
		t.Fatalf("over-settled balance must clamp to 0, got %d", got)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		name string
		due  time.Time
		want int
	}{
		{"today", time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), 0},
		{"tomorrow", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), 1},
		{"later today rounds up", time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC), 1},
		{"yesterday", time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), -1},
		{"last week", time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC), -7},
		{"next month", time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(tc.due, now); got != tc.want {
				t.Fatalf("DaysUntil = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDaysUntilUsesLocalMidnight(t *testing.T) {
	tashkent := time.FixedZone("UZT", 5*60*60)
	// 01:00 local on Oct 15 is still Oct 14 in UTC.
	now := time.Date(2026, 10, 15, 1, 0, 0, 0, tashkent)
	due := time.Date(2026, 10, 15, 0, 0, 0, 0, tashkent)
	if got := DaysUntil(due, now); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}

func TestDaysUntilInConfiguredZone(t *testing.T) {
	tashkent, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		t.Skipf("zone data unavailable: %v", err)
	}
	due := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		// 23:30 UTC on Oct 14 is already 04:30 on Oct 15 in Tashkent.
		{"after local midnight", time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC).In(tashkent), 1},
		{"same instant in UTC", time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC), 2},
		{"local evening", time.Date(2026, 10, 15, 18, 0, 0, 0, tashkent), 1},
		{"due day", time.Date(2026, 10, 16, 0, 5, 0, 0, tashkent), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(due, tc.now); got != tc.want {
				t.Fatalf("DaysUntil = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDueUrgency(t *testing.T) {
	cases := map[int]Urgency{
		-10: Overdue,
		-1:  Overdue,
		0:   CloseToDue,
		3:   CloseToDue,
		4:   OnTrack,
		90:  OnTrack,
	}
	for days, want := range cases {
		if got := DueUrgency(days); got != want {
			t.Fatalf("DueUrgency(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestDueOfZeroDate(t *testing.T) {
	if got := DueOf(Date{}, time.Now()); got.Urgency != "" || got.DaysLeft != 0 {
		t.Fatalf("zero due date should have no urgency, got %+v", got)
	}
}

func TestSummarizeDebts(t *testing.T) {
	debts := []Debt{
		{CreditorName: "Ali", Amount: 1000, PaidAmount: 200},
		{CreditorName: "Vali", Amount: 500, PaidAmount: 0},
		{CreditorName: "Sardor", Amount: 300, PaidAmount: 300},
		// stale upstream status must not override the derived one
		{CreditorName: "Aziz", Amount: 400, PaidAmount: 100, Status: StatusPaid},
	}
	got := SummarizeDebts(debts)
	want := DebtStats{
		TotalActiveAmount: 1900,
		TotalPaidOfActive: 300,
		TotalRemaining:    1600,
		TotalFullyPaid:    300,
	}
	if got != want {
		t.Fatalf("SummarizeDebts = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := SummarizeDebts(nil); got != (DebtStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	if got := SummarizeReceivables([]Receivable{}); got != (ReceivableStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	if got := SummarizeExpenses(nil); got.Total != 0 || got.Card != 0 || got.Cash != 0 {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestSummarizeReceivables(t *testing.T) {
	items := []Receivable{
		{Debtor: "Ali", Amount: 500000, ReceivedAmount: 200000},
		{Debtor: "Olim", Amount: 100000, ReceivedAmount: 100000},
	}
	got := SummarizeReceivables(items)
	want := ReceivableStats{
		TotalExpected:         500000,
		TotalReceivedOfActive: 200000,
		TotalRemaining:        300000,
		TotalFullyReceived:    100000,
	}
	if got != want {
		t.Fatalf("SummarizeReceivables = %+v, want %+v", got, want)
	}
}

func TestSummarizeExpenses(t *testing.T) {
	items := []Expense{
		{Title: "Non", Amount: 5000, Category: CategoryFood, Method: Cash},
		{Title: "Taksi", Amount: 20000, Category: CategoryTransport, Method: Card},
		{Title: "Somsa", Amount: 8000, Category: CategoryFood, Method: Card},
	}
	got := SummarizeExpenses(items)
	if got.Total != 33000 || got.Card != 28000 || got.Cash != 5000 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.ByCategory[CategoryFood] != 13000 {
		t.Fatalf("expected food 13000, got %d", got.ByCategory[CategoryFood])
	}
}

func TestPayInFull(t *testing.T) {
	d := Debt{Amount: 1000000, PaidAmount: 0}
	d.PaidAmount += 1000000
	b := BalanceOf(d)
	if b.Status != StatusPaid || b.Remaining != 0 || b.Percentage != 100 {
		t.Fatalf("unexpected balance after paying in full: %+v", b)
	}
}

func TestReceivableWithoutHistory(t *testing.T) {
	r := Receivable{
		Amount:         500000,
		ReceivedAmount: 200000,
		History:        []HistoryEntry{{ID: "h1", Amount: 200000}},
	}
	got, err := r.WithoutHistory("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ReceivedAmount != 0 || got.Status != StatusPending || len(got.History) != 0 {
		t.Fatalf("unexpected receivable: %+v", got)
	}
	if len(r.History) != 1 {
		t.Fatalf("original history must not be modified")
	}
}

func TestDebtWithoutHistoryRevertsPaid(t *testing.T) {
	d := Debt{
		Amount:     1000,
		PaidAmount: 1000,
		History:    []HistoryEntry{{ID: "a", Amount: 400}, {ID: "b", Amount: 600}},
	}
	got, err := d.WithoutHistory("b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaidAmount != 400 || got.Status != StatusPartial {
		t.Fatalf("expected partial with 400 paid, got %+v", got)
	}
	if _, err := d.WithoutHistory("missing"); !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("expected ErrHistoryNotFound, got %v", err)
	}
}

func TestApplyHistoryDeletionNeverNegative(t *testing.T) {
	settled, status := ApplyHistoryDeletion(1000, 100, 300)
	if settled != 0 || status != StatusPending {
		t.Fatalf("expected 0/pending, got %d/%s", settled, status)
	}
}

func TestClampPayment(t *testing.T) {
	if got, clamped := ClampPayment(700, 500); got != 500 || !clamped {
		t.Fatalf("expected clamp to 500, got %d (%v)", got, clamped)
	}
	if got, clamped := ClampPayment(300, 500); got != 300 || clamped {
		t.Fatalf("expected 300 unchanged, got %d (%v)", got, clamped)
	}
}
