package views

import "omonat/internal/core"

type AdminStatsView struct {
	core.AdminStats
	DebtOutstanding       core.Amount `json:"debtOutstanding"`
	ReceivableOutstanding core.Amount `json:"receivableOutstanding"`
}

func AdminStats(s core.AdminStats) AdminStatsView {
	return AdminStatsView{
		AdminStats:            s,
		DebtOutstanding:       core.Remaining(s.TotalDebt, s.TotalDebtPaid),
		ReceivableOutstanding: core.Remaining(s.TotalReceivable, s.TotalReceivableReceived),
	}
}

type AdminUsersView struct {
	Query string      `json:"query"`
	Users []core.User `json:"users"`
	Total int         `json:"total"`
}

// AdminUsers filters by name, email or phone.
func AdminUsers(users []core.User, query string) AdminUsersView {
	filtered := core.Filter(users, query, core.UserFields)
	if filtered == nil {
		filtered = []core.User{}
	}
	return AdminUsersView{Query: query, Users: filtered, Total: len(filtered)}
}

type AdminDebtRow struct {
	core.Debt
	Remaining core.Amount `json:"remaining"`
}

type AdminReceivableRow struct {
	core.Receivable
	Remaining core.Amount `json:"remaining"`
}

type AdminUserDetailView struct {
	User        core.User            `json:"user"`
	Debts       []AdminDebtRow       `json:"debts"`
	Receivables []AdminReceivableRow `json:"receivables"`
	Expenses    []core.Expense       `json:"expenses"`
	Back        string               `json:"back"`
}

func AdminUserDetail(d core.AdminUserDetail) AdminUserDetailView {
	v := AdminUserDetailView{
		User:        d.User,
		Debts:       make([]AdminDebtRow, 0, len(d.Debts)),
		Receivables: make([]AdminReceivableRow, 0, len(d.Receivables)),
		Expenses:    d.Expenses,
		Back:        "/admin/users",
	}
	for _, debt := range d.Debts {
		v.Debts = append(v.Debts, AdminDebtRow{Debt: debt, Remaining: core.Remaining(debt.Amount, debt.PaidAmount)})
	}
	for _, r := range d.Receivables {
		v.Receivables = append(v.Receivables, AdminReceivableRow{Receivable: r, Remaining: core.Remaining(r.Amount, r.ReceivedAmount)})
	}
	if v.Expenses == nil {
		v.Expenses = []core.Expense{}
	}
	return v
}
