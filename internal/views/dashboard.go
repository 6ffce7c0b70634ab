package views

import (
	"slices"
	"time"

	"omonat/internal/core"
)

type MenuItem struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

var menu = []MenuItem{
	{Name: "Asosiy (Dashboard)", Href: "/"},
	{Name: "Qarzlarim", Href: "/debts"},
	{Name: "Haqdorligim", Href: "/receivables"},
	{Name: "Harajatlar", Href: "/expenses"},
	{Name: "Profil", Href: "/profile"},
}

var adminEntry = MenuItem{Name: "Admin Panel", Href: "/admin"}

// Menu is the navigation for u. Administrators get the admin panel first.
func Menu(u core.User) []MenuItem {
	out := make([]MenuItem, 0, len(menu)+1)
	if u.IsAdmin {
		out = append(out, adminEntry)
	}
	return append(out, menu...)
}

type DashboardView struct {
	User  core.User           `json:"user"`
	Menu  []MenuItem          `json:"menu"`
	Stats core.DashboardStats `json:"stats"`
}

// Dashboard passes the upstream statistics through with the menu.
func Dashboard(stats core.DashboardStats, u core.User) DashboardView {
	if stats.ChartData == nil {
		stats.ChartData = []core.ChartPoint{}
	}
	if stats.RecentActivities == nil {
		stats.RecentActivities = []core.Activity{}
	}
	return DashboardView{User: u, Menu: Menu(u), Stats: stats}
}

const (
	recentLimit = 5
	chartMonths = 6
)

type OverviewView struct {
	ActiveDebts       core.Amount          `json:"activeDebts"`
	ActiveReceivables core.Amount          `json:"activeReceivables"`
	MonthlyExpenses   core.Amount          `json:"monthlyExpenses"`
	Debts             core.DebtStats       `json:"debts"`
	Receivables       core.ReceivableStats `json:"receivables"`
	Expenses          core.ExpenseStats    `json:"expenses"`
	ChartData         []core.ChartPoint    `json:"chartData"`
	RecentActivities  []core.Activity      `json:"recentActivities"`
}

// Overview computes the dashboard aggregates locally from the full
// collections. Active totals are outstanding balances. The chart covers
// the last six months: Kirim is money received on receivables, Chiqim is
// expenses plus debt payments.
func Overview(debts []core.Debt, receivables []core.Receivable, expenses []core.Expense, now time.Time) OverviewView {
	v := OverviewView{
		Debts:       core.SummarizeDebts(debts),
		Receivables: core.SummarizeReceivables(receivables),
		Expenses:    core.SummarizeExpenses(expenses),
	}
	v.ActiveDebts = v.Debts.TotalRemaining
	v.ActiveReceivables = v.Receivables.TotalRemaining

	for _, e := range expenses {
		if sameMonth(e.Date.Time, now) {
			v.MonthlyExpenses += e.Amount
		}
	}

	v.ChartData = chart(debts, receivables, expenses, now)
	v.RecentActivities = recent(debts, receivables, expenses)
	return v
}

func sameMonth(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}

func chart(debts []core.Debt, receivables []core.Receivable, expenses []core.Expense, now time.Time) []core.ChartPoint {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(chartMonths - 1), 0)
	points := make([]core.ChartPoint, chartMonths)
	for i := range points {
		points[i].Name = first.AddDate(0, i, 0).Format("2006-01")
	}
	slot := func(t time.Time) int {
		if t.IsZero() {
			return -1
		}
		t = t.In(now.Location())
		i := (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
		if i < 0 || i >= chartMonths {
			return -1
		}
		return i
	}

	for _, r := range receivables {
		for _, h := range r.History {
			if i := slot(h.Date.Time); i >= 0 {
				points[i].Kirim += h.Amount
			}
		}
	}
	for _, d := range debts {
		for _, h := range d.History {
			if i := slot(h.Date.Time); i >= 0 {
				points[i].Chiqim += h.Amount
			}
		}
	}
	for _, e := range expenses {
		if i := slot(e.Date.Time); i >= 0 {
			points[i].Chiqim += e.Amount
		}
	}
	return points
}

// recent returns the newest records across all three collections.
func recent(debts []core.Debt, receivables []core.Receivable, expenses []core.Expense) []core.Activity {
	all := make([]core.Activity, 0, len(debts)+len(receivables)+len(expenses))
	for _, d := range debts {
		all = append(all, core.Activity{ID: d.ID, Type: core.ActivityDebt, Title: d.CreditorName, Date: d.DateTaken, Amount: d.Amount})
	}
	for _, r := range receivables {
		all = append(all, core.Activity{ID: r.ID, Type: core.ActivityReceivable, Title: r.Debtor, Date: r.DateGiven, Amount: r.Amount})
	}
	for _, e := range expenses {
		all = append(all, core.Activity{ID: e.ID, Type: core.ActivityExpense, Title: e.Title, Date: e.Date, Amount: e.Amount})
	}
	slices.SortStableFunc(all, func(a, b core.Activity) int {
		return b.Date.Compare(a.Date.Time)
	})
	if len(all) > recentLimit {
		all = all[:recentLimit]
	}
	return all
}
