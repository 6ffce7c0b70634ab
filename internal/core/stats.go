package core

// DashboardStats is the upstream summary behind the home page.
type DashboardStats struct {
	ActiveDebts       Amount       `json:"activeDebts"`
	ActiveReceivables Amount       `json:"activeReceivables"`
	MonthlyExpenses   Amount       `json:"monthlyExpenses"`
	ChartData         []ChartPoint `json:"chartData"`
	RecentActivities  []Activity   `json:"recentActivities"`
}

// ChartPoint is one month of the income/outcome chart. The keys are part
// of the upstream payload: Kirim is income, Chiqim is outcome.
type ChartPoint struct {
	Name   string `json:"name"`
	Kirim  Amount `json:"Kirim"`
	Chiqim Amount `json:"Chiqim"`
}

// Activity types seen in recentActivities.
const (
	ActivityDebt       = "debt"
	ActivityReceivable = "receivable"
	ActivityExpense    = "expense"
)

type Activity struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Date   Date   `json:"date"`
	Amount Amount `json:"amount"`
}

// AdminStats is the platform-wide summary for administrators.
type AdminStats struct {
	TotalUsers              int    `json:"totalUsers"`
	TotalDebt               Amount `json:"totalDebt"`
	TotalDebtPaid           Amount `json:"totalDebtPaid"`
	TotalReceivable         Amount `json:"totalReceivable"`
	TotalReceivableReceived Amount `json:"totalReceivableReceived"`
	TotalExpense            Amount `json:"totalExpense"`
}

// AdminUserDetail is everything an administrator sees about one user.
type AdminUserDetail struct {
	User        User         `json:"user"`
	Debts       []Debt       `json:"debts"`
	Receivables []Receivable `json:"receivables"`
	Expenses    []Expense    `json:"expenses"`
}

// ToggleResult is the upstream answer to a block toggle.
type ToggleResult struct {
	Message   string `json:"message"`
	IsBlocked bool   `json:"isBlocked"`
}
