package views

import "omonat/internal/core"

// Labels of the built-in expense categories. Any other category is a
// user-defined name and is shown as is.
var categoryLabels = map[string]string{
	core.CategoryFood:      "Oziq-ovqat",
	core.CategoryTransport: "Transport",
	core.CategoryShopping:  "Xaridlar",
	core.CategoryHouse:     "Uy-joy",
	core.CategoryServices:  "Xizmatlar",
}

type Category struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Builtin bool   `json:"builtin"`
}

func CategoryOf(key string) Category {
	if label, ok := categoryLabels[key]; ok {
		return Category{Key: key, Label: label, Builtin: true}
	}
	return Category{Key: key, Label: key}
}

type ExpenseRow struct {
	core.Expense
	CategoryInfo  Category `json:"categoryInfo"`
	DisplayAmount string   `json:"displayAmount"`
}

func expenseRow(e core.Expense) ExpenseRow {
	return ExpenseRow{Expense: e, CategoryInfo: CategoryOf(e.Category), DisplayAmount: core.FormatAmount(e.Amount, core.UZS)}
}

type ExpenseListView struct {
	Query string            `json:"query"`
	Rows  []ExpenseRow      `json:"rows"`
	Stats core.ExpenseStats `json:"stats"`
}

// ExpenseList filters by title and totals the filtered rows, with card
// and cash subtotals.
func ExpenseList(expenses []core.Expense, query string) ExpenseListView {
	filtered := core.Filter(expenses, query, core.ExpenseFields)
	rows := make([]ExpenseRow, 0, len(filtered))
	for _, e := range filtered {
		rows = append(rows, expenseRow(e))
	}
	return ExpenseListView{Query: query, Rows: rows, Stats: core.SummarizeExpenses(filtered)}
}

type ExpenseDetailView struct {
	ExpenseRow
	Back string `json:"back"`
}

func ExpenseDetail(e core.Expense) ExpenseDetailView {
	return ExpenseDetailView{ExpenseRow: expenseRow(e), Back: "/expenses"}
}
