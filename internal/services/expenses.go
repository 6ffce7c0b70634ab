package services

import (
	"context"
	"fmt"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
	"omonat/internal/views"
)

// ExpenseService covers personal expenses.
type ExpenseService struct {
	base
}

func NewExpenseService(sess *session.Session, deps Deps) *ExpenseService {
	return &ExpenseService{base: newBase(sess, deps, log.ComponentExpense)}
}

func (s *ExpenseService) all(ctx context.Context, refresh bool) ([]core.Expense, error) {
	return read(ctx, &s.base, KeyExpenses, refresh, func(ctx context.Context) ([]core.Expense, error) {
		return s.api().Expenses.List(ctx, nil)
	})
}

func (s *ExpenseService) List(ctx context.Context, query string, refresh bool) (views.ExpenseListView, error) {
	expenses, err := s.all(ctx, refresh)
	if err != nil {
		return views.ExpenseListView{}, fail("list expenses", MsgGeneric, err)
	}
	return views.ExpenseList(expenses, query), nil
}

func (s *ExpenseService) Detail(ctx context.Context, id string, refresh bool) (views.ExpenseDetailView, error) {
	e, err := read(ctx, &s.base, EntityKey(KeyExpenses, id), refresh, func(ctx context.Context) (core.Expense, error) {
		return s.api().Expenses.Get(ctx, id)
	})
	if err != nil {
		return views.ExpenseDetailView{}, fail("get expense", MsgGeneric, err)
	}
	return views.ExpenseDetail(e), nil
}

// Create saves an expense. Choosing "other" stores the custom name as the
// category, and the notice says so.
func (s *ExpenseService) Create(ctx context.Context, in core.ExpenseInput) (Mutation[core.Expense], error) {
	custom := in.Category == core.CategoryOther
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Mutation[core.Expense]{}, err
	}
	if in.Date.IsZero() {
		in.Date = core.Date{Time: s.now()}
	}

	e, err := s.api().Expenses.Create(ctx, in)
	if err != nil {
		return Mutation[core.Expense]{}, fail("create expense", MsgGeneric, err)
	}
	s.logger.InfoContext(ctx, "Expense created", log.NewFields().WithOperation(log.OpCreate).WithEntity(e.ID, int64(e.Amount)).ToSlice()...)
	s.invalidate(ctx, KeyExpenses, KeyDashboard)

	msg := MsgExpenseSaved
	if custom {
		msg = fmt.Sprintf(MsgCategorySaved, in.Category)
	}
	return done(e, KeyExpenses, success(msg)), nil
}

func (s *ExpenseService) Update(ctx context.Context, id string, in core.ExpenseInput) (Mutation[core.Expense], error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Mutation[core.Expense]{}, err
	}

	e, err := s.api().Expenses.Update(ctx, id, in)
	if err != nil {
		return Mutation[core.Expense]{}, fail("update expense", MsgGeneric, err)
	}
	s.invalidate(ctx, KeyExpenses, EntityKey(KeyExpenses, id), KeyDashboard)
	return done(e, EntityKey(KeyExpenses, id), success(MsgExpenseSaved)), nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) (Mutation[struct{}], error) {
	if err := s.api().Expenses.Delete(ctx, id); err != nil {
		return Mutation[struct{}]{}, fail("delete expense", MsgDeleteError, err)
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.NewFields().WithOperation(log.OpDelete).WithEntity(id, 0).ToSlice()...)
	s.invalidate(ctx, KeyExpenses, EntityKey(KeyExpenses, id), KeyDashboard)
	return done(struct{}{}, KeyExpenses, success(MsgExpenseDeleted)), nil
}
