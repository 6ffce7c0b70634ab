package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
	"omonat/internal/views"
)

type DashboardService struct {
	base
	debts       *DebtService
	receivables *ReceivableService
	expenses    *ExpenseService
}

func NewDashboardService(sess *session.Session, deps Deps) *DashboardService {
	return &DashboardService{
		base:        newBase(sess, deps, log.ComponentApp),
		debts:       NewDebtService(sess, deps),
		receivables: NewReceivableService(sess, deps),
		expenses:    NewExpenseService(sess, deps),
	}
}

// Dashboard serves the upstream statistics for the home page.
func (s *DashboardService) Dashboard(ctx context.Context, refresh bool) (views.DashboardView, error) {
	stats, err := read(ctx, &s.base, KeyDashboard, refresh, s.api().Dashboard.Stats)
	if err != nil {
		return views.DashboardView{}, fail("dashboard stats", MsgGeneric, err)
	}
	return views.Dashboard(stats, s.sess.Gate.Identity().User), nil
}

// Overview loads the three collections concurrently and derives the
// aggregates locally.
func (s *DashboardService) Overview(ctx context.Context, refresh bool) (views.OverviewView, error) {
	var (
		debts       []core.Debt
		receivables []core.Receivable
		expenses    []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		debts, err = s.debts.all(gctx, refresh)
		return err
	})
	g.Go(func() error {
		var err error
		receivables, err = s.receivables.all(gctx, refresh)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.all(gctx, refresh)
		return err
	})
	if err := g.Wait(); err != nil {
		return views.OverviewView{}, fail("overview", MsgGeneric, err)
	}
	return views.Overview(debts, receivables, expenses, s.now()), nil
}
