package services

import (
	"context"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
	"omonat/internal/views"
)

// DebtService covers the debts the user owes.
type DebtService struct {
	base
}

func NewDebtService(sess *session.Session, deps Deps) *DebtService {
	return &DebtService{base: newBase(sess, deps, log.ComponentDebt)}
}

func (s *DebtService) all(ctx context.Context, refresh bool) ([]core.Debt, error) {
	return read(ctx, &s.base, KeyDebts, refresh, func(ctx context.Context) ([]core.Debt, error) {
		return s.api().Debts.List(ctx, nil)
	})
}

func (s *DebtService) one(ctx context.Context, id string, refresh bool) (core.Debt, error) {
	return read(ctx, &s.base, EntityKey(KeyDebts, id), refresh, func(ctx context.Context) (core.Debt, error) {
		return s.api().Debts.Get(ctx, id)
	})
}

func (s *DebtService) List(ctx context.Context, query string, refresh bool) (views.DebtListView, error) {
	debts, err := s.all(ctx, refresh)
	if err != nil {
		return views.DebtListView{}, fail("list debts", MsgGeneric, err)
	}
	return views.DebtList(debts, query, s.now()), nil
}

func (s *DebtService) Detail(ctx context.Context, id string, refresh bool) (views.DebtDetailView, error) {
	d, err := s.one(ctx, id, refresh)
	if err != nil {
		return views.DebtDetailView{}, fail("get debt", MsgGeneric, err)
	}
	return views.DebtDetail(d, s.now()), nil
}

func (s *DebtService) Create(ctx context.Context, in core.DebtInput) (Mutation[core.Debt], error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Mutation[core.Debt]{}, err
	}
	if in.DateTaken.IsZero() {
		in.DateTaken = core.Date{Time: s.now()}
	}

	d, err := s.api().Debts.Create(ctx, in)
	if err != nil {
		return Mutation[core.Debt]{}, fail("create debt", MsgGeneric, err)
	}
	s.logger.InfoContext(ctx, "Debt created", log.NewFields().WithOperation(log.OpCreate).WithEntity(d.ID, int64(d.Amount)).ToSlice()...)
	s.invalidate(ctx, KeyDebts, KeyDashboard)
	return done(d, KeyDebts, success(MsgDebtSaved)), nil
}

func (s *DebtService) Update(ctx context.Context, id string, in core.DebtInput) (Mutation[core.Debt], error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Mutation[core.Debt]{}, err
	}

	d, err := s.api().Debts.Update(ctx, id, in)
	if err != nil {
		return Mutation[core.Debt]{}, fail("update debt", MsgGeneric, err)
	}
	s.invalidate(ctx, KeyDebts, EntityKey(KeyDebts, id), KeyDashboard)
	return done(d, EntityKey(KeyDebts, id), success(MsgDebtSaved)), nil
}

func (s *DebtService) Delete(ctx context.Context, id string) (Mutation[struct{}], error) {
	if err := s.api().Debts.Delete(ctx, id); err != nil {
		return Mutation[struct{}]{}, fail("delete debt", MsgDeleteError, err)
	}
	s.logger.InfoContext(ctx, "Debt deleted", log.NewFields().WithOperation(log.OpDelete).WithEntity(id, 0).ToSlice()...)
	s.invalidate(ctx, KeyDebts, EntityKey(KeyDebts, id), KeyDashboard)
	return done(struct{}{}, KeyDebts, success(MsgDebtDeleted)), nil
}

// Pay records a payment. An amount above the remaining balance is lowered
// to it, with an info notice, before anything is sent.
func (s *DebtService) Pay(ctx context.Context, id string, in core.PaymentInput) (Mutation[core.Debt], error) {
	if err := in.Validate(); err != nil {
		return Mutation[core.Debt]{}, err
	}
	current, err := s.one(ctx, id, false)
	if err != nil {
		return Mutation[core.Debt]{}, fail("get debt", MsgGeneric, err)
	}

	amount, notices, err := clampPayment(in.Amount, current)
	if err != nil {
		return Mutation[core.Debt]{}, err
	}
	in.Amount = amount
	if in.Date.IsZero() {
		in.Date = core.Date{Time: s.now()}
	}

	d, err := s.api().Debts.Pay(ctx, id, in)
	if err != nil {
		return Mutation[core.Debt]{}, fail("pay debt", MsgGeneric, err)
	}
	s.logger.InfoContext(ctx, "Debt payment recorded", log.NewFields().WithOperation(log.OpPay).WithEntity(id, int64(in.Amount)).ToSlice()...)
	s.settle(ctx, id, d)
	return done(d, EntityKey(KeyDebts, id), append(notices, success(MsgPaid))...), nil
}

// DeleteHistory removes one payment. The detail is recomputed locally
// when the upstream answer carries no debt.
func (s *DebtService) DeleteHistory(ctx context.Context, id, historyID string) (Mutation[core.Debt], error) {
	d, err := s.api().Debts.DeleteHistory(ctx, id, historyID)
	if err != nil {
		return Mutation[core.Debt]{}, fail("delete debt payment", MsgDeleteError, err)
	}
	if d.ID == "" {
		if cached, ok := peek[core.Debt](&s.base, EntityKey(KeyDebts, id)); ok {
			if local, err := cached.WithoutHistory(historyID); err == nil {
				d = local
			}
		}
	}
	s.logger.InfoContext(ctx, "Debt payment deleted", log.NewFields().WithOperation(log.OpDeleteHistory).WithEntity(id, 0).ToSlice()...)
	s.settle(ctx, id, d)
	return done(d, EntityKey(KeyDebts, id), success(MsgPaymentDeleted)), nil
}

// settle refreshes everything that shows a debt's balance after money
// moved: the list and the dashboard are dropped, the entity is replaced
// when the new value is known.
func (s *DebtService) settle(ctx context.Context, id string, d core.Debt) {
	key := EntityKey(KeyDebts, id)
	if d.ID != "" {
		s.sess.Store.Mutate(key, d)
		s.invalidate(ctx, KeyDebts, KeyDashboard)
		s.publish(ctx, []string{key})
		return
	}
	s.invalidate(ctx, KeyDebts, key, KeyDashboard)
}

// clampPayment applies the over-payment rule shared by debts and
// receivables.
func clampPayment(amount core.Amount, s core.Settleable) (core.Amount, []Notice, error) {
	remaining := core.Remaining(s.Total(), s.Settled())
	if remaining <= 0 {
		return 0, nil, core.Invalid("amount", core.MsgAlreadySettled, core.ErrAlreadySettled)
	}
	clamped, reduced := core.ClampPayment(amount, remaining)
	if reduced {
		return clamped, []Notice{info(MsgOverpay)}, nil
	}
	return clamped, nil, nil
}
