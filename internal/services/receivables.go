package services

import (
	"context"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
	"omonat/internal/views"
)

// ReceivableService covers money owed to the user.
type ReceivableService struct {
	base
}

func NewReceivableService(sess *session.Session, deps Deps) *ReceivableService {
	return &ReceivableService{base: newBase(sess, deps, log.ComponentRecv)}
}

func (s *ReceivableService) all(ctx context.Context, refresh bool) ([]core.Receivable, error) {
	return read(ctx, &s.base, KeyReceivables, refresh, func(ctx context.Context) ([]core.Receivable, error) {
		return s.api().Receivables.List(ctx, nil)
	})
}

func (s *ReceivableService) one(ctx context.Context, id string, refresh bool) (core.Receivable, error) {
	return read(ctx, &s.base, EntityKey(KeyReceivables, id), refresh, func(ctx context.Context) (core.Receivable, error) {
		return s.api().Receivables.Get(ctx, id)
	})
}

func (s *ReceivableService) List(ctx context.Context, query string, refresh bool) (views.ReceivableListView, error) {
	items, err := s.all(ctx, refresh)
	if err != nil {
		return views.ReceivableListView{}, fail("list receivables", MsgGeneric, err)
	}
	return views.ReceivableList(items, query, s.now()), nil
}

func (s *ReceivableService) Detail(ctx context.Context, id string, refresh bool) (views.ReceivableDetailView, error) {
	r, err := s.one(ctx, id, refresh)
	if err != nil {
		return views.ReceivableDetailView{}, fail("get receivable", MsgGeneric, err)
	}
	return views.ReceivableDetail(r, s.now()), nil
}

func (s *ReceivableService) Create(ctx context.Context, in core.ReceivableInput) (Mutation[core.Receivable], error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Mutation[core.Receivable]{}, err
	}
	if in.DateGiven.IsZero() {
		in.DateGiven = core.Date{Time: s.now()}
	}

	r, err := s.api().Receivables.Create(ctx, in)
	if err != nil {
		return Mutation[core.Receivable]{}, fail("create receivable", MsgGeneric, err)
	}
	s.logger.InfoContext(ctx, "Receivable created", log.NewFields().WithOperation(log.OpCreate).WithEntity(r.ID, int64(r.Amount)).ToSlice()...)
	s.invalidate(ctx, KeyReceivables, KeyDashboard)
	return done(r, KeyReceivables, success(MsgReceivableAdded)), nil
}

func (s *ReceivableService) Update(ctx context.Context, id string, in core.ReceivableInput) (Mutation[core.Receivable], error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Mutation[core.Receivable]{}, err
	}

	r, err := s.api().Receivables.Update(ctx, id, in)
	if err != nil {
		return Mutation[core.Receivable]{}, fail("update receivable", MsgGeneric, err)
	}
	s.invalidate(ctx, KeyReceivables, EntityKey(KeyReceivables, id), KeyDashboard)
	return done(r, EntityKey(KeyReceivables, id), success(MsgReceivableSaved)), nil
}

func (s *ReceivableService) Delete(ctx context.Context, id string) (Mutation[struct{}], error) {
	if err := s.api().Receivables.Delete(ctx, id); err != nil {
		return Mutation[struct{}]{}, fail("delete receivable", MsgDeleteError, err)
	}
	s.invalidate(ctx, KeyReceivables, EntityKey(KeyReceivables, id), KeyDashboard)
	return done(struct{}{}, KeyReceivables, success(MsgReceivableDelete)), nil
}

// Receive records money coming back, clamped to the remaining balance.
func (s *ReceivableService) Receive(ctx context.Context, id string, in core.PaymentInput) (Mutation[core.Receivable], error) {
	if err := in.Validate(); err != nil {
		return Mutation[core.Receivable]{}, err
	}
	current, err := s.one(ctx, id, false)
	if err != nil {
		return Mutation[core.Receivable]{}, fail("get receivable", MsgGeneric, err)
	}

	amount, notices, err := clampPayment(in.Amount, current)
	if err != nil {
		return Mutation[core.Receivable]{}, err
	}
	in.Amount = amount
	if in.Date.IsZero() {
		in.Date = core.Date{Time: s.now()}
	}

	r, err := s.api().Receivables.ReceivePayment(ctx, id, in)
	if err != nil {
		return Mutation[core.Receivable]{}, fail("receive payment", MsgGeneric, err)
	}
	s.logger.InfoContext(ctx, "Receivable payment recorded", log.NewFields().WithOperation(log.OpPay).WithEntity(id, int64(in.Amount)).ToSlice()...)
	s.settle(ctx, id, r)
	return done(r, EntityKey(KeyReceivables, id), append(notices, success(MsgPaid))...), nil
}

func (s *ReceivableService) DeleteHistory(ctx context.Context, id, historyID string) (Mutation[core.Receivable], error) {
	r, err := s.api().Receivables.DeleteHistory(ctx, id, historyID)
	if err != nil {
		return Mutation[core.Receivable]{}, fail("delete receivable payment", MsgDeleteError, err)
	}
	if r.ID == "" {
		if cached, ok := peek[core.Receivable](&s.base, EntityKey(KeyReceivables, id)); ok {
			if local, err := cached.WithoutHistory(historyID); err == nil {
				r = local
			}
		}
	}
	s.settle(ctx, id, r)
	return done(r, EntityKey(KeyReceivables, id), success(MsgPaymentDeleted)), nil
}

func (s *ReceivableService) settle(ctx context.Context, id string, r core.Receivable) {
	key := EntityKey(KeyReceivables, id)
	if r.ID != "" {
		s.sess.Store.Mutate(key, r)
		s.invalidate(ctx, KeyReceivables, KeyDashboard)
		s.publish(ctx, []string{key})
		return
	}
	s.invalidate(ctx, KeyReceivables, key, KeyDashboard)
}
