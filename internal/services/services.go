// Package services runs the page operations and mutations of one session:
// reads go through the session's cache store, writes are pre-checked, sent
// upstream, and followed by invalidation of every key that shows the
// changed numbers.
package services

import (
	"context"
	"errors"
	"time"

	"omonat/internal/api"
	"omonat/internal/cache"
	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
)

// Cache keys. Entity keys are the list key plus "/" and the id.
const (
	KeyDebts       = "/debts"
	KeyReceivables = "/receivables"
	KeyExpenses    = "/expenses"
	KeyDashboard   = "/dashboard/stats"
	KeyAdminStats  = "/admin/stats"
	KeyAdminUsers  = "/admin/users"
	KeyMe          = session.MeKey
)

// EntityKey returns the key of one entity, or "" for an empty id so the
// read is suppressed.
func EntityKey(list, id string) string {
	if id == "" {
		return ""
	}
	return list + "/" + id
}

// Publisher announces dropped keys to other gateway instances.
type Publisher interface {
	PublishInvalidation(ctx context.Context, sessionID string, keys []string) error
}

// Deps are shared by every session's services.
type Deps struct {
	Bus    Publisher
	Logger *log.Logger
	Clock  func() time.Time
	// WarmStats refetches the dashboard statistics in the background after
	// a money mutation.
	WarmStats bool
}

type base struct {
	sess   *session.Session
	deps   Deps
	logger *log.Logger
}

func newBase(sess *session.Session, deps Deps, component string) base {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return base{sess: sess, deps: deps, logger: deps.Logger.WithComponent(component)}
}

func (b *base) now() time.Time {
	return b.deps.Clock()
}

func (b *base) api() *api.Client {
	return b.sess.Client
}

// read serves key from the session store. The key is suppressed until
// the session is authenticated.
func read[T any](ctx context.Context, b *base, key string, refresh bool, fetch func(context.Context) (T, error)) (T, error) {
	key = b.sess.Gate.Key(key)
	if refresh {
		return cache.Refresh(ctx, b.sess.Store, key, fetch)
	}
	return cache.Fetch(ctx, b.sess.Store, key, fetch)
}

// peek returns the cached value of key when there is one.
func peek[T any](b *base, key string) (T, bool) {
	v, ok := b.sess.Store.Peek(key).Data.(T)
	return v, ok
}

// invalidate drops keys locally and tells the other instances.
func (b *base) invalidate(ctx context.Context, keys ...string) {
	b.sess.Store.Invalidate(keys...)
	b.publish(ctx, keys)
	for _, k := range keys {
		if k == KeyDashboard && b.deps.WarmStats {
			b.warmStats(ctx)
		}
	}
}

func (b *base) publish(ctx context.Context, keys []string) {
	if b.deps.Bus == nil {
		return
	}
	if err := b.deps.Bus.PublishInvalidation(ctx, b.sess.ID(), keys); err != nil {
		b.logger.WarnContext(ctx, "Failed to publish invalidation",
			log.NewFields().
				WithOperation(log.OpPublish).
				WithError(err).
				ToSlice()...)
	}
}

// warmStats refills the dashboard statistics without holding up the
// caller. A failure is logged and the key dropped again so the error is
// never shown.
func (b *base) warmStats(ctx context.Context) {
	store, client := b.sess.Store, b.sess.Client
	bg := context.WithoutCancel(ctx)
	go func() {
		st := store.Revalidate(bg, KeyDashboard, func(ctx context.Context) (any, error) {
			return client.Dashboard.Stats(ctx)
		})
		if st.Err != nil {
			b.logger.WarnContext(bg, "Background stats refresh failed", log.FieldError, st.Err.Error())
			store.Invalidate(KeyDashboard)
		}
	}()
}

// Error keeps the message shown when neither the upstream nor a
// validation check supplied one.
type Error struct {
	Op       string
	Fallback string
	Err      error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(op, fallback string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Fallback: fallback, Err: err}
}

const (
	MsgGeneric     = "Xatolik yuz berdi"
	MsgDeleteError = "O'chirishda xatolik yuz berdi"
)

// Message is the user-facing text for err: the first validation message,
// the upstream message, the operation's fallback, or the generic one.
func Message(err error) string {
	var verr *core.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		return verr.Fields[0].Message
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Fallback != "" {
		return svcErr.Fallback
	}
	return MsgGeneric
}
