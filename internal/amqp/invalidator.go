package amqp

import (
	"context"

	"omonat/internal/log"
	"omonat/internal/session"
)

// SessionFinder looks a session up by fingerprint.
type SessionFinder interface {
	Find(id string) (*session.Session, bool)
}

// Invalidator returns a Handler that drops the named keys from the
// session's store. Sessions this instance does not hold are ignored.
func Invalidator(sessions SessionFinder, logger *log.Logger) Handler {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentAMQP)
	return func(ctx context.Context, msg *InvalidationMessage) error {
		sess, ok := sessions.Find(msg.Session)
		if !ok {
			return nil
		}
		sess.Store.Invalidate(msg.Keys...)
		logger.DebugContext(ctx, "Applied remote invalidation",
			log.FieldSession, msg.Session,
			log.FieldOrigin, msg.Origin,
			"keys", msg.Keys)
		return nil
	}
}
