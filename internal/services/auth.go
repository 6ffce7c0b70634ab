package services

import (
	"context"

	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/session"
)

// Sessions is the part of the registry login and logout need.
type Sessions interface {
	Adopt(s *session.Session) string
	Drop(token string)
}

type AuthService struct {
	sessions Sessions
	logger   *log.Logger
}

func NewAuthService(sessions Sessions, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.Discard()
	}
	return &AuthService{sessions: sessions, logger: logger.WithComponent(log.ComponentSession)}
}

// Login signs sess in and registers it under the token the upstream set.
func (a *AuthService) Login(ctx context.Context, sess *session.Session, form core.LoginForm) (Mutation[core.User], error) {
	u, err := sess.Client.Auth.Login(ctx, form.Credentials())
	if err != nil {
		a.logger.InfoContext(ctx, "Login rejected", log.NewFields().WithOperation(log.OpLogin).WithError(err).ToSlice()...)
		return Mutation[core.User]{}, fail("login", MsgGeneric, err)
	}
	return a.signedIn(ctx, sess, u, MsgLoggedIn), nil
}

func (a *AuthService) Register(ctx context.Context, sess *session.Session, form core.RegisterForm) (Mutation[core.User], error) {
	if err := form.Validate(); err != nil {
		return Mutation[core.User]{}, err
	}
	u, err := sess.Client.Auth.Register(ctx, form.Registration())
	if err != nil {
		return Mutation[core.User]{}, fail("register", MsgGeneric, err)
	}
	return a.signedIn(ctx, sess, u, MsgRegistered), nil
}

// signedIn adopts the session. Without a session cookie from the upstream
// the user still has to log in.
func (a *AuthService) signedIn(ctx context.Context, sess *session.Session, u core.User, msg string) Mutation[core.User] {
	token := a.sessions.Adopt(sess)
	if token == "" {
		return done(u, session.LoginPath, success(msg))
	}
	sess.Gate.SetUser(u)
	a.logger.InfoContext(ctx, "Signed in", log.FieldSession, sess.ID(), log.FieldUserID, u.ID)
	return done(u, session.HomePath, success(msg))
}

// Logout ends the session locally even when the upstream call fails.
func (a *AuthService) Logout(ctx context.Context, sess *session.Session) Mutation[struct{}] {
	token := sess.Token()
	if session.HasToken(token) {
		if err := sess.Client.Auth.Logout(ctx); err != nil {
			a.logger.WarnContext(ctx, "Upstream logout failed", log.NewFields().WithOperation(log.OpLogout).WithError(err).ToSlice()...)
		}
		a.sessions.Drop(token)
	}
	sess.Store.Clear()
	sess.Gate.Reset()
	return done(struct{}{}, session.LoginPath, success(MsgLoggedOut))
}
