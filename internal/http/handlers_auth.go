package http

import (
	"net/http"

	"omonat/internal/api"
	"omonat/internal/core"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

type authPage struct {
	Page string `json:"page"`
}

func (s *Server) handleAuthPage(page string) pageHandler {
	return func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		NewResponse().Data(authPage{Page: page}).Write(w)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var form core.LoginForm
	if err := s.decode(w, r, schema.Login, &form); err != nil {
		s.fail(w, r, sess, err, "")
		return
	}
	m, err := s.auth.Login(r.Context(), sess, form)
	s.signedIn(w, r, sess, m, err)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var form core.RegisterForm
	if err := s.decode(w, r, schema.Register, &form); err != nil {
		s.fail(w, r, sess, err, "")
		return
	}
	m, err := s.auth.Register(r.Context(), sess, form)
	s.signedIn(w, r, sess, m, err)
}

// signedIn hands the upstream session token to the browser. Rejected
// credentials are an answer on the form, not an expired session.
func (s *Server) signedIn(w http.ResponseWriter, r *http.Request, sess *session.Session, m services.Mutation[core.User], err error) {
	if err != nil {
		if api.IsUnauthorized(err) || api.IsForbidden(err) || api.IsBadRequest(err) {
			ErrorResponse(http.StatusUnauthorized, services.Message(err)).Write(w)
			return
		}
		s.fail(w, r, sess, err, "")
		return
	}
	res := NewResponse().Data(m.Value).Notices(m.Notices...).Redirect(m.Redirect)
	if token := sess.Token(); session.HasToken(token) {
		res.Cookie(s.sessionCookie(token))
	}
	res.Write(w)
}

// handleLogout is reachable with or without a session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	res := NewResponse().Cookie(s.expiredCookie())

	if !session.HasToken(token) {
		res.SuccessNotification(services.MsgLoggedOut).Redirect(session.LoginPath).Write(w)
		return
	}
	sess, err := s.registry.Get(token)
	if err != nil {
		s.registry.Drop(token)
		res.SuccessNotification(services.MsgLoggedOut).Redirect(session.LoginPath).Write(w)
		return
	}
	m := s.auth.Logout(r.Context(), sess)
	res.Notices(m.Notices...).Redirect(m.Redirect).Write(w)
}
