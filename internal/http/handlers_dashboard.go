package http

import (
	"net/http"

	"omonat/internal/core"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := services.NewDashboardService(sess, s.services).Dashboard(r.Context(), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := services.NewDashboardService(sess, s.services).Overview(r.Context(), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	u, err := services.NewProfileService(sess, s.services).Get(r.Context(), WantsRefresh(r))
	s.page(w, r, sess, u, err, "")
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.ProfileInput
	if err := s.decode(w, r, schema.Profile, &in); err != nil {
		s.fail(w, r, sess, err, "")
		return
	}
	m, err := services.NewProfileService(sess, s.services).Update(r.Context(), in)
	mutated(s, w, r, sess, m, err, "")
}
