package http

import (
	"net/http"

	"omonat/internal/services"
	"omonat/internal/session"
)

const adminUsersPath = "/admin/users"

func (s *Server) admin(sess *session.Session) *services.AdminService {
	return services.NewAdminService(sess, s.services)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.admin(sess).Stats(r.Context(), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.admin(sess).Users(r.Context(), SearchQuery(r), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleAdminUser(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.admin(sess).User(r.Context(), r.PathValue("id"), WantsRefresh(r))
	s.page(w, r, sess, v, err, adminUsersPath)
}

func (s *Server) handleAdminToggleBlock(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	m, err := s.admin(sess).ToggleBlock(r.Context(), r.PathValue("id"))
	mutated(s, w, r, sess, m, err, adminUsersPath)
}
