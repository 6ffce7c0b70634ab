package http

import (
	"net/http"

	"omonat/internal/core"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

const expensesPath = "/expenses"

func (s *Server) expenses(sess *session.Session) *services.ExpenseService {
	return services.NewExpenseService(sess, s.services)
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.expenses(sess).List(r.Context(), SearchQuery(r), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleExpenseDetail(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.expenses(sess).Detail(r.Context(), r.PathValue("id"), WantsRefresh(r))
	s.page(w, r, sess, v, err, expensesPath)
}

func (s *Server) handleExpenseCreate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.ExpenseInput
	if err := s.decode(w, r, schema.Expense, &in); err != nil {
		s.fail(w, r, sess, err, expensesPath)
		return
	}
	m, err := s.expenses(sess).Create(r.Context(), in)
	mutated(s, w, r, sess, m, err, expensesPath)
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.ExpenseInput
	if err := s.decode(w, r, schema.Expense, &in); err != nil {
		s.fail(w, r, sess, err, expensesPath)
		return
	}
	m, err := s.expenses(sess).Update(r.Context(), r.PathValue("id"), in)
	mutated(s, w, r, sess, m, err, expensesPath)
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	m, err := s.expenses(sess).Delete(r.Context(), r.PathValue("id"))
	mutated(s, w, r, sess, m, err, expensesPath)
}
