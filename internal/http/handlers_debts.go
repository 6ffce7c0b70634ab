package http

import (
	"net/http"

	"omonat/internal/core"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

const (
	debtsPath       = "/debts"
	receivablesPath = "/receivables"
)

func (s *Server) debts(sess *session.Session) *services.DebtService {
	return services.NewDebtService(sess, s.services)
}

func (s *Server) receivables(sess *session.Session) *services.ReceivableService {
	return services.NewReceivableService(sess, s.services)
}

func (s *Server) handleDebtList(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.debts(sess).List(r.Context(), SearchQuery(r), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleDebtDetail(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.debts(sess).Detail(r.Context(), r.PathValue("id"), WantsRefresh(r))
	s.page(w, r, sess, v, err, debtsPath)
}

func (s *Server) handleDebtCreate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.DebtInput
	if err := s.decode(w, r, schema.Debt, &in); err != nil {
		s.fail(w, r, sess, err, debtsPath)
		return
	}
	m, err := s.debts(sess).Create(r.Context(), in)
	mutated(s, w, r, sess, m, err, debtsPath)
}

func (s *Server) handleDebtUpdate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.DebtInput
	if err := s.decode(w, r, schema.Debt, &in); err != nil {
		s.fail(w, r, sess, err, debtsPath)
		return
	}
	m, err := s.debts(sess).Update(r.Context(), r.PathValue("id"), in)
	mutated(s, w, r, sess, m, err, debtsPath)
}

func (s *Server) handleDebtDelete(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	m, err := s.debts(sess).Delete(r.Context(), r.PathValue("id"))
	mutated(s, w, r, sess, m, err, debtsPath)
}

func (s *Server) handleDebtPay(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.PaymentInput
	if err := s.decode(w, r, schema.Payment, &in); err != nil {
		s.fail(w, r, sess, err, debtsPath)
		return
	}
	m, err := s.debts(sess).Pay(r.Context(), r.PathValue("id"), in)
	mutated(s, w, r, sess, m, err, debtsPath)
}

func (s *Server) handleDebtDeleteHistory(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	m, err := s.debts(sess).DeleteHistory(r.Context(), r.PathValue("id"), r.PathValue("historyID"))
	mutated(s, w, r, sess, m, err, debtsPath)
}

func (s *Server) handleReceivableList(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.receivables(sess).List(r.Context(), SearchQuery(r), WantsRefresh(r))
	s.page(w, r, sess, v, err, "")
}

func (s *Server) handleReceivableDetail(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	v, err := s.receivables(sess).Detail(r.Context(), r.PathValue("id"), WantsRefresh(r))
	s.page(w, r, sess, v, err, receivablesPath)
}

func (s *Server) handleReceivableCreate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.ReceivableInput
	if err := s.decode(w, r, schema.Receivable, &in); err != nil {
		s.fail(w, r, sess, err, receivablesPath)
		return
	}
	m, err := s.receivables(sess).Create(r.Context(), in)
	mutated(s, w, r, sess, m, err, receivablesPath)
}

func (s *Server) handleReceivableUpdate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.ReceivableInput
	if err := s.decode(w, r, schema.Receivable, &in); err != nil {
		s.fail(w, r, sess, err, receivablesPath)
		return
	}
	m, err := s.receivables(sess).Update(r.Context(), r.PathValue("id"), in)
	mutated(s, w, r, sess, m, err, receivablesPath)
}

func (s *Server) handleReceivableDelete(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	m, err := s.receivables(sess).Delete(r.Context(), r.PathValue("id"))
	mutated(s, w, r, sess, m, err, receivablesPath)
}

func (s *Server) handleReceivableReceive(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var in core.PaymentInput
	if err := s.decode(w, r, schema.Payment, &in); err != nil {
		s.fail(w, r, sess, err, receivablesPath)
		return
	}
	m, err := s.receivables(sess).Receive(r.Context(), r.PathValue("id"), in)
	mutated(s, w, r, sess, m, err, receivablesPath)
}

func (s *Server) handleReceivableDeleteHistory(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	m, err := s.receivables(sess).DeleteHistory(r.Context(), r.PathValue("id"), r.PathValue("historyID"))
	mutated(s, w, r, sess, m, err, receivablesPath)
}
