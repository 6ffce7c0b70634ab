package http

import (
	"context"
	"errors"
	"net/http"

	"omonat/internal/api"
	"omonat/internal/core"
	"omonat/internal/log"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

const (
	msgMalformed   = "So'rov noto'g'ri formatda"
	msgTooLarge    = "So'rov hajmi juda katta"
	msgNotFound    = "Ma'lumot topilmadi"
	msgRateLimited = "Juda ko'p so'rov. Birozdan so'ng qayta urinib ko'ring"
)

// fail writes the answer for err. back is the list page a not-found
// detail links to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, sess *session.Session, err error, back string) {
	ctx := r.Context()
	var verr *core.ValidationError

	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// the browser went away
		return
	case IsTooLarge(err):
		ErrorResponse(http.StatusRequestEntityTooLarge, msgTooLarge).Write(w)
	case errors.Is(err, schema.ErrMalformed):
		BadRequestError(msgMalformed).Write(w)
	case errors.As(err, &verr):
		ValidationError(services.Message(err), verr.Messages()).Write(w)
	case api.IsUnauthorized(err):
		s.logger.InfoContext(ctx, "Upstream rejected session", log.FieldSession, sess.ID(), log.FieldPath, r.URL.Path)
		s.endSession(w, sess)
		RedirectResponse(session.LoginPath).Write(w)
	case api.IsNotFound(err):
		NotFoundError(messageOr(err, msgNotFound), back).Write(w)
	case errors.Is(err, context.DeadlineExceeded):
		s.retryable(w, r, http.StatusGatewayTimeout, err)
	case api.IsTransport(err):
		s.retryable(w, r, http.StatusBadGateway, err)
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			if apiErr.Retryable() {
				s.retryable(w, r, http.StatusBadGateway, err)
				return
			}
			ErrorResponse(apiErr.Status, services.Message(err)).Write(w)
			return
		}
		s.logger.ErrorContext(ctx, "Request failed", log.NewFields().WithError(err).ToSlice()...)
		ErrorResponse(http.StatusInternalServerError, services.Message(err)).Write(w)
	}
}

func (s *Server) retryable(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.WarnContext(r.Context(), "Upstream unavailable", log.NewFields().WithError(err).WithErrorType(log.ErrorTypeUpstream).ToSlice()...)
	msg := services.Message(err)
	if msg == services.MsgGeneric {
		msg = api.MsgTransport
	}
	NewResponse().
		Status(status).
		Error(ErrorBody{Message: msg, Retryable: true}).
		ErrorNotification(msg).
		Write(w)
}

func messageOr(err error, fallback string) string {
	if msg := services.Message(err); msg != services.MsgGeneric {
		return msg
	}
	return fallback
}

// page writes a read result.
func (s *Server) page(w http.ResponseWriter, r *http.Request, sess *session.Session, v any, err error, back string) {
	if err != nil {
		s.fail(w, r, sess, err, back)
		return
	}
	NewResponse().Data(v).Write(w)
}

// mutated writes a mutation result: the value, its notices and where the
// browser goes next.
func mutated[T any](s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session, m services.Mutation[T], err error, back string) {
	if err != nil {
		s.fail(w, r, sess, err, back)
		return
	}
	NewResponse().
		Data(m.Value).
		Notices(m.Notices...).
		Redirect(m.Redirect).
		Write(w)
}

// decode reads the request body into v after checking it against the
// named schema.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, name schema.Name, v any) error {
	return NewRequestBodyParser(w, r).Decode(s.schema, name, v)
}
