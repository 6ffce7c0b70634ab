package api

import (
	"errors"
	"fmt"
	"net/http"
)

// MsgTransport is shown when the upstream gave no usable message.
const MsgTransport = "Server bilan ulanishda xatolik yuz berdi"

// Error is the single error shape every resource call returns. Status is
// the upstream HTTP status, or zero when no response arrived.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("upstream unreachable: %s: %v", e.Message, e.Err)
		}
		return "upstream unreachable: " + e.Message
	}
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient: no response, a
// timeout, or an upstream 5xx.
func (e *Error) Retryable() bool {
	return e.Status == 0 || e.Status >= 500
}

func statusOf(err error) (int, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsUnauthorized reports an invalid or expired session.
func IsUnauthorized(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusUnauthorized
}

// IsForbidden reports a blocked account or a non-admin on an admin route.
func IsForbidden(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusForbidden
}

func IsNotFound(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusNotFound
}

// IsTransport reports a failure where no upstream response was received.
func IsTransport(err error) bool {
	s, ok := statusOf(err)
	return ok && s == 0
}

// IsBadRequest reports an upstream validation rejection.
func IsBadRequest(err error) bool {
	s, ok := statusOf(err)
	return ok && (s == http.StatusBadRequest || s == http.StatusUnprocessableEntity)
}
