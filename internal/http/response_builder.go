// Package http is the gateway the browser talks to: JSON pages and
// mutations on top of the per-session services.
//
// This file implements the Builder Pattern for constructing responses.
// Every answer shares one envelope: data, notifications, an optional
// redirect, and an optional error.

package http

import (
	"encoding/json"
	"net/http"

	"omonat/internal/services"
)

// ErrorBody is the error part of the envelope.
type ErrorBody struct {
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
	Back      string            `json:"back,omitempty"`
}

type envelope struct {
	Data          any               `json:"data,omitempty"`
	Notifications []services.Notice `json:"notifications,omitempty"`
	RedirectTo    string            `json:"redirectTo,omitempty"`
	Error         *ErrorBody        `json:"error,omitempty"`
}

// ResponseBuilder provides a fluent API for building gateway responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	cookies    []*http.Cookie
	body       envelope
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Data sets the payload.
func (b *ResponseBuilder) Data(v any) *ResponseBuilder {
	b.body.Data = v
	return b
}

// Notify adds one notification.
func (b *ResponseBuilder) Notify(level services.Level, message string) *ResponseBuilder {
	b.body.Notifications = append(b.body.Notifications, services.Notice{Level: level, Message: message})
	return b
}

// Notices adds the notifications a mutation produced.
func (b *ResponseBuilder) Notices(notices ...services.Notice) *ResponseBuilder {
	b.body.Notifications = append(b.body.Notifications, notices...)
	return b
}

// SuccessNotification is a convenience method for success notifications.
func (b *ResponseBuilder) SuccessNotification(message string) *ResponseBuilder {
	return b.Notify(services.Success, message)
}

// ErrorNotification is a convenience method for error notifications.
func (b *ResponseBuilder) ErrorNotification(message string) *ResponseBuilder {
	return b.Notify(services.Failure, message)
}

// Redirect tells the browser where to go next. A redirect answer to a GET
// is sent as 303 See Other with a Location header.
func (b *ResponseBuilder) Redirect(to string) *ResponseBuilder {
	b.body.RedirectTo = to
	return b
}

// Error sets the error body.
func (b *ResponseBuilder) Error(e ErrorBody) *ResponseBuilder {
	b.body.Error = &e
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Cookie adds a Set-Cookie header.
func (b *ResponseBuilder) Cookie(c *http.Cookie) *ResponseBuilder {
	b.cookies = append(b.cookies, c)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	for _, c := range b.cookies {
		http.SetCookie(w, c)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

// ErrorResponse creates a standard error response with an error notification.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		Error(ErrorBody{Message: message}).
		ErrorNotification(message)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// ValidationError creates a 422 response listing the failed fields.
func ValidationError(message string, fields map[string]string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusUnprocessableEntity).
		Error(ErrorBody{Message: message, Fields: fields}).
		ErrorNotification(message)
}

// NotFoundError creates a 404 response with a link back to the list.
func NotFoundError(message, back string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusNotFound).
		Error(ErrorBody{Message: message, Back: back})
}

// RedirectResponse creates a 303 redirect.
func RedirectResponse(to string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusSeeOther).
		Header("Location", to).
		Redirect(to)
}
