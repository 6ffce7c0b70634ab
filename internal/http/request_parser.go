// This file implements utilities for reading request bodies and query
// parameters. Bodies arrive as JSON or as form data, are sanitized, and
// are checked against a schema before they are decoded into inputs.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"omonat/internal/schema"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	data        map[string]any
	isJSON      bool
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	}
	return p
}

// Parse parses the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	switch {
	case trimmed == "":
		p.data = map[string]any{}
	case strings.HasPrefix(trimmed, "{"):
		p.isJSON = true
		if err := json.Unmarshal(p.body, &p.data); err != nil {
			p.err = fmt.Errorf("%w: %v", schema.ErrMalformed, err)
			return p.err
		}
	case strings.HasPrefix(trimmed, "["):
		p.err = fmt.Errorf("%w: expected an object", schema.ErrMalformed)
		return p.err
	default:
		form, err := url.ParseQuery(trimmed)
		if err != nil {
			p.err = fmt.Errorf("%w: %v", schema.ErrMalformed, err)
			return p.err
		}
		p.data = formValues(form)
	}
	sanitizeValues(p.data)
	return nil
}

// formValues turns form fields into JSON values. Repeated fields keep the
// first value; "true", "on" and "false" become booleans.
func formValues(form url.Values) map[string]any {
	out := make(map[string]any, len(form))
	for k, vs := range form {
		if len(vs) == 0 {
			continue
		}
		switch v := vs[0]; v {
		case "true", "on":
			out[k] = true
		case "false":
			out[k] = false
		default:
			out[k] = v
		}
	}
	return out
}

func sanitizeValues(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case string:
			m[k] = sanitizeInput(val)
		case map[string]any:
			sanitizeValues(val)
		}
	}
}

// Get returns a string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.data == nil {
		return ""
	}
	return stringValue(p.data[key])
}

// JSON returns the sanitized body re-encoded as a JSON object.
func (p *RequestBodyParser) JSON() ([]byte, error) {
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return json.Marshal(p.data)
}

// Decode checks the body against the named schema and decodes it into v.
func (p *RequestBodyParser) Decode(validator *schema.Validator, name schema.Name, v any) error {
	raw, err := p.JSON()
	if err != nil {
		return err
	}
	if err := validator.Validate(name, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", schema.ErrMalformed, err)
	}
	return nil
}

// GetRaw returns the raw body bytes.
func (p *RequestBodyParser) GetRaw() []byte {
	return p.body
}

// ContentType returns the Content-Type header value.
func (p *RequestBodyParser) ContentType() string {
	return p.contentType
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.isJSON
}

// IsTooLarge reports a body cut off by MaxBodyBytes.
func IsTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// SearchQuery is the sanitized ?q= of list pages.
func SearchQuery(r *http.Request) string {
	return sanitizeInput(r.URL.Query().Get("q"))
}

// WantsRefresh reports the manual refresh action, ?refresh=1.
func WantsRefresh(r *http.Request) bool {
	switch r.URL.Query().Get("refresh") {
	case "1", "true":
		return true
	}
	return false
}

// sanitizeInput removes control characters except tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
