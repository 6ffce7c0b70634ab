// Package api is the typed client for the Omonat REST API.
//
// Every call goes through Client.do, which issues exactly one request and
// maps any failure to *Error. Session credentials live in the client's
// cookie jar, so callers never handle tokens directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"omonat/internal/log"
)

const (
	// SessionCookie is the cookie the upstream issues on login.
	SessionCookie = "jwt"
	// LoggedOut is the value the upstream writes into the cookie on logout.
	LoggedOut = "loggedout"

	DefaultTimeout = 9 * time.Second

	maxBodyBytes = 4 << 20
)

// Client talks to the upstream API on behalf of one session.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
	logger  *log.Logger

	Auth        *AuthAPI
	Debts       *DebtAPI
	Receivables *ReceivableAPI
	Expenses    *ExpenseAPI
	Dashboard   *DashboardAPI
	Admin       *AdminAPI
}

type Option func(*Client)

// WithTransport replaces the HTTP transport, e.g. to share a connection pool
// between session clients.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l.WithComponent(log.ComponentAPI)
	}
}

// WithSessionToken preloads the session cookie, for a browser that already
// holds a token.
func WithSessionToken(token string) Option {
	return func(c *Client) {
		if token == "" || token == LoggedOut {
			return
		}
		c.jar.SetCookies(c.baseURL, []*http.Cookie{{Name: SessionCookie, Value: token, Path: "/"}})
	}
}

// New creates a client for the API rooted at baseURL (for example
// "https://omonat.uz/api").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		jar:     jar,
		http:    &http.Client{Timeout: DefaultTimeout, Jar: jar},
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.Debts = &DebtAPI{c: c}
	c.Receivables = &ReceivableAPI{c: c}
	c.Expenses = &ExpenseAPI{c: c}
	c.Dashboard = &DashboardAPI{c: c}
	c.Admin = &AdminAPI{c: c}
	return c, nil
}

// SessionToken returns the current session cookie value, or "" when the
// session is absent or logged out.
func (c *Client) SessionToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookie && ck.Value != LoggedOut {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	raw := strings.TrimRight(u.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path, u.RawPath = p, raw
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type errorBody struct {
	Message string `json:"message"`
}

// do issues one request. body is JSON-encoded when non-nil; out receives the
// decoded response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Upstream request failed",
			log.NewFields().
				WithUpstream(method, path, 0).
				WithErrorType(log.ErrorTypeNetwork).
				WithError(err).
				ToSlice()...)
		return &Error{Message: MsgTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Message: MsgTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.DebugContext(ctx, "Upstream request completed",
		log.NewFields().
			WithUpstream(method, path, resp.StatusCode).
			WithHTTPResponse(resp.StatusCode, time.Since(start).Milliseconds()).
			ToSlice()...)

	if resp.StatusCode >= 400 {
		apiErr := &Error{Message: MsgTransport, Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
			apiErr.Message = eb.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.logger.WarnContext(ctx, "Session rejected by upstream",
				log.NewFields().
					WithUpstream(method, path, resp.StatusCode).
					WithErrorType(log.ErrorTypeAuth).
					ToSlice()...)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Message: MsgTransport, Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}

// escape makes an id safe to use as one path segment.
func escape(id string) string {
	return url.PathEscape(id)
}
