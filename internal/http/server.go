package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"omonat/internal/api"
	"omonat/internal/log"
	"omonat/internal/middleware/ratelimit"
	"omonat/internal/middleware/security"
	"omonat/internal/middleware/trace"
	"omonat/internal/schema"
	"omonat/internal/services"
	"omonat/internal/session"
)

// Deps is everything the gateway needs from the process.
type Deps struct {
	Registry *session.Registry
	Schema   *schema.Validator
	Services services.Deps
	Logger   *log.Logger

	CookieSecure       bool
	RateLimitPerMinute int
	// Ready reports readiness for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	registry     *session.Registry
	schema       *schema.Validator
	services     services.Deps
	auth         *services.AuthService
	logger       *log.Logger
	limiter      *ratelimit.Limiter
	detector     *security.Detector
	cookieSecure bool
	ready        func(ctx context.Context) error

	shutdownOnce sync.Once
}

// pageHandler serves one route for a session that passed the route policy
// and the identity gate.
type pageHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = log.Discard()
	}
	if d.Services.Logger == nil {
		d.Services.Logger = d.Logger
	}
	logger := d.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		registry:     d.Registry,
		schema:       d.Schema,
		services:     d.Services,
		auth:         services.NewAuthService(d.Registry, d.Logger),
		logger:       logger,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: d.RateLimitPerMinute}),
		detector:     security.NewDetector(d.Logger),
		cookieSecure: d.CookieSecure,
		ready:        d.Ready,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /authentication/login", s.gated(s.handleAuthPage("login")))
	mux.HandleFunc("GET /authentication/register", s.gated(s.handleAuthPage("register")))
	mux.HandleFunc("POST /authentication/login", s.gated(s.handleLogin))
	mux.HandleFunc("POST /authentication/register", s.gated(s.handleRegister))
	mux.HandleFunc("POST /authentication/logout", s.handleLogout)

	mux.HandleFunc("GET /{$}", s.gated(s.handleDashboard))
	mux.HandleFunc("GET /overview", s.gated(s.handleOverview))
	mux.HandleFunc("GET /profile", s.gated(s.handleProfile))
	mux.HandleFunc("PUT /profile", s.gated(s.handleUpdateProfile))

	mux.HandleFunc("GET /debts", s.gated(s.handleDebtList))
	mux.HandleFunc("POST /debts", s.gated(s.handleDebtCreate))
	mux.HandleFunc("GET /debts/{id}", s.gated(s.handleDebtDetail))
	mux.HandleFunc("PUT /debts/{id}", s.gated(s.handleDebtUpdate))
	mux.HandleFunc("DELETE /debts/{id}", s.gated(s.handleDebtDelete))
	mux.HandleFunc("POST /debts/{id}/pay", s.gated(s.handleDebtPay))
	mux.HandleFunc("DELETE /debts/{id}/history/{historyID}", s.gated(s.handleDebtDeleteHistory))

	mux.HandleFunc("GET /receivables", s.gated(s.handleReceivableList))
	mux.HandleFunc("POST /receivables", s.gated(s.handleReceivableCreate))
	mux.HandleFunc("GET /receivables/{id}", s.gated(s.handleReceivableDetail))
	mux.HandleFunc("PUT /receivables/{id}", s.gated(s.handleReceivableUpdate))
	mux.HandleFunc("DELETE /receivables/{id}", s.gated(s.handleReceivableDelete))
	mux.HandleFunc("POST /receivables/{id}/receive", s.gated(s.handleReceivableReceive))
	mux.HandleFunc("DELETE /receivables/{id}/history/{historyID}", s.gated(s.handleReceivableDeleteHistory))

	mux.HandleFunc("GET /expenses", s.gated(s.handleExpenseList))
	mux.HandleFunc("POST /expenses", s.gated(s.handleExpenseCreate))
	mux.HandleFunc("GET /expenses/{id}", s.gated(s.handleExpenseDetail))
	mux.HandleFunc("PUT /expenses/{id}", s.gated(s.handleExpenseUpdate))
	mux.HandleFunc("DELETE /expenses/{id}", s.gated(s.handleExpenseDelete))

	mux.HandleFunc("GET /admin", s.gated(s.handleAdminStats))
	mux.HandleFunc("GET /admin/users", s.gated(s.handleAdminUsers))
	mux.HandleFunc("GET /admin/users/{id}", s.gated(s.handleAdminUser))
	mux.HandleFunc("PATCH /admin/users/{id}/toggle-block", s.gated(s.handleAdminToggleBlock))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware()
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded", log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, msgRateLimited).Write(w)
	})

	var h http.Handler = mux
	h = limit(h)
	h = s.detector.Middleware(h)
	h = headers.Middleware(h)
	h = log.AccessLog(s.detector.ExtractClientIP)(h)
	h = log.RequestIDMiddleware(trace.FromRequest)(h)
	h = log.Middleware(d.Logger)(h)
	h = tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      api.DefaultTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// gated runs the route policy, then the identity gate for the path's
// access level, then h.
func (s *Server) gated(h pageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if out := session.RoutePolicy(r.URL.Path, token); !out.Allowed() {
			RedirectResponse(out.RedirectTo).Write(w)
			return
		}

		sess, err := s.registry.Get(token)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Session setup failed", log.FieldError, err.Error())
			ErrorResponse(http.StatusInternalServerError, services.MsgGeneric).Write(w)
			return
		}

		if access := session.AccessFor(r.URL.Path); access != session.Public {
			resolve := sess.Gate.Resolve
			if WantsRefresh(r) {
				resolve = sess.Gate.Revalidate
			}
			id, err := resolve(r.Context())
			if err != nil {
				s.fail(w, r, sess, err, "")
				return
			}
			switch out := session.Decide(id, access); {
			case out.Loading:
				NewResponse().
					Status(http.StatusServiceUnavailable).
					Header("Retry-After", "1").
					Error(ErrorBody{Message: api.MsgTransport, Retryable: true}).
					Write(w)
				return
			case !out.Allowed():
				if out.RedirectTo == session.LoginPath {
					s.endSession(w, sess)
				}
				RedirectResponse(out.RedirectTo).Write(w)
				return
			}
		}

		h(w, r, sess)
	}
}

func sessionToken(r *http.Request) string {
	c, err := r.Cookie(api.SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     api.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) expiredCookie() *http.Cookie {
	c := s.sessionCookie("")
	c.MaxAge = -1
	return c
}

// endSession forgets a session the upstream no longer accepts and expires
// the browser cookie.
func (s *Server) endSession(w http.ResponseWriter, sess *session.Session) {
	if token := sess.Token(); session.HasToken(token) {
		s.registry.Drop(token)
	}
	http.SetCookie(w, s.expiredCookie())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Not ready", log.FieldError, err.Error())
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
