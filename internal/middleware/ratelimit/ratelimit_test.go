package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimiter(t *testing.T, perMinute int) (*Limiter, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour, Clock: c.Now})
	t.Cleanup(rl.Stop)
	return rl, c
}

func TestAllow(t *testing.T) {
	rl, c := newLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth request inside the window should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other clients have their own budget")
	}
	if got := rl.GetMetrics(); got.TotalHits != 1 || got.ClientCount != 2 {
		t.Errorf("metrics = %+v", got)
	}

	c.Advance(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("a new window should reset the budget")
	}
}

func TestSteadyTrafficStillLimited(t *testing.T) {
	rl, c := newLimiter(t, 2)
	rl.Allow("ip")
	c.Advance(20 * time.Second)
	rl.Allow("ip")
	c.Advance(20 * time.Second)
	if rl.Allow("ip") {
		t.Fatal("requests spaced under a minute apart must not reset the window")
	}
	if d := rl.RetryAfter("ip"); d != 20*time.Second {
		t.Errorf("RetryAfter = %v, want 20s", d)
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, c := newLimiter(t, 10)
	rl.Allow("old")
	c.Advance(11 * time.Minute)
	rl.Allow("new")

	if n := rl.cleanupStaleEntries(); n != 1 {
		t.Fatalf("removed %d entries, want 1", n)
	}
	if rl.ActiveClients() != 1 {
		t.Errorf("ActiveClients = %d", rl.ActiveClients())
	}
}

func TestMiddlewareOnlyLimitsMutations(t *testing.T) {
	rl, _ := newLimiter(t, 1)
	h := rl.Middleware(func(*http.Request) string { return "ip" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/debts", nil))
		return rr
	}

	for i := 0; i < 5; i++ {
		if rr := do(http.MethodGet); rr.Code != http.StatusNoContent {
			t.Fatalf("GET %d limited: %d", i, rr.Code)
		}
	}
	if rr := do(http.MethodPost); rr.Code != http.StatusNoContent {
		t.Fatalf("first POST = %d", rr.Code)
	}
	rr := do(http.MethodDelete)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second mutation = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rr.Header().Get("Retry-After"))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
