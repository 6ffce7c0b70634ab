package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"omonat/internal/api"
	"omonat/internal/cache"
	"omonat/internal/core"
)

func newTestRegistry(t *testing.T, h http.Handler) *Registry {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	r, err := NewRegistry(RegistryConfig{
		MaxSessions: 2,
		TTL:         time.Hour,
		Store:       cache.DefaultStoreConfig(),
		NewClient: func(token string) (*api.Client, error) {
			return api.New(srv.URL+"/api", api.WithSessionToken(token))
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestNewRegistryRequiresFactory(t *testing.T) {
	if _, err := NewRegistry(RegistryConfig{}); err == nil {
		t.Fatal("expected error without client factory")
	}
}

func TestRegistryGet(t *testing.T) {
	r := newTestRegistry(t, http.NotFoundHandler())

	a, err := r.Get("tok-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	again, _ := r.Get("tok-a")
	if a != again {
		t.Error("same token should return the same session")
	}
	if a.Client.SessionToken() != "tok-a" {
		t.Errorf("client token = %q", a.Client.SessionToken())
	}
	if a.ID() != Fingerprint("tok-a") || a.ID() == "tok-a" {
		t.Errorf("session ID should be a fingerprint, got %q", a.ID())
	}

	anon1, _ := r.Get("")
	anon2, _ := r.Get(api.LoggedOut)
	if anon1 == anon2 {
		t.Error("anonymous sessions must not be shared")
	}
	if r.Len() != 1 {
		t.Errorf("anonymous sessions must not be registered, len=%d", r.Len())
	}
}

func TestRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	r := newTestRegistry(t, http.NotFoundHandler())
	a, _ := r.Get("a")
	r.Get("b")
	r.Get("a")
	r.Get("c")

	if _, ok := r.Lookup("b"); ok {
		t.Error("b should have been evicted")
	}
	if got, ok := r.Lookup("a"); !ok || got != a {
		t.Error("a should still be registered")
	}
}

func TestRegistryAdoptAfterLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: api.SessionCookie, Value: "fresh", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Ali"}`))
	})
	r := newTestRegistry(t, mux)

	s, _ := r.Get("")
	if _, err := s.Client.Auth.Login(context.Background(), core.Credentials{Login: "+998901234567", Password: "secret"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token := r.Adopt(s); token != "fresh" {
		t.Fatalf("Adopt returned %q", token)
	}
	if got, ok := r.Lookup("fresh"); !ok || got != s {
		t.Fatal("adopted session should be registered under the new token")
	}
	if found, ok := r.Find(Fingerprint("fresh")); !ok || found != s {
		t.Fatal("Find should locate the session by fingerprint")
	}
}

func TestRegistryDrop(t *testing.T) {
	r := newTestRegistry(t, http.NotFoundHandler())
	s, _ := r.Get("tok")
	s.Store.Mutate("/debts", []string{"x"})

	r.Drop("tok")
	if _, ok := r.Lookup("tok"); ok {
		t.Error("dropped session still registered")
	}
	if s.Store.Size() != 0 {
		t.Error("drop should clear the session store")
	}
	if s.Gate.Identity().State != Unauthenticated {
		t.Error("drop should reset the identity")
	}
	r.Drop("missing")
}

func TestRegistryConcurrentGetSharesSession(t *testing.T) {
	r := newTestRegistry(t, http.NotFoundHandler())

	const callers = 32
	got := make([]*Session, callers)
	gate := make(chan struct{})
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-gate
			s, err := r.Get("tok-shared")
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			got[i] = s
		}(i)
	}
	close(gate)
	wg.Wait()

	for i, s := range got {
		if s != got[0] {
			t.Fatalf("caller %d got a different session for the same token", i)
		}
	}
	if r.Len() != 1 {
		t.Fatalf("expected one registered session, got %d", r.Len())
	}
}
