// Package session resolves who is behind a browser session and decides
// where a request may go. It also keeps the per-session API client and
// cache store in a bounded registry.
package session

import (
	"context"
	"sync"

	"omonat/internal/api"
	"omonat/internal/cache"
	"omonat/internal/core"
	"omonat/internal/log"
)

// State of the identity machine. A session starts Resolving and moves to
// Authenticated or Unauthenticated once /auth/me answers.
type State int

const (
	Resolving State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Access is the level a page requires.
type Access int

const (
	Public Access = iota
	Protected
	AdminOnly
)

const (
	LoginPath = "/authentication/login"
	HomePath  = "/"

	// MeKey is the cache key of the current user.
	MeKey = "/auth/me"
)

// Identity is the current state of the machine plus the user once known.
type Identity struct {
	State State
	User  core.User
}

func (i Identity) IsAdmin() bool {
	return i.State == Authenticated && i.User.IsAdmin
}

// Outcome is a navigation decision. An empty RedirectTo with Loading false
// means the page may render.
type Outcome struct {
	Loading    bool   `json:"loading,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// Allowed reports whether the page may render.
func (o Outcome) Allowed() bool {
	return !o.Loading && o.RedirectTo == ""
}

// Decide maps an identity and a page's access level to an outcome.
func Decide(id Identity, access Access) Outcome {
	if access == Public {
		return Outcome{}
	}
	switch id.State {
	case Resolving:
		return Outcome{Loading: true}
	case Unauthenticated:
		return Outcome{RedirectTo: LoginPath}
	}
	if access == AdminOnly && !id.User.IsAdmin {
		return Outcome{RedirectTo: HomePath}
	}
	return Outcome{}
}

// Gate owns the identity of one session.
type Gate struct {
	mu     sync.Mutex
	id     Identity
	client *api.Client
	store  *cache.Store
	logger *log.Logger
}

func NewGate(client *api.Client, store *cache.Store, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.Discard()
	}
	return &Gate{
		client: client,
		store:  store,
		logger: logger.WithComponent(log.ComponentGate),
	}
}

// Identity returns the last resolved identity without any request.
func (g *Gate) Identity() Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

// meKey is empty while there is no session token, which keeps the store
// from ever asking the upstream who an anonymous visitor is.
func (g *Gate) meKey() string {
	if g.client.SessionToken() == "" {
		return ""
	}
	return MeKey
}

// Resolve settles the identity through the cached /auth/me. A rejected
// session becomes Unauthenticated. Any other failure leaves the identity
// as it was and is returned.
func (g *Gate) Resolve(ctx context.Context) (Identity, error) {
	return g.resolve(ctx, false)
}

// Revalidate is Resolve with a forced /auth/me refetch.
func (g *Gate) Revalidate(ctx context.Context) (Identity, error) {
	return g.resolve(ctx, true)
}

func (g *Gate) resolve(ctx context.Context, force bool) (Identity, error) {
	key := g.meKey()
	if key == "" {
		return g.set(Identity{State: Unauthenticated}), nil
	}

	get := cache.Fetch[core.User]
	if force {
		get = cache.Refresh[core.User]
	}
	u, err := get(ctx, g.store, key, g.client.Auth.Me)
	switch {
	case err == nil:
		return g.set(Identity{State: Authenticated, User: u}), nil
	case api.IsUnauthorized(err), api.IsForbidden(err):
		g.logger.InfoContext(ctx, "Session not accepted by upstream", log.FieldError, err.Error())
		return g.set(Identity{State: Unauthenticated}), nil
	default:
		return g.Identity(), err
	}
}

// SetUser records a user returned by login, register or a profile update
// and replaces the cached /auth/me without a request.
func (g *Gate) SetUser(u core.User) {
	g.store.Mutate(MeKey, u)
	g.set(Identity{State: Authenticated, User: u})
}

// Reset marks the session logged out.
func (g *Gate) Reset() {
	g.store.Invalidate(MeKey)
	g.set(Identity{State: Unauthenticated})
}

// Key returns key while the session is authenticated and "" otherwise, so
// user-scoped reads are suppressed until the identity is known.
func (g *Gate) Key(key string) string {
	if g.Identity().State != Authenticated {
		return ""
	}
	return key
}

func (g *Gate) set(id Identity) Identity {
	g.mu.Lock()
	prev := g.id.State
	g.id = id
	g.mu.Unlock()
	if prev != id.State {
		g.logger.Debug("Identity changed", "from", prev.String(), "to", id.State.String(), log.FieldUserID, id.User.ID)
	}
	return id
}
