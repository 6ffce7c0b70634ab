package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"omonat/internal/api"
	"omonat/internal/cache"
	"omonat/internal/log"
)

// Session is everything the gateway keeps for one browser session.
type Session struct {
	Client *api.Client
	Store  *cache.Store
	Gate   *Gate

	mu    sync.Mutex
	id    string
	token string
}

// ID is a short fingerprint of the token, safe to log and to publish.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Token returns the token the session is registered under.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Fingerprint derives the session ID from a token.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// ClientFactory builds an API client preloaded with token.
type ClientFactory func(token string) (*api.Client, error)

type RegistryConfig struct {
	MaxSessions int
	TTL         time.Duration
	Store       cache.StoreConfig
	NewClient   ClientFactory
	Logger      *log.Logger
}

// Registry maps session tokens to sessions. Idle sessions expire after the
// TTL, and the least recently used one is evicted past MaxSessions.
type Registry struct {
	// mu serializes registration so one token maps to one session.
	mu        sync.Mutex
	sessions  *cache.LRUCache[*Session]
	storeCfg  cache.StoreConfig
	newClient ClientFactory
	logger    *log.Logger
}

func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if cfg.NewClient == nil {
		return nil, fmt.Errorf("session registry: client factory is required")
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	return &Registry{
		sessions:  cache.NewLRUCache[*Session](cfg.MaxSessions, cfg.TTL),
		storeCfg:  cfg.Store,
		newClient: cfg.NewClient,
		logger:    cfg.Logger.WithComponent(log.ComponentSession),
	}, nil
}

// Get returns the session for token, creating it on first sight. An
// absent token yields a fresh anonymous session that is not registered
// until Adopt is called after a successful login.
func (r *Registry) Get(token string) (*Session, error) {
	if !HasToken(token) {
		return r.create("")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions.Get(token); ok {
		// touch to restart the idle TTL
		r.sessions.Set(token, s)
		return s, nil
	}
	s, err := r.create(token)
	if err != nil {
		return nil, err
	}
	r.sessions.Set(token, s)
	r.logger.Debug("Session created", log.FieldSession, s.ID())
	return s, nil
}

func (r *Registry) create(token string) (*Session, error) {
	client, err := r.newClient(token)
	if err != nil {
		return nil, fmt.Errorf("create session client: %w", err)
	}
	cfg := r.storeCfg
	cfg.Logger = r.logger
	store := cache.NewStore(cfg)
	return &Session{
		Client: client,
		Store:  store,
		Gate:   NewGate(client, store, r.logger),
		id:     Fingerprint(token),
		token:  token,
	}, nil
}

// Adopt registers s under the token its client now holds, typically right
// after login or registration set the upstream cookie. The previous token,
// if any and different, is dropped.
func (r *Registry) Adopt(s *Session) string {
	token := s.Client.SessionToken()
	s.mu.Lock()
	prev := s.token
	s.token = token
	s.id = Fingerprint(token)
	s.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev != "" && prev != token {
		r.sessions.Delete(prev)
	}
	if token != "" {
		r.sessions.Set(token, s)
		r.logger.Debug("Session adopted", log.FieldSession, s.ID())
	}
	return token
}

// Lookup returns a registered session without creating one.
func (r *Registry) Lookup(token string) (*Session, bool) {
	if !HasToken(token) {
		return nil, false
	}
	return r.sessions.Get(token)
}

// Find returns the registered session with the given ID.
func (r *Registry) Find(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	for _, s := range r.sessions.Values() {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// Drop forgets the session and clears its cache.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	s, ok := r.sessions.Get(token)
	if ok {
		r.sessions.Delete(token)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Store.Clear()
	s.Gate.Reset()
	r.logger.Debug("Session dropped", log.FieldSession, s.ID())
}

// CleanExpired removes idle sessions and sweeps expired entries from the
// stores of the remaining ones.
func (r *Registry) CleanExpired() int {
	n := r.sessions.CleanExpired()
	for _, s := range r.sessions.Values() {
		n += s.Store.CleanExpired()
	}
	return n
}

func (r *Registry) Len() int {
	return r.sessions.Size()
}
