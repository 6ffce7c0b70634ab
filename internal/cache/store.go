package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"omonat/internal/log"
)

// ErrNoKey is returned by the typed helpers when the key is empty and the
// fetch was suppressed.
var ErrNoKey = errors.New("cache: fetch suppressed for empty key")

// Fetcher loads the value for one key. It runs with the store's own
// deadline, detached from the caller's cancellation.
type Fetcher func(ctx context.Context) (any, error)

// State is what a view sees for one key: the last known data, a sticky
// error, and whether a fetch is running.
type State struct {
	Data      any
	Err       error
	IsLoading bool
	UpdatedAt time.Time
}

// HasData reports whether the state has ever been filled.
func (s State) HasData() bool {
	return !s.UpdatedAt.IsZero()
}

type entry struct {
	data      any
	err       error
	updatedAt time.Time

	// issued is the newest sequence token handed out for this key. A
	// fetch result is written only if its token still equals issued.
	issued uint64
	// flight is the token of the fetch registered in the singleflight
	// group under this key, zero when there is none to join.
	flight uint64

	inflight    int
	flightStart time.Time
}

func (e *entry) state() State {
	return State{Data: e.data, Err: e.err, IsLoading: e.inflight > 0, UpdatedAt: e.updatedAt}
}

type StoreConfig struct {
	MaxEntries int
	TTL        time.Duration
	// Dedupe is how long a completed or in-flight fetch is reused before
	// a new request is sent.
	Dedupe  time.Duration
	Timeout time.Duration
	Logger  *log.Logger
	Clock   func() time.Time
}

// DefaultStoreConfig mirrors the client defaults: a 2s dedupe window and
// the 9s request deadline.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxEntries: 256,
		TTL:        5 * time.Minute,
		Dedupe:     2 * time.Second,
		Timeout:    9 * time.Second,
	}
}

// Store is a keyed request cache for one session.
//
// Concurrent Use calls for a key share one request. Errors stick until the
// key is revalidated, mutated or invalidated. Results of superseded fetches
// reach their own callers but never overwrite newer cache contents.
type Store struct {
	mu      sync.Mutex
	entries *LRUCache[*entry]
	group   singleflight.Group
	seq     uint64
	dedupe  time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *log.Logger
}

func NewStore(cfg StoreConfig) *Store {
	def := DefaultStoreConfig()
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Dedupe < 0 {
		cfg.Dedupe = 0
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}

	entries := NewLRUCache[*entry](cfg.MaxEntries, cfg.TTL)
	entries.now = cfg.Clock
	return &Store{
		entries: entries,
		dedupe:  cfg.Dedupe,
		timeout: cfg.Timeout,
		now:     cfg.Clock,
		logger:  cfg.Logger.WithComponent(log.ComponentCache),
	}
}

// entryLocked returns the entry for key, creating it if needed. s.mu must be held.
func (s *Store) entryLocked(key string) *entry {
	if e, ok := s.entries.Get(key); ok {
		return e
	}
	e := &entry{}
	s.entries.Set(key, e)
	return e
}

// Use returns the cached state for key, fetching when there is no entry,
// or when the entry is older than the dedupe window. A fetch in flight is
// joined. A sticky error is returned as is without a request. An empty
// key returns the zero State and never calls fetch.
func (s *Store) Use(ctx context.Context, key string, fetch Fetcher) State {
	if key == "" {
		return State{}
	}

	s.mu.Lock()
	e := s.entryLocked(key)
	if e.flight != 0 {
		ch := s.joinLocked(key)
		s.mu.Unlock()
		return s.wait(ctx, ch)
	}
	sticky := e.err != nil
	fresh := !e.updatedAt.IsZero() && s.now().Sub(e.updatedAt) < s.dedupe
	if sticky || fresh {
		st := e.state()
		s.mu.Unlock()
		return st
	}
	ch := s.startLocked(ctx, key, e, fetch)
	s.mu.Unlock()
	return s.wait(ctx, ch)
}

// Revalidate forces a fetch for key and clears a sticky error. A fetch
// already in flight that started inside the dedupe window is joined
// instead of duplicated.
func (s *Store) Revalidate(ctx context.Context, key string, fetch Fetcher) State {
	if key == "" {
		return State{}
	}

	s.mu.Lock()
	e := s.entryLocked(key)
	joinable := e.flight != 0 && s.now().Sub(e.flightStart) < s.dedupe
	var ch <-chan singleflight.Result
	if joinable {
		ch = s.joinLocked(key)
	} else {
		ch = s.startLocked(ctx, key, e, fetch)
	}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Revalidating", log.FieldCacheKey, key, "joined", joinable)
	return s.wait(ctx, ch)
}

var errFlightGone = errors.New("cache: joined fetch is no longer registered")

// joinLocked attaches to the flight recorded on the entry. s.mu must be
// held. The flight is still registered in the group: commit clears
// entry.flight under s.mu before the group drops the call.
func (s *Store) joinLocked(key string) <-chan singleflight.Result {
	return s.group.DoChan(key, func() (any, error) {
		return nil, errFlightGone
	})
}

// startLocked reserves a sequence token, marks the entry in flight and
// registers a new flight for key. s.mu must be held; DoChan runs fn on its
// own goroutine and fn takes s.mu only in commit.
func (s *Store) startLocked(ctx context.Context, key string, e *entry, fetch Fetcher) <-chan singleflight.Result {
	s.group.Forget(key)
	s.seq++
	token := s.seq
	e.issued = token
	e.flight = token
	e.inflight++
	e.flightStart = s.now()

	return s.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		v, err := fetch(fctx)
		return s.commit(key, e, token, v, err), nil
	})
}

func (s *Store) wait(ctx context.Context, ch <-chan singleflight.Result) State {
	select {
	case <-ctx.Done():
		return State{Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return State{Err: res.Err}
		}
		return res.Val.(State)
	}
}

// commit records a finished fetch and returns the state its own callers see.
func (s *Store) commit(key string, e *entry, token uint64, v any, err error) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.inflight--
	if e.flight == token {
		e.flight = 0
	}
	at := s.now()
	result := State{Data: v, Err: err, UpdatedAt: at}

	cur, ok := s.entries.Get(key)
	if !ok || cur != e || e.issued != token {
		s.logger.Debug("Discarding superseded result", log.FieldCacheKey, key)
		return result
	}

	if err != nil {
		// keep the last good data next to the error
		e.err = err
		result.Data = e.data
		result.UpdatedAt = e.updatedAt
		return result
	}
	e.data = v
	e.err = nil
	e.updatedAt = at
	s.entries.Set(key, e)
	return result
}

// Peek returns the current state without fetching.
func (s *Store) Peek(key string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries.Get(key); ok {
		return e.state()
	}
	return State{}
}

// Mutate replaces the cached value locally without a request. Fetches in
// flight for the key can no longer overwrite it.
func (s *Store) Mutate(key string, v any) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e := s.entryLocked(key)
	e.issued = s.seq
	e.flight = 0
	e.data = v
	e.err = nil
	e.updatedAt = s.now()
	s.entries.Set(key, e)
	s.group.Forget(key)
}

// Invalidate drops keys so the next Use fetches again.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.entries.Delete(k)
		s.group.Forget(k)
	}
}

// InvalidatePrefix drops every key starting with prefix and returns how
// many were dropped.
func (s *Store) InvalidatePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, k := range s.entries.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.entries.Delete(k)
			s.group.Forget(k)
			n++
		}
	}
	return n
}

// Clear drops everything. Called at logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.entries.Keys() {
		s.group.Forget(k)
	}
	s.entries.Clear()
}

func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.CleanExpired()
}

func (s *Store) Size() int {
	return s.entries.Size()
}

func typed[T any](fetch func(context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

func unwrap[T any](st State, key string) (T, error) {
	var zero T
	if key == "" {
		return zero, ErrNoKey
	}
	if st.Err != nil {
		return zero, st.Err
	}
	v, _ := st.Data.(T)
	return v, nil
}

// Fetch is the typed form of Store.Use.
func Fetch[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	return unwrap[T](s.Use(ctx, key, typed(fetch)), key)
}

// Refresh is the typed form of Store.Revalidate.
func Refresh[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	return unwrap[T](s.Revalidate(ctx, key, typed(fetch)), key)
}
