package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(dedupe time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	s := NewStore(StoreConfig{
		MaxEntries: 16,
		TTL:        time.Hour,
		Dedupe:     dedupe,
		Timeout:    time.Second,
		Clock:      clock.Now,
	})
	return s, clock
}

// countingFetcher returns value and counts calls.
func countingFetcher(calls *int32, value any) Fetcher {
	return func(ctx context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

// gatedFetcher blocks until release is closed, then returns value.
func gatedFetcher(calls *int32, started chan<- struct{}, release <-chan struct{}, value any) Fetcher {
	return func(ctx context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		if started != nil {
			started <- struct{}{}
		}
		<-release
		return value, nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestEmptyKeySuppressesFetch(t *testing.T) {
	s, _ := newTestStore(2 * time.Second)
	var calls int32
	st := s.Use(context.Background(), "", countingFetcher(&calls, "x"))
	if calls != 0 || st.Data != nil || st.Err != nil || st.IsLoading {
		t.Fatalf("empty key must not fetch, got calls=%d state=%+v", calls, st)
	}
	if _, err := Fetch(context.Background(), s, "", func(context.Context) (string, error) {
		t.Fatal("fetch must not run")
		return "", nil
	}); !errors.Is(err, ErrNoKey) {
		t.Fatalf("expected ErrNoKey, got %v", err)
	}
}

func TestConcurrentCallsShareOneRequest(t *testing.T) {
	s, _ := newTestStore(2 * time.Second)
	var calls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fetch := gatedFetcher(&calls, started, release, []string{"ali"})

	results := make([]State, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = s.Revalidate(context.Background(), "/debts", fetch)
	}()
	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = s.Use(context.Background(), "/debts", fetch)
	}()
	waitFor(t, func() bool { return s.Peek("/debts").IsLoading })
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}
	for i, r := range results {
		got, ok := r.Data.([]string)
		if !ok || len(got) != 1 || got[0] != "ali" {
			t.Fatalf("caller %d saw %+v", i, r)
		}
	}
}

func TestDedupeWindow(t *testing.T) {
	s, clock := newTestStore(2 * time.Second)
	var calls int32
	ctx := context.Background()

	s.Use(ctx, "/expenses", countingFetcher(&calls, 1))
	clock.Advance(time.Second)
	s.Use(ctx, "/expenses", countingFetcher(&calls, 2))
	if calls != 1 {
		t.Fatalf("second call inside the window must reuse the result, calls=%d", calls)
	}

	clock.Advance(2 * time.Second)
	st := s.Use(ctx, "/expenses", countingFetcher(&calls, 3))
	if calls != 2 || st.Data != 3 {
		t.Fatalf("expected a refresh after the window, calls=%d data=%v", calls, st.Data)
	}
}

func TestStickyErrorUntilRevalidate(t *testing.T) {
	s, clock := newTestStore(time.Second)
	ctx := context.Background()
	boom := errors.New("upstream down")
	var calls int32
	failing := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	if st := s.Use(ctx, "/dashboard/stats", failing); !errors.Is(st.Err, boom) {
		t.Fatalf("expected error, got %+v", st)
	}
	clock.Advance(time.Minute)
	if st := s.Use(ctx, "/dashboard/stats", failing); !errors.Is(st.Err, boom) || calls != 1 {
		t.Fatalf("error must stick without a new request, calls=%d state=%+v", calls, st)
	}

	st := s.Revalidate(ctx, "/dashboard/stats", countingFetcher(&calls, "ok"))
	if st.Err != nil || st.Data != "ok" || calls != 2 {
		t.Fatalf("revalidate must clear the error, calls=%d state=%+v", calls, st)
	}
}

func TestErrorKeepsLastGoodData(t *testing.T) {
	s, _ := newTestStore(0)
	ctx := context.Background()
	boom := errors.New("timeout")

	s.Use(ctx, "/debts", func(context.Context) (any, error) { return "v1", nil })
	st := s.Revalidate(ctx, "/debts", func(context.Context) (any, error) { return nil, boom })
	if !errors.Is(st.Err, boom) || st.Data != "v1" {
		t.Fatalf("expected stale data with error, got %+v", st)
	}
}

func TestOlderResultDoesNotOverwriteNewer(t *testing.T) {
	s, _ := newTestStore(0)
	ctx := context.Background()
	var calls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	var slow State
	done := make(chan struct{})
	go func() {
		slow = s.Use(ctx, "/debts/1", gatedFetcher(&calls, started, release, "old"))
		close(done)
	}()
	<-started

	fast := s.Revalidate(ctx, "/debts/1", countingFetcher(&calls, "new"))
	if fast.Data != "new" {
		t.Fatalf("forced revalidation should return new data, got %+v", fast)
	}

	close(release)
	<-done
	if slow.Data != "old" {
		t.Fatalf("superseded fetch should still reach its own caller, got %+v", slow)
	}
	if got := s.Peek("/debts/1"); got.Data != "new" || got.IsLoading {
		t.Fatalf("older result overwrote newer cache contents: %+v", got)
	}
}

func TestMutateWinsOverInflightFetch(t *testing.T) {
	s, _ := newTestStore(2 * time.Second)
	ctx := context.Background()
	var calls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		s.Use(ctx, "/auth/me", gatedFetcher(&calls, started, release, "stale"))
		close(done)
	}()
	<-started
	s.Mutate("/auth/me", "optimistic")
	close(release)
	<-done

	if got := s.Peek("/auth/me"); got.Data != "optimistic" {
		t.Fatalf("mutate must win over an older in-flight fetch, got %+v", got)
	}
	if st := s.Use(ctx, "/auth/me", countingFetcher(&calls, "fresh")); st.Data != "optimistic" || calls != 1 {
		t.Fatalf("mutated value should be served inside the window, calls=%d state=%+v", calls, st)
	}
}

func TestCancelledCallerAbandonsInterest(t *testing.T) {
	s, _ := newTestStore(2 * time.Second)
	var calls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan State, 1)
	go func() {
		result <- s.Use(ctx, "/receivables", gatedFetcher(&calls, started, release, "done"))
	}()
	<-started
	cancel()

	select {
	case st := <-result:
		if !errors.Is(st.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	waitFor(t, func() bool { return s.Peek("/receivables").Data == "done" })
}

func TestFetchTimeout(t *testing.T) {
	s := NewStore(StoreConfig{Timeout: 20 * time.Millisecond, Dedupe: time.Second})
	st := s.Use(context.Background(), "/slow", func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if !errors.Is(st.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %+v", st)
	}
}

func TestInvalidate(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	ctx := context.Background()
	var calls int32

	for _, k := range []string{"/debts", "/debts/1", "/debts/2", "/expenses"} {
		s.Use(ctx, k, countingFetcher(&calls, k))
	}
	if calls != 4 {
		t.Fatalf("expected 4 fetches, got %d", calls)
	}

	s.Invalidate("/expenses")
	s.Use(ctx, "/expenses", countingFetcher(&calls, "again"))
	if calls != 5 {
		t.Fatalf("invalidated key must refetch, calls=%d", calls)
	}

	if n := s.InvalidatePrefix("/debts"); n != 3 {
		t.Fatalf("expected 3 keys dropped, got %d", n)
	}
	if s.Peek("/debts/1").HasData() {
		t.Fatalf("prefix invalidation left /debts/1 behind")
	}

	s.Clear()
	if s.Size() != 0 {
		t.Fatalf("clear left %d entries", s.Size())
	}
}

func TestTypedHelpers(t *testing.T) {
	s, _ := newTestStore(time.Second)
	ctx := context.Background()

	got, err := Fetch(ctx, s, "/n", func(context.Context) (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Fatalf("Fetch = %d, %v", got, err)
	}
	got, err = Refresh(ctx, s, "/n", func(context.Context) (int, error) { return 43, nil })
	if err != nil || got != 43 {
		t.Fatalf("Refresh = %d, %v", got, err)
	}
}

func TestSimultaneousRevalidateSharesOneRequest(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		s, _ := newTestStore(2 * time.Second)
		var calls int32
		release := make(chan struct{})
		fetch := func(context.Context) (any, error) {
			n := atomic.AddInt32(&calls, 1)
			<-release
			return n, nil
		}

		gate := make(chan struct{})
		results := make([]State, 2)
		var entered, wg sync.WaitGroup
		for j := range results {
			entered.Add(1)
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				<-gate
				entered.Done()
				results[j] = s.Revalidate(ctx, "/debts", fetch)
			}(j)
		}
		close(gate)
		entered.Wait()
		waitFor(t, func() bool { return atomic.LoadInt32(&calls) > 0 })
		time.Sleep(10 * time.Millisecond)
		close(release)
		wg.Wait()

		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Fatalf("run %d: expected one upstream request, got %d", i, got)
		}
		if results[0].Data != results[1].Data || results[0].Err != nil {
			t.Fatalf("run %d: callers saw different results: %+v %+v", i, results[0], results[1])
		}
		if st := s.Peek("/debts"); st.IsLoading || st.Data != int32(1) {
			t.Fatalf("run %d: unexpected cached state %+v", i, st)
		}
	}
}
