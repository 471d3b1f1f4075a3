package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_RunsLoaderOncePerKey(t *testing.T) {
	t.Parallel()

	store := NewStore[[]string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"m-1", "m-2"}, nil
	}

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "matches:upcoming", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 2 {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	store := NewStore[string](time.Minute)
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if v, ok := store.Get(context.Background(), "k"); !ok || v != "v" {
		t.Fatalf("expected cached value, got %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "teams:m-1", 1)
	store.Set(ctx, "teams:m-2", 2)
	store.Set(ctx, "matches:all", 3)

	if removed := store.DeletePrefix(ctx, "teams:"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := store.Get(ctx, "matches:all"); !ok {
		t.Fatalf("unrelated key must survive")
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	store := NewStore[int](time.Minute)
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("expected reload after error, got %d %v", v, err)
	}
}

func TestStore_GetOrLoad_CancelledCallerLeavesLoadRunning(t *testing.T) {
	store := NewStore[int](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 42, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(ctx, "k", loader)
		firstErr <- err
	}()
	<-started
	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to return context.Canceled, got %v", err)
	}
	close(release)

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		return 0, errors.New("value should come from the completed load")
	})
	if err != nil || v != 42 {
		t.Fatalf("expected the detached load to populate the cache, got %d %v", v, err)
	}
}
