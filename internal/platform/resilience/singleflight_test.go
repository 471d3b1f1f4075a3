package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroup_DeduplicatesConcurrentCalls(t *testing.T) {
	var g Group[string]
	var calls int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do(context.Background(), "GET /api/matches/m-1/teams", func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return "teams", nil
			})
			if err != nil || got != "teams" {
				t.Errorf("unexpected result %q, %v", got, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}

func TestGroup_SequentialCallsRunAgain(t *testing.T) {
	var g Group[int]
	n := 0
	for i := 0; i < 3; i++ {
		_, _, shared := g.Do(context.Background(), "k", func(context.Context) (int, error) {
			n++
			return n, nil
		})
		if shared {
			t.Fatalf("sequential call should not be shared")
		}
	}
	if n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestGroup_FirstCallerCancelDoesNotFailOthers(t *testing.T) {
	var g Group[string]
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "teams", nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err, _ := g.Do(firstCtx, "k", fn)
		firstErr <- err
	}()
	<-started

	type result struct {
		val    string
		err    error
		shared bool
	}
	second := make(chan result, 1)
	go func() {
		v, err, shared := g.Do(context.Background(), "k", func(context.Context) (string, error) {
			return "", errors.New("second caller must join the in-flight call")
		})
		second <- result{v, err, shared}
	}()

	// Give the second caller time to join before the first one leaves.
	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller should see its own cancellation, got %v", err)
	}
	close(release)

	got := <-second
	if got.err != nil || got.val != "teams" || !got.shared {
		t.Fatalf("second caller got %+v", got)
	}
}

func TestGroup_PanicBecomesError(t *testing.T) {
	var g Group[int]
	_, err, _ := g.Do(context.Background(), "k", func(context.Context) (int, error) {
		panic("boom")
	})
	if err == nil {
		t.Fatalf("expected panic to surface as error")
	}
}
