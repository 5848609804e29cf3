package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Hanifalm/TG-FileStreamBot/internal/backendtest"
)

func TestSessionCacheConstructsOncePerBackend(t *testing.T) {
	client := backendtest.NewMockClient(0, "bot1")
	cache := NewSessionCache(1)
	defer cache.Close()

	ctx := context.Background()

	first, err := cache.GetOrCreate(ctx, client)
	if err != nil {
		t.Fatalf("first GetOrCreate failed: %v", err)
	}
	second, err := cache.GetOrCreate(ctx, client)
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}

	if first != second {
		t.Error("expected the same cached session")
	}
	if n := client.Sessions.Load(); n != 1 {
		t.Errorf("expected 1 session construction, got %d", n)
	}

	stats := cache.Stats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("expected 1 miss and 1 hit, got %+v", stats)
	}
}

func TestSessionCacheConcurrentFirstUse(t *testing.T) {
	client := backendtest.NewMockClient(0, "bot1")
	cache := NewSessionCache(1)
	defer cache.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrCreate(context.Background(), client); err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := client.Sessions.Load(); n != 1 {
		t.Errorf("expected exactly 1 session construction under contention, got %d", n)
	}
}

func TestSessionCacheFailureDoesNotPoison(t *testing.T) {
	client := backendtest.NewMockClient(0, "bot1")
	client.SessionErr = errors.New("backend down")
	cache := NewSessionCache(1)
	defer cache.Close()

	ctx := context.Background()

	if _, err := cache.GetOrCreate(ctx, client); err == nil {
		t.Fatal("expected construction failure")
	}

	// The backend recovers; the next request constructs a fresh session.
	client.SessionErr = nil
	session, err := cache.GetOrCreate(ctx, client)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if session == nil {
		t.Fatal("expected a session after recovery")
	}

	stats := cache.Stats()
	if stats.Failures != 1 {
		t.Errorf("expected 1 recorded failure, got %+v", stats)
	}
}

func TestSessionCacheSweepIdle(t *testing.T) {
	client := backendtest.NewMockClient(0, "bot1")
	cache := NewSessionCache(1)
	defer cache.Close()

	ctx := context.Background()
	if _, err := cache.GetOrCreate(ctx, client); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	// Nothing is idle yet.
	if n := cache.SweepIdle(time.Hour); n != 0 {
		t.Errorf("expected no evictions, got %d", n)
	}

	// Zero disables the sweep entirely.
	if n := cache.SweepIdle(0); n != 0 {
		t.Errorf("expected disabled sweep to evict nothing, got %d", n)
	}

	// With a tiny idle allowance the entry qualifies.
	time.Sleep(5 * time.Millisecond)
	if n := cache.SweepIdle(time.Millisecond); n != 1 {
		t.Errorf("expected 1 eviction, got %d", n)
	}

	// The next use reconstructs.
	if _, err := cache.GetOrCreate(ctx, client); err != nil {
		t.Fatalf("GetOrCreate after sweep failed: %v", err)
	}
	if n := client.Sessions.Load(); n != 2 {
		t.Errorf("expected 2 constructions across a sweep, got %d", n)
	}
}
