package pool

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
)

// SessionCache caches one streaming session per backend client, built
// lazily on first use.
//
// Each backend gets its own entry with its own lock, so two requests racing
// on the same never-before-seen backend serialize against each other while
// unrelated backends proceed independently. A construction failure leaves
// the entry empty; the next caller attempts construction again.
type SessionCache struct {
	entries []cacheEntry

	mu     sync.Mutex
	nHits  int64
	nMiss  int64
	nFails int64
}

type cacheEntry struct {
	mu      sync.Mutex
	session backend.Session
	lastUse time.Time
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits     int64
	Misses   int64
	Failures int64
}

// NewSessionCache creates a cache sized to the backend pool. Entry i belongs
// to the client with ID i.
func NewSessionCache(size int) *SessionCache {
	return &SessionCache{entries: make([]cacheEntry, size)}
}

// GetOrCreate returns the cached session for the given backend, constructing
// it exactly once on first use. Concurrent first-use callers for the same
// backend receive the same instance; the loser of the race never constructs
// a second session.
func (c *SessionCache) GetOrCreate(ctx context.Context, client backend.Client) (backend.Session, error) {
	entry := &c.entries[client.ID()]

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session != nil {
		entry.lastUse = time.Now()
		c.count(&c.nHits)
		return entry.session, nil
	}

	slog.Debug("constructing backend session", "backend", client.Name())

	session, err := client.NewSession(ctx)
	if err != nil {
		// Leave the entry empty so a later request retries construction.
		c.count(&c.nFails)
		return nil, err
	}

	entry.session = session
	entry.lastUse = time.Now()
	c.count(&c.nMiss)
	return session, nil
}

// SweepIdle closes and evicts sessions unused for longer than maxIdle.
// A zero maxIdle disables eviction. Returns the number of evicted sessions.
//
// The base deployment keeps sessions for the process lifetime; the sweep
// exists for deployments where backend identities churn.
func (c *SessionCache) SweepIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-maxIdle)
	evicted := 0

	for i := range c.entries {
		entry := &c.entries[i]
		entry.mu.Lock()
		if entry.session != nil && entry.lastUse.Before(cutoff) {
			if err := entry.session.Close(); err != nil {
				slog.Warn("closing idle backend session", "error", err)
			}
			entry.session = nil
			evicted++
		}
		entry.mu.Unlock()
	}

	if evicted > 0 {
		slog.Info("evicted idle backend sessions", "count", evicted)
	}
	return evicted
}

// Close closes every cached session.
func (c *SessionCache) Close() error {
	for i := range c.entries {
		entry := &c.entries[i]
		entry.mu.Lock()
		if entry.session != nil {
			if err := entry.session.Close(); err != nil {
				slog.Warn("closing backend session", "error", err)
			}
			entry.session = nil
		}
		entry.mu.Unlock()
	}
	return nil
}

// Stats returns cache effectiveness counters.
func (c *SessionCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.nHits, Misses: c.nMiss, Failures: c.nFails}
}

func (c *SessionCache) count(n *int64) {
	c.mu.Lock()
	*n++
	c.mu.Unlock()
}
