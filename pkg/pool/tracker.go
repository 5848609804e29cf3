package pool

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
)

// LoadTracker tracks an integer load counter per backend client and selects
// the least-loaded one for new work.
//
// Counters are independent atomics, so unrelated backends never contend.
// Select is wait-free and never fails once the tracker is constructed: an
// empty pool is rejected at construction time, not at request time.
type LoadTracker struct {
	clients []backend.Client
	loads   []atomic.Int64
}

// BackendLoad is one backend's current load, reported by Snapshot.
type BackendLoad struct {
	Client backend.Client
	Load   int64
}

// NewLoadTracker creates a tracker over a fixed, non-empty pool.
// Pool membership never changes for the process lifetime.
//
// Client IDs must equal their position in the pool slice: Acquire, Release
// and Load index the counter slice by ID. A gap or duplicate would silently
// corrupt the counters, so it is rejected here.
func NewLoadTracker(clients []backend.Client) (*LoadTracker, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("backend pool is empty")
	}
	for i, c := range clients {
		if c.ID() != i {
			return nil, fmt.Errorf("backend %q has id %d, want %d", c.Name(), c.ID(), i)
		}
	}

	return &LoadTracker{
		clients: clients,
		loads:   make([]atomic.Int64, len(clients)),
	}, nil
}

// Select returns the backend with the current minimum load. Ties go to the
// first minimum in pool order, so selection is stable and deterministic.
//
// The returned load value is the counter observed at selection time; a
// balanced caller follows up with Acquire before dispatch and Release on
// completion.
func (t *LoadTracker) Select() (backend.Client, int64) {
	best := 0
	bestLoad := t.loads[0].Load()

	for i := 1; i < len(t.loads); i++ {
		if l := t.loads[i].Load(); l < bestLoad {
			best = i
			bestLoad = l
		}
	}

	return t.clients[best], bestLoad
}

// Acquire increments the load counter for the given backend.
func (t *LoadTracker) Acquire(c backend.Client) {
	t.loads[c.ID()].Add(1)
}

// Release decrements the load counter for the given backend.
func (t *LoadTracker) Release(c backend.Client) {
	t.loads[c.ID()].Add(-1)
}

// Load returns the current counter for the given backend.
func (t *LoadTracker) Load(c backend.Client) int64 {
	return t.loads[c.ID()].Load()
}

// Size returns the number of backends in the pool.
func (t *LoadTracker) Size() int {
	return len(t.clients)
}

// Snapshot returns every backend with its current load, sorted by
// descending load. The status endpoint reports loads in this order.
func (t *LoadTracker) Snapshot() []BackendLoad {
	snap := make([]BackendLoad, len(t.clients))
	for i, c := range t.clients {
		snap[i] = BackendLoad{Client: c, Load: t.loads[i].Load()}
	}

	sort.SliceStable(snap, func(i, j int) bool {
		return snap[i].Load > snap[j].Load
	})

	return snap
}
