// Package pool tracks per-backend load and caches one streaming session per
// backend client.
//
// The LoadTracker keeps an integer load counter per backend and always picks
// the first backend (in pool order) holding the current minimum, which makes
// selection deterministic under ties. The SessionCache guarantees a session
// is constructed at most once per backend even when concurrent requests race
// on a never-before-seen backend, and a failed construction does not poison
// the cache entry.
package pool
