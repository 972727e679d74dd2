// Package cache provides a small injectable TTL cache. The estimation engine
// keys results on deterministic inputs so concurrent calculations for
// different inputs never conflict and stale in-flight results are simply
// ignored on lookup (last-input-wins).
package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// EstimateTTL is how long a computed estimate stays valid.
const EstimateTTL = 30 * 24 * time.Hour

// Cache is the contract the engine depends on. The in-memory implementation
// is used in production and tests; a persistent one can be injected.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Put(key string, value T, ttl time.Duration)
}

type entry[T any] struct {
	value   T
	expires time.Time
}

// Memory is a mutex-guarded in-memory Cache.
type Memory[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]

	// now is replaceable for tests.
	now func() time.Time
}

// NewMemory returns an empty in-memory cache.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Get returns the cached value if present and unexpired.
func (m *Memory[T]) Get(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || m.now().After(e.expires) {
		// lazily drop expired entries
		delete(m.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores value under key for ttl.
func (m *Memory[T]) Put(key string, value T, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry[T]{value: value, expires: m.now().Add(ttl)}
}

// EstimateKey builds the composite cache key for a monthly estimate:
// coordinates rounded to 2 decimals, the month, and a digest of every other
// calculation input. Rounding keeps nearby lookups (geocoder jitter) hitting
// the same entry; the digest makes sure a changed input never serves a stale
// result.
func EstimateKey(lat, lon float64, year int, month time.Month, strategy, inputsDigest string) string {
	return fmt.Sprintf("est/%.2f,%.2f/%d-%02d/%s/%s", lat, lon, year, int(month), strategy, inputsDigest)
}

// InputsDigest hashes an inputs struct into a short deterministic token for
// key construction. Marshaling keeps field order stable, so equal inputs
// always digest equally.
func InputsDigest(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// unmarshalable inputs never match a cached entry
		return fmt.Sprintf("nodigest-%d", time.Now().UnixNano())
	}
	h := fnv.New64a()
	h.Write(b)
	return fmt.Sprintf("%016x", h.Sum64())
}
