// Package cache provides a memory-resident TTL cache for upstream
// API responses. Entries are lost on restart; this is deliberate,
// the service is not a persistent cache.
package cache

import (
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// DefaultTTL is how long a cached response stays valid (15 minutes)
const DefaultTTL = 15 * time.Minute

type entry struct {
	data     []byte
	cachedAt time.Time
}

// Store is a TTL cache keyed by request fingerprint. Reads past the
// TTL evict the entry and report a miss; every write sweeps all
// expired entries. There is no size-based eviction.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a cache store with the given TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key builds a deterministic cache key from a URL and its query
// parameters. url.Values.Encode sorts by key, so equivalent requests
// map to the same fingerprint regardless of parameter order.
func Key(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	return rawURL + "?" + params.Encode()
}

// Get returns the cached data for key if present and fresh.
// An expired entry is removed and reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.cachedAt) >= s.ttl {
		delete(s.entries, key)
		slog.Debug("Cache entry expired", "key", key)
		return nil, false
	}
	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

// Set stores data under key with the current timestamp, then sweeps
// expired entries.
func (s *Store) Set(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{data: data, cachedAt: s.now()}
	slog.Debug("Cached response", "key", key)
	s.sweepLocked()
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
	slog.Info("Cache cleared")
}

// Len returns the number of entries currently held, including any
// that have expired but not yet been swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats describes the current cache contents.
type Stats struct {
	Entries     int        `json:"entries"`
	TTLMinutes  float64    `json:"ttl_minutes"`
	OldestEntry *time.Time `json:"oldest_entry,omitempty"`
}

// Stats sweeps expired entries and reports the cache state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	stats := Stats{
		Entries:    len(s.entries),
		TTLMinutes: s.ttl.Minutes(),
	}
	for _, e := range s.entries {
		if stats.OldestEntry == nil || e.cachedAt.Before(*stats.OldestEntry) {
			t := e.cachedAt
			stats.OldestEntry = &t
		}
	}
	return stats
}

// sweepLocked removes all entries whose age has reached the TTL.
// Callers must hold s.mu.
func (s *Store) sweepLocked() {
	now := s.now()
	for key, e := range s.entries {
		if now.Sub(e.cachedAt) >= s.ttl {
			delete(s.entries, key)
		}
	}
}
