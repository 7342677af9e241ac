// Package cache holds the per-process session cache for scraped
// watchlists, profiles, and enriched film sets. Entries expire lazily on
// read after a fixed TTL; each store is bounded and evicts its oldest
// entry (by insertion time, not access) when full.
package cache

import (
	"sync"
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

// Config bounds the three stores. The profile store carries an explicit
// cap like the others; profiles are small but they should not accumulate
// without limit either.
type Config struct {
	TTL          time.Duration
	WatchlistCap int
	ProfileCap   int
	EnrichedCap  int
}

// DefaultConfig returns the standard session-cache bounds.
func DefaultConfig() Config {
	return Config{
		TTL:          1 * time.Hour,
		WatchlistCap: 50,
		ProfileCap:   200,
		EnrichedCap:  20,
	}
}

type item[T any] struct {
	value    T
	storedAt time.Time
}

// Store is one keyed TTL store. The zero value is not usable; construct
// through Session.
type Store[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	max   int
	now   func() time.Time
	items map[string]item[T]
}

func newStore[T any](ttl time.Duration, max int, now func() time.Time) *Store[T] {
	return &Store[T]{
		ttl:   ttl,
		max:   max,
		now:   now,
		items: make(map[string]item[T]),
	}
}

// Get returns the cached value for key. A stale entry is deleted as a
// side effect of the read; there is no background sweep.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	it, ok := s.items[key]
	if !ok {
		return zero, false
	}
	if s.now().Sub(it.storedAt) > s.ttl {
		delete(s.items, key)
		return zero, false
	}
	return it.value, true
}

// Set stores value under key. When the store is at capacity and key is
// not already present, the single entry with the earliest storedAt is
// evicted first.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists && len(s.items) >= s.max {
		s.evictOldestLocked()
	}
	s.items[key] = item[T]{value: value, storedAt: s.now()}
}

func (s *Store[T]) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, it := range s.items {
		if first || it.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = it.storedAt
			first = false
		}
	}
	if !first {
		delete(s.items, oldestKey)
	}
}

// Len reports the number of entries currently held, stale or not.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Session is the explicit cache instance handed to whichever component
// needs it (no package-level singleton).
type Session struct {
	Watchlists *Store[[]models.Film]
	Profiles   *Store[*models.Profile]
	Enriched   *Store[models.Film]
}

// New builds a Session using the given clock. Pass time.Now outside of
// tests.
func New(cfg Config, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		Watchlists: newStore[[]models.Film](cfg.TTL, cfg.WatchlistCap, now),
		Profiles:   newStore[*models.Profile](cfg.TTL, cfg.ProfileCap, now),
		Enriched:   newStore[models.Film](cfg.TTL, cfg.EnrichedCap, now),
	}
}
