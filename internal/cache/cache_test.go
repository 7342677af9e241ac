package cache

import (
	"strconv"
	"testing"
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestSession(clock *fakeClock) *Session {
	cfg := Config{
		TTL:          1 * time.Hour,
		WatchlistCap: 3,
		ProfileCap:   2,
		EnrichedCap:  2,
	}
	return New(cfg, clock.Now)
}

func films(titles ...string) []models.Film {
	out := make([]models.Film, len(titles))
	for i, title := range titles {
		out[i] = models.Film{Title: title}
	}
	return out
}

func TestStore_SetThenGet(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock)

	s.Watchlists.Set("alice", films("Heat"))

	got, ok := s.Watchlists.Get("alice")
	if !ok {
		t.Fatal("expected a hit immediately after Set")
	}
	if len(got) != 1 || got[0].Title != "Heat" {
		t.Errorf("got %v, want [Heat]", got)
	}
}

func TestStore_UnknownKey(t *testing.T) {
	s := newTestSession(newFakeClock())
	if _, ok := s.Watchlists.Get("nobody"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestStore_TTLExpiryDeletesOnRead(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock)

	s.Watchlists.Set("alice", films("Heat"))
	clock.Advance(time.Hour + time.Second)

	if _, ok := s.Watchlists.Get("alice"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}
	// The stale read removed the entry.
	if s.Watchlists.Len() != 0 {
		t.Errorf("stale entry still held, Len = %d", s.Watchlists.Len())
	}
}

func TestStore_EntryAtExactTTLStillFresh(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock)

	s.Watchlists.Set("alice", films("Heat"))
	clock.Advance(time.Hour)

	if _, ok := s.Watchlists.Get("alice"); !ok {
		t.Error("entry exactly at TTL boundary should still be returned")
	}
}

func TestStore_EvictsOldestAtCap(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock) // watchlist cap 3

	for i := 0; i < 3; i++ {
		s.Watchlists.Set("user"+strconv.Itoa(i), films("F"))
		clock.Advance(time.Minute)
	}
	s.Watchlists.Set("user3", films("F"))

	if _, ok := s.Watchlists.Get("user0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, key := range []string{"user1", "user2", "user3"} {
		if _, ok := s.Watchlists.Get(key); !ok {
			t.Errorf("entry %s wrongly evicted", key)
		}
	}
}

func TestStore_OverwriteDoesNotEvict(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock)

	for i := 0; i < 3; i++ {
		s.Watchlists.Set("user"+strconv.Itoa(i), films("F"))
		clock.Advance(time.Minute)
	}
	// Re-setting an existing key must not evict anyone.
	s.Watchlists.Set("user1", films("G"))

	if s.Watchlists.Len() != 3 {
		t.Errorf("Len = %d after overwrite, want 3", s.Watchlists.Len())
	}
	if _, ok := s.Watchlists.Get("user0"); !ok {
		t.Error("overwrite of existing key evicted an entry")
	}
}

func TestStore_OverwriteRefreshesAge(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock)

	s.Watchlists.Set("user0", films("F"))
	clock.Advance(time.Minute)
	s.Watchlists.Set("user1", films("F"))
	clock.Advance(time.Minute)
	s.Watchlists.Set("user2", films("F"))
	clock.Advance(time.Minute)

	// Refresh user0; user1 becomes the oldest.
	s.Watchlists.Set("user0", films("F"))
	clock.Advance(time.Minute)
	s.Watchlists.Set("user3", films("F"))

	if _, ok := s.Watchlists.Get("user1"); ok {
		t.Error("user1 should now be the evicted oldest entry")
	}
	if _, ok := s.Watchlists.Get("user0"); !ok {
		t.Error("refreshed entry should survive eviction")
	}
}

func TestProfileStore_Bounded(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(clock) // profile cap 2

	s.Profiles.Set("a", &models.Profile{DisplayName: "A"})
	clock.Advance(time.Minute)
	s.Profiles.Set("b", &models.Profile{DisplayName: "B"})
	clock.Advance(time.Minute)
	s.Profiles.Set("c", &models.Profile{DisplayName: "C"})

	if s.Profiles.Len() != 2 {
		t.Errorf("profile store Len = %d, want 2", s.Profiles.Len())
	}
	if _, ok := s.Profiles.Get("a"); ok {
		t.Error("oldest profile should have been evicted")
	}
}
