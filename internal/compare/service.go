// Package compare orchestrates a watchlist comparison: it resolves each
// member through the session cache or the scraper, runs the matching core
// once all members have resolved, and drives best-effort background
// enrichment of the matched films.
package compare

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/larswan/letterbuds/internal/cache"
	"github.com/larswan/letterbuds/internal/live"
	"github.com/larswan/letterbuds/internal/match"
	"github.com/larswan/letterbuds/internal/metrics"
	"github.com/larswan/letterbuds/internal/scraper"
	"github.com/larswan/letterbuds/pkg/models"
)

// keepComparisons bounds how many finished comparisons stay addressable
// via GET /api/compare/:id.
const keepComparisons = 10

// Enricher is the metadata-lookup collaborator. Implementations return
// (nil, nil) when a film cannot be resolved.
type Enricher interface {
	Enabled() bool
	FetchEnrichment(ctx context.Context, film models.Film) (*models.Film, error)
}

// Comparison is one comparison run and its (progressively enriched)
// result. The ID is request-scoped: enrichment patches are keyed by it so
// a superseded comparison's in-flight lookups can never touch a newer
// result.
type Comparison struct {
	ID        string                     `json:"comparison_id"`
	Usernames []string                   `json:"usernames"`
	Profiles  map[string]*models.Profile `json:"profiles"`
	Result    models.MatchResult         `json:"result"`
	Tiers     []models.RankedTier        `json:"tiers"`
	CreatedAt time.Time                  `json:"created_at"`
}

// Service wires the cache, scraper, enricher, persistence, and live hub
// together. All dependencies are injected; there is no ambient state.
type Service struct {
	cache    *cache.Session
	fetcher  scraper.Fetcher
	enricher Enricher
	hub      *live.Hub
	db       *sql.DB // optional; nil disables snapshot persistence

	fetchDelay  time.Duration // between outbound member fetches
	enrichDelay time.Duration // between film enrichment lookups

	mu        sync.Mutex
	currentID string
	results   map[string]*Comparison
	order     []string // insertion order of results, for pruning
}

// NewService builds a Service. enricher and db may be nil.
func NewService(c *cache.Session, f scraper.Fetcher, e Enricher, hub *live.Hub, db *sql.DB, fetchDelay, enrichDelay time.Duration) *Service {
	return &Service{
		cache:       c,
		fetcher:     f,
		enricher:    e,
		hub:         hub,
		db:          db,
		fetchDelay:  fetchDelay,
		enrichDelay: enrichDelay,
		results:     make(map[string]*Comparison),
	}
}

// Compare resolves every member sequentially (a fixed delay between
// outbound fetches keeps the request pattern non-bursty), runs matching
// and ranking once, registers the result as current, and kicks off
// background enrichment. Usernames must arrive validated: 2–10 entries,
// lowercased, deduplicated.
//
// A member whose watchlist fetch fails still participates with zero
// films; callers decide whether that makes the comparison worth showing.
// A run where fewer than two members resolved any films is returned for
// the caller to reject but is never registered: it does not supersede a
// still-displayed comparison or stop its in-flight enrichment.
//
// The returned Comparison is a snapshot; the registered copy keeps
// receiving enrichment patches without racing readers of the return
// value.
func (s *Service) Compare(ctx context.Context, usernames []string) (*Comparison, error) {
	if s.hub != nil {
		s.hub.BroadcastJSON(live.CompareEvent{
			Type:      live.EventCompareStarted,
			Usernames: usernames,
			At:        time.Now().UTC(),
		})
	}

	members := make([]models.Member, 0, len(usernames))
	profiles := make(map[string]*models.Profile, len(usernames))
	fetched := false

	for _, username := range usernames {
		films, fromCache := s.watchlist(ctx, username, fetched)
		if !fromCache {
			fetched = true
		}
		profile := s.profile(ctx, username)

		profiles[username] = profile
		members = append(members, models.Member{
			Username: username,
			Films:    films,
			Profile:  profile,
		})
	}

	result := match.Groups(members)
	tiers := match.Rank(result.Groups)

	comp := &Comparison{
		ID:        uuid.NewString(),
		Usernames: usernames,
		Profiles:  profiles,
		Result:    result,
		Tiers:     tiers,
		CreatedAt: time.Now().UTC(),
	}

	nonEmpty := 0
	for _, m := range members {
		if len(m.Films) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < minMembers {
		return snapshot(comp), nil
	}

	s.mu.Lock()
	s.currentID = comp.ID
	s.results[comp.ID] = comp
	s.order = append(s.order, comp.ID)
	for len(s.order) > keepComparisons {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.BroadcastJSON(live.CompareEvent{
			Type:         live.EventCompareDone,
			ComparisonID: comp.ID,
			Usernames:    usernames,
			At:           time.Now().UTC(),
		})
	}

	// Snapshot before the enrichment goroutine can start patching.
	out := snapshot(comp)

	if s.enricher != nil && s.enricher.Enabled() {
		go s.enrich(comp.ID)
	}

	return out, nil
}

// Result returns a snapshot of a comparison by ID. The returned value is
// a deep-enough copy: groups and films are copied so callers never see a
// patch land mid-read.
func (s *Service) Result(id string) (*Comparison, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comp, ok := s.results[id]
	if !ok {
		return nil, false
	}
	return snapshot(comp), true
}

// Watchlist returns a member's films, from cache when fresh. Films that
// have been enriched by an earlier comparison come back with their
// cached metadata overlaid.
func (s *Service) Watchlist(ctx context.Context, username string) ([]models.Film, bool, error) {
	if films, ok := s.cache.Watchlists.Get(username); ok {
		metrics.CacheLookups.WithLabelValues("watchlist", "hit").Inc()
		return s.withEnrichment(films), true, nil
	}
	metrics.CacheLookups.WithLabelValues("watchlist", "miss").Inc()

	start := time.Now()
	films, err := s.fetcher.FetchWatchlist(ctx, username)
	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, err
	}

	s.cache.Watchlists.Set(username, films)
	s.persistWatchlist(ctx, username, films)
	return s.withEnrichment(films), false, nil
}

// withEnrichment merges cached per-film enrichment records into a
// watchlist. Films never enriched pass through untouched.
func (s *Service) withEnrichment(films []models.Film) []models.Film {
	var patches []models.Film
	for _, film := range films {
		if patch, ok := s.cache.Enriched.Get(match.TitleYearKey(film)); ok {
			patches = append(patches, patch)
		}
	}
	if len(patches) == 0 {
		return films
	}
	return cache.MergeEnrichment(films, patches)
}

// Following returns a member's social connections. Not cached: the UI
// only asks for it on explicit user action.
func (s *Service) Following(ctx context.Context, username string) ([]models.Connection, error) {
	return s.fetcher.FetchFollowing(ctx, username)
}

// watchlist resolves one member's films during a comparison, swallowing
// fetch errors into an empty list. delayFirst spaces outbound fetches.
func (s *Service) watchlist(ctx context.Context, username string, delayFirst bool) ([]models.Film, bool) {
	if films, ok := s.cache.Watchlists.Get(username); ok {
		metrics.CacheLookups.WithLabelValues("watchlist", "hit").Inc()
		return films, true
	}
	metrics.CacheLookups.WithLabelValues("watchlist", "miss").Inc()

	if delayFirst && s.fetchDelay > 0 {
		select {
		case <-time.After(s.fetchDelay):
		case <-ctx.Done():
			return nil, false
		}
	}

	start := time.Now()
	films, err := s.fetcher.FetchWatchlist(ctx, username)
	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("[compare] watchlist fetch for %s failed: %v", username, err)
		return nil, false
	}

	s.cache.Watchlists.Set(username, films)
	s.persistWatchlist(ctx, username, films)
	return films, false
}

// profile resolves one member's profile; failure means absent, never
// fatal.
func (s *Service) profile(ctx context.Context, username string) *models.Profile {
	if p, ok := s.cache.Profiles.Get(username); ok {
		metrics.CacheLookups.WithLabelValues("profile", "hit").Inc()
		return p
	}
	metrics.CacheLookups.WithLabelValues("profile", "miss").Inc()

	p, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil || p == nil {
		if err != nil {
			log.Printf("[compare] profile fetch for %s failed: %v", username, err)
		}
		return nil
	}

	s.cache.Profiles.Set(username, p)
	if s.db != nil {
		if err := scraper.SaveProfile(ctx, s.db, username, p); err != nil {
			log.Printf("[compare] persist profile for %s failed: %v", username, err)
		}
	}
	return p
}

func (s *Service) persistWatchlist(ctx context.Context, username string, films []models.Film) {
	if s.db == nil {
		return
	}
	if err := scraper.SaveWatchlist(ctx, s.db, username, films); err != nil {
		log.Printf("[compare] persist watchlist for %s failed: %v", username, err)
	}
}

func snapshot(comp *Comparison) *Comparison {
	out := *comp
	out.Result.Groups = copyGroups(comp.Result.Groups)
	out.Tiers = make([]models.RankedTier, len(comp.Tiers))
	for i, tier := range comp.Tiers {
		out.Tiers[i] = models.RankedTier{
			MemberCount: tier.MemberCount,
			Groups:      copyGroups(tier.Groups),
		}
	}
	return &out
}

func copyGroups(groups []models.GroupMatch) []models.GroupMatch {
	out := make([]models.GroupMatch, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].CommonFilms = append([]models.Film(nil), g.CommonFilms...)
	}
	return out
}
