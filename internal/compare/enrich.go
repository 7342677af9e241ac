package compare

import (
	"context"
	"log"
	"time"

	"github.com/larswan/letterbuds/internal/cache"
	"github.com/larswan/letterbuds/internal/live"
	"github.com/larswan/letterbuds/internal/match"
	"github.com/larswan/letterbuds/internal/metrics"
	"github.com/larswan/letterbuds/pkg/models"
)

const enrichLookupTimeout = 15 * time.Second

// enrich walks the matched films of one comparison sequentially, looks
// each one up, and patches the stored result in place. Patches are keyed
// by comparison ID and applied only to that comparison's own result, so
// a run whose comparison has been superseded can never corrupt a newer
// one; the currency check below just stops it from burning lookups.
func (s *Service) enrich(comparisonID string) {
	films := s.matchedFilms(comparisonID)

	for i, film := range films {
		if !s.isCurrent(comparisonID) {
			log.Printf("[enrich] comparison %s superseded, stopping", comparisonID)
			return
		}
		if i > 0 && s.enrichDelay > 0 {
			time.Sleep(s.enrichDelay)
		}

		key := match.TitleYearKey(film)

		patch, ok := s.cache.Enriched.Get(key)
		if ok {
			metrics.CacheLookups.WithLabelValues("enriched", "hit").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("enriched", "miss").Inc()

			ctx, cancel := context.WithTimeout(context.Background(), enrichLookupTimeout)
			fetched, err := s.enricher.FetchEnrichment(ctx, film)
			cancel()

			if err != nil {
				metrics.EnrichmentsTotal.WithLabelValues("error").Inc()
				log.Printf("[enrich] lookup for %q failed: %v", film.Title, err)
				continue
			}
			if fetched == nil {
				metrics.EnrichmentsTotal.WithLabelValues("miss").Inc()
				continue
			}
			// A fetched record carries only enrichment fields; stamp the
			// identity onto it so the cached copy is pairable by key.
			patch = *fetched
			patch.Title = film.Title
			patch.Year = film.Year
			s.cache.Enriched.Set(key, patch)
		}

		if s.applyPatch(comparisonID, key, patch) {
			metrics.EnrichmentsTotal.WithLabelValues("applied").Inc()
		}
	}

	if s.hub != nil && s.isCurrent(comparisonID) {
		s.hub.BroadcastJSON(live.EnrichmentEvent{
			Type:         live.EventEnrichmentDone,
			ComparisonID: comparisonID,
			At:           time.Now().UTC(),
		})
	}
}

// matchedFilms returns each distinct matched film once, first-seen order,
// taken from the largest groups first so the most visible entries enrich
// earliest.
func (s *Service) matchedFilms(comparisonID string) []models.Film {
	s.mu.Lock()
	defer s.mu.Unlock()

	comp, ok := s.results[comparisonID]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var films []models.Film
	for _, tier := range comp.Tiers {
		for _, group := range tier.Groups {
			for _, film := range group.CommonFilms {
				key := match.TitleYearKey(film)
				if !seen[key] {
					seen[key] = true
					films = append(films, film)
				}
			}
		}
	}
	return films
}

func (s *Service) isCurrent(comparisonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID == comparisonID
}

// applyPatch overlays enriched fields onto every occurrence of the film
// in the comparison's groups and tiers. Each occurrence is replaced by a
// fresh overlaid copy; fields only ever go from absent to present.
func (s *Service) applyPatch(comparisonID, key string, patch models.Film) bool {
	s.mu.Lock()

	comp, ok := s.results[comparisonID]
	if !ok {
		s.mu.Unlock()
		return false
	}

	var patched *models.Film
	overlay := func(groups []models.GroupMatch) {
		for gi := range groups {
			for fi := range groups[gi].CommonFilms {
				if match.TitleYearKey(groups[gi].CommonFilms[fi]) == key {
					merged := cache.Overlay(groups[gi].CommonFilms[fi], patch)
					groups[gi].CommonFilms[fi] = merged
					if patched == nil {
						patched = &merged
					}
				}
			}
		}
	}
	overlay(comp.Result.Groups)
	for ti := range comp.Tiers {
		overlay(comp.Tiers[ti].Groups)
	}
	s.mu.Unlock()

	if patched == nil {
		return false
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(live.EnrichmentEvent{
			Type:         live.EventEnrichmentPatch,
			ComparisonID: comparisonID,
			FilmKey:      key,
			Film:         patched,
			At:           time.Now().UTC(),
		})
	}
	return true
}
