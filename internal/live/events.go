package live

import (
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

const (
	EventCompareStarted  = "compare.started"
	EventCompareDone     = "compare.done"
	EventEnrichmentPatch = "enrichment.patch"
	EventEnrichmentDone  = "enrichment.done"
)

// CompareEvent announces the start or completion of a comparison run.
type CompareEvent struct {
	Type         string    `json:"type"`
	ComparisonID string    `json:"comparison_id"`
	Usernames    []string  `json:"usernames,omitempty"`
	At           time.Time `json:"at"`
}

// EnrichmentEvent carries one enriched film patch for an already
// delivered comparison, keyed by the title-year key the UI matched on.
type EnrichmentEvent struct {
	Type         string       `json:"type"`
	ComparisonID string       `json:"comparison_id"`
	FilmKey      string       `json:"film_key,omitempty"`
	Film         *models.Film `json:"film,omitempty"`
	At           time.Time    `json:"at"`
}
