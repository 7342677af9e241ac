package models

// Film is the normalized, internal form of a single watchlist entry.
//
// All scraped and enriched data is mapped into this structure first;
// the matching core and the API layer only ever see this shape.
type Film struct {
	Title  string `json:"title"`             // always present, trimmed
	Year   int    `json:"year,omitempty"`    // 0 = unknown
	TMDBID int    `json:"tmdb_id,omitempty"` // cross-referenced metadata-provider ID, 0 = unknown
	IMDBID string `json:"imdb_id,omitempty"` // origin-source ID (e.g. "tt0133093")

	// Enrichment fields, populated asynchronously after matching.
	// An empty value means "not fetched yet", never "cleared".
	PosterURL  string   `json:"poster_url,omitempty"`
	Synopsis   string   `json:"synopsis,omitempty"`
	Directors  []string `json:"directors,omitempty"`
	Cast       []string `json:"cast,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Rating     string   `json:"rating,omitempty"`
	Runtime    string   `json:"runtime,omitempty"`
	TrailerURL string   `json:"trailer_url,omitempty"`
}
