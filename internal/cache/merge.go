package cache

import (
	"github.com/larswan/letterbuds/internal/match"
	"github.com/larswan/letterbuds/pkg/models"
)

// MergeEnrichment overlays enriched metadata onto base films, pairing
// entries by title-year key (enrichment lookups happen before a base
// entry has a TMDB ID, so the ID-based identity key is not usable here).
//
// Each enrichment field is overwrite-if-present: the enriched value wins
// when it is non-empty, otherwise the base value is kept; a populated
// field is never replaced by an empty one. Films with no enrichment match
// pass through unchanged. Inputs are never mutated; matched films are
// returned as fresh copies.
func MergeEnrichment(base, enriched []models.Film) []models.Film {
	byKey := make(map[string]models.Film, len(enriched))
	for _, f := range enriched {
		byKey[match.TitleYearKey(f)] = f
	}

	out := make([]models.Film, len(base))
	for i, f := range base {
		if extra, ok := byKey[match.TitleYearKey(f)]; ok {
			out[i] = Overlay(f, extra)
		} else {
			out[i] = f
		}
	}
	return out
}

// Overlay produces a new Film equal to base with every enrichment field
// taken from extra when extra has it. The identity fields (title, year,
// IMDb ID) stay as the base's; the TMDB ID is adopted from extra when the
// base lacks one so later comparisons can use the authoritative key.
func Overlay(base, extra models.Film) models.Film {
	out := base
	if base.TMDBID == 0 && extra.TMDBID > 0 {
		out.TMDBID = extra.TMDBID
	}
	if extra.PosterURL != "" {
		out.PosterURL = extra.PosterURL
	}
	if extra.Synopsis != "" {
		out.Synopsis = extra.Synopsis
	}
	if len(extra.Directors) > 0 {
		out.Directors = append([]string(nil), extra.Directors...)
	}
	if len(extra.Cast) > 0 {
		out.Cast = append([]string(nil), extra.Cast...)
	}
	if len(extra.Genres) > 0 {
		out.Genres = append([]string(nil), extra.Genres...)
	}
	if extra.Rating != "" {
		out.Rating = extra.Rating
	}
	if extra.Runtime != "" {
		out.Runtime = extra.Runtime
	}
	if extra.TrailerURL != "" {
		out.TrailerURL = extra.TrailerURL
	}
	return out
}
