package match

import (
	"strconv"
	"strings"

	"github.com/larswan/letterbuds/pkg/models"
)

// KeyOf defines how we decide two films from different watchlists are the
// "same title". A cross-referenced TMDB ID is authoritative; otherwise we
// fall back to normalized title + year. The fallback accepts false
// positives/negatives for same-name-same-year titles, or when only one
// side carries the ID; that approximation is deliberate.
func KeyOf(f models.Film) string {
	if f.TMDBID > 0 {
		return "ext:" + strconv.Itoa(f.TMDBID)
	}
	year := ""
	if f.Year > 0 {
		year = strconv.Itoa(f.Year)
	}
	return strings.ToLower(strings.TrimSpace(f.Title)) + ":" + year
}

// TitleYearKey is the key used to pair enrichment data with already
// matched films. Unlike KeyOf it never uses the TMDB ID, because
// enrichment lookups happen before the base entry has one.
func TitleYearKey(f models.Film) string {
	year := "unknown"
	if f.Year > 0 {
		year = strconv.Itoa(f.Year)
	}
	return strings.ToLower(strings.TrimSpace(f.Title)) + "-" + year
}
