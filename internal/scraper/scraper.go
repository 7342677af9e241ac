// Package scraper fetches public watchlist, profile, and following-list
// data for a member and normalizes it into the canonical models.Film
// shape. HTML extraction is best-effort: regex patterns with fallbacks,
// retry with backoff on transient upstream errors, rotating browser-like
// User-Agent headers. A mirror source serving the same data as canned
// JSON is available for offline runs and demos.
package scraper

import (
	"context"
	"errors"

	"github.com/larswan/letterbuds/pkg/models"
)

// Upstream failure modes surfaced to the orchestration layer. Everything
// else comes back wrapped as a plain error.
var (
	ErrNotFound           = errors.New("scraper: member not found")
	ErrRateLimited        = errors.New("scraper: rate limited by upstream")
	ErrServiceUnavailable = errors.New("scraper: upstream unavailable")
	ErrForbidden          = errors.New("scraper: access forbidden")
)

// Fetcher is implemented by each way of acquiring member data (live HTML
// scraping, local JSON mirror). Callers never see raw upstream shapes;
// every implementation maps into the canonical models first.
type Fetcher interface {
	Name() string
	FetchWatchlist(ctx context.Context, username string) ([]models.Film, error)
	FetchProfile(ctx context.Context, username string) (*models.Profile, error)
	FetchFollowing(ctx context.Context, username string) ([]models.Connection, error)
}
