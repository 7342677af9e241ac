package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

// Mirror fetches member data from a local mirror server (cmd/mirror-server)
// serving canned JSON instead of scraping live HTML. Useful for offline
// demos and for exercising the full pipeline without hammering upstream.
type Mirror struct {
	BaseURL string
	Client  *http.Client
}

// NewMirror creates a mirror fetcher against the given base URL.
func NewMirror(baseURL string) *Mirror {
	return &Mirror{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *Mirror) Name() string { return "mirror" }

// mirrorFilm tolerates the field-name and type drift seen in exported
// snapshots: "title" or "name", year as number or string.
type mirrorFilm struct {
	Title     string          `json:"title"`
	Name      string          `json:"name"`
	Year      json.RawMessage `json:"year"`
	TMDBID    int             `json:"tmdb_id"`
	IMDBID    string          `json:"imdb_id"`
	PosterURL string          `json:"poster_url"`
}

// MirrorRecord is the canned per-member payload served by the mirror.
type MirrorRecord struct {
	Profile   *models.Profile     `json:"profile"`
	Films     []mirrorFilm        `json:"films"`
	Following []models.Connection `json:"following"`
}

func (m *Mirror) record(ctx context.Context, username string) (*MirrorRecord, error) {
	url := fmt.Sprintf("%s/members/%s", m.BaseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mirror: status %d: %s", resp.StatusCode, string(body))
	}

	var rec MirrorRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("mirror: decode json: %w", err)
	}
	return &rec, nil
}

func (m *Mirror) FetchWatchlist(ctx context.Context, username string) ([]models.Film, error) {
	rec, err := m.record(ctx, username)
	if err != nil {
		return nil, err
	}

	films := make([]models.Film, 0, len(rec.Films))
	for _, raw := range rec.Films {
		title := strings.TrimSpace(raw.Title)
		if title == "" {
			title = strings.TrimSpace(raw.Name)
		}
		if title == "" {
			continue
		}
		films = append(films, models.Film{
			Title:     title,
			Year:      yearFromRaw(raw.Year),
			TMDBID:    raw.TMDBID,
			IMDBID:    raw.IMDBID,
			PosterURL: raw.PosterURL,
		})
	}
	return films, nil
}

func (m *Mirror) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	rec, err := m.record(ctx, username)
	if err != nil {
		return nil, err
	}
	if rec.Profile == nil {
		return &models.Profile{DisplayName: username}, nil
	}
	return rec.Profile, nil
}

func (m *Mirror) FetchFollowing(ctx context.Context, username string) ([]models.Connection, error) {
	rec, err := m.record(ctx, username)
	if err != nil {
		return nil, err
	}
	return rec.Following, nil
}

// yearFromRaw accepts 2007, "2007", and absent alike.
func yearFromRaw(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
