// Package enrich looks up supplementary film metadata (poster, synopsis,
// credits, trailer) from the TMDB API. Enrichment is strictly best-effort:
// a missing API key, a miss, or an upstream error all come back as "no
// enrichment" and never block a comparison.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/larswan/letterbuds/pkg/models"
)

const tmdbBase = "https://api.themoviedb.org/3"
const posterBase = "https://image.tmdb.org/t/p/w500"

// Client queries TMDB. An empty APIKey disables lookups entirely.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient creates a TMDB client.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: tmdbBase,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether lookups can be attempted at all.
func (c *Client) Enabled() bool { return c.APIKey != "" }

type searchResponse struct {
	Results []struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
		PosterPath  string `json:"poster_path"`
		Overview    string `json:"overview"`
	} `json:"results"`
}

type detailResponse struct {
	ID          int     `json:"id"`
	ImdbID      string  `json:"imdb_id"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []struct {
			Site string `json:"site"`
			Type string `json:"type"`
			Key  string `json:"key"`
		} `json:"results"`
	} `json:"videos"`
}

// FetchEnrichment resolves a film to a TMDB record and returns a partial
// Film carrying only the TMDB ID and enrichment fields. Returns nil when
// the film cannot be resolved.
func (c *Client) FetchEnrichment(ctx context.Context, film models.Film) (*models.Film, error) {
	if !c.Enabled() {
		return nil, nil
	}

	id, err := c.search(ctx, film)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return c.detail(ctx, id)
}

func (c *Client) search(ctx context.Context, film models.Film) (int, error) {
	if film.TMDBID > 0 {
		return film.TMDBID, nil
	}

	u, _ := url.Parse(c.BaseURL + "/search/movie")
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("query", film.Title)
	if film.Year > 0 {
		q.Set("year", strconv.Itoa(film.Year))
	}
	u.RawQuery = q.Encode()

	var sr searchResponse
	if err := c.getJSON(ctx, u.String(), &sr); err != nil {
		return 0, err
	}
	if len(sr.Results) == 0 {
		return 0, nil
	}
	return sr.Results[0].ID, nil
}

func (c *Client) detail(ctx context.Context, id int) (*models.Film, error) {
	u, _ := url.Parse(fmt.Sprintf("%s/movie/%d", c.BaseURL, id))
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("append_to_response", "credits,videos")
	u.RawQuery = q.Encode()

	var dr detailResponse
	if err := c.getJSON(ctx, u.String(), &dr); err != nil {
		return nil, err
	}

	out := &models.Film{
		TMDBID:   dr.ID,
		IMDBID:   dr.ImdbID,
		Synopsis: strings.TrimSpace(dr.Overview),
	}
	if dr.PosterPath != "" {
		out.PosterURL = posterBase + dr.PosterPath
	}
	if dr.Runtime > 0 {
		out.Runtime = fmt.Sprintf("%d min", dr.Runtime)
	}
	if dr.VoteAverage > 0 {
		out.Rating = fmt.Sprintf("%.1f/10", dr.VoteAverage)
	}
	for _, g := range dr.Genres {
		if g.Name != "" {
			out.Genres = append(out.Genres, g.Name)
		}
	}
	for _, member := range dr.Credits.Crew {
		if member.Job == "Director" && member.Name != "" {
			out.Directors = append(out.Directors, member.Name)
		}
	}
	for i, member := range dr.Credits.Cast {
		if i >= 8 {
			break
		}
		if member.Name != "" {
			out.Cast = append(out.Cast, member.Name)
		}
	}
	for _, v := range dr.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			out.TrailerURL = "https://www.youtube.com/watch?v=" + v.Key
			break
		}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("enrich: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("enrich: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("enrich: status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("enrich: decode: %w", err)
	}
	return nil
}
