package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/larswan/letterbuds/pkg/models"
)

const detailJSON = `{
  "id": 603,
  "imdb_id": "tt0133093",
  "overview": "A hacker learns the truth.",
  "poster_path": "/matrix.jpg",
  "runtime": 136,
  "vote_average": 8.2,
  "genres": [{"name": "Action"}, {"name": "Science Fiction"}],
  "credits": {
    "cast": [{"name": "Keanu Reeves"}, {"name": "Carrie-Anne Moss"}],
    "crew": [
      {"name": "Lana Wachowski", "job": "Director"},
      {"name": "Someone Else", "job": "Producer"}
    ]
  },
  "videos": {"results": [
    {"site": "Vimeo", "type": "Trailer", "key": "nope"},
    {"site": "YouTube", "type": "Trailer", "key": "abc123"}
  ]}
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	return c
}

func TestFetchEnrichment_SearchThenDetail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			if got := r.URL.Query().Get("query"); got != "The Matrix" {
				t.Errorf("query = %q", got)
			}
			if got := r.URL.Query().Get("year"); got != "1999" {
				t.Errorf("year = %q", got)
			}
			fmt.Fprint(w, `{"results": [{"id": 603, "title": "The Matrix"}]}`)
		case "/movie/603":
			fmt.Fprint(w, detailJSON)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	got, err := c.FetchEnrichment(context.Background(), models.Film{Title: "The Matrix", Year: 1999})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected enrichment, got nil")
	}

	if got.TMDBID != 603 || got.IMDBID != "tt0133093" {
		t.Errorf("ids wrong: %+v", got)
	}
	if got.PosterURL != "https://image.tmdb.org/t/p/w500/matrix.jpg" {
		t.Errorf("poster = %q", got.PosterURL)
	}
	if got.Runtime != "136 min" || got.Rating != "8.2/10" {
		t.Errorf("runtime/rating wrong: %+v", got)
	}
	if len(got.Directors) != 1 || got.Directors[0] != "Lana Wachowski" {
		t.Errorf("directors = %v", got.Directors)
	}
	if len(got.Cast) != 2 {
		t.Errorf("cast = %v", got.Cast)
	}
	if got.TrailerURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("trailer = %q (must prefer YouTube trailers)", got.TrailerURL)
	}
}

func TestFetchEnrichment_KnownIDSkipsSearch(t *testing.T) {
	searched := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/movie" {
			searched = true
		}
		fmt.Fprint(w, detailJSON)
	}))

	_, err := c.FetchEnrichment(context.Background(), models.Film{Title: "The Matrix", TMDBID: 603})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searched {
		t.Error("search endpoint hit despite a known TMDB ID")
	}
}

func TestFetchEnrichment_NoResults(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))

	got, err := c.FetchEnrichment(context.Background(), models.Film{Title: "Obscure"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a miss, got %+v", got)
	}
}

func TestFetchEnrichment_DisabledWithoutKey(t *testing.T) {
	c := NewClient("")
	if c.Enabled() {
		t.Fatal("client without key reports enabled")
	}
	got, err := c.FetchEnrichment(context.Background(), models.Film{Title: "Anything"})
	if err != nil || got != nil {
		t.Errorf("disabled client must be a no-op, got (%+v, %v)", got, err)
	}
}
