package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newMirrorServer(t *testing.T, records map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Path[len("/members/"):]
		body, ok := records[username]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMirrorFetchWatchlist_TolerantShapes(t *testing.T) {
	srv := newMirrorServer(t, map[string]string{
		"alice": `{"films": [
			{"title": "The Matrix", "year": 1999, "tmdb_id": 603},
			{"name": "Heat", "year": "1995"},
			{"title": "Pi", "year": null},
			{"title": ""},
			{"title": "Solaris"}
		]}`,
	})

	films, err := NewMirror(srv.URL).FetchWatchlist(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(films) != 4 {
		t.Fatalf("got %d films, want 4 (titleless entry dropped)", len(films))
	}
	if films[0].Title != "The Matrix" || films[0].Year != 1999 || films[0].TMDBID != 603 {
		t.Errorf("numeric year entry: %+v", films[0])
	}
	if films[1].Title != "Heat" || films[1].Year != 1995 {
		t.Errorf("string year and name-field entry: %+v", films[1])
	}
	if films[2].Year != 0 {
		t.Errorf("null year must read as unknown: %+v", films[2])
	}
	if films[3].Title != "Solaris" || films[3].Year != 0 {
		t.Errorf("absent year must read as unknown: %+v", films[3])
	}
}

func TestMirrorFetchProfile_FallsBackToUsername(t *testing.T) {
	srv := newMirrorServer(t, map[string]string{
		"alice": `{"profile": {"display_name": "Alice"}, "films": []}`,
		"bob":   `{"films": []}`,
	})
	m := NewMirror(srv.URL)

	p, err := m.FetchProfile(context.Background(), "alice")
	if err != nil || p.DisplayName != "Alice" {
		t.Errorf("profile = %+v, err %v", p, err)
	}

	p, err = m.FetchProfile(context.Background(), "bob")
	if err != nil || p.DisplayName != "bob" {
		t.Errorf("missing profile must fall back to username: %+v, err %v", p, err)
	}
}

func TestMirrorFetch_UnknownMember(t *testing.T) {
	srv := newMirrorServer(t, nil)

	_, err := NewMirror(srv.URL).FetchWatchlist(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
