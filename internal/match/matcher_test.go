package match

import (
	"strings"
	"testing"

	"github.com/larswan/letterbuds/pkg/models"
)

func member(username string, titles ...string) models.Member {
	films := make([]models.Film, len(titles))
	for i, title := range titles {
		films[i] = models.Film{Title: title}
	}
	return models.Member{Username: username, Films: films}
}

func findGroup(t *testing.T, result models.MatchResult, members ...string) models.GroupMatch {
	t.Helper()
	want := strings.Join(members, ",")
	for _, g := range result.Groups {
		if strings.Join(g.Members, ",") == want {
			return g
		}
	}
	t.Fatalf("no group for members %v", members)
	return models.GroupMatch{}
}

func commonTitles(g models.GroupMatch) []string {
	out := make([]string, len(g.CommonFilms))
	for i, f := range g.CommonFilms {
		out[i] = f.Title
	}
	return out
}

func TestGroups_ThreeMemberScenario(t *testing.T) {
	result := Groups([]models.Member{
		member("one", "Alpha", "Beta"),
		member("two", "Beta", "Gamma"),
		member("three", "Beta"),
	})

	if len(result.Groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(result.Groups))
	}

	for _, members := range [][]string{
		{"one", "two"}, {"one", "three"}, {"two", "three"}, {"one", "two", "three"},
	} {
		g := findGroup(t, result, members...)
		if g.CommonCount != 1 || g.CommonFilms[0].Title != "Beta" {
			t.Errorf("group %v: got %v, want [Beta]", members, commonTitles(g))
		}
	}

	wantCounts := map[string]int{"one": 2, "two": 2, "three": 1}
	for username, want := range wantCounts {
		if got := result.PerMemberCount[username]; got != want {
			t.Errorf("PerMemberCount[%s] = %d, want %d", username, got, want)
		}
	}
}

func TestGroups_DisjointWatchlistsKeepZeroGroup(t *testing.T) {
	result := Groups([]models.Member{
		member("one", "Alpha"),
		member("two", "Beta"),
	})

	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(result.Groups))
	}
	g := result.Groups[0]
	if g.CommonCount != 0 {
		t.Errorf("CommonCount = %d, want 0", g.CommonCount)
	}
	if len(g.CommonFilms) != 0 {
		t.Errorf("CommonFilms = %v, want empty", commonTitles(g))
	}
}

func TestGroups_GroupCountMatchesCombinations(t *testing.T) {
	members := []models.Member{
		member("a", "X"), member("b", "X"), member("c"), member("d", "Y"),
	}
	result := Groups(members)
	want := len(Combinations([]string{"a", "b", "c", "d"}, 2))
	if len(result.Groups) != want {
		t.Errorf("got %d groups, want %d (one per combination)", len(result.Groups), want)
	}
}

func TestGroups_EmptyMemberParticipates(t *testing.T) {
	result := Groups([]models.Member{
		member("one", "Alpha"),
		member("two"), // fetch failed upstream
		member("three", "Alpha"),
	})

	pair := findGroup(t, result, "one", "three")
	if pair.CommonCount != 1 {
		t.Errorf("unaffected pair: got %d, want 1", pair.CommonCount)
	}

	withEmpty := findGroup(t, result, "one", "two")
	if withEmpty.CommonCount != 0 {
		t.Errorf("pair with empty member: got %d, want 0", withEmpty.CommonCount)
	}
	full := findGroup(t, result, "one", "two", "three")
	if full.CommonCount != 0 {
		t.Errorf("triple with empty member: got %d, want 0", full.CommonCount)
	}
}

func TestGroups_DuplicatesWithinOneMemberCollapse(t *testing.T) {
	result := Groups([]models.Member{
		member("one", "Alpha", "Alpha"),
		member("two", "Alpha"),
	})

	g := result.Groups[0]
	if g.CommonCount != 1 {
		t.Errorf("CommonCount = %d, want 1 (duplicates collapse)", g.CommonCount)
	}
	// Raw counts keep the duplicate.
	if result.PerMemberCount["one"] != 2 {
		t.Errorf("PerMemberCount[one] = %d, want raw 2", result.PerMemberCount["one"])
	}
}

func TestGroups_RepresentativeFromFirstMember(t *testing.T) {
	first := models.Member{Username: "one", Films: []models.Film{
		{Title: "Heat", Year: 1995, PosterURL: "from-one"},
	}}
	second := models.Member{Username: "two", Films: []models.Film{
		{Title: "Heat", Year: 1995, PosterURL: "from-two"},
	}}

	result := Groups([]models.Member{first, second})
	g := result.Groups[0]
	if g.CommonCount != 1 || g.CommonFilms[0].PosterURL != "from-one" {
		t.Errorf("representative film %+v should come from the first member", g.CommonFilms)
	}
}

func TestGroups_ExternalIDBridgesTitleDrift(t *testing.T) {
	result := Groups([]models.Member{
		{Username: "one", Films: []models.Film{{Title: "The Matrix", Year: 1999, TMDBID: 603}}},
		{Username: "two", Films: []models.Film{{Title: "Matrix, The", TMDBID: 603}}},
	})

	if result.Groups[0].CommonCount != 1 {
		t.Error("films sharing a TMDB ID must match despite differing titles")
	}
}
