package match

import (
	"testing"

	"github.com/larswan/letterbuds/pkg/models"
)

func group(count int, members ...string) models.GroupMatch {
	films := make([]models.Film, count)
	for i := range films {
		films[i] = models.Film{Title: "film"}
	}
	return models.GroupMatch{Members: members, CommonFilms: films, CommonCount: count}
}

func TestRank_TiersDescendByMemberCount(t *testing.T) {
	tiers := Rank([]models.GroupMatch{
		group(1, "a", "b"),
		group(2, "a", "b", "c"),
		group(0, "a", "b", "c", "d"),
	})

	if len(tiers) != 3 {
		t.Fatalf("got %d tiers, want 3", len(tiers))
	}
	for i, want := range []int{4, 3, 2} {
		if tiers[i].MemberCount != want {
			t.Errorf("tier %d member count = %d, want %d", i, tiers[i].MemberCount, want)
		}
	}
}

func TestRank_WithinTierDescendsByCommonCount(t *testing.T) {
	tiers := Rank([]models.GroupMatch{
		group(1, "a", "b"),
		group(5, "a", "c"),
		group(3, "b", "c"),
	})

	if len(tiers) != 1 {
		t.Fatalf("got %d tiers, want 1", len(tiers))
	}
	counts := []int{}
	for _, g := range tiers[0].Groups {
		counts = append(counts, g.CommonCount)
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Errorf("common counts not non-increasing: %v", counts)
		}
	}
}

func TestRank_TiesKeepGeneratorOrder(t *testing.T) {
	tiers := Rank([]models.GroupMatch{
		group(2, "a", "b"),
		group(2, "a", "c"),
		group(2, "b", "c"),
	})

	got := tiers[0].Groups
	want := [][]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	for i := range want {
		if got[i].Members[0] != want[i][0] || got[i].Members[1] != want[i][1] {
			t.Errorf("tie order changed: position %d is %v, want %v", i, got[i].Members, want[i])
		}
	}
}

func TestRank_ZeroCountGroupsRetained(t *testing.T) {
	tiers := Rank([]models.GroupMatch{
		group(0, "a", "b"),
		group(2, "a", "c"),
	})

	total := 0
	for _, tier := range tiers {
		total += len(tier.Groups)
	}
	if total != 2 {
		t.Errorf("ranked output dropped groups: got %d, want 2", total)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	if tiers := Rank(nil); len(tiers) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", tiers)
	}
}
