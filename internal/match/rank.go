package match

import (
	"sort"

	"github.com/larswan/letterbuds/pkg/models"
)

// Rank partitions groups by member count and orders them for display:
// tiers with more members first (a match among four people is more
// interesting than a pairwise one), and inside a tier higher CommonCount
// first. Ties keep generator order, so the output is fully deterministic.
func Rank(groups []models.GroupMatch) []models.RankedTier {
	byCount := make(map[int][]models.GroupMatch)
	for _, g := range groups {
		n := len(g.Members)
		byCount[n] = append(byCount[n], g)
	}

	counts := make([]int, 0, len(byCount))
	for n := range byCount {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	tiers := make([]models.RankedTier, 0, len(counts))
	for _, n := range counts {
		tier := byCount[n]
		sort.SliceStable(tier, func(i, j int) bool {
			return tier[i].CommonCount > tier[j].CommonCount
		})
		tiers = append(tiers, models.RankedTier{MemberCount: n, Groups: tier})
	}
	return tiers
}
