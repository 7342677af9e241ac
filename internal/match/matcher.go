package match

import (
	"github.com/larswan/letterbuds/pkg/models"
)

// Groups computes, for every combination of 2+ members, the set of films
// common to all of the combination's watchlists.
//
// Duplicate films inside one member's list collapse to a single key.
// When several members hold a shared key, the representative Film is the
// instance from the first member (in combination order) that has it.
// Conflicting metadata across members is not merged here; enrichment
// handles that later. Combinations with an empty intersection are still
// emitted with CommonCount 0.
//
// A member whose fetch failed upstream simply arrives with an empty film
// list and drags its combinations to zero; the matcher never rejects or
// special-cases it. Requiring at least two non-empty members is the
// caller's policy.
func Groups(members []models.Member) models.MatchResult {
	usernames := make([]string, len(members))
	keySets := make([]map[string]models.Film, len(members))
	perCount := make(map[string]int, len(members))
	index := make(map[string]int, len(members))

	for i, m := range members {
		usernames[i] = m.Username
		index[m.Username] = i
		perCount[m.Username] = len(m.Films)

		set := make(map[string]models.Film, len(m.Films))
		for _, f := range m.Films {
			key := KeyOf(f)
			if _, seen := set[key]; !seen {
				set[key] = f
			}
		}
		keySets[i] = set
	}

	combos := Combinations(usernames, 2)
	groups := make([]models.GroupMatch, 0, len(combos))

	for _, combo := range combos {
		// Every key in the intersection is present in the first member's
		// list, so walking that list in scrape order keeps the output
		// deterministic and picks the first member's instance as the
		// representative.
		firstMember := members[index[combo[0]]]
		seen := make(map[string]bool, len(firstMember.Films))

		var common []models.Film
		for _, film := range firstMember.Films {
			key := KeyOf(film)
			if seen[key] {
				continue
			}
			seen[key] = true

			shared := true
			for _, member := range combo[1:] {
				if _, ok := keySets[index[member]][key]; !ok {
					shared = false
					break
				}
			}
			if shared {
				common = append(common, film)
			}
		}

		groups = append(groups, models.GroupMatch{
			Members:     combo,
			CommonFilms: common,
			CommonCount: len(common),
		})
	}

	return models.MatchResult{Groups: groups, PerMemberCount: perCount}
}
