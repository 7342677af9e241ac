package models

// GroupMatch is the outcome of intersecting one combination of members.
// Members keeps the comparison request's input order. Zero-count groups
// are kept so the UI can render "X and Y share 0 films".
type GroupMatch struct {
	Members     []string `json:"members"`
	CommonFilms []Film   `json:"common_films"`
	CommonCount int      `json:"common_count"`
}

// MatchResult is the full output of one comparison run: exactly one
// GroupMatch per combination of 2+ members, plus each member's raw
// (pre-deduplication) watchlist size.
type MatchResult struct {
	Groups         []GroupMatch   `json:"groups"`
	PerMemberCount map[string]int `json:"per_member_count"`
}

// RankedTier groups GroupMatches that share a member count, for display.
type RankedTier struct {
	MemberCount int          `json:"member_count"`
	Groups      []GroupMatch `json:"groups"`
}
