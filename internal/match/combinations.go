package match

// Combinations enumerates every subset of usernames with at least minSize
// members, each exactly once, preserving the relative input order inside
// each subset. For n usernames and minSize=2 this yields 2^n - n - 1
// subsets; the upstream 10-member limit keeps that at 1013 worst case.
//
// Output order follows the recursion and is not meaningful; Rank re-sorts.
func Combinations(usernames []string, minSize int) [][]string {
	if minSize < 1 {
		minSize = 1
	}
	var out [][]string
	current := make([]string, 0, len(usernames))

	var extend func(start int)
	extend = func(start int) {
		if len(current) >= minSize {
			subset := make([]string, len(current))
			copy(subset, current)
			out = append(out, subset)
		}
		for i := start; i < len(usernames); i++ {
			current = append(current, usernames[i])
			extend(i + 1)
			current = current[:len(current)-1]
		}
	}
	extend(0)
	return out
}
