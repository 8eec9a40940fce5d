package typemerge

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// OrScopes returns the disjunction of a and b: the conjunctions of both,
// deduplicated, in first-seen order.
func OrScopes(a, b [][]string) [][]string {
	out := make([][]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return DedupScopes(out)
}

// AndScopes returns the conjunction of a and b: every pairing of one
// conjunction from each side. An empty side imposes no requirement.
func AndScopes(a, b [][]string) [][]string {
	if len(a) == 0 {
		return DedupScopes(b)
	}
	if len(b) == 0 {
		return DedupScopes(a)
	}
	out := make([][]string, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			conj := make([]string, 0, len(x)+len(y))
			conj = append(conj, x...)
			conj = append(conj, y...)
			out = append(out, conj)
		}
	}
	return DedupScopes(out)
}

// DedupScopes removes duplicate scopes inside each conjunction and duplicate
// conjunctions, keeping first-seen order.
func DedupScopes(scopes [][]string) [][]string {
	out := make([][]string, 0, len(scopes))
	seen := make(map[string]bool, len(scopes))
	for _, conj := range scopes {
		uniq := lo.Uniq(conj)
		key := conjunctionKey(uniq)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, uniq)
	}
	return out
}

func conjunctionKey(conj []string) string {
	sorted := append([]string(nil), conj...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

