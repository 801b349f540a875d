package reconciler

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

type candidate struct {
	name string
	dist int
}

// suggest returns up to n catalog names close to name. Distance is
// measured case-insensitively and relative to the longer name.
func suggest(name string, names []string, n int, maxDistance float64) []string {
	if n == 0 || name == "" {
		return nil
	}
	upper := strings.ToUpper(name)
	var found []candidate
	for _, c := range names {
		dist := levenshtein.ComputeDistance(upper, strings.ToUpper(c))
		longest := max(len(name), len(c))
		if float64(dist)/float64(longest) < maxDistance {
			found = append(found, candidate{name: c, dist: dist})
		}
	}
	slices.SortFunc(found, func(a, b candidate) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	out := make([]string, 0, min(n, len(found)))
	for _, c := range found[:min(n, len(found))] {
		out = append(out, c.name)
	}
	return out
}
