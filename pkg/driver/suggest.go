package driver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SuggestFile looks in dir for the file the user most likely meant by name.
// Names containing name as a subsequence win; otherwise the closest name by
// edit distance is returned if it is close enough.
func SuggestFile(dir, name string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}

	base := filepath.Base(name)
	if ranks := fuzzy.RankFindNormalizedFold(base, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return filepath.Join(dir, ranks[0].Target), true
	}

	limit := max(2, len(base)/3)
	best, bestDist := "", -1
	for _, n := range names {
		d := fuzzy.LevenshteinDistance(strings.ToLower(base), strings.ToLower(n))
		if d <= limit && (bestDist < 0 || d < bestDist) {
			best, bestDist = n, d
		}
	}
	if bestDist < 0 {
		return "", false
	}
	return filepath.Join(dir, best), true
}
