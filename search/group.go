package search

import (
	"strings"
	"unicode"

	"github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/util"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// normalize keeps letters and digits, lower-cased, single-spaced.
func normalize(title string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// similar allows one edit per ten characters.
func similar(a, b string) bool {
	if a == b {
		return true
	}
	return levenshtein.Distance(a, b) <= util.Max(1, util.Min(len(a), len(b))/10)
}

// Merge groups results whose titles are equal or nearly equal.
// Groups keep the order in which their first result appeared.
func Merge(results []*source.SearchResult) []*Group {
	var (
		groups []*Group
		keys   []string
	)

	for _, r := range results {
		k := normalize(r.Title)
		if k == "" {
			continue
		}

		_, i, found := lo.FindIndexOf(keys, func(existing string) bool {
			return similar(existing, k)
		})
		if !found {
			groups = append(groups, &Group{Title: strings.TrimSpace(r.Title)})
			keys = append(keys, k)
			i = len(groups) - 1
		}

		dup := lo.ContainsBy(groups[i].Results, func(existing *source.SearchResult) bool {
			return existing.URL == r.URL
		})
		if !dup {
			groups[i].Results = append(groups[i].Results, r)
		}
	}

	return groups
}

// rank puts groups matching query first, closer matches and more sources ahead.
func rank(groups []*Group, query string) {
	query = normalize(query)
	distance := lo.SliceToMap(groups, func(g *Group) (*Group, int) {
		d := fuzzy.RankMatchNormalizedFold(query, normalize(g.Title))
		if d < 0 {
			d = levenshtein.Distance(query, normalize(g.Title)) + 1<<16
		}
		return g, d
	})

	slices.SortStableFunc(groups, func(a, b *Group) int {
		if distance[a] != distance[b] {
			return distance[a] - distance[b]
		}
		return len(b.Results) - len(a.Results)
	})
}
