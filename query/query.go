// Package query remembers what the operator searched for and suggests it back.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

type history = map[string]*record

func store() *gache.Cache[history] {
	return gache.New[history](&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	})
}

func load(c *gache.Cache[history]) history {
	cached, expired, err := c.Get()
	if err != nil || expired || cached == nil {
		return make(history)
	}
	return cached
}

// Remember adds weight to the rank of q, recording it if new.
func Remember(q string, weight int) error {
	q = normalize(q)
	if q == "" {
		return nil
	}

	c := store()
	h := load(c)
	if r, ok := h[q]; ok {
		r.Rank += weight
	} else {
		h[q] = &record{Rank: weight, Query: q}
	}
	return c.Set(h)
}

// Suggest returns the best remembered query matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns remembered queries fuzzily matching q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil
	}

	q = normalize(q)
	matches := lo.Filter(lo.Values(load(store())), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(matches, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(matches, func(r *record, _ int) string {
		return r.Query
	})
}

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
