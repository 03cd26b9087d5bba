// Package search queries several sources at once and groups their results by novel.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/util"
	"golang.org/x/sync/errgroup"
)

// Binder instantiates the source registered for a link.
type Binder interface {
	Prepare(rawURL string) (source.Source, error)
}

// Group is one novel as found on one or more sources.
type Group struct {
	Title   string
	Results []*source.SearchResult
}

func (g *Group) String() string {
	return fmt.Sprintf("%s (%d sources)", g.Title, len(g.Results))
}

// Options bound a search.
type Options struct {
	// Concurrency is the number of sources queried at once. Values below 1 mean 1.
	Concurrency int

	// Limit caps the returned groups. Zero means no cap.
	Limit int
}

// ErrNoResults is returned when no source found anything.
var ErrNoResults = errors.New("no results")

// Run searches query on every link and returns the grouped results, best match first.
// Failing sources are logged and skipped; Run fails only when every source failed.
func Run(ctx context.Context, binder Binder, links []string, query string, opts Options) ([]*Group, error) {
	var (
		mu    sync.Mutex
		found = make([][]*source.SearchResult, len(links))
		errs  []error
	)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(util.Max(opts.Concurrency, 1))

	for i, link := range links {
		g.Go(func() error {
			results, err := searchOne(binder, link, query)
			if err != nil {
				log.Warnf("search %s on %s: %s", query, link, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", link, err))
				mu.Unlock()
				return nil
			}
			found[i] = results
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Link order, not completion order, decides which result comes first.
	var results []*source.SearchResult
	for _, r := range found {
		results = append(results, r...)
	}

	if len(results) == 0 {
		if len(errs) > 0 && len(errs) == len(links) {
			return nil, errors.Join(errs...)
		}
		return nil, ErrNoResults
	}

	groups := Merge(results)
	rank(groups, query)
	if opts.Limit > 0 && len(groups) > opts.Limit {
		groups = groups[:opts.Limit]
	}
	return groups, nil
}

func searchOne(binder Binder, link, query string) ([]*source.SearchResult, error) {
	src, err := binder.Prepare(link)
	if err != nil {
		return nil, err
	}
	if !src.CanDo(source.CapabilitySearch) {
		return nil, fmt.Errorf("%s cannot search", src.Name())
	}

	found, err := src.Search(query)
	if err != nil {
		return nil, err
	}
	for _, r := range found {
		if r.Source == "" {
			r.Source = src.ID()
		}
	}
	return found, nil
}
