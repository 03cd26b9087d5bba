// Package resolve turns operator input into a bound source or a search.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/source"
)

// Mode tells how the input was resolved.
type Mode int

const (
	// Direct means the input URL bound a source.
	Direct Mode = iota + 1

	// Search means candidates have to be searched for Query.
	Search
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Search:
		return "search"
	default:
		return "unresolved"
	}
}

// Resolution is the outcome of a successful Resolve. Source is set in Direct
// mode, Candidates and Query in Search mode.
type Resolution struct {
	Mode       Mode
	Source     source.Source
	Query      string
	Candidates []string
}

// Binder is the part of the source registry the resolver uses.
type Binder interface {
	// Prepare fails with *provider.NotFoundError when no source handles the URL.
	Prepare(rawURL string) (source.Source, error)

	// SearchLinks lists absolute-URL keys of sources that can search.
	SearchLinks() []string
}

// Guesser derives a novel title from a URL.
type Guesser interface {
	Title(ctx context.Context, rawURL string) string
}

// Notifier shows resolution notices.
type Notifier interface {
	URLRejected(host, reason string)
	URLNotRecognized(rawURL string)
	AggregatorFallback(aggregator string)
}

// Resolver classifies input. All fields are required.
type Resolver struct {
	Binder     Binder
	Rejected   provider.Rejected
	Guesser    Guesser
	Prompter   prompt.Prompter
	Notifier   Notifier
	Aggregator string
}

// Resolve returns a Direct or Search resolution, or *provider.RejectedError
// for deny-listed hosts. The deny-list is consulted before any binding.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Resolution, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("input must not be empty")
	}

	if !provider.IsAbsoluteURL(input) {
		return &Resolution{
			Mode:       Search,
			Query:      input,
			Candidates: r.Binder.SearchLinks(),
		}, nil
	}

	host := ""
	if u, err := url.Parse(input); err == nil {
		host = u.Hostname()
	}

	if reason, rejected := r.Rejected.Reason(host); rejected {
		r.Notifier.URLRejected(host, reason)
		return nil, &provider.RejectedError{Host: host, Reason: reason}
	}

	src, err := r.Binder.Prepare(input)
	if err == nil {
		return &Resolution{Mode: Direct, Source: src}, nil
	}

	var notFound *provider.NotFoundError
	if errors.As(err, &notFound) {
		r.Notifier.URLNotRecognized(input)
	} else {
		log.Errorf("prepare source for %s: %s", input, err)
	}

	return r.fallback(ctx, input)
}

func (r *Resolver) fallback(ctx context.Context, input string) (*Resolution, error) {
	guess := r.Guesser.Title(ctx, input)
	r.Notifier.AggregatorFallback(r.Aggregator)

	title, err := r.Prompter.Input("Novel title", guess, nil, func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("title must not be empty")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("confirm title: %w", err)
	}

	return &Resolution{
		Mode:       Search,
		Query:      strings.TrimSpace(title),
		Candidates: []string{r.Aggregator},
	}, nil
}
