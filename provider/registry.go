package provider

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/source"
	"github.com/samber/lo"
)

// Registry maps registry keys (base URLs or hostnames) to providers.
// Keys keep their registration order; when several keys match a URL the
// first registered one wins.
type Registry struct {
	providers []*Provider
	keys      []string
	byKey     map[string]*Provider
}

// NewRegistry registers providers in order. A key claimed twice stays with its
// first provider.
func NewRegistry(providers ...*Provider) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Provider)}

	for _, p := range providers {
		if p == nil {
			return nil, errors.New("provider must not be nil")
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.New("provider name must not be empty")
		}
		if _, dup := r.Get(p.ID); dup {
			return nil, fmt.Errorf("duplicate provider: %q", p.ID)
		}

		r.providers = append(r.providers, p)
		for _, k := range p.Hosts {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			if owner, taken := r.byKey[k]; taken {
				log.Warnf("%s: key %s already registered by %s", p.Name, k, owner.Name)
				continue
			}
			r.keys = append(r.keys, k)
			r.byKey[k] = p
		}
	}

	return r, nil
}

// Providers returns all providers in registration order.
func (r *Registry) Providers() []*Provider {
	return r.providers
}

// Keys returns the registry keys in registration order.
func (r *Registry) Keys() []string {
	return r.keys
}

// Get finds a provider by id or name.
func (r *Registry) Get(idOrName string) (*Provider, bool) {
	return lo.Find(r.providers, func(p *Provider) bool {
		return p.ID == idOrName || p.Name == idOrName
	})
}

// Match returns the provider of the first registered key matching rawURL.
func (r *Registry) Match(rawURL string) (*Provider, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	host := bareHost(u.Hostname())

	for _, k := range r.keys {
		if keyHost(k) == host {
			return r.byKey[k], true
		}
	}
	return nil, false
}

// Prepare instantiates the source responsible for rawURL.
// It fails with *NotFoundError when no key matches.
func (r *Registry) Prepare(rawURL string) (source.Source, error) {
	p, ok := r.Match(rawURL)
	if !ok {
		return nil, &NotFoundError{URL: rawURL}
	}

	log.Infof("preparing source %s for %s", p.Name, rawURL)
	s, err := p.CreateSource()
	if err != nil {
		return nil, fmt.Errorf("init source %s: %w", p.Name, err)
	}
	return s, nil
}

// SearchLinks returns the keys that are absolute URLs and belong to searchable providers.
func (r *Registry) SearchLinks() []string {
	return lo.Filter(r.keys, func(k string, _ int) bool {
		return r.byKey[k].Searchable && IsAbsoluteURL(k)
	})
}

// IsAbsoluteURL reports whether s starts with an http or https scheme.
func IsAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func keyHost(k string) string {
	if IsAbsoluteURL(k) {
		if u, err := url.Parse(k); err == nil {
			return bareHost(u.Hostname())
		}
	}
	return bareHost(strings.TrimSuffix(k, "/"))
}

func bareHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
