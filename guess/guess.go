// Package guess derives a novel title from a URL no source recognizes.
package guess

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/network"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Guesser reads the page title, falling back to the URL slug.
type Guesser struct {
	// Fetch disables network access when false.
	Fetch bool
}

// New returns a guesser that looks at the page first.
func New() *Guesser {
	return &Guesser{Fetch: true}
}

// Title returns the best guess for the novel behind rawURL. It never fails;
// an empty string means nothing usable was found.
func (g *Guesser) Title(ctx context.Context, rawURL string) string {
	if g.Fetch {
		title, err := fromPage(ctx, rawURL)
		if err != nil {
			log.Warnf("guess title of %s: %s", rawURL, err)
		} else if title != "" {
			return title
		}
	}
	return FromSlug(rawURL)
}

// separators split a page title from the site name, e.g. "Worm | Parahumans".
var separators = regexp.MustCompile(`\s+[|\-–—:»]\s+`)

func fromPage(ctx context.Context, rawURL string) (string, error) {
	body, err := network.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", err
	}

	candidates := []string{
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find(`meta[name="twitter:title"]`).AttrOr("content", ""),
		doc.Find("h1").First().Text(),
		doc.Find("title").First().Text(),
	}

	for _, c := range candidates {
		c = strings.Join(strings.Fields(c), " ")
		if c == "" {
			continue
		}
		if parts := separators.Split(c, 2); parts[0] != "" {
			return parts[0], nil
		}
		return c, nil
	}
	return "", nil
}

var (
	slugNoise   = regexp.MustCompile(`(?i)(^|[-_])(\d+|novel|book|read|chapter[-_]?\d*)$`)
	slugFiller  = regexp.MustCompile(`[-_+.]+`)
	genericPath = map[string]bool{"novel": true, "novels": true, "book": true, "series": true, "fiction": true, "read": true}
)

// FromSlug turns the most specific path segment of rawURL into a title,
// e.g. ".../novel/the-wandering-inn-12345/" becomes "The Wandering Inn".
func FromSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg, err := url.PathUnescape(segments[i])
		if err != nil {
			seg = segments[i]
		}
		seg = strings.TrimSuffix(seg, path.Ext(seg))

		for {
			trimmed := slugNoise.ReplaceAllString(seg, "")
			if trimmed == seg {
				break
			}
			seg = trimmed
		}

		if seg == "" || genericPath[strings.ToLower(seg)] {
			continue
		}

		words := strings.Fields(slugFiller.ReplaceAllString(seg, " "))
		return cases.Title(language.English).String(strings.Join(words, " "))
	}

	return ""
}
