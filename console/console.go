// Package console runs one lnget invocation: list sources, resume a session or download a novel.
package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lnget-cli/lnget/auth"
	"github.com/lnget-cli/lnget/display"
	"github.com/lnget-cli/lnget/download"
	"github.com/lnget-cli/lnget/guess"
	"github.com/lnget-cli/lnget/internal/ui"
	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/open"
	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/query"
	"github.com/lnget-cli/lnget/resolve"
	"github.com/lnget-cli/lnget/search"
	"github.com/lnget-cli/lnget/session"
	"github.com/lnget-cli/lnget/source"
	"github.com/samber/lo"
)

// Options configure one invocation. They are built once from flags and config.
type Options struct {
	ListSources bool

	// Resume continues a saved session; ResumeID may be an id prefix or empty for the latest.
	Resume   bool
	ResumeID string

	// Input is a novel URL or a search query. It is asked for when empty.
	Input string

	// Sources restricts searching to these source names or ids.
	Sources []string

	Aggregator        string
	Rejected          []string
	SearchConcurrency int
	SearchLimit       int
	DownloadWorkers   int
	Progress          bool

	// OpenWhenDone opens the first written book with OpenWith, or the default handler.
	OpenWhenDone bool
	OpenWith     string

	Session session.Options
}

// Console holds the collaborators of an invocation.
type Console struct {
	Registry *provider.Registry
	Prompter prompt.Prompter
	Display  *display.Display
	Guesser  resolve.Guesser
	Keyring  session.Keyring

	// Open launches a written book. Nil disables opening.
	Open func(path, app string) error
}

// Run executes an invocation with the terminal collaborators.
func Run(ctx context.Context, options *Options) error {
	registry, err := provider.Load()
	if err != nil {
		return err
	}

	c := &Console{
		Registry: registry,
		Prompter: prompt.NewSurvey(),
		Display:  display.New(os.Stdout),
		Guesser:  guess.New(),
		Keyring:  auth.Keyring{},
		Open:     open.Start,
	}
	return c.Run(ctx, options)
}

// Run takes exactly one of the list, resume or download paths.
func (c *Console) Run(ctx context.Context, options *Options) error {
	switch {
	case options.ListSources:
		c.Display.SourcesList(c.Registry)
		return nil
	case options.Resume:
		return c.resume(ctx, options)
	default:
		return c.orchestrate(ctx, options)
	}
}

func (c *Console) orchestrate(ctx context.Context, options *Options) error {
	input, err := c.input(options)
	if err != nil {
		return err
	}

	rejected := provider.DefaultRejected(options.Rejected)
	resolver := &resolve.Resolver{
		Binder:     c.Registry,
		Rejected:   rejected,
		Guesser:    c.Guesser,
		Prompter:   c.Prompter,
		Notifier:   c.Display,
		Aggregator: options.Aggregator,
	}

	res, err := resolver.Resolve(ctx, input)
	if err != nil {
		return err
	}
	log.Infof("resolved %q in %s mode", input, res.Mode)

	s := session.New(input)
	s.SearchMode = res.Mode == resolve.Search
	s.Source = res.Source

	if s.SearchMode {
		s.Query = res.Query
		if s.Candidates, err = c.pickSources(res.Candidates, options); err != nil {
			return err
		}
		if err := query.Remember(s.Query, 1); err != nil {
			log.Warn(err)
		}

		s.Groups, err = search.Run(ctx, c.Registry, s.Candidates, s.Query, search.Options{
			Concurrency: options.SearchConcurrency,
			Limit:       options.SearchLimit,
		})
		if err != nil {
			return fmt.Errorf("search %q: %w", s.Query, err)
		}
	}

	controller := &session.Controller{
		Binder:   c.Registry,
		Rejected: rejected,
		Keyring:  c.Keyring,
		Prompter: c.Prompter,
		Display:  c.Display,
		Options:  options.Session,
	}

	outcome, err := controller.Run(ctx, s)
	switch outcome {
	case session.OutcomeReady:
	case session.OutcomeCanceled:
		return nil
	default:
		return err
	}

	if err := session.Save(s); err != nil {
		log.Warnf("save session %s: %s", s.ID, err)
	}
	return c.download(ctx, s, options)
}

func (c *Console) input(options *Options) (string, error) {
	if strings.TrimSpace(options.Input) != "" {
		return options.Input, nil
	}

	return c.Prompter.Input("Enter novel page URL or query", "", query.SuggestMany, func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("input must not be empty")
		}
		return nil
	})
}

// pickSources narrows the search candidates to the configured sources, or asks
// the operator when none are configured. A single candidate is used as is.
func (c *Console) pickSources(candidates []string, options *Options) ([]string, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no installed source can search")
	}
	if len(candidates) == 1 {
		return candidates, nil
	}

	if len(options.Sources) > 0 {
		wanted := lo.Keyify(options.Sources)
		picked := lo.Filter(candidates, func(link string, _ int) bool {
			p, ok := c.Registry.Match(link)
			if !ok {
				return false
			}
			_, byName := wanted[p.Name]
			_, byID := wanted[p.ID]
			return byName || byID
		})
		if len(picked) == 0 {
			return nil, fmt.Errorf("none of the sources %s can search", strings.Join(options.Sources, ", "))
		}
		return picked, nil
	}

	indexes, err := c.Prompter.MultiSelect("Where to search?", candidates, candidates)
	if err != nil {
		return nil, err
	}
	return lo.Map(indexes, func(i int, _ int) string { return candidates[i] }), nil
}

func (c *Console) resume(ctx context.Context, options *Options) error {
	s, err := session.Find(options.ResumeID)
	if err != nil {
		return err
	}
	log.Infof("resuming session %s (%s)", s.ID, s)

	src, err := c.Registry.Prepare(s.NovelURL)
	if err != nil {
		return fmt.Errorf("resume %s: %w", s.ID, err)
	}
	s.Source = src

	if src.CanDo(source.CapabilityLogin) {
		stored, err := c.Keyring.Load(src.ID())
		if err != nil {
			log.Warnf("read credentials of %s: %s", src.ID(), err)
		}
		if creds, ok := stored.Get(); ok {
			if err := src.Login(creds.Username, creds.Password); err != nil {
				return fmt.Errorf("login to %s: %w", src.Name(), err)
			}
		}
	}

	if s.Novel == nil || len(s.Chapters) == 0 {
		return fmt.Errorf("session %s has no chapters to download", s.ID)
	}
	return c.download(ctx, s, options)
}

func (c *Console) download(ctx context.Context, s *session.Session, options *Options) error {
	formats, err := download.ParseFormats(s.Formats)
	if err != nil {
		return err
	}

	if pending := len(s.Pending()); pending < len(s.Chapters) {
		log.Infof("session %s: %d of %d chapters left", s.ID, pending, len(s.Chapters))
	}

	d := &download.Downloader{Workers: options.DownloadWorkers}
	if options.Progress {
		d.Observer = &ui.Progress{Title: s.Novel.Title}
	}

	res, err := d.Run(ctx, &download.Job{
		Source:       s.Source,
		Novel:        s.Novel,
		Chapters:     s.Chapters,
		Dir:          s.OutputPath,
		Filename:     s.Filename,
		FilenameOnly: s.FilenameOnly,
		Formats:      formats,
		PackByVolume: s.PackByVolume,
		Overwrite:    s.Overwrite,
	})
	if err != nil {
		return err
	}

	failed := lo.Keyify(lo.Map(res.Failed, func(ch *source.Chapter, _ int) int { return ch.ID }))
	s.Downloaded = lo.FilterMap(s.Chapters, func(ch *source.Chapter, _ int) (int, bool) {
		_, bad := failed[ch.ID]
		return ch.ID, !bad
	})
	s.Completed = len(res.Failed) == 0
	s.Overwrite = false
	if err := session.Save(s); err != nil {
		log.Warnf("save session %s: %s", s.ID, err)
	}

	c.Display.Complete(s.Novel, len(s.Downloaded), res.Files)
	c.Display.Failed(len(res.Failed))

	if options.OpenWhenDone && c.Open != nil && len(res.Files) > 0 {
		if err := c.Open(res.Files[0], options.OpenWith); err != nil {
			log.Warnf("open %s: %s", res.Files[0], err)
		}
	}
	return nil
}
