package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/lnget-cli/lnget/auth"
	"github.com/lnget-cli/lnget/download"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/search"
	"github.com/lnget-cli/lnget/selector"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Outcome is how Run ended.
type Outcome int

const (
	// OutcomeReady means the session is set up for download.
	OutcomeReady Outcome = iota + 1

	// OutcomeCanceled means the operator declined to retry. It is not a failure.
	OutcomeCanceled

	// OutcomeInterrupted means the operator aborted a prompt.
	OutcomeInterrupted

	// OutcomeFailed means setup failed for good.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "ready"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Binder instantiates sources for novel URLs.
type Binder interface {
	Prepare(rawURL string) (source.Source, error)
}

// Keyring stores source credentials.
type Keyring interface {
	Load(sourceID string) (mo.Option[auth.Credentials], error)
	Save(sourceID string, c auth.Credentials) error
}

// Display shows what the setup found.
type Display interface {
	NovelSummary(novel *source.Novel)
	Selected(n int)
	Canceled()
	Error(err error)
}

// Options are the command line and config values the setup honors.
type Options struct {
	// OutputPath skips the output directory prompt.
	OutputPath string

	Filename     string
	FilenameOnly bool

	// Formats skips the format prompt.
	Formats        []string
	DefaultFormats []string

	// PackByVolume skips the packing prompt when present.
	PackByVolume        mo.Option[bool]
	DefaultPackByVolume bool

	// Suppress answers every optional question with its default.
	Suppress bool

	// Preset is the chapter selection given on the command line.
	Preset *selector.Request

	FirstDefault, LastDefault int
	MaxReselections           int
}

// Controller runs the setup steps of a session.
type Controller struct {
	Binder   Binder
	Rejected provider.Rejected
	Keyring  Keyring
	Prompter prompt.Prompter
	Display  Display
	Options  Options
}

// Run sets s up, offering a retry after failures in search mode.
// Deny-listed sources, empty selections and interrupts are never retried.
func (c *Controller) Run(ctx context.Context, s *Session) (Outcome, error) {
	for {
		err := c.Setup(ctx, s)
		if err == nil {
			return OutcomeReady, nil
		}

		if interrupted(ctx, err) {
			s.Reset()
			s.Source = nil
			return OutcomeInterrupted, err
		}

		var rejected *provider.RejectedError
		if errors.As(err, &rejected) ||
			errors.Is(err, selector.ErrNoChapters) ||
			errors.Is(err, selector.ErrTooManyReselections) ||
			!s.SearchMode {
			return OutcomeFailed, err
		}

		log.Error(err)
		c.Display.Error(err)
		retry, perr := c.Prompter.Confirm("Do you want to retry?", true)
		if perr != nil {
			s.Reset()
			s.Source = nil
			return lo.Ternary(errors.Is(perr, prompt.ErrInterrupted), OutcomeInterrupted, OutcomeFailed), perr
		}
		if !retry {
			c.Display.Canceled()
			return OutcomeCanceled, nil
		}

		log.Infof("session %s: retrying setup", s.ID)
		s.Reset()
	}
}

// interrupted reports whether err comes from the operator aborting,
// either at a prompt or by canceling ctx while a step was running.
func interrupted(ctx context.Context, err error) bool {
	return errors.Is(err, prompt.ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		ctx.Err() != nil
}

// Setup performs the steps in order, stopping at the first failure.
func (c *Controller) Setup(ctx context.Context, s *Session) error {
	steps := []struct {
		name string
		run  func(context.Context, *Session) error
	}{
		{"bind source", c.bind},
		{"login", c.login},
		{"fetch novel", c.fetchNovel},
		{"output path", c.outputPath},
		{"select chapters", c.selectChapters},
		{"output formats", c.outputFormats},
		{"pack by volume", c.packByVolume},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.run(ctx, s); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	log.Infof("session %s ready: %d chapters of %s", s.ID, len(s.Chapters), s.Novel.Title)
	return nil
}

func (c *Controller) bind(_ context.Context, s *Session) error {
	if !s.SearchMode {
		if s.Source == nil {
			src, err := c.Binder.Prepare(s.Input)
			if err != nil {
				return err
			}
			s.Source = src
		}
		s.NovelURL = s.Input
		s.SourceID = s.Source.ID()
		return nil
	}

	if len(s.Groups) == 0 {
		return fmt.Errorf("no novels found for %q", s.Query)
	}

	i, err := c.Prompter.Select("Which novel?", lo.Map(s.Groups, func(g *search.Group, _ int) string {
		return g.String()
	}), "")
	if err != nil {
		return err
	}
	group := s.Groups[i]

	result := group.Results[0]
	if len(group.Results) > 1 {
		j, err := c.Prompter.Select("Which source?", lo.Map(group.Results, func(r *source.SearchResult, _ int) string {
			return r.String()
		}), "")
		if err != nil {
			return err
		}
		result = group.Results[j]
	}

	if u, err := url.Parse(result.URL); err == nil {
		if reason, ok := c.Rejected.Reason(u.Hostname()); ok {
			return &provider.RejectedError{Host: u.Hostname(), Reason: reason}
		}
	}

	src, err := c.Binder.Prepare(result.URL)
	if err != nil {
		return err
	}

	s.Source = src
	s.SourceID = src.ID()
	s.NovelURL = result.URL
	return nil
}

func (c *Controller) login(_ context.Context, s *Session) error {
	if !s.Source.CanDo(source.CapabilityLogin) {
		return nil
	}

	stored, err := c.Keyring.Load(s.SourceID)
	if err != nil {
		log.Warnf("read credentials of %s: %s", s.SourceID, err)
	}

	creds, ok := stored.Get()
	if !ok {
		if c.Options.Suppress {
			return nil
		}
		yes, err := c.Prompter.Confirm(fmt.Sprintf("Do you want to log in to %s?", s.Source.Name()), false)
		if err != nil || !yes {
			return err
		}

		if creds.Username, err = c.Prompter.Input("Username or email", "", nil, nil); err != nil {
			return err
		}
		if creds.Password, err = c.Prompter.Password("Password"); err != nil {
			return err
		}
	}

	if err := s.Source.Login(creds.Username, creds.Password); err != nil {
		return err
	}

	if !ok {
		if err := c.Keyring.Save(s.SourceID, creds); err != nil {
			log.Warnf("save credentials of %s: %s", s.SourceID, err)
		}
	}
	return nil
}

func (c *Controller) fetchNovel(_ context.Context, s *Session) error {
	novel, err := s.Source.NovelInfo(s.NovelURL)
	if err != nil {
		return err
	}
	if err := novel.Validate(); err != nil {
		return err
	}

	s.Novel = novel
	c.Display.NovelSummary(novel)
	return nil
}

func (c *Controller) outputPath(_ context.Context, s *Session) error {
	path := c.Options.OutputPath
	if path == "" {
		path = filepath.Join(where.Downloads(), s.Novel.Dirname())
		if !c.Options.Suppress {
			answer, err := c.Prompter.Input("Output directory", path, nil, func(in string) error {
				if strings.TrimSpace(in) == "" {
					return errors.New("path must not be empty")
				}
				return nil
			})
			if err != nil {
				return err
			}
			path = strings.TrimSpace(answer)
		}
	}
	s.OutputPath = path
	s.Filename = c.Options.Filename
	s.FilenameOnly = c.Options.FilenameOnly

	entries, err := filesystem.API().ReadDir(path)
	if err != nil || len(entries) == 0 || c.Options.Suppress {
		return nil
	}

	s.Overwrite, err = c.Prompter.Confirm(fmt.Sprintf("%s is not empty. Replace existing files?", path), false)
	return err
}

func (c *Controller) selectChapters(_ context.Context, s *Session) error {
	sel := &selector.Selector{
		Prompter:        c.Prompter,
		Notifier:        c.Display,
		Preset:          c.Options.Preset,
		Suppress:        c.Options.Suppress,
		FirstDefault:    c.Options.FirstDefault,
		LastDefault:     c.Options.LastDefault,
		MaxReselections: c.Options.MaxReselections,
	}

	chapters, err := sel.Select(s.Novel)
	if err != nil {
		return err
	}
	s.Chapters = chapters
	s.Downloaded = nil
	return nil
}

func (c *Controller) outputFormats(_ context.Context, s *Session) error {
	if len(c.Options.Formats) > 0 || c.Options.Suppress {
		formats := lo.Ternary(len(c.Options.Formats) > 0, c.Options.Formats, c.Options.DefaultFormats)
		if _, err := download.ParseFormats(formats); err != nil {
			return err
		}
		s.Formats = formats
		return nil
	}

	defaults := lo.Intersect(download.FormatNames(), c.Options.DefaultFormats)
	picked, err := c.Prompter.MultiSelect("Which output formats?", download.FormatNames(), defaults)
	if err != nil {
		return err
	}
	s.Formats = lo.Map(picked, func(i int, _ int) string { return download.FormatNames()[i] })
	return nil
}

func (c *Controller) packByVolume(_ context.Context, s *Session) error {
	if pack, ok := c.Options.PackByVolume.Get(); ok {
		s.PackByVolume = pack
		return nil
	}
	if c.Options.Suppress {
		s.PackByVolume = c.Options.DefaultPackByVolume
		return nil
	}

	pack, err := c.Prompter.Confirm("Split the output into one file per volume?", c.Options.DefaultPackByVolume)
	if err != nil {
		return err
	}
	s.PackByVolume = pack
	return nil
}
