package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/source"
	"github.com/samber/lo"
)

// Notifier shows the size of a selection before it is confirmed.
type Notifier interface {
	Selected(n int)
}

// Selector asks the operator which chapters to download.
type Selector struct {
	Prompter prompt.Prompter
	Notifier Notifier

	// Preset, when set, is used instead of asking in the first round only.
	Preset *Request

	// Suppress skips the confirmation.
	Suppress bool

	// FirstDefault and LastDefault are offered for First and Last.
	FirstDefault, LastDefault int

	// MaxReselections caps how often "Change selection" may be chosen.
	MaxReselections int
}

var modeLabels = map[Mode]string{
	All:      "Everything",
	First:    "First few chapters",
	Last:     "Last few chapters",
	Page:     "Custom range using URL",
	Range:    "Custom range using chapter numbers",
	Volumes:  "Select specific volumes",
	Chapters: "Select specific chapters",
}

const (
	choiceContinue = "Continue"
	choiceChange   = "Change selection"
)

// Select runs selection rounds until the operator accepts one.
func (s *Selector) Select(novel *source.Novel) ([]*source.Chapter, error) {
	if len(novel.Chapters) == 0 {
		return nil, ErrNoChapters
	}

	for round := 0; ; round++ {
		if round > s.MaxReselections {
			return nil, fmt.Errorf("%w (%d)", ErrTooManyReselections, s.MaxReselections)
		}

		req, err := s.request(novel, round)
		if err != nil {
			return nil, err
		}

		selected, err := Apply(novel.Chapters, req)
		if err != nil {
			return nil, err
		}
		log.Infof("selected %d of %d chapters with %s", len(selected), len(novel.Chapters), req.Mode)

		if s.Suppress {
			return selected, nil
		}

		if s.Notifier != nil {
			s.Notifier.Selected(len(selected))
		}
		choice, err := s.Prompter.Select(
			fmt.Sprintf("%d chapters selected", len(selected)),
			[]string{choiceContinue, choiceChange},
			choiceContinue,
		)
		if err != nil {
			return nil, err
		}
		if choice == 0 {
			return selected, nil
		}
	}
}

func (s *Selector) request(novel *source.Novel, round int) (Request, error) {
	if round == 0 && s.Preset != nil {
		req := *s.Preset
		switch {
		case req.Mode == First && req.N <= 0:
			req.N = s.FirstDefault
		case req.Mode == Last && req.N <= 0:
			req.N = s.LastDefault
		}
		return req, nil
	}
	return s.ask(novel)
}

func (s *Selector) ask(novel *source.Novel) (Request, error) {
	labels := lo.Map(Modes, func(m Mode, _ int) string { return modeLabels[m] })
	i, err := s.Prompter.Select("Which chapters to download?", labels, labels[0])
	if err != nil {
		return Request{}, err
	}

	req := Request{Mode: Modes[i]}
	total := len(novel.Chapters)

	switch req.Mode {
	case First:
		req.N, err = s.askNumber("How many chapters from the start?", s.FirstDefault, 1, total)
	case Last:
		req.N, err = s.askNumber("How many chapters from the end?", s.LastDefault, 1, total)
	case Page:
		req.StartURL, req.EndURL, err = s.askURLs(novel.Chapters)
	case Range:
		var start, end int
		start, err = s.askNumber(fmt.Sprintf("Start chapter (1 to %d)", total), 1, 1, total)
		if err != nil {
			return req, err
		}
		end, err = s.askNumber(fmt.Sprintf("End chapter (%d to %d)", start, total), total, start, total)
		req.Start, req.End = start-1, end-1
	case Volumes:
		req.Volumes, err = s.askVolumes(novel)
	case Chapters:
		req.Chapters, err = s.askChapters(novel.Chapters)
	}

	return req, err
}

func (s *Selector) askNumber(message string, def, low, high int) (int, error) {
	def = min(max(def, low), high)
	answer, err := s.Prompter.Input(message, strconv.Itoa(def), nil, func(in string) error {
		n, err := strconv.Atoi(strings.TrimSpace(in))
		if err != nil {
			return fmt.Errorf("not a number: %s", in)
		}
		if n < low || n > high {
			return fmt.Errorf("must be between %d and %d", low, high)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(answer))
}

func (s *Selector) askURLs(chapters []*source.Chapter) (string, string, error) {
	urls := lo.Map(chapters, func(c *source.Chapter, _ int) string { return c.URL })
	known := lo.Keyify(urls)

	suggest := func(in string) []string {
		return lo.Filter(urls, func(u string, _ int) bool { return strings.Contains(u, in) })
	}
	validate := func(in string) error {
		if _, ok := known[strings.TrimSpace(in)]; !ok {
			return fmt.Errorf("no chapter with url %s", in)
		}
		return nil
	}

	start, err := s.Prompter.Input("Start chapter URL", urls[0], suggest, validate)
	if err != nil {
		return "", "", err
	}
	end, err := s.Prompter.Input("End chapter URL", urls[len(urls)-1], suggest, validate)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(start), strings.TrimSpace(end), nil
}

func (s *Selector) askVolumes(novel *source.Novel) ([]int, error) {
	counts := lo.CountValuesBy(novel.Chapters, func(c *source.Chapter) int { return c.Volume })
	options := lo.Map(novel.Volumes, func(v *source.Volume, _ int) string {
		return fmt.Sprintf("%s (%d chapters)", v, counts[v.ID])
	})

	picked, err := s.Prompter.MultiSelect("Which volumes to download?", options, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(picked, func(i int, _ int) int { return novel.Volumes[i].ID }), nil
}

func (s *Selector) askChapters(chapters []*source.Chapter) ([]int, error) {
	options := lo.Map(chapters, func(c *source.Chapter, _ int) string {
		return fmt.Sprintf("%d. %s", c.ID, c)
	})

	picked, err := s.Prompter.MultiSelect("Which chapters to download?", options, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(picked, func(i int, _ int) int { return chapters[i].ID }), nil
}
