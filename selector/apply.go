// Package selector narrows a novel's chapters down to the ones to download.
package selector

import (
	"errors"
	"fmt"

	"github.com/lnget-cli/lnget/source"
	"github.com/samber/lo"
)

// Mode is a way of choosing chapters.
type Mode string

const (
	All      Mode = "all"
	First    Mode = "first"
	Last     Mode = "last"
	Page     Mode = "page"
	Range    Mode = "range"
	Volumes  Mode = "volumes"
	Chapters Mode = "chapters"
)

// Modes lists every mode in the order they are offered.
var Modes = []Mode{All, First, Last, Page, Range, Volumes, Chapters}

// DefaultCount is used by First and Last when no positive count is given.
const DefaultCount = 10

var (
	// ErrNoChapters means a selection came out empty.
	ErrNoChapters = errors.New("no chapters selected")

	// ErrTooManyReselections means the operator kept changing the selection past the cap.
	ErrTooManyReselections = errors.New("too many selection changes")
)

// Request is a mode with its parameters. Only the fields of Mode are read.
type Request struct {
	Mode Mode

	// N is the count for First and Last.
	N int

	// StartURL and EndURL bound a Page selection.
	StartURL, EndURL string

	// Start and End are 0-based inclusive positions for Range.
	Start, End int

	// Volumes holds volume ids, Chapters holds chapter ids.
	Volumes  []int
	Chapters []int
}

// Apply returns the chapters picked by req in their original order.
// It never returns an empty slice without ErrNoChapters.
func Apply(chapters []*source.Chapter, req Request) ([]*source.Chapter, error) {
	var (
		selected []*source.Chapter
		err      error
	)

	switch req.Mode {
	case All:
		selected = chapters
	case First:
		selected = chapters[:min(count(req.N), len(chapters))]
	case Last:
		selected = chapters[len(chapters)-min(count(req.N), len(chapters)):]
	case Page:
		selected, err = page(chapters, req.StartURL, req.EndURL)
	case Range:
		selected = between(chapters, req.Start, req.End)
	case Volumes:
		keep := lo.Keyify(req.Volumes)
		selected = lo.Filter(chapters, func(c *source.Chapter, _ int) bool {
			_, ok := keep[c.Volume]
			return ok
		})
	case Chapters:
		keep := lo.Keyify(req.Chapters)
		selected = lo.Filter(chapters, func(c *source.Chapter, _ int) bool {
			_, ok := keep[c.ID]
			return ok
		})
	default:
		return nil, fmt.Errorf("unknown selection mode %q", req.Mode)
	}

	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, ErrNoChapters
	}
	return selected, nil
}

func count(n int) int {
	if n <= 0 {
		return DefaultCount
	}
	return n
}

// between slices [start, end] after clamping both bounds into the sequence.
func between(chapters []*source.Chapter, start, end int) []*source.Chapter {
	start = max(start, 0)
	end = min(end, len(chapters)-1)
	if start > end {
		return nil
	}
	return chapters[start : end+1]
}

func page(chapters []*source.Chapter, startURL, endURL string) ([]*source.Chapter, error) {
	position := func(url string) (int, error) {
		_, i, ok := lo.FindIndexOf(chapters, func(c *source.Chapter) bool { return c.URL == url })
		if !ok {
			return 0, fmt.Errorf("no chapter with url %s", url)
		}
		return i, nil
	}

	start, err := position(startURL)
	if err != nil {
		return nil, err
	}
	end, err := position(endURL)
	if err != nil {
		return nil, err
	}
	return between(chapters, start, end), nil
}
