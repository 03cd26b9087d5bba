// Package display prints the notices shown around the interactive setup.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/style"
	"github.com/lnget-cli/lnget/util"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
)

const defaultWidth = 80

// Display writes notices to w, wrapped to Width columns.
type Display struct {
	w     io.Writer
	Width int
}

// New returns a display wrapping to the terminal width, or 80 columns when
// w is not a terminal.
func New(w io.Writer) *Display {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		width = defaultWidth
	}
	return &Display{w: w, Width: util.Min(width, 100)}
}

func (d *Display) println(s string) {
	_, _ = fmt.Fprintln(d.w, s)
}

func (d *Display) paragraph(s string) {
	d.println(wordwrap.String(s, d.Width))
}

func (d *Display) notice(i icon.Icon, title, body string) {
	d.println(icon.Get(i) + " " + style.Bold(title))
	if body != "" {
		d.println(indent.String(wordwrap.String(body, d.Width-2), 2))
	}
}

// URLRejected explains why a host will not be scraped.
func (d *Display) URLRejected(host, reason string) {
	d.notice(icon.Fail, style.Fg(color.Red)("Source is rejected"),
		fmt.Sprintf("%s is not supported: %s", host, reason))
}

// URLNotRecognized tells the operator no source handles the URL.
func (d *Display) URLNotRecognized(url string) {
	d.notice(icon.Warn, style.Fg(color.Yellow)("Source not recognized"),
		fmt.Sprintf("No source is registered for %s. Add a Lua source for it with `sources gen`.", url))
}

// AggregatorFallback announces the search on the aggregator site.
func (d *Display) AggregatorFallback(aggregator string) {
	d.notice(icon.Search, "Searching by title instead",
		fmt.Sprintf("The novel will be looked up on %s. Confirm or correct the guessed title.", aggregator))
}

// NovelSummary prints the fetched metadata.
func (d *Display) NovelSummary(novel *source.Novel) {
	d.println("")
	d.println(style.Title(novel.Title))
	if novel.Author != "" {
		d.println(style.Faint("by " + novel.Author))
	}

	d.println(fmt.Sprintf("%s %s, %s",
		icon.Get(icon.Book),
		util.Quantify(len(novel.Volumes), "volume", "volumes"),
		util.Quantify(len(novel.Chapters), "chapter", "chapters"),
	))
	d.println(style.Fg(color.Blue)(novel.URL))

	if novel.Synopsis != "" {
		d.println("")
		d.paragraph(style.Italic(strings.TrimSpace(novel.Synopsis)))
	}
	d.println("")
}

// Selected prints how many chapters the current selection holds.
func (d *Display) Selected(n int) {
	d.println(fmt.Sprintf("%s %s selected", icon.Get(icon.Book), util.Quantify(n, "chapter", "chapters")))
}

// SourcesList prints the registry in registration order.
func (d *Display) SourcesList(r *provider.Registry) {
	if len(r.Providers()) == 0 {
		d.notice(icon.Warn, "No sources installed",
			"Create one with `sources gen` and edit the generated Lua script.")
		return
	}

	for _, p := range r.Providers() {
		tags := []string{}
		if p.Searchable {
			tags = append(tags, "search")
		}
		if p.IsCustom {
			tags = append(tags, "custom")
		}

		d.println(fmt.Sprintf("%s %s %s", icon.Get(icon.Lua), style.Bold(p.Name), style.Faint(strings.Join(tags, ", "))))
		for _, h := range p.Hosts {
			d.println("  " + style.Fg(color.Blue)(h))
		}
	}
}

// Canceled is shown when the operator declines to retry.
func (d *Display) Canceled() {
	d.notice(icon.Warn, "Canceled by user", "")
}

// Complete is shown after a download finished.
func (d *Display) Complete(novel *source.Novel, chapters int, files []string) {
	d.notice(icon.Success, style.Fg(color.Green)("Download complete"),
		fmt.Sprintf("%s of %s saved.", util.Quantify(chapters, "chapter", "chapters"), novel.Title))
	for _, f := range lo.Uniq(files) {
		d.println("  " + f)
	}
}

// Failed reports chapters that could not be fetched.
func (d *Display) Failed(failed int) {
	if failed == 0 {
		return
	}
	d.notice(icon.Warn, style.Fg(color.Yellow)("Some chapters failed"),
		util.Quantify(failed, "chapter was", "chapters were")+" skipped. See the log for details.")
}

// Error reports a failed setup attempt.
func (d *Display) Error(err error) {
	d.notice(icon.Fail, style.Fg(color.Red)("Something went wrong"), strings.TrimSpace(err.Error()))
}
