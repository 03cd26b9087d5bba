package selector

import (
	"errors"
	"testing"

	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/prompt/prompttest"
	"github.com/lnget-cli/lnget/source"
	. "github.com/smartystreets/goconvey/convey"
)

type counter struct{ shown []int }

func (c *counter) Selected(n int) { c.shown = append(c.shown, n) }

func novel(n int) *source.Novel {
	nv := &source.Novel{Title: "Test", Chapters: chapters(n)}
	So(nv.Validate(), ShouldBeNil)
	return nv
}

// mode answers the mode prompt.
func mode(m Mode) prompttest.Answer {
	for i, candidate := range Modes {
		if candidate == m {
			return prompttest.Pick(i)
		}
	}
	panic("unknown mode " + m)
}

var (
	keep   = prompttest.Pick(0)
	change = prompttest.Pick(1)
)

func newSelector(p prompt.Prompter, c *counter) *Selector {
	return &Selector{
		Prompter:        p,
		Notifier:        c,
		FirstDefault:    10,
		LastDefault:     10,
		MaxReselections: 2,
	}
}

func TestSelector(t *testing.T) {
	Convey("Given a novel with 25 chapters", t, func() {
		nv := novel(25)
		shown := &counter{}

		Convey("Choosing first with the default count and continuing", func() {
			p := prompttest.New(mode(First), prompttest.Type(""), keep)
			got, err := newSelector(p, shown).Select(nv)

			So(err, ShouldBeNil)
			So(got, ShouldResemble, nv.Chapters[:10])
			So(shown.shown, ShouldResemble, []int{10})
			So(p.Remaining(), ShouldEqual, 0)
		})

		Convey("Changing the selection asks again from the mode", func() {
			p := prompttest.New(
				mode(All), change,
				mode(Volumes), prompttest.PickMany(2), keep,
			)
			got, err := newSelector(p, shown).Select(nv)

			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []int{21, 22, 23, 24, 25})
			So(shown.shown, ShouldResemble, []int{25, 5})
		})

		Convey("Chapter numbers are 1-based in the range prompt", func() {
			p := prompttest.New(mode(Range), prompttest.Type("3"), prompttest.Type("5"), keep)
			got, err := newSelector(p, shown).Select(nv)

			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []int{3, 4, 5})
		})

		Convey("Out of range numbers are refused", func() {
			p := prompttest.New(mode(Range), prompttest.Type("0"))
			_, err := newSelector(p, shown).Select(nv)
			So(err, ShouldNotBeNil)
		})

		Convey("Specific chapters and urls can be picked", func() {
			p := prompttest.New(
				mode(Chapters), prompttest.PickMany(0, 24), change,
				mode(Page), prompttest.Type(nv.Chapters[3].URL), prompttest.Type(""), keep,
			)
			got, err := newSelector(p, shown).Select(nv)

			So(err, ShouldBeNil)
			So(got, ShouldResemble, nv.Chapters[3:])
			So(shown.shown, ShouldResemble, []int{2, 22})
		})

		Convey("A preset skips the mode prompt in the first round only", func() {
			sel := newSelector(prompttest.New(change, mode(Last), prompttest.Type("2"), keep), shown)
			sel.Preset = &Request{Mode: First}
			got, err := sel.Select(nv)

			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []int{24, 25})
			So(shown.shown, ShouldResemble, []int{10, 2})
		})

		Convey("Suppress returns the first selection unconfirmed", func() {
			p := prompttest.New(mode(Last), prompttest.Type("4"))
			sel := newSelector(p, shown)
			sel.Suppress = true
			got, err := sel.Select(nv)

			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []int{22, 23, 24, 25})
			So(shown.shown, ShouldBeEmpty)
		})

		Convey("Changing the selection too often fails", func() {
			p := prompttest.New(
				mode(All), change,
				mode(All), change,
				mode(All), change,
			)
			_, err := newSelector(p, shown).Select(nv)

			So(errors.Is(err, ErrTooManyReselections), ShouldBeTrue)
			So(p.Remaining(), ShouldEqual, 0)
		})

		Convey("An empty selection fails without confirmation", func() {
			p := prompttest.New(mode(Chapters), prompttest.PickMany())
			_, err := newSelector(p, shown).Select(nv)

			So(errors.Is(err, ErrNoChapters), ShouldBeTrue)
			So(shown.shown, ShouldBeEmpty)
		})

		Convey("Interrupts are passed through", func() {
			p := prompttest.New(prompttest.Interrupt)
			_, err := newSelector(p, shown).Select(nv)

			So(errors.Is(err, prompt.ErrInterrupted), ShouldBeTrue)
		})
	})

	Convey("A novel without chapters has nothing to select", t, func() {
		_, err := newSelector(prompttest.New(), &counter{}).Select(&source.Novel{})
		So(errors.Is(err, ErrNoChapters), ShouldBeTrue)
	})
}
