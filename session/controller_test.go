package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lnget-cli/lnget/auth"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/prompt/prompttest"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/search"
	"github.com/lnget-cli/lnget/selector"
	"github.com/lnget-cli/lnget/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	id       string
	novel    *source.Novel
	infoErrs []error
	canLogin bool
	logins   []string
}

func (f *fakeSource) Name() string                                  { return f.id }
func (f *fakeSource) ID() string                                    { return f.id }
func (f *fakeSource) CanDo(c string) bool                           { return c == source.CapabilityLogin && f.canLogin }
func (f *fakeSource) Search(string) ([]*source.SearchResult, error) { return nil, nil }
func (f *fakeSource) ChapterBody(*source.Chapter) (string, error)   { return "", nil }

func (f *fakeSource) Login(user, pass string) error {
	f.logins = append(f.logins, user+":"+pass)
	return nil
}

func (f *fakeSource) NovelInfo(string) (*source.Novel, error) {
	if len(f.infoErrs) > 0 {
		err := f.infoErrs[0]
		f.infoErrs = f.infoErrs[1:]
		return nil, err
	}
	return f.novel, nil
}

type fakeBinder struct {
	sources  map[string]*fakeSource
	prepared []string
}

func (b *fakeBinder) Prepare(rawURL string) (source.Source, error) {
	b.prepared = append(b.prepared, rawURL)
	if s, ok := b.sources[rawURL]; ok {
		return s, nil
	}
	return nil, &provider.NotFoundError{URL: rawURL}
}

type fakeKeyring map[string]auth.Credentials

func (k fakeKeyring) Load(id string) (mo.Option[auth.Credentials], error) {
	if c, ok := k[id]; ok {
		return mo.Some(c), nil
	}
	return mo.None[auth.Credentials](), nil
}

func (k fakeKeyring) Save(id string, c auth.Credentials) error {
	k[id] = c
	return nil
}

type fakeDisplay struct {
	summaries, canceled, errors int
	selected                    []int
}

func (d *fakeDisplay) NovelSummary(*source.Novel) { d.summaries++ }
func (d *fakeDisplay) Selected(n int)             { d.selected = append(d.selected, n) }
func (d *fakeDisplay) Canceled()                  { d.canceled++ }
func (d *fakeDisplay) Error(error)                { d.errors++ }

func testNovel(n int) *source.Novel {
	novel := &source.Novel{Title: "Dragon King", URL: "https://a.example/dk"}
	for i := 1; i <= n; i++ {
		novel.Chapters = append(novel.Chapters, &source.Chapter{
			ID: i, Volume: 1, URL: fmt.Sprintf("https://a.example/dk/%d", i),
		})
	}
	return novel
}

func TestController(t *testing.T) {
	Convey("Given a controller with non-interactive options", t, func() {
		filesystem.SetMemMapFs()

		direct := &fakeSource{id: "a", novel: testNovel(25)}
		other := &fakeSource{id: "b", novel: testNovel(3)}
		binder := &fakeBinder{sources: map[string]*fakeSource{
			"https://a.example/dk": direct,
			"https://b.example/dk": other,
		}}
		display := &fakeDisplay{}
		keys := fakeKeyring{}
		p := prompttest.New()

		c := &Controller{
			Binder:   binder,
			Rejected: provider.DefaultRejected([]string{"c.example=DMCA takedown"}),
			Keyring:  keys,
			Prompter: p,
			Display:  display,
			Options: Options{
				OutputPath:      "/out",
				Formats:         []string{"json"},
				PackByVolume:    mo.Some(true),
				Suppress:        true,
				Preset:          &selector.Request{Mode: selector.First},
				FirstDefault:    10,
				LastDefault:     10,
				MaxReselections: 3,
			},
		}
		ctx := context.Background()

		searching := func() *Session {
			s := New("dragon king")
			s.SearchMode = true
			s.Query = "dragon king"
			s.Groups = []*search.Group{{Title: "Dragon King", Results: []*source.SearchResult{
				{Title: "Dragon King", URL: "https://a.example/dk", Source: "a"},
				{Title: "Dragon King", URL: "https://b.example/dk", Source: "b"},
				{Title: "Dragon King", URL: "https://c.example/dk", Source: "c"},
			}}}
			return s
		}

		Convey("A direct session is set up without prompts", func() {
			s := New("https://a.example/dk")
			s.Source = direct

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeReady)
			So(s.Chapters, ShouldResemble, direct.novel.Chapters[:10])
			So(s.OutputPath, ShouldEqual, "/out")
			So(s.Formats, ShouldResemble, []string{"json"})
			So(s.PackByVolume, ShouldBeTrue)
			So(s.SourceID, ShouldEqual, "a")
			So(s.NovelURL, ShouldEqual, "https://a.example/dk")
			So(display.summaries, ShouldEqual, 1)
			So(p.Asked, ShouldBeEmpty)
		})

		Convey("A direct session fails at once on a setup error", func() {
			direct.infoErrs = []error{errors.New("timeout")}
			s := New("https://a.example/dk")
			s.Source = direct

			outcome, err := c.Run(ctx, s)
			So(outcome, ShouldEqual, OutcomeFailed)
			So(err.Error(), ShouldContainSubstring, "timeout")
			So(p.Asked, ShouldBeEmpty)
		})

		Convey("A search session lets the operator pick novel and source", func() {
			p.Answers = []prompttest.Answer{prompttest.Pick(0), prompttest.Pick(1)}
			s := searching()

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeReady)
			So(s.Source, ShouldEqual, other)
			So(s.NovelURL, ShouldEqual, "https://b.example/dk")
			So(s.Chapters, ShouldHaveLength, 3)
		})

		Convey("A failed search session is retried when the operator confirms", func() {
			direct.infoErrs = []error{errors.New("timeout")}
			p.Answers = []prompttest.Answer{
				prompttest.Pick(0), prompttest.Pick(0),
				prompttest.Yes,
				prompttest.Pick(0), prompttest.Pick(0),
			}
			s := searching()

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeReady)
			So(s.Chapters, ShouldHaveLength, 10)
			So(display.errors, ShouldEqual, 1)
			So(binder.prepared, ShouldResemble, []string{"https://a.example/dk", "https://a.example/dk"})
			So(p.Remaining(), ShouldEqual, 0)
		})

		Convey("Declining the retry cancels without an error", func() {
			direct.infoErrs = []error{errors.New("timeout")}
			p.Answers = []prompttest.Answer{prompttest.Pick(0), prompttest.Pick(0), prompttest.No}
			s := searching()

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeCanceled)
			So(display.canceled, ShouldEqual, 1)
		})

		Convey("Rejected search results are never retried", func() {
			p.Answers = []prompttest.Answer{prompttest.Pick(0), prompttest.Pick(2)}
			s := searching()

			outcome, err := c.Run(ctx, s)
			So(outcome, ShouldEqual, OutcomeFailed)
			var rejected *provider.RejectedError
			So(errors.As(err, &rejected), ShouldBeTrue)
			So(rejected.Reason, ShouldEqual, "DMCA takedown")
			So(binder.prepared, ShouldBeEmpty)
		})

		Convey("Empty selections are never retried", func() {
			c.Options.Preset = &selector.Request{Mode: selector.Volumes, Volumes: []int{9}}
			p.Answers = []prompttest.Answer{prompttest.Pick(0), prompttest.Pick(0)}

			outcome, err := c.Run(ctx, searching())
			So(outcome, ShouldEqual, OutcomeFailed)
			So(errors.Is(err, selector.ErrNoChapters), ShouldBeTrue)
			So(p.Remaining(), ShouldEqual, 0)
		})

		Convey("An interrupt aborts and drops the binding", func() {
			p.Answers = []prompttest.Answer{prompttest.Pick(0), prompttest.Interrupt}
			s := searching()

			outcome, err := c.Run(ctx, s)
			So(outcome, ShouldEqual, OutcomeInterrupted)
			So(errors.Is(err, prompt.ErrInterrupted), ShouldBeTrue)
			So(s.Source, ShouldBeNil)
			So(s.Chapters, ShouldBeNil)
		})

		Convey("A canceled context aborts a search session without offering a retry", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			p.Answers = []prompttest.Answer{prompttest.Yes}
			s := searching()

			outcome, err := c.Run(canceled, s)
			So(outcome, ShouldEqual, OutcomeInterrupted)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(p.Asked, ShouldBeEmpty)
			So(p.Remaining(), ShouldEqual, 1)
			So(display.errors, ShouldEqual, 0)
			So(s.Source, ShouldBeNil)
		})

		Convey("Canceling while a source call runs aborts a direct session", func() {
			running, cancel := context.WithCancel(ctx)
			defer cancel()
			direct.infoErrs = []error{context.Canceled}
			s := New("https://a.example/dk")
			s.Source = direct

			outcome, err := c.Run(running, s)
			So(outcome, ShouldEqual, OutcomeInterrupted)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(p.Asked, ShouldBeEmpty)
		})

		Convey("Searches without results fail and can be canceled", func() {
			s := searching()
			s.Groups = nil
			p.Answers = []prompttest.Answer{prompttest.No}

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeCanceled)
		})

		Convey("Sources that can log in ask for credentials once", func() {
			direct.canLogin = true
			c.Options.Suppress = false
			c.Options.Preset = &selector.Request{Mode: selector.All}
			p.Answers = []prompttest.Answer{
				prompttest.Yes, prompttest.Type("reader"), prompttest.Type("hunter2"),
				prompttest.Pick(0),
			}
			s := New("https://a.example/dk")
			s.Source = direct

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeReady)
			So(direct.logins, ShouldResemble, []string{"reader:hunter2"})
			So(keys["a"].Username, ShouldEqual, "reader")
			So(display.selected, ShouldResemble, []int{25})

			Convey("Stored credentials are used without asking", func() {
				p.Answers = []prompttest.Answer{prompttest.Pick(0)}
				p.Asked = nil
				s := New("https://a.example/dk")
				s.Source = direct

				_, err := c.Run(ctx, s)
				So(err, ShouldBeNil)
				So(direct.logins, ShouldHaveLength, 2)
				So(p.Asked, ShouldHaveLength, 1)
			})
		})

		Convey("Unset options are asked for", func() {
			c.Options = Options{
				DefaultFormats:  []string{"text"},
				FirstDefault:    10,
				LastDefault:     10,
				MaxReselections: 3,
			}
			p.Answers = []prompttest.Answer{
				prompttest.Type("/novels/dk"),
				prompttest.Pick(2), prompttest.Type("5"), prompttest.Pick(0),
				prompttest.PickMany(0, 2),
				prompttest.No,
			}
			s := New("https://a.example/dk")
			s.Source = direct

			outcome, err := c.Run(ctx, s)
			So(err, ShouldBeNil)
			So(outcome, ShouldEqual, OutcomeReady)
			So(s.OutputPath, ShouldEqual, "/novels/dk")
			So(s.Chapters, ShouldResemble, direct.novel.Chapters[20:])
			So(s.Formats, ShouldResemble, []string{"json", "html"})
			So(s.PackByVolume, ShouldBeFalse)
			So(p.Remaining(), ShouldEqual, 0)
		})
	})
}
