package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lnget-cli/lnget/auth"
	"github.com/lnget-cli/lnget/display"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/prompt/prompttest"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/selector"
	"github.com/lnget-cli/lnget/session"
	"github.com/lnget-cli/lnget/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type novelSource struct {
	id      string
	host    string
	titles  []string
	created int
	bodies  int
}

func (s *novelSource) Name() string               { return s.id }
func (s *novelSource) ID() string                 { return s.id }
func (s *novelSource) CanDo(c string) bool        { return c == source.CapabilitySearch }
func (s *novelSource) Login(string, string) error { return nil }

func (s *novelSource) Search(q string) ([]*source.SearchResult, error) {
	var out []*source.SearchResult
	for i, t := range s.titles {
		out = append(out, &source.SearchResult{Title: t, URL: fmt.Sprintf("%snovel/%d", s.host, i)})
	}
	return out, nil
}

func (s *novelSource) NovelInfo(url string) (*source.Novel, error) {
	n := &source.Novel{Title: "Dragon King", URL: url}
	for i := 1; i <= 12; i++ {
		n.Chapters = append(n.Chapters, &source.Chapter{ID: i, Volume: 1, URL: fmt.Sprintf("%s/%d", url, i)})
	}
	return n, nil
}

func (s *novelSource) ChapterBody(c *source.Chapter) (string, error) {
	s.bodies++
	return fmt.Sprintf("<p>%d</p>", c.ID), nil
}

func providerFor(src *novelSource, searchable bool) *provider.Provider {
	return &provider.Provider{
		ID:         src.id,
		Name:       src.id,
		Hosts:      []string{src.host},
		Searchable: searchable,
		CreateSource: func() (source.Source, error) {
			src.created++
			return src, nil
		},
	}
}

type titleGuesser struct{}

func (titleGuesser) Title(context.Context, string) string { return "Dragon King" }

type noKeyring struct{}

func (noKeyring) Load(string) (mo.Option[auth.Credentials], error) { return mo.None[auth.Credentials](), nil }
func (noKeyring) Save(string, auth.Credentials) error              { return nil }

func TestConsole(t *testing.T) {
	Convey("Given a console with two searchable sources and the aggregator", t, func() {
		filesystem.SetMemMapFs()

		alpha := &novelSource{id: "alpha", host: "https://alpha.example/", titles: []string{"Dragon King", "Dragon Queen"}}
		beta := &novelSource{id: "beta", host: "https://beta.example/", titles: []string{"Dragon King"}}
		updates := &novelSource{id: "updates", host: "https://www.novelupdates.com/", titles: []string{"Dragon King"}}
		registry, err := provider.NewRegistry(providerFor(alpha, true), providerFor(beta, true), providerFor(updates, false))
		So(err, ShouldBeNil)

		var out bytes.Buffer
		p := prompttest.New()
		c := &Console{
			Registry: registry,
			Prompter: p,
			Display:  display.New(&out),
			Guesser:  titleGuesser{},
			Keyring:  noKeyring{},
		}

		options := &Options{
			Aggregator:        "https://www.novelupdates.com/",
			Rejected:          []string{"example.com=DMCA takedown"},
			SearchConcurrency: 2,
			DownloadWorkers:   2,
			Session: session.Options{
				OutputPath:      "/out",
				Formats:         []string{"text"},
				PackByVolume:    mo.Some(false),
				Suppress:        true,
				Preset:          &selector.Request{Mode: selector.First},
				FirstDefault:    10,
				LastDefault:     10,
				MaxReselections: 3,
			},
		}
		ctx := context.Background()

		saved := func() []*session.Session {
			list, err := session.List()
			So(err, ShouldBeNil)
			return list
		}

		Convey("Listing sources creates no session", func() {
			options.ListSources = true
			options.Resume = true
			So(c.Run(ctx, options), ShouldBeNil)

			So(out.String(), ShouldContainSubstring, "alpha")
			So(out.String(), ShouldContainSubstring, "https://beta.example/")
			So(saved(), ShouldBeEmpty)
			So(alpha.created+beta.created+updates.created, ShouldEqual, 0)
			So(p.Asked, ShouldBeEmpty)
		})

		Convey("A rejected URL fails with its reason and touches nothing", func() {
			options.Input = "https://example.com/novel/abc"
			err := c.Run(ctx, options)

			var rejected *provider.RejectedError
			So(errors.As(err, &rejected), ShouldBeTrue)
			So(rejected.Reason, ShouldEqual, "DMCA takedown")
			So(alpha.created+beta.created+updates.created, ShouldEqual, 0)
			So(p.Asked, ShouldBeEmpty)
			So(saved(), ShouldBeEmpty)
		})

		Convey("A known URL is downloaded directly", func() {
			options.Input = "https://beta.example/novel/0"
			So(c.Run(ctx, options), ShouldBeNil)

			So(p.Asked, ShouldBeEmpty)
			So(beta.bodies, ShouldEqual, 10)
			text, err := filesystem.API().ReadFile(filepath.Join("/out", "text", "Dragon_King.txt"))
			So(err, ShouldBeNil)
			So(string(text), ShouldContainSubstring, "Chapter 10")

			list := saved()
			So(list, ShouldHaveLength, 1)
			So(list[0].Completed, ShouldBeTrue)
			So(list[0].Downloaded, ShouldHaveLength, 10)
			So(out.String(), ShouldContainSubstring, "Download complete")
		})

		Convey("The written book is opened when asked", func() {
			var opened []string
			c.Open = func(path, app string) error {
				opened = append(opened, path+"|"+app)
				return nil
			}
			options.Input = "https://beta.example/novel/0"
			options.OpenWhenDone = true
			options.OpenWith = "foliate"
			So(c.Run(ctx, options), ShouldBeNil)

			So(opened, ShouldResemble, []string{filepath.Join("/out", "text", "Dragon_King.txt") + "|foliate"})
		})

		Convey("A query searches the chosen sources", func() {
			options.Input = "dragon king"
			p.Answers = []prompttest.Answer{
				prompttest.PickMany(0, 1),
				prompttest.Pick(0),
				prompttest.Pick(1),
			}
			So(c.Run(ctx, options), ShouldBeNil)

			So(p.Asked[0], ShouldEqual, "Where to search?")
			So(beta.bodies, ShouldEqual, 10)
			So(alpha.bodies, ShouldEqual, 0)
			So(saved()[0].Candidates, ShouldResemble, []string{"https://alpha.example/", "https://beta.example/"})
		})

		Convey("Configured sources skip the source prompt", func() {
			options.Input = "dragon king"
			options.Sources = []string{"alpha"}
			p.Answers = []prompttest.Answer{prompttest.Pick(0)}
			So(c.Run(ctx, options), ShouldBeNil)

			So(p.Asked, ShouldHaveLength, 1)
			So(alpha.bodies, ShouldEqual, 10)
		})

		Convey("An unknown URL is searched on the aggregator", func() {
			options.Input = "https://unknown.example/dragon-king"
			p.Answers = []prompttest.Answer{prompttest.Type(""), prompttest.Pick(0)}
			So(c.Run(ctx, options), ShouldBeNil)

			So(out.String(), ShouldContainSubstring, "Source not recognized")
			So(updates.bodies, ShouldEqual, 10)
			So(saved()[0].Query, ShouldEqual, "Dragon King")
		})

		Convey("Declining a retry ends quietly without saving", func() {
			options.Input = "dragon king"
			options.Sources = []string{"alpha"}
			options.Session.Preset = &selector.Request{Mode: selector.Page, StartURL: "nowhere", EndURL: "nowhere"}
			p.Answers = []prompttest.Answer{prompttest.Pick(0), prompttest.No}

			So(c.Run(ctx, options), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, "Canceled by user")
			So(saved(), ShouldBeEmpty)
		})

		Convey("An interrupted prompt aborts without saving", func() {
			p.Answers = []prompttest.Answer{prompttest.Interrupt}
			So(c.Run(ctx, options), ShouldNotBeNil)
			So(saved(), ShouldBeEmpty)
		})

		Convey("A saved session resumes without resolving", func() {
			s := session.New("https://beta.example/novel/0")
			s.NovelURL = "https://beta.example/novel/0"
			s.Novel, _ = beta.NovelInfo(s.NovelURL)
			s.Chapters = s.Novel.Chapters[:4]
			s.Formats = []string{"json"}
			s.OutputPath = "/resumed"
			So(session.Save(s), ShouldBeNil)

			options.Resume = true
			options.Input = "https://example.com/novel/abc"
			So(c.Run(ctx, options), ShouldBeNil)

			So(p.Asked, ShouldBeEmpty)
			So(beta.bodies, ShouldEqual, 4)
			exists, err := filesystem.API().Exists(filepath.Join("/resumed", "json", "Dragon_King.json"))
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
			So(saved()[0].Completed, ShouldBeTrue)

			Convey("Nothing is left to resume afterwards", func() {
				So(c.Run(ctx, options), ShouldNotBeNil)
			})
		})
	})
}
