package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/prompt/prompttest"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/source"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSource struct{ source.Source }

type fakeBinder struct {
	links    []string
	known    map[string]source.Source
	failWith error
	prepared []string
}

func (b *fakeBinder) Prepare(rawURL string) (source.Source, error) {
	b.prepared = append(b.prepared, rawURL)
	if b.failWith != nil {
		return nil, b.failWith
	}
	if s, ok := b.known[rawURL]; ok {
		return s, nil
	}
	return nil, &provider.NotFoundError{URL: rawURL}
}

func (b *fakeBinder) SearchLinks() []string { return b.links }

type fakeGuesser struct{ asked []string }

func (g *fakeGuesser) Title(_ context.Context, rawURL string) string {
	g.asked = append(g.asked, rawURL)
	return "Dragon King"
}

type notices struct{ got []string }

func (n *notices) URLRejected(host, reason string) { n.got = append(n.got, "rejected "+host+": "+reason) }
func (n *notices) URLNotRecognized(rawURL string)  { n.got = append(n.got, "unknown "+rawURL) }
func (n *notices) AggregatorFallback(agg string)   { n.got = append(n.got, "aggregator "+agg) }

const aggregator = "https://www.novelupdates.com/"

func TestResolve(t *testing.T) {
	Convey("Given a resolver with one known source", t, func() {
		known := &stubSource{}
		binder := &fakeBinder{
			links: []string{"https://a.example/", "https://b.example/"},
			known: map[string]source.Source{"https://a.example/novel/1": known},
		}
		guesser := &fakeGuesser{}
		shown := &notices{}
		p := prompttest.New()

		r := &Resolver{
			Binder:     binder,
			Rejected:   provider.DefaultRejected([]string{"example.com=DMCA takedown"}),
			Guesser:    guesser,
			Prompter:   p,
			Notifier:   shown,
			Aggregator: aggregator,
		}
		ctx := context.Background()

		Convey("A rejected host fails with its reason and binds nothing", func() {
			res, err := r.Resolve(ctx, "https://example.com/novel/abc")

			So(res, ShouldBeNil)
			var rejected *provider.RejectedError
			So(errors.As(err, &rejected), ShouldBeTrue)
			So(rejected.Reason, ShouldEqual, "DMCA takedown")
			So(rejected.Host, ShouldEqual, "example.com")
			So(binder.prepared, ShouldBeEmpty)
			So(p.Asked, ShouldBeEmpty)
			So(shown.got, ShouldResemble, []string{"rejected example.com: DMCA takedown"})
		})

		Convey("Built-in rejections match with or without www", func() {
			_, err := r.Resolve(ctx, "https://webnovel.com/book/1")
			var rejected *provider.RejectedError
			So(errors.As(err, &rejected), ShouldBeTrue)
			So(binder.prepared, ShouldBeEmpty)
		})

		Convey("A text query searches every searchable link without binding", func() {
			res, err := r.Resolve(ctx, "dragon king")

			So(err, ShouldBeNil)
			So(res.Mode, ShouldEqual, Search)
			So(res.Query, ShouldEqual, "dragon king")
			So(res.Candidates, ShouldResemble, binder.links)
			So(res.Source, ShouldBeNil)
			So(binder.prepared, ShouldBeEmpty)
			So(p.Asked, ShouldBeEmpty)
		})

		Convey("A known URL binds directly", func() {
			res, err := r.Resolve(ctx, "  https://a.example/novel/1 ")

			So(err, ShouldBeNil)
			So(res.Mode, ShouldEqual, Direct)
			So(res.Source, ShouldEqual, known)
			So(res.Candidates, ShouldBeEmpty)
			So(shown.got, ShouldBeEmpty)
		})

		Convey("An unknown URL falls back to the aggregator with the confirmed title", func() {
			p.Answers = []prompttest.Answer{prompttest.Type("Dragon King Reborn")}
			res, err := r.Resolve(ctx, "https://unknown.example/novel/dragon-king")

			So(err, ShouldBeNil)
			So(res.Mode, ShouldEqual, Search)
			So(res.Query, ShouldEqual, "Dragon King Reborn")
			So(res.Candidates, ShouldResemble, []string{aggregator})
			So(guesser.asked, ShouldResemble, []string{"https://unknown.example/novel/dragon-king"})
			So(shown.got, ShouldResemble, []string{
				"unknown https://unknown.example/novel/dragon-king",
				"aggregator " + aggregator,
			})
		})

		Convey("The guessed title is kept when the operator accepts it", func() {
			p.Answers = []prompttest.Answer{prompttest.Type("")}
			res, err := r.Resolve(ctx, "https://unknown.example/novel/dragon-king")

			So(err, ShouldBeNil)
			So(res.Query, ShouldEqual, "Dragon King")
		})

		Convey("Other binding failures fall back the same way without the notice", func() {
			binder.failWith = errors.New("lua: syntax error")
			p.Answers = []prompttest.Answer{prompttest.Type("")}
			res, err := r.Resolve(ctx, "https://a.example/novel/1")

			So(err, ShouldBeNil)
			So(res.Mode, ShouldEqual, Search)
			So(res.Candidates, ShouldResemble, []string{aggregator})
			So(shown.got, ShouldResemble, []string{"aggregator " + aggregator})
		})

		Convey("Interrupting the title prompt aborts", func() {
			p.Answers = []prompttest.Answer{prompttest.Interrupt}
			_, err := r.Resolve(ctx, "https://unknown.example/x")

			So(errors.Is(err, prompt.ErrInterrupted), ShouldBeTrue)
		})

		Convey("Empty input is refused", func() {
			_, err := r.Resolve(ctx, "   ")
			So(err, ShouldNotBeNil)
		})
	})
}
