package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNovel(t *testing.T) {
	Convey("Given a novel", t, func() {
		n := &Novel{
			Title:   "The Dragon King: Vol?",
			Volumes: []*Volume{{ID: 1, Title: "Arrival"}},
			Chapters: []*Chapter{
				{ID: 1, Volume: 1, URL: "u1"},
				{ID: 2, Volume: 2, URL: "u2", Title: "Two"},
			},
		}

		Convey("Dirname is file-safe", func() {
			So(n.Dirname(), ShouldEqual, "The_Dragon_King_Vol")
		})

		Convey("Validate adds volumes only chapters mention", func() {
			So(n.Validate(), ShouldBeNil)
			So(n.Volumes, ShouldHaveLength, 2)

			v, ok := n.VolumeOf(n.Chapters[1])
			So(ok, ShouldBeTrue)
			So(v.String(), ShouldEqual, "Volume 2")
		})

		Convey("Validate rejects duplicate chapter ids", func() {
			n.Chapters = append(n.Chapters, &Chapter{ID: 2})
			So(n.Validate(), ShouldNotBeNil)
		})

		Convey("Chapters fall back to their id for display", func() {
			So(n.Chapters[0].String(), ShouldEqual, "Chapter 1")
			So(n.Chapters[1].String(), ShouldEqual, "Two")
		})
	})
}

func TestSearchResult(t *testing.T) {
	Convey("SearchResult renders its info when present", t, func() {
		r := &SearchResult{URL: "https://a.example/n"}
		So(r.String(), ShouldEqual, "https://a.example/n")
		r.Info = "120 chapters"
		So(r.String(), ShouldEqual, "https://a.example/n (120 chapters)")
	})
}
