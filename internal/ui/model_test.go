package ui

import (
	"errors"
	"testing"

	"github.com/lnget-cli/lnget/source"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a model for four chapters", t, func() {
		var m Model = newModel("Worm", 4)

		update := func(msg any) {
			next, _ := m.Update(msg)
			m = next.(Model)
		}

		Convey("Finished chapters advance the counter", func() {
			update(doneMsg{chapter: &source.Chapter{ID: 1, Title: "Gestation 1.1"}})
			update(doneMsg{chapter: &source.Chapter{ID: 2}})

			So(m.done, ShouldEqual, 2)
			So(m.percent(), ShouldEqual, 0.5)
			So(m.View(), ShouldContainSubstring, "2/4")
			So(m.View(), ShouldContainSubstring, "Chapter 2")
		})

		Convey("Failures show a notification until it is cleared", func() {
			update(doneMsg{chapter: &source.Chapter{ID: 3}, err: errors.New("timeout")})
			So(m.failed, ShouldEqual, 1)
			So(m.View(), ShouldContainSubstring, "Chapter 3 failed")

			update(clearNotificationMsg{})
			So(m.View(), ShouldNotContainSubstring, "failed")
		})
	})

	Convey("An empty download is complete", t, func() {
		So(newModel("Empty", 0).percent(), ShouldEqual, 1)
	})
}
