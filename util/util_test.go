package util

import (
	"testing"

	"github.com/lnget-cli/lnget/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		So(SanitizeFilename("Re:Zero? Vol 1"), ShouldEqual, "Re_Zero_Vol_1")
		So(SanitizeFilename("a__b"), ShouldEqual, "a_b")
		So(SanitizeFilename("-the-end-"), ShouldEqual, "the-end")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "chapter", "chapters"), ShouldEqual, "1 chapter")
		So(Quantify(0, "chapter", "chapters"), ShouldEqual, "0 chapters")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("volume"), ShouldEqual, "Volume")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/sources/royalroad.lua"), ShouldEqual, "royalroad")
		So(FileStem("plain"), ShouldEqual, "plain")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max and Min", t, func() {
		So(Max(3, 9, 4), ShouldEqual, 9)
		So(Min(3, 9, 4), ShouldEqual, 3)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/book/ch", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/book/ch/1.txt", []byte("x"), 0o644), ShouldBeNil)

		So(Delete("/tmp/book"), ShouldBeNil)
		exists, _ := fs.Exists("/tmp/book/ch/1.txt")
		So(exists, ShouldBeFalse)

		So(Delete("/nope"), ShouldNotBeNil)
	})
}
