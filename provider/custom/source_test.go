package custom

import (
	"path/filepath"
	"testing"

	"github.com/lnget-cli/lnget/config"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const testScript = `
-- @name Example
-- @url  https://example.com/

function SearchNovels(query)
    return {
        { title = "Result for " .. query, url = "https://example.com/n/1" },
        { title = "", url = "https://example.com/bad" },
    }
end

function NovelInfo(url)
    local chapters = {}
    for i = 1, 5 do
        chapters[i] = { title = "Chapter " .. i, url = url .. "/c/" .. i }
    end
    return { title = "Example Novel", chapters = chapters }
end

function ChapterBody(url)
    return "<p>" .. url .. "</p>"
end
`

func writeScript(name, body string) string {
	path := filepath.Join(where.Sources(), name)
	So(afero.WriteFile(filesystem.API(), path, []byte(body), 0o644), ShouldBeNil)
	return path
}

func TestLuaSource(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		So(config.Setup(), ShouldBeNil)
		viper.Set(key.CacheEnable, false)

		Convey("When a complete script is loaded", func() {
			src, err := LoadSource(writeScript("example.lua", testScript))
			So(err, ShouldBeNil)

			Convey("Then it is identified by its file name", func() {
				So(src.Name(), ShouldEqual, "example")
				So(src.ID(), ShouldEqual, "example custom")
			})

			Convey("Then it can search but not log in", func() {
				So(src.CanDo(source.CapabilitySearch), ShouldBeTrue)
				So(src.CanDo(source.CapabilityLogin), ShouldBeFalse)
				So(src.CanDo("teleport"), ShouldBeFalse)
			})

			Convey("Then malformed search results are skipped", func() {
				results, err := src.Search("worm")
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 1)
				So(results[0].Title, ShouldEqual, "Result for worm")
				So(results[0].Source, ShouldEqual, "example custom")
			})

			Convey("Then novel info carries ordered chapters and a derived volume", func() {
				novel, err := src.NovelInfo("https://example.com/n/1")
				So(err, ShouldBeNil)
				So(novel.Title, ShouldEqual, "Example Novel")
				So(novel.Chapters, ShouldHaveLength, 5)
				So(novel.Chapters[4].URL, ShouldEqual, "https://example.com/n/1/c/5")
				So(novel.Volumes, ShouldHaveLength, 1)

				body, err := src.ChapterBody(novel.Chapters[0])
				So(err, ShouldBeNil)
				So(body, ShouldEqual, "<p>https://example.com/n/1/c/1</p>")
			})

			Convey("Then login reports the missing function", func() {
				So(src.Login("user", "pass"), ShouldNotBeNil)
			})
		})

		Convey("When a script lacks ChapterBody", func() {
			_, err := LoadSource(writeScript("broken.lua", "function NovelInfo(url) return {} end"))

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "ChapterBody")
			})
		})

		Convey("When a script raises while running", func() {
			_, err := LoadSource(writeScript("raises.lua", "error('boom')"))

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
