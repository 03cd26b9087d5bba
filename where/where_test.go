package where

import (
	"path/filepath"
	"testing"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Directory resolvers create what they return", t, func() {
		for _, dir := range []func() string{Config, Cache, Logs, Sources, Temp} {
			path := dir()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		}
	})

	Convey("File resolvers live under their directories", t, func() {
		So(filepath.Dir(Sessions()), ShouldEqual, Config())
		So(filepath.Dir(Queries()), ShouldEqual, Cache())
	})

	Convey("Downloads honours output.path", t, func() {
		viper.Set(key.OutputPath, "/books")
		defer viper.Set(key.OutputPath, "")

		So(Downloads(), ShouldEqual, "/books")
		So(lo.Must(filesystem.API().IsDir("/books")), ShouldBeTrue)
	})
}
