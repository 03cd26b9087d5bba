package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/where"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Given two versions", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"1.0.0", "1.0.0", 0},
			{"v1.2.0", "1.1.9", 1},
			{"0.3.0", "0.10.0", -1},
			{"1.2", "1.2.0", 0},
			{"1.0.0-rc1", "1.0.0", -1},
			{"1.0.0-rc2", "1.0.0-rc1", 1},
		}

		for _, c := range cases {
			Convey(c.a+" against "+c.b, func() {
				got, err := Compare(c.a, c.b)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, c.want)
			})
		}

		Convey("Malformed versions are errors", func() {
			_, err := Compare("one.two", "1.0.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("1.0.0", "1.2.3.4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release endpoint", t, func() {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			_, _ = w.Write([]byte(`{"tag_name": "v0.4.1"}`))
		}))
		defer server.Close()

		previous := ReleasesURL
		ReleasesURL = server.URL
		defer func() { ReleasesURL = previous }()

		_ = filesystem.API().Remove(filepath.Join(where.Cache(), "version.json"))

		Convey("The tag is returned without its prefix and cached", func() {
			ver, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(ver, ShouldEqual, "0.4.1")

			ver, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(ver, ShouldEqual, "0.4.1")
			So(requests, ShouldEqual, 1)
		})
	})
}
