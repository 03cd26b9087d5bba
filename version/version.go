// Package version checks whether a newer lnget release is out.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/network"
	"github.com/lnget-cli/lnget/util"
	"github.com/lnget-cli/lnget/where"
	"github.com/metafates/gache"
)

// ReleasesURL is the endpoint describing the latest release.
var ReleasesURL = "https://api.github.com/repos/lnget-cli/lnget/releases/latest"

func cacher() *gache.Cache[string] {
	return gache.New[string](&gache.Options{
		Path:       filepath.Join(where.Cache(), "version.json"),
		Lifetime:   time.Hour * 24 * 2,
		FileSystem: &filesystem.GacheFs{},
	})
}

// Latest returns the newest released version without the "v" prefix.
// The answer is cached for two days.
func Latest(ctx context.Context) (string, error) {
	c := cacher()
	if ver, expired, err := c.Get(); err == nil && !expired && ver != "" {
		return ver, nil
	}

	body, err := network.Get(ctx, ReleasesURL)
	if err != nil {
		return "", err
	}
	defer util.Ignore(body.Close)

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	ver := strings.TrimPrefix(release.TagName, "v")
	_ = c.Set(ver)
	return ver, nil
}
