// Package where resolves the directories and files lnget keeps on disk.
package where

import (
	"os"
	"path/filepath"

	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "LNGET_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory, honouring LNGET_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}

	return mkdir(filepath.Join(lo.Must(os.UserConfigDir()), constant.Lnget))
}

// Cache is the directory for source response caches.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return mkdir(filepath.Join(base, constant.Lnget))
}

// Logs is the directory for daily log files.
func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Sources is the directory scanned for Lua scrapers.
func Sources() string {
	return mkdir(filepath.Join(Config(), "sources"))
}

// Sessions is the file holding resumable download sessions.
func Sessions() string {
	return filepath.Join(Config(), "sessions.json")
}

// Queries is the file holding remembered search queries.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Downloads is the root directory novels are written to.
// The output.path setting takes precedence over the home directory default.
func Downloads() string {
	if path := viper.GetString(key.OutputPath); path != "" {
		return mkdir(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return mkdir(filepath.Join(home, "Lightnovels"))
}

// Temp is a scratch directory for partially written books.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.Lnget))
}
