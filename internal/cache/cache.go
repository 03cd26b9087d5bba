// Package cache persists source responses (search results, novel info) between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
)

type entry[T any] struct {
	Value T `json:"value"`
}

// Key derives a file-safe cache key from a query and the namespace it belongs to.
func Key(query, namespace string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), "")) + "\x00" + namespace
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func open[T any](k string) *gache.Cache[*entry[T]] {
	return gache.New[*entry[T]](&gache.Options{
		Path:       filepath.Join(dir(), k+".json"),
		Lifetime:   time.Duration(viper.GetInt(key.CacheTTL)) * time.Hour,
		FileSystem: &filesystem.GacheFs{},
	})
}

// Read returns the cached value for k when caching is enabled and the entry is fresh.
func Read[T any](k string) (T, bool) {
	var zero T
	if !viper.GetBool(key.CacheEnable) {
		return zero, false
	}

	cached, expired, err := open[T](k).Get()
	if err != nil || expired || cached == nil {
		return zero, false
	}
	return cached.Value, true
}

// Write stores value under k. It is a no-op when caching is disabled.
func Write[T any](k string, value T) error {
	if !viper.GetBool(key.CacheEnable) {
		return nil
	}
	return open[T](k).Set(&entry[T]{Value: value})
}

func dir() string {
	return filepath.Join(where.Cache(), "sources")
}

// CollectGarbage removes cache files older than the configured TTL.
func CollectGarbage() error {
	ttl := time.Duration(viper.GetInt(key.CacheTTL)) * time.Hour
	fs := filesystem.API()

	files, err := fs.ReadDir(dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, f := range files {
		if f.IsDir() || time.Since(f.ModTime()) <= ttl {
			continue
		}
		if err := fs.Remove(filepath.Join(dir(), f.Name())); err != nil {
			return err
		}
	}
	return nil
}
