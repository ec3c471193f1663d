// Package fs implements file-backed adapters: the text report writer and a
// resolution cache in front of the reasoning service.
package fs

import (
	"os"
	"path/filepath"
)

const cacheSubdir = "mergeguard"

// CacheDir resolves the resolution cache location. A non-empty dir is used
// as is. Otherwise $XDG_CACHE_HOME/mergeguard, then ~/.cache/mergeguard, then
// a directory under the system temp dir.
func CacheDir(dir string) string {
	if dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, cacheSubdir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".cache", cacheSubdir)
	}
	return filepath.Join(os.TempDir(), cacheSubdir)
}
