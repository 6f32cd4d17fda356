package assets

import (
	"strconv"
	"time"
)

// VersionSource records where a version token came from.
type VersionSource string

const (
	SourcePrimary   VersionSource = PrimaryManifest
	SourceSecondary VersionSource = SecondaryManifest
	SourceModTime   VersionSource = "mtime"
)

// ModTimeToken formats a modification time as a version token (Unix seconds).
// It is only meaningful on the host that produced it.
func ModTimeToken(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// versionToken picks the cache-busting token for a resolved file.
func versionToken(ms Manifests, modTime time.Time) (string, VersionSource) {
	if v, src, ok := ms.Version(); ok {
		return v, src
	}
	return ModTimeToken(modTime), SourceModTime
}
