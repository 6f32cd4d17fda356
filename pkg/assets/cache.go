package assets

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedManifests struct {
	dirModTime time.Time
	manifests  Manifests
}

// manifestCache is a read-through cache of parsed manifests keyed by component.
type manifestCache struct {
	entries *lru.Cache[string, cachedManifests]
}

func newManifestCache(size int) *manifestCache {
	if size <= 0 {
		return nil
	}
	entries, err := lru.New[string, cachedManifests](size)
	if err != nil {
		return nil
	}
	return &manifestCache{entries: entries}
}

func (c *manifestCache) get(component string, dirModTime time.Time) (Manifests, bool) {
	e, ok := c.entries.Get(component)
	if !ok || !e.dirModTime.Equal(dirModTime) {
		return Manifests{}, false
	}
	return e.manifests, true
}

func (c *manifestCache) put(component string, dirModTime time.Time, ms Manifests) {
	c.entries.Add(component, cachedManifests{dirModTime: dirModTime, manifests: ms})
}

// Len returns the number of cached components.
func (c *manifestCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
