package thumbnail

import "github.com/matzehuels/novelgraph/pkg/geom"

// NullCache is a no-op cache that never generates thumbnails.
// Useful for playback or when thumbnails should be disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Path always returns "".
func (c *NullCache) Path(src string) string { return "" }

// Ensure returns no thumbnail.
func (c *NullCache) Ensure(src string, size geom.Size) (string, error) { return "", nil }

// Regenerate returns no thumbnail.
func (c *NullCache) Regenerate(src string, size geom.Size) (string, error) { return "", nil }

// Purge does nothing.
func (c *NullCache) Purge() error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
