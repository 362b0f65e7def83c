package thumbnail

import "github.com/matzehuels/novelgraph/pkg/geom"

// Cache produces thumbnails for scene images.
type Cache interface {
	// Path returns where the thumbnail of src is, or would be, stored.
	Path(src string) string
	// Ensure returns the thumbnail of src, generating it at size only when
	// no cached file exists.
	Ensure(src string, size geom.Size) (string, error)
	// Regenerate rebuilds the thumbnail of src at size.
	Regenerate(src string, size geom.Size) (string, error)
	// Purge removes every cached thumbnail.
	Purge() error
	// Close releases the cache.
	Close() error
}
