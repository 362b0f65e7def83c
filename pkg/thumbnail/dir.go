package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
)

// DefaultQuality is the JPEG quality thumbnails are saved with.
const DefaultQuality = 90

// Options configures a DirCache.
type Options struct {
	// Root is the directory relative source paths are resolved against.
	Root string
	// Quality is the JPEG quality (1-100). Zero means DefaultQuality.
	Quality int
	// Logger receives debug output. Nil uses log.Default().
	Logger *log.Logger
}

// DirCache stores thumbnails as JPEG files in a directory.
type DirCache struct {
	dir     string
	root    string
	quality int
	logger  *log.Logger
	temp    bool
}

// NewDirCache creates a thumbnail cache in dir.
// The directory will be created if it doesn't exist.
func NewDirCache(dir string, opts Options) (*DirCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	c := &DirCache{dir: dir, root: opts.Root, quality: opts.Quality, logger: opts.Logger}
	if c.quality <= 0 || c.quality > 100 {
		c.quality = DefaultQuality
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// NewTempCache creates a cache in a fresh temporary directory. Close removes
// the directory with its thumbnails.
func NewTempCache(opts Options) (*DirCache, error) {
	dir, err := os.MkdirTemp("", "novelgraph-thumbs-*")
	if err != nil {
		return nil, err
	}
	c, err := NewDirCache(dir, opts)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	c.temp = true
	return c, nil
}

// Dir returns the cache directory.
func (c *DirCache) Dir() string { return c.dir }

// Path returns <dir>/<source basename up to its first dot>.jpeg.
func (c *DirCache) Path(src string) string {
	name := filepath.Base(src)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return filepath.Join(c.dir, name+".jpeg")
}

// Ensure returns the cached thumbnail of src, generating it at size if it
// does not exist yet.
func (c *DirCache) Ensure(src string, size geom.Size) (string, error) {
	dst := c.Path(src)
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}
	return dst, c.generate(src, dst, size)
}

// Regenerate rebuilds the thumbnail of src at size.
func (c *DirCache) Regenerate(src string, size geom.Size) (string, error) {
	dst := c.Path(src)
	return dst, c.generate(src, dst, size)
}

func (c *DirCache) resolve(src string) string {
	if filepath.IsAbs(src) || c.root == "" {
		return src
	}
	return filepath.Join(c.root, src)
}

func (c *DirCache) generate(src, dst string, size geom.Size) error {
	w, h := pixels(size.W), pixels(size.H)
	path := c.resolve(src)

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeMissingAsset, err, "image %s", src)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeThumbnail, err, "decode %s", src)
	}

	thumb := imaging.Resize(img, w, h, imaging.Lanczos)
	veil := imaging.New(w, h, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	thumb = imaging.Overlay(thumb, veil, image.Pt(0, 0), float64(geom.ThumbOverlay.A)/255)

	if err := c.save(thumb, dst); err != nil {
		return errors.Wrap(errors.ErrCodeThumbnail, err, "save thumbnail of %s", src)
	}
	c.logger.Debug("thumbnail generated", "src", src, "dst", dst, "size", fmt.Sprintf("%dx%d", w, h))
	return nil
}

// save writes the JPEG next to dst and renames it into place.
func (c *DirCache) save(img image.Image, dst string) error {
	f, err := os.CreateTemp(c.dir, ".thumb-*.jpeg")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

func pixels(v float64) int {
	return max(1, int(math.Round(v)))
}

// Purge removes every cached thumbnail. The directory itself is kept.
func (c *DirCache) Purge() error {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close purges the cache. The thumbnails only live as long as a session.
// Temporary caches also remove their directory.
func (c *DirCache) Close() error {
	if c.temp {
		return os.RemoveAll(c.dir)
	}
	return c.Purge()
}

// Ensure DirCache implements Cache.
var _ Cache = (*DirCache)(nil)
