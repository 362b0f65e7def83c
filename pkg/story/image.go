package story

import (
	"errors"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// Thumbnailer produces the downscaled copy of a scene image that the canvas
// draws. Implementations return the path of the cached thumbnail.
type Thumbnailer interface {
	// Ensure returns the cached thumbnail of src, generating it at size only
	// if no cached file exists yet.
	Ensure(src string, size geom.Size) (string, error)
	// Regenerate rebuilds the thumbnail of src at size unconditionally.
	Regenerate(src string, size geom.Size) (string, error)
}

// ErrNotImage is returned by image operations on nodes that are not scenes.
var ErrNotImage = errors.New("node is not an image node")

// ReplaceImage points the scene at a new image. With a nil thumbnailer only
// the path is recorded. If the thumbnail cannot be produced the error is
// returned and the node is left untouched.
func (n *Node) ReplaceImage(path string, thumbs Thumbnailer) error {
	if n.Kind != KindImage {
		return ErrNotImage
	}
	thumb := ""
	if thumbs != nil {
		t, err := thumbs.Ensure(path, *n.Size)
		if err != nil {
			return err
		}
		thumb = t
	}
	n.Image.Path = path
	n.Image.Thumb = thumb
	return nil
}

// Rescale resizes the scene, regenerating its thumbnail at the new size
// first. A thumbnail failure leaves the node untouched.
func (n *Node) Rescale(size geom.Size, thumbs Thumbnailer) error {
	if n.Kind != KindImage {
		return ErrNotImage
	}
	thumb := n.Image.Thumb
	if thumbs != nil && n.Image.Thumb != "" {
		t, err := thumbs.Regenerate(n.Image.Path, size)
		if err != nil {
			return err
		}
		thumb = t
	}
	*n.Size = size
	n.Image.Thumb = thumb
	n.MoveTo(n.Pos)
	return nil
}

// HasImage reports whether the scene references an image file.
func (n *Node) HasImage() bool { return n.Image != nil && n.Image.Path != "" }
