package story

import (
	"errors"
	"fmt"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// minZoomHeight is the smallest scene height zooming out may produce.
const minZoomHeight = 10

// Zoom rescales the canvas by dy wheel steps of step units each. Scenes keep
// a 16:9 aspect; choices resize their answers to (w, w/3). Every node's
// position is scaled about the origin by the same factor as its width.
//
// A node whose thumbnail cannot be regenerated is skipped and left as it
// was; the failures are joined into the returned error while the remaining
// nodes are still zoomed.
func (g *Graph) Zoom(dy, step float64, thumbs Thumbnailer) error {
	var errs []error
	for _, id := range g.order {
		n := g.nodes[id]
		switch n.Kind {
		case KindImage:
			w := n.Size.W
			x := w + dy*step
			y := x * 9 / 16
			if y < minZoomHeight {
				continue
			}
			if err := n.Rescale(geom.Size{W: x, H: y}, thumbs); err != nil {
				errs = append(errs, fmt.Errorf("node %d: %w", id, err))
				continue
			}
			n.MoveTo(n.Pos.Scale(zoomFactor(w, x)))
		case KindChoice:
			if len(n.Answers) == 0 {
				continue
			}
			w := n.Answers[0].Size.W
			x := w + dy*step
			if x <= 0 {
				continue
			}
			for _, a := range n.Answers {
				a.Size = geom.Size{W: x, H: x / 3}
			}
			n.Size.W = x
			n.MoveTo(n.Pos.Scale(zoomFactor(w, x)))
		case KindCircle, KindVariable:
		default:
			panic(fmt.Sprintf("story: unknown node kind %d", n.Kind))
		}
	}
	return errors.Join(errs...)
}

func zoomFactor(from, to float64) float64 { return (to-from)/100/2 + 1 }
