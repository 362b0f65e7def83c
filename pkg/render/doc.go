// Package render draws a story graph.
//
// # Overview
//
// The editor never talks to a graphics backend directly. Everything it
// paints goes through the [Surface] interface, a handful of primitive
// drawing calls (filled rectangles, discs, polygons, lines, centred text
// and images). [Draw] walks a [story.Graph] and issues those calls:
//
//	c := canvas.New(1280, 720)
//	if err := render.Draw(c, g); err != nil {
//	    log.Warn("some thumbnails could not be drawn", "err", err)
//	}
//	c.EncodePNG(w)
//
// Arrows are drawn first, then the pending arrow gesture, then nodes in
// insertion order so later nodes cover earlier ones.
//
// # Backends
//
//   - [canvas]: a raster [Surface] backed by fogleman/gg
//   - [nodelink]: a Graphviz export of the graph structure (not a Surface)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG produced by [nodelink] with the external
// rsvg-convert tool (from librsvg).
package render
