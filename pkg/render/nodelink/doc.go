// Package nodelink exports a story graph as a node-link diagram.
//
// # Overview
//
// Where the editor canvas shows nodes where the author placed them, this
// package hands the structure to Graphviz and lets it lay the story out top
// to bottom. Useful for reviewing the branching of a large story at a glance.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Shapes
//
//   - scenes: rounded boxes filled with the node colour
//   - choices: diamonds; each answer becomes a labelled edge
//   - variables: notes showing the assignment
//   - circles: circles
//
// The initial node is drawn with a double outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
