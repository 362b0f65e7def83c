package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/render"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id and kind to every label.
	Detailed bool
}

// ToDOT converts a story graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Arrows leaving an answer are drawn from the answer's choice node and
// labelled with the answer text. The initial node gets a double outline.
func ToDOT(g *story.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", key(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, a := range g.Arrows() {
		from, to := key(a.Start.Node), key(a.End.Node)
		if a.Start.Answer == story.NoID {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
			continue
		}
		ans, _ := g.Answer(a.Start.Answer)
		text := ""
		if ans != nil {
			text = ans.Label.Display()
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, to, text)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func key(id story.ID) string { return strconv.FormatUint(uint64(id), 10) }

func fmtLabel(n *story.Node, detailed bool) string {
	text := n.Text()
	if n.Kind == story.KindChoice {
		text = "?"
	}
	if !detailed {
		return text
	}
	parts := []string{fmt.Sprintf("#%d %s", n.ID, n.Kind)}
	if n.Kind == story.KindImage && n.HasImage() {
		parts = append(parts, n.Image.Path)
	}
	if text == "" {
		return strings.Join(parts, "\n")
	}
	return text + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *story.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", hex(n.Color))}
	switch n.Kind {
	case story.KindCircle:
		attrs = append(attrs, "shape=circle", "style=filled")
	case story.KindChoice:
		attrs = append(attrs, "shape=diamond", "style=filled")
	case story.KindVariable:
		attrs = append(attrs, "shape=note", "style=filled")
	}
	if n.Initial {
		attrs = append(attrs, "peripheries=2", "penwidth=2")
	}
	return attrs
}

func hex(c geom.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> header with one whose viewBox
// starts at the origin and whose width and height match it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
