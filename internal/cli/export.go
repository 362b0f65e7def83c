package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/render/canvas"
	"github.com/matzehuels/novelgraph/pkg/render/nodelink"
	"github.com/matzehuels/novelgraph/pkg/session"
	"github.com/matzehuels/novelgraph/pkg/story"
	"github.com/matzehuels/novelgraph/pkg/storyio"
)

const (
	viewGraph  = "graph"  // Graphviz node-link diagram
	viewCanvas = "canvas" // the story as the editor draws it

	defaultScale = 2.0 // PNG scale for Graphviz output
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output   string   // output file (single format) or base path (several)
	formats  []string // output formats: "dot", "svg", "pdf", "png", "json"
	view     string   // "graph" or "canvas"
	detailed bool     // show ids and kinds in graph labels
	scale    float64  // PNG scale factor
}

// exportCommand creates the export command for writing the story to other
// formats.
func (c *CLI) exportCommand() *cobra.Command {
	var formatsStr string
	opts := exportOpts{view: viewGraph, scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the story as a diagram or normalized JSON",
		Long: `Export the story graph.

Formats:
  dot   Graphviz source of the node-link diagram
  svg   node-link diagram rendered by Graphviz
  pdf   node-link diagram (needs rsvg-convert)
  png   node-link diagram, or the editor canvas with --view canvas
  json  the story document, normalized`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.view != viewGraph && opts.view != viewCanvas {
				return errors.New(errors.ErrCodeInvalidInput, "invalid view: %s (must be 'graph' or 'canvas')", opts.view)
			}
			mode := reading
			mode.Thumbnails = opts.view == viewCanvas && slices.Contains(opts.formats, "png")
			return c.withSession(cmd.Context(), mode, func(sess *session.Session) error {
				return runExport(cmd.Context(), sess, &opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "png view: graph (default), canvas")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and kinds")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor (graph view)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"dot": true, "svg": true, "pdf": true, "png": true, "json": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot', 'svg', 'pdf', 'png' or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output flag and the game
// file. Known format extensions are stripped from output.
func basePath(output, gameFile string) string {
	if output == "" {
		return strings.TrimSuffix(gameFile, filepath.Ext(gameFile))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runExport renders every requested format. With a single format and an
// explicit output the file name is used as given.
func runExport(ctx context.Context, sess *session.Session, opts *exportOpts) error {
	logger := loggerFromContext(ctx)
	g := sess.Graph
	logger.Debugf("Exporting %d nodes, %d arrows", g.NodeCount(), g.ArrowCount())

	base := basePath(opts.output, sess.Project.GameFile)
	for _, format := range opts.formats {
		prog := newProgress(logger)
		data, err := exportGraph(ctx, g, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if format == "json" && path == sess.Project.GameFile {
			return errors.New(errors.ErrCodeInvalidPath, "refusing to overwrite the game file %s", path)
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		prog.done("Generated " + path)
	}
	return nil
}

// exportGraph renders g to one format.
func exportGraph(ctx context.Context, g *story.Graph, format string, opts *exportOpts) ([]byte, error) {
	if format == "json" {
		var buf bytes.Buffer
		if err := storyio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if format == "png" && opts.view == viewCanvas {
		var buf bytes.Buffer
		if err := canvas.WritePNG(g, &buf); err != nil {
			// Missing images leave a blank box; the rest of the picture is
			// still written.
			loggerFromContext(ctx).Warn("some images could not be drawn", "error", err)
		}
		return buf.Bytes(), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return nodelink.RenderSVG(ctx, dot)
	case "pdf":
		return nodelink.RenderPDF(ctx, dot)
	case "png":
		return nodelink.RenderPNG(ctx, dot, opts.scale)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes data to path, or to the command output when path is "-".
func writeOutput(path string, data []byte) error {
	w := out
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
