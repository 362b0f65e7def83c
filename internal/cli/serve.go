package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/novelgraph/pkg/preview"
)

// serveCommand creates the serve command that runs the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only preview of the story over HTTP",
		Long: `Serve the project over HTTP.

The game file is read on every request, so edits made by other tools show
up on reload. Routes:

  GET /api/story                 normalized story document
  GET /api/playback              compiled playback steps
  GET /api/playback/steps/{id}   one step
  GET /story.dot|svg|png         diagrams
  GET /images/...                project images`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			printSuccess("Serving %s", StyleHighlight.Render(p.Dir))
			printKeyValue("Address", StyleLink.Render("http://"+addr))
			printDetail("Press Ctrl+C to stop")
			return preview.New(p, logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}
