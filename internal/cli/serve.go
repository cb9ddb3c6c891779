package cli

import (
	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/internal/halserver"
)

// serveCommand creates the serve command for the demo server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo bookshop API",
		Long: `Run the demo bookshop API.

The server exposes a small HAL+JSON API under /api with CURIE
definitions, templated links, a paginated collection, and embedded
sub-resources. It exists to give the other commands something to
traverse:

  waypost serve &
  waypost get http://localhost:8080/api --follow ws:books`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printInfo("Serving bookshop API on %s", StyleLink.Render("http://localhost"+addr+"/api"))
			printDetail("Stop with ctrl-c")
			server := halserver.New(halserver.WithLogger(c.Logger))
			return server.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
