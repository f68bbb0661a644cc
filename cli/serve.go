package cli

import (
	"github.com/meghashyamc/booksearch/api"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP search API",
		Long: `Serves GET /search, GET /searches/:id and GET /health on the configured port.

Searches are recorded in a local bbolt database so they can be looked up by id.`,
		Example: `  # Serve on the port from config (PORT overrides it)
  PORT=9000 booksearch serve --base-dir /data/books`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.Run(cmd.Context(), a.cfg, a.logger)
		},
	}
}
