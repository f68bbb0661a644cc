package cli

import (
	"github.com/meghashyamc/booksearch/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the search_books tool over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.New(a.logger, a.newSearchService(), a.cfg.GetDefaultLimit(), a.version).ServeStdio()
		},
	}
}
