package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search all books and print the best matching pages",
		Long: `Scores every OCR page against the query and prints the best matches.

Pages containing the whole query rank first. Pages containing only some
of its words follow.`,
		Example: `  # Top 5 pages mentioning a phrase
  booksearch search "mechanism design"

  # Ten results as JSON from another library
  booksearch search --limit 10 --format json --base-dir /data/books 機械学習`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				return errors.New("query must not be blank")
			}
			if limit < 0 {
				return errors.New("limit must not be negative")
			}
			if limit == 0 {
				limit = a.cfg.GetDefaultLimit()
			}

			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}

			response := a.newSearchService().Search(query, limit)

			return writeResponse(cmd.OutOrStdout(), response, outFormat)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 uses the configured default)")
	cmd.Flags().StringVarP(&format, "format", "f", string(formatText), "Output format: text, json or yaml")

	return cmd
}
