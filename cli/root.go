package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/booksearch/config"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/services/search"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	version string
	cfg     *config.Config
	logger  logger.Logger
}

func (a *app) newSearchService() *search.Service {
	return search.New(a.logger, search.Options{
		BaseDir:      a.cfg.GetBaseDir(),
		BatchPattern: a.cfg.GetBatchPattern(),
		DataFile:     a.cfg.GetDataFile(),
		MaxWorkers:   a.cfg.GetMaxWorkers(),
	})
}

func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	var env string
	var baseDir string

	cmd := &cobra.Command{
		Use:   "booksearch",
		Short: "Full-text search over OCR-scanned book pages",
		Long: `Booksearch looks for text in the OCR output of scanned books.

Books live under <base-dir>/out*/<Title Author PAGESp_ISBN>/gyazo_info.json.
Every search reads every page, so new books are picked up immediately.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if baseDir != "" {
				cfg.SetBaseDir(baseDir)
			}

			a.cfg = cfg
			a.logger = logger.New(cfg.GetLogLevel())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&env, "env", "", "Config environment to load (defaults to $ENV, then local)")
	cmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Directory holding the out* batch directories (overrides config)")

	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMCPCmd(a))

	return cmd
}
