package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mickamy/pressroom/internal/config"
	"github.com/mickamy/pressroom/internal/logging"
	"github.com/mickamy/pressroom/internal/seed"
	"github.com/mickamy/pressroom/repo"
	"github.com/mickamy/pressroom/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath string
	driver     string
	dsn        string
	verbosity  int
	listing    pageOptions
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pressroom",
		Short:        "Authors, magazines and articles on a SQL store",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (or set "+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "database driver: sqlite, mysql or postgres")
	rootCmd.PersistentFlags().StringVarP(&dsn, "db", "d", "", "database DSN (file path for sqlite)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	articlesCmd := &cobra.Command{
		Use:   "articles",
		Short: "List stored articles one page at a time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openProvider()
			if err != nil {
				return err
			}
			return printArticles(cmd.Context(), cmd.OutOrStdout(), repo.New(p), listing)
		},
	}
	articlesCmd.Flags().IntVar(&listing.page, "page", 1, "page number, starting at 1")
	articlesCmd.Flags().IntVar(&listing.size, "page-size", 20, "articles per page")
	articlesCmd.Flags().Int64Var(&listing.authorID, "author", 0, "only articles by this author id")

	rootCmd.AddCommand(
		articlesCmd,
		&cobra.Command{
			Use:   "setup",
			Short: "Drop and re-create the tables",
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := openProvider()
				if err != nil {
					return err
				}
				if err := store.ApplySchema(cmd.Context(), p); err != nil {
					return err
				}
				log.Info().Str("driver", p.Driver()).Msg("Database setup complete")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Replace all rows with the sample data set",
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := openProvider()
				if err != nil {
					return err
				}
				_, err = seed.Run(cmd.Context(), p)
				return err
			},
		},
		&cobra.Command{
			Use:   "debug",
			Short: "Wipe all rows, load the sample data and print what the queries return",
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := openProvider()
				if err != nil {
					return err
				}
				if _, err := seed.Run(cmd.Context(), p); err != nil {
					return err
				}
				return printReport(cmd.Context(), cmd.OutOrStdout(), repo.New(p))
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "pressroom %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

// openProvider loads the config, applies flag overrides, sets up logging
// and returns a Provider for the configured store.
func openProvider() (*store.Provider, error) {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}
	cfg.Log.Level = logging.Verbosity(verbosity, cfg.Log.Level)

	logging.Apply(cfg.Log)
	log.Debug().Str("config", path).Str("driver", cfg.Database.Driver).Msg("Configuration loaded")

	var opts []store.Option
	if cfg.Log.SQL {
		opts = append(opts, store.WithLogger(logging.QueryLogger{}))
	}
	return store.New(cfg.Database.Driver, cfg.Database.DSN, opts...)
}
