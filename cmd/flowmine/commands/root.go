package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flowmine/internal/config"
	"flowmine/internal/eventlog"
	"flowmine/internal/logging"
	"flowmine/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "flowmine",
	Short: "Flowmine is a process-mining MCP server for event logs",
	Long: `An MCP server that discovers process maps, ranks bottlenecks and runs
predictive what-if simulations over CSV/XLSX event logs. Without a
subcommand it serves MCP over stdio; analyze and report drive the same
engine directly from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Flowmine starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		store := eventlog.NewLogStore()
		if cfg.CacheDir != "" {
			if err := store.LoadAll(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("Could not hydrate dataset cache")
			} else if n := len(store.List()); n > 0 {
				log.Info().Int("datasets", n).Msg("Hydrated datasets from cache")
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().Msg("MCP server starting stdio loop")
		srv := mcp.New(store, cfg)
		if err := mcp.Serve(ctx, srv); err != nil {
			log.Fatal().Err(err).Msg("MCP server stopped")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
}
