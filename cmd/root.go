package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/config"
	"github.com/BalkanaOrg/Balkana-sub000/internal/logger"
	"github.com/BalkanaOrg/Balkana-sub000/internal/storage"
)

var (
	dbPath   string
	logLevel string

	cfg *config.Config
	log zerolog.Logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:          "balkana",
	Short:        "Tournament series statistics",
	Long:         "Record teams, players and best-of-N series, import match statistics and aggregate per-player series performance.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		boot := logger.New(os.Stderr, logLevel)
		c, err := config.Load(boot)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("db") {
			c.DBPath = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		cfg = c
		dbPath = c.DBPath
		log = logger.New(os.Stderr, c.LogLevel)
		return nil
	},
}

// Execute runs the root command. Ctrl-C cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.balkana/stats.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default info)")

	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(tournamentCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newBuilder returns a series builder configured from cfg.
func newBuilder(players aggregator.PlayerResolver, extra ...aggregator.Option) *aggregator.Builder {
	opts := []aggregator.Option{
		aggregator.WithLogger(log),
		aggregator.WithWorkers(cfg.BuildWorkers),
		aggregator.WithProviders(aggregator.Providers{FPS: cfg.FPSProvider, MOBA: cfg.MOBAProvider}),
	}
	return aggregator.NewBuilder(players, append(opts, extra...)...)
}
