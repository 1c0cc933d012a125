package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/metrics"
	"github.com/BalkanaOrg/Balkana-sub000/internal/report"
	"github.com/BalkanaOrg/Balkana-sub000/internal/storage"
)

var (
	seriesTournament string
	seriesTeamA      string
	seriesTeamB      string
	seriesBestOf     int
	seriesWinner     string
	showMap          string
	showByMap        bool
	showMetricsFile  string
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Manage tournament series and show their statistics",
}

var seriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a best-of-N series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seriesTournament == "" {
			return fmt.Errorf("--tournament is required")
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		s, err := db.CreateSeries(cmd.Context(), storage.SeriesParams{
			TournamentName: seriesTournament,
			TeamAID:        seriesTeamA,
			TeamBID:        seriesTeamB,
			BestOf:         seriesBestOf,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Series created: %s\n", s.ID)
		return nil
	},
}

var seriesTeamsCmd = &cobra.Command{
	Use:   "teams <series-id>",
	Short: "Set the two teams of a series once the bracket resolves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.SetSeriesTeams(cmd.Context(), args[0], seriesTeamA, seriesTeamB)
	},
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		list, err := db.ListSeries(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No series yet. Use 'balkana series create'.")
			return nil
		}
		report.PrintSeriesList(os.Stdout, list)
		return nil
	},
}

var seriesFinishCmd = &cobra.Command{
	Use:   "finish <series-id>",
	Short: "Mark a series finished",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if seriesWinner == "" {
			return fmt.Errorf("--winner is required")
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.FinishSeries(cmd.Context(), args[0], seriesWinner)
	},
}

var seriesShowCmd = &cobra.Command{
	Use:   "show <series-id>",
	Short: "Show match results and aggregated player statistics of a series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesShow,
}

func init() {
	seriesCreateCmd.Flags().StringVar(&seriesTournament, "tournament", "", "tournament name (created on first use)")
	seriesCreateCmd.Flags().StringVar(&seriesTeamA, "team-a", "", "team A id")
	seriesCreateCmd.Flags().StringVar(&seriesTeamB, "team-b", "", "team B id")
	seriesCreateCmd.Flags().IntVar(&seriesBestOf, "best-of", 3, "number of maps in the series")

	seriesTeamsCmd.Flags().StringVar(&seriesTeamA, "team-a", "", "team A id")
	seriesTeamsCmd.Flags().StringVar(&seriesTeamB, "team-b", "", "team B id")

	seriesFinishCmd.Flags().StringVar(&seriesWinner, "winner", "", "winning team id")

	seriesShowCmd.Flags().StringVar(&showMap, "map", "", "only aggregate matches on this map (id or name)")
	seriesShowCmd.Flags().BoolVar(&showByMap, "by-map", false, "also print one breakdown per map")
	seriesShowCmd.Flags().StringVar(&showMetricsFile, "metrics-file", "", "write build metrics to this Prometheus textfile")

	seriesCmd.AddCommand(seriesCreateCmd, seriesTeamsCmd, seriesListCmd, seriesFinishCmd, seriesShowCmd)
}

func runSeriesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	series, err := db.LoadSeries(ctx, args[0])
	if err != nil {
		return err
	}
	profiles, err := db.LoadProfiles(ctx)
	if err != nil {
		return err
	}
	log.Debug().
		Str("series_id", series.ID).
		Int("matches", len(series.Matches)).
		Int("linked_profiles", profiles.Len()).
		Msg("series loaded")

	var opts []aggregator.Option
	var reg *prometheus.Registry
	if showMetricsFile != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, aggregator.WithObserver(metrics.NewService(reg)))
	}
	b := newBuilder(profiles, opts...)

	res, err := b.Build(ctx, series, showMap)
	if err != nil {
		return err
	}

	report.PrintSeriesHeader(os.Stdout, series)
	report.PrintMatchTable(os.Stdout, series, res.Matches)
	fmt.Println()
	if len(res.Players) == 0 {
		fmt.Println("No linked player statistics. Link game profiles with 'balkana player link'.")
	} else {
		report.PrintTeamTables(os.Stdout, aggregator.GroupByTeam(series, res.Players))
	}

	if showByMap {
		maps, err := b.BuildPerMap(ctx, series)
		if err != nil {
			return err
		}
		report.PrintMapBreakdown(os.Stdout, series, maps)
	}

	if reg != nil {
		if err := metrics.WriteTextfile(reg, showMetricsFile); err != nil {
			return err
		}
		log.Info().Str("path", showMetricsFile).Msg("build metrics written")
	}
	return nil
}
