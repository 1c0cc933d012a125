package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/faceit"
	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
	"github.com/BalkanaOrg/Balkana-sub000/internal/parser"
	"github.com/BalkanaOrg/Balkana-sub000/internal/storage"
)

// importWinner overrides the winner reported by the source.
var importWinner string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import match statistics into a series",
}

var importFaceitCmd = &cobra.Command{
	Use:   "faceit <series-id> <faceit-match-id>",
	Short: "Import a FACEIT match (one entry per map played)",
	Long: `Fetches match details and statistics from the FACEIT Data API and stores one
match per map under the series. The API key is read from BALKANA_FACEIT_API_KEY
(or faceit_api_key in the config file).

The map winner is bound to a series team by name; use --winner to set it
explicitly when FACEIT team names differ from the registered ones. --winner is
refused for multi-map matches; fix single maps with 'balkana match winner'.`,
	Args: cobra.ExactArgs(2),
	RunE: runImportFaceit,
}

var importDemoCmd = &cobra.Command{
	Use:   "demo <series-id> <demo.dem>",
	Short: "Import a CS2 demo file (.dem, .dem.gz, .dem.bz2, .dem.zst)",
	Long: `Parses a CS2 demo and stores it as a match under the series. Player rows are
keyed by SteamID64, so link players with 'balkana player link <id> steam <steamid>'.

The winner is bound to a series team by clan name; use --winner when the
server did not set clan names.`,
	Args: cobra.ExactArgs(2),
	RunE: runImportDemo,
}

func init() {
	for _, c := range []*cobra.Command{importFaceitCmd, importDemoCmd} {
		c.Flags().StringVar(&importWinner, "winner", "", "winning team id (overrides the source)")
	}
	importCmd.AddCommand(importFaceitCmd, importDemoCmd)
}

func runImportFaceit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	seriesID, matchID := args[0], args[1]
	if cfg.FaceitAPIKey == "" {
		return errors.New("FACEIT API key not set: export BALKANA_FACEIT_API_KEY")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	series, err := db.GetSeries(ctx, seriesID)
	if err != nil {
		return err
	}

	client := faceit.NewClient(cfg.FaceitAPIKey, cfg.FaceitBaseURL, cfg.HTTPTimeout)
	var (
		detail *faceit.MatchDetail
		stats  *faceit.MatchStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = client.GetMatch(gctx, matchID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = client.GetMatchStats(gctx, matchID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch FACEIT match %s: %w", matchID, err)
	}

	matches, err := faceit.ToMatches(detail, stats)
	if err != nil {
		return fmt.Errorf("convert FACEIT match %s: %w", matchID, err)
	}
	if err := checkWinnerOverride(len(matches)); err != nil {
		return err
	}
	for _, m := range matches {
		if err := storeMatch(ctx, db, series, m); err != nil {
			return err
		}
	}
	return nil
}

func runImportDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	seriesID, demoPath := args[0], args[1]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	series, err := db.GetSeries(ctx, seriesID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", demoPath)
	m, err := parser.ParseDemo(demoPath)
	if err != nil {
		return err
	}
	return storeMatch(ctx, db, series, m)
}

// checkWinnerOverride refuses --winner when one import yields several maps,
// since each map has its own winner.
func checkWinnerOverride(maps int) error {
	if importWinner != "" && maps > 1 {
		return fmt.Errorf("--winner cannot be applied to %d maps; set each map with 'balkana match winner'", maps)
	}
	return nil
}

// storeMatch binds the match winner to a series team and stores the match.
func storeMatch(ctx context.Context, db *storage.DB, series *model.Series, m model.Match) error {
	reported := ""
	if m.Winner != nil {
		reported = m.Winner.Name
	}
	m.Winner = nil

	switch {
	case importWinner != "":
		t := series.TeamFor(series.SlotOf(&model.Team{ID: importWinner}))
		if t == nil {
			return fmt.Errorf("--winner %s: %w", importWinner, storage.ErrInvalidWinner)
		}
		m.Winner = t
	case reported != "":
		m.Winner = series.TeamNamed(reported)
		if m.Winner == nil {
			log.Warn().
				Str("series_id", series.ID).
				Str("external_id", m.ExternalID).
				Str("reported_winner", reported).
				Msg("reported winner matches no series team; use --winner")
		}
	}

	if _, _, ok := aggregator.NewSlotResolver(series, &m).RawIDs(); !ok && len(m.Stats) > 0 {
		log.Warn().
			Str("series_id", series.ID).
			Str("external_id", m.ExternalID).
			Msg("match does not carry exactly two raw team ids; its rows will not be attributed to a team")
	}

	id, err := db.InsertMatch(ctx, series.ID, m)
	if err != nil {
		return err
	}
	winner := "TBD"
	if m.Winner != nil {
		winner = m.Winner.Name
	}
	fmt.Fprintf(os.Stdout, "Stored %s on %s (%d player rows, winner %s): %s\n",
		m.ExternalID, m.MapID, len(m.Stats), winner, id)
	return nil
}
