package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BalkanaOrg/Balkana-sub000/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the statistics database",
	Long: `Run an arbitrary SQL query against the statistics database and print results as a table.

Schema overview:
  teams(id, name, tag)
  players(id, name, team_id)
  game_profiles(provider, external_id, player_id)
  tournaments(id, name)
  series(id, tournament_id, team_a_id, team_b_id, winner_team_id, finished, best_of, created_at)
  maps(id, name)
  matches(id, series_id, external_id, source, kind, map_id, winner_team_id,
    raw_score1, raw_score2, position)
  player_stats(match_id, position, raw_player_id, raw_team_id, is_winner,
    kills, deaths, assists, damage, rounds_played)

Note: raw_player_id is the provider's id (FACEIT UUID, SteamID64 as TEXT, Riot PUUID).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
