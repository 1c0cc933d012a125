package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the statistics database",
	Long: `Deletes the SQLite store with every registered team, player, game profile
link, series and imported match. Without --force it only reports what the store
holds. Demos and FACEIT matches can be imported again afterwards.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without asking")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(os.Stdout, "No database at", dbPath)
		return nil
	}
	if !dropForce {
		summary, err := storeSummary(cmd.Context())
		if err != nil {
			log.Warn().Err(err).Msg("could not read store contents")
			summary = "unreadable contents"
		}
		fmt.Fprintf(os.Stderr, "%s holds %s.\n", dbPath, summary)
		fmt.Fprintln(os.Stderr, "Re-run with --force to delete it.")
		return nil
	}

	// WAL side files go with the main file.
	for _, path := range []string{dbPath + "-wal", dbPath + "-shm", dbPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func storeSummary(ctx context.Context) (string, error) {
	db, err := openDB()
	if err != nil {
		return "", err
	}
	defer db.Close()

	teams, err := db.ListTeams(ctx)
	if err != nil {
		return "", err
	}
	series, err := db.ListSeries(ctx)
	if err != nil {
		return "", err
	}
	_, rows, err := db.QueryRaw(`SELECT COUNT(*) FROM matches`)
	if err != nil {
		return "", err
	}
	matches := "0"
	if len(rows) == 1 && len(rows[0]) == 1 {
		matches = rows[0][0]
	}
	return fmt.Sprintf("%d teams, %d series and %s imported matches", len(teams), len(series), matches), nil
}
