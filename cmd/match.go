package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var matchWinnerClear bool

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Manage imported matches",
}

var matchWinnerCmd = &cobra.Command{
	Use:   "winner <match-id> [team-id]",
	Short: "Set or clear the winner of a match",
	Long: `Records which series team won a match. The team must be team A or team B of
the match's series. Use --clear to mark the match undecided again.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID := ""
		switch {
		case matchWinnerClear && len(args) == 2:
			return errors.New("--clear takes no team id")
		case !matchWinnerClear && len(args) == 1:
			return errors.New("team id required (or --clear)")
		case len(args) == 2:
			teamID = args[1]
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SetMatchWinner(cmd.Context(), args[0], teamID); err != nil {
			return err
		}
		if teamID == "" {
			fmt.Fprintf(os.Stdout, "Match %s winner cleared\n", args[0])
		} else {
			fmt.Fprintf(os.Stdout, "Match %s won by %s\n", args[0], teamID)
		}
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Manage map display names",
}

var mapRenameCmd = &cobra.Command{
	Use:   "rename <map-id> <name>",
	Short: "Set the display name of a map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.UpsertMap(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Map %s is now shown as %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	matchWinnerCmd.Flags().BoolVar(&matchWinnerClear, "clear", false, "mark the match undecided")
	matchCmd.AddCommand(matchWinnerCmd)
	mapCmd.AddCommand(mapRenameCmd)
}
