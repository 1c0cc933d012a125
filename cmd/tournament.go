package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tournamentCmd = &cobra.Command{
	Use:   "tournament",
	Short: "Manage tournaments",
}

var tournamentAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a tournament (series create also does this on first use)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		t, err := db.CreateTournament(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Tournament %s: %s\n", t.Name, t.ID)
		return nil
	},
}

func init() {
	tournamentCmd.AddCommand(tournamentAddCmd)
}
