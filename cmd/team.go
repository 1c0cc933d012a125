package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BalkanaOrg/Balkana-sub000/internal/report"
)

var teamTag string

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage teams",
}

var teamAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		t, err := db.CreateTeam(cmd.Context(), args[0], teamTag)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Team %s created: %s\n", t.Name, t.ID)
		return nil
	},
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		teams, err := db.ListTeams(cmd.Context())
		if err != nil {
			return err
		}
		if len(teams) == 0 {
			fmt.Println("No teams yet. Use 'balkana team add <name>'.")
			return nil
		}
		report.PrintTeams(os.Stdout, teams)
		return nil
	},
}

func init() {
	teamAddCmd.Flags().StringVar(&teamTag, "tag", "", "short team tag")
	teamCmd.AddCommand(teamAddCmd, teamListCmd)
}
