package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
	"github.com/BalkanaOrg/Balkana-sub000/internal/report"
)

var playerTeamID string

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage players and their game profiles",
}

var playerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if playerTeamID != "" {
			if _, err := db.GetTeam(cmd.Context(), playerTeamID); err != nil {
				return err
			}
		}
		p, err := db.CreatePlayer(cmd.Context(), args[0], playerTeamID)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Player %s created: %s\n", p.Name, p.ID)
		return nil
	},
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List players",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		players, err := db.ListPlayers(cmd.Context())
		if err != nil {
			return err
		}
		report.PrintPlayers(os.Stdout, players)
		return nil
	},
}

var playerLinkCmd = &cobra.Command{
	Use:   "link <player-id> <provider> <external-id>",
	Short: "Link a provider identity (faceit, steam, riot) to a player",
	Long: `Link an external player id to a registered player. Stat rows imported from
that provider are attributed to the player only once the link exists.

Providers:
  faceit  FACEIT player_id (UUID)
  steam   SteamID64, used for parsed demos
  riot    Riot PUUID`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[1])
		switch provider {
		case model.ProviderFACEIT, model.ProviderSteam, model.ProviderRiot:
		default:
			return fmt.Errorf("unknown provider %q", args[1])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		gp := model.GameProfile{Provider: provider, ExternalID: args[2], PlayerID: args[0]}
		if err := db.LinkGameProfile(cmd.Context(), gp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Linked %s/%s to %s\n", gp.Provider, gp.ExternalID, gp.PlayerID)
		return nil
	},
}

func init() {
	playerAddCmd.Flags().StringVar(&playerTeamID, "team", "", "team id")
	playerCmd.AddCommand(playerAddCmd, playerListCmd, playerLinkCmd)
}
