package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/report"
	"github.com/BalkanaOrg/Balkana-sub000/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("balkana shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("balkana")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "series":
			shellSeries(ctx, db)
		case "teams":
			shellTeams(ctx, db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <series-id> [--map <map>]")
				continue
			}
			mapFilter := ""
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--map" {
					mapFilter = args[i+1]
				}
			}
			shellShow(ctx, db, args[0], mapFilter)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"series", "list all series"},
		{"teams", "list all teams"},
		{"show <series-id>", "show a series' matches and player stats"},
		{"show <series-id> --map <map>", "same, aggregating one map only"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellSeries(ctx context.Context, db *storage.DB) {
	list, err := db.ListSeries(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(list) == 0 {
		cMuted.Println("No series stored yet.")
		return
	}
	report.PrintSeriesList(os.Stdout, list)
}

func shellTeams(ctx context.Context, db *storage.DB) {
	teams, err := db.ListTeams(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(teams) == 0 {
		cMuted.Println("No teams stored yet.")
		return
	}
	report.PrintTeams(os.Stdout, teams)
}

func shellShow(ctx context.Context, db *storage.DB, seriesID, mapFilter string) {
	series, err := db.LoadSeries(ctx, seriesID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	// Profiles are reloaded so links made in another terminal show up.
	profiles, err := db.LoadProfiles(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	res, err := newBuilder(profiles).Build(ctx, series, mapFilter)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	report.PrintSeriesHeader(os.Stdout, series)
	report.PrintMatchTable(os.Stdout, series, res.Matches)
	fmt.Println()
	if len(res.Players) == 0 {
		cMuted.Println("No linked player statistics.")
		return
	}
	cHeader.Println("Players")
	report.PrintTeamTables(os.Stdout, aggregator.GroupByTeam(series, res.Players))
}
