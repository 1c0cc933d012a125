package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// teamName renders an optional team.
func teamName(t *model.Team) string {
	if t == nil {
		return "TBD"
	}
	if t.Tag != "" {
		return fmt.Sprintf("%s [%s]", t.Name, t.Tag)
	}
	return t.Name
}

// PrintSeriesHeader prints a one-line summary of the series.
func PrintSeriesHeader(w io.Writer, s *model.Series) {
	a, b := aggregator.SeriesScore(s)
	status := "in progress"
	if s.Finished {
		status = "finished, winner " + teamName(s.Winner)
	}
	fmt.Fprintf(w, "\n%s  |  %s %d - %d %s  |  Bo%d  |  %s\n\n",
		s.TournamentName, teamName(s.TeamA), a, b, teamName(s.TeamB), s.BestOf, status)
}

// PrintMatchTable prints one row per match with rounds attributed to TeamA
// and TeamB.
func PrintMatchTable(w io.Writer, s *model.Series, matches []model.MatchSummary) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "(no matches)")
		return
	}
	table := newTable(w)
	table.Header("#", "MAP", "KIND", teamName(s.TeamA), teamName(s.TeamB), "ROUNDS", "WINNER")
	for i, m := range matches {
		mapName := m.MapName
		if mapName == "" {
			mapName = m.MapID
		}
		table.Append(
			strconv.Itoa(i+1),
			mapName,
			m.Kind,
			strconv.Itoa(m.TeamARounds),
			strconv.Itoa(m.TeamBRounds),
			strconv.Itoa(m.TotalRounds),
			m.WinnerLabel,
		)
	}
	table.Render()
}

// PrintPlayerTable prints rated player aggregates in the order given.
func PrintPlayerTable(w io.Writer, players []model.PlayerSeriesAggregate) {
	table := newTable(w)
	table.Header("NAME", "SIDE", "MAPS", "K", "A", "D", "K/D", "ADR", "KPR", "RATING")
	for _, p := range players {
		table.Append(
			p.PlayerName,
			p.Slot.String(),
			strconv.Itoa(p.MapsPlayed),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Deaths),
			fmt.Sprintf("%.2f", p.KDRatio()),
			fmt.Sprintf("%.1f", p.ADR()),
			fmt.Sprintf("%.2f", p.KPR()),
			fmt.Sprintf("%.2f", p.Rating),
		)
	}
	table.Render()
}

// PrintTeamTables prints one player table per series team followed by any
// players that could not be attributed to either.
func PrintTeamTables(w io.Writer, g model.TeamGroups) {
	for _, tg := range []model.TeamGroup{g.A, g.B} {
		fmt.Fprintf(w, "%s (%s)  K %d  D %d  A %d  avg rating %.2f\n",
			teamName(tg.Team), tg.Slot, tg.Kills, tg.Deaths, tg.Assists, tg.AvgRating)
		if len(tg.Players) == 0 {
			fmt.Fprintln(w, "(no players)")
		} else {
			PrintPlayerTable(w, tg.Players)
		}
		fmt.Fprintln(w)
	}
	if len(g.Unknown) > 0 {
		fmt.Fprintf(w, "Unattributed players (%d)\n", len(g.Unknown))
		PrintPlayerTable(w, g.Unknown)
		fmt.Fprintln(w)
	}
}

// PrintMapBreakdown prints per-map match rows and player tables.
func PrintMapBreakdown(w io.Writer, s *model.Series, maps []aggregator.MapBreakdown) {
	for _, mb := range maps {
		name := mb.MapName
		if name == "" {
			name = mb.MapID
		}
		fmt.Fprintf(w, "== %s ==\n", name)
		PrintMatchTable(w, s, mb.Matches)
		PrintPlayerTable(w, mb.Players)
		fmt.Fprintln(w)
	}
}

// PrintSeriesList prints series headers.
func PrintSeriesList(w io.Writer, series []model.Series) {
	table := newTable(w)
	table.Header("ID", "TOURNAMENT", "TEAM A", "TEAM B", "BO", "WINNER")
	for _, s := range series {
		winner := "-"
		if s.Finished {
			winner = teamName(s.Winner)
		}
		table.Append(s.ID, s.TournamentName, teamName(s.TeamA), teamName(s.TeamB), strconv.Itoa(s.BestOf), winner)
	}
	table.Render()
}

// PrintTeams prints teams.
func PrintTeams(w io.Writer, teams []model.Team) {
	table := newTable(w)
	table.Header("ID", "NAME", "TAG")
	for _, t := range teams {
		table.Append(t.ID, t.Name, t.Tag)
	}
	table.Render()
}

// PrintPlayers prints players.
func PrintPlayers(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("ID", "NAME", "TEAM")
	for _, p := range players {
		team := p.TeamID
		if team == "" {
			team = "-"
		}
		table.Append(p.ID, p.Name, team)
	}
	table.Render()
}

// PrintRows prints the result of a raw query.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
