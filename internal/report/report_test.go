package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

func testSeries() *model.Series {
	alpha := &model.Team{ID: "a", Name: "Alpha", Tag: "ALP"}
	beta := &model.Team{ID: "b", Name: "Beta"}
	return &model.Series{
		ID: "s1", TournamentName: "Balkan Cup", TeamA: alpha, TeamB: beta, BestOf: 3,
		Matches: []model.Match{
			{ID: "m1", Winner: alpha, Kind: model.Rounds{Raw1: 13, Raw2: 7}},
			{ID: "m2", Winner: alpha, Kind: model.Rounds{Raw1: 5, Raw2: 13}},
		},
	}
}

func TestPrintSeriesHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintSeriesHeader(&buf, testSeries())
	out := buf.String()
	assert.Contains(t, out, "Balkan Cup")
	assert.Contains(t, out, "Alpha [ALP] 2 - 0 Beta")
	assert.Contains(t, out, "Bo3")
	assert.Contains(t, out, "in progress")
}

func TestPrintMatchTable(t *testing.T) {
	var buf bytes.Buffer
	s := testSeries()
	PrintMatchTable(&buf, s, []model.MatchSummary{
		{MapName: "Mirage", Kind: "rounds", TeamARounds: 13, TeamBRounds: 7, TotalRounds: 20, WinnerLabel: "Alpha"},
	})
	out := buf.String()
	assert.Contains(t, out, "Mirage")
	assert.Contains(t, out, "20")

	buf.Reset()
	PrintMatchTable(&buf, s, nil)
	assert.Contains(t, buf.String(), "(no matches)")
}

func TestPrintTeamTables(t *testing.T) {
	s := testSeries()
	players := []model.PlayerSeriesAggregate{
		{PlayerName: "ace", Slot: model.SlotA, Kills: 30, Deaths: 15, RoundsPlayed: 38, Rating: 1.31},
		{PlayerName: "zed", Slot: model.SlotB, Kills: 12, Deaths: 25, RoundsPlayed: 38, Rating: 0.62},
		{PlayerName: "ghost", Slot: model.SlotUnknown, Kills: 3, RoundsPlayed: 10},
	}
	var buf bytes.Buffer
	PrintTeamTables(&buf, aggregator.GroupByTeam(s, players))
	out := buf.String()

	assert.Contains(t, out, "ace")
	assert.Contains(t, out, "zed")
	assert.Contains(t, out, "1.31")
	assert.Contains(t, out, "Unattributed players (1)")
	assert.Contains(t, out, "ghost")
}

func TestPrintMapBreakdown(t *testing.T) {
	var buf bytes.Buffer
	PrintMapBreakdown(&buf, testSeries(), []aggregator.MapBreakdown{
		{MapID: "de_nuke", Matches: []model.MatchSummary{{MapID: "de_nuke", WinnerLabel: "TBD"}}},
	})
	assert.Contains(t, buf.String(), "== de_nuke ==")
}

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	PrintRows(&buf, []string{"name"}, nil)
	assert.Contains(t, buf.String(), "(no rows)")

	buf.Reset()
	PrintRows(&buf, []string{"name"}, [][]string{{"Alpha"}, {"Beta"}})
	assert.Contains(t, buf.String(), "Beta")
	assert.Contains(t, buf.String(), "(2 rows)")
}
