package faceit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

const matchJSON = `{
  "match_id": "1-abc",
  "status": "FINISHED",
  "teams": {
    "faction1": {"faction_id": "f-1", "name": "team_Alpha"},
    "faction2": {"faction_id": "f-2", "name": "team_Beta"}
  },
  "results": {"winner": "faction2", "score": {"faction1": 0, "faction2": 1}},
  "voting": {"map": {"pick": ["de_mirage"]}}
}`

const statsJSON = `{
  "rounds": [{
    "match_id": "1-abc",
    "round_stats": {"Map": "de_mirage", "Rounds": "22", "Winner": "f-2", "Score": "9 / 13"},
    "teams": [
      {
        "team_id": "f-1",
        "team_stats": {"Final Score": "9", "Team Win": "0"},
        "players": [
          {"player_id": "p-1", "nickname": "ace", "player_stats": {"Kills": "20", "Deaths": "15", "Assists": "4", "Damage": "2100", "Result": "0"}}
        ]
      },
      {
        "team_id": "f-2",
        "team_stats": {"Final Score": "13", "Team Win": "1"},
        "players": [
          {"player_id": "p-2", "nickname": "zed", "player_stats": {"Kills": "18", "Deaths": "12", "Assists": "6", "ADR": "90.5", "Result": "1"}}
        ]
      }
    ]
  }]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/matches/1-abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Write([]byte(matchJSON))
	})
	mux.HandleFunc("/matches/1-abc/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statsJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetMatchAndStats(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient("key", srv.URL+"/", time.Second)
	ctx := context.Background()

	detail, err := c.GetMatch(ctx, "1-abc")
	require.NoError(t, err)
	assert.Equal(t, "de_mirage", detail.MapName())
	assert.Equal(t, "team_Beta", detail.WinnerName())
	assert.Equal(t, "f-1", detail.Teams.Faction1.FactionID)

	stats, err := c.GetMatchStats(ctx, "1-abc")
	require.NoError(t, err)
	require.Len(t, stats.Rounds, 1)
	assert.Len(t, stats.Rounds[0].Teams, 2)
}

func TestGetReturnsAPIError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient("key", srv.URL, time.Second)

	_, err := c.GetMatch(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "/matches/missing", apiErr.Path)
}

func TestToMatches(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient("key", srv.URL, time.Second)
	ctx := context.Background()

	detail, err := c.GetMatch(ctx, "1-abc")
	require.NoError(t, err)
	stats, err := c.GetMatchStats(ctx, "1-abc")
	require.NoError(t, err)

	matches, err := ToMatches(detail, stats)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "1-abc", m.ExternalID)
	assert.Equal(t, model.ProviderFACEIT, m.Source)
	assert.Equal(t, "de_mirage", m.MapID)
	assert.Equal(t, model.Rounds{Raw1: 9, Raw2: 13}, m.Kind)
	require.NotNil(t, m.Winner)
	assert.Equal(t, "team_Beta", m.Winner.Name)
	assert.Empty(t, m.Winner.ID, "binding to a stored team is the caller's job")

	require.Len(t, m.Stats, 2)
	assert.Equal(t, model.PlayerStat{
		RawPlayerID: "p-1", RawTeamID: "f-1",
		Kills: 20, Deaths: 15, Assists: 4, Damage: 2100, RoundsPlayed: 22,
	}, m.Stats[0])
	assert.True(t, m.Stats[1].IsWinner)
	assert.Equal(t, 1991, m.Stats[1].Damage, "ADR 90.5 over 22 rounds")
}

func TestToMatchesMultiMap(t *testing.T) {
	round := func(mapName string) RoundStats {
		return RoundStats{
			MatchID:    "1-xyz",
			RoundStats: map[string]string{"Map": mapName, "Rounds": "20"},
			Teams: []TeamStats{
				{TeamID: "f-1", TeamStats: map[string]string{"Final Score": "13"}},
				{TeamID: "f-2", TeamStats: map[string]string{"Final Score": "7"}},
			},
		}
	}
	matches, err := ToMatches(nil, &MatchStats{Rounds: []RoundStats{round("de_nuke"), round("de_inferno")}})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "1-xyz#1", matches[0].ExternalID)
	assert.Equal(t, "1-xyz#2", matches[1].ExternalID)
	assert.Equal(t, "de_inferno", matches[1].MapID)
	assert.Nil(t, matches[0].Winner)
}

func TestToMatchesFallsBackToResultWinner(t *testing.T) {
	detail := &MatchDetail{MatchID: "1-res"}
	detail.Teams.Faction1 = Faction{FactionID: "f-1", Name: "team_Alpha"}
	detail.Teams.Faction2 = Faction{FactionID: "f-2", Name: "team_Beta"}
	detail.Results.Winner = "faction1"

	round := RoundStats{
		RoundStats: map[string]string{"Map": "de_dust2", "Rounds": "24"},
		Teams: []TeamStats{
			{TeamID: "f-1", TeamStats: map[string]string{"Final Score": "13"}},
			{TeamID: "f-2", TeamStats: map[string]string{"Final Score": "11"}},
		},
	}
	matches, err := ToMatches(detail, &MatchStats{Rounds: []RoundStats{round}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].Winner)
	assert.Equal(t, "team_Alpha", matches[0].Winner.Name)
	assert.Equal(t, "1-res", matches[0].ExternalID)

	// Multi-map matches cannot use the match-level result.
	matches, err = ToMatches(detail, &MatchStats{Rounds: []RoundStats{round, round}})
	require.NoError(t, err)
	assert.Nil(t, matches[0].Winner)
	assert.Nil(t, matches[1].Winner)
}

func TestToMatchesErrors(t *testing.T) {
	_, err := ToMatches(nil, &MatchStats{})
	assert.ErrorIs(t, err, ErrNoStats)

	_, err = ToMatches(nil, &MatchStats{Rounds: []RoundStats{{Teams: []TeamStats{{}}}}})
	assert.Error(t, err)
}
