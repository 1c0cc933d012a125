package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
	"github.com/BalkanaOrg/Balkana-sub000/internal/storage"
)

func seededSeries(t *testing.T) (*storage.DB, *model.Series) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	alpha, err := db.CreateTeam(ctx, "Alpha", "")
	require.NoError(t, err)
	beta, err := db.CreateTeam(ctx, "Beta", "")
	require.NoError(t, err)
	s, err := db.CreateSeries(ctx, storage.SeriesParams{TournamentName: "Cup", TeamAID: alpha.ID, TeamBID: beta.ID})
	require.NoError(t, err)
	return db, &s
}

func TestStoreMatchBindsReportedWinnerByName(t *testing.T) {
	db, series := seededSeries(t)
	ctx := context.Background()
	importWinner = ""

	m := model.Match{ExternalID: "e1", Source: "faceit", Kind: model.Rounds{Raw1: 13, Raw2: 9}, Winner: &model.Team{Name: "beta"}}
	require.NoError(t, storeMatch(ctx, db, series, m))

	m2 := model.Match{ExternalID: "e2", Source: "faceit", Kind: model.Rounds{}, Winner: &model.Team{Name: "team_unknown"}}
	require.NoError(t, storeMatch(ctx, db, series, m2))

	loaded, err := db.LoadSeries(ctx, series.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Matches, 2)
	require.NotNil(t, loaded.Matches[0].Winner)
	assert.Equal(t, series.TeamB.ID, loaded.Matches[0].Winner.ID)
	assert.Nil(t, loaded.Matches[1].Winner, "unmatched names leave the winner open")
}

func TestStoreMatchWinnerOverride(t *testing.T) {
	db, series := seededSeries(t)
	ctx := context.Background()
	t.Cleanup(func() { importWinner = "" })

	importWinner = series.TeamA.ID
	m := model.Match{ExternalID: "e1", Source: "steam", Kind: model.Rounds{Raw1: 5, Raw2: 13}, Winner: &model.Team{Name: "Beta"}}
	require.NoError(t, storeMatch(ctx, db, series, m))

	loaded, err := db.LoadSeries(ctx, series.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Matches[0].Winner)
	assert.Equal(t, series.TeamA.ID, loaded.Matches[0].Winner.ID)

	importWinner = "not-a-team"
	err = storeMatch(ctx, db, series, model.Match{ExternalID: "e2", Kind: model.Rounds{}})
	assert.ErrorIs(t, err, storage.ErrInvalidWinner)
}

func TestCheckWinnerOverride(t *testing.T) {
	t.Cleanup(func() { importWinner = "" })

	importWinner = ""
	assert.NoError(t, checkWinnerOverride(3))

	importWinner = "team-a"
	assert.NoError(t, checkWinnerOverride(1))
	assert.Error(t, checkWinnerOverride(2), "one winner cannot cover a whole BO3")
}

func TestMatchWinnerCommand(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stats.db")
	prev := dbPath
	dbPath = path
	t.Cleanup(func() {
		dbPath = prev
		matchWinnerClear = false
	})

	db, err := storage.Open(path, zerolog.Nop())
	require.NoError(t, err)
	alpha, err := db.CreateTeam(ctx, "Alpha", "")
	require.NoError(t, err)
	beta, err := db.CreateTeam(ctx, "Beta", "")
	require.NoError(t, err)
	s, err := db.CreateSeries(ctx, storage.SeriesParams{TournamentName: "Cup", TeamAID: alpha.ID, TeamBID: beta.ID})
	require.NoError(t, err)
	matchID, err := db.InsertMatch(ctx, s.ID, model.Match{ExternalID: "e1", Source: "faceit", Kind: model.Rounds{Raw1: 13, Raw2: 8}})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	matchWinnerCmd.SetContext(ctx)
	require.NoError(t, matchWinnerCmd.RunE(matchWinnerCmd, []string{matchID, beta.ID}))
	assert.Error(t, matchWinnerCmd.RunE(matchWinnerCmd, []string{matchID}), "team id or --clear required")

	db, err = storage.Open(path, zerolog.Nop())
	require.NoError(t, err)
	loaded, err := db.LoadSeries(ctx, s.ID)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NotNil(t, loaded.Matches[0].Winner)
	assert.Equal(t, beta.ID, loaded.Matches[0].Winner.ID)

	matchWinnerClear = true
	require.NoError(t, matchWinnerCmd.RunE(matchWinnerCmd, []string{matchID}))
	db, err = storage.Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()
	loaded, err = db.LoadSeries(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Matches[0].Winner)
}
