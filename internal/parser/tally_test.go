package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BalkanaOrg/Balkana-sub000/internal/aggregator"
	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

func TestTallyHalftimeSwap(t *testing.T) {
	tl := newTally()
	a1 := actor{ID: 1, Team: "Alpha", Side: "T"}
	a2 := actor{ID: 2, Team: "Alpha", Side: "T"}
	b1 := actor{ID: 3, Team: "Beta", Side: "CT"}

	tl.kill(a1, b1, &a2)
	tl.hurt(a1, b1, 100)
	tl.hurt(a1, a2, 40) // team damage ignored
	tl.roundEnd("T", []actor{a1, a2, b1})

	tl.kill(b1, a1, nil)
	tl.roundEnd("CT", []actor{a1, a2, b1})

	// Sides swap; keys stay.
	a1.Side, a2.Side, b1.Side = "CT", "CT", "T"
	tl.kill(a2, b1, nil)
	tl.roundEnd("CT", []actor{a1, a2, b1})

	m := tl.match()
	assert.Equal(t, model.ProviderSteam, m.Source)
	// Beta is seen first, as the victim of the opening kill.
	assert.Equal(t, model.Rounds{Raw1: 1, Raw2: 2}, m.Kind)
	require.NotNil(t, m.Winner)
	assert.Equal(t, "Alpha", m.Winner.Name)

	require.Len(t, m.Stats, 3)
	byID := make(map[string]model.PlayerStat)
	for _, s := range m.Stats {
		byID[s.RawPlayerID] = s
	}
	assert.Equal(t, model.PlayerStat{
		RawPlayerID: "1", RawTeamID: "Alpha", IsWinner: true,
		Kills: 1, Deaths: 1, Damage: 100, RoundsPlayed: 3,
	}, byID["1"])
	assert.Equal(t, 1, byID["2"].Assists)
	assert.Equal(t, 1, byID["2"].Kills)
	assert.Equal(t, 2, byID["3"].Deaths)
	assert.False(t, byID["3"].IsWinner)
}

func TestTallyIgnoresSuicideAndTeamKill(t *testing.T) {
	tl := newTally()
	a := actor{ID: 1, Team: "T", Side: "T"}
	b := actor{ID: 2, Team: "T", Side: "T"}

	tl.kill(a, a, nil)
	tl.kill(a, b, nil)
	tl.hurt(a, a, 50)

	m := tl.match()
	require.Len(t, m.Stats, 2)
	assert.Zero(t, m.Stats[0].Kills)
	assert.Zero(t, m.Stats[0].Damage)
	assert.Equal(t, 1, m.Stats[0].Deaths)
	assert.Equal(t, 1, m.Stats[1].Deaths)
}

func TestTallyTieHasNoWinner(t *testing.T) {
	tl := newTally()
	a := actor{ID: 1, Team: "Alpha", Side: "T"}
	b := actor{ID: 2, Team: "Beta", Side: "CT"}
	tl.roundEnd("T", []actor{a, b})
	tl.roundEnd("CT", []actor{a, b})
	tl.roundEnd("", []actor{a, b})

	m := tl.match()
	assert.Equal(t, model.Rounds{Raw1: 1, Raw2: 1}, m.Kind)
	assert.Nil(t, m.Winner)
	for _, s := range m.Stats {
		assert.False(t, s.IsWinner)
		assert.Equal(t, 3, s.RoundsPlayed)
	}
}

func TestTallyEmpty(t *testing.T) {
	m := newTally().match()
	assert.Equal(t, model.Rounds{}, m.Kind)
	assert.Empty(t, m.Stats)
	assert.Nil(t, m.Winner)
}

func TestTallyStrayTeamKeyKeepsAttribution(t *testing.T) {
	tl := newTally()
	a := actor{ID: 1, Team: "Alpha", Side: "CT"}
	b := actor{ID: 2, Team: "Beta", Side: "T"}
	// Late joiner without clan state falls back to its side as key.
	stray := actor{ID: 3, Team: "T", Side: "T"}

	tl.roundEnd("CT", []actor{a, b})
	tl.roundEnd("CT", []actor{a, b})
	tl.roundEnd("T", []actor{a, b})
	tl.kill(a, stray, nil)

	m := tl.match()
	assert.Equal(t, model.Rounds{Raw1: 2, Raw2: 1}, m.Kind)
	require.NotNil(t, m.Winner)
	require.Len(t, m.Stats, 3)
	assert.Equal(t, "Alpha", m.Stats[0].RawTeamID)
	assert.Equal(t, "Beta", m.Stats[1].RawTeamID)
	assert.Empty(t, m.Stats[2].RawTeamID)
	assert.False(t, m.Stats[2].IsWinner)

	series := &model.Series{
		TeamA: &model.Team{ID: "ta", Name: "Alpha"},
		TeamB: &model.Team{ID: "tb", Name: "Beta"},
	}
	m.Winner = series.TeamNamed(m.Winner.Name)
	require.NotNil(t, m.Winner)

	rows := aggregator.DefaultProviders.Tag(series, &m, 0)
	require.Len(t, rows, 3)
	assert.Equal(t, model.SlotA, rows[0].Slot)
	assert.Equal(t, model.SlotB, rows[1].Slot)
	assert.Equal(t, model.SlotUnknown, rows[2].Slot)
}
