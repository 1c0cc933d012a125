package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotString(t *testing.T) {
	assert.Equal(t, "TeamA", SlotA.String())
	assert.Equal(t, "TeamB", SlotB.String())
	assert.Equal(t, "Unknown", SlotUnknown.String())
	assert.Equal(t, SlotB, SlotA.Opposite())
	assert.Equal(t, SlotA, SlotB.Opposite())
	assert.Equal(t, SlotUnknown, SlotUnknown.Opposite())
}

func TestKindFromString(t *testing.T) {
	assert.Equal(t, Rounds{Raw1: 13, Raw2: 4}, KindFromString("rounds", 13, 4))
	assert.Equal(t, Objective{}, KindFromString("objective", 1, 0))
	assert.Equal(t, Rounds{}, KindFromString("", 0, 0))
}

func TestSeriesTeamLookup(t *testing.T) {
	a := &Team{ID: "a", Name: "Alpha"}
	b := &Team{ID: "b", Name: "Beta"}
	s := &Series{TeamA: a, TeamB: b}

	assert.Equal(t, SlotA, s.SlotOf(&Team{ID: "a"}))
	assert.Equal(t, SlotB, s.SlotOf(b))
	assert.Equal(t, SlotUnknown, s.SlotOf(&Team{ID: "c"}))
	assert.Equal(t, SlotUnknown, s.SlotOf(nil))
	assert.Equal(t, SlotUnknown, (&Series{}).SlotOf(&Team{ID: ""}))

	assert.Same(t, b, s.TeamFor(SlotB))
	assert.Nil(t, s.TeamFor(SlotUnknown))

	assert.Same(t, a, s.TeamNamed(" alpha "))
	assert.Nil(t, s.TeamNamed("gamma"))
	assert.Nil(t, s.TeamNamed(""))
}

func TestAggregateRatios(t *testing.T) {
	a := PlayerSeriesAggregate{Kills: 30, Deaths: 0, Damage: 2200, RoundsPlayed: 44}
	assert.Equal(t, 30.0, a.KDRatio(), "deathless K/D is kills")
	assert.InDelta(t, 50.0, a.ADR(), 1e-9)
	assert.InDelta(t, 30.0/44.0, a.KPR(), 1e-9)

	var zero PlayerSeriesAggregate
	assert.Zero(t, zero.ADR())
	assert.Zero(t, zero.KPR())
}
