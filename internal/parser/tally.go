package parser

import (
	"sort"
	"strconv"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

// actor is a demo participant as seen by one event. Team is the stable key
// used as the raw team id; Side is the side the player is on right now.
type actor struct {
	ID   uint64
	Team string
	Side string
}

type line struct {
	team    string
	kills   int
	deaths  int
	assists int
	damage  int
	rounds  int
}

// tally accumulates per-player stat lines and per-team round wins from a
// stream of demo events. A player's team key is fixed the first time the
// player is seen, so halftime side swaps do not split a team.
type tally struct {
	order   []uint64
	players map[uint64]*line
	teams   []string
	wins    map[string]int
}

func newTally() *tally {
	return &tally{
		players: make(map[uint64]*line),
		wins:    make(map[string]int),
	}
}

func (t *tally) see(a actor) *line {
	if l, ok := t.players[a.ID]; ok {
		return l
	}
	l := &line{team: a.Team}
	t.players[a.ID] = l
	t.order = append(t.order, a.ID)
	if _, ok := t.wins[a.Team]; !ok {
		t.wins[a.Team] = 0
		t.teams = append(t.teams, a.Team)
	}
	return l
}

func (t *tally) kill(killer, victim actor, assister *actor) {
	if victim.ID == 0 {
		return
	}
	t.see(victim).deaths++
	if killer.ID != 0 && killer.ID != victim.ID && killer.Side != victim.Side {
		t.see(killer).kills++
	}
	if assister != nil && assister.ID != 0 && assister.Side != victim.Side {
		t.see(*assister).assists++
	}
}

func (t *tally) hurt(attacker, victim actor, dmg int) {
	if attacker.ID == 0 || attacker.ID == victim.ID || attacker.Side == victim.Side || dmg <= 0 {
		return
	}
	t.see(attacker).damage += dmg
}

// roundEnd credits a round to everyone playing and a win to the team whose
// players stand on winnerSide.
func (t *tally) roundEnd(winnerSide string, playing []actor) {
	votes := make(map[string]int)
	for _, a := range playing {
		if a.ID == 0 {
			continue
		}
		l := t.see(a)
		l.rounds++
		if winnerSide != "" && a.Side == winnerSide {
			votes[l.team]++
		}
	}
	best, bestVotes := "", 0
	for _, key := range t.teams {
		if votes[key] > bestVotes {
			best, bestVotes = key, votes[key]
		}
	}
	if best != "" {
		t.wins[best]++
	}
}

// match renders the tally as a Rounds-kind match. Raw scores follow team
// first-appearance order; the team with more round wins is the winner.
// Rows keyed to a team outside the kept two carry no raw team id.
func (t *tally) match() model.Match {
	teams := t.teams
	if len(teams) > 2 {
		// A stray key from a late joiner; keep the two with most wins.
		teams = append([]string(nil), teams...)
		sort.SliceStable(teams, func(i, j int) bool {
			return t.wins[teams[i]] > t.wins[teams[j]]
		})
		teams = teams[:2]
	}

	var raw [2]int
	kept := make(map[string]bool, len(teams))
	for i, key := range teams {
		raw[i] = t.wins[key]
		kept[key] = true
	}
	winner := ""
	switch {
	case len(teams) == 2 && raw[0] > raw[1]:
		winner = teams[0]
	case len(teams) == 2 && raw[1] > raw[0]:
		winner = teams[1]
	}

	m := model.Match{
		Source: model.ProviderSteam,
		Kind:   model.Rounds{Raw1: raw[0], Raw2: raw[1]},
	}
	if winner != "" {
		m.Winner = &model.Team{Name: winner}
	}
	for _, id := range t.order {
		l := t.players[id]
		team := l.team
		if !kept[team] {
			team = ""
		}
		m.Stats = append(m.Stats, model.PlayerStat{
			RawPlayerID:  strconv.FormatUint(id, 10),
			RawTeamID:    team,
			IsWinner:     winner != "" && team == winner,
			Kills:        l.kills,
			Deaths:       l.deaths,
			Assists:      l.assists,
			Damage:       l.damage,
			RoundsPlayed: l.rounds,
		})
	}
	return m
}
