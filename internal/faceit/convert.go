package faceit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

// ErrNoStats is returned when a match has no per-map statistics yet.
var ErrNoStats = errors.New("match has no statistics")

// ToMatches converts a FACEIT match into one model.Match per map played.
// Raw team ids are faction ids, raw scores follow the order in which FACEIT
// lists the factions. Match.Winner carries only the winning faction's name;
// binding it to a stored team is left to the caller.
func ToMatches(detail *MatchDetail, stats *MatchStats) ([]model.Match, error) {
	if stats == nil || len(stats.Rounds) == 0 {
		return nil, ErrNoStats
	}
	names := make(map[string]string)
	if detail != nil {
		names[detail.Teams.Faction1.FactionID] = detail.Teams.Faction1.Name
		names[detail.Teams.Faction2.FactionID] = detail.Teams.Faction2.Name
	}

	out := make([]model.Match, 0, len(stats.Rounds))
	for i, r := range stats.Rounds {
		if len(r.Teams) != 2 {
			return nil, fmt.Errorf("map %d: expected 2 teams, got %d", i+1, len(r.Teams))
		}
		matchID := r.MatchID
		if matchID == "" && detail != nil {
			matchID = detail.MatchID
		}
		ext := matchID
		if len(stats.Rounds) > 1 {
			ext = fmt.Sprintf("%s#%d", matchID, i+1)
		}

		mapID := r.RoundStats["Map"]
		if mapID == "" && detail != nil && i == 0 {
			mapID = detail.MapName()
		}
		rounds := atoi(r.RoundStats["Rounds"])

		m := model.Match{
			ExternalID: ext,
			Source:     model.ProviderFACEIT,
			MapID:      mapID,
			MapName:    mapID,
			Kind: model.Rounds{
				Raw1: atoi(r.Teams[0].TeamStats["Final Score"]),
				Raw2: atoi(r.Teams[1].TeamStats["Final Score"]),
			},
		}
		name := names[r.RoundStats["Winner"]]
		if name == "" && len(stats.Rounds) == 1 && detail != nil {
			name = detail.WinnerName()
		}
		if name != "" {
			m.Winner = &model.Team{Name: name}
		}

		for _, t := range r.Teams {
			teamWon := t.TeamStats["Team Win"] == "1" || (t.TeamID != "" && t.TeamID == r.RoundStats["Winner"])
			for _, p := range t.Players {
				ps := p.PlayerStats
				m.Stats = append(m.Stats, model.PlayerStat{
					RawPlayerID:  p.PlayerID,
					RawTeamID:    t.TeamID,
					IsWinner:     ps["Result"] == "1" || teamWon,
					Kills:        atoi(ps["Kills"]),
					Deaths:       atoi(ps["Deaths"]),
					Assists:      atoi(ps["Assists"]),
					Damage:       damage(ps, rounds),
					RoundsPlayed: rounds,
				})
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// damage prefers the absolute figure and falls back to ADR times rounds.
func damage(ps map[string]string, rounds int) int {
	if v, ok := ps["Damage"]; ok {
		return atoi(v)
	}
	adr, err := strconv.ParseFloat(strings.TrimSpace(ps["ADR"]), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(adr * float64(rounds)))
}

func atoi(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
