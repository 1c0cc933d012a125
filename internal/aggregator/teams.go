package aggregator

import (
	"sort"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

// GroupByTeam splits rated aggregates into the two series sides. Players
// whose slot stayed Unknown are returned separately and never counted in a
// team's totals.
func GroupByTeam(series *model.Series, players []model.PlayerSeriesAggregate) model.TeamGroups {
	groups := model.TeamGroups{
		A: model.TeamGroup{Slot: model.SlotA},
		B: model.TeamGroup{Slot: model.SlotB},
	}
	if series != nil {
		groups.A.Team = series.TeamA
		groups.B.Team = series.TeamB
	}

	for _, p := range players {
		switch p.Slot {
		case model.SlotA:
			addToGroup(&groups.A, p)
		case model.SlotB:
			addToGroup(&groups.B, p)
		default:
			groups.Unknown = append(groups.Unknown, p)
		}
	}
	finishGroup(&groups.A)
	finishGroup(&groups.B)
	return groups
}

func addToGroup(g *model.TeamGroup, p model.PlayerSeriesAggregate) {
	g.Players = append(g.Players, p)
	g.Kills += p.Kills
	g.Deaths += p.Deaths
	g.Assists += p.Assists
	g.Damage += p.Damage
}

func finishGroup(g *model.TeamGroup) {
	if len(g.Players) == 0 {
		return
	}
	sum := 0.0
	for _, p := range g.Players {
		sum += p.Rating
	}
	g.AvgRating = sum / float64(len(g.Players))
	sort.SliceStable(g.Players, func(i, j int) bool {
		return g.Players[i].Rating > g.Players[j].Rating
	})
}
