package aggregator

import (
	"sort"
	"strings"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
	"github.com/BalkanaOrg/Balkana-sub000/internal/rating"
)

// PlayerResolver translates an external player identifier into an internal
// Player. Implementations must be safe for concurrent use.
type PlayerResolver interface {
	ResolvePlayer(provider, rawPlayerID string) (model.Player, bool)
}

// TaggedStat is a stat row together with the slot its match resolved it to.
type TaggedStat struct {
	MatchIndex int
	Provider   string
	Slot       model.Slot
	model.PlayerStat
}

// Providers names the provider assumed for matches that carry no Source.
type Providers struct {
	FPS  string // round-scored matches
	MOBA string // objective matches
}

// DefaultProviders are used when a Builder is not configured otherwise.
var DefaultProviders = Providers{FPS: model.ProviderFACEIT, MOBA: model.ProviderRiot}

// For returns the provider whose ids a match's stat rows carry.
func (p Providers) For(match *model.Match) string {
	if match.Source != "" {
		return match.Source
	}
	if _, ok := match.Kind.(model.Objective); ok {
		return p.MOBA
	}
	return p.FPS
}

// Tag resolves the slot of every stat row of one match.
func (p Providers) Tag(series *model.Series, match *model.Match, matchIndex int) []TaggedStat {
	if len(match.Stats) == 0 {
		return nil
	}
	resolver := NewSlotResolver(series, match)
	provider := p.For(match)

	out := make([]TaggedStat, 0, len(match.Stats))
	for _, st := range match.Stats {
		out = append(out, TaggedStat{
			MatchIndex: matchIndex,
			Provider:   provider,
			Slot:       resolver.Resolve(st),
			PlayerStat: st,
		})
	}
	return out
}

// Totals maps player id to that player's running aggregate.
type Totals map[string]*model.PlayerSeriesAggregate

// FoldStats counts what a fold did with its input rows.
type FoldStats struct {
	Rows        int
	Skipped     int // player could not be resolved
	UnknownSlot int
}

// Fold folds tagged rows into per-player totals. Rows are applied in order, so
// the slot and winner flag of the last contributing row win. A player's maps
// counter rises once per distinct match index.
func Fold(rows []TaggedStat, players PlayerResolver) (Totals, FoldStats) {
	totals := make(Totals)
	var fs FoldStats

	type seenKey struct {
		playerID   string
		matchIndex int
	}
	seen := make(map[seenKey]struct{})

	for _, row := range rows {
		fs.Rows++
		p, ok := resolve(players, row.Provider, row.RawPlayerID)
		if !ok {
			fs.Skipped++
			continue
		}
		if row.Slot == model.SlotUnknown {
			fs.UnknownSlot++
		}

		agg := totals[p.ID]
		if agg == nil {
			agg = &model.PlayerSeriesAggregate{PlayerID: p.ID, PlayerName: p.Name}
			totals[p.ID] = agg
		}
		agg.Kills += row.Kills
		agg.Deaths += row.Deaths
		agg.Assists += row.Assists
		agg.Damage += row.Damage
		agg.RoundsPlayed += row.RoundsPlayed
		agg.IsWinner = row.IsWinner
		if row.Slot != model.SlotUnknown {
			agg.Slot = row.Slot
		}

		k := seenKey{p.ID, row.MatchIndex}
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			agg.MapsPlayed++
		}
	}
	return totals, fs
}

func resolve(players PlayerResolver, provider, rawID string) (model.Player, bool) {
	if players == nil || rawID == "" {
		return model.Player{}, false
	}
	p, ok := players.ResolvePlayer(provider, rawID)
	if !ok || p.ID == "" {
		return model.Player{}, false
	}
	return p, true
}

// Merge adds src into dst field by field. src is treated as the later
// partial: its winner flag and any known slot overwrite dst's.
// Partials must come from disjoint matches for MapsPlayed to stay exact.
func Merge(dst, src Totals) {
	for id, s := range src {
		d := dst[id]
		if d == nil {
			cp := *s
			dst[id] = &cp
			continue
		}
		d.Kills += s.Kills
		d.Deaths += s.Deaths
		d.Assists += s.Assists
		d.Damage += s.Damage
		d.RoundsPlayed += s.RoundsPlayed
		d.MapsPlayed += s.MapsPlayed
		d.IsWinner = s.IsWinner
		if s.Slot != model.SlotUnknown {
			d.Slot = s.Slot
		}
		if d.PlayerName == "" {
			d.PlayerName = s.PlayerName
		}
	}
}

// Rate computes the rating of every aggregate and returns them in display
// order: TeamA, TeamB, Unknown; rating descending within a slot.
func Rate(totals Totals) []model.PlayerSeriesAggregate {
	out := make([]model.PlayerSeriesAggregate, 0, len(totals))
	for _, agg := range totals {
		a := *agg
		a.Rating = rating.Compute(a.Kills, a.Deaths, a.RoundsPlayed)
		out = append(out, a)
	}
	SortAggregates(out)
	return out
}

// SortAggregates orders by slot (TeamA, TeamB, Unknown), then rating
// descending, then player id so equal inputs always print the same way.
func SortAggregates(aggs []model.PlayerSeriesAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		si, sj := slotOrder(aggs[i].Slot), slotOrder(aggs[j].Slot)
		if si != sj {
			return si < sj
		}
		if aggs[i].Rating != aggs[j].Rating {
			return aggs[i].Rating > aggs[j].Rating
		}
		return aggs[i].PlayerID < aggs[j].PlayerID
	})
}

func slotOrder(s model.Slot) int {
	switch s {
	case model.SlotA:
		return 0
	case model.SlotB:
		return 1
	default:
		return 2
	}
}

// matchesMap reports whether a match passes the caller's map filter.
// The filter matches the map id exactly or the map name case-insensitively.
func matchesMap(m *model.Match, filter string) bool {
	if filter == "" {
		return true
	}
	return m.MapID == filter || strings.EqualFold(m.MapName, filter)
}

// mapKey groups matches by map: the map id, else the lower-cased map name.
func mapKey(m *model.Match) string {
	if m.MapID != "" {
		return m.MapID
	}
	return strings.ToLower(m.MapName)
}
