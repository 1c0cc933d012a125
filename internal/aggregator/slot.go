package aggregator

import "github.com/BalkanaOrg/Balkana-sub000/internal/model"

// SlotResolver maps the raw team identifiers of one match onto the series'
// TeamA/TeamB slots. Raw identifiers are match-scoped, so a resolver must not
// be reused across matches.
//
// Resolution order:
//  1. fewer or more than two distinct raw ids: everything is Unknown;
//  2. the match winner is a series team and exactly one raw id carries
//     winner-flagged rows: that raw id takes the winner's slot, the other
//     raw id the opposite slot;
//  3. the match winner is a series team but the winner flags are split across
//     both raw ids: each row is placed by its own flag;
//  4. otherwise Unknown.
type SlotResolver struct {
	valid         bool
	first, second string
	winner        model.Slot
	anyWinnerFlag bool
	slots         map[string]model.Slot
}

// NewSlotResolver inspects the match's stat rows once and returns a resolver
// valid only for that match.
func NewSlotResolver(series *model.Series, match *model.Match) *SlotResolver {
	r := &SlotResolver{}
	if match == nil {
		return r
	}
	r.winner = series.SlotOf(match.Winner)

	var distinct []string
	seen := make(map[string]struct{})
	flagged := make(map[string]bool)
	for _, st := range match.Stats {
		if st.RawTeamID == "" {
			continue
		}
		if _, ok := seen[st.RawTeamID]; !ok {
			seen[st.RawTeamID] = struct{}{}
			distinct = append(distinct, st.RawTeamID)
		}
		if st.IsWinner {
			flagged[st.RawTeamID] = true
			r.anyWinnerFlag = true
		}
	}

	// Three or more sides means malformed input; two is the only shape we trust.
	if len(distinct) != 2 {
		return r
	}
	r.valid = true
	r.first, r.second = distinct[0], distinct[1]

	if r.winner == model.SlotUnknown {
		return r
	}
	switch {
	case flagged[r.first] && !flagged[r.second]:
		r.slots = map[string]model.Slot{r.first: r.winner, r.second: r.winner.Opposite()}
	case flagged[r.second] && !flagged[r.first]:
		r.slots = map[string]model.Slot{r.second: r.winner, r.first: r.winner.Opposite()}
	}
	return r
}

// Resolve returns the slot for one stat row of the resolver's match.
func (r *SlotResolver) Resolve(st model.PlayerStat) model.Slot {
	if !r.valid || st.RawTeamID == "" {
		return model.SlotUnknown
	}
	if r.slots != nil {
		return r.slots[st.RawTeamID]
	}
	if r.winner == model.SlotUnknown || !r.anyWinnerFlag {
		return model.SlotUnknown
	}
	if st.IsWinner {
		return r.winner
	}
	return r.winner.Opposite()
}

// RawIDs returns the two raw team identifiers in first-seen order, and false
// when the match did not have exactly two.
func (r *SlotResolver) RawIDs() (first, second string, ok bool) {
	return r.first, r.second, r.valid
}
