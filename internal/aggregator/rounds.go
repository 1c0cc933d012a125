package aggregator

import "github.com/BalkanaOrg/Balkana-sub000/internal/model"

// NormalizeRounds attributes a match's raw round counts to TeamA and TeamB.
// When the winner is a series team it receives the larger count; otherwise
// the raw counts pass through in reported order. Objective matches have no
// rounds and return 0, 0.
func NormalizeRounds(series *model.Series, match *model.Match) (teamA, teamB int) {
	r, ok := match.Kind.(model.Rounds)
	if !ok {
		return 0, 0
	}
	hi, lo := max(r.Raw1, r.Raw2), min(r.Raw1, r.Raw2)
	switch series.SlotOf(match.Winner) {
	case model.SlotA:
		return hi, lo
	case model.SlotB:
		return lo, hi
	default:
		return r.Raw1, r.Raw2
	}
}

// Summarize builds the display summary for one match of the series.
func Summarize(series *model.Series, match *model.Match) model.MatchSummary {
	a, b := NormalizeRounds(series, match)
	s := model.MatchSummary{
		MatchID:     match.ID,
		MapID:       match.MapID,
		MapName:     match.MapName,
		TeamARounds: a,
		TeamBRounds: b,
		TotalRounds: a + b,
		WinnerSlot:  series.SlotOf(match.Winner),
		WinnerLabel: "TBD",
	}
	if match.Kind != nil {
		s.Kind = match.Kind.Kind()
	}
	if match.Winner != nil && match.Winner.Name != "" {
		s.WinnerLabel = match.Winner.Name
	}
	return s
}

// SeriesScore counts maps won by each series team.
func SeriesScore(series *model.Series) (teamA, teamB int) {
	if series == nil {
		return 0, 0
	}
	for i := range series.Matches {
		switch series.SlotOf(series.Matches[i].Winner) {
		case model.SlotA:
			teamA++
		case model.SlotB:
			teamB++
		}
	}
	return teamA, teamB
}
