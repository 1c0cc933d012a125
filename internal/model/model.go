package model

import "strings"

// Slot is the canonical side a stat row is attributed to within a series.
type Slot int

const (
	SlotUnknown Slot = 0
	SlotA       Slot = 1
	SlotB       Slot = 2
)

func (s Slot) String() string {
	switch s {
	case SlotA:
		return "TeamA"
	case SlotB:
		return "TeamB"
	default:
		return "Unknown"
	}
}

// Opposite returns the other series slot. Unknown has no opposite.
func (s Slot) Opposite() Slot {
	switch s {
	case SlotA:
		return SlotB
	case SlotB:
		return SlotA
	default:
		return SlotUnknown
	}
}

// Providers that assign external player identifiers.
const (
	ProviderFACEIT = "faceit" // primary FPS provider
	ProviderSteam  = "steam"  // SteamID64 from parsed demos
	ProviderRiot   = "riot"   // MOBA provider
)

// ---- Entities owned by the record store ----

type Team struct {
	ID   string
	Name string
	Tag  string
}

type Player struct {
	ID     string
	Name   string
	TeamID string // empty if free agent
}

// GameProfile links an external provider identity to an internal Player.
type GameProfile struct {
	Provider   string
	ExternalID string
	PlayerID   string
}

type Tournament struct {
	ID   string
	Name string
}

// MatchKind distinguishes round-scored matches from objective-only ones.
// Implementations: Rounds, Objective.
type MatchKind interface {
	Kind() string
}

// Rounds carries the two round counts exactly as the source reported them.
// Their order says nothing about TeamA/TeamB.
type Rounds struct {
	Raw1, Raw2 int
}

func (Rounds) Kind() string { return "rounds" }

// Objective is a match decided without round counts (MOBA).
type Objective struct{}

func (Objective) Kind() string { return "objective" }

// KindFromString maps a stored kind label back to an empty MatchKind value.
func KindFromString(s string, raw1, raw2 int) MatchKind {
	if s == "objective" {
		return Objective{}
	}
	return Rounds{Raw1: raw1, Raw2: raw2}
}

// PlayerStat is one player's raw statistics row for one match.
// RawTeamID is only meaningful within its match.
type PlayerStat struct {
	RawPlayerID string
	RawTeamID   string
	IsWinner    bool

	Kills        int
	Deaths       int
	Assists      int
	Damage       int
	RoundsPlayed int
}

type Match struct {
	ID         string
	ExternalID string
	Source     string // provider that produced RawPlayerID values
	MapID      string
	MapName    string
	Winner     *Team // nil until the match is completed
	Kind       MatchKind
	Stats      []PlayerStat
}

// Series is a best-of-N between two teams. Either team may be nil while the
// bracket slot is unresolved.
type Series struct {
	ID             string
	TournamentID   string
	TournamentName string
	TeamA, TeamB   *Team
	Winner         *Team
	Finished       bool
	BestOf         int
	Matches        []Match
}

// SlotOf reports which series slot the given team occupies.
func (s *Series) SlotOf(t *Team) Slot {
	if s == nil || t == nil || t.ID == "" {
		return SlotUnknown
	}
	if s.TeamA != nil && s.TeamA.ID == t.ID {
		return SlotA
	}
	if s.TeamB != nil && s.TeamB.ID == t.ID {
		return SlotB
	}
	return SlotUnknown
}

// TeamNamed returns the series team whose name equals name ignoring case and
// surrounding space, or nil.
func (s *Series) TeamNamed(name string) *Team {
	name = strings.TrimSpace(name)
	if s == nil || name == "" {
		return nil
	}
	for _, t := range []*Team{s.TeamA, s.TeamB} {
		if t != nil && strings.EqualFold(strings.TrimSpace(t.Name), name) {
			return t
		}
	}
	return nil
}

// TeamFor returns the team in the given slot, or nil.
func (s *Series) TeamFor(slot Slot) *Team {
	switch slot {
	case SlotA:
		return s.TeamA
	case SlotB:
		return s.TeamB
	default:
		return nil
	}
}

// ---- Derived, never persisted ----

// MatchSummary is the display form of one match, scores already attributed
// to TeamA/TeamB.
type MatchSummary struct {
	MatchID     string
	MapID       string
	MapName     string
	Kind        string
	TeamARounds int
	TeamBRounds int
	TotalRounds int
	WinnerSlot  Slot
	WinnerLabel string
}

// PlayerSeriesAggregate holds one resolved player's totals across a series
// (or across one map of it).
type PlayerSeriesAggregate struct {
	PlayerID   string
	PlayerName string
	Slot       Slot

	Kills        int
	Deaths       int
	Assists      int
	Damage       int
	RoundsPlayed int
	MapsPlayed   int

	IsWinner bool
	Rating   float64
}

func (a *PlayerSeriesAggregate) KDRatio() float64 {
	if a.Deaths == 0 {
		return float64(a.Kills)
	}
	return float64(a.Kills) / float64(a.Deaths)
}

func (a *PlayerSeriesAggregate) ADR() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.Damage) / float64(a.RoundsPlayed)
}

func (a *PlayerSeriesAggregate) KPR() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.Kills) / float64(a.RoundsPlayed)
}

// TeamGroup is one side's players plus summed totals.
type TeamGroup struct {
	Slot      Slot
	Team      *Team
	Players   []PlayerSeriesAggregate
	Kills     int
	Deaths    int
	Assists   int
	Damage    int
	AvgRating float64
}

// TeamGroups splits aggregates by slot. Unknown-slot players are kept apart
// so they never appear under either team.
type TeamGroups struct {
	A, B    TeamGroup
	Unknown []PlayerSeriesAggregate
}
