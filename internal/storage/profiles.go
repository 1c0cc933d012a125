package storage

import (
	"context"
	"fmt"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

type profileKey struct {
	provider   string
	externalID string
}

// ProfileIndex is an in-memory snapshot of game profile links. It is
// read-only after LoadProfiles returns and safe for concurrent use.
type ProfileIndex struct {
	byKey map[profileKey]model.Player
}

// NewProfileIndex builds an index from explicit links. Profiles whose
// PlayerID is missing from players are dropped.
func NewProfileIndex(players []model.Player, profiles []model.GameProfile) *ProfileIndex {
	byID := make(map[string]model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	idx := &ProfileIndex{byKey: make(map[profileKey]model.Player, len(profiles))}
	for _, gp := range profiles {
		p, ok := byID[gp.PlayerID]
		if !ok {
			continue
		}
		idx.byKey[profileKey{gp.Provider, gp.ExternalID}] = p
	}
	return idx
}

// ResolvePlayer returns the player linked to the provider identity.
func (x *ProfileIndex) ResolvePlayer(provider, rawPlayerID string) (model.Player, bool) {
	if x == nil || rawPlayerID == "" {
		return model.Player{}, false
	}
	p, ok := x.byKey[profileKey{provider, rawPlayerID}]
	return p, ok
}

// Len returns the number of linked identities.
func (x *ProfileIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byKey)
}

// LoadProfiles snapshots every game profile link together with its player.
func (db *DB) LoadProfiles(ctx context.Context) (*ProfileIndex, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT gp.provider, gp.external_id, p.id, p.name, COALESCE(p.team_id, '')
		FROM game_profiles gp
		JOIN players p ON p.id = gp.player_id`)
	if err != nil {
		return nil, fmt.Errorf("query game profiles: %w", err)
	}
	defer rows.Close()

	idx := &ProfileIndex{byKey: make(map[profileKey]model.Player)}
	for rows.Next() {
		var k profileKey
		var p model.Player
		if err := rows.Scan(&k.provider, &k.externalID, &p.ID, &p.Name, &p.TeamID); err != nil {
			return nil, err
		}
		idx.byKey[k] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	db.logger.Debug().Int("profiles", len(idx.byKey)).Msg("game profiles loaded")
	return idx, nil
}
