package parser

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	demoinfocs "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/common"
	"github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/events"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

// ParseDemo parses the CS2 demo at path into a match whose stat rows are
// keyed by SteamID64. Files ending in .gz, .bz2 or .zst are decompressed on
// the fly. The file's SHA-256 is used as the external id so a re-import of
// the same file replaces the earlier one.
func ParseDemo(path string) (model.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Match{}, fmt.Errorf("open demo: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return model.Match{}, fmt.Errorf("hash demo: %w", err)
	}
	demoHash := fmt.Sprintf("%x", h.Sum(nil))

	// Seek back to start for the parser.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return model.Match{}, fmt.Errorf("seek demo: %w", err)
	}

	src, closeSrc, err := decompress(path, f)
	if err != nil {
		return model.Match{}, err
	}
	defer closeSrc()

	p := demoinfocs.NewParser(src)
	defer p.Close()

	t := newTally()
	keys := make(map[uint64]string)
	var roundNumber int

	// Team keys are fixed on first sight.
	toActor := func(pl *common.Player) actor {
		if pl == nil {
			return actor{}
		}
		key, ok := keys[pl.SteamID64]
		if !ok {
			key = teamKey(pl)
			keys[pl.SteamID64] = key
		}
		return actor{ID: pl.SteamID64, Team: key, Side: sideLabel(pl.Team)}
	}

	p.RegisterEventHandler(func(e events.RoundStart) {
		if p.GameState().IsWarmupPeriod() {
			return
		}
		roundNumber++
	})

	p.RegisterEventHandler(func(e events.RoundEnd) {
		if roundNumber == 0 {
			return
		}
		var playing []actor
		for _, pl := range p.GameState().Participants().Playing() {
			if pl == nil || pl.SteamID64 == 0 {
				continue
			}
			playing = append(playing, toActor(pl))
		}
		t.roundEnd(sideLabel(e.Winner), playing)
	})

	p.RegisterEventHandler(func(e events.Kill) {
		if roundNumber == 0 || e.Victim == nil {
			return
		}
		var assister *actor
		if e.Assister != nil {
			a := toActor(e.Assister)
			assister = &a
		}
		t.kill(toActor(e.Killer), toActor(e.Victim), assister)
	})

	p.RegisterEventHandler(func(e events.PlayerHurt) {
		if roundNumber == 0 || e.Attacker == nil || e.Player == nil {
			return
		}
		t.hurt(toActor(e.Attacker), toActor(e.Player), e.HealthDamage)
	})

	if err := p.ParseToEnd(); err != nil {
		return model.Match{}, fmt.Errorf("parse demo: %w", err)
	}

	m := t.match()
	m.ExternalID = demoHash
	m.MapID = p.Header().MapName
	m.MapName = m.MapID
	return m, nil
}

// teamKey is the player's clan tag when the server set one, else the side
// the player started on.
func teamKey(pl *common.Player) string {
	if pl.TeamState != nil {
		if name := strings.TrimSpace(pl.TeamState.ClanName()); name != "" {
			return name
		}
	}
	return sideLabel(pl.Team)
}

func sideLabel(t common.Team) string {
	switch t {
	case common.TeamTerrorists:
		return "T"
	case common.TeamCounterTerrorists:
		return "CT"
	default:
		return ""
	}
}
