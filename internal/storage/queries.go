package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BalkanaOrg/Balkana-sub000/internal/model"
)

// ---- Teams and players ----

// CreateTeam inserts a team with a generated id.
func (db *DB) CreateTeam(ctx context.Context, name, tag string) (model.Team, error) {
	t := model.Team{ID: uuid.NewString(), Name: name, Tag: tag}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO teams(id, name, tag) VALUES (?, ?, ?)`, t.ID, t.Name, t.Tag)
	if err != nil {
		return model.Team{}, fmt.Errorf("insert team %q: %w", name, err)
	}
	return t, nil
}

// GetTeam returns the team with the given id, or ErrNotFound.
func (db *DB) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	var t model.Team
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, tag FROM teams WHERE id = ?`, id).Scan(&t.ID, &t.Name, &t.Tag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTeams returns all teams ordered by name.
func (db *DB) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, tag FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Tag); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreatePlayer inserts a player. teamID may be empty.
func (db *DB) CreatePlayer(ctx context.Context, name, teamID string) (model.Player, error) {
	p := model.Player{ID: uuid.NewString(), Name: name, TeamID: teamID}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO players(id, name, team_id) VALUES (?, ?, ?)`, p.ID, p.Name, nullString(teamID))
	if err != nil {
		return model.Player{}, fmt.Errorf("insert player %q: %w", name, err)
	}
	return p, nil
}

// ListPlayers returns all players ordered by name.
func (db *DB) ListPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, COALESCE(team_id, '') FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.TeamID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LinkGameProfile maps a provider identity to a player, replacing any
// previous mapping of that identity.
func (db *DB) LinkGameProfile(ctx context.Context, gp model.GameProfile) error {
	var exists int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM players WHERE id = ?`, gp.PlayerID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("player %s: %w", gp.PlayerID, ErrNotFound)
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO game_profiles(provider, external_id, player_id)
		VALUES (?, ?, ?)`, gp.Provider, gp.ExternalID, gp.PlayerID)
	if err != nil {
		return fmt.Errorf("link %s/%s: %w", gp.Provider, gp.ExternalID, err)
	}
	return nil
}

// ---- Series ----

// SeriesParams describes a series to create.
type SeriesParams struct {
	TournamentName string
	TeamAID        string // optional
	TeamBID        string // optional
	BestOf         int
}

// CreateSeries inserts a series, creating its tournament on first use.
func (db *DB) CreateSeries(ctx context.Context, p SeriesParams) (model.Series, error) {
	if p.BestOf <= 0 {
		p.BestOf = 1
	}
	if p.TeamAID != "" && p.TeamAID == p.TeamBID {
		return model.Series{}, ErrSameTeam
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Series{}, err
	}
	defer tx.Rollback()

	tournamentID, err := ensureTournament(ctx, tx, p.TournamentName)
	if err != nil {
		return model.Series{}, err
	}
	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO series(id, tournament_id, team_a_id, team_b_id, best_of, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, tournamentID, nullString(p.TeamAID), nullString(p.TeamBID), p.BestOf,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return model.Series{}, fmt.Errorf("insert series: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Series{}, err
	}

	s, err := db.getSeriesHeader(ctx, id)
	if err != nil {
		return model.Series{}, err
	}
	return *s, nil
}

// CreateTournament returns the tournament with the given name, creating it
// if needed.
func (db *DB) CreateTournament(ctx context.Context, name string) (model.Tournament, error) {
	id, err := ensureTournament(ctx, db.conn, name)
	if err != nil {
		return model.Tournament{}, err
	}
	return model.Tournament{ID: id, Name: name}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func ensureTournament(ctx context.Context, tx querier, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM tournaments WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tournaments(id, name) VALUES (?, ?)`, id, name); err != nil {
		return "", fmt.Errorf("insert tournament %q: %w", name, err)
	}
	return id, nil
}

// SetSeriesTeams fixes the two teams of a series once the bracket resolves.
// Empty ids clear the slot. A finished series must keep its winner.
func (db *DB) SetSeriesTeams(ctx context.Context, seriesID, teamAID, teamBID string) error {
	if teamAID != "" && teamAID == teamBID {
		return ErrSameTeam
	}
	s, err := db.getSeriesHeader(ctx, seriesID)
	if err != nil {
		return err
	}
	if s.Finished && s.Winner != nil &&
		s.Winner.ID != teamAID && s.Winner.ID != teamBID {
		return fmt.Errorf("series %s is finished: %w", seriesID, ErrInvalidWinner)
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE series SET team_a_id = ?, team_b_id = ? WHERE id = ?`,
		nullString(teamAID), nullString(teamBID), seriesID)
	if err != nil {
		return fmt.Errorf("update series teams: %w", err)
	}
	return requireAffected(res, "series "+seriesID)
}

// FinishSeries marks a series finished with the given winner, which must be
// one of its two teams.
func (db *DB) FinishSeries(ctx context.Context, seriesID, winnerID string) error {
	s, err := db.getSeriesHeader(ctx, seriesID)
	if err != nil {
		return err
	}
	if s.SlotOf(&model.Team{ID: winnerID}) == model.SlotUnknown {
		return ErrInvalidWinner
	}
	_, err = db.conn.ExecContext(ctx,
		`UPDATE series SET winner_team_id = ?, finished = 1 WHERE id = ?`, winnerID, seriesID)
	if err != nil {
		return fmt.Errorf("finish series: %w", err)
	}
	return nil
}

const seriesHeaderQuery = `
	SELECT s.id, s.tournament_id, t.name, s.finished, s.best_of,
	       ta.id, ta.name, ta.tag,
	       tb.id, tb.name, tb.tag,
	       tw.id, tw.name, tw.tag
	FROM series s
	JOIN tournaments t ON t.id = s.tournament_id
	LEFT JOIN teams ta ON ta.id = s.team_a_id
	LEFT JOIN teams tb ON tb.id = s.team_b_id
	LEFT JOIN teams tw ON tw.id = s.winner_team_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeriesHeader(r rowScanner) (*model.Series, error) {
	var s model.Series
	var finished int
	var a, b, w nullTeam
	if err := r.Scan(&s.ID, &s.TournamentID, &s.TournamentName, &finished, &s.BestOf,
		&a.id, &a.name, &a.tag,
		&b.id, &b.name, &b.tag,
		&w.id, &w.name, &w.tag,
	); err != nil {
		return nil, err
	}
	s.Finished = finished != 0
	s.TeamA, s.TeamB, s.Winner = a.team(), b.team(), w.team()
	return &s, nil
}

// GetSeries returns a series header without its matches.
func (db *DB) GetSeries(ctx context.Context, id string) (*model.Series, error) {
	return db.getSeriesHeader(ctx, id)
}

func (db *DB) getSeriesHeader(ctx context.Context, id string) (*model.Series, error) {
	s, err := scanSeriesHeader(db.conn.QueryRowContext(ctx, seriesHeaderQuery+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("series %s: %w", id, ErrNotFound)
	}
	return s, err
}

// ListSeries returns all series headers (without matches), newest first.
func (db *DB) ListSeries(ctx context.Context) ([]model.Series, error) {
	rows, err := db.conn.QueryContext(ctx, seriesHeaderQuery+` ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Series
	for rows.Next() {
		s, err := scanSeriesHeader(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ---- Matches ----

// InsertMatch stores a match and its stat rows under a series. Re-importing
// the same external id replaces the previous rows and keeps the match's
// position. Returns the match id.
func (db *DB) InsertMatch(ctx context.Context, seriesID string, m model.Match) (string, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	mapID := m.MapID
	if mapID == "" {
		mapID = m.MapName
	}
	if mapID != "" {
		if err := upsertMap(ctx, tx, mapID, firstNonEmpty(m.MapName, mapID)); err != nil {
			return "", err
		}
	}

	kind, raw1, raw2 := "rounds", 0, 0
	switch k := m.Kind.(type) {
	case model.Rounds:
		raw1, raw2 = k.Raw1, k.Raw2
	case model.Objective:
		kind = "objective"
	}
	var winnerID any
	if m.Winner != nil && m.Winner.ID != "" {
		winnerID = m.Winner.ID
	}

	var matchID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM matches WHERE series_id = ? AND external_id = ?`,
		seriesID, m.ExternalID).Scan(&matchID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		matchID = firstNonEmpty(m.ID, uuid.NewString())
		_, err = tx.ExecContext(ctx, `
			INSERT INTO matches(id, series_id, external_id, source, kind, map_id,
			                    winner_team_id, raw_score1, raw_score2, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?,
			        (SELECT COALESCE(MAX(position), -1) + 1 FROM matches WHERE series_id = ?))`,
			matchID, seriesID, m.ExternalID, m.Source, kind, nullString(mapID),
			winnerID, raw1, raw2, seriesID)
		if err != nil {
			return "", fmt.Errorf("insert match %s: %w", m.ExternalID, err)
		}
	case err != nil:
		return "", err
	default:
		db.logger.Debug().Str("series_id", seriesID).Str("match_id", matchID).Msg("replacing stored match")
		if _, err := tx.ExecContext(ctx, `DELETE FROM player_stats WHERE match_id = ?`, matchID); err != nil {
			return "", err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE matches SET source = ?, kind = ?, map_id = ?, winner_team_id = ?,
			                   raw_score1 = ?, raw_score2 = ?
			WHERE id = ?`,
			m.Source, kind, nullString(mapID), winnerID, raw1, raw2, matchID)
		if err != nil {
			return "", fmt.Errorf("update match %s: %w", m.ExternalID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO player_stats(
			match_id, position, raw_player_id, raw_team_id, is_winner,
			kills, deaths, assists, damage, rounds_played
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, s := range m.Stats {
		_, err = stmt.ExecContext(ctx,
			matchID, i, s.RawPlayerID, s.RawTeamID, boolInt(s.IsWinner),
			s.Kills, s.Deaths, s.Assists, s.Damage, s.RoundsPlayed,
		)
		if err != nil {
			return "", fmt.Errorf("insert player_stats for %s: %w", s.RawPlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return matchID, nil
}

// UpsertMap stores a map, updating its display name if it already exists.
func (db *DB) UpsertMap(ctx context.Context, id, name string) error {
	return upsertMap(ctx, db.conn, id, firstNonEmpty(name, id))
}

func upsertMap(ctx context.Context, q querier, id, name string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO maps(id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, id, name)
	if err != nil {
		return fmt.Errorf("upsert map %s: %w", id, err)
	}
	return nil
}

// SetMatchWinner records the winning team of a match, which must be one of
// its series' teams. An empty teamID clears it.
func (db *DB) SetMatchWinner(ctx context.Context, matchID, teamID string) error {
	var teamA, teamB sql.NullString
	err := db.conn.QueryRowContext(ctx, `
		SELECT s.team_a_id, s.team_b_id
		FROM matches m JOIN series s ON s.id = m.series_id
		WHERE m.id = ?`, matchID).Scan(&teamA, &teamB)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}
	if teamID != "" && teamID != teamA.String && teamID != teamB.String {
		return ErrInvalidWinner
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE matches SET winner_team_id = ? WHERE id = ?`, nullString(teamID), matchID)
	if err != nil {
		return fmt.Errorf("set match winner: %w", err)
	}
	return requireAffected(res, "match "+matchID)
}

// LoadSeries returns a complete snapshot of a series: its teams, its matches
// in play order, and each match's stat rows in import order.
func (db *DB) LoadSeries(ctx context.Context, id string) (*model.Series, error) {
	s, err := db.getSeriesHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT m.id, m.external_id, m.source, m.kind, COALESCE(m.map_id, ''), COALESCE(mp.name, ''),
		       m.raw_score1, m.raw_score2, w.id, w.name, w.tag
		FROM matches m
		LEFT JOIN maps mp ON mp.id = m.map_id
		LEFT JOIN teams w ON w.id = m.winner_team_id
		WHERE m.series_id = ?
		ORDER BY m.position`, id)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var m model.Match
		var kind string
		var raw1, raw2 int
		var w nullTeam
		if err := rows.Scan(&m.ID, &m.ExternalID, &m.Source, &kind, &m.MapID, &m.MapName,
			&raw1, &raw2, &w.id, &w.name, &w.tag); err != nil {
			rows.Close()
			return nil, err
		}
		m.Kind = model.KindFromString(kind, raw1, raw2)
		m.Winner = w.team()
		index[m.ID] = len(s.Matches)
		s.Matches = append(s.Matches, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(s.Matches) == 0 {
		return s, nil
	}

	statRows, err := db.conn.QueryContext(ctx, `
		SELECT ps.match_id, ps.raw_player_id, ps.raw_team_id, ps.is_winner,
		       ps.kills, ps.deaths, ps.assists, ps.damage, ps.rounds_played
		FROM player_stats ps
		JOIN matches m ON m.id = ps.match_id
		WHERE m.series_id = ?
		ORDER BY m.position, ps.position`, id)
	if err != nil {
		return nil, fmt.Errorf("query player stats: %w", err)
	}
	defer statRows.Close()
	for statRows.Next() {
		var matchID string
		var st model.PlayerStat
		var isWinner int
		if err := statRows.Scan(&matchID, &st.RawPlayerID, &st.RawTeamID, &isWinner,
			&st.Kills, &st.Deaths, &st.Assists, &st.Damage, &st.RoundsPlayed); err != nil {
			return nil, err
		}
		st.IsWinner = isWinner != 0
		i, ok := index[matchID]
		if !ok {
			continue
		}
		s.Matches[i].Stats = append(s.Matches[i].Stats, st)
	}
	if err := statRows.Err(); err != nil {
		return nil, err
	}

	db.logger.Debug().Str("series_id", id).Int("matches", len(s.Matches)).Msg("series loaded")
	return s, nil
}

// QueryRaw runs an arbitrary read query and returns column names and rows
// rendered as strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// ---- helpers ----

type nullTeam struct {
	id, name, tag sql.NullString
}

func (n nullTeam) team() *model.Team {
	if !n.id.Valid {
		return nil
	}
	return &model.Team{ID: n.id.String, Name: n.name.String, Tag: n.tag.String}
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
