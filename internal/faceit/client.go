// Package faceit provides a minimal client for the FACEIT Data API v4.
package faceit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the root endpoint for the FACEIT Data API v4.
const DefaultBaseURL = "https://open.faceit.com/data/v4"

// APIError is returned for any non-200 response.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Status)
}

// Client is a minimal FACEIT Data API v4 client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns a FACEIT API client authenticated with the given API key.
// An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Faction is one side of a FACEIT match.
type Faction struct {
	FactionID string `json:"faction_id"`
	Name      string `json:"name"`
}

// MatchDetail holds the fields we need from /matches/{id}.
type MatchDetail struct {
	MatchID string `json:"match_id"`
	Status  string `json:"status"`
	Teams   struct {
		Faction1 Faction `json:"faction1"`
		Faction2 Faction `json:"faction2"`
	} `json:"teams"`
	Results struct {
		Winner string         `json:"winner"` // "faction1" or "faction2"
		Score  map[string]int `json:"score"`
	} `json:"results"`
	Voting struct {
		Map struct {
			Pick []string `json:"pick"`
		} `json:"map"`
	} `json:"voting"`
}

// MapName returns the picked map name, or empty string if unavailable.
func (m *MatchDetail) MapName() string {
	if len(m.Voting.Map.Pick) > 0 {
		return m.Voting.Map.Pick[0]
	}
	return ""
}

// WinnerName returns the name of the winning faction, or "" while the match
// is undecided.
func (m *MatchDetail) WinnerName() string {
	switch m.Results.Winner {
	case "faction1":
		return m.Teams.Faction1.Name
	case "faction2":
		return m.Teams.Faction2.Name
	default:
		return ""
	}
}

// MatchStats is the body of /matches/{id}/stats. FACEIT reports every
// statistic as a string.
type MatchStats struct {
	Rounds []RoundStats `json:"rounds"`
}

// RoundStats is one map of a FACEIT match.
type RoundStats struct {
	MatchID    string            `json:"match_id"`
	RoundStats map[string]string `json:"round_stats"`
	Teams      []TeamStats       `json:"teams"`
}

// TeamStats is one faction's block in a RoundStats.
type TeamStats struct {
	TeamID    string            `json:"team_id"`
	TeamStats map[string]string `json:"team_stats"`
	Players   []PlayerStats     `json:"players"`
}

// PlayerStats is one player's block in a TeamStats.
type PlayerStats struct {
	PlayerID    string            `json:"player_id"`
	Nickname    string            `json:"nickname"`
	PlayerStats map[string]string `json:"player_stats"`
}

// get performs an authenticated GET request against the FACEIT API and
// JSON-decodes the response body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Path: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// GetMatch returns details for a single match: factions, map pick and result.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchDetail, error) {
	var m MatchDetail
	if err := c.get(ctx, "/matches/"+url.PathEscape(matchID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMatchStats returns per-map player statistics for a finished match.
func (c *Client) GetMatchStats(ctx context.Context, matchID string) (*MatchStats, error) {
	var s MatchStats
	if err := c.get(ctx, "/matches/"+url.PathEscape(matchID)+"/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
