package football

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the top-level shape of every API response: a "response"
// array (possibly empty) plus an error indicator that may be an object or
// an array depending on the endpoint.
type envelope struct {
	Get      string          `json:"get"`
	Errors   json.RawMessage `json:"errors,omitempty"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

// parseEnvelope validates the envelope and returns the raw response
// array. An API-reported error yields a NetworkError; a structurally
// unexpected document yields Malformed.
func parseEnvelope(payload json.RawMessage) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &Error{Kind: KindMalformed, Detail: fmt.Sprintf("unexpected response envelope: %v", err)}
	}
	if hasAPIError(env.Errors) {
		return nil, &Error{Kind: KindNetwork, Detail: fmt.Sprintf("api error: %s", compactJSON(env.Errors))}
	}
	if len(env.Response) == 0 {
		return nil, &Error{Kind: KindMalformed, Detail: "response field missing"}
	}
	return env.Response, nil
}

// hasAPIError reports whether the errors field carries content. The API
// sends "errors": [] on success and either a non-empty array or an object
// of messages on failure.
func hasAPIError(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return false
	case bytes.Equal(trimmed, []byte("[]")), bytes.Equal(trimmed, []byte("{}")), bytes.Equal(trimmed, []byte("null")):
		return false
	default:
		return true
	}
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// isEmptyResponse reports whether a response array holds no entries.
func isEmptyResponse(raw json.RawMessage) bool {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return false
	}
	return len(entries) == 0
}

// decodeResponse parses a response array into typed entries. A shape
// mismatch is a Malformed failure, never a missing-key fault downstream.
func decodeResponse[T any](raw json.RawMessage) ([]T, error) {
	var entries []T
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &Error{Kind: KindMalformed, Detail: fmt.Sprintf("unexpected response shape: %v", err)}
	}
	return entries, nil
}

// Team identity as returned by /teams.
type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Founded int    `json:"founded,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// Venue identity, optional on team entries.
type Venue struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// TeamEntry is one /teams result.
type TeamEntry struct {
	Team  Team   `json:"team"`
	Venue *Venue `json:"venue,omitempty"`
}

// StandingsEntry is one /standings result.
type StandingsEntry struct {
	League StandingsLeague `json:"league"`
}

// StandingsLeague wraps the nested standings table: the outer slice holds
// one table per group/stage, each a ranked list of rows.
type StandingsLeague struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Season    int             `json:"season,omitempty"`
	Standings [][]StandingRow `json:"standings"`
}

// StandingRow is one ranked team in a standings table.
type StandingRow struct {
	Rank   int    `json:"rank"`
	Team   Team   `json:"team"`
	Points int    `json:"points"`
	Form   string `json:"form,omitempty"`
}

// Fixture is one /fixtures or /fixtures/headtohead result.
type Fixture struct {
	Fixture FixtureInfo  `json:"fixture"`
	League  FixtureGroup `json:"league"`
	Teams   FixtureTeams `json:"teams"`
	Goals   Goals        `json:"goals"`
}

// FixtureInfo identifies a match; Date is an ISO timestamp.
type FixtureInfo struct {
	ID   int    `json:"id"`
	Date string `json:"date"`
}

// FixtureGroup names the competition a fixture belongs to.
type FixtureGroup struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season,omitempty"`
	Round  string `json:"round,omitempty"`
}

// FixtureTeams holds both sides of a fixture.
type FixtureTeams struct {
	Home FixtureTeam `json:"home"`
	Away FixtureTeam `json:"away"`
}

// FixtureTeam is one side; Winner is nil for undecided games.
type FixtureTeam struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Winner *bool  `json:"winner,omitempty"`
}

// Goals are nil before the match has a score.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// PredictionEntry is one /predictions result.
type PredictionEntry struct {
	Predictions Predictions `json:"predictions"`
}

// Predictions carries the pre-match advice; only the percent split is
// consumed here.
type Predictions struct {
	Percent PredictionPercent `json:"percent"`
	Advice  string            `json:"advice,omitempty"`
}

// PredictionPercent holds win probabilities as strings like "45%".
type PredictionPercent struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}

// EventEntry is one /fixtures/events result.
type EventEntry struct {
	Time   EventTime `json:"time"`
	Team   Team      `json:"team"`
	Player NamedRef  `json:"player"`
	Assist *NamedRef `json:"assist,omitempty"`
	Type   string    `json:"type"`
	Detail string    `json:"detail,omitempty"`
}

// EventTime marks when an event happened; Extra covers stoppage time.
type EventTime struct {
	Elapsed int  `json:"elapsed"`
	Extra   *int `json:"extra,omitempty"`
}

// NamedRef is a player/assist reference that may be partially populated.
type NamedRef struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Player identity as returned by /players and /players/profiles.
type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Firstname   string `json:"firstname,omitempty"`
	Lastname    string `json:"lastname,omitempty"`
	Age         int    `json:"age,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// PlayerProfileEntry is one /players/profiles result.
type PlayerProfileEntry struct {
	Player Player `json:"player"`
}

// PlayerStatsEntry is one /players result: a player plus one statistics
// block per team/competition.
type PlayerStatsEntry struct {
	Player     Player             `json:"player"`
	Statistics []PlayerStatistics `json:"statistics"`
}

// PlayerStatistics is the per-competition stat block. Counters are
// pointers because the API omits stats it has no data for.
type PlayerStatistics struct {
	Team     Team         `json:"team"`
	League   FixtureGroup `json:"league"`
	Games    GameStats    `json:"games"`
	Shots    ShotStats    `json:"shots"`
	Goals    GoalStats    `json:"goals"`
	Passes   PassStats    `json:"passes"`
	Dribbles DribbleStats `json:"dribbles"`
	Cards    CardStats    `json:"cards"`
}

type GameStats struct {
	Appearences *int `json:"appearences"`
	Minutes     *int `json:"minutes"`
}

type ShotStats struct {
	Total *int `json:"total"`
	On    *int `json:"on"`
}

type GoalStats struct {
	Total   *int `json:"total"`
	Assists *int `json:"assists"`
}

type PassStats struct {
	Total    *int `json:"total"`
	Key      *int `json:"key"`
	Accuracy *int `json:"accuracy"`
}

type DribbleStats struct {
	Attempts *int `json:"attempts"`
	Success  *int `json:"success"`
}

type CardStats struct {
	Yellow *int `json:"yellow"`
	Red    *int `json:"red"`
}

// Stat returns the counter for a dotted stat key such as "goals.total" or
// "cards.yellow". Unknown keys and absent counters return ok=false.
func (ps PlayerStatistics) Stat(key string) (int, bool) {
	lookup := map[string]*int{
		"games.appearences": ps.Games.Appearences,
		"games.minutes":     ps.Games.Minutes,
		"shots.on":          ps.Shots.On,
		"goals.total":       ps.Goals.Total,
		"goals.assists":     ps.Goals.Assists,
		"passes.key":        ps.Passes.Key,
		"passes.accuracy":   ps.Passes.Accuracy,
		"dribbles.success":  ps.Dribbles.Success,
		"cards.yellow":      ps.Cards.Yellow,
		"cards.red":         ps.Cards.Red,
	}
	value, known := lookup[key]
	if !known || value == nil {
		return 0, false
	}
	return *value, true
}

// CoachEntry is one /coachs result.
type CoachEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
	Team *Team  `json:"team,omitempty"`
}

// VenueEntry is one /venues result.
type VenueEntry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// OddsEntry is one /odds result.
type OddsEntry struct {
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// Bookmaker offers a set of bets for a fixture.
type Bookmaker struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bets []Bet  `json:"bets"`
}

// Bet is one market, e.g. "Match Winner".
type Bet struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Values []BetValue `json:"values"`
}

// BetValue is one priced outcome within a bet.
type BetValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}
