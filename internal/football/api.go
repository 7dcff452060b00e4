// Package football is the data access layer for the sports API: typed
// per-endpoint operations composed from a TTL cache and a hard-timeout
// fetcher.
package football

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Rui6filipe/Augusta/internal/cache"
)

// EndpointPolicy fixes the caching behavior of one logical operation.
// A zero TTL means the operation is never cached. Failures and empty
// responses are never cached unless explicitly opted in; caching a
// transient failure would poison reads for the whole TTL window.
type EndpointPolicy struct {
	TTL        time.Duration
	CacheEmpty bool
	CacheError bool
}

// Per-endpoint policies. Stable entities (team, venue, player identity)
// carry long TTLs; short-lived predictive data carries minutes; anything
// the user expects to be live is always fetched fresh.
var (
	policyTeamSearch     = EndpointPolicy{TTL: 30 * 24 * time.Hour}
	policyStandings      = EndpointPolicy{}
	policyHeadToHead     = EndpointPolicy{}
	policyTeamFixtures   = EndpointPolicy{TTL: 24 * time.Hour}
	policyPredictions    = EndpointPolicy{TTL: 5 * time.Minute}
	policyFixtureEvents  = EndpointPolicy{}
	policyPlayerProfiles = EndpointPolicy{TTL: 7 * 24 * time.Hour}
	policyPlayerStats    = EndpointPolicy{}
	policyCoachSearch    = EndpointPolicy{TTL: 7 * 24 * time.Hour}
	policyVenueSearch    = EndpointPolicy{TTL: 30 * 24 * time.Hour}
	policyOdds           = EndpointPolicy{}
)

// fetchFunc issues one outbound call; satisfied by (*Fetcher).Fetch.
type fetchFunc func(ctx context.Context, req Request) (json.RawMessage, error)

// API exposes the per-endpoint operations.
type API struct {
	baseURL     string
	apiKey      string
	store       *cache.Store
	fetch       fetchFunc
	softTimeout time.Duration
	debug       bool
}

// NewAPI builds the facade. store may be nil to disable caching entirely
// (every call goes to the network).
func NewAPI(baseURL, apiKey string, store *cache.Store, fetcher *Fetcher, softTimeout time.Duration, debug bool) *API {
	return &API{
		baseURL:     baseURL,
		apiKey:      apiKey,
		store:       store,
		fetch:       fetcher.Fetch,
		softTimeout: softTimeout,
		debug:       debug,
	}
}

// cachedFailure is the marker stored when a policy opts into caching
// failures. Response payloads are always JSON arrays, so the object shape
// cannot collide with a real payload.
type cachedFailure struct {
	Kind   ErrorKind `json:"cached_error"`
	Detail string    `json:"detail,omitempty"`
}

// do runs the cache-then-fetch flow for one operation and returns the raw
// response array.
func (a *API) do(ctx context.Context, key string, policy EndpointPolicy, path string, params map[string]string) (json.RawMessage, error) {
	if policy.TTL > 0 && a.store != nil {
		if cached, ok := a.store.Get(key); ok {
			var marker cachedFailure
			if err := json.Unmarshal(cached, &marker); err == nil && marker.Kind != "" {
				return nil, &Error{Kind: marker.Kind, Detail: marker.Detail}
			}
			if a.debug {
				fmt.Printf("[football] cache hit for %s\n", key)
			}
			return json.RawMessage(cached), nil
		}
	}

	payload, err := a.fetch(ctx, Request{
		URL:                a.baseURL + path,
		Header:             map[string]string{"x-apisports-key": a.apiKey},
		Params:             params,
		SoftTimeoutSeconds: int(a.softTimeout / time.Second),
	})
	if err != nil {
		a.maybeCacheFailure(key, policy, err)
		return nil, err
	}

	response, err := parseEnvelope(payload)
	if err != nil {
		a.maybeCacheFailure(key, policy, err)
		return nil, err
	}

	if policy.TTL > 0 && a.store != nil {
		if !isEmptyResponse(response) || policy.CacheEmpty {
			if err := a.store.Set(key, response, policy.TTL); err != nil && a.debug {
				fmt.Printf("[football] cache write failed for %s: %v\n", key, err)
			}
		}
	}
	return response, nil
}

func (a *API) maybeCacheFailure(key string, policy EndpointPolicy, err error) {
	if !policy.CacheError || policy.TTL <= 0 || a.store == nil {
		return
	}
	kind := KindOf(err)
	if kind == "" {
		return
	}
	marker, marshalErr := json.Marshal(cachedFailure{Kind: kind, Detail: err.Error()})
	if marshalErr != nil {
		return
	}
	if err := a.store.Set(key, marker, policy.TTL); err != nil && a.debug {
		fmt.Printf("[football] cache write failed for %s: %v\n", key, err)
	}
}

// SearchTeam looks a team up by name. Team identity is stable, so results
// are cached for 30 days.
func (a *API) SearchTeam(ctx context.Context, name string) ([]TeamEntry, error) {
	key := cache.Key("team", name)
	raw, err := a.do(ctx, key, policyTeamSearch, "/teams", map[string]string{"search": name})
	if err != nil {
		return nil, err
	}
	return decodeResponse[TeamEntry](raw)
}

// Standings returns the table for a league season. Live data, never
// cached.
func (a *API) Standings(ctx context.Context, leagueID, season int) ([]StandingsEntry, error) {
	params := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(season),
	}
	raw, err := a.do(ctx, "", policyStandings, "/standings", params)
	if err != nil {
		return nil, err
	}
	return decodeResponse[StandingsEntry](raw)
}

// HeadToHead returns fixtures between two teams for a season. leagueID 0
// omits the league filter. Never cached: recent meetings change.
func (a *API) HeadToHead(ctx context.Context, team1ID, team2ID, season, leagueID int) ([]Fixture, error) {
	params := map[string]string{
		"h2h":    fmt.Sprintf("%d-%d", team1ID, team2ID),
		"season": strconv.Itoa(season),
	}
	if leagueID != 0 {
		params["league"] = strconv.Itoa(leagueID)
	}
	raw, err := a.do(ctx, "", policyHeadToHead, "/fixtures/headtohead", params)
	if err != nil {
		return nil, err
	}
	return decodeResponse[Fixture](raw)
}

// TeamFixtures returns a team's fixtures for a season, optionally bounded
// by a from/to date range (YYYY-MM-DD). Cached for a day.
func (a *API) TeamFixtures(ctx context.Context, teamID, season int, fromDate, toDate string) ([]Fixture, error) {
	key := cache.Key("fixtures", strconv.Itoa(teamID), strconv.Itoa(season), fromDate, toDate)
	params := map[string]string{
		"team":   strconv.Itoa(teamID),
		"season": strconv.Itoa(season),
	}
	if fromDate != "" {
		params["from"] = fromDate
	}
	if toDate != "" {
		params["to"] = toDate
	}
	raw, err := a.do(ctx, key, policyTeamFixtures, "/fixtures", params)
	if err != nil {
		return nil, err
	}
	return decodeResponse[Fixture](raw)
}

// Predictions returns pre-match predictions for a fixture. Short-lived
// predictive data: cached for five minutes.
func (a *API) Predictions(ctx context.Context, fixtureID int) ([]PredictionEntry, error) {
	key := cache.Key("predictions", strconv.Itoa(fixtureID))
	raw, err := a.do(ctx, key, policyPredictions, "/predictions", map[string]string{"fixture": strconv.Itoa(fixtureID)})
	if err != nil {
		return nil, err
	}
	return decodeResponse[PredictionEntry](raw)
}

// FixtureEvents returns the events of a fixture, optionally filtered by
// team or player id (0 omits the filter). Live data, never cached.
func (a *API) FixtureEvents(ctx context.Context, fixtureID, teamID, playerID int) ([]EventEntry, error) {
	params := map[string]string{"fixture": strconv.Itoa(fixtureID)}
	if teamID != 0 {
		params["team"] = strconv.Itoa(teamID)
	}
	if playerID != 0 {
		params["player"] = strconv.Itoa(playerID)
	}
	raw, err := a.do(ctx, "", policyFixtureEvents, "/fixtures/events", params)
	if err != nil {
		return nil, err
	}
	return decodeResponse[EventEntry](raw)
}

// PlayerProfiles searches players by last name. Identity data, cached for
// a week.
func (a *API) PlayerProfiles(ctx context.Context, lastname string, page int) ([]PlayerProfileEntry, error) {
	if page <= 0 {
		page = 1
	}
	key := cache.Key("player_profiles", lastname, strconv.Itoa(page))
	params := map[string]string{"search": lastname, "page": strconv.Itoa(page)}
	raw, err := a.do(ctx, key, policyPlayerProfiles, "/players/profiles", params)
	if err != nil {
		return nil, err
	}
	return decodeResponse[PlayerProfileEntry](raw)
}

// PlayerStatsQuery selects players for PlayerStats; zero values omit the
// corresponding filter.
type PlayerStatsQuery struct {
	Name     string
	PlayerID int
	Season   int
	LeagueID int
	TeamID   int
}

// PlayerStats fetches player statistics. Current-season stats move with
// every match day, so this is never cached.
func (a *API) PlayerStats(ctx context.Context, q PlayerStatsQuery) ([]PlayerStatsEntry, error) {
	params := map[string]string{}
	if q.Name != "" {
		params["search"] = q.Name
	}
	if q.PlayerID != 0 {
		params["id"] = strconv.Itoa(q.PlayerID)
	}
	if q.Season != 0 {
		params["season"] = strconv.Itoa(q.Season)
	}
	if q.LeagueID != 0 {
		params["league"] = strconv.Itoa(q.LeagueID)
	}
	if q.TeamID != 0 {
		params["team"] = strconv.Itoa(q.TeamID)
	}
	raw, err := a.do(ctx, "", policyPlayerStats, "/players", params)
	if err != nil {
		return nil, err
	}
	return decodeResponse[PlayerStatsEntry](raw)
}

// CoachSearch looks a coach up by name. Cached for a week.
func (a *API) CoachSearch(ctx context.Context, name string) ([]CoachEntry, error) {
	key := cache.Key("coach", name)
	raw, err := a.do(ctx, key, policyCoachSearch, "/coachs", map[string]string{"search": name})
	if err != nil {
		return nil, err
	}
	return decodeResponse[CoachEntry](raw)
}

// VenueSearch looks a venue up by name. Venue identity is stable, cached
// for 30 days.
func (a *API) VenueSearch(ctx context.Context, name string) ([]VenueEntry, error) {
	key := cache.Key("venue", name)
	raw, err := a.do(ctx, key, policyVenueSearch, "/venues", map[string]string{"search": name})
	if err != nil {
		return nil, err
	}
	return decodeResponse[VenueEntry](raw)
}

// Odds returns betting odds for a fixture. Odds drift constantly, never
// cached.
func (a *API) Odds(ctx context.Context, fixtureID int) ([]OddsEntry, error) {
	raw, err := a.do(ctx, "", policyOdds, "/odds", map[string]string{"fixture": strconv.Itoa(fixtureID)})
	if err != nil {
		return nil, err
	}
	return decodeResponse[OddsEntry](raw)
}
