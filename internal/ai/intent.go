package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Intent types the model may return.
const (
	IntentTeamStanding = "get_team_standing"
	IntentMatchResult  = "get_match_result"
	IntentMatchEvents  = "get_match_events"
	IntentTeamFixtures = "get_team_fixtures"
	IntentPlayerStats  = "get_player_stats"
	IntentUnknown      = "unknown"
)

// FlexibleStrings accepts either a JSON string or an array of strings;
// the model returns both shapes for event and stat fields.
type FlexibleStrings []string

func (fs *FlexibleStrings) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*fs = []string{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*fs = many
		return nil
	}
	// Null or an unexpected shape: leave empty rather than failing the
	// whole intent.
	*fs = nil
	return nil
}

// FixturePeriod bounds a fixtures query; Start and End are ISO datetimes.
type FixturePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Intent is the structured extraction of one user question.
type Intent struct {
	Intent        string          `json:"intent"`
	Player        string          `json:"player"`
	Team1         string          `json:"team1"`
	Team2         string          `json:"team2"`
	Season        string          `json:"season"`
	Event         FlexibleStrings `json:"event"`
	Stat          FlexibleStrings `json:"stat"`
	Competition   string          `json:"competition"`
	FixtureType   string          `json:"fixture_type"`
	FixturePeriod *FixturePeriod  `json:"fixture_period"`
}

// ParseIntent decodes the model output, falling back to an unknown intent
// on any parse failure so the caller always gets a usable value.
func ParseIntent(data []byte) Intent {
	var intent Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return Intent{Intent: IntentUnknown}
	}
	if intent.Intent == "" {
		intent.Intent = IntentUnknown
	}
	return intent
}

// CurrentSeason returns the season string for now, e.g. "2025/2026".
// European seasons roll over in July.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.July {
		return fmt.Sprintf("%d/%d", year, year+1)
	}
	return fmt.Sprintf("%d/%d", year-1, year)
}

// SeasonStartYear resolves a season string ("2024/2025" or "2024") to its
// starting year, defaulting to the current season when absent or
// unparseable.
func SeasonStartYear(season string, now time.Time) int {
	if season == "" {
		season = CurrentSeason(now)
	}
	first := strings.SplitN(season, "/", 2)[0]
	year, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return SeasonStartYear(CurrentSeason(now), now)
	}
	return year
}

// intentPrompt builds the extraction prompt with the current date so the
// model can resolve relative seasons and periods.
func intentPrompt(question string, now time.Time) string {
	currentDate := now.Format("2006-01-02")
	currentSeason := CurrentSeason(now)
	lastSeason := CurrentSeason(now.AddDate(-1, 0, 0))

	schema := fmt.Sprintf(`You must return a JSON object with these fields:
- intent: one of ["get_team_standing", "get_match_result", "get_match_events", "get_team_fixtures", "get_player_stats"]
- player: string (official name of player as listed in major football databases, or null if not relevant)
- team1: string (official name of first team mentioned as listed in major football databases, or null if not relevant)
- team2: string (official name of a possible second team mentioned as listed in major football databases, or null if not relevant)
- season: string (e.g. "2022/2023", "2024"), or null if not given
- event: string or list of strings, game event(s), one or more of ["goal", "card", "subst", "var", "incident"], or null if not relevant
- stat: string or list of strings, player stat(s), one or more of ["goals.total", "goals.assists", "games.appearences", "games.minutes", "shots.on", "passes.key", "passes.accuracy", "dribbles.success", "cards.yellow", "cards.red"], or null if not relevant
- competition: string (e.g. "Primeira Liga", "Premier League", "La Liga", "Bundesliga", "Serie A", "Ligue 1", "Eredivisie", "UEFA Champions League", "UEFA Europa League", "UEFA Europa Conference League"), or null if not specified by the user
- fixture_type: string ("hardest" for hardest games, "easiest" for easiest games), or null if not relevant
- fixture_period: an object with two fields, "start" and "end", both ISO datetime strings (e.g. "2025-08-20T00:00:00"), or null if not relevant. Take into account the current day is %s.

Note: The current football season is %s. If the user refers to relative seasons (e.g., "época passada", "last season", "época atual", "this season"), resolve them to the correct season string (e.g., "época passada" = "%s", "época atual" = "%s").`,
		currentDate, currentSeason, lastSeason, currentSeason)

	return fmt.Sprintf("%s\n\nUser query: %s", schema, question)
}
