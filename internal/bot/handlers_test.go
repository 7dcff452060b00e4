package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Rui6filipe/Augusta/internal/ai"
	"github.com/Rui6filipe/Augusta/internal/football"
)

func intPtr(v int) *int { return &v }

// fakeData is a canned DataSource. Unset fields return empty results;
// err fails every call.
type fakeData struct {
	teams       map[string][]football.TeamEntry
	standings   []football.StandingsEntry
	headToHead  []football.Fixture
	fixtures    []football.Fixture
	predictions map[int][]football.PredictionEntry
	events      []football.EventEntry
	statsByName []football.PlayerStatsEntry
	statsByID   []football.PlayerStatsEntry
	err         error
}

func (f *fakeData) SearchTeam(ctx context.Context, name string) ([]football.TeamEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teams[strings.ToLower(name)], nil
}

func (f *fakeData) Standings(ctx context.Context, leagueID, season int) ([]football.StandingsEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.standings, nil
}

func (f *fakeData) HeadToHead(ctx context.Context, team1ID, team2ID, season, leagueID int) ([]football.Fixture, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.headToHead, nil
}

func (f *fakeData) TeamFixtures(ctx context.Context, teamID, season int, fromDate, toDate string) ([]football.Fixture, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fixtures, nil
}

func (f *fakeData) Predictions(ctx context.Context, fixtureID int) ([]football.PredictionEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.predictions[fixtureID], nil
}

func (f *fakeData) FixtureEvents(ctx context.Context, fixtureID, teamID, playerID int) ([]football.EventEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeData) PlayerStats(ctx context.Context, q football.PlayerStatsQuery) ([]football.PlayerStatsEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if q.Name != "" {
		return f.statsByName, nil
	}
	return f.statsByID, nil
}

func newTestHandlers(data DataSource) *Handlers {
	h := New(data, false)
	h.now = func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func teamEntry(id int, name, country string) []football.TeamEntry {
	return []football.TeamEntry{{Team: football.Team{ID: id, Name: name, Country: country}}}
}

func TestHandleUnknownIntent(t *testing.T) {
	h := newTestHandlers(&fakeData{})
	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentUnknown})
	if got != msgUnknownIntent {
		t.Errorf("reply = %q, want %q", got, msgUnknownIntent)
	}
}

func TestHandleTeamStanding(t *testing.T) {
	data := &fakeData{
		teams: map[string][]football.TeamEntry{"benfica": teamEntry(211, "Benfica", "Portugal")},
		standings: []football.StandingsEntry{{
			League: football.StandingsLeague{
				ID:   94,
				Name: "Primeira Liga",
				Standings: [][]football.StandingRow{{
					{Rank: 1, Team: football.Team{ID: 228, Name: "Sporting CP"}, Points: 90},
					{Rank: 2, Team: football.Team{ID: 211, Name: "Benfica"}, Points: 88},
				}},
			},
		}},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{
		Intent: ai.IntentTeamStanding,
		Team1:  "Benfica",
		Season: "2024/2025",
	})
	want := "O Benfica terminou em 2º lugar na Primeira Liga na época 2024/2025."
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestHandleTeamStandingDataFailure(t *testing.T) {
	data := &fakeData{err: &football.Error{Kind: football.KindTimeout, Detail: "hard timeout"}}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentTeamStanding, Team1: "Benfica"})
	if got != msgTryAgainLater {
		t.Errorf("data failure reply = %q, want %q", got, msgTryAgainLater)
	}
}

func TestHandleTeamStandingTeamNotFound(t *testing.T) {
	h := newTestHandlers(&fakeData{})
	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentTeamStanding, Team1: "Atlantis FC"})
	if !strings.Contains(got, "Não encontrei a equipa") {
		t.Errorf("reply = %q, want a team-not-found message", got)
	}
}

func TestHandleTeamStandingMissingTeam(t *testing.T) {
	h := newTestHandlers(&fakeData{})
	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentTeamStanding})
	if got != msgNoTeam {
		t.Errorf("reply = %q, want %q", got, msgNoTeam)
	}
}

func TestHandleMatchResult(t *testing.T) {
	data := &fakeData{
		teams: map[string][]football.TeamEntry{
			"porto":   teamEntry(212, "FC Porto", "Portugal"),
			"benfica": teamEntry(211, "Benfica", "Portugal"),
		},
		headToHead: []football.Fixture{{
			Fixture: football.FixtureInfo{ID: 900, Date: "2023-10-29T20:30:00+00:00"},
			Teams: football.FixtureTeams{
				Home: football.FixtureTeam{ID: 212, Name: "FC Porto"},
				Away: football.FixtureTeam{ID: 211, Name: "Benfica"},
			},
			Goals: football.Goals{Home: intPtr(0), Away: intPtr(1)},
		}},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{
		Intent: ai.IntentMatchResult,
		Team1:  "Porto",
		Team2:  "Benfica",
		Season: "2023/2024",
	})
	want := "2023-10-29: FC Porto 0 - 1 Benfica"
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestHandleMatchResultNotPlayedYet(t *testing.T) {
	data := &fakeData{
		teams: map[string][]football.TeamEntry{
			"porto":   teamEntry(212, "FC Porto", "Portugal"),
			"benfica": teamEntry(211, "Benfica", "Portugal"),
		},
		headToHead: []football.Fixture{{
			Fixture: football.FixtureInfo{ID: 901, Date: "2025-09-20T20:30:00+00:00"},
			Teams: football.FixtureTeams{
				Home: football.FixtureTeam{ID: 212, Name: "FC Porto"},
				Away: football.FixtureTeam{ID: 211, Name: "Benfica"},
			},
		}},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentMatchResult, Team1: "Porto", Team2: "Benfica"})
	if !strings.Contains(got, "ainda não tem resultado") {
		t.Errorf("reply = %q, want a no-result-yet message", got)
	}
}

func TestHandleTeamFixturesHardestAndEasiest(t *testing.T) {
	fixtures := []football.Fixture{
		{
			Fixture: football.FixtureInfo{ID: 1, Date: "2025-09-06T20:00:00+00:00"},
			Teams: football.FixtureTeams{
				Home: football.FixtureTeam{ID: 228, Name: "Sporting CP"},
				Away: football.FixtureTeam{ID: 240, Name: "Farense"},
			},
		},
		{
			Fixture: football.FixtureInfo{ID: 2, Date: "2025-09-13T20:00:00+00:00"},
			Teams: football.FixtureTeams{
				Home: football.FixtureTeam{ID: 212, Name: "FC Porto"},
				Away: football.FixtureTeam{ID: 228, Name: "Sporting CP"},
			},
		},
	}
	data := &fakeData{
		teams:    map[string][]football.TeamEntry{"sporting cp": teamEntry(228, "Sporting CP", "Portugal")},
		fixtures: fixtures,
		predictions: map[int][]football.PredictionEntry{
			1: {{Predictions: football.Predictions{Percent: football.PredictionPercent{Home: "70%", Draw: "20%", Away: "10%"}}}},
			2: {{Predictions: football.Predictions{Percent: football.PredictionPercent{Home: "45%", Draw: "25%", Away: "30%"}}}},
		},
	}
	h := newTestHandlers(data)

	hardest := h.Handle(context.Background(), ai.Intent{
		Intent:      ai.IntentTeamFixtures,
		Team1:       "Sporting CP",
		Season:      "2025/2026",
		FixtureType: "hardest",
	})
	// Sporting is away in fixture 2 with 30%: the hardest game.
	if !strings.Contains(hardest, "FC Porto vs Sporting CP") || !strings.Contains(hardest, "30%") {
		t.Errorf("hardest reply = %q, want the 30%% away game", hardest)
	}
	if !strings.HasPrefix(hardest, "Jogo mais difícil") {
		t.Errorf("hardest reply = %q, want the hardest-game label", hardest)
	}

	easiest := h.Handle(context.Background(), ai.Intent{
		Intent:      ai.IntentTeamFixtures,
		Team1:       "Sporting CP",
		Season:      "2025/2026",
		FixtureType: "easiest",
	})
	if !strings.Contains(easiest, "Sporting CP vs Farense") || !strings.Contains(easiest, "70%") {
		t.Errorf("easiest reply = %q, want the 70%% home game", easiest)
	}
}

func TestHandleTeamFixturesRequiresSeason(t *testing.T) {
	h := newTestHandlers(&fakeData{})
	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentTeamFixtures, Team1: "Sporting CP"})
	if got != msgNoTeamOrSeason {
		t.Errorf("reply = %q, want %q", got, msgNoTeamOrSeason)
	}
}

func TestHandleTeamFixturesNoPredictions(t *testing.T) {
	data := &fakeData{
		teams: map[string][]football.TeamEntry{"sporting cp": teamEntry(228, "Sporting CP", "Portugal")},
		fixtures: []football.Fixture{{
			Fixture: football.FixtureInfo{ID: 1, Date: "2025-09-06T20:00:00+00:00"},
			Teams: football.FixtureTeams{
				Home: football.FixtureTeam{ID: 228, Name: "Sporting CP"},
				Away: football.FixtureTeam{ID: 240, Name: "Farense"},
			},
		}},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{
		Intent: ai.IntentTeamFixtures,
		Team1:  "Sporting CP",
		Season: "2025/2026",
	})
	if !strings.Contains(got, "probabilidade prevista") {
		t.Errorf("reply = %q, want a no-predictions message", got)
	}
}

func TestHandleMatchEvents(t *testing.T) {
	data := &fakeData{
		teams: map[string][]football.TeamEntry{
			"porto":   teamEntry(212, "FC Porto", "Portugal"),
			"benfica": teamEntry(211, "Benfica", "Portugal"),
		},
		headToHead: []football.Fixture{{
			Fixture: football.FixtureInfo{ID: 900, Date: "2023-10-29T20:30:00+00:00"},
			Teams: football.FixtureTeams{
				Home: football.FixtureTeam{ID: 212, Name: "FC Porto"},
				Away: football.FixtureTeam{ID: 211, Name: "Benfica"},
			},
		}},
		events: []football.EventEntry{
			{
				Time:   football.EventTime{Elapsed: 68},
				Team:   football.Team{ID: 211, Name: "Benfica"},
				Player: football.NamedRef{Name: "Rafa Silva"},
				Type:   "Goal",
				Detail: "Normal Goal",
			},
			{
				Time:   football.EventTime{Elapsed: 75},
				Team:   football.Team{ID: 212, Name: "FC Porto"},
				Player: football.NamedRef{Name: "Pepe"},
				Type:   "Card",
				Detail: "Yellow Card",
			},
		},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{
		Intent: ai.IntentMatchEvents,
		Team1:  "Porto",
		Team2:  "Benfica",
		Season: "2023/2024",
		Event:  ai.FlexibleStrings{"goal"},
	})
	if !strings.Contains(got, "Rafa Silva") {
		t.Errorf("reply = %q, want the goal scorer", got)
	}
	if strings.Contains(got, "Pepe") {
		t.Errorf("reply = %q, card event leaked into a goals query", got)
	}
}

func TestHandleMatchEventsRequiresEventType(t *testing.T) {
	h := newTestHandlers(&fakeData{})
	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentMatchEvents, Team1: "Porto", Team2: "Benfica"})
	if got != msgNoEventType {
		t.Errorf("reply = %q, want %q", got, msgNoEventType)
	}
}

func TestHandlePlayerStats(t *testing.T) {
	entry := football.PlayerStatsEntry{
		Player: football.Player{ID: 1496, Name: "Viktor Gyökeres"},
		Statistics: []football.PlayerStatistics{{
			Team:  football.Team{ID: 228, Name: "Sporting CP"},
			Games: football.GameStats{Appearences: intPtr(33), Minutes: intPtr(2900)},
			Goals: football.GoalStats{Total: intPtr(29), Assists: intPtr(10)},
		}},
	}
	data := &fakeData{
		statsByName: []football.PlayerStatsEntry{{Player: entry.Player}},
		statsByID:   []football.PlayerStatsEntry{entry},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{
		Intent: ai.IntentPlayerStats,
		Player: "Gyökeres",
		Season: "2024/2025",
		Stat:   ai.FlexibleStrings{"goals.total", "cards.red"},
	})
	if !strings.Contains(got, "Golos: 29") {
		t.Errorf("reply = %q, want the goal count", got)
	}
	if !strings.Contains(got, "Cartões vermelhos: não disponível") {
		t.Errorf("reply = %q, want an unavailable marker for missing stats", got)
	}
}

func TestHandlePlayerStatsDefaultsStats(t *testing.T) {
	entry := football.PlayerStatsEntry{
		Player: football.Player{ID: 1496, Name: "Viktor Gyökeres"},
		Statistics: []football.PlayerStatistics{{
			Games: football.GameStats{Appearences: intPtr(33)},
			Goals: football.GoalStats{Total: intPtr(29), Assists: intPtr(10)},
		}},
	}
	data := &fakeData{
		statsByName: []football.PlayerStatsEntry{{Player: entry.Player}},
		statsByID:   []football.PlayerStatsEntry{entry},
	}
	h := newTestHandlers(data)

	got := h.Handle(context.Background(), ai.Intent{Intent: ai.IntentPlayerStats, Player: "Gyökeres"})
	for _, want := range []string{"Golos: 29", "Assistências: 10", "Jogos: 33"} {
		if !strings.Contains(got, want) {
			t.Errorf("reply = %q, missing %q", got, want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "45%", want: 0.45, wantOK: true},
		{in: " 100% ", want: 1, wantOK: true},
		{in: "0%", want: 0, wantOK: true},
		{in: "", wantOK: false},
		{in: "n/a", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := parsePercent(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("parsePercent(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTeamMatches(t *testing.T) {
	tests := []struct {
		api, user string
		want      bool
	}{
		{api: "Sporting CP", user: "Sporting", want: true},
		{api: "FC Porto", user: "porto", want: true},
		{api: "Benfica", user: "SL Benfica", want: true},
		{api: "Braga", user: "Boavista", want: false},
		{api: "", user: "Benfica", want: false},
	}
	for _, tt := range tests {
		if got := teamMatches(tt.api, tt.user); got != tt.want {
			t.Errorf("teamMatches(%q, %q) = %v, want %v", tt.api, tt.user, got, tt.want)
		}
	}
}
