// Package bot maps extracted intents onto the football data layer and
// composes the user-facing replies.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rui6filipe/Augusta/internal/ai"
	"github.com/Rui6filipe/Augusta/internal/football"
)

const (
	msgUnknownIntent  = "Ainda não sei responder a esse tipo de pergunta."
	msgTryAgainLater  = "Não consegui obter os dados de futebol neste momento. Tente novamente mais tarde."
	msgNoTeam         = "Não consegui identificar a equipa."
	msgNoTeams        = "Não consegui identificar as equipas."
	msgNoMatchTeams   = "Não consegui identificar as equipas do jogo."
	msgTeamNotFound   = "Não encontrei uma das equipas."
	msgNoTeamOrSeason = "Não consegui identificar a equipa ou a época."
	msgNoPlayer       = "Não consegui identificar o jogador."
	msgNoEventType    = "Não consegui identificar o tipo de evento."
)

var eventLabels = map[string]string{
	"goal":     "Golos",
	"card":     "Cartões",
	"subst":    "Substituições",
	"var":      "VAR",
	"incident": "Incidentes",
}

var statLabels = map[string]string{
	"goals.total":       "Golos",
	"goals.assists":     "Assistências",
	"games.appearences": "Jogos",
	"games.minutes":     "Minutos jogados",
	"shots.on":          "Remates à baliza",
	"passes.key":        "Passes-chave",
	"passes.accuracy":   "Precisão de passe",
	"dribbles.success":  "Dribles com sucesso",
	"cards.yellow":      "Cartões amarelos",
	"cards.red":         "Cartões vermelhos",
}

// defaultStats are reported when the user asked about a player without
// naming specific statistics.
var defaultStats = []string{"goals.total", "goals.assists", "games.appearences"}

// DataSource is the slice of the data access layer the handlers consume.
// Satisfied by *football.API.
type DataSource interface {
	SearchTeam(ctx context.Context, name string) ([]football.TeamEntry, error)
	Standings(ctx context.Context, leagueID, season int) ([]football.StandingsEntry, error)
	HeadToHead(ctx context.Context, team1ID, team2ID, season, leagueID int) ([]football.Fixture, error)
	TeamFixtures(ctx context.Context, teamID, season int, fromDate, toDate string) ([]football.Fixture, error)
	Predictions(ctx context.Context, fixtureID int) ([]football.PredictionEntry, error)
	FixtureEvents(ctx context.Context, fixtureID, teamID, playerID int) ([]football.EventEntry, error)
	PlayerStats(ctx context.Context, q football.PlayerStatsQuery) ([]football.PlayerStatsEntry, error)
}

// Handlers resolves intents against the data access layer.
type Handlers struct {
	api   DataSource
	now   func() time.Time
	debug bool
}

// New builds the intent handlers.
func New(api DataSource, debug bool) *Handlers {
	return &Handlers{api: api, now: time.Now, debug: debug}
}

// Handle dispatches an intent to its handler and returns the reply. A
// data-layer failure is never presented as an empty-but-valid result: it
// always becomes the try-again message.
func (h *Handlers) Handle(ctx context.Context, intent ai.Intent) string {
	switch intent.Intent {
	case ai.IntentTeamStanding:
		return h.handleTeamStanding(ctx, intent)
	case ai.IntentMatchResult:
		return h.handleMatchResult(ctx, intent)
	case ai.IntentTeamFixtures:
		return h.handleTeamFixtures(ctx, intent)
	case ai.IntentMatchEvents:
		return h.handleMatchEvents(ctx, intent)
	case ai.IntentPlayerStats:
		return h.handlePlayerStats(ctx, intent)
	default:
		return msgUnknownIntent
	}
}

// seasonOrCurrent fills the default season.
func (h *Handlers) seasonOrCurrent(season string) string {
	if season == "" {
		return ai.CurrentSeason(h.now())
	}
	return season
}

// findTeam resolves a team name to its identity via the cached team
// search. The bool reports whether the team exists; the error reports a
// data-layer failure.
func (h *Handlers) findTeam(ctx context.Context, name string) (football.Team, bool, error) {
	entries, err := h.api.SearchTeam(ctx, name)
	if err != nil {
		return football.Team{}, false, err
	}
	if len(entries) == 0 {
		return football.Team{}, false, nil
	}
	return entries[0].Team, true, nil
}

func (h *Handlers) handleTeamStanding(ctx context.Context, intent ai.Intent) string {
	if intent.Team1 == "" {
		return msgNoTeam
	}
	season := h.seasonOrCurrent(intent.Season)

	team, found, err := h.findTeam(ctx, intent.Team1)
	if err != nil {
		return msgTryAgainLater
	}
	if !found {
		return fmt.Sprintf("Não encontrei a equipa %s.", intent.Team1)
	}

	// Explicit competition wins; otherwise fall back to the team's
	// national league.
	league, ok := football.LeagueByCompetition(intent.Competition)
	if !ok {
		league, ok = football.LeagueByCountry(team.Country)
	}
	if !ok {
		return fmt.Sprintf("Não encontrei classificações para %s em %s.", intent.Team1, season)
	}

	standings, err := h.api.Standings(ctx, league.ID, ai.SeasonStartYear(season, h.now()))
	if err != nil {
		return msgTryAgainLater
	}
	if len(standings) == 0 || len(standings[0].League.Standings) == 0 {
		return fmt.Sprintf("Não encontrei classificações para %s em %s.", intent.Team1, season)
	}

	for _, row := range standings[0].League.Standings[0] {
		if row.Team.ID == team.ID {
			return fmt.Sprintf("O %s terminou em %dº lugar na %s na época %s.", intent.Team1, row.Rank, league.Name, season)
		}
	}
	return fmt.Sprintf("Não encontrei a posição do %s em %s na %s.", intent.Team1, season, league.Name)
}

func (h *Handlers) handleMatchResult(ctx context.Context, intent ai.Intent) string {
	if intent.Team1 == "" || intent.Team2 == "" {
		return msgNoTeams
	}
	season := h.seasonOrCurrent(intent.Season)

	team1, found1, err1 := h.findTeam(ctx, intent.Team1)
	team2, found2, err2 := h.findTeam(ctx, intent.Team2)
	if err1 != nil || err2 != nil {
		return msgTryAgainLater
	}
	if !found1 || !found2 {
		return msgTeamNotFound
	}

	league, _ := football.LeagueByCompetition(intent.Competition)

	matches, err := h.api.HeadToHead(ctx, team1.ID, team2.ID, ai.SeasonStartYear(season, h.now()), league.ID)
	if err != nil {
		return msgTryAgainLater
	}
	if len(matches) == 0 {
		if intent.Competition != "" {
			return fmt.Sprintf("Não encontrei resultados entre %s e %s em %s para %s.", intent.Team1, intent.Team2, season, intent.Competition)
		}
		return fmt.Sprintf("Não encontrei resultados entre %s e %s em %s.", intent.Team1, intent.Team2, season)
	}

	match := matches[0]
	if match.Goals.Home == nil || match.Goals.Away == nil {
		return fmt.Sprintf("O jogo %s vs %s ainda não tem resultado.", match.Teams.Home.Name, match.Teams.Away.Name)
	}

	date := matchDate(match)
	if league.Name != "" {
		return fmt.Sprintf("%s: %s %d - %d %s (%s)", date, match.Teams.Home.Name, *match.Goals.Home, *match.Goals.Away, match.Teams.Away.Name, league.Name)
	}
	return fmt.Sprintf("%s: %s %d - %d %s", date, match.Teams.Home.Name, *match.Goals.Home, *match.Goals.Away, match.Teams.Away.Name)
}

func (h *Handlers) handleTeamFixtures(ctx context.Context, intent ai.Intent) string {
	if intent.Team1 == "" || intent.Season == "" {
		return msgNoTeamOrSeason
	}
	season := intent.Season

	team, found, err := h.findTeam(ctx, intent.Team1)
	if err != nil {
		return msgTryAgainLater
	}
	if !found {
		return fmt.Sprintf("Não encontrei a equipa %s.", intent.Team1)
	}

	var fromDate, toDate string
	if p := intent.FixturePeriod; p != nil && p.Start != "" && p.End != "" {
		fromDate = isoDate(p.Start)
		toDate = isoDate(p.End)
	}

	fixtures, err := h.api.TeamFixtures(ctx, team.ID, ai.SeasonStartYear(season, h.now()), fromDate, toDate)
	if err != nil {
		return msgTryAgainLater
	}
	if len(fixtures) == 0 {
		return fmt.Sprintf("Não encontrei jogos para o %s em %s.", intent.Team1, season)
	}

	ranked := h.rankByDifficulty(ctx, fixtures, intent.Team1, intent.FixtureType == "easiest")
	if len(ranked) == 0 {
		return fmt.Sprintf("Não há jogos com probabilidade prevista para o %s em %s.", intent.Team1, season)
	}

	top := ranked[0]
	label := "Jogo mais difícil"
	if intent.FixtureType == "easiest" {
		label = "Jogo mais fácil"
	}
	return fmt.Sprintf("%s: %s: %s vs %s (probabilidade de vitória: %.0f%%)",
		label, matchDate(top.fixture), top.fixture.Teams.Home.Name, top.fixture.Teams.Away.Name, top.winProbability*100)
}

func (h *Handlers) handleMatchEvents(ctx context.Context, intent ai.Intent) string {
	if intent.Team1 == "" || intent.Team2 == "" {
		return msgNoMatchTeams
	}
	if len(intent.Event) == 0 {
		return msgNoEventType
	}
	season := h.seasonOrCurrent(intent.Season)

	team1, found1, err1 := h.findTeam(ctx, intent.Team1)
	team2, found2, err2 := h.findTeam(ctx, intent.Team2)
	if err1 != nil || err2 != nil {
		return msgTryAgainLater
	}
	if !found1 || !found2 {
		return msgTeamNotFound
	}

	league, _ := football.LeagueByCompetition(intent.Competition)

	matches, err := h.api.HeadToHead(ctx, team1.ID, team2.ID, ai.SeasonStartYear(season, h.now()), league.ID)
	if err != nil {
		return msgTryAgainLater
	}
	if len(matches) == 0 {
		return fmt.Sprintf("Não encontrei o jogo entre %s e %s em %s.", intent.Team1, intent.Team2, season)
	}

	events, err := h.api.FixtureEvents(ctx, matches[0].Fixture.ID, 0, 0)
	if err != nil {
		return msgTryAgainLater
	}

	eventType := strings.ToLower(intent.Event[0])
	var lines []string
	for _, e := range events {
		if !strings.EqualFold(e.Type, eventType) {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %d': %s (%s) - %s", e.Time.Elapsed, e.Player.Name, e.Team.Name, e.Detail))
	}

	label, ok := eventLabels[eventType]
	if !ok {
		label = eventType
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Não encontrei %s no jogo %s vs %s.", label, intent.Team1, intent.Team2)
	}
	return fmt.Sprintf("%s no jogo %s vs %s:\n%s", label, intent.Team1, intent.Team2, strings.Join(lines, "\n"))
}

func (h *Handlers) handlePlayerStats(ctx context.Context, intent ai.Intent) string {
	if intent.Player == "" {
		return msgNoPlayer
	}
	season := h.seasonOrCurrent(intent.Season)
	seasonStart := ai.SeasonStartYear(season, h.now())

	search, err := h.api.PlayerStats(ctx, football.PlayerStatsQuery{Name: intent.Player})
	if err != nil {
		return msgTryAgainLater
	}
	if len(search) == 0 {
		return fmt.Sprintf("Não encontrei o jogador %s.", intent.Player)
	}
	player := search[0].Player

	stats, err := h.api.PlayerStats(ctx, football.PlayerStatsQuery{PlayerID: player.ID, Season: seasonStart})
	if err != nil {
		return msgTryAgainLater
	}
	if len(stats) == 0 || len(stats[0].Statistics) == 0 {
		return fmt.Sprintf("Não encontrei estatísticas para %s na época %s.", intent.Player, season)
	}
	block := stats[0].Statistics[0]

	requested := []string(intent.Stat)
	if len(requested) == 0 {
		requested = defaultStats
	}

	var lines []string
	for _, key := range requested {
		label, ok := statLabels[key]
		if !ok {
			label = key
		}
		if value, ok := block.Stat(key); ok {
			lines = append(lines, fmt.Sprintf("- %s: %d", label, value))
		} else {
			lines = append(lines, fmt.Sprintf("- %s: não disponível", label))
		}
	}
	return fmt.Sprintf("Estatísticas de %s em %s:\n%s", intent.Player, season, strings.Join(lines, "\n"))
}

// matchDate truncates a fixture's ISO timestamp to its date part.
func matchDate(f football.Fixture) string {
	return isoDate(f.Fixture.Date)
}

func isoDate(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}
