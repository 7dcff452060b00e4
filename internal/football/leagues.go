package football

import "strings"

// League pairs a competition's display name with its API identifier.
type League struct {
	Name string
	ID   int
}

// Leagues maps a country (or European competition code) to its league.
var Leagues = map[string]League{
	"portugal":    {Name: "Primeira Liga", ID: 94},
	"england":     {Name: "Premier League", ID: 39},
	"spain":       {Name: "La Liga", ID: 140},
	"germany":     {Name: "Bundesliga", ID: 78},
	"italy":       {Name: "Serie A", ID: 135},
	"france":      {Name: "Ligue 1", ID: 61},
	"netherlands": {Name: "Eredivisie", ID: 88},
	// European competitions
	"ucl":  {Name: "UEFA Champions League", ID: 2},
	"uel":  {Name: "UEFA Europa League", ID: 3},
	"uecl": {Name: "UEFA Europa Conference League", ID: 848},
}

// LeagueByCompetition resolves a competition display name ("Premier
// League") to its league. ok is false when the name is unknown or empty.
func LeagueByCompetition(competition string) (League, bool) {
	if competition == "" {
		return League{}, false
	}
	for _, league := range Leagues {
		if strings.EqualFold(competition, league.Name) {
			return league, true
		}
	}
	return League{}, false
}

// LeagueByCountry resolves a team's country to its national league.
func LeagueByCountry(country string) (League, bool) {
	league, ok := Leagues[strings.ToLower(country)]
	return league, ok
}
