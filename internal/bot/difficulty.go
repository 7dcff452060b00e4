package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Rui6filipe/Augusta/internal/football"
)

// predictionConcurrency bounds the parallel prediction lookups so a full
// season of fixtures does not hammer the API at once.
const predictionConcurrency = 4

type rankedFixture struct {
	fixture        football.Fixture
	winProbability float64
}

// rankByDifficulty fetches the win prediction for every fixture in
// parallel and orders the ones that have a prediction. easiest false
// sorts hardest first (lowest win probability); easiest true reverses.
// Fixtures whose prediction is missing or failed to fetch are skipped
// rather than failing the whole ranking.
func (h *Handlers) rankByDifficulty(ctx context.Context, fixtures []football.Fixture, teamName string, easiest bool) []rankedFixture {
	probabilities := make([]*float64, len(fixtures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(predictionConcurrency)
	for i, fixture := range fixtures {
		g.Go(func() error {
			prob, ok := h.winProbability(gctx, fixture, teamName)
			if ok {
				probabilities[i] = &prob
			}
			return nil
		})
	}
	g.Wait()

	var ranked []rankedFixture
	for i, prob := range probabilities {
		if prob == nil {
			continue
		}
		ranked = append(ranked, rankedFixture{fixture: fixtures[i], winProbability: *prob})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if easiest {
			return ranked[a].winProbability > ranked[b].winProbability
		}
		return ranked[a].winProbability < ranked[b].winProbability
	})
	return ranked
}

// winProbability resolves the team's predicted chance of winning one
// fixture from the home/away percent split.
func (h *Handlers) winProbability(ctx context.Context, fixture football.Fixture, teamName string) (float64, bool) {
	entries, err := h.api.Predictions(ctx, fixture.Fixture.ID)
	if err != nil {
		if h.debug {
			fmt.Printf("[bot] prediction fetch failed for fixture %d: %v\n", fixture.Fixture.ID, err)
		}
		return 0, false
	}
	if len(entries) == 0 {
		return 0, false
	}

	percent := entries[0].Predictions.Percent
	switch {
	case teamMatches(fixture.Teams.Home.Name, teamName):
		return parsePercent(percent.Home)
	case teamMatches(fixture.Teams.Away.Name, teamName):
		return parsePercent(percent.Away)
	default:
		return 0, false
	}
}

// teamMatches compares the API's team name against the user's wording
// loosely: either contains the other, case-insensitively.
func teamMatches(apiName, userName string) bool {
	a := strings.ToLower(strings.TrimSpace(apiName))
	b := strings.ToLower(strings.TrimSpace(userName))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// parsePercent converts "45%" to 0.45.
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value / 100, true
}
