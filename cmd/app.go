package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Rui6filipe/Augusta/internal/ai"
	"github.com/Rui6filipe/Augusta/internal/bot"
	"github.com/Rui6filipe/Augusta/internal/cache"
	"github.com/Rui6filipe/Augusta/internal/embed"
	"github.com/Rui6filipe/Augusta/internal/football"
	"github.com/Rui6filipe/Augusta/internal/guard"
)

// defaultKeyEnvs maps each provider to the environment variable checked
// when no api_key is configured for it.
var defaultKeyEnvs = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"deepseek":   "DEEPSEEK_API_KEY",
	"gemini-api": "GEMINI_API_KEY",
}

// app wires the guard, the intent extractor and the data layer together
// for the chat and ask commands.
type app struct {
	guard    *guard.Pipeline
	ai       *ai.Client
	handlers *bot.Handlers
	store    *cache.Store
	debug    bool
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// answer runs one question through the full flow: admission guard,
// intent extraction, then the data-backed handler.
func (a *app) answer(ctx context.Context, question string) string {
	verdict := a.guard.Check(ctx, question)
	if !verdict.Allowed {
		if a.debug {
			fmt.Printf("[guard] blocked: %s\n", verdict.Reason)
		}
		return verdict.Message
	}

	intent, err := a.ai.ExtractIntent(ctx, question)
	if err != nil {
		if a.debug {
			fmt.Printf("[ai] intent extraction failed: %v\n", err)
		}
		return "Não consegui perceber a pergunta neste momento. Tente novamente mais tarde."
	}
	if a.debug {
		fmt.Printf("[ai] intent: %+v\n", intent)
	}

	return a.handlers.Handle(ctx, intent)
}

// providerAPIKey resolves a provider key from config or the environment.
func providerAPIKey(provider string) string {
	if key := viper.GetString("ai.providers." + provider + ".api_key"); key != "" {
		return key
	}
	envName := viper.GetString("ai.providers." + provider + ".api_key_env")
	if envName == "" {
		envName = defaultKeyEnvs[provider]
	}
	if envName == "" {
		return ""
	}
	return os.Getenv(envName)
}

// newApp builds the fully wired application from viper config.
func newApp(ctx context.Context) (*app, error) {
	debug := viper.GetBool("debug")

	// Guard: regex patterns plus the embedding classifier. The embedder
	// always runs on Gemini regardless of the chat provider.
	embedder, err := embed.NewGeminiEmbedder(ctx, providerAPIKey("gemini-api"), viper.GetString("embedding.model"), debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	var pack guard.PhrasePack
	if phraseFile := viper.GetString("guard.phrase_file"); phraseFile != "" {
		pack, err = guard.LoadPhrasePack(phraseFile)
		if err != nil {
			return nil, err
		}
	}

	thresholds := guard.Thresholds{
		Injection:  viper.GetFloat64("guard.thresholds.injection"),
		Football:   viper.GetFloat64("guard.thresholds.football"),
		ComingSoon: viper.GetFloat64("guard.thresholds.coming_soon"),
	}
	pipeline := guard.NewPipeline(guard.NewClassifier(embedder, pack, debug), thresholds)

	// Intent extraction client.
	provider := viper.GetString("ai.default_provider")
	aiClient, err := ai.NewClient(ctx, provider, providerAPIKey(provider), viper.GetString("ai.providers."+provider+".model"), debug)
	if err != nil {
		return nil, err
	}

	// Data layer: sqlite cache plus the out-of-process fetcher.
	cachePath := viper.GetString("cache.path")
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		cachePath = filepath.Join(home, ".augusta", "cache.db")
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	store, err := cache.Open(cachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	hardTimeout := time.Duration(viper.GetInt("fetch.hard_timeout_seconds")) * time.Second
	softTimeout := time.Duration(viper.GetInt("fetch.soft_timeout_seconds")) * time.Second
	fetcher, err := football.NewFetcher(hardTimeout, debug)
	if err != nil {
		store.Close()
		return nil, err
	}

	apiKey := viper.GetString("football.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("FOOTBALL_API_KEY")
	}
	api := football.NewAPI(viper.GetString("football.api_url"), apiKey, store, fetcher, softTimeout, debug)

	return &app{
		guard:    pipeline,
		ai:       aiClient,
		handlers: bot.New(api, debug),
		store:    store,
		debug:    debug,
	}, nil
}
