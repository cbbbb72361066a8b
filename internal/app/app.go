// Package app wires the application together: AI provider, knowledge
// store, session store, skills, and the conversation agent.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/luminalabs/concierge/internal/agent"
	"github.com/luminalabs/concierge/internal/config"
	"github.com/luminalabs/concierge/internal/corpus"
	"github.com/luminalabs/concierge/internal/knowledge"
	"github.com/luminalabs/concierge/internal/log"
	"github.com/luminalabs/concierge/internal/session"
	"github.com/luminalabs/concierge/internal/skill"
	"github.com/luminalabs/concierge/internal/weather"
)

// App holds the assembled application components.
type App struct {
	Config   *config.Config
	Logger   log.Logger
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	Store    *knowledge.Store
	Sessions *session.Store
	Skills   *skill.Registry
	Agent    *agent.Agent
}

// Setup creates and initializes the application.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	a.Store = knowledge.New(embedder, logger.With("component", "knowledge"))
	if err := corpus.Seed(ctx, a.Store, logger.With("component", "corpus")); err != nil {
		return nil, fmt.Errorf("seeding knowledge base: %w", err)
	}

	a.Sessions = session.NewStore(logger.With("component", "session"))

	a.Skills = provideSkills(cfg, logger)

	ag, err := agent.New(agent.Config{
		Genkit:        g,
		Store:         a.Store,
		Sessions:      a.Sessions,
		Skills:        a.Skills,
		Logger:        logger.With("component", "agent"),
		ModelName:     qualifiedModelName(cfg),
		TopK:          cfg.RetrievalTopK,
		HistoryWindow: cfg.HistoryWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	a.Agent = ag

	return a, nil
}

// provideGenkit initializes Genkit with the configured AI provider.
// Supports gemini (default) and ollama.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "gemini"
	}

	var g *genkit.Genkit

	switch provider {
	case "ollama":
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery).
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Info("initialized genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	default: // "gemini"
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the provider plugin.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case "ollama":
		// Ollama embedders are keyed by server address.
		return ollama.Embedder(g, cfg.OllamaHost)
	default: // "gemini"
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}

// provideSkills registers the built-in skills in dispatch order.
// The weather skill gets a live client only when an API key is set;
// otherwise it serves canned data.
func provideSkills(cfg *config.Config, logger log.Logger) *skill.Registry {
	registry := skill.NewRegistry(logger.With("component", "skill"))

	registry.Register(skill.NewMathSkill())

	var forecaster skill.Forecaster
	if cfg.WeatherAPIKey != "" {
		forecaster = weather.NewClient(cfg.WeatherAPIKey, logger.With("component", "weather"))
	}
	registry.Register(skill.NewWeatherSkill(forecaster))

	return registry
}

// qualifiedModelName prefixes the model with its provider namespace as
// genkit expects.
func qualifiedModelName(cfg *config.Config) string {
	switch cfg.Provider {
	case "ollama":
		return "ollama/" + cfg.ModelName
	default:
		return "googleai/" + cfg.ModelName
	}
}
