// Package agent orchestrates the conversation pipeline: session history,
// knowledge retrieval, skill dispatch, prompt composition, and model
// completion.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/luminalabs/concierge/internal/knowledge"
	"github.com/luminalabs/concierge/internal/session"
	"github.com/luminalabs/concierge/internal/skill"
)

// Sentinel errors identifying the failed pipeline stage.
var (
	// ErrRetrieval indicates knowledge retrieval failed.
	ErrRetrieval = errors.New("context retrieval failed")

	// ErrCompletion indicates the model completion failed.
	ErrCompletion = errors.New("completion generation failed")
)

// Request is one user turn.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Response is the result of processing one user turn.
type Response struct {
	Reply      string            `json:"reply"`
	SessionID  string            `json:"sessionId"`
	SkillsUsed []string          `json:"pluginsUsed"`
	Context    []knowledge.Chunk `json:"context"`
}

// Config contains all required parameters for the Agent.
type Config struct {
	Genkit   *genkit.Genkit
	Store    *knowledge.Store
	Sessions *session.Store
	Skills   *skill.Registry
	Logger   *slog.Logger

	// ModelName is the provider-qualified model name
	// (e.g. "googleai/gemini-2.5-flash", "mock/test-model").
	ModelName string

	// TopK is the retrieval depth. Zero selects the default of 3.
	TopK int

	// HistoryWindow is how many recent messages feed the prompt.
	// Zero selects the default of 4.
	HistoryWindow int
}

// validate checks that all required dependencies are present.
func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Store == nil {
		return errors.New("knowledge store is required")
	}
	if cfg.Sessions == nil {
		return errors.New("session store is required")
	}
	if cfg.Skills == nil {
		return errors.New("skill registry is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Agent runs the conversation pipeline. All configuration is captured
// immutably at construction; Agent is safe for concurrent use.
type Agent struct {
	g             *genkit.Genkit
	store         *knowledge.Store
	sessions      *session.Store
	skills        *skill.Registry
	logger        *slog.Logger
	modelName     string
	topK          int
	historyWindow int
}

// New creates an Agent from the given configuration.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid agent config: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	window := cfg.HistoryWindow
	if window <= 0 {
		window = 4
	}

	return &Agent{
		g:             cfg.Genkit,
		store:         cfg.Store,
		sessions:      cfg.Sessions,
		skills:        cfg.Skills,
		logger:        cfg.Logger,
		modelName:     cfg.ModelName,
		topK:          topK,
		historyWindow: window,
	}, nil
}

// ProcessMessage runs one user turn through the pipeline:
//
//  1. append the user message to the session
//  2. retrieve context chunks for the message
//  3. dispatch matching skills
//  4. read recent history (includes the message just appended)
//  5. compose the system prompt
//  6. generate the completion
//  7. append the assistant reply
//
// A retrieval or completion failure aborts the turn; the user message
// stays in history so a retry keeps the conversation intact. Skill
// failures never abort: they surface as failed results.
func (a *Agent) ProcessMessage(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	a.sessions.Append(req.SessionID, session.RoleUser, req.Message)

	chunks, err := a.store.Search(ctx, req.Message, knowledge.WithTopK(a.topK))
	if err != nil {
		a.logger.Error("pipeline stage failed", "stage", "retrieval", "session", req.SessionID, "error", err)
		return Response{}, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	results := a.skills.Dispatch(ctx, req.Message)

	history := a.sessions.Recent(req.SessionID, a.historyWindow)

	prompt := composePrompt(history, chunks, results)

	reply, err := a.complete(ctx, prompt, req.Message)
	if err != nil {
		a.logger.Error("pipeline stage failed", "stage", "completion", "session", req.SessionID, "error", err)
		return Response{}, fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	a.sessions.Append(req.SessionID, session.RoleAssistant, reply)

	used := make([]string, 0, len(results))
	for _, r := range results {
		if r.Success {
			used = append(used, r.Skill)
		}
	}

	a.logger.Debug("processed message",
		"session", req.SessionID,
		"chunks", len(chunks),
		"skills", used,
		"duration", time.Since(start),
	)

	return Response{
		Reply:      reply,
		SessionID:  req.SessionID,
		SkillsUsed: used,
		Context:    chunks,
	}, nil
}

// complete generates the model reply for the message under the given
// system prompt.
func (a *Agent) complete(ctx context.Context, systemPrompt, message string) (string, error) {
	resp, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.modelName),
		ai.WithSystem(systemPrompt),
		ai.WithMessages(ai.NewUserMessage(ai.NewTextPart(message))),
	)
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}
	return resp.Text(), nil
}
