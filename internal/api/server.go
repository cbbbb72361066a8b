// Package api provides the JSON HTTP surface of the agent server.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/luminalabs/concierge/internal/agent"
	"github.com/luminalabs/concierge/internal/knowledge"
	"github.com/luminalabs/concierge/internal/session"
	"github.com/luminalabs/concierge/internal/skill"
)

// Processor runs one conversation turn. Satisfied by *agent.Agent;
// defined here so handlers can be tested against a stub.
type Processor interface {
	ProcessMessage(ctx context.Context, req agent.Request) (agent.Response, error)
}

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Agent       Processor          // Required
	Sessions    *session.Store     // Required: session counts for /agent/stats
	Store       *knowledge.Store   // Required: document counts for /agent/stats
	Skills      *skill.Registry    // Required: listing for /agent/skills
	CORSOrigins []string           // Allowed origins for CORS
	TrustProxy  bool               // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst   int                // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("agent is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("knowledge store is required")
	}
	if cfg.Skills == nil {
		return nil, errors.New("skill registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ah := &agentHandler{
		agent:    cfg.Agent,
		sessions: cfg.Sessions,
		store:    cfg.Store,
		skills:   cfg.Skills,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /agent/message", ah.message)
	mux.HandleFunc("GET /agent/skills", ah.listSkills)
	mux.HandleFunc("GET /agent/stats", ah.stats)

	// Rate limiter: per-IP token bucket (1 token/sec refill).
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack (outermost first):
	//   Recovery → Logging → CORS → RateLimit → Routes
	// CORS before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Top-level mux keeps health probes outside the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Agent))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
