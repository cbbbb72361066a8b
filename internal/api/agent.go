package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/luminalabs/concierge/internal/agent"
	"github.com/luminalabs/concierge/internal/knowledge"
	"github.com/luminalabs/concierge/internal/session"
	"github.com/luminalabs/concierge/internal/skill"
)

// maxBodyBytes caps request bodies. Conversations are short text; a
// megabyte is generous.
const maxBodyBytes = 1 << 20

// agentHandler serves the conversation endpoints.
type agentHandler struct {
	agent    Processor
	sessions *session.Store
	store    *knowledge.Store
	skills   *skill.Registry
	logger   *slog.Logger
}

// message handles POST /agent/message.
func (h *agentHandler) message(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	// Fields decode as `any` so a non-string value is rejected with a 400
	// rather than a decode error that hides which field was wrong.
	var body struct {
		Message   any `json:"message"`
		SessionID any `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}

	message, ok := body.Message.(string)
	if !ok || message == "" {
		writeError(w, http.StatusBadRequest, "Message is required and must be a string", "")
		return
	}

	sessionID, ok := body.SessionID.(string)
	if !ok || sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required and must be a string", "")
		return
	}

	resp, err := h.agent.ProcessMessage(r.Context(), agent.Request{
		Message:   message,
		SessionID: sessionID,
	})
	if err != nil {
		h.logger.Error("processing message", "session", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process message", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// listSkills handles GET /agent/skills.
func (h *agentHandler) listSkills(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"skills": h.skills.Describe(),
	})
}

// stats handles GET /agent/stats.
func (h *agentHandler) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"documents": h.store.Count(),
		"sessions":  h.sessions.Count(),
	})
}
