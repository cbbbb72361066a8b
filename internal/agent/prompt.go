package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/luminalabs/concierge/internal/knowledge"
	"github.com/luminalabs/concierge/internal/session"
	"github.com/luminalabs/concierge/internal/skill"
)

const promptPreamble = `You are an intelligent AI assistant with access to contextual information and various tools.

CORE INSTRUCTIONS:
- Be helpful, accurate, and conversational
- Use the provided context and plugin results to enhance your responses
- If plugin results are available, incorporate them naturally into your answer
- Maintain conversation continuity using the message history
- Be concise but informative

`

const promptClosing = `Please provide a helpful response based on the user's message, incorporating the above context and plugin results where relevant.`

// promptHistoryDepth limits how many of the recent messages are quoted in
// the prompt. The full window still informs retrieval and bookkeeping.
const promptHistoryDepth = 2

// composePrompt assembles the system prompt from history, retrieved
// chunks, and skill results. It is pure: no I/O, no clock, no randomness;
// identical inputs produce an identical prompt.
func composePrompt(history []session.Message, chunks []knowledge.Chunk, results []skill.Result) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)

	if len(history) > 0 {
		sb.WriteString("RECENT CONVERSATION HISTORY:\n")
		start := len(history) - promptHistoryDepth
		if start < 0 {
			start = 0
		}
		for _, msg := range history[start:] {
			sb.WriteString(strings.ToUpper(string(msg.Role)))
			sb.WriteString(": ")
			sb.WriteString(msg.Content)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(chunks) > 0 {
		sb.WriteString("RELEVANT CONTEXT FROM KNOWLEDGE BASE:\n")
		for i, chunk := range chunks {
			fmt.Fprintf(&sb, "[Context %d] %s:\n%s\n\n", i+1, chunk.Metadata.Title, chunk.Content)
		}
	}

	if hasSuccess(results) {
		sb.WriteString("PLUGIN EXECUTION RESULTS:\n")
		for _, r := range results {
			if !r.Success {
				continue
			}
			data, err := json.MarshalIndent(r.Data, "", "  ")
			if err != nil {
				// Marshaling map[string]any of JSON-safe values cannot fail;
				// guard anyway so a bad skill cannot break composition.
				data = []byte("{}")
			}
			fmt.Fprintf(&sb, "%s PLUGIN:\n%s\n\n", strings.ToUpper(r.Skill), data)
		}
	}

	sb.WriteString(promptClosing)
	return sb.String()
}

func hasSuccess(results []skill.Result) bool {
	for _, r := range results {
		if r.Success {
			return true
		}
	}
	return false
}
