// Package session provides an in-memory conversation session store.
//
// Sessions are keyed by a client-chosen ID and hold a bounded message
// history: once a session exceeds the cap, the oldest messages are
// dropped. Nothing is persisted; a restart clears all sessions.
package session

import "time"

// maxMessages bounds the stored history per session. The newest messages
// always survive the trim.
const maxMessages = 20

// defaultRecent is the history window returned when the caller does not
// specify one.
const defaultRecent = 4

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a conversation with its bounded message history.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
