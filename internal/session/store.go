package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is an in-memory session store.
//
// Store is safe for concurrent use. Each Append is atomic: a message is
// never torn across readers. No ordering is promised between concurrent
// Appends to the same session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewStore creates an empty session store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// GetOrCreate returns the session with the given ID, creating it if
// needed. An empty ID mints a fresh UUID.
func (s *Store) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id)
}

// getOrCreateLocked must be called with the write lock held.
func (s *Store) getOrCreateLocked(id string) *Session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	now := time.Now()
	sess := &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[id] = sess

	s.logger.Debug("created session", "id", id)
	return sess
}

// Append adds a message to the session, creating the session on first
// use. History is trimmed to the newest maxMessages entries.
func (s *Store) Append(id string, role Role, content string) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.Messages = append(sess.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	if len(sess.Messages) > maxMessages {
		// Copy instead of reslicing so the dropped prefix can be collected.
		trimmed := make([]Message, maxMessages)
		copy(trimmed, sess.Messages[len(sess.Messages)-maxMessages:])
		sess.Messages = trimmed
	}
	sess.UpdatedAt = now
}

// Recent returns a copy of the last n messages for the session.
// n <= 0 selects the default window. An unknown session yields an empty
// slice and does not create the session.
func (s *Store) Recent(id string, n int) []Message {
	if n <= 0 {
		n = defaultRecent
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}

	start := len(sess.Messages) - n
	if start < 0 {
		start = 0
	}

	out := make([]Message, len(sess.Messages)-start)
	copy(out, sess.Messages[start:])
	return out
}

// Len returns the number of messages stored for the session.
// Unknown sessions report zero.
func (s *Store) Len(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0
	}
	return len(sess.Messages)
}

// Count returns the number of sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Clear removes the session with the given ID. Unknown IDs are a no-op.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// List returns the IDs of all sessions.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
