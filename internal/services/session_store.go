// internal/services/session_store.go
package services

import (
	"fmt"
	"sync"

	"github.com/lingualife/lingualife/internal/llm"
)

// SessionStore holds the in-memory conversation histories, one per
// (language, scenario-or-free) key. It is explicitly constructed and
// injected so its lifetime is owned by whoever owns the conversation
// service, not by a package-level singleton.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// session is a single accumulating history. Its mutex is held for the full
// duration of a turn, so concurrent sends on the same key cannot interleave
// their history appends.
type session struct {
	mu         sync.Mutex
	turns      []llm.ChatMessage
	sessionRef string
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
	}
}

// SessionKey builds the composite key scoping a conversation history.
func SessionKey(language, scenario string) string {
	if scenario == "" {
		scenario = "free"
	}
	return fmt.Sprintf("%s-%s", language, scenario)
}

// get returns the session for key, creating it if absent.
func (s *SessionStore) get(key string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[key]
	if !exists {
		sess = &session{}
		s.sessions[key] = sess
	}
	return sess
}

// Clear drops the history for key. Idempotent.
func (s *SessionStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
