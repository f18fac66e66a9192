package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"stocktracker/internal/models"
)

// ChatSession holds the turns of one conversation. History lives only in
// memory for the lifetime of the session.
type ChatSession struct {
	ID     string
	Symbol string

	mu    sync.Mutex
	turns []models.ChatMessage
}

// Append records a user prompt and the assistant reply.
func (s *ChatSession) Append(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns,
		models.ChatMessage{Role: "user", Content: question},
		models.ChatMessage{Role: "assistant", Content: answer},
	)
}

// History returns a copy of the recorded turns.
func (s *ChatSession) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]models.ChatMessage, len(s.turns))
	copy(history, s.turns)
	return history
}

// SessionStore keeps chat sessions in a TTL cache; idle sessions expire.
type SessionStore struct {
	sessions *Cache[string, *ChatSession]
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: NewCache[string, *ChatSession](ttl),
	}
}

// GetOrCreate returns the session with the given ID, or a fresh one when the
// ID is empty or expired. The returned session is re-armed in the cache so
// active conversations do not expire mid-flight.
func (st *SessionStore) GetOrCreate(id, symbol string) *ChatSession {
	if id != "" {
		if session, found := st.sessions.Get(id); found {
			st.sessions.Set(id, session)
			return session
		}
	}

	session := &ChatSession{
		ID:     uuid.NewString(),
		Symbol: symbol,
	}
	st.sessions.Set(session.ID, session)
	return session
}

// Clear forgets the session with the given ID.
func (st *SessionStore) Clear(id string) {
	st.sessions.Delete(id)
}
