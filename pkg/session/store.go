// Package session holds per-session ordered message history for the
// lifetime of the process.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iamswethaa/chatbot/internal/models"
)

// ErrSessionNotFound is returned when the session id is unknown or the
// session has been evicted.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL bounds how long an idle session is kept. Sessions are
// in-memory only, so without a TTL an abandoned client would leak its
// history until process exit.
const DefaultTTL = 2 * time.Hour

type entry struct {
	mu      sync.Mutex // serializes appends for this session
	session models.ChatSession
}

// Store maps session ids to their message history. Appends to one
// session are serialized; different sessions are fully independent.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}
}

// Create registers a new session. Idle sessions past their TTL are
// swept here rather than by a background goroutine.
func (s *Store) Create(userID string) models.ChatSession {
	now := time.Now()
	sess := models.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Messages:  []models.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.sessions[sess.ID] = &entry{session: sess}
	return sess
}

// Get returns a snapshot of the session. The copy keeps callers from
// mutating history behind the store's back.
func (s *Store) Get(id string) (models.ChatSession, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return models.ChatSession{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := e.session
	snapshot.Messages = append([]models.ChatMessage(nil), e.session.Messages...)
	return snapshot, nil
}

// Append adds messages to the session in order. Concurrent appends to
// the same session serialize on the session's own lock, so an exchange
// is never interleaved with another.
func (s *Store) Append(id string, msgs ...models.ChatMessage) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Messages = append(e.session.Messages, msgs...)
	e.session.UpdatedAt = time.Now()
	return nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := now.Sub(e.session.UpdatedAt)
		e.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
		}
	}
}
