package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/myquran/internal/domain"
)

// ErrSessionNotFound is returned for unknown or collected session ids.
var ErrSessionNotFound = fmt.Errorf("%w: player session", domain.ErrNotFound)

// Session is one client's controller for one chapter.
type Session struct {
	ID         string
	Chapter    int
	Controller *Controller
	Element    *RecordingElement
	CreatedAt  time.Time
	lastUsed   time.Time
}

// Sessions is the registry of live player sessions.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessions creates an empty registry
func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers a new idle session over clips.
func (s *Sessions) Create(chapter int, clips []Clip) *Session {
	el := &RecordingElement{}
	now := s.now()
	sess := &Session{
		ID:         uuid.New().String(),
		Chapter:    chapter,
		Controller: NewController(clips, el),
		Element:    el,
		CreatedAt:  now,
		lastUsed:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it used.
func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastUsed = s.now()
	return sess, nil
}

// Delete drops a session. Unknown ids are ignored.
func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of live sessions.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions unused for longer than ttl and returns how many went.
func (s *Sessions) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
