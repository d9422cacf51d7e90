// Package session keeps server-side sessions keyed by an opaque identifier.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record behind a session cookie.
type Session struct {
	ID          string
	PersonnelID uint
	CreatedAt   time.Time
	LastSeen    time.Time
}

// ExpiresAt is the instant after which the session is considered idle.
func (s Session) ExpiresAt(idle time.Duration) time.Time {
	return s.LastSeen.Add(idle)
}

// Store is an in-memory session store with a fixed idle timeout.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
	onRevoke []func(personnelID uint)
}

func NewStore(idle time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) IdleTimeout() time.Duration { return s.idle }

// OnRevoke registers fn to run after DestroyForPersonnel, outside the lock.
func (s *Store) OnRevoke(fn func(personnelID uint)) {
	s.mu.Lock()
	s.onRevoke = append(s.onRevoke, fn)
	s.mu.Unlock()
}

// Create opens a new session for the given personnel.
func (s *Store) Create(personnelID uint) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:          uuid.NewString(),
		PersonnelID: personnelID,
		CreatedAt:   now,
		LastSeen:    now,
	}
	s.sessions[sess.ID] = sess
	return *sess
}

// Touch returns the session and refreshes its idle deadline. An unknown or
// idle session returns false; an idle one is evicted.
func (s *Store) Touch(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	now := s.now()
	if now.Sub(sess.LastSeen) > s.idle {
		delete(s.sessions, id)
		return Session{}, false
	}
	sess.LastSeen = now
	return *sess, true
}

func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// DestroyForPersonnel drops every session of one personnel and notifies
// the OnRevoke hooks.
func (s *Store) DestroyForPersonnel(personnelID uint) int {
	s.mu.Lock()
	n := 0
	for id, sess := range s.sessions {
		if sess.PersonnelID == personnelID {
			delete(s.sessions, id)
			n++
		}
	}
	hooks := s.onRevoke
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(personnelID)
	}
	return n
}

// Sweep evicts idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen) > s.idle {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
