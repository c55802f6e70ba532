package memory

import (
	"sync"
	"time"

	"dsa-mentor-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Each learner holds at most one live attempt. With a positive ttl an attempt
// that has not been touched for ttl is evicted.
type SessionStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	sessions  map[string]*sessionEntry
	byLearner map[string]string
}

type sessionEntry struct {
	session *app.AssessmentSession
	touched time.Time
}

// NewSessionStore keeps sessions until they are replaced or deleted.
func NewSessionStore() *SessionStore {
	return NewExpiringSessionStore(0, time.Now)
}

// NewExpiringSessionStore evicts sessions idle for longer than ttl.
func NewExpiringSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		ttl:       ttl,
		now:       now,
		sessions:  make(map[string]*sessionEntry),
		byLearner: make(map[string]string),
	}
}

func (s *SessionStore) Save(session *app.AssessmentSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	if prev, ok := s.byLearner[session.LearnerID()]; ok && prev != session.ID() {
		delete(s.sessions, prev)
	}
	s.sessions[session.ID()] = &sessionEntry{session: session, touched: now}
	s.byLearner[session.LearnerID()] = session.ID()
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(sessionID string) (*app.AssessmentSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		s.removeLocked(sessionID, entry)
		return nil, false
	}
	entry.touched = now
	return entry.session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[sessionID]; ok {
		s.removeLocked(sessionID, entry)
	}
}

// Len reports how many sessions are held, expired ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.touched) > s.ttl
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			s.removeLocked(id, entry)
		}
	}
}

func (s *SessionStore) removeLocked(sessionID string, entry *sessionEntry) {
	delete(s.sessions, sessionID)
	if s.byLearner[entry.session.LearnerID()] == sessionID {
		delete(s.byLearner, entry.session.LearnerID())
	}
}
