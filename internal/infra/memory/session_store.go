package memory

import (
	"sync"

	"webinar-portal/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	newPortal app.PortalFactory

	mu       sync.RWMutex
	sessions map[string]*app.Portal
}

func NewSessionStore(newPortal app.PortalFactory) *SessionStore {
	return &SessionStore{
		newPortal: newPortal,
		sessions:  make(map[string]*app.Portal),
	}
}

// Acquire returns the portal for sessionID, creating it if needed, and attaches a connection.
func (s *SessionStore) Acquire(sessionID string) (*app.Portal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	portal, ok := s.sessions[sessionID]
	if !ok {
		portal = s.newPortal()
		s.sessions[sessionID] = portal
	}
	return portal, portal.Attach()
}

// Release detaches a connection and drops the portal when it was the last one.
func (s *SessionStore) Release(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	portal, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	if !portal.Detach() {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

func (s *SessionStore) Touch(string) {}

func (s *SessionStore) Get(sessionID string) (*app.Portal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	portal, ok := s.sessions[sessionID]
	return portal, ok
}
