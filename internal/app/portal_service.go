package app

import (
	"webinar-portal/internal/metrics"
)

// SessionRepository abstracts how portal sessions are kept (in-memory, Redis, etc).
// Acquire and Release attach and detach under the repository's own lock, so a
// session is never dropped while another connection is joining it.
type SessionRepository interface {
	Acquire(sessionID string) (portal *Portal, first bool)
	Release(sessionID string) (last bool)
	Touch(sessionID string)
	Get(sessionID string) (*Portal, bool)
}

// PortalFactory builds the portal for a new session.
type PortalFactory func() *Portal

// PortalService attaches connections to portal sessions.
type PortalService struct {
	sessions SessionRepository
	metrics  *metrics.Metrics
}

func NewPortalService(sessions SessionRepository, m *metrics.Metrics) *PortalService {
	return &PortalService{sessions: sessions, metrics: m}
}

// Open returns the portal for sessionID, creating it on first use, and attaches a connection.
func (s *PortalService) Open(sessionID string) *Portal {
	portal, first := s.sessions.Acquire(sessionID)
	if first {
		s.metrics.SessionOpened()
	}
	return portal
}

// Touch marks activity on a session.
func (s *PortalService) Touch(sessionID string) {
	s.sessions.Touch(sessionID)
}

// Close detaches a connection and drops the session once nothing is attached.
func (s *PortalService) Close(sessionID string) {
	if s.sessions.Release(sessionID) {
		s.metrics.SessionClosed()
	}
}
