package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"webinar-portal/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Portals are stateful and stay in a local map; each connection is pinned
//     to the instance that holds its portal.
//   - Redis carries a liveness marker per session with a TTL, refreshed on
//     attach and on every Touch, so operators can count live sessions across
//     instances (SCAN portal:session:*).
type SessionStore struct {
	client    *redis.Client
	ttl       time.Duration
	newPortal app.PortalFactory

	mu       sync.RWMutex
	sessions map[string]*app.Portal
}

func NewSessionStore(client *redis.Client, ttl time.Duration, newPortal app.PortalFactory) *SessionStore {
	return &SessionStore{
		client:    client,
		ttl:       ttl,
		newPortal: newPortal,
		sessions:  make(map[string]*app.Portal),
	}
}

func (s *SessionStore) Acquire(sessionID string) (*app.Portal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(sessionID)
	portal, ok := s.sessions[sessionID]
	if !ok {
		portal = s.newPortal()
		s.sessions[sessionID] = portal
	}
	return portal, portal.Attach()
}

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
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
	return true
}

// Touch extends the liveness marker of a session that is still held here.
func (s *SessionStore) Touch(sessionID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; ok {
		s.refresh(sessionID)
	}
}

func (s *SessionStore) Get(sessionID string) (*app.Portal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	portal, ok := s.sessions[sessionID]
	return portal, ok
}

func (s *SessionStore) refresh(sessionID string) {
	_ = s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "portal:session:" + sessionID
}
