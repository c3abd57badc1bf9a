package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"webinar-portal/internal/domain"
)

// ParticipantStore keeps participants in process memory. Records are lost on restart.
type ParticipantStore struct {
	clock func() time.Time
	topic string

	mu      sync.RWMutex
	records []*domain.Participant
	byID    map[string]*domain.Participant
}

// NewParticipantStore stamps topic on every record; empty means the default webinar.
func NewParticipantStore(topic string) *ParticipantStore {
	if topic == "" {
		topic = domain.DefaultWebinarTopic
	}
	return &ParticipantStore{
		clock: time.Now,
		topic: topic,
		byID:  make(map[string]*domain.Participant),
	}
}

func (s *ParticipantStore) Create(_ context.Context, profile domain.Profile) (domain.Participant, error) {
	p := &domain.Participant{
		ID:           uuid.NewString(),
		Profile:      profile,
		RegisteredAt: s.clock().UTC(),
		WebinarTopic: s.topic,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, p)
	s.byID[p.ID] = p
	return *p, nil
}

func (s *ParticipantStore) UpdateStatus(_ context.Context, id string, update domain.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	update.Apply(p)
	return nil
}

// List returns copies of every record, most recently created first.
func (s *ParticipantStore) List(_ context.Context) ([]domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Participant, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, *s.records[i])
	}
	return out, nil
}
