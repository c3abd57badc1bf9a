package app

import (
	"context"
	"fmt"

	"webinar-portal/internal/domain"
)

// ParticipantStore abstracts where participant records live (memory, Postgres, MySQL, remote API).
type ParticipantStore interface {
	Create(ctx context.Context, profile domain.Profile) (domain.Participant, error)
	UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error
	List(ctx context.Context) ([]domain.Participant, error)
}

// ParticipantSession holds at most one active participant and their progress flags.
type ParticipantSession struct {
	store  ParticipantStore
	topic  string
	active *domain.Participant
}

func NewParticipantSession(store ParticipantStore, topic string) *ParticipantSession {
	if topic == "" {
		topic = domain.DefaultWebinarTopic
	}
	return &ParticipantSession{store: store, topic: topic}
}

// Create persists profile and makes the stored record the active participant.
// On failure the session stays empty.
func (s *ParticipantSession) Create(ctx context.Context, profile domain.Profile) (domain.Participant, error) {
	if s.active != nil {
		return domain.Participant{}, domain.ErrParticipantActive
	}
	p, err := s.store.Create(ctx, profile)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("create participant: %w", err)
	}
	if p.WebinarTopic == "" {
		p.WebinarTopic = s.topic
	}
	s.active = &p
	return p, nil
}

// UpdateStatus sets flags on the active participant. The local copy is updated
// before the store call and is kept even if the store call fails; that failure
// is returned wrapped in domain.ErrStatusSync.
func (s *ParticipantSession) UpdateStatus(ctx context.Context, update domain.StatusUpdate) error {
	if s.active == nil {
		return domain.ErrNoActiveParticipant
	}
	if err := update.Validate(); err != nil {
		return err
	}
	update.Apply(s.active)
	if err := s.store.UpdateStatus(ctx, s.active.ID, update); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStatusSync, err)
	}
	return nil
}

// Active returns a copy of the active participant.
func (s *ParticipantSession) Active() (domain.Participant, bool) {
	if s.active == nil {
		return domain.Participant{}, false
	}
	return *s.active, true
}

// Topic is the webinar the session registers participants for.
func (s *ParticipantSession) Topic() string {
	if s.active != nil && s.active.WebinarTopic != "" {
		return s.active.WebinarTopic
	}
	return s.topic
}

// Clear drops the active participant so a new profile can register.
func (s *ParticipantSession) Clear() {
	s.active = nil
}
