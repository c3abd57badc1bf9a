package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"webinar-portal/internal/domain"
	"webinar-portal/internal/metrics"
)

// EventPublisher delivers participant lifecycle events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

// Registry is the server side of the participant store API: it validates
// requests, enforces flag monotonicity, and publishes events around a store.
// It satisfies ParticipantStore, so in-process portals can use it directly.
type Registry struct {
	store   ParticipantStore
	events  EventPublisher
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewRegistry(store ParticipantStore, events EventPublisher, m *metrics.Metrics, log *zap.Logger) *Registry {
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, events: events, metrics: m, log: log, now: time.Now}
}

// Create validates every profile field and stores the participant.
// Invalid input is returned as domain.FieldErrors.
func (r *Registry) Create(ctx context.Context, profile domain.Profile) (domain.Participant, error) {
	profile = profile.Trimmed()
	if errs := domain.ValidateProfile(profile); errs != nil {
		r.metrics.Registration("invalid")
		return domain.Participant{}, errs
	}
	p, err := r.store.Create(ctx, profile)
	if err != nil {
		r.metrics.Registration("error")
		r.log.Error("register participant", zap.Error(err))
		return domain.Participant{}, err
	}
	r.metrics.Registration("ok")
	r.log.Info("participant registered", zap.String("id", p.ID), zap.String("school", p.SchoolName))
	r.publish(ctx, domain.Event{
		Type:          domain.EventRegistered,
		ParticipantID: p.ID,
		FullName:      p.FullName,
		Email:         p.Email,
	})
	return p, nil
}

// UpdateStatus sets flags on a stored participant. Updates that clear a flag are rejected.
func (r *Registry) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if err := r.store.UpdateStatus(ctx, id, update); err != nil {
		return err
	}
	if update.QuizPassed != nil {
		r.metrics.StatusUpdate("quiz_passed")
		r.publish(ctx, domain.Event{Type: domain.EventQuizPassed, ParticipantID: id})
	}
	if update.CertificateDownloaded != nil {
		r.metrics.StatusUpdate("certificate_downloaded")
		r.publish(ctx, domain.Event{Type: domain.EventCertificateDownloaded, ParticipantID: id})
	}
	return nil
}

// List returns every participant, newest first.
func (r *Registry) List(ctx context.Context) ([]domain.Participant, error) {
	return r.store.List(ctx)
}

func (r *Registry) publish(ctx context.Context, event domain.Event) {
	event.OccurredAt = r.now()
	if err := r.events.Publish(ctx, event); err != nil {
		r.log.Warn("publish participant event",
			zap.String("type", string(event.Type)),
			zap.String("participant", event.ParticipantID),
			zap.Error(err),
		)
	}
}
