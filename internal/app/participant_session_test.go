package app_test

import (
	"context"
	"errors"
	"testing"

	"webinar-portal/internal/app"
	"webinar-portal/internal/domain"
	"webinar-portal/internal/infra/memory"
)

// flakyStore wraps a store and fails the calls it is told to.
type flakyStore struct {
	app.ParticipantStore
	failCreate bool
	failUpdate bool
	updates    int
}

var errStoreDown = errors.New("store unavailable")

func (s *flakyStore) Create(ctx context.Context, p domain.Profile) (domain.Participant, error) {
	if s.failCreate {
		return domain.Participant{}, errStoreDown
	}
	return s.ParticipantStore.Create(ctx, p)
}

func (s *flakyStore) UpdateStatus(ctx context.Context, id string, u domain.StatusUpdate) error {
	s.updates++
	if s.failUpdate {
		return errStoreDown
	}
	return s.ParticipantStore.UpdateStatus(ctx, id, u)
}

func TestSessionCreateHoldsParticipant(t *testing.T) {
	ctx := context.Background()
	session := app.NewParticipantSession(memory.NewParticipantStore(""), "")

	p, err := session.Create(ctx, validProfile())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	active, ok := session.Active()
	if !ok || active.ID != p.ID || active.WebinarTopic != domain.DefaultWebinarTopic {
		t.Fatalf("expected active participant with default topic, got %+v", active)
	}
	if _, err := session.Create(ctx, validProfile()); !errors.Is(err, domain.ErrParticipantActive) {
		t.Fatalf("expected ErrParticipantActive, got %v", err)
	}

	session.Clear()
	if _, ok := session.Active(); ok {
		t.Fatalf("expected empty session after clear")
	}
}

func TestSessionCreateFailureLeavesEmpty(t *testing.T) {
	session := app.NewParticipantSession(&flakyStore{ParticipantStore: memory.NewParticipantStore(""), failCreate: true}, "")
	if _, err := session.Create(context.Background(), validProfile()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if _, ok := session.Active(); ok {
		t.Fatalf("expected no active participant")
	}
}

func TestSessionStatusIsMonotonic(t *testing.T) {
	ctx := context.Background()
	store := memory.NewParticipantStore("")
	session := app.NewParticipantSession(store, "")
	_, _ = session.Create(ctx, validProfile())

	if err := session.UpdateStatus(ctx, domain.MarkQuizPassed()); err != nil {
		t.Fatalf("update: %v", err)
	}
	f := false
	if err := session.UpdateStatus(ctx, domain.StatusUpdate{QuizPassed: &f}); !errors.Is(err, domain.ErrInvalidStatusUpdate) {
		t.Fatalf("expected clearing rejected, got %v", err)
	}
	if err := session.UpdateStatus(ctx, domain.StatusUpdate{}); !errors.Is(err, domain.ErrInvalidStatusUpdate) {
		t.Fatalf("expected empty update rejected, got %v", err)
	}
	active, _ := session.Active()
	if !active.QuizPassed {
		t.Fatalf("expected quizPassed to stay true")
	}
	records, _ := store.List(ctx)
	if !records[0].QuizPassed || records[0].CertificateDownloaded {
		t.Fatalf("unexpected stored flags %+v", records[0])
	}
}

func TestSessionStatusSyncFailureKeepsLocalFlag(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{ParticipantStore: memory.NewParticipantStore("")}
	session := app.NewParticipantSession(store, "")
	_, _ = session.Create(ctx, validProfile())

	store.failUpdate = true
	err := session.UpdateStatus(ctx, domain.MarkCertificateDownloaded())
	if !errors.Is(err, domain.ErrStatusSync) {
		t.Fatalf("expected ErrStatusSync, got %v", err)
	}
	active, _ := session.Active()
	if !active.CertificateDownloaded {
		t.Fatalf("expected optimistic flag kept")
	}
	if store.updates != 1 {
		t.Fatalf("expected exactly one store call, got %d", store.updates)
	}
}

func TestSessionUpdateWithoutParticipant(t *testing.T) {
	session := app.NewParticipantSession(memory.NewParticipantStore(""), "")
	if err := session.UpdateStatus(context.Background(), domain.MarkQuizPassed()); !errors.Is(err, domain.ErrNoActiveParticipant) {
		t.Fatalf("expected ErrNoActiveParticipant, got %v", err)
	}
}

func validProfile() domain.Profile {
	return domain.Profile{
		FullName:        "Asha Rao",
		Gender:          "Female",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		SchoolName:      "Govt High School",
		City:            "Pune",
		GradesHandled:   "6-8",
		SubjectsHandled: "Science",
	}
}
