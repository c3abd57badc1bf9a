package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"webinar-portal/internal/app"
	"webinar-portal/internal/domain"
	"webinar-portal/internal/infra/memory"
	"webinar-portal/internal/metrics"
)

type recordingPublisher struct {
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestRegistryCreateValidatesAndPublishes(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	events := &recordingPublisher{}
	registry := app.NewRegistry(memory.NewParticipantStore(""), events, metrics.New(reg), nil)

	bad := validProfile()
	bad.Gender = "Unknown"
	_, err := registry.Create(ctx, bad)
	var fields domain.FieldErrors
	if !errors.As(err, &fields) || len(fields) != 1 || fields[domain.FieldGender] == "" {
		t.Fatalf("expected gender error, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation in chain")
	}

	padded := validProfile()
	padded.FullName = "  Asha Rao  "
	p, err := registry.Create(ctx, padded)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.FullName != "Asha Rao" {
		t.Fatalf("expected trimmed name, got %q", p.FullName)
	}
	if len(events.events) != 1 || events.events[0].Type != domain.EventRegistered || events.events[0].OccurredAt.IsZero() {
		t.Fatalf("expected registered event, got %+v", events.events)
	}

	expected := `
# HELP portal_registrations_total Participant registrations by result
# TYPE portal_registrations_total counter
portal_registrations_total{result="invalid"} 1
portal_registrations_total{result="ok"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "portal_registrations_total"); err != nil {
		t.Fatalf("metrics: %v", err)
	}
}

func TestRegistryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{err: errors.New("broker down")}
	registry := app.NewRegistry(memory.NewParticipantStore(""), events, nil, nil)

	p, err := registry.Create(ctx, validProfile())
	if err != nil {
		t.Fatalf("create despite publish failure: %v", err)
	}

	both := domain.MarkQuizPassed()
	both.CertificateDownloaded = domain.MarkCertificateDownloaded().CertificateDownloaded
	if err := registry.UpdateStatus(ctx, p.ID, both); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(events.events) != 3 {
		t.Fatalf("expected registered + 2 status events, got %d", len(events.events))
	}
	if err := registry.UpdateStatus(ctx, "missing", domain.MarkQuizPassed()); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := registry.UpdateStatus(ctx, p.ID, domain.StatusUpdate{}); !errors.Is(err, domain.ErrInvalidStatusUpdate) {
		t.Fatalf("expected invalid update, got %v", err)
	}

	list, _ := registry.List(ctx)
	if len(list) != 1 || !list[0].QuizPassed || !list[0].CertificateDownloaded {
		t.Fatalf("unexpected list %+v", list)
	}
}
