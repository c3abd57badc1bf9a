package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"webinar-portal/internal/domain"
)

// ErrMalformedResponse marks a success status whose body the store cannot use.
var ErrMalformedResponse = errors.New("malformed upstream response")

// ParticipantStore talks to another portal's REST API.
type ParticipantStore struct {
	client *resty.Client
}

type registerResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  domain.FieldErrors `json:"fields,omitempty"`
}

// NewParticipantStore points the store at baseURL, e.g. http://portal:8080.
func NewParticipantStore(baseURL string, timeout time.Duration) *ParticipantStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &ParticipantStore{client: client}
}

// WithBasicAuth sends the upstream admin credentials, which listing requires.
func (s *ParticipantStore) WithBasicAuth(username, password string) *ParticipantStore {
	s.client.SetBasicAuth(username, password)
	return s
}

func (s *ParticipantStore) Create(ctx context.Context, profile domain.Profile) (domain.Participant, error) {
	var ok registerResponse
	var failed errorResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(profile).
		SetResult(&ok).
		SetError(&failed).
		Post("/api/register")
	if err != nil {
		return domain.Participant{}, fmt.Errorf("register participant: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest && len(failed.Fields) > 0 {
			return domain.Participant{}, failed.Fields
		}
		return domain.Participant{}, statusError("register participant", resp, failed)
	}
	if ok.ID == "" {
		return domain.Participant{}, fmt.Errorf("register participant: %w: status %d without id", ErrMalformedResponse, resp.StatusCode())
	}
	return domain.Participant{
		ID:           ok.ID,
		Profile:      profile,
		RegisteredAt: time.Now().UTC(),
	}, nil
}

func (s *ParticipantStore) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	var failed errorResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(update).
		SetError(&failed).
		Patch("/api/update/{id}")
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return domain.ErrParticipantNotFound
	case resp.StatusCode() == http.StatusBadRequest:
		return domain.ErrInvalidStatusUpdate
	case resp.IsError():
		return statusError("update participant", resp, failed)
	}
	return nil
}

func (s *ParticipantStore) List(ctx context.Context) ([]domain.Participant, error) {
	var participants []domain.Participant
	var failed errorResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&participants).
		SetError(&failed).
		Get("/api/participants")
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if resp.IsError() {
		return nil, statusError("list participants", resp, failed)
	}
	return participants, nil
}

func statusError(op string, resp *resty.Response, body errorResponse) error {
	msg := body.Message
	if msg == "" {
		msg = resp.Status()
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), msg)
}
