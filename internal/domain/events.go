package domain

import "time"

// EventType names a participant lifecycle event.
type EventType string

const (
	EventRegistered            EventType = "participant.registered"
	EventQuizPassed            EventType = "participant.quiz_passed"
	EventCertificateDownloaded EventType = "participant.certificate_downloaded"
)

// Event is published after a participant record changes.
type Event struct {
	Type          EventType `json:"type"`
	ParticipantID string    `json:"participantId"`
	FullName      string    `json:"fullName,omitempty"`
	Email         string    `json:"email,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}
