package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"webinar-portal/internal/domain"
)

const participantColumns = `id, full_name, gender, email, phone, school_name, city,
	grades_handled, subjects_handled, quiz_passed, certificate_downloaded,
	registration_date, webinar_topic`

// ParticipantStore persists participants in the participants table.
type ParticipantStore struct {
	pool  *pgxpool.Pool
	topic string
}

func NewParticipantStore(pool *pgxpool.Pool, topic string) *ParticipantStore {
	if topic == "" {
		topic = domain.DefaultWebinarTopic
	}
	return &ParticipantStore{pool: pool, topic: topic}
}

func (s *ParticipantStore) Create(ctx context.Context, profile domain.Profile) (domain.Participant, error) {
	p := domain.Participant{Profile: profile, WebinarTopic: s.topic}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO participants (full_name, gender, email, phone, school_name, city,
			grades_handled, subjects_handled, webinar_topic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, registration_date`,
		profile.FullName, profile.Gender, profile.Email, profile.Phone, profile.SchoolName,
		profile.City, profile.GradesHandled, profile.SubjectsHandled, s.topic,
	).Scan(&id, &p.RegisteredAt)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("insert participant: %w", err)
	}
	p.ID = strconv.FormatInt(id, 10)
	return p, nil
}

func (s *ParticipantStore) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.ErrParticipantNotFound
	}

	var sets []string
	if update.QuizPassed != nil && *update.QuizPassed {
		sets = append(sets, "quiz_passed = TRUE")
	}
	if update.CertificateDownloaded != nil && *update.CertificateDownloaded {
		sets = append(sets, "certificate_downloaded = TRUE")
	}
	if len(sets) == 0 {
		return domain.ErrInvalidStatusUpdate
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE participants SET `+strings.Join(sets, ", ")+` WHERE id=$1`, numericID)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (s *ParticipantStore) List(ctx context.Context) ([]domain.Participant, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var (
			p  domain.Participant
			id int64
		)
		if err := rows.Scan(&id, &p.FullName, &p.Gender, &p.Email, &p.Phone, &p.SchoolName, &p.City,
			&p.GradesHandled, &p.SubjectsHandled, &p.QuizPassed, &p.CertificateDownloaded,
			&p.RegisteredAt, &p.WebinarTopic); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.ID = strconv.FormatInt(id, 10)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return out, nil
}
