package mysql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"webinar-portal/internal/domain"
)

type participantRecord struct {
	ID                    uint64    `gorm:"primaryKey;autoIncrement"`
	FullName              string    `gorm:"size:255;not null"`
	Gender                string    `gorm:"size:16;not null"`
	Email                 string    `gorm:"size:255;not null;index"`
	Phone                 string    `gorm:"size:10;not null"`
	SchoolName            string    `gorm:"size:255;not null"`
	City                  string    `gorm:"size:128;not null"`
	GradesHandled         string    `gorm:"size:32;not null"`
	SubjectsHandled       string    `gorm:"size:64;not null"`
	QuizPassed            bool      `gorm:"not null;default:false"`
	CertificateDownloaded bool      `gorm:"not null;default:false"`
	RegistrationDate      time.Time `gorm:"not null"`
	WebinarTopic          string    `gorm:"size:255;not null"`
}

func (participantRecord) TableName() string {
	return "participants"
}

func (r participantRecord) toDomain() domain.Participant {
	return domain.Participant{
		ID: strconv.FormatUint(r.ID, 10),
		Profile: domain.Profile{
			FullName:        r.FullName,
			Gender:          r.Gender,
			Email:           r.Email,
			Phone:           r.Phone,
			SchoolName:      r.SchoolName,
			City:            r.City,
			GradesHandled:   r.GradesHandled,
			SubjectsHandled: r.SubjectsHandled,
		},
		QuizPassed:            r.QuizPassed,
		CertificateDownloaded: r.CertificateDownloaded,
		RegisteredAt:          r.RegistrationDate,
		WebinarTopic:          r.WebinarTopic,
	}
}

// Open connects to MySQL and migrates the participants table.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.AutoMigrate(&participantRecord{}); err != nil {
		return nil, fmt.Errorf("migrate participants: %w", err)
	}
	return db, nil
}

// ParticipantStore persists participants through gorm.
type ParticipantStore struct {
	db    *gorm.DB
	topic string
	clock func() time.Time
}

func NewParticipantStore(db *gorm.DB, topic string) *ParticipantStore {
	if topic == "" {
		topic = domain.DefaultWebinarTopic
	}
	return &ParticipantStore{db: db, topic: topic, clock: time.Now}
}

func (s *ParticipantStore) Create(ctx context.Context, profile domain.Profile) (domain.Participant, error) {
	rec := participantRecord{
		FullName:         profile.FullName,
		Gender:           profile.Gender,
		Email:            profile.Email,
		Phone:            profile.Phone,
		SchoolName:       profile.SchoolName,
		City:             profile.City,
		GradesHandled:    profile.GradesHandled,
		SubjectsHandled:  profile.SubjectsHandled,
		RegistrationDate: s.clock().UTC().Truncate(time.Second),
		WebinarTopic:     s.topic,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Participant{}, fmt.Errorf("insert participant: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *ParticipantStore) UpdateStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	numericID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return domain.ErrParticipantNotFound
	}

	fields := map[string]interface{}{}
	if update.QuizPassed != nil && *update.QuizPassed {
		fields["quiz_passed"] = true
	}
	if update.CertificateDownloaded != nil && *update.CertificateDownloaded {
		fields["certificate_downloaded"] = true
	}
	if len(fields) == 0 {
		return domain.ErrInvalidStatusUpdate
	}

	db := s.db.WithContext(ctx)
	res := db.Model(&participantRecord{}).Where("id = ?", numericID).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update participant: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports changed rows, so setting an already-set flag affects nothing.
	var count int64
	if err := db.Model(&participantRecord{}).Where("id = ?", numericID).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup participant: %w", err)
	}
	if count == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (s *ParticipantStore) List(ctx context.Context) ([]domain.Participant, error) {
	var recs []participantRecord
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]domain.Participant, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
