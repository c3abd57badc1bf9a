package domain

import "time"

// DefaultWebinarTopic is the program a participant registers for when none is configured.
const DefaultWebinarTopic = "AI Literacy"

// Profile holds the registrant-entered fields of a participant.
type Profile struct {
	FullName        string `json:"fullName"`
	Gender          string `json:"gender"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SchoolName      string `json:"schoolName"`
	City            string `json:"city"`
	GradesHandled   string `json:"gradesHandled"`
	SubjectsHandled string `json:"subjectsHandled"`
}

// Participant is a registrant record as persisted by a participant store.
type Participant struct {
	ID string `json:"id"`
	Profile
	QuizPassed            bool      `json:"quizPassed"`
	CertificateDownloaded bool      `json:"certificateDownloaded"`
	RegisteredAt          time.Time `json:"registrationDate"`
	WebinarTopic          string    `json:"webinarTopic,omitempty"`
}

// StatusUpdate sets one or both progress flags. Nil fields are left untouched.
type StatusUpdate struct {
	QuizPassed            *bool `json:"quizPassed,omitempty"`
	CertificateDownloaded *bool `json:"certificateDownloaded,omitempty"`
}

// MarkQuizPassed returns the update that sets the quiz-passed flag.
func MarkQuizPassed() StatusUpdate {
	v := true
	return StatusUpdate{QuizPassed: &v}
}

// MarkCertificateDownloaded returns the update that sets the certificate-downloaded flag.
func MarkCertificateDownloaded() StatusUpdate {
	v := true
	return StatusUpdate{CertificateDownloaded: &v}
}

// Validate checks that at least one flag is present and that no flag moves back to false.
func (u StatusUpdate) Validate() error {
	if u.QuizPassed == nil && u.CertificateDownloaded == nil {
		return ErrInvalidStatusUpdate
	}
	if (u.QuizPassed != nil && !*u.QuizPassed) || (u.CertificateDownloaded != nil && !*u.CertificateDownloaded) {
		return ErrInvalidStatusUpdate
	}
	return nil
}

// Apply sets the flags named by u on p. Flags are never cleared.
func (u StatusUpdate) Apply(p *Participant) {
	if u.QuizPassed != nil && *u.QuizPassed {
		p.QuizPassed = true
	}
	if u.CertificateDownloaded != nil && *u.CertificateDownloaded {
		p.CertificateDownloaded = true
	}
}

// Question is an immutable multiple-choice question. Answer matches one option exactly.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// HasAnswer reports whether the designated answer is one of the options.
func (q Question) HasAnswer() bool {
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// QuizResult is the verdict of a completed quiz attempt.
type QuizResult struct {
	Score     int  `json:"score"`
	Total     int  `json:"total"`
	Threshold int  `json:"threshold"`
	Passed    bool `json:"passed"`
}

// PassThreshold is half the question count rounded up.
func PassThreshold(total int) int {
	return (total + 1) / 2
}

// CertificateConfig is the input of a certificate renderer.
type CertificateConfig struct {
	RecipientName string `json:"recipientName"`
	WebinarTitle  string `json:"webinarTitle"`
	SchoolName    string `json:"schoolName,omitempty"`
	Date          string `json:"date"`
}
