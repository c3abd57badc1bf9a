package app

import "webinar-portal/internal/domain"

// PortalSnapshot is what a client renders. Correct answers are never included
// until they are revealed.
type PortalSnapshot struct {
	View        View                      `json:"view"`
	Notice      *Notice                   `json:"notice,omitempty"`
	Form        *FormSnapshot             `json:"form,omitempty"`
	Participant *domain.Participant       `json:"participant,omitempty"`
	Quiz        *QuizSnapshot             `json:"quiz,omitempty"`
	Certificate *domain.CertificateConfig `json:"certificate,omitempty"`
	Admin       *AdminSnapshot            `json:"admin,omitempty"`
}

type FormSnapshot struct {
	Step   FormStep                `json:"step"`
	Values domain.Profile          `json:"values"`
	Errors map[domain.Field]string `json:"errors,omitempty"`
}

type QuestionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

type QuizSnapshot struct {
	State    QuizState          `json:"state"`
	Index    int                `json:"index"`
	Total    int                `json:"total"`
	Score    int                `json:"score"`
	Question *QuestionView      `json:"question,omitempty"`
	Selected string             `json:"selected,omitempty"`
	Result   *domain.QuizResult `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
}

type AdminSnapshot struct {
	Total int    `json:"total"`
	Term  string `json:"term"`
	Page  Page   `json:"page"`
}

// Snapshot captures the current state for rendering.
func (p *Portal) Snapshot() PortalSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := PortalSnapshot{View: p.view}
	if p.notice != nil {
		n := *p.notice
		snap.Notice = &n
	}
	if participant, ok := p.session.Active(); ok {
		snap.Participant = &participant
	} else if p.view == ViewPortal {
		snap.Form = &FormSnapshot{
			Step:   p.form.Step(),
			Values: p.form.Values(),
			Errors: p.form.Errors(),
		}
	}

	switch p.view {
	case ViewQuiz:
		if p.runner != nil {
			snap.Quiz = quizSnapshot(p.runner)
		}
	case ViewCertificate:
		if p.certificate != nil {
			cfg := *p.certificate
			snap.Certificate = &cfg
		}
	case ViewAdminDashboard:
		if p.listing != nil {
			snap.Admin = &AdminSnapshot{
				Total: p.listing.Len(),
				Term:  p.listing.Term(),
				Page:  p.listing.Current(),
			}
		}
	}
	return snap
}

func quizSnapshot(r *QuizRunner) *QuizSnapshot {
	qs := &QuizSnapshot{
		State:    r.State(),
		Index:    r.Index(),
		Total:    r.Total(),
		Score:    r.Score(),
		Selected: r.Selected(),
	}
	if q, ok := r.Current(); ok {
		qs.Question = &QuestionView{ID: q.ID, Text: q.Text, Options: append([]string(nil), q.Options...)}
	}
	if result, ok := r.Result(); ok {
		qs.Result = &result
	}
	if err := r.Err(); err != nil {
		qs.Error = err.Error()
	}
	return qs
}
