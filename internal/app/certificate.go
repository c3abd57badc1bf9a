package app

import (
	"html/template"
	"io"
	"time"

	"webinar-portal/internal/domain"
)

// CertificateDateLayout formats the issue date, e.g. "October 2026".
const CertificateDateLayout = "January 2006"

// NewCertificateConfig builds the certificate input for a participant with a passing result.
func NewCertificateConfig(p domain.Participant, result domain.QuizResult, now time.Time) (domain.CertificateConfig, error) {
	if !result.Passed {
		return domain.CertificateConfig{}, domain.ErrNotPassed
	}
	topic := p.WebinarTopic
	if topic == "" {
		topic = domain.DefaultWebinarTopic
	}
	return domain.CertificateConfig{
		RecipientName: p.FullName,
		WebinarTitle:  topic,
		SchoolName:    p.SchoolName,
		Date:          now.Format(CertificateDateLayout),
	}, nil
}

// CertificateRenderer turns a certificate config into a printable artifact.
// Rendering has no side effects on the participant session.
type CertificateRenderer interface {
	Render(w io.Writer, cfg domain.CertificateConfig) error
}

// HTMLRenderer renders a minimal print-ready HTML page.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: template.Must(template.New("certificate").Parse(certificateTemplate))}
}

func (r *HTMLRenderer) Render(w io.Writer, cfg domain.CertificateConfig) error {
	return r.tmpl.Execute(w, cfg)
}

const certificateTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Certificate of Participation</title></head>
<body>
<main class="certificate">
<h1>Certificate of Participation</h1>
<p>This is to certify that</p>
<h2 class="recipient">{{.RecipientName}}</h2>
{{- if .SchoolName}}
<p class="school">of {{.SchoolName}}</p>
{{- end}}
<p>has successfully participated in the webinar on</p>
<h3 class="title">{{.WebinarTitle}}</h3>
<p class="date">{{.Date}}</p>
</main>
</body>
</html>
`
