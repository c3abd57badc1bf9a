package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"webinar-portal/internal/domain"
	"webinar-portal/internal/metrics"
)

// View is the screen a portal is on.
type View string

const (
	ViewPortal         View = "portal"
	ViewQuiz           View = "quiz"
	ViewCertificate    View = "certificate"
	ViewAdminLogin     View = "admin_login"
	ViewAdminDashboard View = "admin_dashboard"
)

// User-facing notice texts.
const (
	MsgRegistrationFailed = "Registration failed. Please verify your details."
	MsgQuizLoadFailed     = "Unable to load assessment questions. Please try again."
	MsgStatusNotSaved     = "Assessment passed, but your progress could not be saved."
	MsgDownloadNotSaved   = "Certificate ready, but the download could not be recorded."
	MsgInvalidCredentials = "Invalid credentials"
	MsgAdminLoadFailed    = "Failed to load data. Please check your connection or backend status."
)

// Notice is a dismissible message shown over the current view.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AdvanceTicket identifies the answered question a delayed advance applies to.
type AdvanceTicket struct {
	Attempt int `json:"attempt"`
	Index   int `json:"index"`
}

// PortalOptions tunes a Portal. Zero values pick defaults.
type PortalOptions struct {
	Topic         string
	QuestionCount int
	Rand          Rand
	Now           func() time.Time
	Renderer      CertificateRenderer
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

// Portal is the top-level application state machine for one visitor:
// Portal <-> Quiz -> Certificate -> Portal, Portal <-> AdminLogin -> AdminDashboard -> Portal.
// All methods are safe for concurrent use; transitions never interleave.
type Portal struct {
	mu sync.Mutex

	store     ParticipantStore
	questions QuestionRepository
	verifier  CredentialVerifier
	renderer  CertificateRenderer
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
	rnd       Rand
	count     int

	view        View
	form        *RegistrationForm
	session     *ParticipantSession
	runner      *QuizRunner
	attempt     int
	certificate *domain.CertificateConfig
	listing     *AdminListing
	notice      *Notice
	attached    int
}

func NewPortal(store ParticipantStore, questions QuestionRepository, verifier CredentialVerifier, opts PortalOptions) *Portal {
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = DefaultQuestionCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Renderer == nil {
		opts.Renderer = NewHTMLRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Portal{
		store:     store,
		questions: questions,
		verifier:  verifier,
		renderer:  opts.Renderer,
		metrics:   opts.Metrics,
		log:       opts.Logger,
		now:       opts.Now,
		rnd:       opts.Rand,
		count:     opts.QuestionCount,
		view:      ViewPortal,
		form:      NewRegistrationForm(),
		session:   NewParticipantSession(store, opts.Topic),
	}
}

func (p *Portal) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Attach records a connection driving this portal and reports whether it is the first.
func (p *Portal) Attach() (first bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attached++
	return p.attached == 1
}

// Detach records a connection going away and reports whether none is left.
func (p *Portal) Detach() (idle bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attached > 0 {
		p.attached--
	}
	return p.attached == 0
}

// --- registration ---

// SetField updates one registration form field by its wire name.
func (p *Portal) SetField(name, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRegistering(); err != nil {
		return err
	}
	field, ok := domain.ParseField(name)
	if !ok {
		return domain.ErrUnknownField
	}
	return p.form.Set(field, value)
}

// NextStep advances the form from Step1 to Step2 when Step1 is valid.
func (p *Portal) NextStep() (domain.FieldErrors, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRegistering(); err != nil {
		return nil, err
	}
	return p.form.Next()
}

// BackStep returns the form to Step1.
func (p *Portal) BackStep() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRegistering(); err != nil {
		return err
	}
	return p.form.Back()
}

// Submit validates Step2 and registers the participant. A store failure leaves
// the session empty, keeps the entered values, and raises an error notice.
func (p *Portal) Submit(ctx context.Context) (domain.FieldErrors, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireRegistering(); err != nil {
		return nil, err
	}
	profile, errs, err := p.form.Submit()
	if err != nil || errs != nil {
		return errs, err
	}

	p.notice = nil
	participant, err := p.session.Create(ctx, profile)
	if err != nil {
		_ = p.form.Reopen()
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			for field, msg := range fieldErrs {
				p.form.errors[field] = msg
			}
		}
		p.notice = &Notice{Level: "error", Message: MsgRegistrationFailed}
		p.log.Warn("registration failed", zap.Error(err))
		return fieldErrs, err
	}
	p.form.Reset()
	p.log.Info("participant session started", zap.String("participant", participant.ID))
	return nil, nil
}

// Reset drops the active participant so someone else can register.
func (p *Portal) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewPortal {
		return domain.ErrInvalidTransition
	}
	p.session.Clear()
	p.form.Reset()
	p.runner = nil
	p.certificate = nil
	p.notice = nil
	return nil
}

func (p *Portal) requireRegistering() error {
	if p.view != ViewPortal {
		return domain.ErrInvalidTransition
	}
	if _, ok := p.session.Active(); ok {
		return domain.ErrParticipantActive
	}
	return nil
}

// --- quiz ---

// StartQuiz draws a fresh question set for the active participant's topic.
// A load failure keeps the portal view and raises an error notice.
func (p *Portal) StartQuiz(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewPortal {
		return domain.ErrInvalidTransition
	}
	if _, ok := p.session.Active(); !ok {
		return domain.ErrNoActiveParticipant
	}

	drawn, err := p.drawQuestions(ctx)
	if err != nil {
		p.notice = &Notice{Level: "error", Message: MsgQuizLoadFailed}
		p.log.Warn("load quiz questions", zap.String("topic", p.session.Topic()), zap.Error(err))
		return err
	}
	p.notice = nil
	p.runner = NewQuizRunner(drawn)
	p.attempt++
	p.view = ViewQuiz
	return nil
}

func (p *Portal) drawQuestions(ctx context.Context) ([]domain.Question, error) {
	questions, err := p.questions.GetQuestions(ctx, p.session.Topic())
	if err != nil {
		return nil, err
	}
	pool, err := NewQuestionPool(questions, p.rnd)
	if err != nil {
		return nil, err
	}
	if p.rnd == nil {
		// keep one source per portal instead of reseeding on every start
		p.rnd = pool.rnd
	}
	return pool.Draw(p.count)
}

// SelectOption chooses an answer for the current question.
func (p *Portal) SelectOption(option string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewQuiz || p.runner == nil {
		return domain.ErrInvalidTransition
	}
	return p.runner.Select(option)
}

// ConfirmAnswer locks and scores the selection. The caller advances with the
// returned ticket after the reveal delay.
func (p *Portal) ConfirmAnswer() (Reveal, AdvanceTicket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewQuiz || p.runner == nil {
		return Reveal{}, AdvanceTicket{}, domain.ErrInvalidTransition
	}
	reveal, err := p.runner.Confirm()
	if err != nil {
		return Reveal{}, AdvanceTicket{}, err
	}
	return reveal, AdvanceTicket{Attempt: p.attempt, Index: reveal.Index}, nil
}

// AdvanceQuiz moves past a revealed answer. Tickets from a cancelled or
// restarted attempt are rejected.
func (p *Portal) AdvanceQuiz(ticket AdvanceTicket) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewQuiz || p.runner == nil || ticket.Attempt != p.attempt {
		return domain.ErrInvalidTransition
	}
	if err := p.runner.Advance(ticket.Index); err != nil {
		return err
	}
	if result, ok := p.runner.Result(); ok {
		p.metrics.QuizResult(result.Passed)
		p.log.Info("quiz completed",
			zap.Int("score", result.Score),
			zap.Int("total", result.Total),
			zap.Bool("passed", result.Passed),
		)
	}
	return nil
}

// RetryQuiz restarts a completed attempt.
func (p *Portal) RetryQuiz() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewQuiz || p.runner == nil {
		return domain.ErrInvalidTransition
	}
	if err := p.runner.Retry(); err != nil {
		return err
	}
	p.attempt++
	return nil
}

// CancelQuiz abandons the attempt and returns to the portal.
func (p *Portal) CancelQuiz() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewQuiz {
		return domain.ErrInvalidTransition
	}
	p.runner = nil
	p.attempt++
	p.view = ViewPortal
	return nil
}

// --- certificate ---

// ClaimCertificate records the pass and opens the certificate view. A failed
// status write is reported as a warning; the certificate is still issued.
func (p *Portal) ClaimCertificate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewQuiz || p.runner == nil {
		return domain.ErrInvalidTransition
	}
	result, ok := p.runner.Result()
	if !ok || !result.Passed {
		return domain.ErrNotPassed
	}

	p.notice = nil
	if err := p.session.UpdateStatus(ctx, domain.MarkQuizPassed()); err != nil {
		if !errors.Is(err, domain.ErrStatusSync) {
			return err
		}
		p.notice = &Notice{Level: "warning", Message: MsgStatusNotSaved}
		p.log.Warn("quiz pass not persisted", zap.Error(err))
	}

	participant, _ := p.session.Active()
	cfg, err := NewCertificateConfig(participant, result, p.now())
	if err != nil {
		return err
	}
	p.certificate = &cfg
	p.runner = nil
	p.attempt++
	p.view = ViewCertificate
	return nil
}

// RecordDownload marks the certificate as downloaded. A failed write only raises a warning.
func (p *Portal) RecordDownload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewCertificate {
		return domain.ErrInvalidTransition
	}
	if err := p.session.UpdateStatus(ctx, domain.MarkCertificateDownloaded()); err != nil {
		if !errors.Is(err, domain.ErrStatusSync) {
			return err
		}
		p.notice = &Notice{Level: "warning", Message: MsgDownloadNotSaved}
		p.log.Warn("certificate download not persisted", zap.Error(err))
	}
	return nil
}

// RenderCertificate writes the printable certificate for the current view.
func (p *Portal) RenderCertificate(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewCertificate || p.certificate == nil {
		return domain.ErrInvalidTransition
	}
	return p.renderer.Render(w, *p.certificate)
}

// CloseCertificate returns to the portal.
func (p *Portal) CloseCertificate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewCertificate {
		return domain.ErrInvalidTransition
	}
	p.certificate = nil
	p.view = ViewPortal
	return nil
}

// --- admin ---

// OpenAdminLogin switches to the admin login view.
func (p *Portal) OpenAdminLogin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewPortal {
		return domain.ErrInvalidTransition
	}
	p.notice = nil
	p.view = ViewAdminLogin
	return nil
}

// CancelAdminLogin returns to the portal.
func (p *Portal) CancelAdminLogin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminLogin {
		return domain.ErrInvalidTransition
	}
	p.notice = nil
	p.view = ViewPortal
	return nil
}

// AdminLogin checks credentials, opens the dashboard and loads every record.
func (p *Portal) AdminLogin(ctx context.Context, username, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminLogin {
		return domain.ErrInvalidTransition
	}
	if p.verifier == nil || !p.verifier.Verify(username, password) {
		p.notice = &Notice{Level: "error", Message: MsgInvalidCredentials}
		p.log.Warn("admin login rejected", zap.String("username", username))
		return domain.ErrInvalidCredentials
	}
	p.notice = nil
	p.view = ViewAdminDashboard
	return p.loadListingLocked(ctx)
}

// AdminReload refetches the records, keeping the current search term.
func (p *Portal) AdminReload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminDashboard {
		return domain.ErrInvalidTransition
	}
	return p.loadListingLocked(ctx)
}

func (p *Portal) loadListingLocked(ctx context.Context) error {
	records, err := p.store.List(ctx)
	if err != nil {
		p.listing = nil
		p.notice = &Notice{Level: "error", Message: MsgAdminLoadFailed}
		p.log.Warn("load participants", zap.Error(err))
		return err
	}
	term := ""
	if p.listing != nil {
		term = p.listing.Term()
	}
	p.notice = nil
	p.listing = NewAdminListing(records)
	p.listing.Search(term)
	return nil
}

// AdminSearch filters the dashboard and resets it to page 1 when the term changes.
func (p *Portal) AdminSearch(term string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminDashboard || p.listing == nil {
		return domain.ErrInvalidTransition
	}
	p.listing.Search(term)
	return nil
}

// AdminPage selects a page of the filtered records.
func (p *Portal) AdminPage(size, number int) (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminDashboard || p.listing == nil {
		return Page{}, domain.ErrInvalidTransition
	}
	return p.listing.Page(size, number), nil
}

// AdminExport writes every loaded record as CSV and returns the download file name.
func (p *Portal) AdminExport(w io.Writer) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminDashboard || p.listing == nil || p.listing.Len() == 0 {
		return "", domain.ErrInvalidTransition
	}
	if err := p.listing.ExportCSV(w); err != nil {
		return "", err
	}
	return ExportFileName(p.now()), nil
}

// AdminLogout closes the dashboard.
func (p *Portal) AdminLogout() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewAdminDashboard {
		return domain.ErrInvalidTransition
	}
	p.listing = nil
	p.notice = nil
	p.view = ViewPortal
	return nil
}

// DismissNotice clears the current notice.
func (p *Portal) DismissNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = nil
}
