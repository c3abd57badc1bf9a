package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"webinar-portal/internal/app"
	"webinar-portal/internal/domain"
)

// Defaults for WSOptions.
const (
	DefaultRevealDelay  = 1200 * time.Millisecond
	DefaultStoreTimeout = 5 * time.Second
)

// WSOptions tunes the portal websocket.
type WSOptions struct {
	RevealDelay  time.Duration
	StoreTimeout time.Duration
	Logger       *zap.Logger
}

// WSHandler drives one portal session per websocket connection.
type WSHandler struct {
	service      *app.PortalService
	upgrader     websocket.Upgrader
	revealDelay  time.Duration
	storeTimeout time.Duration
	log          *zap.Logger
}

func NewWSHandler(service *app.PortalService, opts WSOptions) *WSHandler {
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		revealDelay:  opts.RevealDelay,
		storeTimeout: opts.StoreTimeout,
		log:          opts.Logger,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type fieldPayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type optionPayload struct {
	Option string `json:"option"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type searchPayload struct {
	Term string `json:"term"`
}

type pagePayload struct {
	Size   int `json:"size"`
	Number int `json:"number"`
}

type statePayload struct {
	SessionID string `json:"sessionId"`
	app.PortalSnapshot
}

type certificatePayload struct {
	HTML string `json:"html"`
}

type exportPayload struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

type errorPayload struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  domain.FieldErrors `json:"fields,omitempty"`
}

var errBadPayload = errors.New("invalid payload")
var errUnsupported = errors.New("unsupported message type")

// ServeWS upgrades the request and runs the portal session named by ?sessionId=.
// A missing id starts a new session; its id is echoed in every state message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	portal := h.service.Open(sessionID)
	defer h.service.Close(sessionID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				// unblock the reader and keep draining until the loop stops
				conn.Close()
				for range send {
				}
				return
			}
		}
	}()

	inbound := make(chan inboundMessage)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			inbound <- msg
		}
	}()

	// Reveal timers post back here so every transition runs on this goroutine.
	advances := make(chan app.AdvanceTicket)
	done := make(chan struct{})
	var timers []*time.Timer

	s := &wsSession{handler: h, portal: portal, id: sessionID, send: send, ctx: r.Context()}
	s.sendState()

loop:
	for {
		select {
		case msg := <-inbound:
			h.service.Touch(sessionID)
			if ticket, ok := s.dispatch(msg); ok {
				timers = append(timers, time.AfterFunc(h.revealDelay, func() {
					select {
					case advances <- ticket:
					case <-done:
					}
				}))
			}
		case ticket := <-advances:
			if err := portal.AdvanceQuiz(ticket); err != nil {
				// cancelled or restarted attempt
				continue
			}
			s.sendState()
		case <-readerDone:
			break loop
		}
	}

	close(done)
	for _, t := range timers {
		t.Stop()
	}
	close(send)
	<-writerDone
}

type wsSession struct {
	handler *WSHandler
	portal  *app.Portal
	id      string
	send    chan<- outboundMessage[any]
	ctx     context.Context
}

// dispatch applies one inbound message and reports the ticket to advance with
// after the reveal delay, if the message revealed an answer.
func (s *wsSession) dispatch(msg inboundMessage) (app.AdvanceTicket, bool) {
	var (
		ticket    app.AdvanceTicket
		hasTicket bool
		err       error
	)
	ctx, cancel := context.WithTimeout(s.ctx, s.handler.storeTimeout)
	defer cancel()

	switch msg.Type {
	case "form.set":
		var p fieldPayload
		if err = decode(msg.Payload, &p); err == nil {
			err = s.portal.SetField(p.Field, p.Value)
		}
	case "form.next":
		_, err = s.portal.NextStep()
	case "form.back":
		err = s.portal.BackStep()
	case "form.submit":
		_, err = s.portal.Submit(ctx)
	case "session.reset":
		err = s.portal.Reset()
	case "quiz.start":
		err = s.portal.StartQuiz(ctx)
	case "quiz.select":
		var p optionPayload
		if err = decode(msg.Payload, &p); err == nil {
			err = s.portal.SelectOption(p.Option)
		}
	case "quiz.confirm":
		var reveal app.Reveal
		reveal, ticket, err = s.portal.ConfirmAnswer()
		if err == nil {
			hasTicket = true
			s.send <- outboundMessage[any]{Type: "reveal", Payload: reveal}
		}
	case "quiz.retry":
		err = s.portal.RetryQuiz()
	case "quiz.cancel":
		err = s.portal.CancelQuiz()
	case "certificate.claim":
		err = s.portal.ClaimCertificate(ctx)
	case "certificate.download":
		if err = s.portal.RecordDownload(ctx); err == nil {
			err = s.sendCertificate()
		}
	case "certificate.close":
		err = s.portal.CloseCertificate()
	case "admin.open":
		err = s.portal.OpenAdminLogin()
	case "admin.login":
		var p loginPayload
		if err = decode(msg.Payload, &p); err == nil {
			err = s.portal.AdminLogin(ctx, p.Username, p.Password)
		}
	case "admin.cancel":
		err = s.portal.CancelAdminLogin()
	case "admin.reload":
		err = s.portal.AdminReload(ctx)
	case "admin.search":
		var p searchPayload
		if err = decode(msg.Payload, &p); err == nil {
			err = s.portal.AdminSearch(p.Term)
		}
	case "admin.page":
		var p pagePayload
		if err = decode(msg.Payload, &p); err == nil {
			_, err = s.portal.AdminPage(p.Size, p.Number)
		}
	case "admin.export":
		err = s.sendExport()
	case "admin.logout":
		err = s.portal.AdminLogout()
	case "notice.dismiss":
		s.portal.DismissNotice()
	default:
		err = errUnsupported
	}

	if err != nil {
		s.sendError(err)
	}
	s.sendState()
	return ticket, hasTicket
}

func (s *wsSession) sendState() {
	s.send <- outboundMessage[any]{Type: "state", Payload: statePayload{
		SessionID:      s.id,
		PortalSnapshot: s.portal.Snapshot(),
	}}
}

func (s *wsSession) sendCertificate() error {
	var buf bytes.Buffer
	if err := s.portal.RenderCertificate(&buf); err != nil {
		return err
	}
	s.send <- outboundMessage[any]{Type: "certificate", Payload: certificatePayload{HTML: buf.String()}}
	return nil
}

func (s *wsSession) sendExport() error {
	var buf bytes.Buffer
	name, err := s.portal.AdminExport(&buf)
	if err != nil {
		return err
	}
	s.send <- outboundMessage[any]{Type: "export", Payload: exportPayload{
		FileName:    name,
		ContentType: "text/csv",
		Data:        buf.String(),
	}}
	return nil
}

func (s *wsSession) sendError(err error) {
	payload := errorPayload{Code: errorCode(err), Message: err.Error()}
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		payload.Fields = fields
	}
	s.send <- outboundMessage[any]{Type: "error", Payload: payload}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}

func errorCode(err error) string {
	var fields domain.FieldErrors
	switch {
	case errors.As(err, &fields):
		return "validation_failed"
	case errors.Is(err, errBadPayload):
		return "bad_payload"
	case errors.Is(err, errUnsupported):
		return "unsupported"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNotPassed):
		return "not_passed"
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrUnknownOption):
		return "unknown_value"
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrParticipantActive),
		errors.Is(err, domain.ErrNoActiveParticipant):
		return "invalid_transition"
	default:
		return "failed"
	}
}
