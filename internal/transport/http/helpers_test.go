package http

import (
	"fmt"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"webinar-portal/internal/app"
	"webinar-portal/internal/domain"
	"webinar-portal/internal/infra/memory"
	"webinar-portal/internal/metrics"
)

type testServer struct {
	*httptest.Server
	store *memory.ParticipantStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New(prometheus.NewRegistry())
	store := memory.NewParticipantStore("")
	registry := app.NewRegistry(store, nil, m, nil)
	verifier, err := app.NewStaticCredentials("Admin", "Reset@123")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(map[string][]domain.Question{
		domain.DefaultWebinarTopic: knownAnswerQuestions(8),
	}), time.Minute)

	sessions := memory.NewSessionStore(func() *app.Portal {
		return app.NewPortal(registry, questions, verifier, app.PortalOptions{
			Rand:    rand.New(rand.NewSource(7)),
			Metrics: m,
		})
	})
	ws := NewWSHandler(app.NewPortalService(sessions, m), WSOptions{RevealDelay: 10 * time.Millisecond})

	router := NewRouter(RouterDeps{
		Registry: registry,
		Verifier: verifier,
		WS:       ws,
		Metrics:  m,
		Now:      func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) },
	})
	srv := &testServer{Server: httptest.NewServer(router), store: store}
	t.Cleanup(srv.Close)
	return srv
}

// knownAnswerQuestions builds questions whose correct option is always "right".
func knownAnswerQuestions(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, domain.Question{
			ID:      i,
			Text:    fmt.Sprintf("Question %d", i),
			Options: []string{"wrong", "right", "also wrong"},
			Answer:  "right",
		})
	}
	return qs
}

func validProfile() domain.Profile {
	return domain.Profile{
		FullName:        "Asha Rao",
		Gender:          "Female",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		SchoolName:      "Govt High School",
		City:            "Pune",
		GradesHandled:   "6-8",
		SubjectsHandled: "Science",
	}
}
