package app_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"webinar-portal/internal/app"
	"webinar-portal/internal/infra/memory"
	"webinar-portal/internal/metrics"
)

func TestPortalServiceSharesSessionAcrossConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sessions := memory.NewSessionStore(func() *app.Portal {
		return newTestPortal(t, memory.NewParticipantStore(""))
	})
	service := app.NewPortalService(sessions, m)

	first := service.Open("s1")
	second := service.Open("s1")
	if first != second {
		t.Fatalf("expected the same portal for one session id")
	}

	service.Close("s1")
	if _, ok := sessions.Get("s1"); !ok {
		t.Fatalf("expected session kept while a connection is attached")
	}
	service.Close("s1")
	if _, ok := sessions.Get("s1"); ok {
		t.Fatalf("expected session dropped after last connection")
	}
	service.Close("s1")

	expected := `
# HELP portal_active_sessions Portal sessions with at least one attached connection
# TYPE portal_active_sessions gauge
portal_active_sessions 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "portal_active_sessions"); err != nil {
		t.Fatalf("metrics: %v", err)
	}
}

func TestPortalServiceCountsConcurrentOpensOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sessions := memory.NewSessionStore(func() *app.Portal {
		return newTestPortal(t, memory.NewParticipantStore(""))
	})
	service := app.NewPortalService(sessions, m)

	const conns = 20
	var wg sync.WaitGroup
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			service.Open("s1")
		}()
	}
	wg.Wait()

	expected := `
# HELP portal_active_sessions Portal sessions with at least one attached connection
# TYPE portal_active_sessions gauge
portal_active_sessions 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "portal_active_sessions"); err != nil {
		t.Fatalf("metrics after opens: %v", err)
	}

	// one connection leaves while another joins; the session must survive
	service.Close("s1")
	service.Open("s1")
	for i := 0; i < conns; i++ {
		if _, ok := sessions.Get("s1"); !ok {
			t.Fatalf("session dropped with %d connections attached", conns-i)
		}
		service.Close("s1")
	}
	if _, ok := sessions.Get("s1"); ok {
		t.Fatalf("expected session dropped after last connection")
	}
}
