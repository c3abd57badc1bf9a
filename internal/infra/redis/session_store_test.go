package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"webinar-portal/internal/app"
	"webinar-portal/internal/infra/memory"
)

func newTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute, func() *app.Portal {
		return app.NewPortal(memory.NewParticipantStore(""), nil, nil, app.PortalOptions{})
	})
	return store, mr
}

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	store, mr := newTestSessionStore(t)

	if _, first := store.Acquire("s1"); !first {
		t.Fatalf("expected first attach")
	}
	if !mr.Exists("portal:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("portal:session:s1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	if !store.Release("s1") {
		t.Fatalf("expected last release")
	}
	if mr.Exists("portal:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected portal removed")
	}
}

func TestSessionStoreTouchKeepsLongConnectionAlive(t *testing.T) {
	store, mr := newTestSessionStore(t)
	store.Acquire("s1")

	mr.FastForward(50 * time.Second)
	store.Touch("s1")
	mr.FastForward(50 * time.Second)
	if !mr.Exists("portal:session:s1") {
		t.Fatalf("expected touched session to outlive the original ttl")
	}
	if ttl := mr.TTL("portal:session:s1"); ttl != 10*time.Second {
		t.Fatalf("expected ttl refreshed at touch, got %v", ttl)
	}

	store.Touch("unknown")
	if mr.Exists("portal:session:unknown") {
		t.Fatalf("expected touch of an unknown session to write nothing")
	}
}
