package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"arena-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, ttl), mr
}

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)

	token, err := store.CreateSession(ctx, domain.Caller{ID: "u1", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	key := "quiz:session:" + token
	if !mr.Exists(key) {
		t.Fatalf("expected redis key to be set")
	}
	if got := mr.HGet(key, "name"); got != "Alice" {
		t.Fatalf("expected name Alice, got %q", got)
	}

	caller, err := store.LookupSession(ctx, token)
	if err != nil {
		t.Fatalf("lookup session: %v", err)
	}
	if caller.ID != "u1" || caller.DisplayName != "Alice" {
		t.Fatalf("unexpected caller %+v", caller)
	}

	if err := store.DeleteSession(ctx, token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreReadsProviderSessions(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)

	mr.HSet("quiz:session:external", "id", "u9", "name", "Grace")
	caller, err := store.LookupSession(ctx, "external")
	if err != nil {
		t.Fatalf("lookup session: %v", err)
	}
	if caller.ID != "u9" || caller.DisplayName != "Grace" {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestSessionStoreExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)

	token, err := store.CreateSession(ctx, domain.Caller{ID: "u1"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.LookupSession(ctx, token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}
