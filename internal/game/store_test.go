package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/dnspavankumar/Chessforces/internal/chess"
)

func testSession(id string) *Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &Session{
		ID:        id,
		Board:     chess.InitialBoard(),
		Turn:      chess.White,
		Status:    StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Load(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent id, got %+v", got)
	}
}

func TestMemoryStoreCopiesOnLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Save(ctx, testSession("g1"), time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	a, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a.WhiteID = "tampered"

	b, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.WhiteID != "" {
		t.Fatalf("stored entry aliased by a loaded copy")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Save(ctx, testSession("g1"), time.Millisecond); err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	got, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired entry to be gone")
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	store, err := NewRedisStore(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	in := testSession("g1")
	in.WhiteID, in.WhiteName = "p1", "Alice"
	if err := store.Save(ctx, in, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := store.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out == nil || out.ID != "g1" || out.WhiteName != "Alice" || out.Board != in.Board {
		t.Fatalf("round-trip mismatch: %+v", out)
	}

	// TTL is applied on save and honored on expiry.
	if ttl := mr.TTL(sessionKey("g1")); ttl <= 0 {
		t.Fatalf("expected a positive TTL, got %v", ttl)
	}
	mr.FastForward(2 * time.Hour)
	out, err = store.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load after expiry: %v", err)
	}
	if out != nil {
		t.Fatalf("expected expired session to be absent")
	}
}

func TestRedisStoreRejectsBadURL(t *testing.T) {
	if _, err := NewRedisStore("http://localhost:6379"); err == nil {
		t.Fatalf("expected error for non-redis scheme")
	}
	if _, err := NewRedisStore(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
