package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"school-menu-calendar/internal/database"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := time.Date(2026, time.February, 2, 8, 0, 0, 0, time.UTC)
	s := NewStore(db.SQL, ttl)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t, 10*time.Minute)

	if _, ok, err := s.Get(ctx, "https://api/FamilyMenu?x=1"); err != nil || ok {
		t.Fatalf("Expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	if err := s.Put(ctx, "https://api/FamilyMenu?x=1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	body, ok, err := s.Get(ctx, "https://api/FamilyMenu?x=1")
	if err != nil || !ok || string(body) != `{"a":1}` {
		t.Fatalf("Expected hit, got %q ok=%v err=%v", body, ok, err)
	}

	if err := s.Put(ctx, "https://api/FamilyMenu?x=1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	body, _, _ = s.Get(ctx, "https://api/FamilyMenu?x=1")
	if string(body) != `{"a":2}` {
		t.Errorf("Expected overwritten body, got %q", body)
	}

	*clock = clock.Add(11 * time.Minute)
	if _, ok, _ := s.Get(ctx, "https://api/FamilyMenu?x=1"); ok {
		t.Error("Expected expired entry to be ignored")
	}
}

func TestStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t, time.Minute)

	s.Put(ctx, "old", []byte("1"))
	*clock = clock.Add(2 * time.Minute)
	s.Put(ctx, "fresh", []byte("2"))

	n, err := s.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 expired row removed, got %d", n)
	}
	if _, ok, _ := s.Get(ctx, "fresh"); !ok {
		t.Error("Expected fresh entry to survive cleanup")
	}
}

func TestStore_ZeroTTLDisablesWrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	if err := s.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("Expected no caching with a zero TTL")
	}
}
