package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"culturepulse/pkg/pulse"
)

func newTestStore(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	set := pulse.ArticleSet{
		Articles: []pulse.ArticleRecord{
			{Title: "Cup final tonight", SourceName: "The Guardian", PublishedAt: "2025-06-15T09:00:00Z"},
			{Title: "Untitled", SourceName: "", PublishedAt: ""},
		},
		TotalResults: 2543,
	}

	if err := s.Put(ctx, "newsapi|Sports|2025-06-08|2025-06-15", set); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, "newsapi|Sports|2025-06-08|2025-06-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: miss for fresh entry")
	}
	if got.TotalResults != 2543 {
		t.Errorf("TotalResults = %d, want 2543", got.TotalResults)
	}
	if len(got.Articles) != 2 || got.Articles[0].SourceName != "The Guardian" {
		t.Errorf("articles round trip mismatch: %+v", got.Articles)
	}
}

func TestGetMissesUnknownKey(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_, ok, err := s.Get(context.Background(), "newsapi|Health|2025-06-08|2025-06-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get: hit for unknown key")
	}
}

func TestGetMissesExpiredEntry(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "k", pulse.ArticleSet{TotalResults: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Shift the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get: hit for expired entry")
	}
}

func TestPutReplacesEntry(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "k", pulse.ArticleSet{TotalResults: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "k", pulse.ArticleSet{TotalResults: 9}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.TotalResults != 9 {
		t.Errorf("TotalResults = %d, want 9", got.TotalResults)
	}
}

func TestPruneRemovesExpired(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Put(ctx, "old", pulse.ArticleSet{}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	if err := s.Put(ctx, "fresh", pulse.ArticleSet{}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := s.Prune(ctx); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	if _, ok, _ := s.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry pruned")
	}
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM response_cache"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows after prune = %d, want 1", n)
	}
}
