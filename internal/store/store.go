package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"culturepulse/pkg/pulse"
)

// Store is the persistence interface for cached provider responses. Only raw
// article sets are stored; scores are never written to disk.
type Store interface {
	Get(ctx context.Context, key string) (pulse.ArticleSet, bool, error)
	Put(ctx context.Context, key string, set pulse.ArticleSet) error
	Prune(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sqlx.DB
	ttl time.Duration
	now func() time.Time
}

type cacheRow struct {
	Key          string    `db:"key"`
	TotalResults int       `db:"total_results"`
	Articles     string    `db:"articles"`
	FetchedAt    time.Time `db:"fetched_at"`
}

// New opens a SQLite database at path and runs migrations. Entries older than
// ttl are treated as misses.
func New(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the cached article set for key, if present and fresh.
func (s *SQLiteStore) Get(ctx context.Context, key string) (pulse.ArticleSet, bool, error) {
	var row cacheRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM response_cache WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return pulse.ArticleSet{}, false, nil
	}
	if err != nil {
		return pulse.ArticleSet{}, false, fmt.Errorf("get cache %s: %w", key, err)
	}

	if s.now().Sub(row.FetchedAt) > s.ttl {
		return pulse.ArticleSet{}, false, nil
	}

	set := pulse.ArticleSet{TotalResults: row.TotalResults}
	if err := json.Unmarshal([]byte(row.Articles), &set.Articles); err != nil {
		// A corrupt row is a miss, not a failure.
		return pulse.ArticleSet{}, false, nil
	}
	return set, true, nil
}

// Put stores the article set under key, replacing any previous entry.
func (s *SQLiteStore) Put(ctx context.Context, key string, set pulse.ArticleSet) error {
	articles, err := json.Marshal(set.Articles)
	if err != nil {
		return fmt.Errorf("marshal cache articles: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO response_cache (key, total_results, articles, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			total_results = excluded.total_results,
			articles = excluded.articles,
			fetched_at = excluded.fetched_at
	`, key, set.TotalResults, string(articles), s.now().UTC())
	if err != nil {
		return fmt.Errorf("put cache %s: %w", key, err)
	}
	return nil
}

// Prune deletes entries past the TTL.
func (s *SQLiteStore) Prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM response_cache WHERE fetched_at < ?", s.now().Add(-s.ttl).UTC())
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	return nil
}
