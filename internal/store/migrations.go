package store

const schema = `
CREATE TABLE IF NOT EXISTS response_cache (
    key           TEXT PRIMARY KEY,
    total_results INTEGER NOT NULL DEFAULT 0,
    articles      TEXT NOT NULL DEFAULT '[]',
    fetched_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cache_fetched_at ON response_cache(fetched_at);
`
