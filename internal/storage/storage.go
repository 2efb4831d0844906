// Package storage persists enriched articles, per-source statistics and
// run summaries in a local sqlite database. It is the single I/O boundary
// of the pipeline: state is loaded once at run start and saved once at run
// end, with runs serialized by the caller.
package storage

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// DB wraps the sqlite handle and its repositories.
type DB struct {
	conn *sqlx.DB

	Articles    *ArticleRepository
	SourceStats *SourceStatsRepository
	Runs        *RunRepository
}

// Open opens (creating if needed) the database at path and bootstraps the
// schema. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Single-writer batch model: one connection avoids sqlite lock churn.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &DB{
		conn:        conn,
		Articles:    &ArticleRepository{db: conn},
		SourceStats: &SourceStatsRepository{db: conn},
		Runs:        &RunRepository{db: conn},
	}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.conn.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id             TEXT PRIMARY KEY,
	canonical_link TEXT NOT NULL,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	source_name    TEXT NOT NULL,
	source_key     TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	pub_date       TIMESTAMP,
	first_seen     TIMESTAMP NOT NULL,
	last_seen      TIMESTAMP NOT NULL,
	fetch_count    INTEGER NOT NULL,
	content_hash   TEXT NOT NULL,
	enrichment     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_name);
CREATE INDEX IF NOT EXISTS idx_articles_first_seen ON articles(first_seen);

CREATE TABLE IF NOT EXISTS article_tickers (
	article_id TEXT NOT NULL REFERENCES articles(id),
	ticker     TEXT NOT NULL,
	PRIMARY KEY (article_id, ticker)
);

CREATE INDEX IF NOT EXISTS idx_article_tickers_ticker ON article_tickers(ticker);

CREATE TABLE IF NOT EXISTS source_stats (
	source_name TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_id               TEXT PRIMARY KEY,
	started_at           TIMESTAMP NOT NULL,
	total_articles       INTEGER NOT NULL,
	total_clusters       INTEGER NOT NULL,
	coordinated_clusters INTEGER NOT NULL,
	stats                TEXT NOT NULL
);
`
