package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/newsintel/internal/domain"
)

// ArticleRepository handles database operations for enriched articles.
// Records are append-or-merge: identity (id) is the sole dedup key and
// rows are never deleted by the pipeline.
type ArticleRepository struct {
	db *sqlx.DB
}

// articleRow is the flat sqlite representation of an article. Enrichment
// detail (tickers, entities, tags, sentiment, market context, meta) lives
// in one JSON column; fields that are filtered on get their own columns.
type articleRow struct {
	ID            string       `db:"id"`
	CanonicalLink string       `db:"canonical_link"`
	Title         string       `db:"title"`
	Description   string       `db:"description"`
	SourceName    string       `db:"source_name"`
	SourceKey     string       `db:"source_key"`
	Category      string       `db:"category"`
	PubDate       sql.NullTime `db:"pub_date"`
	FirstSeen     time.Time    `db:"first_seen"`
	LastSeen      time.Time    `db:"last_seen"`
	FetchCount    int          `db:"fetch_count"`
	ContentHash   string       `db:"content_hash"`
	Enrichment    string       `db:"enrichment"`
}

// enrichmentPayload is the JSON column contents.
type enrichmentPayload struct {
	Tickers       []string              `json:"tickers,omitempty"`
	Entities      domain.Entities       `json:"entities"`
	Tags          []string              `json:"tags,omitempty"`
	Sentiment     domain.Sentiment      `json:"sentiment"`
	MarketContext *domain.MarketContext `json:"market_context,omitempty"`
	Meta          domain.ArticleMeta    `json:"meta"`
}

// Get retrieves an article by id. Returns ErrNotFound when absent.
func (r *ArticleRepository) Get(ctx context.Context, id string) (*domain.EnrichedArticle, error) {
	var row articleRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM articles WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	return row.toDomain()
}

// Upsert inserts or replaces an article row and its ticker index entries.
func (r *ArticleRepository) Upsert(ctx context.Context, article *domain.EnrichedArticle) error {
	row, err := toRow(article)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO articles (
			id, canonical_link, title, description, source_name,
			source_key, category, pub_date, first_seen, last_seen,
			fetch_count, content_hash, enrichment
		) VALUES (
			:id, :canonical_link, :title, :description, :source_name,
			:source_key, :category, :pub_date, :first_seen, :last_seen,
			:fetch_count, :content_hash, :enrichment
		)
		ON CONFLICT(id) DO UPDATE SET
			title        = excluded.title,
			description  = excluded.description,
			last_seen    = excluded.last_seen,
			fetch_count  = excluded.fetch_count,
			content_hash = excluded.content_hash,
			enrichment   = excluded.enrichment
	`, row)
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", article.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_tickers WHERE article_id = ?`, article.ID); err != nil {
		return fmt.Errorf("clear ticker index for %s: %w", article.ID, err)
	}
	for _, ticker := range article.Tickers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_tickers (article_id, ticker) VALUES (?, ?)`,
			article.ID, ticker); err != nil {
			return fmt.Errorf("index ticker %s for %s: %w", ticker, article.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// ListBySource returns articles from one source, newest first.
func (r *ArticleRepository) ListBySource(ctx context.Context, sourceName string, limit int) ([]*domain.EnrichedArticle, error) {
	var rows []articleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM articles
		WHERE source_name = ?
		ORDER BY first_seen DESC
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles by source %s: %w", sourceName, err)
	}
	return toDomainList(rows)
}

// ListByTicker returns articles mentioning a ticker, newest first.
func (r *ArticleRepository) ListByTicker(ctx context.Context, ticker string, limit int) ([]*domain.EnrichedArticle, error) {
	var rows []articleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT a.* FROM articles a
		JOIN article_tickers t ON t.article_id = a.id
		WHERE t.ticker = ?
		ORDER BY a.first_seen DESC
		LIMIT ?
	`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles by ticker %s: %w", ticker, err)
	}
	return toDomainList(rows)
}

// ListSince returns articles first seen at or after the cutoff.
func (r *ArticleRepository) ListSince(ctx context.Context, cutoff time.Time) ([]*domain.EnrichedArticle, error) {
	var rows []articleRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM articles
		WHERE first_seen >= ?
		ORDER BY first_seen ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list articles since %s: %w", cutoff, err)
	}
	return toDomainList(rows)
}

// Count returns the total number of stored articles.
func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM articles`); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

func toRow(a *domain.EnrichedArticle) (*articleRow, error) {
	payload, err := json.Marshal(enrichmentPayload{
		Tickers:       a.Tickers,
		Entities:      a.Entities,
		Tags:          a.Tags,
		Sentiment:     a.Sentiment,
		MarketContext: a.MarketContext,
		Meta:          a.Meta,
	})
	if err != nil {
		return nil, fmt.Errorf("encode enrichment for %s: %w", a.ID, err)
	}

	row := &articleRow{
		ID:            a.ID,
		CanonicalLink: a.CanonicalLink,
		Title:         a.Title,
		Description:   a.Description,
		SourceName:    a.SourceName,
		SourceKey:     a.SourceKey,
		Category:      a.Category,
		FirstSeen:     a.FirstSeen,
		LastSeen:      a.LastSeen,
		FetchCount:    a.FetchCount,
		ContentHash:   a.ContentHash,
		Enrichment:    string(payload),
	}
	if a.PubDate != nil {
		row.PubDate = sql.NullTime{Time: *a.PubDate, Valid: true}
	}
	return row, nil
}

func (row *articleRow) toDomain() (*domain.EnrichedArticle, error) {
	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(row.Enrichment), &payload); err != nil {
		return nil, fmt.Errorf("decode enrichment for %s: %w", row.ID, err)
	}

	article := &domain.EnrichedArticle{
		ID:            row.ID,
		CanonicalLink: row.CanonicalLink,
		Title:         row.Title,
		Description:   row.Description,
		SourceName:    row.SourceName,
		SourceKey:     row.SourceKey,
		Category:      row.Category,
		FirstSeen:     row.FirstSeen,
		LastSeen:      row.LastSeen,
		FetchCount:    row.FetchCount,
		ContentHash:   row.ContentHash,
		Tickers:       payload.Tickers,
		Entities:      payload.Entities,
		Tags:          payload.Tags,
		Sentiment:     payload.Sentiment,
		MarketContext: payload.MarketContext,
		Meta:          payload.Meta,
	}
	if row.PubDate.Valid {
		pub := row.PubDate.Time
		article.PubDate = &pub
	}
	return article, nil
}

func toDomainList(rows []articleRow) ([]*domain.EnrichedArticle, error) {
	articles := make([]*domain.EnrichedArticle, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}
