package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsintel/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func storedArticle(id, source string, firstSeen time.Time) *domain.EnrichedArticle {
	return &domain.EnrichedArticle{
		ID:            id,
		CanonicalLink: "https://example.com/" + id,
		Title:         "Title " + id,
		SourceName:    source,
		FirstSeen:     firstSeen,
		LastSeen:      firstSeen,
		FetchCount:    1,
		ContentHash:   "hash-" + id,
		Tickers:       []string{"BTC", "ETH"},
		Tags:          []string{"price"},
		Sentiment:     domain.Sentiment{Score: 0.5, Label: domain.SentimentPositive, Confidence: 0.7},
	}
}

func TestArticleRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	original := storedArticle("a1", "coindesk", time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC))
	pub := original.FirstSeen.Add(-time.Hour)
	original.PubDate = &pub

	require.NoError(t, db.Articles.Upsert(ctx, original))

	got, err := db.Articles.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, original.Title, got.Title)
	assert.Equal(t, original.Tickers, got.Tickers)
	assert.Equal(t, original.Sentiment, got.Sentiment)
	require.NotNil(t, got.PubDate)
	assert.True(t, pub.Equal(*got.PubDate))
}

func TestArticleRepository_GetMissing(t *testing.T) {
	db := testDB(t)

	_, err := db.Articles.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticleRepository_UpsertMergesByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	first := storedArticle("a1", "coindesk", t0)
	require.NoError(t, db.Articles.Upsert(ctx, first))

	second := storedArticle("a1", "coindesk", t0)
	second.LastSeen = t0.Add(time.Hour)
	second.FetchCount = 2
	require.NoError(t, db.Articles.Upsert(ctx, second))

	count, err := db.Articles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "same id must not duplicate")

	got, err := db.Articles.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.FetchCount)
}

func TestArticleRepository_Filters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	a := storedArticle("a1", "coindesk", t0)
	b := storedArticle("a2", "theblock", t0.Add(time.Hour))
	b.Tickers = []string{"SOL"}
	require.NoError(t, db.Articles.Upsert(ctx, a))
	require.NoError(t, db.Articles.Upsert(ctx, b))

	bySource, err := db.Articles.ListBySource(ctx, "coindesk", 10)
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "a1", bySource[0].ID)

	byTicker, err := db.Articles.ListByTicker(ctx, "SOL", 10)
	require.NoError(t, err)
	require.Len(t, byTicker, 1)
	assert.Equal(t, "a2", byTicker[0].ID)

	since, err := db.Articles.ListSince(ctx, t0.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, "a2", since[0].ID)
}

func TestSourceStatsRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Missing store means start fresh.
	empty, err := db.SourceStats.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	stats := map[string]*domain.SourceStats{
		"coindesk": {
			SourceName:       "coindesk",
			Category:         domain.SourceCategoryMedia,
			TotalArticles:    5,
			FirstMoverCount:  2,
			CredibilityScore: 62,
			DelaySamples:     []float64{3, 7},
			CoverageByTicker: map[string]int{"BTC": 4},
		},
	}
	require.NoError(t, db.SourceStats.SaveAll(ctx, stats))

	loaded, err := db.SourceStats.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded, "coindesk")
	assert.Equal(t, 5, loaded["coindesk"].TotalArticles)
	assert.Equal(t, []float64{3, 7}, loaded["coindesk"].DelaySamples)
	assert.Equal(t, 4, loaded["coindesk"].CoverageByTicker["BTC"])
	assert.NotNil(t, loaded["coindesk"].CoverageByCategory)
}

func TestRunRepository_RecentRunIDs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	t0 := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		result := &domain.ClusterResult{
			RunID: id,
			Stats: domain.ClusterStats{TotalArticles: i},
		}
		require.NoError(t, db.Runs.SaveRun(ctx, result, t0.Add(time.Duration(i)*time.Hour)))
	}

	ids, err := db.Runs.RecentRunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2", "run-3"}, ids)
}
