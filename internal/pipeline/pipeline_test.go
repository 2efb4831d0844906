package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsintel/internal/cluster"
	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/enrich"
	"github.com/jonesrussell/newsintel/internal/logger"
	"github.com/jonesrussell/newsintel/internal/metrics"
	"github.com/jonesrussell/newsintel/internal/storage"
)

func testProcessor(t *testing.T) (*Processor, *storage.DB) {
	t.Helper()

	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNop()
	p := NewProcessor(
		enrich.NewEnricher(enrich.DefaultLexicon(), log),
		cluster.NewClusterer(cluster.DefaultConfig(), log),
		db,
		metrics.New(prometheus.NewRegistry()),
		log,
	)
	return p, db
}

func pubAt(t time.Time) *time.Time { return &t }

func batch() []*domain.RawItem {
	t0 := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	return []*domain.RawItem{
		{
			Title:       "Bitcoin Surges Past $100,000",
			Link:        "https://coindesk.example.com/btc-100k",
			Description: "Bitcoin crossed the $100,000 level for the first time as ETF inflows accelerated",
			SourceName:  "coindesk",
			Category:    "markets",
			PubDate:     pubAt(t0),
		},
		{
			Title:       "BTC Hits $100K Milestone",
			Link:        "https://theblock.example.com/btc-milestone",
			Description: "Bitcoin crossed the $100,000 level for the first time as ETF inflows surged",
			SourceName:  "theblock",
			Category:    "markets",
			PubDate:     pubAt(t0.Add(10 * time.Minute)),
		},
		{
			Title:      "Ethereum DeFi TVL Reaches New High",
			Link:       "https://defiant.example.com/defi-tvl",
			SourceName: "defiant",
			Category:   "defi",
			PubDate:    pubAt(t0.Add(5 * time.Minute)),
		},
		{
			// Missing link: rejected before enrichment.
			Title:      "Broken item",
			SourceName: "junkwire",
		},
	}
}

func TestRun_FullPipeline(t *testing.T) {
	p, db := testProcessor(t)
	ctx := context.Background()

	result, err := p.Run(ctx, batch(), nil)
	require.NoError(t, err)

	assert.Len(t, result.Articles, 3)
	assert.Equal(t, 1, result.Rejected)
	assert.Zero(t, result.Merged)
	assert.Equal(t, 2, result.Clusters.Stats.TotalClusters)

	// Articles persisted.
	count, err := db.Articles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Reliability state persisted: first mover credited, follower lagged.
	stats, err := db.SourceStats.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, stats, "coindesk")
	assert.Equal(t, 1, stats["coindesk"].FirstMoverCount)
	require.Contains(t, stats, "theblock")
	assert.InDelta(t, 10, stats["theblock"].AvgDelayMinutes, 1e-9)
	require.Contains(t, stats, "defiant")
	assert.Equal(t, 1, stats["defiant"].ExclusiveStories)

	// Run summary persisted and visible to the replay guard.
	ids, err := db.Runs.RecentRunIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, result.Clusters.RunID)
}

func TestRun_ReobservationMerges(t *testing.T) {
	p, db := testProcessor(t)
	ctx := context.Background()

	_, err := p.Run(ctx, batch(), nil)
	require.NoError(t, err)

	// Same links again, one with tracking params appended.
	second := batch()
	second[0].Link += "?utm_source=rss"

	result, err := p.Run(ctx, second, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Merged)

	count, err := db.Articles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "re-observed links must not duplicate")

	article, err := db.Articles.Get(ctx, result.Articles[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, article.FetchCount)
}

func TestRun_InBatchDuplicateLink(t *testing.T) {
	p, db := testProcessor(t)
	ctx := context.Background()

	t0 := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	items := []*domain.RawItem{
		{
			Title:      "Bitcoin Surges Past $100,000",
			Link:       "https://coindesk.example.com/btc-100k",
			SourceName: "coindesk",
			PubDate:    pubAt(t0),
		},
		{
			// Same story re-fetched within one batch, tracking params added.
			Title:      "Bitcoin Surges Past $100,000",
			Link:       "https://coindesk.example.com/btc-100k?utm_source=rss",
			SourceName: "coindesk",
			PubDate:    pubAt(t0),
		},
		{
			Title:      "BTC Hits $100K Milestone",
			Link:       "https://theblock.example.com/btc-milestone",
			SourceName: "theblock",
			PubDate:    pubAt(t0.Add(10 * time.Minute)),
		},
	}

	result, err := p.Run(ctx, items, nil)
	require.NoError(t, err)

	// One enriched record per canonical link, merged in place.
	require.Len(t, result.Articles, 2)
	assert.Equal(t, 1, result.Merged)
	assert.Equal(t, 2, result.Articles[0].FetchCount)
	assert.Equal(t, 2, result.Clusters.Stats.TotalArticles)

	count, err := db.Articles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The follower is credited exactly once despite the duplicate fetch.
	stats, err := db.SourceStats.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, stats, "theblock")
	assert.Len(t, stats["theblock"].DelaySamples, 1)
	assert.Equal(t, 1, stats["coindesk"].TotalArticles)
}

func TestRun_EmptyBatch(t *testing.T) {
	p, _ := testProcessor(t)

	result, err := p.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Articles)
	assert.Empty(t, result.Clusters.Clusters)
	assert.Zero(t, result.Clusters.Stats.TotalArticles)
}

func TestRun_MarketContextAttached(t *testing.T) {
	p, db := testProcessor(t)

	mkt := &domain.MarketContext{
		Prices:    map[string]float64{"BTC": 100250},
		FearGreed: 81,
		FetchedAt: time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC),
	}

	result, err := p.Run(context.Background(), batch(), mkt)
	require.NoError(t, err)
	require.NotEmpty(t, result.Articles)

	stored, err := db.Articles.Get(context.Background(), result.Articles[0].ID)
	require.NoError(t, err)
	require.NotNil(t, stored.MarketContext)
	assert.Equal(t, 81, stored.MarketContext.FearGreed)
}
