// Package pipeline orchestrates one batch run of the intelligence core:
// enrich, merge against the store, cluster, update reliability state,
// persist. Stages execute strictly sequentially; each depends on the
// complete output of the previous one.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/newsintel/internal/cluster"
	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/enrich"
	"github.com/jonesrussell/newsintel/internal/logger"
	"github.com/jonesrussell/newsintel/internal/metrics"
	"github.com/jonesrussell/newsintel/internal/reliability"
	"github.com/jonesrussell/newsintel/internal/storage"
)

// Processor runs the three-stage intelligence pipeline over materialized
// raw-item batches. It is not safe for concurrent runs against the same
// store; the caller serializes invocations.
type Processor struct {
	enricher  *enrich.Enricher
	merger    *enrich.Merger
	clusterer *cluster.Clusterer
	db        *storage.DB
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// leaderboardLogSize caps how many ranked sources each run logs.
const leaderboardLogSize = 10

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Articles  []*domain.EnrichedArticle
	Clusters  *domain.ClusterResult
	Rejected  int
	Merged    int
	SourceCnt int
}

// NewProcessor wires the pipeline stages together.
func NewProcessor(
	enricher *enrich.Enricher,
	clusterer *cluster.Clusterer,
	db *storage.DB,
	m *metrics.Metrics,
	log logger.Logger,
) *Processor {
	return &Processor{
		enricher:  enricher,
		merger:    enrich.NewMerger(log),
		clusterer: clusterer,
		db:        db,
		metrics:   m,
		logger:    log,
	}
}

// Run processes one batch. The optional market context is forwarded into
// every article enriched during the run.
func (p *Processor) Run(ctx context.Context, items []*domain.RawItem, mkt *domain.MarketContext) (*RunResult, error) {
	started := time.Now()
	p.metrics.BatchSize.Observe(float64(len(items)))

	p.logger.Info("pipeline run starting",
		logger.Int("batch_size", len(items)),
	)

	// Stage 0: load persistent reliability state once.
	stats, err := p.db.SourceStats.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source stats: %w", err)
	}
	tracker := reliability.NewTracker(stats, p.logger)

	runIDs, err := p.db.Runs.RecentRunIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recent runs: %w", err)
	}
	tracker.SetProcessedRuns(runIDs)

	// Stage 1: enrich and merge against previously stored records. The
	// enriched set is keyed by article ID: a batch carrying the same
	// canonical link twice merges into one entry, never two.
	result := &RunResult{}
	seen := make(map[string]int)
	for _, item := range items {
		if !item.Valid() {
			result.Rejected++
			p.metrics.ItemsRejected.Inc()
			continue
		}

		article := p.enricher.Enrich(item, mkt)

		existing, err := p.db.Articles.Get(ctx, article.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("lookup article %s: %w", article.ID, err)
		}
		if existing != nil {
			article = p.merger.Merge(existing, article)
			result.Merged++
			p.metrics.ItemsMerged.Inc()
		}

		if err := p.db.Articles.Upsert(ctx, article); err != nil {
			return nil, fmt.Errorf("persist article %s: %w", article.ID, err)
		}

		if idx, ok := seen[article.ID]; ok {
			result.Articles[idx] = article
			continue
		}
		seen[article.ID] = len(result.Articles)
		result.Articles = append(result.Articles, article)
		p.metrics.ItemsProcessed.Inc()
	}

	// Stage 2: cluster the whole enriched batch.
	result.Clusters = p.clusterer.Cluster(result.Articles)
	p.metrics.ClustersFormed.Add(float64(result.Clusters.Stats.TotalClusters))
	p.metrics.CoordinatedClusters.Add(float64(result.Clusters.Stats.CoordinatedClusters))

	// Stage 3: update reliability state from the full cluster set.
	for _, article := range result.Articles {
		tracker.RecordArticle(article)
	}
	tracker.ProcessClusteringResults(result.Clusters)
	result.SourceCnt = len(tracker.Stats())
	p.metrics.CredibilityAdjustments.Add(float64(tracker.Adjustments()))

	// Persist run summary and reliability state once, at the end.
	if err := p.db.Runs.SaveRun(ctx, result.Clusters, started); err != nil {
		return nil, fmt.Errorf("persist run summary: %w", err)
	}
	if err := p.db.SourceStats.SaveAll(ctx, tracker.Stats()); err != nil {
		return nil, fmt.Errorf("persist source stats: %w", err)
	}

	elapsed := time.Since(started)
	p.metrics.RunDuration.Observe(elapsed.Seconds())

	for _, entry := range tracker.Leaderboard(reliability.MetricCredibility, leaderboardLogSize) {
		p.logger.Debug("source standing",
			logger.String("source", entry.SourceName),
			logger.String("rank", entry.Rank),
			logger.Float64("credibility", entry.CredibilityScore),
			logger.Int("first_mover_count", entry.FirstMoverCount),
		)
	}

	p.logger.Info("pipeline run complete",
		logger.String("run_id", result.Clusters.RunID),
		logger.Int("articles", len(result.Articles)),
		logger.Int("rejected", result.Rejected),
		logger.Int("merged", result.Merged),
		logger.Int("clusters", result.Clusters.Stats.TotalClusters),
		logger.Int("sources", result.SourceCnt),
		logger.Duration("elapsed", elapsed),
	)

	return result, nil
}
