// Package reliability maintains longitudinal per-source statistics and a
// bounded credibility score derived from clustering output.
package reliability

import (
	"strings"
	"time"

	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
)

// Credibility deltas applied by the tracker's recording methods.
const (
	firstMoverDelta        = 2.0
	exclusiveDelta         = 5.0  // stronger evidence of original reporting
	predictionCorrectDelta = 10.0
	predictionWrongDelta   = -10.0
)

// processedRunsCap bounds the replay-guard memory of recent run IDs.
const processedRunsCap = 128

// categoryPatterns maps source-name substrings to a category. Best-effort
// string matching; unmatched sources fall into "other", never an error.
var categoryPatterns = []struct {
	substr   string
	category string
}{
	{"binance", domain.SourceCategoryExchange},
	{"coinbase", domain.SourceCategoryExchange},
	{"kraken", domain.SourceCategoryExchange},
	{"okx", domain.SourceCategoryExchange},
	{"bybit", domain.SourceCategoryExchange},
	{"coindesk", domain.SourceCategoryMedia},
	{"cointelegraph", domain.SourceCategoryMedia},
	{"theblock", domain.SourceCategoryMedia},
	{"decrypt", domain.SourceCategoryMedia},
	{"bloomberg", domain.SourceCategoryMedia},
	{"reuters", domain.SourceCategoryMedia},
	{"forbes", domain.SourceCategoryMedia},
	{"cryptopanic", domain.SourceCategoryAggregator},
	{"aggregator", domain.SourceCategoryAggregator},
	{"reddit", domain.SourceCategoryAggregator},
	{"grayscale", domain.SourceCategoryInstitution},
	{"blackrock", domain.SourceCategoryInstitution},
	{"fidelity", domain.SourceCategoryInstitution},
}

// Tracker owns the per-source statistics map for the duration of a run.
// It is not safe for concurrent use; the pipeline runs stages sequentially
// and the caller serializes runs against the persistent store.
type Tracker struct {
	stats         map[string]*domain.SourceStats
	processedRuns []string
	adjustments   int
	logger        logger.Logger
	now           func() time.Time
}

// NewTracker creates a tracker over previously loaded stats. A nil map
// means "start fresh" (missing store is not an error).
func NewTracker(stats map[string]*domain.SourceStats, log logger.Logger) *Tracker {
	if stats == nil {
		stats = make(map[string]*domain.SourceStats)
	}
	return &Tracker{
		stats:  stats,
		logger: log,
		now:    time.Now,
	}
}

// Stats exposes the current statistics map for persistence at run end.
func (t *Tracker) Stats() map[string]*domain.SourceStats {
	return t.stats
}

// Source returns the stats record for a source, or nil if never seen.
func (t *Tracker) Source(sourceName string) *domain.SourceStats {
	return t.stats[normalizeSource(sourceName)]
}

// RecordArticle accounts one observed article for its source: totals,
// last-seen, category/ticker coverage and the UTC hourly bucket.
func (t *Tracker) RecordArticle(article *domain.EnrichedArticle) {
	s := t.getOrCreate(article.SourceName)

	s.TotalArticles++
	observed := article.ObservedAt().UTC()
	if observed.After(s.LastSeen) {
		s.LastSeen = observed
	}
	if article.Category != "" {
		s.CoverageByCategory[article.Category]++
	}
	for _, ticker := range article.Tickers {
		s.CoverageByTicker[ticker]++
	}
	s.HourlyDistribution[observed.Hour()]++
}

// RecordFirstMover credits a source for breaking a story first.
func (t *Tracker) RecordFirstMover(sourceName string, cluster *domain.StoryCluster) {
	s := t.getOrCreate(sourceName)
	s.FirstMoverCount++
	s.TotalClustersParticipated++
	t.adjust(s, firstMoverDelta)

	t.logger.Debug("first mover recorded",
		logger.String("source", s.SourceName),
		logger.String("cluster_id", cluster.ID),
		logger.Int("first_mover_count", s.FirstMoverCount),
	)
}

// RecordFollower accounts a source that covered a story after the first
// mover, with its delay in minutes.
func (t *Tracker) RecordFollower(sourceName string, delayMinutes float64, cluster *domain.StoryCluster) {
	s := t.getOrCreate(sourceName)
	s.TotalClustersParticipated++
	s.DelaySamples = appendBounded(s.DelaySamples, delayMinutes, domain.DelayWindowCap)
	s.AvgDelayMinutes = mean(s.DelaySamples)
}

// RecordExclusive credits a source for a story nobody else covered.
func (t *Tracker) RecordExclusive(sourceName string) {
	s := t.getOrCreate(sourceName)
	s.ExclusiveStories++
	t.adjust(s, exclusiveDelta)
}

// RecordPrediction registers a claim made by a source that can later be
// resolved. Resolution events come from an external caller; the tracker
// never judges claims itself.
func (t *Tracker) RecordPrediction(sourceName string) {
	s := t.getOrCreate(sourceName)
	s.PredictionsMade++
	s.PredictionsPending++
}

// ResolvePrediction settles a pending prediction.
func (t *Tracker) ResolvePrediction(sourceName string, correct bool) {
	s := t.getOrCreate(sourceName)
	if s.PredictionsPending > 0 {
		s.PredictionsPending--
	}
	if correct {
		s.PredictionsCorrect++
		t.adjust(s, predictionCorrectDelta)
	} else {
		s.PredictionsIncorrect++
		t.adjust(s, predictionWrongDelta)
	}
}

// AdjustCredibility applies a delta to a source's credibility score.
func (t *Tracker) AdjustCredibility(sourceName string, delta float64) {
	t.adjust(t.getOrCreate(sourceName), delta)
}

// adjust is the single mutation point for the credibility score: it clamps
// to [0,100] on every path and appends to the bounded audit history.
func (t *Tracker) adjust(s *domain.SourceStats, delta float64) {
	t.adjustments++
	score := s.CredibilityScore + delta
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	s.CredibilityScore = score
	s.CredibilityHistory = appendBounded(s.CredibilityHistory, domain.CredibilityChange{
		Timestamp: t.now().UTC(),
		NewScore:  score,
		Delta:     delta,
	}, domain.CredibilityHistoryCap)
}

// ProcessClusteringResults fans one run's clusters out into first-mover,
// follower and exclusive credits. Replaying the same run ID is a no-op:
// double-counting is guarded here rather than left to caller discipline.
func (t *Tracker) ProcessClusteringResults(result *domain.ClusterResult) {
	for _, seen := range t.processedRuns {
		if seen == result.RunID {
			t.logger.Warn("clustering run already processed, skipping",
				logger.String("run_id", result.RunID))
			return
		}
	}
	t.processedRuns = appendBounded(t.processedRuns, result.RunID, processedRunsCap)

	for _, cluster := range result.Clusters {
		if cluster.First == nil {
			continue
		}
		t.RecordFirstMover(cluster.First.SourceName, cluster)

		firstSeen := cluster.First.ObservedAt
		for _, article := range cluster.Articles {
			if article.ID == cluster.First.ArticleID {
				continue
			}
			delay := article.ObservedAt().Sub(firstSeen).Minutes()
			t.RecordFollower(article.SourceName, delay, cluster)
		}

		if len(cluster.Sources) == 1 {
			t.RecordExclusive(cluster.Sources[0])
		}
	}
}

// SetProcessedRuns seeds the replay guard from persisted state.
func (t *Tracker) SetProcessedRuns(runIDs []string) {
	for _, id := range runIDs {
		t.processedRuns = appendBounded(t.processedRuns, id, processedRunsCap)
	}
}

// ProcessedRuns exposes the replay-guard state for persistence.
func (t *Tracker) ProcessedRuns() []string {
	return t.processedRuns
}

// Adjustments reports how many credibility adjustments were applied since
// the tracker was built.
func (t *Tracker) Adjustments() int {
	return t.adjustments
}

func (t *Tracker) getOrCreate(sourceName string) *domain.SourceStats {
	key := normalizeSource(sourceName)
	if s, ok := t.stats[key]; ok {
		return s
	}
	s := domain.NewSourceStats(key, categorize(key), t.now().UTC())
	t.stats[key] = s
	return s
}

func normalizeSource(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func categorize(sourceName string) string {
	for _, p := range categoryPatterns {
		if strings.Contains(sourceName, p.substr) {
			return p.category
		}
	}
	return domain.SourceCategoryOther
}
