package reliability

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
)

func testTracker() *Tracker {
	return NewTracker(nil, logger.NewNop())
}

func enriched(id, source string, observed time.Time) *domain.EnrichedArticle {
	return &domain.EnrichedArticle{
		ID:         id,
		SourceName: source,
		Category:   "crypto",
		Tickers:    []string{"BTC"},
		FirstSeen:  observed,
		LastSeen:   observed,
	}
}

func TestRecordArticle_Coverage(t *testing.T) {
	tr := testTracker()
	observed := time.Date(2026, 8, 14, 13, 30, 0, 0, time.UTC)

	tr.RecordArticle(enriched("a1", "CoinDesk", observed))
	tr.RecordArticle(enriched("a2", "CoinDesk", observed.Add(time.Hour)))

	s := tr.Source("coindesk")
	require.NotNil(t, s)
	assert.Equal(t, 2, s.TotalArticles)
	assert.Equal(t, 2, s.CoverageByCategory["crypto"])
	assert.Equal(t, 2, s.CoverageByTicker["BTC"])
	assert.Equal(t, 1, s.HourlyDistribution[13])
	assert.Equal(t, 1, s.HourlyDistribution[14])
	assert.Equal(t, domain.SourceCategoryMedia, s.Category)
}

func TestCredibilityClamping(t *testing.T) {
	tr := testTracker()

	tr.AdjustCredibility("wire", 45) // 50 -> 95
	for i := 0; i < 5; i++ {
		tr.AdjustCredibility("wire", 10)
	}
	assert.InDelta(t, 100, tr.Source("wire").CredibilityScore, 1e-9)

	tr.AdjustCredibility("wire", -95) // 100 -> 5
	for i := 0; i < 5; i++ {
		tr.AdjustCredibility("wire", -10)
	}
	assert.InDelta(t, 0, tr.Source("wire").CredibilityScore, 1e-9)
}

func TestCredibilityHistoryBounded(t *testing.T) {
	tr := testTracker()

	for i := 0; i < domain.CredibilityHistoryCap+20; i++ {
		tr.AdjustCredibility("wire", 0)
	}
	assert.Len(t, tr.Source("wire").CredibilityHistory, domain.CredibilityHistoryCap)
}

func TestDelayWindowBounded(t *testing.T) {
	tr := testTracker()
	cluster := &domain.StoryCluster{ID: "c1"}

	for i := 0; i < domain.DelayWindowCap+50; i++ {
		tr.RecordFollower("wire", float64(i), cluster)
	}

	s := tr.Source("wire")
	assert.Len(t, s.DelaySamples, domain.DelayWindowCap)
	// Oldest 50 samples (0..49) dropped; window holds 50..1049.
	assert.InDelta(t, 50, s.DelaySamples[0], 1e-9)
	assert.InDelta(t, 549.5, s.AvgDelayMinutes, 1e-9)
}

func TestFirstMoverRate(t *testing.T) {
	tr := testTracker()
	cluster := &domain.StoryCluster{ID: "c1"}

	for i := 0; i < 4; i++ {
		tr.RecordFirstMover("wire", cluster)
	}
	for i := 0; i < 6; i++ {
		tr.RecordFollower("wire", 5, cluster)
	}

	assert.Equal(t, 10, tr.Source("wire").TotalClustersParticipated)
	assert.InDelta(t, 40.0, firstMoverRate(tr.Source("wire")), 1e-9)
}

func TestAccuracyRate_NeutralPrior(t *testing.T) {
	tr := testTracker()
	tr.RecordArticle(enriched("a1", "wire", time.Now().UTC()))

	assert.InDelta(t, neutralAccuracy, accuracyRate(tr.Source("wire")), 1e-9)

	tr.RecordPrediction("wire")
	tr.RecordPrediction("wire")
	tr.ResolvePrediction("wire", true)
	tr.ResolvePrediction("wire", false)

	s := tr.Source("wire")
	assert.Equal(t, 2, s.PredictionsMade)
	assert.Equal(t, 1, s.PredictionsCorrect)
	assert.Equal(t, 1, s.PredictionsIncorrect)
	assert.Zero(t, s.PredictionsPending)
	assert.InDelta(t, 50.0, accuracyRate(s), 1e-9)
}

func TestProcessClusteringResults(t *testing.T) {
	tr := testTracker()

	t0 := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	first := enriched("a1", "coindesk", t0)
	follower := enriched("a2", "theblock", t0.Add(15*time.Minute))

	result := &domain.ClusterResult{
		RunID: "run-1",
		Clusters: []*domain.StoryCluster{
			{
				ID:       "c1",
				Articles: []*domain.EnrichedArticle{first, follower},
				Sources:  []string{"coindesk", "theblock"},
				First: &domain.FirstMover{
					ArticleID:  "a1",
					SourceName: "coindesk",
					ObservedAt: t0,
				},
			},
			{
				ID:       "c2",
				Articles: []*domain.EnrichedArticle{enriched("a3", "decrypt", t0)},
				Sources:  []string{"decrypt"},
				First: &domain.FirstMover{
					ArticleID:  "a3",
					SourceName: "decrypt",
					ObservedAt: t0,
				},
			},
		},
	}

	tr.ProcessClusteringResults(result)

	mover := tr.Source("coindesk")
	assert.Equal(t, 1, mover.FirstMoverCount)
	assert.InDelta(t, 52, mover.CredibilityScore, 1e-9) // 50 + 2

	lag := tr.Source("theblock")
	assert.Equal(t, 1, lag.TotalClustersParticipated)
	assert.InDelta(t, 15, lag.AvgDelayMinutes, 1e-9)

	exclusive := tr.Source("decrypt")
	assert.Equal(t, 1, exclusive.ExclusiveStories)
	// +2 first mover, +5 exclusive.
	assert.InDelta(t, 57, exclusive.CredibilityScore, 1e-9)
}

func TestProcessClusteringResults_ReplayGuard(t *testing.T) {
	tr := testTracker()

	t0 := time.Now().UTC()
	result := &domain.ClusterResult{
		RunID: "run-1",
		Clusters: []*domain.StoryCluster{
			{
				ID:       "c1",
				Articles: []*domain.EnrichedArticle{enriched("a1", "coindesk", t0)},
				Sources:  []string{"coindesk"},
				First: &domain.FirstMover{
					ArticleID: "a1", SourceName: "coindesk", ObservedAt: t0,
				},
			},
		},
	}

	tr.ProcessClusteringResults(result)
	tr.ProcessClusteringResults(result)

	s := tr.Source("coindesk")
	assert.Equal(t, 1, s.FirstMoverCount, "replay must not double-count")
	assert.Equal(t, 1, s.ExclusiveStories)
}

func TestCalculateCredibilityScore(t *testing.T) {
	tr := testTracker()
	cluster := &domain.StoryCluster{ID: "c1"}

	for i := 0; i < 4; i++ {
		tr.RecordFirstMover("wire", cluster)
	}
	for i := 0; i < 6; i++ {
		tr.RecordFollower("wire", 5, cluster)
	}

	// first_mover_rate=40, accuracy=50 (prior), consistency=100 (no
	// articles -> zero variance), original=0.
	want := 0.3*40 + 0.2*100 + 0.3*50 + 0.2*0
	assert.InDelta(t, want, tr.CalculateCredibilityScore("wire"), 1e-9)

	assert.Zero(t, tr.CalculateCredibilityScore("unknown"))
}

func TestLeaderboard(t *testing.T) {
	tr := testTracker()
	observed := time.Now().UTC()

	for i := 0; i < 12; i++ {
		tr.RecordArticle(enriched(fmt.Sprintf("a%d", i), "coindesk", observed))
		tr.RecordArticle(enriched(fmt.Sprintf("b%d", i), "theblock", observed))
	}
	// Below the volume floor: never ranked.
	tr.RecordArticle(enriched("c1", "tinyblog", observed))

	tr.AdjustCredibility("coindesk", 30)
	tr.AdjustCredibility("theblock", -20)

	board := tr.Leaderboard(MetricCredibility, 10)
	require.Len(t, board, 2)
	assert.Equal(t, "coindesk", board[0].SourceName)
	assert.Equal(t, "trusted", board[0].Rank)
	assert.Equal(t, "theblock", board[1].SourceName)
	assert.Equal(t, "low", board[1].Rank)
}
