package domain

import "time"

// Bounded window capacities for per-source bookkeeping.
const (
	// DelayWindowCap bounds the rolling window of follower delay samples.
	DelayWindowCap = 1000
	// CredibilityHistoryCap bounds the audit trail of score changes.
	CredibilityHistoryCap = 100
)

// Source categories inferred from the source name.
const (
	SourceCategoryExchange    = "exchange"
	SourceCategoryMedia       = "media"
	SourceCategoryAggregator  = "aggregator"
	SourceCategoryInstitution = "institution"
	SourceCategoryOther       = "other"
)

// CredibilityChange records one adjustment to a source's credibility score,
// kept for auditability.
type CredibilityChange struct {
	Timestamp time.Time `json:"timestamp"`
	NewScore  float64   `json:"new_score"`
	Delta     float64   `json:"delta"`
}

// SourceStats is the persistent per-source reliability record, keyed by
// normalized source name.
type SourceStats struct {
	SourceName string `json:"source_name"`
	Category   string `json:"category"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	TotalArticles             int `json:"total_articles"`
	FirstMoverCount           int `json:"first_mover_count"`
	TotalClustersParticipated int `json:"total_clusters_participated"`
	ExclusiveStories          int `json:"exclusive_stories"`

	// DelaySamples is a rolling window (oldest dropped first) of follower
	// lag in minutes, capped at DelayWindowCap entries.
	DelaySamples    []float64 `json:"delay_samples,omitempty"`
	AvgDelayMinutes float64   `json:"avg_delay_minutes"`

	CoverageByCategory map[string]int `json:"coverage_by_category,omitempty"`
	CoverageByTicker   map[string]int `json:"coverage_by_ticker,omitempty"`

	// HourlyDistribution counts articles per UTC hour of day.
	HourlyDistribution [24]int `json:"hourly_distribution"`

	PredictionsMade      int `json:"predictions_made"`
	PredictionsCorrect   int `json:"predictions_correct"`
	PredictionsIncorrect int `json:"predictions_incorrect"`
	PredictionsPending   int `json:"predictions_pending"`

	// CredibilityScore is the incrementally adjusted score, always clamped
	// to [0,100].
	CredibilityScore   float64             `json:"credibility_score"`
	CredibilityHistory []CredibilityChange `json:"credibility_history,omitempty"`
}

// NewSourceStats creates a fresh stats record with the neutral starting
// credibility score.
func NewSourceStats(sourceName, category string, now time.Time) *SourceStats {
	return &SourceStats{
		SourceName:         sourceName,
		Category:           category,
		FirstSeen:          now,
		LastSeen:           now,
		CoverageByCategory: make(map[string]int),
		CoverageByTicker:   make(map[string]int),
		CredibilityScore:   DefaultCredibilityScore,
	}
}

// DefaultCredibilityScore is the neutral starting score for new sources.
const DefaultCredibilityScore = 50.0
