package domain

import "time"

// Story sizes, by count of distinct sources in a cluster.
const (
	StorySizeSingle = "single" // 1 source
	StorySizeSmall  = "small"  // 2 sources
	StorySizeMedium = "medium" // 3-4 sources
	StorySizeLarge  = "large"  // 5-9 sources
	StorySizeMega   = "mega"   // 10+ sources
)

// FirstMover identifies the earliest-observed member of a cluster and its
// lead over the next-earliest distinct member.
type FirstMover struct {
	ArticleID       string    `json:"article_id"`
	SourceName      string    `json:"source_name"`
	ObservedAt      time.Time `json:"observed_at"`
	LeadTimeMinutes float64   `json:"lead_time_minutes"`
}

// StoryCluster groups near-duplicate coverage of one event within a single
// processing run. Cluster identity is run-local and not stable across runs.
type StoryCluster struct {
	ID             string             `json:"id"`
	Articles       []*EnrichedArticle `json:"articles"` // observation order
	Sources        []string           `json:"sources"`
	CanonicalTitle string             `json:"canonical_title"`
	KeyTerms       []string           `json:"key_terms,omitempty"`

	StorySize     string      `json:"story_size"`
	First         *FirstMover `json:"first_mover,omitempty"`
	IsCoordinated bool        `json:"is_coordinated"`
}

// ClusterStats summarizes one clustering run.
type ClusterStats struct {
	TotalArticles       int     `json:"total_articles"`
	TotalClusters       int     `json:"total_clusters"`
	AvgClusterSize      float64 `json:"avg_cluster_size"`
	MegaClusters        int     `json:"mega_clusters"`
	LargeClusters       int     `json:"large_clusters"`
	CoordinatedClusters int     `json:"coordinated_clusters"`
}

// ClusterResult is the full output of one clustering run.
type ClusterResult struct {
	RunID    string          `json:"run_id"`
	Clusters []*StoryCluster `json:"clusters"`
	Stats    ClusterStats    `json:"stats"`
}
