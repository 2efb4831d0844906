package cluster

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
)

// Config holds clustering thresholds.
type Config struct {
	// TimeWindow is the maximum distance between an item and a cluster's
	// earliest member for the item to join.
	TimeWindow time.Duration
	// MinSimilarity is the combined-score threshold for a match.
	MinSimilarity float64
	// TitleWeight and CombinedWeight mix the two similarity metrics.
	TitleWeight    float64
	CombinedWeight float64
	// CoordinatedWindow is the span within which three consecutive
	// publications count as a coordinated release.
	CoordinatedWindow time.Duration
	// CoordinatedMinSources is the distinct-source floor for coordination.
	CoordinatedMinSources int
	// KeyTermCount is how many top terms each cluster keeps.
	KeyTermCount int
}

// DefaultConfig returns the production clustering thresholds.
func DefaultConfig() Config {
	return Config{
		TimeWindow:            24 * time.Hour,
		MinSimilarity:         0.5,
		TitleWeight:           0.6,
		CombinedWeight:        0.4,
		CoordinatedWindow:     30 * time.Minute,
		CoordinatedMinSources: 3,
		KeyTermCount:          10,
	}
}

// Story size thresholds by distinct source count.
const (
	smallSources  = 2
	mediumSources = 3
	largeSources  = 5
	megaSources   = 10
)

// Clusterer groups a batch of enriched articles into story clusters.
type Clusterer struct {
	config Config
	logger logger.Logger
}

// NewClusterer creates a clusterer.
func NewClusterer(config Config, log logger.Logger) *Clusterer {
	return &Clusterer{config: config, logger: log}
}

// member caches an article's token structures so similarity against it is
// computed once per comparison, not re-tokenized.
type member struct {
	article    *domain.EnrichedArticle
	observedAt time.Time
	titleSet   map[string]bool
	tf         map[string]float64
}

// building is a cluster under construction.
type building struct {
	members  []*member
	earliest *member
	combined map[string]float64 // summed term frequencies across members
}

// Cluster partitions the batch into story clusters. Assignment is greedy
// and order-dependent: items are visited earliest-first and join the first
// matching cluster in creation order. Downstream reliability scoring
// depends on this exact tie-break, so it must not be replaced with
// best-match selection.
func (c *Clusterer) Cluster(articles []*domain.EnrichedArticle) *domain.ClusterResult {
	runID := uuid.NewString()

	members := make([]*member, 0, len(articles))
	for _, a := range articles {
		toks := tokens(a.Title + " " + a.Description)
		members = append(members, &member{
			article:    a,
			observedAt: a.ObservedAt(),
			titleSet:   tokenSet(tokens(a.Title)),
			tf:         termFreq(toks),
		})
	}

	// Earliest first fixes first-mover semantics deterministically.
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].observedAt.Before(members[j].observedAt)
	})

	var clusters []*building
	for _, m := range members {
		assigned := false
		for _, b := range clusters {
			if c.matches(m, b) {
				b.add(m)
				assigned = true
				break
			}
		}
		if !assigned {
			b := &building{combined: make(map[string]float64)}
			b.add(m)
			clusters = append(clusters, b)
		}
	}

	result := &domain.ClusterResult{
		RunID:    runID,
		Clusters: make([]*domain.StoryCluster, 0, len(clusters)),
	}
	for _, b := range clusters {
		result.Clusters = append(result.Clusters, c.finish(b))
	}
	result.Stats = deriveStats(len(articles), result.Clusters)

	c.logger.Info("clustering complete",
		logger.String("run_id", runID),
		logger.Int("articles", len(articles)),
		logger.Int("clusters", len(result.Clusters)),
		logger.Int("coordinated", result.Stats.CoordinatedClusters),
	)

	return result
}

// matches checks the time window against the cluster's earliest member and
// takes the maximum combined score against every existing member.
func (c *Clusterer) matches(m *member, b *building) bool {
	distance := m.observedAt.Sub(b.earliest.observedAt)
	if distance < 0 {
		distance = -distance
	}
	if distance > c.config.TimeWindow {
		return false
	}

	best := 0.0
	for _, existing := range b.members {
		score := c.config.TitleWeight*jaccard(m.titleSet, existing.titleSet) +
			c.config.CombinedWeight*cosine(m.tf, existing.tf)
		if score > best {
			best = score
		}
	}
	return best >= c.config.MinSimilarity
}

// add appends the member and refreshes earliest-member bookkeeping and the
// combined term frequencies.
func (b *building) add(m *member) {
	b.members = append(b.members, m)
	if b.earliest == nil || m.observedAt.Before(b.earliest.observedAt) {
		b.earliest = m
	}
	for t, count := range m.tf {
		b.combined[t] += count
	}
}

// finish derives the exported cluster record with its facts.
func (c *Clusterer) finish(b *building) *domain.StoryCluster {
	ordered := make([]*member, len(b.members))
	copy(ordered, b.members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].observedAt.Before(ordered[j].observedAt)
	})

	articles := make([]*domain.EnrichedArticle, len(ordered))
	seen := make(map[string]bool)
	var sources []string
	for i, m := range ordered {
		articles[i] = m.article
		if !seen[m.article.SourceName] {
			seen[m.article.SourceName] = true
			sources = append(sources, m.article.SourceName)
		}
	}

	cluster := &domain.StoryCluster{
		ID:             uuid.NewString(),
		Articles:       articles,
		Sources:        sources,
		CanonicalTitle: b.earliest.article.Title,
		KeyTerms:       topTerms(b.combined, c.config.KeyTermCount),
		StorySize:      storySize(len(sources)),
		First:          firstMover(ordered),
		IsCoordinated:  c.isCoordinated(ordered, len(sources)),
	}
	return cluster
}

func storySize(sourceCount int) string {
	switch {
	case sourceCount >= megaSources:
		return domain.StorySizeMega
	case sourceCount >= largeSources:
		return domain.StorySizeLarge
	case sourceCount >= mediumSources:
		return domain.StorySizeMedium
	case sourceCount >= smallSources:
		return domain.StorySizeSmall
	default:
		return domain.StorySizeSingle
	}
}

// firstMover reports the earliest member and its lead over the
// next-earliest member from a different source. Lead stays zero for
// single-source clusters.
func firstMover(ordered []*member) *domain.FirstMover {
	if len(ordered) == 0 {
		return nil
	}
	first := ordered[0]
	fm := &domain.FirstMover{
		ArticleID:  first.article.ID,
		SourceName: first.article.SourceName,
		ObservedAt: first.observedAt,
	}
	for _, m := range ordered[1:] {
		if m.article.SourceName != first.article.SourceName {
			fm.LeadTimeMinutes = m.observedAt.Sub(first.observedAt).Minutes()
			break
		}
	}
	return fm
}

// isCoordinated is true when the cluster spans enough distinct sources and
// some three consecutive member timestamps fall within the coordination
// window.
func (c *Clusterer) isCoordinated(ordered []*member, sourceCount int) bool {
	if sourceCount < c.config.CoordinatedMinSources {
		return false
	}
	for i := 0; i+2 < len(ordered); i++ {
		span := ordered[i+2].observedAt.Sub(ordered[i].observedAt)
		if span <= c.config.CoordinatedWindow {
			return true
		}
	}
	return false
}

func deriveStats(totalArticles int, clusters []*domain.StoryCluster) domain.ClusterStats {
	stats := domain.ClusterStats{
		TotalArticles: totalArticles,
		TotalClusters: len(clusters),
	}
	for _, cl := range clusters {
		switch cl.StorySize {
		case domain.StorySizeMega:
			stats.MegaClusters++
		case domain.StorySizeLarge:
			stats.LargeClusters++
		}
		if cl.IsCoordinated {
			stats.CoordinatedClusters++
		}
	}
	if stats.TotalClusters > 0 {
		stats.AvgClusterSize = float64(totalArticles) / float64(stats.TotalClusters)
	}
	return stats
}
