package reliability

import "sort"

// Leaderboard ranking metrics.
const (
	MetricCredibility = "credibility"
	MetricFirstMover  = "first_mover"
	MetricVolume      = "volume"
)

// minLeaderboardArticles is the volume floor before a source is ranked.
const minLeaderboardArticles = 10

// Rank thresholds on the credibility score, after the established-source
// rank scheme.
const (
	trustedThreshold  = 75.0
	moderateThreshold = 40.0
)

// LeaderboardEntry is one ranked source with its display fields.
type LeaderboardEntry struct {
	SourceName       string  `json:"source_name"`
	Category         string  `json:"category"`
	Rank             string  `json:"rank"` // trusted, moderate, low
	CredibilityScore float64 `json:"credibility_score"`
	FirstMoverCount  int     `json:"first_mover_count"`
	ExclusiveStories int     `json:"exclusive_stories"`
	TotalArticles    int     `json:"total_articles"`
	AvgDelayMinutes  float64 `json:"avg_delay_minutes"`
}

// Leaderboard ranks sources with enough volume by the chosen metric and
// returns the top n. Unknown metrics rank by credibility.
func (t *Tracker) Leaderboard(metric string, n int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(t.stats))
	for _, s := range t.stats {
		if s.TotalArticles < minLeaderboardArticles {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			SourceName:       s.SourceName,
			Category:         s.Category,
			Rank:             rankLabel(s.CredibilityScore),
			CredibilityScore: s.CredibilityScore,
			FirstMoverCount:  s.FirstMoverCount,
			ExclusiveStories: s.ExclusiveStories,
			TotalArticles:    s.TotalArticles,
			AvgDelayMinutes:  s.AvgDelayMinutes,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch metric {
		case MetricFirstMover:
			if a.FirstMoverCount != b.FirstMoverCount {
				return a.FirstMoverCount > b.FirstMoverCount
			}
		case MetricVolume:
			if a.TotalArticles != b.TotalArticles {
				return a.TotalArticles > b.TotalArticles
			}
		default:
			if a.CredibilityScore != b.CredibilityScore {
				return a.CredibilityScore > b.CredibilityScore
			}
		}
		return a.SourceName < b.SourceName
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func rankLabel(score float64) string {
	switch {
	case score >= trustedThreshold:
		return "trusted"
	case score >= moderateThreshold:
		return "moderate"
	default:
		return "low"
	}
}
