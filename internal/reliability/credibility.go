package reliability

import "github.com/jonesrussell/newsintel/internal/domain"

// Weights of the recomputable credibility formula.
const (
	firstMoverWeight  = 0.3
	consistencyWeight = 0.2
	accuracyWeight    = 0.3
	originalWeight    = 0.2

	neutralAccuracy = 50.0 // prior when no predictions have resolved
)

// CalculateCredibilityScore recomputes a source's credibility from its
// current counters. Pure and read-only: it does not touch the
// incrementally adjusted CredibilityScore field.
func (t *Tracker) CalculateCredibilityScore(sourceName string) float64 {
	s := t.stats[normalizeSource(sourceName)]
	if s == nil {
		return 0
	}
	return firstMoverWeight*firstMoverRate(s) +
		consistencyWeight*consistencyScore(s) +
		accuracyWeight*accuracyRate(s) +
		originalWeight*originalRate(s)
}

// firstMoverRate is the share of cluster participations where the source
// broke the story, as a percentage.
func firstMoverRate(s *domain.SourceStats) float64 {
	if s.TotalClustersParticipated == 0 {
		return 0
	}
	return float64(s.FirstMoverCount) / float64(s.TotalClustersParticipated) * 100
}

// accuracyRate is the resolved-prediction hit rate as a percentage, with a
// neutral prior when nothing has resolved yet.
func accuracyRate(s *domain.SourceStats) float64 {
	resolved := s.PredictionsCorrect + s.PredictionsIncorrect
	if resolved == 0 {
		return neutralAccuracy
	}
	return float64(s.PredictionsCorrect) / float64(resolved) * 100
}

// consistencyScore rewards coverage spread evenly across the day: lower
// variance of the hourly distribution scores higher.
func consistencyScore(s *domain.SourceStats) float64 {
	score := 100 - variance(s.HourlyDistribution[:])/10
	if score < 0 {
		return 0
	}
	return score
}

// originalRate scales exclusive stories per article onto [0,100].
func originalRate(s *domain.SourceStats) float64 {
	if s.TotalArticles == 0 {
		return 0
	}
	rate := float64(s.ExclusiveStories) / float64(s.TotalArticles) * 1000
	if rate > 100 {
		return 100
	}
	return rate
}
