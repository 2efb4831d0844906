package enrich

import (
	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
)

// Merger reconciles a freshly enriched article with a previously stored
// record carrying the same id.
type Merger struct {
	logger logger.Logger
}

// NewMerger creates a merger.
func NewMerger(log logger.Logger) *Merger {
	return &Merger{logger: log}
}

// Merge combines existing and fresh records for the same canonical link.
// First-observation time is preserved, last-observation time advances and
// the fetch counter increments; the enrichment fields are refreshed from
// the fresh copy so edited content is re-scored.
func (m *Merger) Merge(existing, fresh *domain.EnrichedArticle) *domain.EnrichedArticle {
	if existing == nil {
		return fresh
	}

	if existing.ContentHash != fresh.ContentHash {
		m.logger.Info("content changed since last observation",
			logger.String("id", fresh.ID),
			logger.String("source", fresh.SourceName),
			logger.String("old_hash", existing.ContentHash),
			logger.String("new_hash", fresh.ContentHash),
		)
	}

	merged := *fresh
	merged.FirstSeen = existing.FirstSeen
	merged.FetchCount = existing.FetchCount + 1

	// A re-observation without fresh market data keeps the snapshot taken
	// at first enrichment.
	if merged.MarketContext == nil {
		merged.MarketContext = existing.MarketContext
	}

	return &merged
}
