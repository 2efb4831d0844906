// Package enrich turns raw news items into enriched, content-addressed
// intelligence records: tickers, entities, sentiment, tags, and metadata,
// all derived from injected lookup tables with no I/O.
package enrich

import (
	"time"

	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
	"github.com/jonesrussell/newsintel/internal/normalize"
)

// Enricher turns raw items into enriched articles. It is a pure function
// over its injected lookup tables: no I/O, deterministic given identical
// inputs.
type Enricher struct {
	lexicon   *Lexicon
	entities  *entityMatcher
	sentiment *sentimentAnalyzer
	logger    logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewEnricher creates an enricher over the given lexicon.
func NewEnricher(lexicon *Lexicon, log logger.Logger) *Enricher {
	return &Enricher{
		lexicon:   lexicon,
		entities:  newEntityMatcher(lexicon),
		sentiment: newSentimentAnalyzer(lexicon),
		logger:    log,
		now:       time.Now,
	}
}

// Enrich produces an EnrichedArticle from a raw item and an optional
// market-context snapshot. The snapshot is forwarded verbatim.
func (e *Enricher) Enrich(item *domain.RawItem, mkt *domain.MarketContext) *domain.EnrichedArticle {
	canonical := normalize.CanonicalLink(item.Link)
	text := item.Title + " " + item.Description
	now := e.now().UTC()

	article := &domain.EnrichedArticle{
		ID:            normalize.ArticleID(canonical),
		CanonicalLink: canonical,
		Title:         item.Title,
		Description:   item.Description,
		SourceName:    item.SourceName,
		SourceKey:     item.SourceKey,
		Category:      item.Category,
		PubDate:       item.PubDate,
		FirstSeen:     now,
		LastSeen:      now,
		FetchCount:    1,
		Tickers:       e.extractTickers(text),
		Entities:      e.entities.extract(text),
		Tags:          extractTags(text),
		Sentiment:     e.sentiment.analyze(text),
		MarketContext: mkt,
		ContentHash:   normalize.ContentHash(item.Title, item.Description),
		Meta:          deriveMeta(item.Title, item.Description),
	}

	e.logger.Debug("article enriched",
		logger.String("id", article.ID),
		logger.String("source", article.SourceName),
		logger.Strings("tickers", article.Tickers),
		logger.Float64("sentiment", article.Sentiment.Score),
	)

	return article
}
