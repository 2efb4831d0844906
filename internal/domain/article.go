package domain

import "time"

// Sentiment labels produced by the enricher.
const (
	SentimentVeryNegative = "very_negative"
	SentimentNegative     = "negative"
	SentimentNeutral      = "neutral"
	SentimentPositive     = "positive"
	SentimentVeryPositive = "very_positive"
)

// Sentiment holds the lexicon-based sentiment verdict for an article.
type Sentiment struct {
	Score      float64 `json:"score"`      // -1.0 to 1.0
	Label      string  `json:"label"`      // very_negative .. very_positive
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
}

// Entities holds named entities extracted from an article, split into
// three disjoint lists.
type Entities struct {
	People    []string `json:"people,omitempty"`
	Companies []string `json:"companies,omitempty"`
	Protocols []string `json:"protocols,omitempty"`
}

// ArticleMeta holds simple metrics derived purely from the article text.
type ArticleMeta struct {
	WordCount  int  `json:"word_count"`
	HasNumbers bool `json:"has_numbers"`
	IsBreaking bool `json:"is_breaking"`
	IsOpinion  bool `json:"is_opinion"`
}

// MarketContext is an immutable snapshot of external market data supplied
// at enrichment time. The core forwards it verbatim and never interprets
// or recomputes it.
type MarketContext struct {
	Prices        map[string]float64 `json:"prices,omitempty"`
	FearGreed     int                `json:"fear_greed,omitempty"`
	FearGreedText string             `json:"fear_greed_text,omitempty"`
	FetchedAt     time.Time          `json:"fetched_at"`
}

// EnrichedArticle is the core output record: a deduplicated, tagged,
// sentiment-scored, content-addressed news item.
type EnrichedArticle struct {
	// ID is derived from the canonical link and is the sole dedup key.
	ID            string `json:"id"`
	CanonicalLink string `json:"canonical_link"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SourceName  string `json:"source_name"`
	SourceKey   string `json:"source_key,omitempty"`
	Category    string `json:"category,omitempty"`

	PubDate *time.Time `json:"pub_date,omitempty"`

	// FirstSeen is immutable once set; LastSeen advances on every
	// re-observation of the same canonical link.
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	FetchCount int       `json:"fetch_count"`

	Tickers  []string `json:"tickers,omitempty"`
	Entities Entities `json:"entities"`
	Tags     []string `json:"tags,omitempty"`

	Sentiment     Sentiment      `json:"sentiment"`
	MarketContext *MarketContext `json:"market_context,omitempty"`

	// ContentHash covers title+description and detects silent edits
	// independent of identity.
	ContentHash string `json:"content_hash"`

	Meta ArticleMeta `json:"meta"`
}

// ObservedAt returns the timestamp used for ordering an article within a
// processing run: the publisher timestamp when present, FirstSeen otherwise.
func (a *EnrichedArticle) ObservedAt() time.Time {
	if a.PubDate != nil && !a.PubDate.IsZero() {
		return *a.PubDate
	}
	return a.FirstSeen
}
