package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsintel/internal/domain"
	"github.com/jonesrussell/newsintel/internal/logger"
)

func testEnricher() *Enricher {
	return NewEnricher(DefaultLexicon(), logger.NewNop())
}

func rawItem(title, link string) *domain.RawItem {
	return &domain.RawItem{
		Title:      title,
		Link:       link,
		SourceName: "testwire",
		Category:   "crypto",
	}
}

func TestEnrich_TickerPrecision(t *testing.T) {
	e := testEnricher()

	article := e.Enrich(rawItem("BTC price jumps as $ETH rallies", "https://example.com/a"), nil)
	assert.Equal(t, []string{"BTC", "ETH"}, article.Tickers)

	article = e.Enrich(rawItem("I saw a bat fly by", "https://example.com/b"), nil)
	assert.Empty(t, article.Tickers, "short ticker without context must not match")
}

func TestEnrich_CoinNameMapsToTicker(t *testing.T) {
	e := testEnricher()

	article := e.Enrich(rawItem("Bitcoin and Solana lead the market", "https://example.com/c"), nil)
	assert.Contains(t, article.Tickers, "BTC")
	assert.Contains(t, article.Tickers, "SOL")
}

func TestEnrich_IdentityStableAcrossTrackingParams(t *testing.T) {
	e := testEnricher()

	a := e.Enrich(rawItem("Title", "https://example.com/story?utm_source=rss"), nil)
	b := e.Enrich(rawItem("Title", "https://EXAMPLE.com/story/"), nil)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.CanonicalLink, b.CanonicalLink)
}

func TestEnrich_SentimentBoundaries(t *testing.T) {
	e := testEnricher()

	// Two positive words, zero negative.
	article := e.Enrich(rawItem("Bitcoin gains momentum after ETF approval", "https://example.com/d"), nil)
	assert.Equal(t, domain.SentimentPositive, article.Sentiment.Label)
	assert.InDelta(t, 1.0, article.Sentiment.Score, 1e-9)

	// No lexicon matches at all.
	article = e.Enrich(rawItem("Ethereum validators process transactions", "https://example.com/e"), nil)
	assert.Equal(t, domain.SentimentNeutral, article.Sentiment.Label)
	assert.Zero(t, article.Sentiment.Score)
	assert.InDelta(t, 0.5, article.Sentiment.Confidence, 1e-9)
}

func TestEnrich_VeryNegativeNeedsIntensifier(t *testing.T) {
	e := testEnricher()

	article := e.Enrich(rawItem("Catastrophic collapse triggers market bloodbath", "https://example.com/f"), nil)
	assert.Equal(t, domain.SentimentVeryNegative, article.Sentiment.Label)
	assert.Less(t, article.Sentiment.Score, -0.3)
}

func TestEnrich_Tags(t *testing.T) {
	e := testEnricher()

	article := e.Enrich(rawItem(
		"SEC lawsuit targets exchange after hack",
		"https://example.com/g"), nil)

	assert.Contains(t, article.Tags, "regulation")
	assert.Contains(t, article.Tags, "hack")
	assert.Contains(t, article.Tags, "exchange")
	assert.NotContains(t, article.Tags, "nft")
}

func TestEnrich_Entities(t *testing.T) {
	e := testEnricher()

	article := e.Enrich(rawItem(
		"Michael Saylor says MicroStrategy will keep buying",
		"https://example.com/h"), nil)

	assert.Contains(t, article.Entities.People, "Michael Saylor")
	assert.Contains(t, article.Entities.Companies, "MicroStrategy")
}

func TestEnrich_AmbiguousEntityDisambiguation(t *testing.T) {
	e := testEnricher()

	// "block reward" must not register the company Block.
	article := e.Enrich(rawItem("Miners earn the block reward", "https://example.com/i"), nil)
	assert.NotContains(t, article.Entities.Companies, "Block")

	// Capitalized brand mention does.
	article = e.Enrich(rawItem("Block reports quarterly earnings", "https://example.com/j"), nil)
	assert.Contains(t, article.Entities.Companies, "Block")

	// Common-word protocol needs contextual phrasing.
	article = e.Enrich(rawItem("An avalanche closed the mountain pass", "https://example.com/k"), nil)
	assert.NotContains(t, article.Entities.Protocols, "Avalanche")

	article = e.Enrich(rawItem("Activity on the Avalanche network doubled", "https://example.com/l"), nil)
	assert.Contains(t, article.Entities.Protocols, "Avalanche")
}

func TestEnrich_Meta(t *testing.T) {
	e := testEnricher()

	item := rawItem("BREAKING: Exchange halts withdrawals", "https://example.com/m")
	item.Description = "Customers report $400M frozen"

	article := e.Enrich(item, nil)
	assert.True(t, article.Meta.IsBreaking)
	assert.False(t, article.Meta.IsOpinion)
	assert.True(t, article.Meta.HasNumbers)
	assert.Equal(t, 8, article.Meta.WordCount)
}

func TestEnrich_MarketContextForwardedVerbatim(t *testing.T) {
	e := testEnricher()

	mkt := &domain.MarketContext{
		Prices:    map[string]float64{"BTC": 97250.12},
		FearGreed: 71,
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	article := e.Enrich(rawItem("Title", "https://example.com/n"), mkt)
	require.NotNil(t, article.MarketContext)
	assert.Equal(t, mkt, article.MarketContext)
}
