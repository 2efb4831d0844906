package enrich

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/newsintel/internal/domain"
)

// tagRule names one content-category rule. Rules are evaluated in order
// and are not mutually exclusive.
type tagRule struct {
	name    string
	pattern *regexp.Regexp
}

// tagRules is the fixed ordered rule set for content tagging.
var tagRules = []tagRule{
	{"regulation", regexp.MustCompile(`(?i)\b(sec|cftc|finra|regulat\w*|lawsuit|subpoena|compliance|sanction\w*|banned|court|judge|settlement|fined?)\b`)},
	{"hack", regexp.MustCompile(`(?i)\b(hack\w*|exploit\w*|breach\w*|stolen|theft|drained|vulnerab\w*|phishing|rug\s?pull\w*|scam\w*)\b`)},
	{"exchange", regexp.MustCompile(`(?i)\b(binance|coinbase|kraken|okx|bybit|bitfinex|gemini|exchange\w*|listing|delist\w*)\b`)},
	{"defi", regexp.MustCompile(`(?i)\b(defi|yield\s?farm\w*|liquidity|staking|lending\s?protocol|amm|dex|tvl|vaults?)\b`)},
	{"nft", regexp.MustCompile(`(?i)\b(nfts?|opensea|collectibles?|pfp|generative\s?art)\b`)},
	{"institutional", regexp.MustCompile(`(?i)\b(etfs?|blackrock|fidelity|grayscale|institutional|custody|pension|treasur\w*|wall\s?street)\b`)},
	{"mining", regexp.MustCompile(`(?i)\b(miners?|mining|hashrate|hash\s?rate|difficulty\s?adjustment|asics?)\b`)},
	{"layer2", regexp.MustCompile(`(?i)\b(layer\s?2|l2s?|rollups?|optimism|arbitrum|zk-?sync|zk-?rollup\w*)\b`)},
	{"stablecoin", regexp.MustCompile(`(?i)\b(stablecoins?|usdt|usdc|dai|tether|de-?peg\w*)\b`)},
	{"partnership", regexp.MustCompile(`(?i)\b(partners?|partnership\w*|collaborat\w*|integrat\w*|teams?\s?up)\b`)},
	{"price", regexp.MustCompile(`(?i)\b(price|rall(y|ies)|surge\w*|plunge\w*|ath|all-time\s?high|correction|support\s?level|resistance)\b`)},
	{"funding", regexp.MustCompile(`(?i)\b(raises?|raised|funding|series\s[a-d]|venture|seed\s?round|valuation)\b`)},
	{"opinion", regexp.MustCompile(`(?i)\b(opinion|op-ed|analysis|commentary|perspective|outlook)\b`)},
	{"breaking", regexp.MustCompile(`(?i)\b(breaking|just\s?in|urgent|alert)\b`)},
	{"whale", regexp.MustCompile(`(?i)\b(whales?|large\s?holders?|whale\s?alert)\b`)},
	{"airdrop", regexp.MustCompile(`(?i)\b(airdrops?|token\s?distribution|claim\s?window)\b`)},
}

// Dedicated metadata regexes, deliberately narrower than the tag rules:
// a tag fires on any mention, the meta flags only on leading markers.
var (
	breakingMetaRegex = regexp.MustCompile(`(?i)^\s*(breaking|just\s?in|urgent)\b`)
	opinionMetaRegex  = regexp.MustCompile(`(?i)(^\s*opinion\b|\bop-ed\b|\beditorial\b)`)
	numberRegex       = regexp.MustCompile(`\d`)
)

// extractTags evaluates the ordered rule set against the text. A tag is
// present if its rule matches at least once.
func extractTags(text string) []string {
	var tags []string
	for _, rule := range tagRules {
		if rule.pattern.MatchString(text) {
			tags = append(tags, rule.name)
		}
	}
	return tags
}

// deriveMeta computes the purely textual metadata for an article.
func deriveMeta(title, description string) domain.ArticleMeta {
	text := title + " " + description
	return domain.ArticleMeta{
		WordCount:  len(strings.Fields(text)),
		HasNumbers: numberRegex.MatchString(text),
		IsBreaking: breakingMetaRegex.MatchString(title),
		IsOpinion:  opinionMetaRegex.MatchString(title),
	}
}
