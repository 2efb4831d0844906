// Package cluster groups near-duplicate coverage of the same event across
// outlets using lexical similarity within a time window.
package cluster

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// stopWords are excluded from title tokens and term-frequency vectors.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "but": true, "by": true, "for": true,
	"from": true, "has": true, "have": true, "he": true, "her": true,
	"his": true, "in": true, "is": true, "it": true, "its": true,
	"of": true, "on": true, "or": true, "s": true, "she": true,
	"that": true, "the": true, "their": true, "this": true, "to": true,
	"was": true, "were": true, "will": true, "with": true, "after": true,
	"amid": true, "over": true, "says": true, "say": true, "said": true,
}

// coinAliases folds common coin-name variants onto one token so "Bitcoin"
// and "BTC" headlines from different outlets compare as the same term.
var coinAliases = map[string]string{
	"bitcoin":  "btc",
	"ethereum": "eth",
	"ether":    "eth",
	"solana":   "sol",
	"cardano":  "ada",
	"ripple":   "xrp",
	"dogecoin": "doge",
	"litecoin": "ltc",
	"polkadot": "dot",
}

var numberSuffixRegex = regexp.MustCompile(`^(\d+)([kmb])$`)

// highSignalWeight boosts tokens that pin a headline to a concrete event.
// Two outlets rarely share filler verbs ("surges", "hits", "breaks"), but
// coverage of the same event always shares the instrument and the number,
// so those carry double weight in both similarity metrics.
const highSignalWeight = 2.0

// tickerTokens is the canonical-ticker side of coinAliases, for weighting.
var tickerTokens = func() map[string]bool {
	set := make(map[string]bool, len(coinAliases))
	for _, ticker := range coinAliases {
		set[ticker] = true
	}
	return set
}()

// tokenWeight returns the similarity weight of a canonical token.
func tokenWeight(tok string) float64 {
	if tickerTokens[tok] || isNumeric(tok) {
		return highSignalWeight
	}
	return 1.0
}

func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// tokens splits text into lowercased, punctuation-stripped, stop-word
// filtered word tokens. Numbers are canonicalized ("100,000" and "100k"
// both become "100000") and coin names fold onto their ticker.
func tokens(text string) []string {
	var result []string
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := canonicalToken(b.String())
		b.Reset()
		if !stopWords[tok] {
			result = append(result, tok)
		}
	}

	runes := []rune(strings.ToLower(text))
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ',' && i > 0 && i+1 < len(runes) &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			// thousands separator, not a token break
		default:
			flush()
		}
	}
	flush()

	return result
}

func canonicalToken(tok string) string {
	if alias, ok := coinAliases[tok]; ok {
		return alias
	}
	if m := numberSuffixRegex.FindStringSubmatch(tok); m != nil {
		switch m[2] {
		case "k":
			return m[1] + "000"
		case "m":
			return m[1] + "000000"
		case "b":
			return m[1] + "000000000"
		}
	}
	return tok
}

// tokenSet builds the unique-token set used for Jaccard similarity.
func tokenSet(toks []string) map[string]bool {
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}

// termFreq builds a weighted term-frequency vector.
func termFreq(toks []string) map[string]float64 {
	tf := make(map[string]float64, len(toks))
	for _, t := range toks {
		tf[t] += tokenWeight(t)
	}
	return tf
}

// jaccard computes the weighted |A∩B| / |A∪B| over two token sets, with
// high-signal tokens counted at their weight.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var intersection, union float64
	for t := range a {
		w := tokenWeight(t)
		union += w
		if b[t] {
			intersection += w
		}
	}
	for t := range b {
		if !a[t] {
			union += tokenWeight(t)
		}
	}
	if union == 0 {
		return 0
	}
	return intersection / union
}

// cosine computes the cosine similarity of two term-frequency vectors.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for t, av := range a {
		if bv, ok := b[t]; ok {
			dot += av * bv
		}
		normA += av * av
	}
	for _, bv := range b {
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// topTerms returns the n most frequent terms in the combined vector,
// ties broken alphabetically for determinism.
func topTerms(tf map[string]float64, n int) []string {
	terms := make([]string, 0, len(tf))
	for t := range tf {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if tf[terms[i]] != tf[terms[j]] {
			return tf[terms[i]] > tf[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
