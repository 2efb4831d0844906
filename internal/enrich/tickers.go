package enrich

import (
	"regexp"
	"sort"
	"strings"
)

// shortTickerLength is the symbol length at or below which a bare mention
// needs disambiguating context. Three-letter symbols collide with too many
// ordinary words (BAT, SUI, OP, ...) to accept on word boundary alone.
const shortTickerLength = 3

// dollarTickerRegex matches $-prefixed symbols like $BTC or $eth.
var dollarTickerRegex = regexp.MustCompile(`\$([A-Za-z]{2,6})\b`)

// extractTickers finds instrument symbols in text, validated against the
// lexicon's known-ticker set. The result is deduplicated and sorted.
func (e *Enricher) extractTickers(text string) []string {
	found := make(map[string]bool)

	// $SYMBOL mentions: explicit enough that only set membership is checked.
	for _, match := range dollarTickerRegex.FindAllStringSubmatch(text, -1) {
		sym := strings.ToUpper(match[1])
		if e.lexicon.Tickers[sym] {
			found[sym] = true
		}
	}

	// Bare mentions: whole-word token scan. Short symbols additionally
	// need a price/token/trading context word next to them.
	tokens := tokenize(text)
	for i, tok := range tokens {
		sym := strings.ToUpper(tok)
		if !e.lexicon.Tickers[sym] || found[sym] {
			continue
		}
		if len(sym) <= shortTickerLength && !e.hasTickerContext(tokens, i) {
			continue
		}
		found[sym] = true
	}

	// Full coin names map to their symbol.
	lower := strings.ToLower(text)
	for name, sym := range e.lexicon.CoinNames {
		if containsWord(lower, name) {
			found[sym] = true
		}
	}

	if len(found) == 0 {
		return nil
	}
	result := make([]string, 0, len(found))
	for sym := range found {
		result = append(result, sym)
	}
	sort.Strings(result)
	return result
}

// hasTickerContext reports whether the token at index i sits next to a
// disambiguating context word, or carries a $ prefix.
func (e *Enricher) hasTickerContext(tokens []string, i int) bool {
	if strings.HasPrefix(tokens[i], "$") {
		return true
	}
	if i > 0 && e.lexicon.TickerContext[strings.TrimPrefix(tokens[i-1], "$")] {
		return true
	}
	if i+1 < len(tokens) && e.lexicon.TickerContext[tokens[i+1]] {
		return true
	}
	return false
}
