package enrich

import (
	"regexp"
	"strings"
	"sync"

	"github.com/jonesrussell/newsintel/internal/domain"
)

// entityMatcher performs word-boundary matching against the curated name
// lists, with per-name disambiguation for collision-prone entries.
type entityMatcher struct {
	lexicon *Lexicon

	once      sync.Once
	caseExact map[string]*regexp.Regexp // capitalized-brand regexes
}

func newEntityMatcher(lexicon *Lexicon) *entityMatcher {
	return &entityMatcher{lexicon: lexicon}
}

// extract returns the three disjoint entity lists for the given text.
func (m *entityMatcher) extract(text string) domain.Entities {
	m.once.Do(m.compile)

	lower := strings.ToLower(text)

	return domain.Entities{
		People:    m.matchPlain(m.lexicon.People, lower),
		Companies: m.matchCompanies(text, lower),
		Protocols: m.matchProtocols(text, lower),
	}
}

func (m *entityMatcher) compile() {
	m.caseExact = make(map[string]*regexp.Regexp, len(m.lexicon.CaseSensitiveCompanies))
	for name := range m.lexicon.CaseSensitiveCompanies {
		// Case-sensitive whole-word match keeps "Block" from firing on
		// "blockchain" or "block reward".
		m.caseExact[name] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	}
}

// matchPlain does case-insensitive whole-word matching with no extra rules.
func (m *entityMatcher) matchPlain(names []string, lowerText string) []string {
	var result []string
	for _, name := range names {
		if containsWord(lowerText, strings.ToLower(name)) {
			result = append(result, name)
		}
	}
	return result
}

func (m *entityMatcher) matchCompanies(text, lowerText string) []string {
	var result []string
	for _, name := range m.lexicon.Companies {
		if re, ok := m.caseExact[name]; ok {
			if re.MatchString(text) {
				result = append(result, name)
			}
			continue
		}
		if containsWord(lowerText, strings.ToLower(name)) {
			result = append(result, name)
		}
	}
	return result
}

func (m *entityMatcher) matchProtocols(text, lowerText string) []string {
	var result []string
	for _, name := range m.lexicon.Protocols {
		contexts, ambiguous := m.lexicon.AmbiguousProtocols[name]
		if !ambiguous {
			if containsWord(lowerText, strings.ToLower(name)) {
				result = append(result, name)
			}
			continue
		}
		if m.ambiguousProtocolMentioned(name, contexts, text, lowerText) {
			result = append(result, name)
		}
	}
	return result
}

// ambiguousProtocolMentioned accepts a common-word protocol name only when
// it appears in contextual phrasing ("<name> network", "<name> chain", ...)
// or as a $-prefixed token.
func (m *entityMatcher) ambiguousProtocolMentioned(name string, contexts []string, text, lowerText string) bool {
	if strings.Contains(text, "$"+strings.ToUpper(name)) {
		return true
	}
	lowerName := strings.ToLower(name)
	for _, ctx := range contexts {
		if containsWord(lowerText, lowerName+" "+ctx) {
			return true
		}
	}
	return false
}
