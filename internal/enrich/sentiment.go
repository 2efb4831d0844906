package enrich

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/newsintel/internal/domain"
)

const (
	neutralBand          = 0.2  // |score| at or below this is neutral
	intensifierThreshold = 0.3  // intensified labels need |score| above this
	baseConfidence       = 0.5  // confidence with zero sentiment words
	confidencePerWord    = 0.1  // added per matched sentiment word
	maxConfidence        = 0.95 // confidence ceiling
)

// keywordClass identifies which lexicon a matched keyword came from.
type keywordClass int

const (
	classPositive keywordClass = iota
	classNegative
	classStrongPositive
	classStrongNegative
)

// sentimentAnalyzer holds the compiled automaton over all four lexicons.
type sentimentAnalyzer struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	classes  []keywordClass
}

// newSentimentAnalyzer builds the automaton. Keywords are padded with
// spaces so the automaton only fires on whole words, which also makes
// multi-word phrases ("all-time high", "death spiral") free.
func newSentimentAnalyzer(lexicon *Lexicon) *sentimentAnalyzer {
	a := &sentimentAnalyzer{}
	a.add(lexicon.Positive, classPositive)
	a.add(lexicon.Negative, classNegative)
	a.add(lexicon.StrongPositive, classStrongPositive)
	a.add(lexicon.StrongNegative, classStrongNegative)

	if len(a.keywords) > 0 {
		a.matcher = ahocorasick.NewStringMatcher(a.keywords)
	}
	return a
}

func (a *sentimentAnalyzer) add(words []string, class keywordClass) {
	for _, w := range words {
		normalized := normalizeText(w)
		if normalized == "" {
			continue
		}
		a.keywords = append(a.keywords, " "+normalized+" ")
		a.classes = append(a.classes, class)
	}
}

// analyze scores the text. Zero sentiment words yields the neutral verdict
// with base confidence, never an error.
func (a *sentimentAnalyzer) analyze(text string) domain.Sentiment {
	neutral := domain.Sentiment{Label: domain.SentimentNeutral, Confidence: baseConfidence}
	if a.matcher == nil {
		return neutral
	}

	padded := " " + normalizeText(text) + " "

	var positive, negative int
	var intensifiedPos, intensifiedNeg bool

	for _, hit := range a.matcher.Match([]byte(padded)) {
		if hit >= len(a.keywords) {
			continue
		}
		// The automaton reports each keyword once; count repeats by hand.
		occurrences := countPadded(padded, a.keywords[hit])
		switch a.classes[hit] {
		case classPositive:
			positive += occurrences
		case classNegative:
			negative += occurrences
		case classStrongPositive:
			positive += occurrences
			intensifiedPos = true
		case classStrongNegative:
			negative += occurrences
			intensifiedNeg = true
		}
	}

	total := positive + negative
	if total == 0 {
		return neutral
	}

	score := float64(positive-negative) / float64(total)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	return domain.Sentiment{
		Score:      score,
		Label:      sentimentLabel(score, intensifiedPos, intensifiedNeg),
		Confidence: min(maxConfidence, baseConfidence+confidencePerWord*float64(total)),
	}
}

func sentimentLabel(score float64, intensifiedPos, intensifiedNeg bool) string {
	switch {
	case score > neutralBand:
		if intensifiedPos && score > intensifierThreshold {
			return domain.SentimentVeryPositive
		}
		return domain.SentimentPositive
	case score < -neutralBand:
		if intensifiedNeg && score < -intensifierThreshold {
			return domain.SentimentVeryNegative
		}
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// countPadded counts occurrences of a space-padded keyword, allowing
// adjacent repeats to share their boundary space.
func countPadded(padded, keyword string) int {
	count := 0
	for start := 0; start < len(padded); {
		idx := strings.Index(padded[start:], keyword)
		if idx < 0 {
			return count
		}
		count++
		// Step past the keyword body but keep its trailing space
		// available as the next occurrence's leading space.
		start += idx + len(keyword) - 1
	}
	return count
}
