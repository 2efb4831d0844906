package enrich

import (
	"strings"
	"unicode"
)

// normalizeText lowercases text and replaces every non-alphanumeric rune
// (except $ and -) with a space, collapsing runs of spaces. The result is
// suitable for word-boundary matching by padding with spaces.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '$' || r == '-':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// tokenize splits text into lowercased word tokens with punctuation
// stripped, preserving order.
func tokenize(s string) []string {
	normalized := normalizeText(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// containsWord reports whether text contains word as a whole word rather
// than a substring. Both arguments must already be lowercased.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)

		leftOK := idx == 0 || !isWordRune(text[idx-1])
		rightOK := end == len(text) || !isWordRune(text[end])
		if leftOK && rightOK {
			return true
		}
		start = end
	}
}

// countWord counts whole-word occurrences of word in text, overlap-aware
// in the sense that shared boundary spaces do not hide adjacent repeats.
func countWord(text, word string) int {
	if word == "" {
		return 0
	}
	count := 0
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return count
		}
		idx += start
		end := idx + len(word)

		leftOK := idx == 0 || !isWordRune(text[idx-1])
		rightOK := end == len(text) || !isWordRune(text[end])
		if leftOK && rightOK {
			count++
		}
		start = idx + 1
	}
}

func isWordRune(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
