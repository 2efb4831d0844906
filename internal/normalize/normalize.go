// Package normalize derives canonical links and content-addressed
// identifiers for raw news items.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// idLength is the number of hex characters kept from the full digest.
// Short enough to be readable in logs, long enough for practical collision
// resistance at this domain's cardinality.
const idLength = 16

// trackingParams are query parameters stripped during canonicalization.
// Keys listed here are matched exactly; "utm_" is matched as a prefix.
var trackingParams = map[string]bool{
	"ref":    true,
	"source": true,
	"fbclid": true,
	"gclid":  true,
	"mc_cid": true,
	"mc_eid": true,
}

// CanonicalLink normalizes a URL for use as the basis of article identity:
// tracking parameters removed, trailing slash dropped, scheme/host/path and
// remaining query lowercased. A malformed URL degrades to the lowercased,
// trimmed raw string rather than failing.
func CanonicalLink(raw string) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(trimmed)
	}

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""

	return strings.ToLower(u.String())
}

// ArticleID derives the content-addressed identifier for a canonical link.
func ArticleID(canonicalLink string) string {
	return shortHash(canonicalLink)
}

// ContentHash hashes the normalized title+description so silent content
// edits can be detected independent of identity.
func ContentHash(title, description string) string {
	payload := strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(description))
	return shortHash(payload)
}

// shortHash returns the first idLength hex chars of the sha256 digest of
// the NFC-normalized input.
func shortHash(s string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(s)))
	return hex.EncodeToString(sum[:])[:idLength]
}
