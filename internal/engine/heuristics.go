// Package engine implements the shared classification core: scope tracking,
// call-chain resolution, catch-handler classification, suppression matching,
// exclusion rules and issue collection. Analyzers are thin glue over this
// package.
package engine

import (
	"math"
	"strings"
)

// hexDigestLengths are the common digest widths (md5, sha1, sha256, sha512).
// All-hex literals of these exact lengths are integrity constants, not
// credentials.
var hexDigestLengths = map[int]struct{}{32: {}, 40: {}, 64: {}, 128: {}}

// placeholderMarkers disqualify obvious sample values from secret detection.
var placeholderMarkers = []string{
	"example", "changeme", "change-me", "your-", "your_",
	"dummy", "placeholder", "xxxx", "insert", "<", "{",
}

// irregularPlurals maps plural forms the suffix rules cannot derive.
var irregularPlurals = map[string]struct{}{
	"children": {}, "people": {}, "men": {}, "women": {},
	"feet": {}, "teeth": {}, "geese": {}, "mice": {},
	"data": {}, "indices": {}, "criteria": {}, "media": {},
}

// booleanPrefixes mark accessor-style property names that hold flags, not
// collections.
var booleanPrefixes = []string{"is", "has", "can", "should"}

// Entropy returns the Shannon entropy of the string in bits per character.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}

	length := float64(len([]rune(s)))

	var entropy float64

	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}

	return entropy
}

// MixedAlphanumeric reports whether s contains at least one letter and one
// digit and nothing outside the character set of machine-generated tokens.
func MixedAlphanumeric(s string) bool {
	hasLetter, hasDigit := false, false

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune("_-+/=.:", r):
		default:
			return false
		}
	}

	return hasLetter && hasDigit
}

// HexDigest reports whether s is an all-hex literal of a digest width.
func HexDigest(s string) bool {
	if _, ok := hexDigestLengths[len(s)]; !ok {
		return false
	}

	for _, r := range s {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return false
		}
	}

	return true
}

// Placeholder reports whether s is an obvious sample or template value.
func Placeholder(s string) bool {
	lower := strings.ToLower(s)

	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}

// SecretCandidate applies the credential-literal heuristic: strictly longer
// than minLength, token-shaped, random-looking, not a placeholder and not a
// digest constant.
func SecretCandidate(s string, minLength int, entropyThreshold float64) bool {
	if len(s) <= minLength {
		return false
	}

	if !MixedAlphanumeric(s) {
		return false
	}

	if Placeholder(s) || HexDigest(s) {
		return false
	}

	return Entropy(s) >= entropyThreshold
}

// Plural reports whether the identifier reads as a plural noun.
func Plural(s string) bool {
	lower := strings.ToLower(s)

	if _, ok := irregularPlurals[lower]; ok {
		return true
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return true
	case strings.HasSuffix(lower, "ses"), strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "shes"):
		return true
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"),
		strings.HasSuffix(lower, "is"):
		return false
	case strings.HasSuffix(lower, "s") && len(lower) > 1:
		return true
	}

	return false
}

// BooleanPrefixed reports whether the identifier starts with a flag prefix
// followed by a word boundary (isActive, has_errors).
func BooleanPrefixed(s string) bool {
	for _, prefix := range booleanPrefixes {
		if !strings.HasPrefix(s, prefix) || len(s) == len(prefix) {
			continue
		}

		next := s[len(prefix)]
		if next == '_' || (next >= 'A' && next <= 'Z') {
			return true
		}
	}

	return false
}

// RelationshipProperty applies the lazy-relationship heuristic to a property
// name: plural nouns count, short names, flags and column-style suffixes do
// not.
func RelationshipProperty(name string) bool {
	if len(name) <= 3 {
		return false
	}

	if BooleanPrefixed(name) {
		return false
	}

	lower := strings.ToLower(name)
	for _, suffix := range []string{"_id", "_at", "_count", "id", "at", "count"} {
		if strings.HasSuffix(lower, suffix) && lower != suffix {
			// Column-style endings only disqualify when underscored or
			// camel-cased; plain nouns like "grid" stay eligible.
			if strings.HasSuffix(lower, "_"+strings.TrimPrefix(suffix, "_")) {
				return false
			}

			trimmed := strings.TrimSuffix(name, strings.Title(strings.TrimPrefix(suffix, "_"))) //nolint:staticcheck
			if trimmed != name && trimmed != "" {
				return false
			}
		}
	}

	return Plural(name)
}

// SimpleName strips namespace qualifiers down to the final segment.
func SimpleName(qualified string) string {
	trimmed := strings.TrimPrefix(qualified, `\`)

	if idx := strings.LastIndex(trimmed, `\`); idx >= 0 {
		return trimmed[idx+1:]
	}

	return trimmed
}

// NamespaceOf returns the qualifier part of a name, empty when unqualified.
func NamespaceOf(qualified string) string {
	trimmed := strings.TrimPrefix(qualified, `\`)

	if idx := strings.LastIndex(trimmed, `\`); idx >= 0 {
		return trimmed[:idx]
	}

	return ""
}

// HasSuffixWord reports whether name ends in the suffix with a non-empty
// prefix, the membership test for suffix classes.
func HasSuffixWord(name, suffix string) bool {
	return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
}

// StudlyCase reports whether the identifier is upper-camel-case throughout.
func StudlyCase(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}

	return !strings.ContainsAny(s, "_-")
}

// ExtractHost pulls the authority host out of an absolute http(s) URL, empty
// when s is not one.
func ExtractHost(s string) string {
	lower := strings.ToLower(s)

	var rest string

	switch {
	case strings.HasPrefix(lower, "https://"):
		rest = s[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		rest = s[len("http://"):]
	default:
		return ""
	}

	end := len(rest)
	for i, r := range rest {
		if r == '/' || r == '?' || r == '#' {
			end = i
			break
		}
	}

	host := rest[:end]

	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}

	// Strip a port, leaving IPv6 brackets alone.
	if !strings.HasPrefix(host, "[") {
		if colon := strings.LastIndex(host, ":"); colon >= 0 {
			host = host[:colon]
		}
	}

	return strings.ToLower(host)
}
