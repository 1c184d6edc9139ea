package model

// MatchKind selects how a whitelist pattern is applied.
type MatchKind string

const (
	// MatchExact compares for equality, never substring.
	MatchExact MatchKind = "exact"
	// MatchGlob is a single-level glob; wildcards do not cross separators.
	MatchGlob MatchKind = "glob"
	// MatchRecursiveGlob contains ** and crosses directory separators.
	MatchRecursiveGlob MatchKind = "recursive-glob"
	// MatchSuffixClass is *Suffix against declaration identifiers.
	MatchSuffixClass MatchKind = "suffix-class"
)

// WhitelistRule is one compiled exclusion pattern.
type WhitelistRule struct {
	Pattern string
	Kind    MatchKind
}
