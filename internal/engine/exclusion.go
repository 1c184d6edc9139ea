package engine

import (
	"fmt"
	"path"
	"strings"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// CodeMalformedRule marks diagnostic issues raised for patterns the compiler
// cannot use.
const CodeMalformedRule = "CFG001"

// CompilePathRules turns raw config patterns into path whitelist rules.
// Patterns that do not survive a syntax check are dropped and reported as
// CFG001 diagnostics instead of failing the run.
func CompilePathRules(patterns []string) ([]m.WhitelistRule, []m.Issue) {
	var (
		rules []m.WhitelistRule
		diags []m.Issue
	)

	for _, raw := range patterns {
		pattern := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "/"))
		if pattern == "" {
			continue
		}

		kind := m.MatchExact

		switch {
		case strings.Contains(pattern, "**"):
			kind = m.MatchRecursiveGlob
		case strings.ContainsAny(pattern, "*?["):
			kind = m.MatchGlob
		}

		if kind != m.MatchExact {
			if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), "probe"); err != nil {
				diags = append(diags, malformedRuleIssue(raw, err))
				continue
			}
		}

		rules = append(rules, m.WhitelistRule{Pattern: pattern, Kind: kind})
	}

	return rules, diags
}

// CompileDeclarationRules turns raw config identifiers into declaration
// whitelist rules. `*Suffix` becomes a suffix class; anything else matches by
// equality only.
func CompileDeclarationRules(patterns []string) ([]m.WhitelistRule, []m.Issue) {
	var (
		rules []m.WhitelistRule
		diags []m.Issue
	)

	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}

		if strings.HasPrefix(pattern, "*") {
			suffix := strings.TrimPrefix(pattern, "*")
			if suffix == "" || strings.ContainsAny(suffix, "*?[") {
				diags = append(diags, malformedRuleIssue(raw, fmt.Errorf("suffix class needs a literal suffix")))
				continue
			}

			rules = append(rules, m.WhitelistRule{Pattern: suffix, Kind: m.MatchSuffixClass})

			continue
		}

		if strings.ContainsAny(pattern, "*?[") {
			diags = append(diags, malformedRuleIssue(raw, fmt.Errorf("wildcards are only valid as a leading *")))
			continue
		}

		rules = append(rules, m.WhitelistRule{Pattern: pattern, Kind: m.MatchExact})
	}

	return rules, diags
}

func malformedRuleIssue(pattern string, err error) m.Issue {
	return m.Issue{
		Code:     CodeMalformedRule,
		Message:  fmt.Sprintf("whitelist pattern %q is malformed and was ignored: %v", pattern, err),
		Severity: m.SeverityLow,
		Recommendation: "Fix the pattern in the configuration file; " +
			"until then the rule has no effect.",
	}
}

// ExcludedPath reports whether the slash-normalized base-relative path is
// covered by any rule. Matching is pure: same inputs, same answer, no state.
func ExcludedPath(relative m.Path, rules []m.WhitelistRule) bool {
	p := strings.Trim(string(relative), "/")
	if p == "" || len(rules) == 0 {
		return false
	}

	segments := strings.Split(p, "/")

	for _, rule := range rules {
		switch rule.Kind {
		case m.MatchExact:
			if matchExactPath(segments, rule.Pattern) {
				return true
			}
		case m.MatchGlob:
			if matchGlobPath(p, segments, rule.Pattern) {
				return true
			}
		case m.MatchRecursiveGlob:
			if matchRecursiveGlob(segments, strings.Split(rule.Pattern, "/")) {
				return true
			}
		case m.MatchSuffixClass:
			// Suffix classes apply to declarations, not paths.
		}
	}

	return false
}

// matchExactPath matches a literal pattern against any path segment or
// against the filename stem, so `helpers` covers app/Support/helpers.php.
func matchExactPath(segments []string, pattern string) bool {
	for _, segment := range segments {
		if segment == pattern {
			return true
		}
	}

	last := segments[len(segments)-1]
	stem := strings.TrimSuffix(last, path.Ext(last))

	return stem == pattern
}

// matchGlobPath applies a single-level glob: wildcards never cross a
// separator. Patterns without a separator also match the bare filename.
func matchGlobPath(full string, segments []string, pattern string) bool {
	if ok, _ := path.Match(pattern, full); ok {
		return true
	}

	if !strings.Contains(pattern, "/") {
		last := segments[len(segments)-1]
		if ok, _ := path.Match(pattern, last); ok {
			return true
		}
	}

	return false
}

// matchRecursiveGlob matches pattern segments against path segments where a
// `**` segment absorbs zero or more path segments.
func matchRecursiveGlob(segments, pattern []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}

	head := pattern[0]

	if head == "**" {
		for skip := 0; skip <= len(segments); skip++ {
			if matchRecursiveGlob(segments[skip:], pattern[1:]) {
				return true
			}
		}

		return false
	}

	if len(segments) == 0 {
		return false
	}

	// Inline ** inside a segment falls back to a plain * within that segment.
	ok, _ := path.Match(strings.ReplaceAll(head, "**", "*"), segments[0])
	if !ok {
		return false
	}

	return matchRecursiveGlob(segments[1:], pattern[1:])
}

// ExcludedDeclaration reports whether a declaration identifier is covered by
// any rule. Only equality and suffix classes apply; substring containment is
// deliberately not a match (rule `User` must not cover `SuperUserService`).
func ExcludedDeclaration(name string, rules []m.WhitelistRule) bool {
	if name == "" {
		return false
	}

	for _, rule := range rules {
		switch rule.Kind {
		case m.MatchExact:
			if name == rule.Pattern {
				return true
			}
		case m.MatchSuffixClass:
			if HasSuffixWord(name, rule.Pattern) {
				return true
			}
		case m.MatchGlob, m.MatchRecursiveGlob:
			// Glob kinds apply to paths, not declarations.
		}
	}

	return false
}
