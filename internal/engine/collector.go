package engine

import (
	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// IssueCollector accumulates findings for one analyzer run. It deduplicates
// per (code, path, line) and preserves insertion order so repeated runs over
// the same tree serialize identically. Collectors are single-writer; each
// analyzer owns its own.
type IssueCollector struct {
	issues []m.Issue
	seen   map[issueKey]struct{}
}

type issueKey struct {
	code string
	path m.Path
	line int
}

// NewIssueCollector returns an empty collector.
func NewIssueCollector() *IssueCollector {
	return &IssueCollector{seen: make(map[issueKey]struct{})}
}

// Add records the issue unless an equal (code, path, line) was already
// collected. It reports whether the issue was kept.
func (c *IssueCollector) Add(issue m.Issue) bool {
	key := issueKey{code: issue.Code, path: issue.Path, line: issue.Line}

	if _, dup := c.seen[key]; dup {
		return false
	}

	c.seen[key] = struct{}{}
	c.issues = append(c.issues, issue)

	return true
}

// Len returns the number of collected issues.
func (c *IssueCollector) Len() int {
	return len(c.issues)
}

// Issues returns the collected findings in insertion order.
func (c *IssueCollector) Issues() []m.Issue {
	return c.issues
}

// Result derives the analyzer outcome: no findings pass, findings below the
// fail threshold warn, anything at or above it fails.
func (c *IssueCollector) Result(meta m.Metadata, failAt m.Severity) m.AnalysisResult {
	status := m.StatusPassed

	for _, issue := range c.issues {
		if issue.Severity.AtLeast(failAt) {
			status = m.StatusFailed
			break
		}

		status = m.StatusWarning
	}

	return m.AnalysisResult{
		Analyzer: meta,
		Status:   status,
		Issues:   c.issues,
	}
}

// SkippedResult builds the outcome for an analyzer whose prerequisites were
// missing. Any collected issues are discarded: a skipped check asserts
// nothing.
func SkippedResult(meta m.Metadata, reason string) m.AnalysisResult {
	return m.AnalysisResult{
		Analyzer:   meta,
		Status:     m.StatusSkipped,
		SkipReason: reason,
		Issues:     []m.Issue{},
	}
}
