// Package model defines the data structures shared by the analysis engine.
package model

// Severity grades how urgently a finding should be addressed.
type Severity string

const (
	// SeverityLow marks stylistic or informational findings.
	SeverityLow Severity = "low"
	// SeverityMedium marks findings that degrade quality but rarely break production.
	SeverityMedium Severity = "medium"
	// SeverityHigh marks findings that hide failures or leak environment details.
	SeverityHigh Severity = "high"
	// SeverityCritical marks findings with direct production impact.
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for threshold comparisons.
var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric position of the severity, 0 for unknown values.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// AtLeast reports whether the severity meets or exceeds the threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// Valid reports whether the severity is one of the defined grades.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// MetadataKV is a single ordered metadata entry attached to an issue.
type MetadataKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Issue is a single finding at a specific line. Issues are immutable once
// collected; metadata is an ordered list so that repeated runs serialize
// identically.
type Issue struct {
	Code           string       `json:"code"`
	Message        string       `json:"message"`
	Severity       Severity     `json:"severity"`
	Recommendation string       `json:"recommendation,omitempty"`
	Path           Path         `json:"path,omitempty"`
	Line           int          `json:"line"`
	Snippet        string       `json:"snippet,omitempty"`
	Metadata       []MetadataKV `json:"metadata,omitempty"`
}
