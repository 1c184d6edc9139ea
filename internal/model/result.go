package model

import "time"

// Status is the overall outcome of one analyzer run.
type Status string

const (
	// StatusPassed means the analyzer found nothing.
	StatusPassed Status = "passed"
	// StatusWarning means every finding sits below the fail threshold.
	StatusWarning Status = "warning"
	// StatusFailed means at least one finding met the fail threshold.
	StatusFailed Status = "failed"
	// StatusSkipped means a prerequisite artifact was missing.
	StatusSkipped Status = "skipped"
)

// Category groups analyzers in listings and reports.
type Category string

const (
	// CategorySecurity covers secrets, URLs and dependency hygiene.
	CategorySecurity Category = "security"
	// CategoryReliability covers failure handling and structural health.
	CategoryReliability Category = "reliability"
	// CategoryPerformance covers query and collection efficiency.
	CategoryPerformance Category = "performance"
)

// Metadata identifies an analyzer in listings, reports and SARIF rules.
type Metadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// AnalysisResult is the outcome of one analyzer over one tree.
type AnalysisResult struct {
	Analyzer   Metadata `json:"analyzer"`
	Status     Status   `json:"status"`
	SkipReason string   `json:"skipReason,omitempty"`
	Issues     []Issue  `json:"issues"`
}

// Passed reports whether the analyzer found nothing.
func (r AnalysisResult) Passed() bool { return r.Status == StatusPassed }

// Warning reports whether findings stayed below the fail threshold.
func (r AnalysisResult) Warning() bool { return r.Status == StatusWarning }

// Failed reports whether any finding met the fail threshold.
func (r AnalysisResult) Failed() bool { return r.Status == StatusFailed }

// Skipped reports whether the analyzer could not run.
func (r AnalysisResult) Skipped() bool { return r.Status == StatusSkipped }

// Report aggregates the results of one run in registry order.
type Report struct {
	BasePath   Path             `json:"basePath"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
	Results    []AnalysisResult `json:"results"`
}

// Counts tallies results and issues by outcome for summaries.
type Counts struct {
	Passed  int
	Warning int
	Failed  int
	Skipped int
	Issues  int
}

// Count walks the results once and tallies outcomes.
func (r Report) Count() Counts {
	var c Counts

	for _, result := range r.Results {
		switch result.Status {
		case StatusPassed:
			c.Passed++
		case StatusWarning:
			c.Warning++
		case StatusFailed:
			c.Failed++
		case StatusSkipped:
			c.Skipped++
		}

		c.Issues += len(result.Issues)
	}

	return c
}

// HasFailures reports whether any analyzer failed.
func (r Report) HasFailures() bool {
	for _, result := range r.Results {
		if result.Failed() {
			return true
		}
	}

	return false
}
