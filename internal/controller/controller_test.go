package controller

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

func sampleReport() m.Report {
	return m.Report{
		BasePath:   "/srv/app",
		StartedAt:  time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 11, 3, 10, 0, 2, 0, time.UTC),
		Results: []m.AnalysisResult{
			{
				Analyzer: m.Metadata{
					ID: "hardcoded-secrets", Name: "Hardcoded Secrets",
					Category: m.CategorySecurity, Description: "Finds credential literals.",
				},
				Status: m.StatusFailed,
				Issues: []m.Issue{
					{
						Code: "SEC002", Message: "secret-named target is assigned a literal",
						Severity: m.SeverityCritical, Path: "app/Billing.php", Line: 7,
						Snippet:        `$apiToken = "...";`,
						Recommendation: "Move the value into the environment.",
					},
				},
			},
			{
				Analyzer: m.Metadata{
					ID: "error-suppression", Name: "Error Suppression",
					Category: m.CategoryReliability,
				},
				Status: m.StatusPassed,
				Issues: []m.Issue{},
			},
			{
				Analyzer: m.Metadata{
					ID: "debug-dependencies", Name: "Debug Dependencies",
					Category: m.CategorySecurity,
				},
				Status:     m.StatusSkipped,
				SkipReason: "composer.json not found",
				Issues:     []m.Issue{},
			},
		},
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		format string
		want   Renderer
		ok     bool
	}{
		{FormatTable, &tableRenderer{}, true},
		{"", &tableRenderer{}, true},
		{FormatJSON, &jsonRenderer{}, true},
		{FormatSARIF, &sarifRenderer{}, true},
		{"xml", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			renderer, err := NewRenderer(tt.format)

			if !tt.ok {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, renderer)
		})
	}
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer

	renderer := tableRenderer{}
	require.NoError(t, renderer.Render(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "hardcoded-secrets")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "skip (composer.json not found)")
	assert.Contains(t, out, "[CRITICAL] SEC002 app/Billing.php:7")
	assert.Contains(t, out, "fix: Move the value into the environment.")
	assert.Contains(t, out, "1 passed, 0 warnings, 1 failed, 1 skipped, 1 issue(s)")
}

func TestTableRenderer_SummaryOnly(t *testing.T) {
	var buf bytes.Buffer

	renderer := tableRenderer{summaryOnly: true}
	require.NoError(t, renderer.Render(&buf, sampleReport()))

	assert.NotContains(t, buf.String(), "SEC002")
}

func TestJSONRenderer_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	renderer := jsonRenderer{}
	require.NoError(t, renderer.Render(&buf, sampleReport()))

	var decoded m.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, sampleReport(), decoded)
}

func TestSARIFRenderer(t *testing.T) {
	var buf bytes.Buffer

	renderer := sarifRenderer{}
	require.NoError(t, renderer.Render(&buf, sampleReport()))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Runs, 1)

	run := doc.Runs[0]
	assert.Equal(t, "2.1.0", doc.Version)
	assert.Equal(t, "shieldci", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, "SEC002", run.Tool.Driver.Rules[0].ID)
	require.Len(t, run.Results, 1)
	assert.Equal(t, "SEC002", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
}

func TestSimpleUI(t *testing.T) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)
	report := sampleReport()

	ui.Progress(report.Results[0])
	require.NoError(t, ui.Render(report))

	out := buf.String()
	assert.Contains(t, out, "hardcoded-secrets (1 issue(s))")
	assert.Contains(t, out, "SEC002")
}

func TestNewUI_PlainForNonTerminal(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	ui := NewUI(cmd, false)

	if _, ok := ui.(*SimpleUI); !ok {
		t.Errorf("NewUI(buffer) returned %T, want *SimpleUI", ui)
	}
}

func TestIsTTY_NonFileWriter(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestBrowserModel(t *testing.T) {
	model := newBrowserModel(sampleReport())

	require.Len(t, model.items, 1)
	assert.Equal(t, "hardcoded-secrets", model.items[0].analyzer)

	t.Run("pagination tracks terminal height", func(t *testing.T) {
		model.height = 40
		assert.False(t, model.needsPagination())

		model.height = 3
		assert.True(t, model.needsPagination())
	})

	t.Run("enter toggles detail", func(t *testing.T) {
		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		bm, ok := updated.(browserModel)
		require.True(t, ok)
		assert.True(t, bm.detail)

		view := bm.View()
		assert.Contains(t, view, "SEC002")
		assert.Contains(t, view, "app/Billing.php:7")
	})

	t.Run("q quits", func(t *testing.T) {
		updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		bm, ok := updated.(browserModel)
		require.True(t, ok)
		assert.True(t, bm.quitting)
		assert.NotNil(t, cmd)
	})
}

func TestTUIRender_SmallReportPrintsPlain(t *testing.T) {
	var buf bytes.Buffer

	ui := NewTUI(&buf)
	require.NoError(t, ui.Render(sampleReport()))

	assert.Contains(t, buf.String(), "SEC002")
}
