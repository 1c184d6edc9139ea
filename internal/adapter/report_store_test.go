package adapter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

func sampleStoreReport(base m.Path, startedAt time.Time) m.Report {
	return m.Report{
		BasePath:   base,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(2 * time.Second),
		Results: []m.AnalysisResult{
			{
				Analyzer: m.Metadata{ID: "hardcoded-secrets", Name: "Hardcoded Secrets", Category: m.CategorySecurity},
				Status:   m.StatusFailed,
				Issues: []m.Issue{
					{
						Code:     "SEC002",
						Severity: m.SeverityCritical,
						Path:     "app/Billing.php",
						Line:     7,
						Message:  "credential assigned to a sensitive variable",
					},
				},
			},
		},
	}
}

func TestReportStore_SaveLoad(t *testing.T) {
	base := m.Path(t.TempDir())
	store := NewReportStore()

	report := sampleStoreReport(base, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	path, err := store.Save(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(string(base), ".shieldci"), filepath.Dir(string(path)))

	loaded, err := store.Load(path)
	require.NoError(t, err)

	assert.Equal(t, report.BasePath, loaded.BasePath)
	require.Len(t, loaded.Results, 1)
	assert.Equal(t, report.Results[0].Issues, loaded.Results[0].Issues)
	assert.True(t, report.StartedAt.Equal(loaded.StartedAt))
}

func TestReportStore_Latest(t *testing.T) {
	base := m.Path(t.TempDir())
	store := NewReportStore()

	older := sampleStoreReport(base, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	newer := sampleStoreReport(base, time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC))
	newer.Results[0].Issues[0].Line = 42

	_, err := store.Save(older)
	require.NoError(t, err)

	newerPath, err := store.Save(newer)
	require.NoError(t, err)

	latest, path, err := store.Latest(base)
	require.NoError(t, err)
	assert.Equal(t, newerPath, path)
	assert.Equal(t, 42, latest.Results[0].Issues[0].Line)
}

func TestReportStore_LatestWithoutReports(t *testing.T) {
	store := NewReportStore()

	_, _, err := store.Latest(m.Path(t.TempDir()))
	assert.Error(t, err)
}

func TestReportStore_LoadMissing(t *testing.T) {
	store := NewReportStore()

	_, err := store.Load(m.Path(filepath.Join(t.TempDir(), "absent.report.json")))
	assert.Error(t, err)
}
