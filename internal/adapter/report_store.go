package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// reportDirName is created under the scanned base for run snapshots.
const reportDirName = ".shieldci"

// reportSuffix names snapshot files; the prefix is the run timestamp.
const reportSuffix = ".report.json"

// ReportStore persists and retrieves run reports.
type ReportStore interface {
	// Save writes a timestamped snapshot under the report's base path and
	// returns its location.
	Save(report m.Report) (m.Path, error)

	// Load reads one snapshot.
	Load(path m.Path) (m.Report, error)

	// Latest returns the most recent snapshot under base.
	Latest(base m.Path) (m.Report, m.Path, error)
}

type fileReportStore struct{}

// NewReportStore constructs the disk-backed ReportStore.
func NewReportStore() ReportStore {
	return &fileReportStore{}
}

func (rs *fileReportStore) Save(report m.Report) (m.Path, error) {
	dir := filepath.Join(string(report.BasePath), reportDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := report.StartedAt.UTC().Format("20060102_150405") + reportSuffix
	path := filepath.Join(dir, name)

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return m.Path(path), nil
}

func (rs *fileReportStore) Load(path m.Path) (m.Report, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var report m.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}

func (rs *fileReportStore) Latest(base m.Path) (m.Report, m.Path, error) {
	dir := filepath.Join(string(base), reportDirName)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return m.Report{}, "", fmt.Errorf("no saved reports under %s: %w", base, err)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), reportSuffix) {
			continue
		}

		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return m.Report{}, "", fmt.Errorf("no saved reports under %s", base)
	}

	// Timestamped names sort chronologically.
	sort.Strings(names)

	path := m.Path(filepath.Join(dir, names[len(names)-1]))

	report, err := rs.Load(path)
	if err != nil {
		return m.Report{}, "", err
	}

	return report, path, nil
}
