// Package logger builds the hclog loggers used across the tool.
package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// envLevel overrides the flag-derived level when set.
const envLevel = "SHIELDCI_LOG_LEVEL"

// New returns a named stderr logger. Verbose selects debug level unless the
// environment pins something else; CI=true switches to JSON output so log
// lines survive structured collectors.
func New(name string, verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}

	if env := os.Getenv(envLevel); env != "" {
		level = parseLevel(env, level)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     os.Stderr,
		JSONFormat: os.Getenv("CI") == "true",
	})
}

func parseLevel(raw string, fallback hclog.Level) hclog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return hclog.Trace
	case "debug":
		return hclog.Debug
	case "info":
		return hclog.Info
	case "warn", "warning":
		return hclog.Warn
	case "error":
		return hclog.Error
	default:
		return fallback
	}
}
