// Package config holds the analyzer configuration schema and its defaults.
// A loaded Config is immutable and threaded by reference; nothing in the
// engine reads configuration from globals.
package config

import (
	"github.com/ShieldCI/laravel-sub000/internal/model"
)

// Config is the full configuration tree. Every field carries a compiled-in
// default so an absent file is a valid configuration.
type Config struct {
	Paths       Paths       `yaml:"paths"`
	Run         Run         `yaml:"run"`
	Security    Security    `yaml:"security"`
	Reliability Reliability `yaml:"reliability"`
	Performance Performance `yaml:"performance"`
}

// Paths controls which files enter analysis at all.
type Paths struct {
	Exclude []string `yaml:"exclude"`
}

// Run controls execution-wide behavior.
type Run struct {
	Jobs          int    `yaml:"jobs"`
	FailThreshold string `yaml:"fail_threshold"`
}

// FailSeverity returns the threshold as a model severity, medium when the
// configured string is not a valid grade.
func (r Run) FailSeverity() model.Severity {
	s := model.Severity(r.FailThreshold)
	if !s.Valid() {
		return model.SeverityMedium
	}

	return s
}

// Security groups the security-category analyzer settings.
type Security struct {
	HardcodedSecrets  HardcodedSecrets  `yaml:"hardcoded_secrets"`
	HardcodedURLs     HardcodedURLs     `yaml:"hardcoded_urls"`
	DebugDependencies DebugDependencies `yaml:"debug_dependencies"`
}

// HardcodedSecrets tunes the credential-literal detector.
type HardcodedSecrets struct {
	Enabled          bool     `yaml:"enabled"`
	MinLength        int      `yaml:"min_length"`
	EntropyThreshold float64  `yaml:"entropy_threshold"`
	KeyMarkers       []string `yaml:"key_markers"`
}

// HardcodedURLs tunes the environment-URL detector.
type HardcodedURLs struct {
	Enabled      bool     `yaml:"enabled"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// DebugDependencies tunes the production-manifest check.
type DebugDependencies struct {
	Enabled  bool     `yaml:"enabled"`
	Packages []string `yaml:"packages"`
}

// Reliability groups the reliability-category analyzer settings.
type Reliability struct {
	SwallowedExceptions SwallowedExceptions `yaml:"swallowed_exceptions"`
	ErrorSuppression    ErrorSuppression    `yaml:"error_suppression"`
	ServiceLocator      ServiceLocator      `yaml:"service_locator"`
	TemplateLogic       TemplateLogic       `yaml:"template_logic"`
}

// SwallowedExceptions tunes the catch-block classifier.
type SwallowedExceptions struct {
	Enabled              bool     `yaml:"enabled"`
	ExceptionWhitelist   []string `yaml:"exception_whitelist"`
	DeclarationWhitelist []string `yaml:"declaration_whitelist"`
}

// ErrorSuppression tunes the @-operator detector.
type ErrorSuppression struct {
	Enabled           bool     `yaml:"enabled"`
	FunctionWhitelist []string `yaml:"function_whitelist"`
}

// ServiceLocator tunes the container-resolution counter.
type ServiceLocator struct {
	Enabled        bool `yaml:"enabled"`
	MaxResolutions int  `yaml:"max_resolutions"`
}

// TemplateLogic tunes the Blade-template checks.
type TemplateLogic struct {
	Enabled          bool `yaml:"enabled"`
	MaxPHPBlockLines int  `yaml:"max_php_block_lines"`
}

// Performance groups the performance-category analyzer settings.
type Performance struct {
	CollectionFiltering CollectionFiltering `yaml:"collection_filtering"`
}

// CollectionFiltering tunes the bulk-fetch-then-filter detector.
type CollectionFiltering struct {
	Enabled               bool     `yaml:"enabled"`
	PersistenceNamespaces []string `yaml:"persistence_namespaces"`
	DeclarationWhitelist  []string `yaml:"declaration_whitelist"`
	ReportEveryFilter     bool     `yaml:"report_every_filter"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Paths: Paths{
			Exclude: []string{
				"vendor", "storage", "node_modules",
				"bootstrap/cache", "database/migrations/**",
			},
		},
		Run: Run{
			Jobs:          4,
			FailThreshold: string(model.SeverityMedium),
		},
		Security: Security{
			HardcodedSecrets: HardcodedSecrets{
				Enabled:          true,
				MinLength:        16,
				EntropyThreshold: 3.5,
				KeyMarkers: []string{
					"secret", "password", "token", "api_key",
					"private_key", "credential",
				},
			},
			HardcodedURLs: HardcodedURLs{
				Enabled: true,
				AllowedHosts: []string{
					"localhost", "127.0.0.1", "::1",
					"example.com", "example.org", "example.net",
				},
			},
			DebugDependencies: DebugDependencies{
				Enabled: true,
				Packages: []string{
					"barryvdh/laravel-debugbar", "filp/whoops",
					"symfony/var-dumper", "laravel/telescope",
				},
			},
		},
		Reliability: Reliability{
			SwallowedExceptions: SwallowedExceptions{
				Enabled: true,
				ExceptionWhitelist: []string{
					"ValidationException", "AuthorizationException",
				},
			},
			ErrorSuppression: ErrorSuppression{
				Enabled: true,
				FunctionWhitelist: []string{
					"unlink", "fopen", "filesize", "getimagesize",
					"mkdir", "rmdir",
				},
			},
			ServiceLocator: ServiceLocator{
				Enabled:        true,
				MaxResolutions: 3,
			},
			TemplateLogic: TemplateLogic{
				Enabled:          true,
				MaxPHPBlockLines: 5,
			},
		},
		Performance: Performance{
			CollectionFiltering: CollectionFiltering{
				Enabled: true,
				PersistenceNamespaces: []string{
					`App\Models`, `App\Entities`,
				},
			},
		},
	}
}
