// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	CorpusDir string `json:"corpus_dir,omitempty"` // Directory of ESRS regulatory text files
	Report    string `json:"report,omitempty"`     // Path to extracted report text file

	// Completion service
	Provider string `json:"provider,omitempty"` // "openai" or "gemini"
	Model    string `json:"model,omitempty"`    // Model identifier
	APIKey   string `json:"api_key,omitempty"`  // Completion-service API key

	// Collaborators
	RegistryAPIKey string `json:"registry_api_key,omitempty"` // Pappers API key
	DatabaseURL    string `json:"database_url,omitempty"`     // PostgreSQL connection URL

	// Behavior
	TimeoutSeconds int  `json:"timeout_seconds,omitempty"` // Per-section completion timeout
	Concurrent     bool `json:"concurrent,omitempty"`      // Analyze sections in parallel
	Verbose        bool `json:"verbose,omitempty"`         // Print detailed output
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Provider != "" && c.Provider != "openai" && c.Provider != "gemini" {
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.Report != "" {
		if _, err := os.Stat(c.Report); os.IsNotExist(err) {
			return fmt.Errorf("config error: report file not found: %s", c.Report)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.CorpusDir == "" {
		result.CorpusDir = defaults.CorpusDir
	}
	if result.Report == "" {
		result.Report = defaults.Report
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.RegistryAPIKey == "" {
		result.RegistryAPIKey = defaults.RegistryAPIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
