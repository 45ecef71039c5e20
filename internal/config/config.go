// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied by MergeWithDefaults when a field is unset.
const (
	DefaultPort        = 8080
	DefaultMaxUploadMB = 5
)

// ConfigEnvVar names the environment variable holding the config file path.
const ConfigEnvVar = "SKILLMATCH_CONFIG"

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, the environment or CLI flags.
type Config struct {
	// Data files
	KeywordsPath  string `json:"keywords_path,omitempty"`  // Keyword bag JSON replacing the built-in one
	RolesPath     string `json:"roles_path,omitempty"`     // Job role catalog JSON replacing the built-in one
	TemplatesDir  string `json:"templates_dir,omitempty"`  // Directory of DOCX layouts replacing the built-in ones
	LaTeXTemplate string `json:"latex_template,omitempty"` // LaTeX template replacing the built-in one

	// Server
	Port        int `json:"port,omitempty"`
	MaxUploadMB int `json:"max_upload_mb,omitempty"` // Largest accepted resume upload

	// Services
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Render JavaScript job boards in a headless browser
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:        DefaultPort,
		MaxUploadMB: DefaultMaxUploadMB,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// Load reads the file at path, or at $SKILLMATCH_CONFIG when path is empty,
// fills service settings from DATABASE_URL and GEMINI_API_KEY, applies
// defaults and validates the result. With no file at all the environment
// and defaults alone are used.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}

	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv fills empty service settings from the environment.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}

	// Validate file paths exist (if specified)
	files := []struct {
		key  string
		path string
	}{
		{"keywords_path", c.KeywordsPath},
		{"roles_path", c.RolesPath},
		{"latex_template", c.LaTeXTemplate},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", f.key, f.path)
		}
	}

	if c.TemplatesDir != "" {
		info, err := os.Stat(c.TemplatesDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: templates_dir is not a directory: %s", c.TemplatesDir)
		}
	}

	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.KeywordsPath == "" {
		result.KeywordsPath = defaults.KeywordsPath
	}
	if result.RolesPath == "" {
		result.RolesPath = defaults.RolesPath
	}
	if result.TemplatesDir == "" {
		result.TemplatesDir = defaults.TemplatesDir
	}
	if result.LaTeXTemplate == "" {
		result.LaTeXTemplate = defaults.LaTeXTemplate
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
