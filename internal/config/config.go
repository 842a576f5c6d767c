// Package config provides configuration loading and structs for the Zodiac server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when --config is not given.
const DefaultPath = "/usr/local/etc/zodiac/config.yaml"

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	LLM        LLMConfig        `yaml:"llm"`
	Scrape     ScrapeConfig     `yaml:"scrape"`
	Retry      RetryConfig      `yaml:"retry"`
	Generation GenerationConfig `yaml:"generation"`
	Templates  TemplatesConfig  `yaml:"templates"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig holds paths for the database and the output search index.
// An empty SearchIndexPath disables search.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	SearchIndexPath string `yaml:"search_index_path"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // openai, gemini or echo
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ScrapeConfig holds website fetching settings.
type ScrapeConfig struct {
	Mode            string        `yaml:"mode"` // http or browser
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	MaxContentChars int           `yaml:"max_content_chars"`
	BrowserBin      string        `yaml:"browser_bin"`
	Headless        *bool         `yaml:"headless"`
}

// HeadlessOrDefault returns whether the browser runs headless; defaults to true when unset.
func (s *ScrapeConfig) HeadlessOrDefault() bool {
	if s.Headless != nil {
		return *s.Headless
	}
	return true
}

// RetryConfig bounds retries around LLM and scrape calls.
type RetryConfig struct {
	MaxAttempts     uint          `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	MaxElapsed      time.Duration `yaml:"max_elapsed"`
}

// GenerationConfig holds document generation defaults.
type GenerationConfig struct {
	DefaultLanguage string `yaml:"default_language"`
	Tier            string `yaml:"tier"`
}

// TemplatesConfig points at an optional YAML file of prompt template overrides.
type TemplatesConfig struct {
	OverridesPath string `yaml:"overrides_path"`
	Watch         bool   `yaml:"watch"`
}

// Load reads and parses the config file at path, applies environment overrides
// and defaults, and expands paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyEnv(&cfg)
	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Storage.SearchIndexPath != "" {
		cfg.Storage.SearchIndexPath = expandPath(cfg.Storage.SearchIndexPath, configDir)
	}
	if cfg.Templates.OverridesPath != "" {
		cfg.Templates.OverridesPath = expandPath(cfg.Templates.OverridesPath, configDir)
	}

	return &cfg, nil
}

// LoadOrDefault loads path. When path is the default location and no file
// exists there, ./config.yaml is tried, and failing that defaults are returned.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" && path != DefaultPath {
		return Load(path)
	}
	for _, candidate := range []string{DefaultPath, "config.yaml"} {
		cfg, err := Load(candidate)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg := &Config{}
	ApplyEnv(cfg)
	ApplyDefaults(cfg)
	return cfg, nil
}

// ApplyEnv overrides secrets and provider selection from the environment.
func ApplyEnv(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if v := strings.TrimSpace(os.Getenv("ZODIAC_LLM_PROVIDER")); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("ZODIAC_LLM_MODEL")); v != "" {
		cfg.LLM.Model = v
	}
	if cfg.LLM.APIKey == "" {
		keys := []string{"ZODIAC_LLM_API_KEY"}
		switch cfg.LLM.Provider {
		case "openai", "":
			keys = append(keys, "OPENAI_API_KEY")
		case "gemini":
			keys = append(keys, "GEMINI_API_KEY")
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				cfg.LLM.APIKey = v
				break
			}
		}
	}
	if v := os.Getenv("ZODIAC_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
