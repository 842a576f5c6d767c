package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
  request_timeout: 90s
storage:
  database_path: "test.db"
llm:
  provider: echo
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.RequestTimeout != 90*time.Second {
		t.Errorf("request_timeout = %v, want 90s", cfg.Server.RequestTimeout)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.LLM.Model != "echo" {
		t.Errorf("echo provider default model = %q", cfg.LLM.Model)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/db/zodiac.db"
  search_index_path: "./data/indices/outputs"
templates:
  overrides_path: "./templates.yaml"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "zodiac.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	wantIndex := filepath.Join(dir, "data", "indices", "outputs")
	if cfg.Storage.SearchIndexPath != wantIndex {
		t.Errorf("search_index_path = %s, want %s", cfg.Storage.SearchIndexPath, wantIndex)
	}
	wantTemplates := filepath.Join(dir, "templates.yaml")
	if cfg.Templates.OverridesPath != wantTemplates {
		t.Errorf("overrides_path = %s, want %s", cfg.Templates.OverridesPath, wantTemplates)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.BaseURL != "https://api.openai.com" {
		t.Errorf("default llm: %+v", cfg.LLM)
	}
	if cfg.Scrape.Mode != "http" {
		t.Errorf("default scrape mode: got %s", cfg.Scrape.Mode)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("default retry attempts: got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Generation.DefaultLanguage != "en" || cfg.Generation.Tier != "TIER1" {
		t.Errorf("default generation: %+v", cfg.Generation)
	}
	if cfg.Storage.SearchIndexPath != "" {
		t.Error("search index should be disabled by default")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ZODIAC_LLM_PROVIDER", "Gemini")
	t.Setenv("ZODIAC_LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("ZODIAC_DEBUG", "true")

	cfg := &Config{}
	ApplyEnv(cfg)
	ApplyDefaults(cfg)
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "g-key" {
		t.Errorf("api key = %q, want provider-specific key", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if !cfg.Debug {
		t.Error("ZODIAC_DEBUG should enable debug")
	}
}

func TestLoad_providerCaseInsensitive(t *testing.T) {
	t.Setenv("ZODIAC_LLM_PROVIDER", "")
	t.Setenv("ZODIAC_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "o-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  provider: OpenAI\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "o-key" {
		t.Errorf("api key = %q, want key from OPENAI_API_KEY", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
}

func TestApplyEnv_configKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")
	cfg := &Config{LLM: LLMConfig{APIKey: "from-file"}}
	ApplyEnv(cfg)
	if cfg.LLM.APIKey != "from-file" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestScrapeConfig_HeadlessOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		s := &ScrapeConfig{}
		if !s.HeadlessOrDefault() {
			t.Error("HeadlessOrDefault() = false, want true")
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		s := &ScrapeConfig{Headless: &f}
		if s.HeadlessOrDefault() {
			t.Error("HeadlessOrDefault() = true, want false")
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090, RequestTimeout: time.Minute},
		Storage: StorageConfig{DatabasePath: "/tmp/db"},
		LLM:     LLMConfig{Provider: "echo"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Server.RequestTimeout != time.Minute {
		t.Errorf("loaded request_timeout: got %v", loaded.Server.RequestTimeout)
	}
}
