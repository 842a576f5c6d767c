package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 10 * time.Minute
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/zodiac/data/db/zodiac.db"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.Model = "gemini-2.5-flash"
		case "echo":
			cfg.LLM.Model = "echo"
		default:
			cfg.LLM.Model = "gpt-4o-mini"
		}
	}
	if cfg.LLM.BaseURL == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.BaseURL = "https://api.openai.com"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 3 * time.Minute
	}
	if cfg.Scrape.Mode == "" {
		cfg.Scrape.Mode = "http"
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = "Mozilla/5.0 (compatible; ZodiacBot/1.0)"
	}
	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = 30 * time.Second
	}
	if cfg.Scrape.MaxBodyBytes == 0 {
		cfg.Scrape.MaxBodyBytes = 10 << 20
	}
	if cfg.Scrape.MaxContentChars == 0 {
		cfg.Scrape.MaxContentChars = 20000
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialInterval == 0 {
		cfg.Retry.InitialInterval = 500 * time.Millisecond
	}
	if cfg.Retry.MaxInterval == 0 {
		cfg.Retry.MaxInterval = 10 * time.Second
	}
	if cfg.Retry.MaxElapsed == 0 {
		cfg.Retry.MaxElapsed = 2 * time.Minute
	}
	if cfg.Generation.DefaultLanguage == "" {
		cfg.Generation.DefaultLanguage = "en"
	}
	if cfg.Generation.Tier == "" {
		cfg.Generation.Tier = "TIER1"
	}
}
