// Package config provides configuration loading for notesd.
//
// Configuration is loaded from a YAML file with environment variable
// overrides and sensible defaults. See LoadWithFile for precedence rules.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Known extractor providers accepted by extract.provider.
const (
	ProviderRules   = "rules"
	ProviderBullets = "bullets"
	ProviderSimple  = "simple"
	ProviderLLM     = "llm"
	ProviderNoop    = "noop"
)

// Config holds the complete notesd configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Extract  ExtractConfig  `koanf:"extract"`
	GitHub   GitHubConfig   `koanf:"github"`
	Inbox    InboxConfig    `koanf:"inbox"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds sqlite store configuration.
type DatabaseConfig struct {
	Path        string   `koanf:"path"`
	BusyTimeout Duration `koanf:"busy_timeout"`
	SeedFile    string   `koanf:"seed_file"`
}

// ExtractConfig selects and configures the action-item extractor.
//
// LLM fields are only consulted when Provider is "llm". The endpoint is
// any OpenAI-style chat-completions server (ollama serves one locally).
type ExtractConfig struct {
	Provider             string   `koanf:"provider"`
	LLMBaseURL           string   `koanf:"llm_base_url"`
	LLMModel             string   `koanf:"llm_model"`
	LLMAPIKey            Secret   `koanf:"llm_api_key"`
	LLMTimeout           Duration `koanf:"llm_timeout"`
	LLMRequestsPerMinute int      `koanf:"llm_requests_per_minute"`
	LLMMaxRetries        int      `koanf:"llm_max_retries"`
}

// GitHubConfig holds GitHub Issues API client configuration.
//
// DefaultOwner and DefaultRepo are fallbacks for tool calls that omit
// the repository; Token is only required once a GitHub tool is invoked.
type GitHubConfig struct {
	Token          Secret   `koanf:"token"`
	APIBaseURL     string   `koanf:"api_base_url"`
	DefaultOwner   string   `koanf:"default_owner"`
	DefaultRepo    string   `koanf:"default_repo"`
	RequestTimeout Duration `koanf:"request_timeout"`
	DailyLabel     string   `koanf:"daily_label"`
}

// InboxConfig holds the note drop-directory watcher configuration.
type InboxConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultConfig returns a Config populated with defaults only.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	// Database defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/notesd.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = Duration(5 * time.Second)
	}

	// Extract defaults
	if cfg.Extract.Provider == "" {
		cfg.Extract.Provider = ProviderRules
	}
	if cfg.Extract.LLMBaseURL == "" {
		cfg.Extract.LLMBaseURL = "http://localhost:11434/v1"
	}
	if cfg.Extract.LLMModel == "" {
		cfg.Extract.LLMModel = "llama3.1:8b"
	}
	if cfg.Extract.LLMTimeout == 0 {
		cfg.Extract.LLMTimeout = Duration(30 * time.Second)
	}
	if cfg.Extract.LLMRequestsPerMinute == 0 {
		cfg.Extract.LLMRequestsPerMinute = 60
	}
	if cfg.Extract.LLMMaxRetries == 0 {
		cfg.Extract.LLMMaxRetries = 3
	}

	// GitHub defaults
	if cfg.GitHub.APIBaseURL == "" {
		cfg.GitHub.APIBaseURL = "https://api.github.com"
	}
	if cfg.GitHub.RequestTimeout == 0 {
		cfg.GitHub.RequestTimeout = Duration(30 * time.Second)
	}
	if cfg.GitHub.DailyLabel == "" {
		cfg.GitHub.DailyLabel = "daily"
	}

	// Log defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Database path is empty
//   - Extract provider is unknown, or LLM fields are missing when selected
//   - Inbox is enabled without a directory
//   - Log format is not json or console
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	switch c.Extract.Provider {
	case ProviderRules, ProviderBullets, ProviderSimple, ProviderNoop:
	case ProviderLLM:
		if c.Extract.LLMBaseURL == "" {
			return errors.New("extract llm_base_url required when provider is llm")
		}
		if c.Extract.LLMModel == "" {
			return errors.New("extract llm_model required when provider is llm")
		}
		if c.Extract.LLMRequestsPerMinute < 1 {
			return fmt.Errorf("extract llm_requests_per_minute must be >= 1, got %d", c.Extract.LLMRequestsPerMinute)
		}
	default:
		return fmt.Errorf("unknown extract provider %q (expected rules, bullets, simple, llm, or noop)", c.Extract.Provider)
	}

	if c.Inbox.Enabled && c.Inbox.Dir == "" {
		return errors.New("inbox dir required when inbox is enabled")
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.Log.Format)
	}

	return nil
}
