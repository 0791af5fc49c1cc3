// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/nova-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nova configuration.
type Config struct {
	// Client configuration (backend endpoint)
	Client ClientConfig `toml:"client"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log"`

	// Development backend configuration
	Backend BackendConfig `toml:"backend"`
}

// ClientConfig controls how nova reaches the chat backend.
type ClientConfig struct {
	// BaseURL is the backend root, e.g. http://127.0.0.1:5000
	BaseURL string `toml:"base_url"`

	// ChatPath is the chat endpoint path
	ChatPath string `toml:"chat_path"`

	// HealthPath is the connectivity probe path
	HealthPath string `toml:"health_path"`

	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains user interface settings.
type UIConfig struct {
	// Greeting is shown when a conversation is cleared
	Greeting string `toml:"greeting"`

	// Formatter is "rules" or "markdown"
	Formatter string `toml:"formatter"`

	// MaxInputLines caps the auto-resized input height
	MaxInputLines int `toml:"max_input_lines"`

	// ScrollDelayMs delays the scroll to the newest message
	ScrollDelayMs int `toml:"scroll_delay_ms"`

	// NoticeSecs is how long notices stay on screen
	NoticeSecs int `toml:"notice_secs"`

	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level"`

	// Format is "console" or "json"
	Format string `toml:"format"`

	// File is where logs are written; empty means ~/.nova/nova.log
	File string `toml:"file"`
}

// BackendConfig configures `nova serve`.
type BackendConfig struct {
	// Addr is the listen address
	Addr string `toml:"addr"`

	// Responder is "echo", "gemini" or "ollama"
	Responder string `toml:"responder"`

	// GeminiModel is the model used by the gemini responder
	GeminiModel string `toml:"gemini_model"`

	// GeminiAPIKey is normally supplied through GOOGLE_API_KEY
	GeminiAPIKey string `toml:"gemini_api_key"`

	// OllamaURL is the Ollama server used by the ollama responder
	OllamaURL string `toml:"ollama_url"`

	// OllamaModel is the model used by the ollama responder
	OllamaModel string `toml:"ollama_model"`

	// AllowedOrigins lists CORS origins; "*" allows any
	AllowedOrigins []string `toml:"allowed_origins"`

	// RateLimitPerMin limits chat requests per client IP; 0 disables it
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:     "http://127.0.0.1:5000",
			ChatPath:    "/chat",
			HealthPath:  "/test",
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			Greeting:      "Hello! I'm Nova AI, your intelligent assistant. How can I help you today?",
			Formatter:     "rules",
			MaxInputLines: 6,
			ScrollDelayMs: 100,
			NoticeSecs:    5,
			Theme:         "auto",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Backend: BackendConfig{
			Addr:            "127.0.0.1:5000",
			Responder:       "echo",
			GeminiModel:     "gemini-1.5-flash",
			OllamaURL:       "http://127.0.0.1:11434",
			OllamaModel:     "llama3.2",
			AllowedOrigins:  []string{"*"},
			RateLimitPerMin: 60,
		},
	}
}

// Timeout returns the client request timeout.
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ScrollDelay returns the scroll delay.
func (u *UIConfig) ScrollDelay() time.Duration {
	return time.Duration(u.ScrollDelayMs) * time.Millisecond
}

// NoticeDuration returns how long notices are displayed.
func (u *UIConfig) NoticeDuration() time.Duration {
	return time.Duration(u.NoticeSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the nova configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".nova"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.nova/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied
// last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	// Client
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = defaults.Client.BaseURL
	}
	if cfg.Client.ChatPath == "" {
		cfg.Client.ChatPath = defaults.Client.ChatPath
	}
	if cfg.Client.HealthPath == "" {
		cfg.Client.HealthPath = defaults.Client.HealthPath
	}
	if cfg.Client.TimeoutSecs == 0 {
		cfg.Client.TimeoutSecs = defaults.Client.TimeoutSecs
	}

	// UI
	if cfg.UI.Greeting == "" {
		cfg.UI.Greeting = defaults.UI.Greeting
	}
	if cfg.UI.Formatter == "" {
		cfg.UI.Formatter = defaults.UI.Formatter
	}
	if cfg.UI.MaxInputLines == 0 {
		cfg.UI.MaxInputLines = defaults.UI.MaxInputLines
	}
	if cfg.UI.ScrollDelayMs == 0 {
		cfg.UI.ScrollDelayMs = defaults.UI.ScrollDelayMs
	}
	if cfg.UI.NoticeSecs == 0 {
		cfg.UI.NoticeSecs = defaults.UI.NoticeSecs
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}

	// Backend
	if cfg.Backend.Addr == "" {
		cfg.Backend.Addr = defaults.Backend.Addr
	}
	if cfg.Backend.Responder == "" {
		cfg.Backend.Responder = defaults.Backend.Responder
	}
	if cfg.Backend.GeminiModel == "" {
		cfg.Backend.GeminiModel = defaults.Backend.GeminiModel
	}
	if cfg.Backend.OllamaURL == "" {
		cfg.Backend.OllamaURL = defaults.Backend.OllamaURL
	}
	if cfg.Backend.OllamaModel == "" {
		cfg.Backend.OllamaModel = defaults.Backend.OllamaModel
	}
	if cfg.Backend.AllowedOrigins == nil {
		cfg.Backend.AllowedOrigins = defaults.Backend.AllowedOrigins
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to ~/.nova/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration as TOML to path with 0600 permissions.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# nova configuration file\n")
	buf.WriteString("# Generated by nova - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// The file may carry an API key.
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Client
	if u, err := url.Parse(c.Client.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		add("client.base_url", "invalid URL '%s', must be http(s)://host[:port]", c.Client.BaseURL)
	}
	if !strings.HasPrefix(c.Client.ChatPath, "/") {
		add("client.chat_path", "must start with '/'")
	}
	if !strings.HasPrefix(c.Client.HealthPath, "/") {
		add("client.health_path", "must start with '/'")
	}
	if c.Client.TimeoutSecs < 1 || c.Client.TimeoutSecs > 600 {
		add("client.timeout_secs", "must be between 1 and 600, got %d", c.Client.TimeoutSecs)
	}

	// UI
	if !oneOf(c.UI.Formatter, "rules", "markdown") {
		add("ui.formatter", "invalid formatter '%s', must be one of: rules, markdown", c.UI.Formatter)
	}
	if c.UI.MaxInputLines < 1 || c.UI.MaxInputLines > 50 {
		add("ui.max_input_lines", "must be between 1 and 50, got %d", c.UI.MaxInputLines)
	}
	if c.UI.ScrollDelayMs < 0 || c.UI.ScrollDelayMs > 5000 {
		add("ui.scroll_delay_ms", "must be between 0 and 5000, got %d", c.UI.ScrollDelayMs)
	}
	if c.UI.NoticeSecs < 1 || c.UI.NoticeSecs > 60 {
		add("ui.notice_secs", "must be between 1 and 60, got %d", c.UI.NoticeSecs)
	}
	if !oneOf(c.UI.Theme, "auto", "dark", "light") {
		add("ui.theme", "invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme)
	}

	// Log
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}
	if !oneOf(c.Log.Format, "console", "json") {
		add("log.format", "invalid format '%s', must be one of: console, json", c.Log.Format)
	}

	// Backend
	if c.Backend.Addr == "" {
		add("backend.addr", "must not be empty")
	}
	if !oneOf(c.Backend.Responder, "echo", "gemini", "ollama") {
		add("backend.responder", "invalid responder '%s', must be one of: echo, gemini, ollama", c.Backend.Responder)
	}
	if c.Backend.RateLimitPerMin < 0 {
		add("backend.rate_limit_per_min", "must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - NOVA_URL: overrides client.base_url
//   - NOVA_TIMEOUT: overrides client.timeout_secs
//   - NOVA_LOG_LEVEL: overrides log.level
//   - NOVA_FORMATTER: overrides ui.formatter
//   - NOVA_BACKEND_ADDR: overrides backend.addr
//   - NOVA_RESPONDER: overrides backend.responder
//   - OLLAMA_HOST: overrides backend.ollama_url
//   - GOOGLE_API_KEY: overrides backend.gemini_api_key
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NOVA_URL"); v != "" {
		c.Client.BaseURL = v
	}
	if v := os.Getenv("NOVA_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Client.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("NOVA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("NOVA_FORMATTER"); v != "" {
		c.UI.Formatter = v
	}
	if v := os.Getenv("NOVA_BACKEND_ADDR"); v != "" {
		c.Backend.Addr = v
	}
	if v := os.Getenv("NOVA_RESPONDER"); v != "" {
		c.Backend.Responder = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Backend.OllamaURL = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Backend.GeminiAPIKey = v
	}
}

// =============================================================================
// MISC
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Backend.AllowedOrigins != nil {
		clone.Backend.AllowedOrigins = append([]string(nil), c.Backend.AllowedOrigins...)
	}
	return &clone
}

// String returns the config as TOML with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Backend.GeminiAPIKey != "" {
		safe.Backend.GeminiAPIKey = "[REDACTED]"
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Load errors fall back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
