// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/campus-assistant/internal/util"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CAMPUS_"

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete campus assistant configuration.
type Config struct {
	Chat      ChatConfig    `toml:"chat" json:"chat" yaml:"chat" envPrefix:"CHAT_"`
	Server    ServerConfig  `toml:"server" json:"server" yaml:"server" envPrefix:"SERVER_"`
	Log       LogConfig     `toml:"log" json:"log" yaml:"log" envPrefix:"LOG_"`
	Inquiries InquiryConfig `toml:"inquiries" json:"inquiries" yaml:"inquiries" envPrefix:"INQUIRIES_"`
	UI        UIConfig      `toml:"ui" json:"ui" yaml:"ui" envPrefix:"UI_"`
}

// Quick action modes.
const (
	QuickActionStore   = "store"
	QuickActionPrefill = "prefill"
	QuickActionSubmit  = "submit"
)

// ChatConfig controls conversation behavior.
type ChatConfig struct {
	// ReplyDelay is the simulated typing time before a canned reply.
	ReplyDelay Duration `toml:"reply_delay" json:"reply_delay" yaml:"reply_delay" env:"REPLY_DELAY"`

	// MaxMessages caps the in-memory history (0 = unlimited).
	MaxMessages int `toml:"max_messages" json:"max_messages" yaml:"max_messages" env:"MAX_MESSAGES"`

	// InputLimit is the maximum message length in characters.
	InputLimit int `toml:"input_limit" json:"input_limit" yaml:"input_limit" env:"INPUT_LIMIT"`

	// QuickActionMode decides what selecting a quick action does:
	// store, prefill or submit.
	QuickActionMode string `toml:"quick_action_mode" json:"quick_action_mode" yaml:"quick_action_mode" env:"QUICK_ACTION_MODE"`
}

// ServerConfig controls the widget HTTP API.
type ServerConfig struct {
	Host           string   `toml:"host" json:"host" yaml:"host" env:"HOST"`
	Port           int      `toml:"port" json:"port" yaml:"port" env:"PORT"`
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	// RateLimit is the sustained requests per second allowed per client.
	RateLimit float64 `toml:"rate_limit" json:"rate_limit" yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int     `toml:"rate_burst" json:"rate_burst" yaml:"rate_burst" env:"RATE_BURST"`

	// SessionTTL expires idle chat sessions.
	SessionTTL  Duration `toml:"session_ttl" json:"session_ttl" yaml:"session_ttl" env:"SESSION_TTL"`
	MaxSessions int      `toml:"max_sessions" json:"max_sessions" yaml:"max_sessions" env:"MAX_SESSIONS"`

	ShutdownTimeout Duration `toml:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level" env:"LEVEL"`
	Format string `toml:"format" json:"format" yaml:"format" env:"FORMAT"` // console or json
	File   string `toml:"file" json:"file" yaml:"file" env:"FILE"`
}

// InquiryConfig controls the local inquiry log.
type InquiryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled" env:"ENABLED"`
	Path    string `toml:"path" json:"path" yaml:"path" env:"PATH"`
}

// UIConfig controls the terminal UI.
type UIConfig struct {
	Theme     string `toml:"theme" json:"theme" yaml:"theme" env:"THEME"` // auto, dark, light
	Compact   bool   `toml:"compact" json:"compact" yaml:"compact" env:"COMPACT"`
	ShowStats bool   `toml:"show_stats" json:"show_stats" yaml:"show_stats" env:"SHOW_STATS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chat: ChatConfig{
			ReplyDelay:      Duration(1500 * time.Millisecond),
			MaxMessages:     0,
			InputLimit:      500,
			QuickActionMode: QuickActionPrefill,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8787,
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
			RateLimit:       5,
			RateBurst:       10,
			SessionTTL:      Duration(30 * time.Minute),
			MaxSessions:     1000,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Inquiries: InquiryConfig{
			Enabled: false,
		},
		UI: UIConfig{
			Theme:     "auto",
			ShowStats: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the configuration directory. CAMPUS_HOME overrides the
// default of ~/.campus-assistant.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".campus-assistant"), nil
}

// candidateNames lists config file names in lookup order.
var candidateNames = []string{"config.toml", "config.json", "config.yaml", "config.yml"}

// FindConfigFile returns the first existing config file in dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range candidateNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultPath returns the TOML config location used by Save.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogFile returns the log file used while the TUI owns the terminal.
func DefaultLogFile() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "campus-assistant.log")
	}
	return filepath.Join(dir, "campus.log")
}

// DefaultInquiryPath returns the default inquiry log database location.
func DefaultInquiryPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "campus-inquiries.db")
	}
	return filepath.Join(dir, "inquiries.db")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the config file, a .env file
// in the working directory and CAMPUS_* environment variables, in that order
// of increasing precedence.
//
// An empty path searches the config directory. A missing file is not an
// error; a file that fails to parse is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := ConfigDir()
		if err == nil {
			path = FindConfigFile(dir)
		}
	}

	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes the file at path over cfg, picking the decoder from the
// file extension.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// LoadDotEnv exports variables from a dotenv file without overriding the
// existing environment. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CAMPUS_* environment variables on cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SetDefaults fills zero values that must not stay zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Chat.InputLimit == 0 {
		c.Chat.InputLimit = defaults.Chat.InputLimit
	}
	if c.Chat.QuickActionMode == "" {
		c.Chat.QuickActionMode = defaults.Chat.QuickActionMode
	}
	c.Chat.QuickActionMode = strings.ToLower(c.Chat.QuickActionMode)

	if c.Server.Host == "" {
		c.Server.Host = defaults.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = defaults.Server.RateBurst
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = defaults.Server.SessionTTL
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}

	if c.Inquiries.Path == "" {
		c.Inquiries.Path = DefaultInquiryPath()
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path, encoding by extension. An empty path writes the
// default TOML file.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var b strings.Builder
		b.WriteString("# Smart Campus Assistant configuration\n\n")
		if err = toml.NewEncoder(&b).Encode(cfg); err == nil {
			data = []byte(b.String())
		}
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
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

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Chat.ReplyDelay < 0 || c.Chat.ReplyDelay.Std() > time.Minute {
		errs = append(errs, ValidationError{
			Field:   "chat.reply_delay",
			Message: fmt.Sprintf("must be between 0s and 1m, got %s", c.Chat.ReplyDelay),
		})
	}
	if c.Chat.MaxMessages < 0 {
		errs = append(errs, ValidationError{Field: "chat.max_messages", Message: "must not be negative"})
	}
	if c.Chat.InputLimit < 1 || c.Chat.InputLimit > 10000 {
		errs = append(errs, ValidationError{
			Field:   "chat.input_limit",
			Message: fmt.Sprintf("must be between 1 and 10000, got %d", c.Chat.InputLimit),
		})
	}
	validModes := []string{QuickActionStore, QuickActionPrefill, QuickActionSubmit}
	if !slices.Contains(validModes, c.Chat.QuickActionMode) {
		errs = append(errs, ValidationError{
			Field:   "chat.quick_action_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: %s", c.Chat.QuickActionMode, strings.Join(validModes, ", ")),
		})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", c.Server.Port),
		})
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "server.rate_limit", Message: "must not be negative"})
	}
	if c.Server.RateBurst < 1 {
		errs = append(errs, ValidationError{Field: "server.rate_burst", Message: "must be at least 1"})
	}
	if c.Server.SessionTTL.Std() < time.Minute {
		errs = append(errs, ValidationError{
			Field:   "server.session_ttl",
			Message: fmt.Sprintf("must be at least 1m, got %s", c.Server.SessionTTL),
		})
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, ValidationError{Field: "server.max_sessions", Message: "must not be negative"})
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Server.AllowedOrigins = slices.Clone(c.Server.AllowedOrigins)
	return &clone
}

// String renders the config as TOML for `config show`.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigPath string
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// SetGlobalPath sets the file Global and ReloadGlobal read from. It must be
// called before the first Global call to take effect there.
func SetGlobalPath(path string) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfigPath = path
}

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		globalConfigMu.RLock()
		path := globalConfigPath
		globalConfigMu.RUnlock()

		cfg, err := Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.SetDefaults()
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

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() (*Config, error) {
	globalConfigMu.RLock()
	path := globalConfigPath
	globalConfigMu.RUnlock()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	SetGlobal(cfg)
	return cfg, nil
}

// SetGlobal replaces the global configuration.
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
	globalConfigPath = ""
	globalConfigOnce = sync.Once{}
}
