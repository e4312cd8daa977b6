// ABOUTME: Configuration loading and parsing for catalog-panel clients and the dev backend
// ABOUTME: Supports YAML or TOML files with .env loading, env var expansion, and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete catalog-panel configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Panel   PanelConfig   `yaml:"panel" toml:"panel"`
	Auth    AuthConfig    `yaml:"auth" toml:"auth"`
	Fake    FakeConfig    `yaml:"fake" toml:"fake"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ServerConfig locates the catalog backend
type ServerConfig struct {
	BaseURL string        `yaml:"base_url" toml:"base_url"`
	Timeout time.Duration `yaml:"-" toml:"-"`

	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// PanelConfig holds admin panel behaviour
type PanelConfig struct {
	PageSize       int           `yaml:"page_size" toml:"page_size"`
	SearchDebounce time.Duration `yaml:"-" toml:"-"`
	TerminalDelay  time.Duration `yaml:"-" toml:"-"`
	ToastDuration  time.Duration `yaml:"-" toml:"-"`
	ToastFade      time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	SearchDebounceRaw string `yaml:"search_debounce" toml:"search_debounce"`
	TerminalDelayRaw  string `yaml:"terminal_delay" toml:"terminal_delay"`
	ToastDurationRaw  string `yaml:"toast_duration" toml:"toast_duration"`
	ToastFadeRaw      string `yaml:"toast_fade" toml:"toast_fade"`
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	// Token is sent as "Authorization: Bearer <token>" when non-empty
	Token string `yaml:"token" toml:"token"`
	// JWTSecret lets the dev backend verify tokens and catalog-admin mint them
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret"`
}

// FakeConfig holds settings for the development backend (fake-catalog)
type FakeConfig struct {
	Addr             string        `yaml:"addr" toml:"addr"`
	DBPath           string        `yaml:"db_path" toml:"db_path"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	ProgressInterval time.Duration `yaml:"-" toml:"-"`
	WebhookTimeout   time.Duration `yaml:"-" toml:"-"`

	ProgressIntervalRaw string `yaml:"progress_interval" toml:"progress_interval"`
	WebhookTimeoutRaw   string `yaml:"webhook_timeout" toml:"webhook_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Panel: PanelConfig{
			PageSize:       50,
			SearchDebounce: 500 * time.Millisecond,
			TerminalDelay:  2 * time.Second,
			ToastDuration:  4 * time.Second,
			ToastFade:      300 * time.Millisecond,
		},
		Fake: FakeConfig{
			Addr:             "127.0.0.1:8000",
			DBPath:           ":memory:",
			MaxUploadBytes:   100 * 1024 * 1024,
			ProgressInterval: 500 * time.Millisecond,
			WebhookTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// A .env file beside the config is loaded first without overriding the environment.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads the config at Path(), falling back to Default() when the
// file does not exist. A .env in the working directory is honoured either way.
func LoadDefault() (*Config, error) {
	loadDotEnv(".env")

	path := Path()
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		return cfg, nil
	}
	return cfg, err
}

// Path returns the path to the config file.
// Priority: CATALOG_CONFIG env var > XDG_CONFIG_HOME/catalog/panel.yaml > ~/.config/catalog/panel.yaml
func Path() string {
	if envPath := os.Getenv("CATALOG_CONFIG"); envPath != "" {
		return envPath
	}
	return filepath.Join(Dir(), "panel.yaml")
}

// Dir returns the catalog config directory.
func Dir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "." // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "catalog")
}

// loadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Existing variables win; a missing file is not an error.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// applyEnv lets CATALOG_BASE_URL and CATALOG_TOKEN override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("CATALOG_TOKEN"); v != "" {
		c.Auth.Token = v
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url must be an http(s) URL, got %q", c.Server.BaseURL)
	}

	if c.Panel.PageSize < 1 || c.Panel.PageSize > 100 {
		return fmt.Errorf("panel.page_size must be between 1 and 100, got %d", c.Panel.PageSize)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 bytes")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
// Empty strings keep the defaults.
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.timeout", cfg.Server.TimeoutRaw, &cfg.Server.Timeout},
		{"panel.search_debounce", cfg.Panel.SearchDebounceRaw, &cfg.Panel.SearchDebounce},
		{"panel.terminal_delay", cfg.Panel.TerminalDelayRaw, &cfg.Panel.TerminalDelay},
		{"panel.toast_duration", cfg.Panel.ToastDurationRaw, &cfg.Panel.ToastDuration},
		{"panel.toast_fade", cfg.Panel.ToastFadeRaw, &cfg.Panel.ToastFade},
		{"fake.progress_interval", cfg.Fake.ProgressIntervalRaw, &cfg.Fake.ProgressInterval},
		{"fake.webhook_timeout", cfg.Fake.WebhookTimeoutRaw, &cfg.Fake.WebhookTimeout},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = d
	}

	return nil
}
