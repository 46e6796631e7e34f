// ABOUTME: NutriWise configuration: storage backend, model provider, and logging.
// ABOUTME: Reads a JSON file at the XDG config path, then applies env overrides.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/harperreed/nutriwise/internal/gateway"
	"github.com/harperreed/nutriwise/internal/kv"
)

// DefaultLogLevel keeps the terminal quiet unless something degrades.
const DefaultLogLevel = "warn"

// Config stores nutriwise configuration.
type Config struct {
	// Backend selects the history store: "sqlite" (default), "badger", "charm", or "memory".
	Backend string `json:"backend,omitempty" env:"NUTRIWISE_BACKEND"`

	// DataDir is the root directory for local backends.
	// Supports ~ expansion. Defaults to ~/.local/share/nutriwise.
	DataDir string `json:"data_dir,omitempty" env:"NUTRIWISE_DATA_DIR"`

	// Provider selects the model service: "gemini" (default) or "ollama".
	Provider string `json:"provider,omitempty" env:"NUTRIWISE_PROVIDER"`
	Model    string `json:"model,omitempty" env:"NUTRIWISE_MODEL"`
	Endpoint string `json:"endpoint,omitempty" env:"NUTRIWISE_ENDPOINT"`
	APIKey   string `json:"api_key,omitempty" env:"NUTRIWISE_API_KEY"`

	TimeoutSeconds int    `json:"timeout_seconds,omitempty" env:"NUTRIWISE_TIMEOUT_SECONDS"`
	LogLevel       string `json:"log_level,omitempty" env:"NUTRIWISE_LOG_LEVEL"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return kv.BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetProvider returns the configured provider, defaulting to "gemini".
func (c *Config) GetProvider() string {
	if c.Provider == "" {
		return gateway.ProviderGemini
	}
	return c.Provider
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// Timeout returns the per-call model timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return gateway.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GatewayConfig translates settings for gateway.New.
func (c *Config) GatewayConfig() gateway.Config {
	return gateway.Config{
		Provider: c.GetProvider(),
		Model:    c.Model,
		Endpoint: c.Endpoint,
		APIKey:   c.APIKey,
		Timeout:  c.Timeout(),
	}
}

// Logger builds a stderr-style logger at the configured level.
func (c *Config) Logger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "nutriwise",
	}), nil
}

// OpenStore opens the configured backend.
func (c *Config) OpenStore() (kv.Store, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend rooted at the configured data dir.
func (c *Config) OpenBackend(backend string) (kv.Store, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case kv.BackendSQLite:
		return kv.OpenSQLite(filepath.Join(dataDir, kv.SQLiteFile))
	case kv.BackendBadger:
		return kv.OpenBadger(filepath.Join(dataDir, kv.BadgerDir))
	case kv.BackendCharm:
		return kv.OpenCharm()
	case kv.BackendMemory:
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nutriwise")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nutriwise", "config.json")
}

// Load reads the config file and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from disk without environment overrides.
func LoadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overlays NUTRIWISE_* variables. GEMINI_API_KEY fills an empty key.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// setters maps config keys to validated assignments.
var setters = map[string]func(c *Config, v string) error{
	"backend": func(c *Config, v string) error {
		if !kv.IsValidBackend(v) {
			return fmt.Errorf("invalid backend %q (valid: %s)", v, strings.Join(kv.AllBackends, ", "))
		}
		c.Backend = v
		return nil
	},
	"data_dir": func(c *Config, v string) error { c.DataDir = v; return nil },
	"provider": func(c *Config, v string) error {
		for _, p := range gateway.AllProviders {
			if p == v {
				c.Provider = v
				return nil
			}
		}
		return fmt.Errorf("invalid provider %q (valid: %s)", v, strings.Join(gateway.AllProviders, ", "))
	},
	"model":    func(c *Config, v string) error { c.Model = v; return nil },
	"endpoint": func(c *Config, v string) error { c.Endpoint = v; return nil },
	"api_key":  func(c *Config, v string) error { c.APIKey = v; return nil },
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid timeout_seconds %q: must be a non-negative integer", v)
		}
		c.TimeoutSeconds = n
		return nil
	},
	"log_level": func(c *Config, v string) error {
		if _, err := log.ParseLevel(v); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", v, err)
		}
		c.LogLevel = v
		return nil
	},
}

// Keys lists the settable config keys.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one key after validating its value.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

// Redacted returns a copy safe to print, with the API key masked.
func (c *Config) Redacted() Config {
	out := *c
	if out.APIKey != "" {
		if len(out.APIKey) > 4 {
			out.APIKey = "****" + out.APIKey[len(out.APIKey)-4:]
		} else {
			out.APIKey = "****"
		}
	}
	return out
}
