// Package config handles loading and managing VitalityPact configuration.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vitalitypact/vitalitypact/pkg/health"
)

// Config is the top-level configuration for VitalityPact.
type Config struct {
	User     string         `yaml:"user"`    // history owner for the CLI
	Partner  string         `yaml:"partner"` // overrides the partner chosen in settings
	History  HistoryConfig  `yaml:"history"`
	Dialogue DialogueConfig `yaml:"dialogue"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// HistoryConfig controls trend analysis windows.
type HistoryConfig struct {
	WindowDays    int `yaml:"window_days"`
	RetentionDays int `yaml:"retention_days"`
}

// DialogueConfig controls partner line generation.
type DialogueConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // env var holding the API key
	Timeout   int    `yaml:"timeout"`     // seconds
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // local, s3, gcs, redis or postgres
	Dir         string `yaml:"dir"`     // local backend root
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`   // s3 only
	Endpoint    string `yaml:"endpoint"` // s3-compatible endpoint, e.g. MinIO
	RedisAddr   string `yaml:"redis_addr"`
	DatabaseURL string `yaml:"database_url"`
}

// LogConfig controls logging.
type LogConfig struct {
	Mode string `yaml:"mode"` // dev or prod
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		User: "default",
		History: HistoryConfig{
			WindowDays:    7,
			RetentionDays: health.RetentionDays,
		},
		Dialogue: DialogueConfig{
			Enabled:   true,
			APIKeyEnv: "VITALITY_LLM_API_KEY",
			Timeout:   15,
		},
		Storage: StorageConfig{
			Backend: "local",
			Dir:     DataDir(),
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.History.WindowDays <= 0 {
		return fmt.Errorf("history.window_days must be positive, got %d", c.History.WindowDays)
	}
	if c.History.RetentionDays < c.History.WindowDays {
		return fmt.Errorf("history.retention_days (%d) is shorter than window_days (%d)",
			c.History.RetentionDays, c.History.WindowDays)
	}
	switch c.Storage.Backend {
	case "local", "s3", "gcs", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// DialogueTimeout returns the configured timeout as a duration.
func (c *Config) DialogueTimeout() time.Duration {
	return time.Duration(c.Dialogue.Timeout) * time.Second
}

// DialogueAPIKey reads the API key from the configured environment variable.
func (c *Config) DialogueAPIKey() string {
	if c.Dialogue.APIKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.Dialogue.APIKeyEnv))
}

// FindConfigFile looks for .vitalitypact/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".vitalitypact", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// DataDir returns the default local data directory, ~/.local/share/vitalitypact.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "share", "vitalitypact")
}

// UserKey encodes a user ID as a filesystem- and key-safe name. The encoding
// is one-to-one, so distinct IDs never share a namespace, and it uses only
// lowercase hex so case-insensitive filesystems cannot merge two keys.
func UserKey(userID string) string {
	if userID == "" {
		return "default"
	}
	return hex.EncodeToString([]byte(userID))
}
