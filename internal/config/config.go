// Package config loads client configuration from the environment, optionally
// merged with a ~/.storefront/config.yaml file.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds the storefront client configuration.
type Config struct {
	// APIBaseURL is the backend base URL.
	APIBaseURL string `mapstructure:"api_base_url"`

	// SessionDBPath is the sqlite session database path.
	SessionDBPath string `mapstructure:"session_db_path"`

	// MercadoPagoBaseURL overrides the gateway base URL (tests only).
	MercadoPagoBaseURL string `mapstructure:"mercadopago_base_url"`

	// HTTPTimeoutSeconds bounds every backend request.
	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds"`

	// WebAddr is the listen address for the local web console.
	WebAddr string `mapstructure:"web_addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:         "http://localhost:8000",
		SessionDBPath:      defaultSessionPath(),
		HTTPTimeoutSeconds: 30,
		WebAddr:            ":8090",
	}
}

// Load merges, in increasing precedence: defaults, the optional YAML file at
// ~/.storefront/config.yaml, and environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".storefront", "config.yaml")
		if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.APIBaseURL = getEnv("STOREFRONT_API_URL", cfg.APIBaseURL)
	cfg.SessionDBPath = getEnv("STOREFRONT_SESSION_DB", cfg.SessionDBPath)
	cfg.MercadoPagoBaseURL = getEnv("STOREFRONT_MP_URL", cfg.MercadoPagoBaseURL)
	cfg.WebAddr = getEnv("STOREFRONT_WEB_ADDR", cfg.WebAddr)
	if raw := os.Getenv("STOREFRONT_HTTP_TIMEOUT"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			cfg.HTTPTimeoutSeconds = seconds
		}
	}

	return cfg, nil
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront/session.db"
	}
	return filepath.Join(home, ".storefront", "session.db")
}
