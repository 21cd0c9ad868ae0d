package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.SessionDBPath == "" {
		t.Error("SessionDBPath must have a default")
	}
	if cfg.HTTPTimeout() != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://api.example.com")
	t.Setenv("STOREFRONT_SESSION_DB", "/tmp/s.db")
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.SessionDBPath != "/tmp/s.db" {
		t.Errorf("SessionDBPath = %q", cfg.SessionDBPath)
	}
	if cfg.HTTPTimeout() != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout())
	}
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".storefront")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		writeConfigFile(t, "api_base_url: https://file.example.com\nhttp_timeout_seconds: 10\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIBaseURL != "https://file.example.com" {
			t.Errorf("APIBaseURL = %q, want the file value", cfg.APIBaseURL)
		}
		if cfg.HTTPTimeout() != 10*time.Second {
			t.Errorf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout())
		}
		// Keys absent from the file keep their defaults.
		if cfg.WebAddr != ":8090" {
			t.Errorf("WebAddr = %q, want default", cfg.WebAddr)
		}
	})

	t.Run("env overrides the file", func(t *testing.T) {
		writeConfigFile(t, "api_base_url: https://file.example.com\n")
		t.Setenv("STOREFRONT_API_URL", "https://env.example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIBaseURL != "https://env.example.com" {
			t.Errorf("APIBaseURL = %q, want the env value", cfg.APIBaseURL)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		writeConfigFile(t, "api_base_url: [unclosed\n")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})
}

func TestLoadIgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_TIMEOUT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPTimeout() != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want default 30s", cfg.HTTPTimeout())
	}
}
